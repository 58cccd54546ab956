package roster

import "time"

// =============================================================================
// DATE RANGE - Inclusive [Start, End] span of days
// =============================================================================

// DateRange is the reporting and querying span. Both bounds are inclusive;
// absence intervals, report windows, and week/month extents all use it.
type DateRange struct {
	Start Day
	End   Day
}

// NewDateRange validates Start <= End.
func NewDateRange(start, end Day) (DateRange, error) {
	if end.Before(start) {
		return DateRange{}, ErrInvalidRange
	}
	return DateRange{Start: start, End: end}, nil
}

// RangeOfWeek spans the seven days of an ISO week.
func RangeOfWeek(w ISOWeek) DateRange {
	return DateRange{Start: w.Monday(), End: w.Sunday()}
}

// RangeOfMonth spans a full calendar month.
func RangeOfMonth(year int, month time.Month) DateRange {
	return DateRange{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}
}

// Contains returns true if the day is within [Start, End].
func (r DateRange) Contains(d Day) bool {
	return d.AfterOrEqual(r.Start) && d.BeforeOrEqual(r.End)
}

// Days returns every day in the range in ascending order.
func (r DateRange) Days() []Day {
	var days []Day
	for current := r.Start; current.BeforeOrEqual(r.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

// Length is the number of days spanned, inclusive of both bounds.
func (r DateRange) Length() int { return DaysBetween(r.Start, r.End) + 1 }

// Overlaps reports whether the two ranges share at least one day.
func (r DateRange) Overlaps(o DateRange) bool {
	return r.Start.BeforeOrEqual(o.End) && o.Start.BeforeOrEqual(r.End)
}

// Intersect clamps r to the days shared with o. The boolean is false when
// the ranges are disjoint.
func (r DateRange) Intersect(o DateRange) (DateRange, bool) {
	if !r.Overlaps(o) {
		return DateRange{}, false
	}
	start := r.Start
	if o.Start.After(start) {
		start = o.Start
	}
	end := r.End
	if o.End.Before(end) {
		end = o.End
	}
	return DateRange{Start: start, End: end}, true
}

func (r DateRange) IsZero() bool { return r.Start.IsZero() && r.End.IsZero() }

func (r DateRange) String() string {
	return "[" + r.Start.String() + ", " + r.End.String() + "]"
}
