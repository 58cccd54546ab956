package roster

import (
	"fmt"
	"time"
)

// =============================================================================
// DAY - Calendar date at day granularity (always a UTC midnight)
// =============================================================================

type Day struct {
	Time time.Time
}

// Constructors
func NewDay(year int, month time.Month, day int) Day {
	return Day{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func Today() Day {
	now := time.Now().UTC()
	return NewDay(now.Year(), now.Month(), now.Day())
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return NewDay(t.Year(), t.Month(), t.Day()), nil
}

// Comparison
func (d Day) Before(other Day) bool        { return d.normalize().Before(other.normalize()) }
func (d Day) Equal(other Day) bool         { return d.normalize().Equal(other.normalize()) }
func (d Day) After(other Day) bool         { return d.normalize().After(other.normalize()) }
func (d Day) BeforeOrEqual(other Day) bool { return d.Before(other) || d.Equal(other) }
func (d Day) AfterOrEqual(other Day) bool  { return d.After(other) || d.Equal(other) }

func (d Day) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Day) AddDays(n int) Day   { return Day{Time: d.normalize().AddDate(0, 0, n)} }
func (d Day) AddMonths(n int) Day { return Day{Time: d.normalize().AddDate(0, n, 0)} }

// Properties
func (d Day) Year() int             { return d.Time.Year() }
func (d Day) Month() time.Month     { return d.Time.Month() }
func (d Day) DayOfMonth() int       { return d.Time.Day() }
func (d Day) Weekday() time.Weekday { return d.normalize().Weekday() }
func (d Day) IsSaturday() bool      { return d.Weekday() == time.Saturday }
func (d Day) IsSunday() bool        { return d.Weekday() == time.Sunday }
func (d Day) IsZero() bool          { return d.Time.IsZero() }

func (d Day) String() string { return d.normalize().Format("2006-01-02") }

func DaysBetween(from, to Day) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

// =============================================================================
// CLOCK TIME - Minutes since midnight ("HH:MM" on the wire)
// =============================================================================

type ClockTime int

func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return NewClockTime(t.Hour(), t.Minute()), nil
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) Before(other ClockTime) bool { return c < other }
func (c ClockTime) After(other ClockTime) bool  { return c > other }

// MinutesUntil returns the minutes from c to other; negative when other is
// earlier in the day.
func (c ClockTime) MinutesUntil(other ClockTime) int { return int(other) - int(c) }

// At anchors the clock time on a concrete date.
func (c ClockTime) At(d Day) time.Time {
	return time.Date(d.Year(), d.Month(), d.DayOfMonth(), c.Hour(), c.Minute(), 0, 0, time.UTC)
}

func (c ClockTime) String() string { return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute()) }

// =============================================================================
// ISO WEEK - 7-day Monday-Sunday period per ISO-8601 numbering
// =============================================================================

type ISOWeek struct {
	Year int
	Week int
}

func WeekOf(d Day) ISOWeek {
	year, week := d.normalize().ISOWeek()
	return ISOWeek{Year: year, Week: week}
}

// ParseISOWeek accepts the "2024-W10" form.
func ParseISOWeek(s string) (ISOWeek, error) {
	var year, week int
	if _, err := fmt.Sscanf(s, "%d-W%d", &year, &week); err != nil {
		return ISOWeek{}, fmt.Errorf("invalid ISO week %q: %w", s, err)
	}
	w := ISOWeek{Year: year, Week: week}
	if !w.Valid() {
		return ISOWeek{}, fmt.Errorf("invalid ISO week %q: %w", s, ErrInvalidWeek)
	}
	return w, nil
}

// Valid checks the week number against the year's actual week count.
func (w ISOWeek) Valid() bool {
	if w.Week < 1 || w.Week > 53 {
		return false
	}
	if w.Week == 53 {
		// Dec 28 always sits in the last ISO week of its year.
		_, last := NewDay(w.Year, time.December, 28).normalize().ISOWeek()
		return last == 53
	}
	return w.Year > 0
}

// Monday returns the first day of the week. ISO-8601 anchors week 1 on the
// week containing January 4.
func (w ISOWeek) Monday() Day {
	jan4 := NewDay(w.Year, time.January, 4)
	week1Monday := jan4.AddDays(-mondayIndex(jan4.Weekday()))
	return week1Monday.AddDays((w.Week - 1) * 7)
}

func (w ISOWeek) Saturday() Day { return w.Monday().AddDays(5) }
func (w ISOWeek) Sunday() Day   { return w.Monday().AddDays(6) }

// Days returns the seven dates of the week, Monday through Sunday.
func (w ISOWeek) Days() [7]Day {
	var days [7]Day
	monday := w.Monday()
	for i := 0; i < 7; i++ {
		days[i] = monday.AddDays(i)
	}
	return days
}

func (w ISOWeek) Contains(d Day) bool { return WeekOf(d) == w }
func (w ISOWeek) Next() ISOWeek       { return WeekOf(w.Monday().AddDays(7)) }
func (w ISOWeek) Prev() ISOWeek       { return WeekOf(w.Monday().AddDays(-7)) }

// HasBegun reports whether the week's Monday is today or earlier. Weeks that
// have begun are never regenerated automatically.
func (w ISOWeek) HasBegun(today Day) bool { return w.Monday().BeforeOrEqual(today) }

func (w ISOWeek) String() string { return fmt.Sprintf("%d-W%02d", w.Year, w.Week) }

// mondayIndex maps time.Weekday onto Monday=0..Sunday=6.
func mondayIndex(wd time.Weekday) int { return (int(wd) + 6) % 7 }

// =============================================================================
// MONTH HELPERS
// =============================================================================

func StartOfMonth(year int, month time.Month) Day { return NewDay(year, month, 1) }

func EndOfMonth(year int, month time.Month) Day {
	return Day{Time: time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)}
}

// NthSaturdayOfMonth returns the 1-based rank of d among its month's
// Saturdays, or 0 when d is not a Saturday.
func NthSaturdayOfMonth(d Day) int {
	if !d.IsSaturday() {
		return 0
	}
	first := StartOfMonth(d.Year(), d.Month())
	offset := (int(time.Saturday) - int(first.Weekday()) + 7) % 7
	firstSaturday := first.AddDays(offset)
	return 1 + DaysBetween(firstSaturday, d)/7
}

// SaturdaysInMonth lists every Saturday of the month in ascending order.
func SaturdaysInMonth(year int, month time.Month) []Day {
	first := StartOfMonth(year, month)
	offset := (int(time.Saturday) - int(first.Weekday()) + 7) % 7
	var saturdays []Day
	for d := first.AddDays(offset); d.Month() == month; d = d.AddDays(7) {
		saturdays = append(saturdays, d)
	}
	return saturdays
}
