/*
Package timesheet tracks deviations from the generated roster.

PURPOSE:
  The roster package answers "who is supposed to work when". This package
  answers "what actually happened": absences and late arrivals are folded
  onto the generated schedule to produce effective worked hours, which the
  hour report aggregates per employee over an arbitrary date range.

KEY CONCEPTS IN THIS FILE (types.go):
  - AbsenceRecord: A closed date interval during which the employee is not
    expected to work, whatever the roster says
  - LatenessRecord: A shortfall against the planned start of a working day
  - EffectiveDay: One employee-day after deviations are applied
  - HourReportRow: Per-employee totals over a range, with the planned,
    absence and lateness breakdown

PRECEDENCE:
  Absence beats lateness beats plan. A day inside an absence interval is
  zero effective hours regardless of entry status; a late arrival only
  shaves minutes off a working day.

SEE ALSO:
  - deviation.go: The fold from entries + records to EffectiveDay
  - aggregate.go: The range reduction to HourReportRow
  - tracker.go: The stored service the HTTP layer calls
*/
package timesheet

import (
	"github.com/geraldbelrose-cyber/skello-perso/roster"
)

// =============================================================================
// ABSENCE - Closed interval of expected non-work
// =============================================================================

type AbsenceKind string

const (
	KindLeave    AbsenceKind = "leave"
	KindSickness AbsenceKind = "sickness"
	KindUnpaid   AbsenceKind = "unpaid"
	KindOther    AbsenceKind = "other"
)

func (k AbsenceKind) Valid() bool { return LookupKind(k) != nil }

// AbsenceRecord covers every date from StartDate to EndDate inclusive.
// Consumed read-only by the deviation fold; created and edited through
// the Tracker.
type AbsenceRecord struct {
	ID         string
	EmployeeID roster.EmployeeID
	StartDate  roster.Day
	EndDate    roster.Day
	Kind       AbsenceKind
	Justified  bool
	Comment    string
}

// Covers reports whether the given date falls inside the absence interval.
func (a AbsenceRecord) Covers(d roster.Day) bool {
	return !d.Before(a.StartDate) && !d.After(a.EndDate)
}

// Range returns the absence interval as a DateRange.
func (a AbsenceRecord) Range() (roster.DateRange, error) {
	return roster.NewDateRange(a.StartDate, a.EndDate)
}

// =============================================================================
// LATENESS - Shortfall against the planned start of a working day
// =============================================================================

// LatenessRecord holds at most one late arrival per (employee, date).
// Records arrive either with the scheduled/arrival clock pair, from which
// MinutesLate is derived, or with MinutesLate set directly.
type LatenessRecord struct {
	ID          string
	EmployeeID  roster.EmployeeID
	Date        roster.Day
	ScheduledAt roster.ClockTime
	ArrivedAt   roster.ClockTime
	MinutesLate int
	Justified   bool
	Comment     string
}

// Key identifies the unique (employee, date) slot this record occupies.
func (l LatenessRecord) Key() string {
	return string(l.EmployeeID) + "@" + l.Date.String()
}

// =============================================================================
// EFFECTIVE DAY - One employee-day after deviations
// =============================================================================

// ReasonCode explains why an effective day deviates from its plan. Absence
// days carry their kind; shaved working days carry ReasonLateness. Days
// that match the plan carry no reason.
type ReasonCode string

const (
	ReasonLeave    ReasonCode = ReasonCode(KindLeave)
	ReasonSickness ReasonCode = ReasonCode(KindSickness)
	ReasonUnpaid   ReasonCode = ReasonCode(KindUnpaid)
	ReasonOther    ReasonCode = ReasonCode(KindOther)
	ReasonLateness ReasonCode = "lateness"
)

// FromAbsence reports whether the reason is an absence kind rather than a
// late arrival.
func (r ReasonCode) FromAbsence() bool { return r != ReasonLateness && r != "" }

// EffectiveDay is derived, never persisted. PlannedHours keeps the hours
// that would have been worked even when EffectiveHours is zero, so reports
// can show both sides.
type EffectiveDay struct {
	EmployeeID     roster.EmployeeID
	Date           roster.Day
	PlannedHours   roster.Hours
	EffectiveHours roster.Hours
	Reasons        []ReasonCode
}

// Lost returns the hours the day fell short of its plan.
func (d EffectiveDay) Lost() roster.Hours {
	return d.PlannedHours.Sub(d.EffectiveHours)
}

// =============================================================================
// HOUR REPORT ROW - Per-employee totals over a range
// =============================================================================

// HourReportRow sums one employee's effective days over [RangeStart,
// RangeEnd]. TotalEffectiveHours always equals PlannedHours minus
// AbsenceHours minus LatenessHours.
type HourReportRow struct {
	EmployeeID roster.EmployeeID
	RangeStart roster.Day
	RangeEnd   roster.Day

	PlannedHours        roster.Hours
	AbsenceHours        roster.Hours
	LatenessHours       roster.Hours
	TotalEffectiveHours roster.Hours
}
