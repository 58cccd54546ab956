/*
Package roster provides the core weekly scheduling engine.

PURPOSE:
  This package contains the pure types and algorithms for building weekly
  shift rosters under recurring labor-policy constraints: one rest day per
  employee per ISO week, at most one Saturday off per employee per calendar
  month, Sundays always closed, and a configurable daily work window.

KEY CONCEPTS IN THIS FILE (types.go):
  - Hours: A decimal-backed quantity of worked hours
  - Employee: The scheduled person (profile data lives in profile.go)
  - ScheduleEntry: One employee-day cell of the roster, generated or manual
  - WeekSchedule: A full generated week for one employee

DESIGN PRINCIPLES:
  1. Purity: The engines receive materialized inputs and return values;
     persistence and transport live outside this package
  2. Precision: Uses decimal.Decimal so 45 minutes is exactly 0.75 hours
  3. Stability: Manual entries are tagged data, never discarded or
     auto-corrected by regeneration
  4. Determinism: Same inputs always produce byte-identical rosters

USAGE:
  gen := roster.NewGenerator()
  week, _ := gen.GenerateWeek(roster.GenerateInput{
      Profile:  profile,
      Week:     roster.ISOWeek{Year: 2024, Week: 10},
      Settings: roster.OfficeSettings(),
  })

SEE ALSO:
  - constraint.go: Rest-day and Saturday-off decisions
  - generate.go: Week assembly and manual-entry merging
  - book.go: Write-side duplicate/freeze semantics
*/
package roster

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// HOURS - Worked-hour quantity (always hours for this system)
// =============================================================================

type Hours struct {
	Value decimal.Decimal
}

func NewHours(value float64) Hours {
	return Hours{Value: decimal.NewFromFloat(value)}
}

func HoursFromMinutes(minutes int) Hours {
	return Hours{Value: decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60))}
}

func ZeroHours() Hours {
	return Hours{Value: decimal.Zero}
}

func (h Hours) Add(o Hours) Hours        { return Hours{Value: h.Value.Add(o.Value)} }
func (h Hours) Sub(o Hours) Hours        { return Hours{Value: h.Value.Sub(o.Value)} }
func (h Hours) Neg() Hours               { return Hours{Value: h.Value.Neg()} }
func (h Hours) IsZero() bool             { return h.Value.IsZero() }
func (h Hours) IsNegative() bool         { return h.Value.IsNegative() }
func (h Hours) GreaterThan(o Hours) bool { return h.Value.GreaterThan(o.Value) }
func (h Hours) LessThan(o Hours) bool    { return h.Value.LessThan(o.Value) }
func (h Hours) Equal(o Hours) bool       { return h.Value.Equal(o.Value) }
func (h Hours) Float64() float64         { f, _ := h.Value.Float64(); return f }
func (h Hours) String() string           { return h.Value.String() }

func (h Hours) Min(o Hours) Hours {
	if h.LessThan(o) {
		return h
	}
	return o
}

// FloorZero clamps negative amounts to zero. Lateness deductions never push
// an effective day below zero hours.
func (h Hours) FloorZero() Hours {
	if h.IsNegative() {
		return ZeroHours()
	}
	return h
}

// Fixed2 renders with exactly two decimal places, the report format.
func (h Hours) Fixed2() string { return h.Value.StringFixed(2) }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string

// =============================================================================
// EMPLOYEE
// =============================================================================

type Employee struct {
	ID     EmployeeID
	Name   string
	Active bool
}

// =============================================================================
// SCHEDULE ENTRY - One employee-day cell of the roster
// =============================================================================

type EntryStatus string

const (
	// StatusWorking is a shift with a concrete start/end window.
	StatusWorking EntryStatus = "working"
	// StatusRestDay is the one contractually mandated weekly rest day.
	StatusRestDay EntryStatus = "rest_day"
	// StatusSaturdayOff is the monthly Saturday allocation, distinct from
	// the weekly rest day.
	StatusSaturdayOff EntryStatus = "saturday_off"
	// StatusClosed marks company-wide non-operating days (every Sunday).
	StatusClosed EntryStatus = "closed"
)

func (s EntryStatus) Valid() bool {
	switch s {
	case StatusWorking, StatusRestDay, StatusSaturdayOff, StatusClosed:
		return true
	}
	return false
}

// NonWorking reports whether the status carries zero planned hours.
func (s EntryStatus) NonWorking() bool { return s != StatusWorking }

type ScheduleEntry struct {
	EmployeeID EmployeeID
	Date       Day
	Status     EntryStatus

	// Shift window, meaningful only when Status == StatusWorking. The window
	// is snapshotted from the policy at generation time so later settings
	// changes do not rewrite history.
	Start        ClockTime
	End          ClockTime
	BreakMinutes int

	// Manual marks a human-authored row. Regeneration preserves manual rows
	// byte-identical and subtracts their days from the constraint pool.
	Manual bool

	// Replacement coverage: this shift stands in for another employee.
	Replacement      bool
	ReplacesEmployee EmployeeID

	Comment string
}

// PlannedHours is the nominal workload of the entry: the shift window minus
// the break, or zero for non-working statuses.
func (e ScheduleEntry) PlannedHours() Hours {
	if e.Status != StatusWorking {
		return ZeroHours()
	}
	minutes := e.Start.MinutesUntil(e.End) - e.BreakMinutes
	if minutes < 0 {
		minutes = 0
	}
	return HoursFromMinutes(minutes)
}

// Key identifies the unique (employee, date) slot this entry occupies.
func (e ScheduleEntry) Key() string {
	return fmt.Sprintf("%s@%s", e.EmployeeID, e.Date)
}

// =============================================================================
// WEEK SCHEDULE - Generator output for one employee-week
// =============================================================================

type WeekSchedule struct {
	EmployeeID EmployeeID
	Week       ISOWeek

	// Entries holds exactly seven rows, Monday through Sunday.
	Entries []ScheduleEntry

	// Plan is the constraint decision the week was built from.
	Plan WeekPlan

	// Conflict is set when manual entries violate a hard constraint. The
	// conflicting rows are retained unchanged in Entries; resolution is the
	// operator's, never the generator's.
	Conflict *ConstraintConflictError

	// Warnings carries non-fatal policy shortfalls (quota cannot be met in
	// the period). Generation still completes best-effort.
	Warnings []*PolicyUnsatisfiableError
}

// Entry returns the row for the given date, or nil if the date is outside
// the week.
func (ws WeekSchedule) Entry(d Day) *ScheduleEntry {
	for i := range ws.Entries {
		if ws.Entries[i].Date.Equal(d) {
			return &ws.Entries[i]
		}
	}
	return nil
}
