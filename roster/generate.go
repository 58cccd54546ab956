/*
generate.go - Week assembly and manual-entry merging

PURPOSE:
  The generator turns a constraint decision into the seven ScheduleEntry
  rows of an employee-week, Monday through Sunday. Manual rows already
  present in the week are preserved byte-identical; everything else is
  derived fresh from the policy window and the WeekPlan.

GUARANTEES:
  - Idempotent: the same inputs (including the same manual rows) always
    produce an identical sequence
  - Manual rows are never discarded or rewritten; their days are excluded
    from constraint application
  - Conflicting manual rows (two rest days in one week) surface as a
    ConstraintConflict carrying both rows untouched; the generator never
    picks a winner among human-authored data
  - Sundays are always Closed

SEE ALSO:
  - constraint.go: The WeekPlan the assembly follows
  - book.go: Persisting a generated week without clobbering manual rows
*/
package roster

import "fmt"

// =============================================================================
// GENERATOR
// =============================================================================

type Generator struct {
	constraints *ConstraintEngine
}

func NewGenerator() *Generator {
	return &Generator{constraints: NewConstraintEngine()}
}

// GenerateInput carries one employee-week generation request. Prior holds
// the employee's existing entries: whatever history the caller materialized
// (the current month at minimum) plus any rows already inside the target
// week. Non-manual rows inside the target week are re-derived, manual rows
// are frozen.
type GenerateInput struct {
	Profile  EmployeeProfile
	Week     ISOWeek
	Settings PolicySettings
	Prior    []ScheduleEntry
	Absences []DateRange
}

// GenerateWeek produces the full week. A hard input problem (malformed
// week, invalid settings) is an error; manual-entry collisions and policy
// shortfalls ride on the result instead, because generation must complete
// and retain the operator's data either way.
func (g *Generator) GenerateWeek(in GenerateInput) (WeekSchedule, error) {
	if !in.Week.Valid() {
		return WeekSchedule{}, fmt.Errorf("%s: %w", in.Week, ErrInvalidWeek)
	}
	if err := in.Settings.Validate(); err != nil {
		return WeekSchedule{}, err
	}

	history, frozen := splitPrior(in.Prior, in.Week)

	plan, err := g.constraints.PlanWeek(ConstraintInput{
		Profile:  in.Profile,
		Week:     in.Week,
		Settings: in.Settings,
		History:  history,
		Frozen:   frozen,
		Absences: in.Absences,
	})
	if err != nil {
		return WeekSchedule{}, err
	}

	out := WeekSchedule{
		EmployeeID: in.Profile.EmployeeID,
		Week:       in.Week,
		Plan:       plan,
		Warnings:   plan.Warnings,
		Conflict:   manualRestConflict(in.Profile.EmployeeID, in.Week, in.Settings, frozen),
	}

	manualByDay := make(map[string]ScheduleEntry, len(frozen))
	for _, entry := range frozen {
		manualByDay[entry.Date.String()] = entry
	}

	for _, d := range in.Week.Days() {
		if manual, ok := manualByDay[d.String()]; ok {
			out.Entries = append(out.Entries, manual)
			continue
		}
		out.Entries = append(out.Entries, g.deriveEntry(in, plan, d))
	}
	return out, nil
}

// deriveEntry builds the generated row for one non-frozen day.
func (g *Generator) deriveEntry(in GenerateInput, plan WeekPlan, d Day) ScheduleEntry {
	entry := ScheduleEntry{
		EmployeeID: in.Profile.EmployeeID,
		Date:       d,
	}

	switch {
	case d.IsSunday():
		entry.Status = StatusClosed
	case plan.AssignRest && d.Weekday() == plan.RestDay:
		entry.Status = StatusRestDay
	case d.IsSaturday() && plan.SaturdayOff:
		entry.Status = StatusSaturdayOff
	default:
		entry.Status = StatusWorking
		entry.Start, entry.End, entry.BreakMinutes = in.Settings.WindowFor(d)
	}
	return entry
}

// splitPrior separates the employee's existing entries into history (outside
// the target week) and frozen manual rows (inside it). Non-manual rows
// inside the week are dropped: regeneration supersedes them.
func splitPrior(prior []ScheduleEntry, week ISOWeek) (history, frozen []ScheduleEntry) {
	for _, entry := range prior {
		if !week.Contains(entry.Date) {
			history = append(history, entry)
			continue
		}
		if entry.Manual {
			frozen = append(frozen, entry)
		}
	}
	return history, frozen
}

// manualRestConflict detects operator-authored rows that together violate
// the rest-day rule. Both rows are reported and kept.
func manualRestConflict(id EmployeeID, week ISOWeek, settings PolicySettings, frozen []ScheduleEntry) *ConstraintConflictError {
	if settings.RestDaysPerWeek <= 0 {
		return nil
	}
	var rests []ScheduleEntry
	for _, entry := range frozen {
		if entry.Status == StatusRestDay {
			rests = append(rests, entry)
		}
	}
	if len(rests) <= settings.RestDaysPerWeek {
		return nil
	}
	return &ConstraintConflictError{
		EmployeeID: id,
		Week:       week,
		Constraint: fmt.Sprintf("at most %d rest day(s) per week", settings.RestDaysPerWeek),
		Entries:    rests,
	}
}
