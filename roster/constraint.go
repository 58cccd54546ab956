/*
constraint.go - Rest-day and Saturday-off decisions

PURPOSE:
  The constraint engine decides, for one employee and one target ISO week,
  which weekday is the rest day and whether this week's Saturday should be
  an off Saturday. It is stateless given its inputs: the employee profile,
  the policy settings, the employee's prior entries, and the manual entries
  already frozen inside the target week.

DECISION RULES:
  Rest day:
    - A manual rest day inside the week satisfies the quota; the engine
      assigns nothing on top of it
    - Otherwise the rotation schedule picks a weekday Monday-Saturday;
      frozen days are subtracted from the pool and the engine walks forward
      to the next free weekday
  Saturday off:
    - At most SaturdayOffPerMonth allocations per calendar month, counted
      over prior entries plus frozen manual ones
    - Never on a Saturday that is already the rest day or manually occupied
    - Employees with a SaturdayRank only take their preferred nth Saturday
    - A shortfall that can no longer be repaired inside the month surfaces
      as a PolicyUnsatisfiable warning; planning still completes

SEE ALSO:
  - rotation.go: The rest-day distribution policies
  - generate.go: Turns the WeekPlan into seven ScheduleEntry rows
*/
package roster

import (
	"fmt"
	"time"
)

// =============================================================================
// CONSTRAINT ENGINE
// =============================================================================

type ConstraintEngine struct{}

func NewConstraintEngine() *ConstraintEngine { return &ConstraintEngine{} }

// ConstraintInput carries everything a week decision depends on. History and
// Frozen hold entries of the one employee being planned; the engine never
// looks at other employees.
type ConstraintInput struct {
	Profile  EmployeeProfile
	Week     ISOWeek
	Settings PolicySettings

	// History holds the employee's prior entries, at least the current
	// calendar month's (five weeks is enough to observe the last
	// Saturday-off allocation).
	History []ScheduleEntry

	// Frozen holds the manual entries already occupying days of the target
	// week. Their days are subtracted from the pool the engine reasons
	// about.
	Frozen []ScheduleEntry

	// Absences lists absence intervals relevant to the target month. Only
	// consulted when the policy counts absent Saturdays toward the quota.
	Absences []DateRange
}

// WeekPlan is the engine's decision for one employee-week.
type WeekPlan struct {
	Week ISOWeek

	// RestDay is the weekday to rest, meaningful when AssignRest is true.
	RestDay    time.Weekday
	AssignRest bool

	// SaturdayOff marks this week's Saturday as the monthly allocation.
	SaturdayOff bool

	Warnings []*PolicyUnsatisfiableError
}

// PlanWeek computes the decision. It returns an error only for malformed
// input; policy shortfalls are warnings on the plan, never failures.
func (e *ConstraintEngine) PlanWeek(in ConstraintInput) (WeekPlan, error) {
	if !in.Week.Valid() {
		return WeekPlan{}, fmt.Errorf("%s: %w", in.Week, ErrInvalidWeek)
	}

	plan := WeekPlan{Week: in.Week}
	frozen := frozenByDay(in.Frozen, in.Week)

	e.planRestDay(in, frozen, &plan)
	e.planSaturdayOff(in, frozen, &plan)
	return plan, nil
}

// planRestDay fills RestDay/AssignRest.
func (e *ConstraintEngine) planRestDay(in ConstraintInput, frozen map[string]ScheduleEntry, plan *WeekPlan) {
	if in.Settings.RestDaysPerWeek <= 0 {
		return
	}

	// Manual rest days satisfy the quota; the engine must not add another.
	manualRests := 0
	for _, entry := range frozen {
		if entry.Status == StatusRestDay {
			manualRests++
		}
	}
	if manualRests >= in.Settings.RestDaysPerWeek {
		return
	}

	days := in.Week.Days()
	startIdx := mondayIndex(RotationFor(in.Profile).RestDayFor(in.Week))

	// Walk forward from the rotation's pick to the first weekday whose date
	// is not manually occupied. Sunday (index 6) is never a candidate.
	for step := 0; step < 6; step++ {
		idx := (startIdx + step) % 6
		if _, occupied := frozen[days[idx].String()]; occupied {
			continue
		}
		plan.RestDay = weekdayFromMondayIndex(idx)
		plan.AssignRest = true
		return
	}

	plan.Warnings = append(plan.Warnings, &PolicyUnsatisfiableError{
		EmployeeID: in.Profile.EmployeeID,
		Week:       in.Week,
		Year:       in.Week.Year,
		Month:      in.Week.Monday().Month(),
		Quota:      "rest-day",
		Reason:     "every weekday of the week is manually occupied",
	})
}

// planSaturdayOff fills SaturdayOff and emits shortfall warnings.
func (e *ConstraintEngine) planSaturdayOff(in ConstraintInput, frozen map[string]ScheduleEntry, plan *WeekPlan) {
	if in.Settings.SaturdayOffPerMonth <= 0 {
		return
	}

	saturday := in.Week.Saturday()
	year, month := saturday.Year(), saturday.Month()

	allocated := monthSaturdayOffCount(in, year, month)
	if allocated >= in.Settings.SaturdayOffPerMonth {
		return
	}

	blocked := ""
	switch {
	case !in.Profile.EmployedOn(saturday):
		blocked = "employee not yet hired"
	case plan.AssignRest && plan.RestDay == time.Saturday:
		blocked = "saturday is the rest day"
	case isFrozenRest(frozen, saturday):
		blocked = "saturday is a manual rest day"
	case isFrozen(frozen, saturday):
		blocked = "saturday is manually occupied"
	case in.Profile.SaturdayRank > 0 && NthSaturdayOfMonth(saturday) != in.Profile.SaturdayRank:
		blocked = "not the preferred saturday of the month"
	}

	if blocked == "" {
		plan.SaturdayOff = true
		return
	}

	// Quota still unmet: check whether any later Saturday of the month can
	// carry the allocation. If none can, the caller must decide between
	// forcing it and accepting the shortfall.
	if !e.monthStillRepairable(in, saturday) {
		plan.Warnings = append(plan.Warnings, &PolicyUnsatisfiableError{
			EmployeeID: in.Profile.EmployeeID,
			Week:       in.Week,
			Year:       year,
			Month:      month,
			Quota:      "saturday-off",
			Reason:     blocked + " and no usable saturday remains this month",
		})
	}
}

// monthStillRepairable reports whether a Saturday after the given one, in
// the same month, can still carry the allocation.
func (e *ConstraintEngine) monthStillRepairable(in ConstraintInput, after Day) bool {
	for _, sat := range SaturdaysInMonth(after.Year(), after.Month()) {
		if sat.BeforeOrEqual(after) {
			continue
		}
		if !in.Profile.EmployedOn(sat) {
			continue
		}
		if in.Profile.SaturdayRank > 0 && NthSaturdayOfMonth(sat) != in.Profile.SaturdayRank {
			continue
		}
		return true
	}
	return false
}

// monthSaturdayOffCount counts the month's Saturday-off allocations across
// prior entries and frozen manual ones, plus (when the policy says so)
// Saturdays swallowed by absences.
func monthSaturdayOffCount(in ConstraintInput, year int, month time.Month) int {
	count := 0
	seen := make(map[string]bool)
	countEntry := func(entry ScheduleEntry) {
		if entry.Status != StatusSaturdayOff {
			return
		}
		d := entry.Date
		if d.Year() != year || d.Month() != month || seen[d.String()] {
			return
		}
		seen[d.String()] = true
		count++
	}
	for _, entry := range in.History {
		countEntry(entry)
	}
	for _, entry := range in.Frozen {
		countEntry(entry)
	}

	if in.Settings.AbsentSaturdayCountsTowardQuota {
		for _, sat := range SaturdaysInMonth(year, month) {
			if seen[sat.String()] {
				continue
			}
			for _, absence := range in.Absences {
				if absence.Contains(sat) {
					seen[sat.String()] = true
					count++
					break
				}
			}
		}
	}
	return count
}

// frozenByDay indexes the week's manual entries by date string.
func frozenByDay(frozen []ScheduleEntry, week ISOWeek) map[string]ScheduleEntry {
	byDay := make(map[string]ScheduleEntry, len(frozen))
	for _, entry := range frozen {
		if !entry.Manual || !week.Contains(entry.Date) {
			continue
		}
		byDay[entry.Date.String()] = entry
	}
	return byDay
}

func isFrozen(frozen map[string]ScheduleEntry, d Day) bool {
	_, ok := frozen[d.String()]
	return ok
}

func isFrozenRest(frozen map[string]ScheduleEntry, d Day) bool {
	entry, ok := frozen[d.String()]
	return ok && entry.Status == StatusRestDay
}
