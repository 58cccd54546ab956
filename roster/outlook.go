/*
outlook.go - Saturday-off feasibility projection for a month

PURPOSE:
  Answers "can every employee still get their Saturday off this month, and
  where?" before the weeks are generated. The presentation layer shows the
  outlook so operators can repair a month while repair is still possible,
  instead of discovering a shortfall in the last week's warnings.

KEY INSIGHT:
  The quota is monthly but generation is weekly. By the time the last
  week's PlanWeek emits a PolicyUnsatisfiable warning, the only options
  left are forcing the last Saturday or accepting the shortfall. The
  outlook runs the same eligibility rules over the whole month up front.

EXAMPLE:
  outlook := roster.ProjectMonth(roster.OutlookInput{
      Year: 2024, Month: time.March,
      Profiles: profiles, Entries: monthEntries,
      Settings: settings, AsOf: today,
  })
  for _, emp := range outlook.Employees {
      if emp.AtRisk { ... }
  }

SEE ALSO:
  - constraint.go: The per-week decision the outlook anticipates
*/
package roster

import "time"

// =============================================================================
// MONTH OUTLOOK - Projected Saturday-off state per employee
// =============================================================================

type OutlookInput struct {
	Year  int
	Month time.Month

	Profiles []EmployeeProfile

	// Entries holds the month's schedule rows for all employees involved.
	Entries []ScheduleEntry

	// Absences holds absence intervals per employee, for the quota option.
	Absences map[EmployeeID][]DateRange

	Settings PolicySettings
	AsOf     Day
}

type MonthOutlook struct {
	Year      int
	Month     time.Month
	Employees []EmployeeOutlook
}

type EmployeeOutlook struct {
	EmployeeID EmployeeID

	// Satisfied reports whether the month's allocation already exists.
	Satisfied   bool
	SatisfiedOn Day

	// RemainingSaturdays lists the Saturdays after AsOf still eligible to
	// carry the allocation (rank-filtered, not manually occupied).
	RemainingSaturdays []Day

	// LastChance is the final remaining Saturday, the operator's deadline.
	LastChance Day

	// AtRisk: unsatisfied with at most one candidate left.
	AtRisk bool

	// Unsatisfiable: unsatisfied with no candidate left.
	Unsatisfiable bool
}

// ProjectMonth evaluates the Saturday-off quota for every profile.
func ProjectMonth(in OutlookInput) MonthOutlook {
	out := MonthOutlook{Year: in.Year, Month: in.Month}

	byEmployee := make(map[EmployeeID][]ScheduleEntry)
	for _, entry := range in.Entries {
		byEmployee[entry.EmployeeID] = append(byEmployee[entry.EmployeeID], entry)
	}

	for _, profile := range in.Profiles {
		out.Employees = append(out.Employees, projectEmployee(in, profile, byEmployee[profile.EmployeeID]))
	}
	return out
}

func projectEmployee(in OutlookInput, profile EmployeeProfile, entries []ScheduleEntry) EmployeeOutlook {
	eo := EmployeeOutlook{EmployeeID: profile.EmployeeID}

	occupied := make(map[string]ScheduleEntry)
	for _, entry := range entries {
		if entry.Date.Year() != in.Year || entry.Date.Month() != in.Month {
			continue
		}
		occupied[entry.Date.String()] = entry
		if entry.Status == StatusSaturdayOff && !eo.Satisfied {
			eo.Satisfied = true
			eo.SatisfiedOn = entry.Date
		}
	}

	if !eo.Satisfied && in.Settings.AbsentSaturdayCountsTowardQuota {
		for _, sat := range SaturdaysInMonth(in.Year, in.Month) {
			for _, absence := range in.Absences[profile.EmployeeID] {
				if absence.Contains(sat) {
					eo.Satisfied = true
					eo.SatisfiedOn = sat
					break
				}
			}
			if eo.Satisfied {
				break
			}
		}
	}

	if eo.Satisfied {
		return eo
	}

	for _, sat := range SaturdaysInMonth(in.Year, in.Month) {
		if sat.Before(in.AsOf) {
			continue
		}
		if !profile.EmployedOn(sat) {
			continue
		}
		if profile.SaturdayRank > 0 && NthSaturdayOfMonth(sat) != profile.SaturdayRank {
			continue
		}
		if existing, ok := occupied[sat.String()]; ok && existing.Manual {
			continue
		}
		eo.RemainingSaturdays = append(eo.RemainingSaturdays, sat)
	}

	if n := len(eo.RemainingSaturdays); n > 0 {
		eo.LastChance = eo.RemainingSaturdays[n-1]
		eo.AtRisk = n <= 1
	} else {
		eo.Unsatisfiable = true
	}
	return eo
}
