package timesheet

import (
	"sort"

	"github.com/geraldbelrose-cyber/skello-perso/roster"
)

// =============================================================================
// HOUR AGGREGATION - Effective days reduced to report rows
// =============================================================================

// Aggregate sums effective days into one HourReportRow per employee present
// in [from, to]. Rows are sorted by employee ID ascending. An empty or
// inverted range yields an empty slice, never an error.
func Aggregate(days []EffectiveDay, from, to roster.Day) []HourReportRow {
	rows := make([]HourReportRow, 0)
	if from.After(to) {
		return rows
	}

	byEmployee := make(map[roster.EmployeeID]*HourReportRow)
	for _, day := range days {
		if day.Date.Before(from) || day.Date.After(to) {
			continue
		}
		row, ok := byEmployee[day.EmployeeID]
		if !ok {
			row = &HourReportRow{
				EmployeeID:          day.EmployeeID,
				RangeStart:          from,
				RangeEnd:            to,
				PlannedHours:        roster.ZeroHours(),
				AbsenceHours:        roster.ZeroHours(),
				LatenessHours:       roster.ZeroHours(),
				TotalEffectiveHours: roster.ZeroHours(),
			}
			byEmployee[day.EmployeeID] = row
		}

		row.PlannedHours = row.PlannedHours.Add(day.PlannedHours)
		row.TotalEffectiveHours = row.TotalEffectiveHours.Add(day.EffectiveHours)
		if len(day.Reasons) > 0 {
			if day.Reasons[0].FromAbsence() {
				row.AbsenceHours = row.AbsenceHours.Add(day.Lost())
			} else if day.Reasons[0] == ReasonLateness {
				row.LatenessHours = row.LatenessHours.Add(day.Lost())
			}
		}
	}

	for _, row := range byEmployee {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].EmployeeID < rows[j].EmployeeID })
	return rows
}
