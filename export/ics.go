package export

import (
	"fmt"
	"strings"

	ics "github.com/arran4/golang-ical"

	"github.com/geraldbelrose-cyber/skello-perso/roster"
)

// ScheduleICS renders one employee's entries as an iCalendar feed.
// Working days become timed events, rest days and Saturdays off become
// all-day events. Closed days are company-wide and carry no information
// for the employee, so they are omitted.
func ScheduleICS(employee roster.Employee, entries []roster.ScheduleEntry) []byte {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//skello-perso//planning//FR")
	cal.SetName(fmt.Sprintf("Planning %s", employee.Name))

	for _, entry := range entries {
		summary, allDay := entrySummary(entry)
		if summary == "" {
			continue
		}

		midnight := roster.NewClockTime(0, 0).At(entry.Date)
		event := cal.AddEvent(entry.Key())
		event.SetDtStampTime(midnight)
		event.SetSummary(summary)
		if allDay {
			event.SetAllDayStartAt(midnight)
			event.SetAllDayEndAt(midnight.AddDate(0, 0, 1))
		} else {
			event.SetStartAt(entry.Start.At(entry.Date))
			event.SetEndAt(entry.End.At(entry.Date))
		}
		if desc := entryDescription(entry); desc != "" {
			event.SetDescription(desc)
		}
	}

	return []byte(cal.Serialize())
}

// ScheduleFilename suggests a download name for one employee's feed.
func ScheduleFilename(employeeID roster.EmployeeID) string {
	return fmt.Sprintf("planning_%s.ics", employeeID)
}

func entrySummary(e roster.ScheduleEntry) (summary string, allDay bool) {
	switch e.Status {
	case roster.StatusWorking:
		return fmt.Sprintf("Travail %s-%s", e.Start, e.End), false
	case roster.StatusRestDay:
		return "Repos hebdomadaire", true
	case roster.StatusSaturdayOff:
		return "Samedi off", true
	default:
		return "", false
	}
}

func entryDescription(e roster.ScheduleEntry) string {
	var parts []string
	if e.Status == roster.StatusWorking && e.BreakMinutes > 0 {
		parts = append(parts, fmt.Sprintf("Pause %d min", e.BreakMinutes))
	}
	if e.Replacement {
		parts = append(parts, fmt.Sprintf("Remplacement de %s", e.ReplacesEmployee))
	}
	if e.Manual {
		parts = append(parts, "Saisie manuelle")
	}
	if e.Comment != "" {
		parts = append(parts, e.Comment)
	}
	return strings.Join(parts, "; ")
}
