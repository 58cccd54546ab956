/*
Package export renders hour reports and schedules for download.

PURPOSE:
  Pure renderers over the report and roster types: CSV and XLSX for the
  hour report, iCalendar for per-employee schedules. Every function
  returns bytes for the HTTP layer to wrap in headers; nothing here
  touches storage or aggregates anything.

COLUMN CONTRACT:
  The report columns are employee_id, name, heures_prévues, absences_h,
  retards_h, heures_restantes with two-decimal rounding. Downstream
  consumers of the historical report files parse these exact headers, so
  they stay French and stay in this order.

SEE ALSO:
  - timesheet/aggregate.go: Produces the rows rendered here
  - api package: Sets Content-Type and Content-Disposition
*/
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/geraldbelrose-cyber/skello-perso/roster"
	"github.com/geraldbelrose-cyber/skello-perso/timesheet"
)

// reportHeader is the historical column contract, kept byte-for-byte.
var reportHeader = []string{"employee_id", "name", "heures_prévues", "absences_h", "retards_h", "heures_restantes"}

// reportLine is one rendered row: an employee joined with their report
// row, zero-filled when the range holds no entries for them.
type reportLine struct {
	id   roster.EmployeeID
	name string
	row  timesheet.HourReportRow
}

// reportLines joins employees with their rows, one line per employee,
// sorted by employee ID. Employees without a row render as zeros, the
// way the original report listed the whole active roster.
func reportLines(employees []roster.Employee, rows []timesheet.HourReportRow) []reportLine {
	byID := make(map[roster.EmployeeID]timesheet.HourReportRow, len(rows))
	for _, row := range rows {
		byID[row.EmployeeID] = row
	}

	lines := make([]reportLine, 0, len(employees))
	for _, emp := range employees {
		row, ok := byID[emp.ID]
		if !ok {
			row = timesheet.HourReportRow{
				EmployeeID:          emp.ID,
				PlannedHours:        roster.ZeroHours(),
				AbsenceHours:        roster.ZeroHours(),
				LatenessHours:       roster.ZeroHours(),
				TotalEffectiveHours: roster.ZeroHours(),
			}
		}
		lines = append(lines, reportLine{id: emp.ID, name: emp.Name, row: row})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].id < lines[j].id })
	return lines
}

func (l reportLine) record() []string {
	return []string{
		string(l.id),
		l.name,
		l.row.PlannedHours.Fixed2(),
		l.row.AbsenceHours.Fixed2(),
		l.row.LatenessHours.Fixed2(),
		l.row.TotalEffectiveHours.Fixed2(),
	}
}

// ReportCSV renders the hour report. One line per employee, sorted by ID.
func ReportCSV(employees []roster.Employee, rows []timesheet.HourReportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(reportHeader); err != nil {
		return nil, fmt.Errorf("write report header: %w", err)
	}
	for _, line := range reportLines(employees, rows) {
		if err := w.Write(line.record()); err != nil {
			return nil, fmt.Errorf("write report line for %s: %w", line.id, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush report: %w", err)
	}
	return buf.Bytes(), nil
}

// ReportFilename suggests a download name for the given range.
func ReportFilename(from, to roster.Day, extension string) string {
	return fmt.Sprintf("rapport_heures_%s_%s.%s", from, to, extension)
}
