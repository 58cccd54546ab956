package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/geraldbelrose-cyber/skello-perso/roster"
	"github.com/geraldbelrose-cyber/skello-perso/timesheet"
)

// ReportSheetName is the single worksheet of the report workbook.
const ReportSheetName = "Rapport"

// ReportXLSX renders the hour report as a styled workbook: merged title
// on row 1, header row 2, one data row per employee from row 3. Same
// columns and rounding as the CSV.
func ReportXLSX(employees []roster.Employee, rows []timesheet.HourReportRow, from, to roster.Day) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(ReportSheetName)
	if err != nil {
		return nil, fmt.Errorf("create report sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(ReportSheetName, "A", "A", 14)
	f.SetColWidth(ReportSheetName, "B", "B", 24)
	f.SetColWidth(ReportSheetName, "C", "F", 16)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("build header style: %w", err)
	}

	f.SetCellValue(ReportSheetName, "A1", fmt.Sprintf("Rapport d'heures du %s au %s", from, to))
	f.MergeCell(ReportSheetName, "A1", cell(colName(len(reportHeader)-1), 1))
	f.SetCellStyle(ReportSheetName, "A1", cell(colName(len(reportHeader)-1), 1), headerStyle)

	row := 2
	for i, name := range reportHeader {
		f.SetCellValue(ReportSheetName, cell(colName(i), row), name)
	}
	f.SetCellStyle(ReportSheetName, cell("A", row), cell(colName(len(reportHeader)-1), row), headerStyle)

	row = 3
	for _, line := range reportLines(employees, rows) {
		for i, value := range line.record() {
			f.SetCellValue(ReportSheetName, cell(colName(i), row), value)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
