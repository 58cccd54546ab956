package export_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/geraldbelrose-cyber/skello-perso/export"
	"github.com/geraldbelrose-cyber/skello-perso/roster"
	"github.com/geraldbelrose-cyber/skello-perso/timesheet"
)

func buildWorkbook(t *testing.T, employees []roster.Employee, rows []timesheet.HourReportRow) *excelize.File {
	t.Helper()
	from := roster.NewDay(2024, time.March, 1)
	to := roster.NewDay(2024, time.March, 31)

	buf, err := export.ReportXLSX(employees, rows, from, to)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestReportXLSX_SingleSheetWithTitle(t *testing.T) {
	f := buildWorkbook(t, nil, nil)

	assert.Equal(t, []string{export.ReportSheetName}, f.GetSheetList())

	title, err := f.GetCellValue(export.ReportSheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Rapport d'heures du 2024-03-01 au 2024-03-31", title)
}

func TestReportXLSX_HeaderRowMatchesCSVColumns(t *testing.T) {
	f := buildWorkbook(t, nil, nil)

	want := []string{"employee_id", "name", "heures_prévues", "absences_h", "retards_h", "heures_restantes"}
	for i, column := range want {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		require.NoError(t, err)
		got, err := f.GetCellValue(export.ReportSheetName, cell)
		require.NoError(t, err)
		assert.Equal(t, column, got)
	}
}

func TestReportXLSX_DataRowsFromRowThree(t *testing.T) {
	employees := []roster.Employee{
		{ID: "emp-1", Name: "Alice Martin", Active: true},
		{ID: "emp-2", Name: "Bruno Lopez", Active: true},
	}
	rows := []timesheet.HourReportRow{reportRow("emp-1", 32, 8, 0.75, 23.25)}

	f := buildWorkbook(t, employees, rows)

	grid, err := f.GetRows(export.ReportSheetName)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(grid), 4)

	assert.Equal(t, []string{"emp-1", "Alice Martin", "32.00", "8.00", "0.75", "23.25"}, grid[2])
	assert.Equal(t, []string{"emp-2", "Bruno Lopez", "0.00", "0.00", "0.00", "0.00"}, grid[3])
}
