/*
handlers_test.go - HTTP endpoint tests

Tests for:
- Employee lifecycle over REST
- Settings versions and validation statuses
- Generation, manual entries, deviations, reports, exports
- Scenario loading and the run audit list
*/
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/geraldbelrose-cyber/skello-perso/config"
	"github.com/geraldbelrose-cyber/skello-perso/roster"
)

// newTestServer wires a handler over in-memory stores and mounts the
// full router.
func newTestServer(t *testing.T) (*Handler, *chi.Mux) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	h := NewHandler(newTestPlanner(), logger)
	return h, NewRouter(h, []string{"*"})
}

func doRequest(t *testing.T, router *chi.Mux, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func seedBoutiqueOverHTTP(t *testing.T, h *Handler) {
	t.Helper()
	seedBoutique(t, h.Planner)
}

func TestHealthEndpoint(t *testing.T) {
	_, router := newTestServer(t)

	rec := doRequest(t, router, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body map[string]string
	decodeBody(t, rec, &body)
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
}

func TestEmployeeLifecycle(t *testing.T) {
	_, router := newTestServer(t)

	// GIVEN: A created employee with a pinned rest day
	payload := `{"id":"emp-010","name":"Chloé Perrin","restDay":"wednesday","saturdayRank":1}`
	rec := doRequest(t, router, http.MethodPost, "/api/employees", payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created EmployeeDTO
	decodeBody(t, rec, &created)
	if created.RestDay != "wednesday" || !created.Active {
		t.Errorf("Created employee wrong: %+v", created)
	}

	// Creating the same ID again conflicts
	rec = doRequest(t, router, http.MethodPost, "/api/employees", payload)
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 on duplicate, got %d", rec.Code)
	}

	// WHEN: Renaming and unpinning over PUT
	rec = doRequest(t, router, http.MethodPut, "/api/employees/emp-010", `{"name":"Chloé Perrin-Dumas","saturdayRank":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on update, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated EmployeeDTO
	decodeBody(t, rec, &updated)
	if updated.Name != "Chloé Perrin-Dumas" || updated.SaturdayRank != 2 {
		t.Errorf("Update not applied: %+v", updated)
	}
	if updated.RestDay != "" {
		t.Errorf("Expected rest day cleared, got %q", updated.RestDay)
	}

	// THEN: Deactivation hides the employee from the default listing
	rec = doRequest(t, router, http.MethodDelete, "/api/employees/emp-010", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204 on delete, got %d", rec.Code)
	}

	var active []EmployeeDTO
	decodeBody(t, doRequest(t, router, http.MethodGet, "/api/employees", ""), &active)
	if len(active) != 0 {
		t.Errorf("Expected no active employees, got %d", len(active))
	}

	var all []EmployeeDTO
	decodeBody(t, doRequest(t, router, http.MethodGet, "/api/employees?all=true", ""), &all)
	if len(all) != 1 || all[0].Active {
		t.Errorf("Expected one inactive employee, got %+v", all)
	}
}

func TestCreateEmployee_Invalid(t *testing.T) {
	_, router := newTestServer(t)

	rec := doRequest(t, router, http.MethodPost, "/api/employees", `{"id":"emp-011","name":"X","restDay":"someday"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on bad rest day, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodPost, "/api/employees", `{"name":"No ID"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on missing id, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/employees/ghost", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown employee, got %d", rec.Code)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	_, router := newTestServer(t)

	// GIVEN: No stored versions, the defaults answer
	rec := doRequest(t, router, http.MethodGet, "/api/settings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var current config.SettingsPayload
	decodeBody(t, rec, &current)
	if current.WeekdayStart != "07:30" || current.SaturdayEnd != "12:30" {
		t.Errorf("Expected default settings, got %+v", current)
	}

	// WHEN: Appending a dated version
	update := `{"weekdayStart":"08:00","weekdayEnd":"17:00","weekdayBreakMinutes":45,
		"saturdayStart":"08:00","saturdayEnd":"13:00","saturdayBreakMinutes":0,
		"restDaysPerWeek":1,"saturdayOffPerMonth":1,"effectiveFrom":"2024-06-01"}`
	rec = doRequest(t, router, http.MethodPut, "/api/settings", update)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on put, got %d: %s", rec.Code, rec.Body.String())
	}

	// THEN: History carries the founding default plus the new version
	var history []config.SettingsPayload
	decodeBody(t, doRequest(t, router, http.MethodGet, "/api/settings/history", ""), &history)
	if len(history) != 2 {
		t.Fatalf("Expected 2 versions, got %d", len(history))
	}
	if history[0].WeekdayStart != "07:30" || history[1].WeekdayStart != "08:00" {
		t.Errorf("History order wrong: %+v", history)
	}

	// Invalid clock values are rejected
	rec = doRequest(t, router, http.MethodPut, "/api/settings", strings.Replace(update, "08:00", "25:00", 1))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on bad clock, got %d", rec.Code)
	}
}

func TestGenerateAndFetchSchedule(t *testing.T) {
	h, router := newTestServer(t)
	seedBoutiqueOverHTTP(t, h)

	// WHEN: Generating a week over the API
	rec := doRequest(t, router, http.MethodPost, "/api/schedule/generate", `{"week":"2024-W10"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var generated GenerateResponse
	decodeBody(t, rec, &generated)
	if len(generated.Schedules) != 3 {
		t.Fatalf("Expected 3 schedules, got %d", len(generated.Schedules))
	}
	if generated.Run.Inserted != 21 {
		t.Errorf("Expected 21 inserted, got %d", generated.Run.Inserted)
	}

	// THEN: The stored week reads back grouped per employee
	rec = doRequest(t, router, http.MethodGet, "/api/schedule?week=2024-W10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var week struct {
		Week      string            `json:"week"`
		Schedules []WeekScheduleDTO `json:"schedules"`
	}
	decodeBody(t, rec, &week)
	if week.Week != "2024-W10" || len(week.Schedules) != 3 {
		t.Fatalf("Week read-back wrong: week=%s schedules=%d", week.Week, len(week.Schedules))
	}
	for _, ws := range week.Schedules {
		if len(ws.Entries) != 7 {
			t.Errorf("Employee %s: expected 7 entries, got %d", ws.EmployeeID, len(ws.Entries))
		}
	}

	// Malformed weeks are rejected
	rec = doRequest(t, router, http.MethodPost, "/api/schedule/generate", `{"week":"2024-10"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on bad week, got %d", rec.Code)
	}
}

func TestManualEntryEndpoint(t *testing.T) {
	h, router := newTestServer(t)
	seedBoutiqueOverHTTP(t, h)

	// GIVEN: A manual rest day on Tuesday
	rec := doRequest(t, router, http.MethodPut, "/api/schedule/entry",
		`{"employeeId":"emp-001","date":"2024-03-05","status":"rest_day"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var first struct {
		Entry    EntryDTO     `json:"entry"`
		Conflict *ConflictDTO `json:"conflict"`
	}
	decodeBody(t, rec, &first)
	if !first.Entry.Manual || first.Conflict != nil {
		t.Errorf("First manual entry wrong: %+v conflict=%v", first.Entry, first.Conflict)
	}

	// WHEN: Forcing a second rest day in the same week
	rec = doRequest(t, router, http.MethodPut, "/api/schedule/entry",
		`{"employeeId":"emp-001","date":"2024-03-07","status":"rest_day"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 with conflict, got %d: %s", rec.Code, rec.Body.String())
	}
	var second struct {
		Entry    EntryDTO     `json:"entry"`
		Conflict *ConflictDTO `json:"conflict"`
	}
	decodeBody(t, rec, &second)

	// THEN: The row is kept and the conflict is reported
	if second.Conflict == nil {
		t.Fatal("Expected a constraint conflict")
	}

	var entries []EntryDTO
	decodeBody(t, doRequest(t, router, http.MethodGet, "/api/schedule/range?from=2024-03-04&to=2024-03-10", ""), &entries)
	restDays := 0
	for _, e := range entries {
		if e.Status == string(roster.StatusRestDay) {
			restDays++
		}
	}
	if restDays != 2 {
		t.Errorf("Expected both manual rest days retained, got %d", restDays)
	}

	// Rows without a date are rejected
	rec = doRequest(t, router, http.MethodPut, "/api/schedule/entry", `{"employeeId":"emp-001","status":"rest_day"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on missing date, got %d", rec.Code)
	}
}

func TestAbsenceEndpoints(t *testing.T) {
	h, router := newTestServer(t)
	seedBoutiqueOverHTTP(t, h)

	// GIVEN: A leave without an explicit justified flag
	rec := doRequest(t, router, http.MethodPost, "/api/absences",
		`{"employeeId":"emp-002","startDate":"2024-03-05","endDate":"2024-03-07","kind":"leave"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created AbsenceDTO
	decodeBody(t, rec, &created)
	if !created.Justified {
		t.Error("Leave should default to justified")
	}
	if created.ID == "" {
		t.Error("Expected a generated absence ID")
	}

	// Listing by employee and range finds it
	var listed []AbsenceDTO
	decodeBody(t, doRequest(t, router, http.MethodGet, "/api/absences?employee=emp-002&from=2024-03-01&to=2024-03-31", ""), &listed)
	if len(listed) != 1 {
		t.Fatalf("Expected 1 absence, got %d", len(listed))
	}

	// WHEN: Deleting it
	rec = doRequest(t, router, http.MethodDelete, "/api/absences/"+created.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rec.Code)
	}

	// THEN: A second delete is a 404
	rec = doRequest(t, router, http.MethodDelete, "/api/absences/"+created.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on double delete, got %d", rec.Code)
	}

	// Inverted ranges are rejected
	rec = doRequest(t, router, http.MethodPost, "/api/absences",
		`{"employeeId":"emp-002","startDate":"2024-03-07","endDate":"2024-03-05","kind":"leave"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on inverted range, got %d", rec.Code)
	}
}

func TestLatenessEndpoints(t *testing.T) {
	h, router := newTestServer(t)
	seedBoutiqueOverHTTP(t, h)

	// GIVEN: A generated week, so Monday holds a working row
	rec := doRequest(t, router, http.MethodPost, "/api/schedule/generate", `{"week":"2024-W10"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Generation failed: %d %s", rec.Code, rec.Body.String())
	}

	// WHEN: Recording a late arrival from the clock pair
	rec = doRequest(t, router, http.MethodPost, "/api/lateness",
		`{"employeeId":"emp-001","date":"2024-03-04","scheduledAt":"07:30","arrivedAt":"07:50"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created LatenessDTO
	decodeBody(t, rec, &created)
	if created.MinutesLate != 20 {
		t.Errorf("Expected 20 minutes late, got %d", created.MinutesLate)
	}

	// THEN: The day's slot is taken
	rec = doRequest(t, router, http.MethodPost, "/api/lateness",
		`{"employeeId":"emp-001","date":"2024-03-04","minutesLate":5}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on occupied slot, got %d", rec.Code)
	}

	// A rest day cannot carry lateness (emp-001 rests on Wednesday)
	rec = doRequest(t, router, http.MethodPost, "/api/lateness",
		`{"employeeId":"emp-001","date":"2024-03-06","minutesLate":10}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on rest day, got %d", rec.Code)
	}

	var listed []LatenessDTO
	decodeBody(t, doRequest(t, router, http.MethodGet, "/api/lateness?from=2024-03-01&to=2024-03-31", ""), &listed)
	if len(listed) != 1 {
		t.Fatalf("Expected 1 lateness, got %d", len(listed))
	}

	rec = doRequest(t, router, http.MethodDelete, "/api/lateness/"+created.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204 on delete, got %d", rec.Code)
	}
}

func TestReportAndExports(t *testing.T) {
	h, router := newTestServer(t)
	seedBoutiqueOverHTTP(t, h)

	rec := doRequest(t, router, http.MethodPost, "/api/schedule/generate", `{"week":"2024-W10"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Generation failed: %d %s", rec.Code, rec.Body.String())
	}

	// JSON report covers every active employee
	rec = doRequest(t, router, http.MethodGet, "/api/report?from=2024-03-04&to=2024-03-10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var rows []ReportRowDTO
	decodeBody(t, rec, &rows)
	if len(rows) != 3 {
		t.Fatalf("Expected 3 report rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.PlannedHours <= 0 {
			t.Errorf("Employee %s: expected planned hours, got %f", row.EmployeeID, row.PlannedHours)
		}
		if row.Name == "" {
			t.Errorf("Employee %s: missing name", row.EmployeeID)
		}
	}

	// CSV export carries the original column contract
	rec = doRequest(t, router, http.MethodGet, "/api/report/export.csv?from=2024-03-04&to=2024-03-10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Wrong content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "rapport_heures_2024-03-04_2024-03-10.csv") {
		t.Errorf("Wrong disposition %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "employee_id,name,heures_prévues") {
		t.Errorf("CSV header wrong: %q", strings.SplitN(rec.Body.String(), "\n", 2)[0])
	}

	// XLSX export streams a workbook
	rec = doRequest(t, router, http.MethodGet, "/api/report/export.xlsx?from=2024-03-04&to=2024-03-10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Wrong content type %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("Empty workbook body")
	}

	// ICS export needs an employee
	rec = doRequest(t, router, http.MethodGet, "/api/schedule/export.ics?employee=emp-001&from=2024-03-04&to=2024-03-10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Wrong content type %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "BEGIN:VCALENDAR") {
		t.Error("Expected an iCalendar body")
	}

	rec = doRequest(t, router, http.MethodGet, "/api/schedule/export.ics?from=2024-03-04&to=2024-03-10", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without employee, got %d", rec.Code)
	}
}

func TestScenarioEndpoints(t *testing.T) {
	_, router := newTestServer(t)

	var catalog []ScenarioDTO
	decodeBody(t, doRequest(t, router, http.MethodGet, "/api/scenarios", ""), &catalog)
	if len(catalog) != 3 {
		t.Fatalf("Expected 3 scenarios, got %d", len(catalog))
	}

	rec := doRequest(t, router, http.MethodPost, "/api/scenarios/boutique", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var current ScenarioDTO
	decodeBody(t, doRequest(t, router, http.MethodGet, "/api/scenarios/current", ""), &current)
	if current.ID != "boutique" {
		t.Errorf("Expected boutique current, got %q", current.ID)
	}

	var employees []EmployeeDTO
	decodeBody(t, doRequest(t, router, http.MethodGet, "/api/employees", ""), &employees)
	if len(employees) != 3 {
		t.Errorf("Expected 3 seeded employees, got %d", len(employees))
	}

	rec = doRequest(t, router, http.MethodPost, "/api/scenarios/atlantis", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on unknown scenario, got %d", rec.Code)
	}
}

func TestRunsEndpoint(t *testing.T) {
	h, router := newTestServer(t)
	seedBoutiqueOverHTTP(t, h)

	doRequest(t, router, http.MethodPost, "/api/schedule/generate", `{"week":"2024-W10"}`)

	rec := doRequest(t, router, http.MethodGet, "/api/runs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var runs []RunDTO
	decodeBody(t, rec, &runs)
	if len(runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(runs))
	}
	if runs[0].Week != "2024-W10" || runs[0].Trigger != "manual" {
		t.Errorf("Run wrong: %+v", runs[0])
	}

	rec = doRequest(t, router, http.MethodGet, "/api/runs?limit=zero", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on bad limit, got %d", rec.Code)
	}
}
