/*
handlers.go - HTTP API handlers for the roster service

PURPOSE:
  Exposes the scheduling engine, deviation tracker, and reports over
  REST. Handlers parse and validate the wire shapes, delegate to the
  Planner and Tracker, and map domain errors onto HTTP statuses.

ENDPOINTS:
  Employees:
    GET    /api/employees               List (active by default, ?all=true)
    POST   /api/employees               Create
    GET    /api/employees/{id}          Get one
    PUT    /api/employees/{id}          Replace
    DELETE /api/employees/{id}          Deactivate (history stays)

  Settings:
    GET    /api/settings                Version in force today
    GET    /api/settings/history        All versions
    PUT    /api/settings                Append a new version

  Schedule:
    POST   /api/schedule/generate       Generate a week (all or one)
    GET    /api/schedule?week=          Stored week grouped per employee
    GET    /api/schedule/range?from=&to= Flat rows
    PUT    /api/schedule/entry          Manual edit (frozen row)
    GET    /api/schedule/outlook?month= Saturday-off projection
    GET    /api/schedule/export.ics     Per-employee calendar feed

  Deviations:
    POST   /api/absences                Record absence
    GET    /api/absences                List (?employee=&from=&to=)
    DELETE /api/absences/{id}           Remove
    POST   /api/lateness                Record late arrival
    GET    /api/lateness                List (?employee=&from=&to=)
    DELETE /api/lateness/{id}           Remove

  Reports:
    GET    /api/report?from=&to=        Effective-hour rows (JSON)
    GET    /api/report/export.csv       Same rows, report contract CSV
    GET    /api/report/export.xlsx      Same rows, styled workbook

  Operations:
    GET    /api/scenarios               Demo scenario catalog
    POST   /api/scenarios/{name}        Seed a scenario
    GET    /api/runs?limit=             Generation-run audit list
    GET    /api/health                  Liveness

ERROR HANDLING:
  Domain errors map by taxonomy: not-found sentinels to 404, duplicates
  and constraint conflicts to 409, data inconsistencies and invalid
  input to 400, everything else to 500. The code field carries the
  taxonomy name so clients can branch without parsing messages.

SEE ALSO:
  - planner.go: Generation orchestration
  - dto.go: Wire shapes
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/geraldbelrose-cyber/skello-perso/config"
	"github.com/geraldbelrose-cyber/skello-perso/export"
	"github.com/geraldbelrose-cyber/skello-perso/roster"
	"github.com/geraldbelrose-cyber/skello-perso/timesheet"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers. The Planner carries
// the stores; handlers reach through it rather than duplicating fields.
type Handler struct {
	Planner *Planner
	Logger  *logrus.Logger

	// Track the currently loaded demo scenario for the UI.
	currentScenario string
}

func NewHandler(planner *Planner, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{Planner: planner, Logger: logger}
}

func (h *Handler) tracker() *timesheet.Tracker { return h.Planner.Tracker }

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns active members; ?all=true includes deactivated.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("all") == "true"

	members, err := h.Planner.Staff.ListStaff(r.Context(), includeInactive)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(members))
	for i, m := range members {
		dtos[i] = toEmployeeDTO(m)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := roster.EmployeeID(chi.URLParam(r, "id"))

	member, err := h.Planner.Staff.GetStaff(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(member))
}

// CreateEmployee registers a new member. The ID must be free.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req UpsertEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "Employee id is required", nil)
		return
	}
	if _, err := h.Planner.Staff.GetStaff(ctx, roster.EmployeeID(req.ID)); err == nil {
		writeError(w, http.StatusConflict, "Employee already exists", nil)
		return
	} else if !errors.Is(err, roster.ErrEmployeeNotFound) {
		writeError(w, http.StatusInternalServerError, "Failed to check employee", err)
		return
	}

	member, err := h.memberFromRequest(ctx, req, roster.StaffMember{}, false)
	if err != nil {
		writeDomainError(w, "Invalid employee", err)
		return
	}
	if err := h.Planner.Staff.UpsertStaff(ctx, member); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(member))
}

// UpdateEmployee replaces a member's identity and profile. Fields left
// null keep their stored value.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id := roster.EmployeeID(chi.URLParam(r, "id"))

	var req UpsertEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.ID = string(id)

	ctx := r.Context()
	existing, err := h.Planner.Staff.GetStaff(ctx, id)
	if err != nil {
		writeDomainError(w, "Failed to get employee", err)
		return
	}

	member, err := h.memberFromRequest(ctx, req, existing, true)
	if err != nil {
		writeDomainError(w, "Invalid employee", err)
		return
	}
	if err := h.Planner.Staff.UpsertStaff(ctx, member); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(member))
}

// DeactivateEmployee clears the Active flag; schedule and deviation
// history keep referencing the ID.
func (h *Handler) DeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	id := roster.EmployeeID(chi.URLParam(r, "id"))

	if err := h.Planner.Staff.DeactivateStaff(r.Context(), id); err != nil {
		writeDomainError(w, "Failed to deactivate employee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// memberFromRequest builds the StaffMember to store. On update, absent
// optional fields inherit from existing; restDay always applies, so an
// empty value unpins the rest day.
func (h *Handler) memberFromRequest(ctx context.Context, req UpsertEmployeeRequest, existing roster.StaffMember, update bool) (roster.StaffMember, error) {
	member := roster.StaffMember{
		Employee: roster.Employee{
			ID:     roster.EmployeeID(req.ID),
			Name:   req.Name,
			Active: true,
		},
		Profile: roster.EmployeeProfile{
			EmployeeID:   roster.EmployeeID(req.ID),
			SaturdayRank: req.SaturdayRank,
		},
	}

	if update {
		if req.Name == "" {
			member.Employee.Name = existing.Employee.Name
		}
		member.Employee.Active = existing.Employee.Active
		member.Profile.Ordinal = existing.Profile.Ordinal
		member.Profile.HiredOn = existing.Profile.HiredOn
	}
	if req.Active != nil {
		member.Employee.Active = *req.Active
	}
	if req.Ordinal != nil {
		member.Profile.Ordinal = *req.Ordinal
	} else if !update {
		// New members join the rotation at the end of the line.
		members, err := h.Planner.Staff.ListStaff(ctx, true)
		if err != nil {
			return roster.StaffMember{}, err
		}
		member.Profile.Ordinal = len(members)
	}

	pinned, err := parseWeekday(req.RestDay)
	if err != nil {
		return roster.StaffMember{}, &roster.DataInconsistencyError{
			RecordKind: "employee",
			EmployeeID: member.Employee.ID,
			Reason:     err.Error(),
		}
	}
	member.Profile.PinnedRestDay = pinned

	if req.HiredOn != "" {
		hired, err := roster.ParseDay(req.HiredOn)
		if err != nil {
			return roster.StaffMember{}, &roster.DataInconsistencyError{
				RecordKind: "employee",
				EmployeeID: member.Employee.ID,
				Reason:     err.Error(),
			}
		}
		member.Profile.HiredOn = hired
	}

	if err := member.Profile.Validate(); err != nil {
		return roster.StaffMember{}, err
	}
	return member, nil
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetSettings returns the version in force today.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Planner.SettingsAt(r.Context(), roster.Today())
	if err != nil {
		writeDomainError(w, "Failed to resolve settings", err)
		return
	}
	writeJSON(w, http.StatusOK, config.PayloadFromPolicy(settings))
}

// GetSettingsHistory returns every version, oldest first.
func (h *Handler) GetSettingsHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.Planner.History(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to load settings history", err)
		return
	}

	versions := history.Versions()
	payloads := make([]config.SettingsPayload, len(versions))
	for i, v := range versions {
		payloads[i] = config.PayloadFromPolicy(v)
	}
	writeJSON(w, http.StatusOK, payloads)
}

// PutSettings appends a new settings version. Versions already recorded
// are never edited.
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body", err)
		return
	}
	settings, err := config.ParseSettings(body)
	if err != nil {
		writeDomainError(w, "Invalid settings", err)
		return
	}

	ctx := r.Context()
	stored, err := h.Planner.Policies.PolicyVersions(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings history", err)
		return
	}
	// A dated first version would leave earlier weeks without a policy;
	// back it with the default as the founding version.
	if len(stored) == 0 && !settings.EffectiveFrom.IsZero() {
		if err := h.Planner.Policies.AppendPolicyVersion(ctx, roster.DefaultSettings()); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
			return
		}
	}
	if err := h.Planner.Policies.AppendPolicyVersion(ctx, settings); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}

	h.tracker().InvalidateReports()
	writeJSON(w, http.StatusOK, config.PayloadFromPolicy(settings))
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// GenerateSchedule runs the generator for one week, workforce-wide or
// for a single employee.
func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	week, err := roster.ParseISOWeek(req.Week)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week (use YYYY-Www)", err)
		return
	}

	result, err := h.Planner.GenerateWeek(r.Context(), week, roster.EmployeeID(req.EmployeeID), roster.TriggerManual)
	if err != nil {
		writeDomainError(w, "Generation failed", err)
		return
	}

	resp := GenerateResponse{
		Week:      result.Week.String(),
		Run:       toRunDTO(result.Run),
		Schedules: make([]WeekScheduleDTO, len(result.Schedules)),
	}
	for i, ws := range result.Schedules {
		resp.Schedules[i] = toWeekScheduleDTO(ws)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetWeekSchedule returns the stored rows of a week grouped per
// employee. Missing ?week= means the running week.
func (h *Handler) GetWeekSchedule(w http.ResponseWriter, r *http.Request) {
	week := roster.WeekOf(roster.Today())
	if param := r.URL.Query().Get("week"); param != "" {
		parsed, err := roster.ParseISOWeek(param)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid week (use YYYY-Www)", err)
			return
		}
		week = parsed
	}

	entries, err := h.Planner.Entries.EntriesInRange(r.Context(), roster.RangeOfWeek(week))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load schedule", err)
		return
	}

	grouped := make(map[roster.EmployeeID][]roster.ScheduleEntry)
	var order []roster.EmployeeID
	for _, e := range entries {
		if _, seen := grouped[e.EmployeeID]; !seen {
			order = append(order, e.EmployeeID)
		}
		grouped[e.EmployeeID] = append(grouped[e.EmployeeID], e)
	}

	schedules := make([]WeekScheduleDTO, 0, len(order))
	for _, id := range order {
		schedules = append(schedules, WeekScheduleDTO{
			EmployeeID: string(id),
			Week:       week.String(),
			Entries:    toEntryDTOs(grouped[id]),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"week": week.String(), "schedules": schedules})
}

// GetScheduleRange returns flat rows between two dates.
func (h *Handler) GetScheduleRange(w http.ResponseWriter, r *http.Request) {
	dateRange, err := rangeFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid range", err)
		return
	}

	entries, err := h.Planner.Entries.EntriesInRange(r.Context(), dateRange)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTOs(entries))
}

// PutManualEntry writes a frozen row. The row persists even when it
// puts the week in conflict; the conflict rides on the response.
func (h *Handler) PutManualEntry(w http.ResponseWriter, r *http.Request) {
	var req ManualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	entry, err := entryFromRequest(req)
	if err != nil {
		writeDomainError(w, "Invalid entry", err)
		return
	}

	saved, conflict, err := h.Planner.ApplyManualEdit(r.Context(), entry)
	if err != nil {
		writeDomainError(w, "Failed to save entry", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entry":    toEntryDTO(saved),
		"conflict": toConflictDTO(conflict),
	})
}

// GetOutlook projects the monthly Saturday-off quota.
func (h *Handler) GetOutlook(w http.ResponseWriter, r *http.Request) {
	param := r.URL.Query().Get("month")
	asOf := roster.Today()
	year, month := asOf.Year(), asOf.Month()
	if param != "" {
		parsed, err := time.Parse("2006-01", param)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid month (use YYYY-MM)", err)
			return
		}
		year, month = parsed.Year(), parsed.Month()
	}

	outlook, err := h.Planner.Outlook(r.Context(), year, month)
	if err != nil {
		writeDomainError(w, "Failed to project outlook", err)
		return
	}
	writeJSON(w, http.StatusOK, toOutlookDTO(outlook))
}

// ExportScheduleICS streams one employee's schedule as a calendar feed.
func (h *Handler) ExportScheduleICS(w http.ResponseWriter, r *http.Request) {
	id := roster.EmployeeID(r.URL.Query().Get("employee"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "employee query parameter is required", nil)
		return
	}

	dateRange, err := rangeFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid range", err)
		return
	}

	ctx := r.Context()
	member, err := h.Planner.Staff.GetStaff(ctx, id)
	if err != nil {
		writeDomainError(w, "Failed to get employee", err)
		return
	}
	entries, err := h.Planner.Entries.EntriesForEmployee(ctx, id, dateRange)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load schedule", err)
		return
	}

	feed := export.ScheduleICS(member.Employee, entries)
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.ScheduleFilename(id)))
	w.Write(feed)
}

// =============================================================================
// ABSENCE HANDLERS
// =============================================================================

func (h *Handler) CreateAbsence(w http.ResponseWriter, r *http.Request) {
	var req CreateAbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rec := timesheet.AbsenceRecord{
		EmployeeID: roster.EmployeeID(req.EmployeeID),
		Kind:       timesheet.AbsenceKind(req.Kind),
		Comment:    req.Comment,
	}
	var err error
	if req.StartDate != "" {
		if rec.StartDate, err = roster.ParseDay(req.StartDate); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid startDate (use YYYY-MM-DD)", err)
			return
		}
	}
	if req.EndDate != "" {
		if rec.EndDate, err = roster.ParseDay(req.EndDate); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid endDate (use YYYY-MM-DD)", err)
			return
		}
	}

	// Justification defaults to the kind's convention: planned leave is
	// justified by its approval, sickness waits for a note.
	if req.Justified != nil {
		rec.Justified = *req.Justified
	} else if info := timesheet.LookupKind(rec.Kind); info != nil {
		rec.Justified = info.DefaultJustified
	}

	saved, err := h.tracker().RecordAbsence(r.Context(), rec)
	if err != nil {
		writeDomainError(w, "Failed to record absence", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAbsenceDTO(saved))
}

func (h *Handler) ListAbsences(w http.ResponseWriter, r *http.Request) {
	dateRange, err := rangeFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid range", err)
		return
	}

	ctx := r.Context()
	var records []timesheet.AbsenceRecord
	if employee := r.URL.Query().Get("employee"); employee != "" {
		records, err = h.tracker().Absences.AbsencesForEmployee(ctx, roster.EmployeeID(employee), dateRange)
	} else {
		records, err = h.tracker().AbsencesIn(ctx, dateRange)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list absences", err)
		return
	}

	dtos := make([]AbsenceDTO, len(records))
	for i, rec := range records {
		dtos[i] = toAbsenceDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) DeleteAbsence(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker().RemoveAbsence(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "Failed to delete absence", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LATENESS HANDLERS
// =============================================================================

func (h *Handler) CreateLateness(w http.ResponseWriter, r *http.Request) {
	var req CreateLatenessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rec := timesheet.LatenessRecord{
		EmployeeID:  roster.EmployeeID(req.EmployeeID),
		MinutesLate: req.MinutesLate,
		Comment:     req.Comment,
	}
	if req.Justified != nil {
		rec.Justified = *req.Justified
	}

	var err error
	if req.Date != "" {
		if rec.Date, err = roster.ParseDay(req.Date); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
			return
		}
	}
	if req.ScheduledAt != "" {
		if rec.ScheduledAt, err = roster.ParseClockTime(req.ScheduledAt); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid scheduledAt (use HH:MM)", err)
			return
		}
	}
	if req.ArrivedAt != "" {
		if rec.ArrivedAt, err = roster.ParseClockTime(req.ArrivedAt); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid arrivedAt (use HH:MM)", err)
			return
		}
	}

	saved, err := h.tracker().RecordLateness(r.Context(), rec)
	if err != nil {
		writeDomainError(w, "Failed to record lateness", err)
		return
	}
	writeJSON(w, http.StatusCreated, toLatenessDTO(saved))
}

func (h *Handler) ListLateness(w http.ResponseWriter, r *http.Request) {
	dateRange, err := rangeFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid range", err)
		return
	}

	ctx := r.Context()
	var records []timesheet.LatenessRecord
	if employee := r.URL.Query().Get("employee"); employee != "" {
		records, err = h.tracker().Lateness.LatenessForEmployee(ctx, roster.EmployeeID(employee), dateRange)
	} else {
		records, err = h.tracker().LatenessIn(ctx, dateRange)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list lateness", err)
		return
	}

	dtos := make([]LatenessDTO, len(records))
	for i, rec := range records {
		dtos[i] = toLatenessDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) DeleteLateness(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker().RemoveLateness(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "Failed to delete lateness", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// reportData loads the active roster and its report rows for a range.
func (h *Handler) reportData(r *http.Request) ([]roster.StaffMember, []timesheet.HourReportRow, roster.DateRange, error) {
	dateRange, err := rangeFromQuery(r)
	if err != nil {
		return nil, nil, roster.DateRange{}, err
	}

	ctx := r.Context()
	members, err := h.Planner.Staff.ListStaff(ctx, false)
	if err != nil {
		return nil, nil, roster.DateRange{}, err
	}

	ids := make([]roster.EmployeeID, len(members))
	for i, m := range members {
		ids[i] = m.Employee.ID
	}
	rows, err := h.tracker().Report(ctx, ids, dateRange)
	if err != nil {
		return nil, nil, roster.DateRange{}, err
	}
	return members, rows, dateRange, nil
}

// GetReport returns one row per active employee, zero-filled when the
// range holds nothing for them.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	members, rows, dateRange, err := h.reportData(r)
	if err != nil {
		writeDomainError(w, "Failed to build report", err)
		return
	}

	byID := make(map[roster.EmployeeID]timesheet.HourReportRow, len(rows))
	for _, row := range rows {
		byID[row.EmployeeID] = row
	}

	dtos := make([]ReportRowDTO, 0, len(members))
	for _, m := range members {
		row, ok := byID[m.Employee.ID]
		if !ok {
			row = timesheet.HourReportRow{
				EmployeeID:          m.Employee.ID,
				RangeStart:          dateRange.Start,
				RangeEnd:            dateRange.End,
				PlannedHours:        roster.ZeroHours(),
				AbsenceHours:        roster.ZeroHours(),
				LatenessHours:       roster.ZeroHours(),
				TotalEffectiveHours: roster.ZeroHours(),
			}
		}
		dtos = append(dtos, toReportRowDTO(row, m.Employee.Name))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ExportReportCSV streams the report under the original column contract.
func (h *Handler) ExportReportCSV(w http.ResponseWriter, r *http.Request) {
	members, rows, dateRange, err := h.reportData(r)
	if err != nil {
		writeDomainError(w, "Failed to build report", err)
		return
	}

	data, err := export.ReportCSV(employeesOf(members), rows)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render report", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.ReportFilename(dateRange.Start, dateRange.End, "csv")))
	w.Write(data)
}

// ExportReportXLSX streams the report as a styled workbook.
func (h *Handler) ExportReportXLSX(w http.ResponseWriter, r *http.Request) {
	members, rows, dateRange, err := h.reportData(r)
	if err != nil {
		writeDomainError(w, "Failed to build report", err)
		return
	}

	buf, err := export.ReportXLSX(employeesOf(members), rows, dateRange.Start, dateRange.End)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render report", err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.ReportFilename(dateRange.Start, dateRange.End, "xlsx")))
	w.Write(buf.Bytes())
}

func employeesOf(members []roster.StaffMember) []roster.Employee {
	employees := make([]roster.Employee, len(members))
	for i, m := range members {
		employees[i] = m.Employee
	}
	return employees
}

// =============================================================================
// RUN HANDLERS
// =============================================================================

// ListRuns returns the generation audit list, newest first.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if param := r.URL.Query().Get("limit"); param != "" {
		parsed, err := strconv.Atoi(param)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = parsed
	}

	runs, err := h.Planner.Runs.RecentRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	dtos := make([]RunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRunDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PARSING AND ERROR HELPERS
// =============================================================================

// entryFromRequest builds the manual row; deep validation happens in the
// schedule book.
func entryFromRequest(req ManualEntryRequest) (roster.ScheduleEntry, error) {
	entry := roster.ScheduleEntry{
		EmployeeID:       roster.EmployeeID(req.EmployeeID),
		Status:           roster.EntryStatus(req.Status),
		BreakMinutes:     req.BreakMinutes,
		Manual:           true,
		Replacement:      req.Replacement,
		ReplacesEmployee: roster.EmployeeID(req.ReplacesEmployee),
		Comment:          req.Comment,
	}

	var err error
	if req.Date != "" {
		if entry.Date, err = roster.ParseDay(req.Date); err != nil {
			return roster.ScheduleEntry{}, &roster.DataInconsistencyError{
				RecordKind: "schedule_entry",
				EmployeeID: entry.EmployeeID,
				Reason:     err.Error(),
			}
		}
	}
	if req.Start != "" {
		if entry.Start, err = roster.ParseClockTime(req.Start); err != nil {
			return roster.ScheduleEntry{}, &roster.DataInconsistencyError{
				RecordKind: "schedule_entry",
				EmployeeID: entry.EmployeeID,
				Date:       entry.Date,
				Reason:     err.Error(),
			}
		}
	}
	if req.End != "" {
		if entry.End, err = roster.ParseClockTime(req.End); err != nil {
			return roster.ScheduleEntry{}, &roster.DataInconsistencyError{
				RecordKind: "schedule_entry",
				EmployeeID: entry.EmployeeID,
				Date:       entry.Date,
				Reason:     err.Error(),
			}
		}
	}
	return entry, nil
}

// rangeFromQuery reads ?from=&to=; both absent means the current month.
func rangeFromQuery(r *http.Request) (roster.DateRange, error) {
	fromParam := r.URL.Query().Get("from")
	toParam := r.URL.Query().Get("to")

	if fromParam == "" && toParam == "" {
		today := roster.Today()
		return roster.RangeOfMonth(today.Year(), today.Month()), nil
	}
	if fromParam == "" || toParam == "" {
		return roster.DateRange{}, fmt.Errorf("from and to must be given together: %w", roster.ErrInvalidRange)
	}

	from, err := roster.ParseDay(fromParam)
	if err != nil {
		return roster.DateRange{}, err
	}
	to, err := roster.ParseDay(toParam)
	if err != nil {
		return roster.DateRange{}, err
	}
	return roster.NewDateRange(from, to)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps a domain error onto its HTTP status and taxonomy
// code.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	resp := ErrorResponse{Error: message, Code: codeForError(err)}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, statusForError(err), resp)
}

func statusForError(err error) int {
	switch {
	case roster.IsNotFound(err),
		errors.Is(err, timesheet.ErrAbsenceNotFound),
		errors.Is(err, timesheet.ErrLatenessNotFound):
		return http.StatusNotFound
	case roster.IsDuplicate(err),
		roster.IsConflict(err),
		errors.Is(err, timesheet.ErrLatenessExists):
		return http.StatusConflict
	case roster.IsInconsistency(err),
		errors.Is(err, roster.ErrInvalidSettings),
		errors.Is(err, roster.ErrInvalidWeek),
		errors.Is(err, roster.ErrInvalidRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func codeForError(err error) string {
	switch {
	case roster.IsConflict(err):
		return "constraint_conflict"
	case roster.IsUnsatisfiable(err):
		return "policy_unsatisfiable"
	case roster.IsInconsistency(err):
		return "data_inconsistency"
	case roster.IsDuplicate(err), errors.Is(err, timesheet.ErrLatenessExists):
		return "duplicate_entry"
	case roster.IsNotFound(err),
		errors.Is(err, timesheet.ErrAbsenceNotFound),
		errors.Is(err, timesheet.ErrLatenessNotFound):
		return "not_found"
	case errors.Is(err, roster.ErrInvalidSettings),
		errors.Is(err, roster.ErrInvalidWeek),
		errors.Is(err, roster.ErrInvalidRange):
		return "invalid_input"
	default:
		return ""
	}
}
