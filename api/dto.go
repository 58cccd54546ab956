/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract: field naming,
  date formats (YYYY-MM-DD, HH:MM, YYYY-Www) and hour rendering can evolve
  without touching the engine.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

  The settings payload lives in the config package; handlers pass it
  through rather than redefining it here.

HOURS ON THE WIRE:
  Hour quantities serialize as float64, the rounding the report contract
  fixes at two decimals happens in export, not here.

SEE ALSO:
  - handlers.go: Uses these types
  - config/settings.go: SettingsPayload for GET/PUT /api/settings
*/
package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/geraldbelrose-cyber/skello-perso/roster"
	"github.com/geraldbelrose-cyber/skello-perso/timesheet"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO is one member of the registry: identity plus the scheduling
// profile the generator reads.
type EmployeeDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`

	// RestDay pins the weekly rest day ("monday".."saturday"); empty means
	// the rotation decides.
	RestDay string `json:"restDay,omitempty"`

	// SaturdayRank prefers the nth Saturday of the month (1-5); 0 takes
	// the first available.
	SaturdayRank int `json:"saturdayRank"`

	Ordinal int    `json:"ordinal"`
	HiredOn string `json:"hiredOn,omitempty"`
}

// UpsertEmployeeRequest creates or replaces a member.
type UpsertEmployeeRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Active       *bool  `json:"active,omitempty"`
	RestDay      string `json:"restDay,omitempty"`
	SaturdayRank int    `json:"saturdayRank"`
	Ordinal      *int   `json:"ordinal,omitempty"`
	HiredOn      string `json:"hiredOn,omitempty"`
}

func toEmployeeDTO(m roster.StaffMember) EmployeeDTO {
	dto := EmployeeDTO{
		ID:           string(m.Employee.ID),
		Name:         m.Employee.Name,
		Active:       m.Employee.Active,
		SaturdayRank: m.Profile.SaturdayRank,
		Ordinal:      m.Profile.Ordinal,
	}
	if m.Profile.PinnedRestDay != nil {
		dto.RestDay = strings.ToLower(m.Profile.PinnedRestDay.String())
	}
	if !m.Profile.HiredOn.IsZero() {
		dto.HiredOn = m.Profile.HiredOn.String()
	}
	return dto
}

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

func parseWeekday(s string) (*time.Weekday, error) {
	if s == "" {
		return nil, nil
	}
	wd, ok := weekdayNames[strings.ToLower(s)]
	if !ok {
		return nil, fmt.Errorf("unknown weekday %q", s)
	}
	return &wd, nil
}

// =============================================================================
// SCHEDULE
// =============================================================================

type EntryDTO struct {
	EmployeeID   string  `json:"employeeId"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	Start        string  `json:"start,omitempty"`
	End          string  `json:"end,omitempty"`
	BreakMinutes int     `json:"breakMinutes,omitempty"`
	PlannedHours float64 `json:"plannedHours"`
	Manual       bool    `json:"manual,omitempty"`

	Replacement      bool   `json:"replacement,omitempty"`
	ReplacesEmployee string `json:"replacesEmployee,omitempty"`
	Comment          string `json:"comment,omitempty"`
}

func toEntryDTO(e roster.ScheduleEntry) EntryDTO {
	dto := EntryDTO{
		EmployeeID:       string(e.EmployeeID),
		Date:             e.Date.String(),
		Status:           string(e.Status),
		PlannedHours:     e.PlannedHours().Float64(),
		Manual:           e.Manual,
		Replacement:      e.Replacement,
		ReplacesEmployee: string(e.ReplacesEmployee),
		Comment:          e.Comment,
	}
	if e.Status == roster.StatusWorking {
		dto.Start = e.Start.String()
		dto.End = e.End.String()
		dto.BreakMinutes = e.BreakMinutes
	}
	return dto
}

func toEntryDTOs(entries []roster.ScheduleEntry) []EntryDTO {
	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toEntryDTO(e)
	}
	return dtos
}

// ManualEntryRequest is the body of PUT /api/schedule/entry. The row it
// writes is frozen against regeneration.
type ManualEntryRequest struct {
	EmployeeID       string `json:"employeeId"`
	Date             string `json:"date"`
	Status           string `json:"status"`
	Start            string `json:"start,omitempty"`
	End              string `json:"end,omitempty"`
	BreakMinutes     int    `json:"breakMinutes,omitempty"`
	Replacement      bool   `json:"replacement,omitempty"`
	ReplacesEmployee string `json:"replacesEmployee,omitempty"`
	Comment          string `json:"comment,omitempty"`
}

type ConflictDTO struct {
	EmployeeID string     `json:"employeeId"`
	Week       string     `json:"week"`
	Constraint string     `json:"constraint"`
	Entries    []EntryDTO `json:"entries"`
}

func toConflictDTO(c *roster.ConstraintConflictError) *ConflictDTO {
	if c == nil {
		return nil
	}
	return &ConflictDTO{
		EmployeeID: string(c.EmployeeID),
		Week:       c.Week.String(),
		Constraint: c.Constraint,
		Entries:    toEntryDTOs(c.Entries),
	}
}

type WarningDTO struct {
	EmployeeID string `json:"employeeId"`
	Quota      string `json:"quota"`
	Reason     string `json:"reason"`
}

func toWarningDTOs(ws []*roster.PolicyUnsatisfiableError) []WarningDTO {
	dtos := make([]WarningDTO, 0, len(ws))
	for _, w := range ws {
		dtos = append(dtos, WarningDTO{
			EmployeeID: string(w.EmployeeID),
			Quota:      w.Quota,
			Reason:     w.Reason,
		})
	}
	return dtos
}

type WeekScheduleDTO struct {
	EmployeeID string       `json:"employeeId"`
	Week       string       `json:"week"`
	Entries    []EntryDTO   `json:"entries"`
	Conflict   *ConflictDTO `json:"conflict,omitempty"`
	Warnings   []WarningDTO `json:"warnings,omitempty"`
}

func toWeekScheduleDTO(ws roster.WeekSchedule) WeekScheduleDTO {
	dto := WeekScheduleDTO{
		EmployeeID: string(ws.EmployeeID),
		Week:       ws.Week.String(),
		Entries:    toEntryDTOs(ws.Entries),
		Conflict:   toConflictDTO(ws.Conflict),
	}
	if len(ws.Warnings) > 0 {
		dto.Warnings = toWarningDTOs(ws.Warnings)
	}
	return dto
}

// GenerateRequest asks for one week, workforce-wide or for one employee.
type GenerateRequest struct {
	Week       string `json:"week"`
	EmployeeID string `json:"employeeId,omitempty"`
}

type GenerateResponse struct {
	Week      string            `json:"week"`
	Run       RunDTO            `json:"run"`
	Schedules []WeekScheduleDTO `json:"schedules"`
}

type RunDTO struct {
	ID         string `json:"id"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt"`
	Trigger    string `json:"trigger"`
	Week       string `json:"week"`
	Employees  int    `json:"employees"`
	Inserted   int    `json:"inserted"`
	Superseded int    `json:"superseded"`
	Frozen     int    `json:"frozen"`
	Conflicts  int    `json:"conflicts"`
	Warnings   int    `json:"warnings"`
	Error      string `json:"error,omitempty"`
}

func toRunDTO(run roster.GenerationRun) RunDTO {
	return RunDTO{
		ID:         run.ID,
		StartedAt:  run.StartedAt.Format(time.RFC3339),
		FinishedAt: run.FinishedAt.Format(time.RFC3339),
		Trigger:    string(run.Trigger),
		Week:       run.Week.String(),
		Employees:  run.Employees,
		Inserted:   run.Inserted,
		Superseded: run.Superseded,
		Frozen:     run.Frozen,
		Conflicts:  run.Conflicts,
		Warnings:   run.Warnings,
		Error:      run.Err,
	}
}

// =============================================================================
// OUTLOOK
// =============================================================================

type OutlookEmployeeDTO struct {
	EmployeeID         string   `json:"employeeId"`
	Satisfied          bool     `json:"satisfied"`
	SatisfiedOn        string   `json:"satisfiedOn,omitempty"`
	RemainingSaturdays []string `json:"remainingSaturdays"`
	LastChance         string   `json:"lastChance,omitempty"`
	AtRisk             bool     `json:"atRisk"`
	Unsatisfiable      bool     `json:"unsatisfiable"`
}

type OutlookDTO struct {
	Month     string               `json:"month"`
	Employees []OutlookEmployeeDTO `json:"employees"`
}

func toOutlookDTO(o roster.MonthOutlook) OutlookDTO {
	dto := OutlookDTO{
		Month:     fmt.Sprintf("%04d-%02d", o.Year, int(o.Month)),
		Employees: make([]OutlookEmployeeDTO, 0, len(o.Employees)),
	}
	for _, e := range o.Employees {
		emp := OutlookEmployeeDTO{
			EmployeeID:         string(e.EmployeeID),
			Satisfied:          e.Satisfied,
			RemainingSaturdays: make([]string, 0, len(e.RemainingSaturdays)),
			AtRisk:             e.AtRisk,
			Unsatisfiable:      e.Unsatisfiable,
		}
		if !e.SatisfiedOn.IsZero() {
			emp.SatisfiedOn = e.SatisfiedOn.String()
		}
		for _, d := range e.RemainingSaturdays {
			emp.RemainingSaturdays = append(emp.RemainingSaturdays, d.String())
		}
		if !e.LastChance.IsZero() {
			emp.LastChance = e.LastChance.String()
		}
		dto.Employees = append(dto.Employees, emp)
	}
	return dto
}

// =============================================================================
// ABSENCES AND LATENESS
// =============================================================================

type AbsenceDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Kind       string `json:"kind"`
	Justified  bool   `json:"justified"`
	Comment    string `json:"comment,omitempty"`
}

type CreateAbsenceRequest struct {
	EmployeeID string `json:"employeeId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Kind       string `json:"kind"`
	Justified  *bool  `json:"justified,omitempty"`
	Comment    string `json:"comment,omitempty"`
}

func toAbsenceDTO(rec timesheet.AbsenceRecord) AbsenceDTO {
	return AbsenceDTO{
		ID:         rec.ID,
		EmployeeID: string(rec.EmployeeID),
		StartDate:  rec.StartDate.String(),
		EndDate:    rec.EndDate.String(),
		Kind:       string(rec.Kind),
		Justified:  rec.Justified,
		Comment:    rec.Comment,
	}
}

type LatenessDTO struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employeeId"`
	Date        string `json:"date"`
	ScheduledAt string `json:"scheduledAt,omitempty"`
	ArrivedAt   string `json:"arrivedAt,omitempty"`
	MinutesLate int    `json:"minutesLate"`
	Justified   bool   `json:"justified"`
	Comment     string `json:"comment,omitempty"`
}

// CreateLatenessRequest records one late arrival. Clients send either the
// scheduled/arrived clock pair or minutesLate directly.
type CreateLatenessRequest struct {
	EmployeeID  string `json:"employeeId"`
	Date        string `json:"date"`
	ScheduledAt string `json:"scheduledAt,omitempty"`
	ArrivedAt   string `json:"arrivedAt,omitempty"`
	MinutesLate int    `json:"minutesLate,omitempty"`
	Justified   *bool  `json:"justified,omitempty"`
	Comment     string `json:"comment,omitempty"`
}

func toLatenessDTO(rec timesheet.LatenessRecord) LatenessDTO {
	dto := LatenessDTO{
		ID:          rec.ID,
		EmployeeID:  string(rec.EmployeeID),
		Date:        rec.Date.String(),
		MinutesLate: rec.MinutesLate,
		Justified:   rec.Justified,
		Comment:     rec.Comment,
	}
	if rec.ScheduledAt != 0 || rec.ArrivedAt != 0 {
		dto.ScheduledAt = rec.ScheduledAt.String()
		dto.ArrivedAt = rec.ArrivedAt.String()
	}
	return dto
}

// =============================================================================
// REPORT
// =============================================================================

type ReportRowDTO struct {
	EmployeeID          string  `json:"employeeId"`
	Name                string  `json:"name"`
	From                string  `json:"from"`
	To                  string  `json:"to"`
	PlannedHours        float64 `json:"plannedHours"`
	AbsenceHours        float64 `json:"absenceHours"`
	LatenessHours       float64 `json:"latenessHours"`
	TotalEffectiveHours float64 `json:"totalEffectiveHours"`
}

func toReportRowDTO(row timesheet.HourReportRow, name string) ReportRowDTO {
	return ReportRowDTO{
		EmployeeID:          string(row.EmployeeID),
		Name:                name,
		From:                row.RangeStart.String(),
		To:                  row.RangeEnd.String(),
		PlannedHours:        row.PlannedHours.Float64(),
		AbsenceHours:        row.AbsenceHours.Float64(),
		LatenessHours:       row.LatenessHours.Float64(),
		TotalEffectiveHours: row.TotalEffectiveHours.Float64(),
	}
}

// =============================================================================
// SCENARIOS AND ERRORS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
