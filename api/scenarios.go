/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the stores with realistic
	data for testing and demos. Each scenario creates employees, a policy
	version, and generated weeks that demonstrate specific features.

AVAILABLE SCENARIOS:

	boutique:      The original three-person counter team with pinned
	               rest days and staggered Saturday ranks
	deviations:    Boutique team plus a recorded absence and a late
	               arrival, so the report shows effective-hour deltas
	open-rotation: Five employees with no pinned rest days, letting the
	               ordinal rotation place the weekly rest day

HOW SCENARIOS WORK:
 1. Reset the stores (clear all data)
 2. Append a policy version
 3. Create employees with their rotation profiles
 4. Generate the surrounding weeks
 5. Optionally record absences and lateness

USAGE VIA API:

	POST /api/scenarios/boutique

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader method: loadXxxScenario(ctx)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the stores. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Shared response helpers
  - planner.go: GenerateWeek, EnsureUpcoming
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/geraldbelrose-cyber/skello-perso/roster"
	"github.com/geraldbelrose-cyber/skello-perso/timesheet"
)

// ErrUnknownScenario is returned by SeedScenario for names not in the catalog.
var ErrUnknownScenario = errors.New("unknown scenario")

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "boutique",
		Name:        "Boutique Trio",
		Description: "Three employees with pinned rest days and Saturday ranks, three generated weeks",
	},
	{
		ID:          "deviations",
		Name:        "Absences & Lateness",
		Description: "Boutique trio plus a three-day leave and a late arrival in the current week",
	},
	{
		ID:          "open-rotation",
		Name:        "Open Rotation",
		Description: "Five employees without pinned rest days under office hours, rotation picks the rest day",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: h.currentScenario, Name: h.currentScenario})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	err := h.SeedScenario(r.Context(), name)
	switch {
	case errors.Is(err, ErrUnknownScenario):
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
	case err != nil:
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": name})
	}
}

// SeedScenario resets every store and loads the named scenario. The HTTP
// handler and startup seeding share it.
func (h *Handler) SeedScenario(ctx context.Context, name string) error {
	if err := h.resetStores(ctx); err != nil {
		return fmt.Errorf("failed to reset stores: %w", err)
	}
	h.currentScenario = ""

	var err error
	switch name {
	case "boutique":
		err = h.loadBoutiqueScenario(ctx)
	case "deviations":
		err = h.loadDeviationsScenario(ctx)
	case "open-rotation":
		err = h.loadOpenRotationScenario(ctx)
	default:
		return ErrUnknownScenario
	}
	if err != nil {
		return err
	}

	h.currentScenario = name
	return nil
}

// resetStores wipes every store that knows how to reset itself. Stores
// backed by the same object (the sqlite store serves them all) reset once.
func (h *Handler) resetStores(ctx context.Context) error {
	type resetter interface {
		Reset(ctx context.Context) error
	}

	stores := []any{
		h.Planner.Staff,
		h.Planner.Policies,
		h.Planner.Entries,
		h.Planner.Runs,
		h.tracker().Absences,
		h.tracker().Lateness,
	}
	seen := make(map[any]bool, len(stores))
	for _, s := range stores {
		if s == nil || seen[s] {
			continue
		}
		seen[s] = true
		if r, ok := s.(resetter); ok {
			if err := r.Reset(ctx); err != nil {
				return err
			}
		}
	}
	h.tracker().InvalidateReports()
	return nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func pinned(d time.Weekday) *time.Weekday { return &d }

// boutiqueTeam is the original counter team: pinned mid-week rest days
// and staggered Saturday ranks.
func boutiqueTeam() []roster.StaffMember {
	return []roster.StaffMember{
		{
			Employee: roster.Employee{ID: "emp-001", Name: "Employé A", Active: true},
			Profile: roster.EmployeeProfile{
				EmployeeID:    "emp-001",
				Ordinal:       0,
				PinnedRestDay: pinned(time.Wednesday),
				SaturdayRank:  3,
			},
		},
		{
			Employee: roster.Employee{ID: "emp-002", Name: "Employé B", Active: true},
			Profile: roster.EmployeeProfile{
				EmployeeID:    "emp-002",
				Ordinal:       1,
				PinnedRestDay: pinned(time.Thursday),
				SaturdayRank:  2,
			},
		},
		{
			Employee: roster.Employee{ID: "emp-003", Name: "Employé C", Active: true},
			Profile: roster.EmployeeProfile{
				EmployeeID:    "emp-003",
				Ordinal:       2,
				PinnedRestDay: pinned(time.Tuesday),
				SaturdayRank:  4,
			},
		},
	}
}

func (h *Handler) loadBoutiqueScenario(ctx context.Context) error {
	if err := h.Planner.Policies.AppendPolicyVersion(ctx, roster.DefaultSettings()); err != nil {
		return err
	}
	for _, member := range boutiqueTeam() {
		if err := h.Planner.Staff.UpsertStaff(ctx, member); err != nil {
			return err
		}
	}

	week := roster.WeekOf(roster.Today())
	for _, w := range []roster.ISOWeek{week.Prev(), week, week.Next()} {
		if _, err := h.Planner.GenerateWeek(ctx, w, "", roster.TriggerManual); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadDeviationsScenario(ctx context.Context) error {
	if err := h.loadBoutiqueScenario(ctx); err != nil {
		return err
	}

	week := roster.WeekOf(roster.Today())
	days := week.Days()

	// Three-day leave for B over the middle of the week.
	absence := timesheet.AbsenceRecord{
		EmployeeID: "emp-002",
		StartDate:  days[2],
		EndDate:    days[4],
		Kind:       timesheet.KindLeave,
		Justified:  true,
		Comment:    "Congé posé",
	}
	if _, err := h.tracker().RecordAbsence(ctx, absence); err != nil {
		return err
	}

	// A arrives 20 minutes late on their first working day.
	entries, err := h.Planner.Entries.EntriesForEmployee(ctx, "emp-001", roster.RangeOfWeek(week))
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.Status != roster.StatusWorking {
			continue
		}
		lateness := timesheet.LatenessRecord{
			EmployeeID:  "emp-001",
			Date:        entry.Date,
			MinutesLate: 20,
			Comment:     "Retard bus",
		}
		if _, err := h.tracker().RecordLateness(ctx, lateness); err != nil {
			return err
		}
		break
	}
	return nil
}

func (h *Handler) loadOpenRotationScenario(ctx context.Context) error {
	if err := h.Planner.Policies.AppendPolicyVersion(ctx, roster.OfficeSettings()); err != nil {
		return err
	}

	names := []string{"Inès Marchal", "Marc Leroy", "Nadia Benali", "Paul Girard", "Léa Fontaine"}
	for i, name := range names {
		id := roster.EmployeeID(fmt.Sprintf("emp-%03d", i+1))
		member := roster.StaffMember{
			Employee: roster.Employee{ID: id, Name: name, Active: true},
			Profile: roster.EmployeeProfile{
				EmployeeID:   id,
				Ordinal:      i,
				SaturdayRank: i + 1,
			},
		}
		if err := h.Planner.Staff.UpsertStaff(ctx, member); err != nil {
			return err
		}
	}

	week := roster.WeekOf(roster.Today())
	for _, w := range []roster.ISOWeek{week, week.Next()} {
		if _, err := h.Planner.GenerateWeek(ctx, w, "", roster.TriggerManual); err != nil {
			return err
		}
	}
	return nil
}
