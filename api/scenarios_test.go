/*
scenarios_test.go - Demo scenario loader tests

Tests for:
- Boutique trio seeding and generated weeks
- Deviation records in the deviations scenario
- Store reset between scenario loads
*/
package api

import (
	"context"
	"testing"
	"time"

	"github.com/geraldbelrose-cyber/skello-perso/roster"
)

func TestBoutiqueScenario_SeedsTeamAndWeeks(t *testing.T) {
	// GIVEN: Empty stores
	p := newTestPlanner()
	h := NewHandler(p, p.Logger)
	ctx := context.Background()

	// WHEN: Loading the boutique scenario
	if err := h.loadBoutiqueScenario(ctx); err != nil {
		t.Fatalf("loadBoutiqueScenario failed: %v", err)
	}

	// THEN: The trio exists with the original pins and ranks
	members, err := p.Staff.ListStaff(ctx, false)
	if err != nil {
		t.Fatalf("ListStaff failed: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("Expected 3 employees, got %d", len(members))
	}
	pins := map[roster.EmployeeID]time.Weekday{
		"emp-001": time.Wednesday,
		"emp-002": time.Thursday,
		"emp-003": time.Tuesday,
	}
	ranks := map[roster.EmployeeID]int{"emp-001": 3, "emp-002": 2, "emp-003": 4}
	for _, m := range members {
		if m.Profile.PinnedRestDay == nil || *m.Profile.PinnedRestDay != pins[m.Employee.ID] {
			t.Errorf("Employee %s: wrong pinned rest day %v", m.Employee.ID, m.Profile.PinnedRestDay)
		}
		if m.Profile.SaturdayRank != ranks[m.Employee.ID] {
			t.Errorf("Employee %s: wrong rank %d", m.Employee.ID, m.Profile.SaturdayRank)
		}
	}

	// Three surrounding weeks are generated
	week := roster.WeekOf(roster.Today())
	for _, w := range []roster.ISOWeek{week.Prev(), week, week.Next()} {
		entries, err := p.Entries.EntriesInRange(ctx, roster.RangeOfWeek(w))
		if err != nil {
			t.Fatalf("EntriesInRange failed: %v", err)
		}
		if len(entries) != 21 {
			t.Errorf("Week %s: expected 21 rows, got %d", w, len(entries))
		}
	}
}

func TestDeviationsScenario_RecordsAbsenceAndLateness(t *testing.T) {
	// GIVEN: Empty stores
	p := newTestPlanner()
	h := NewHandler(p, p.Logger)
	ctx := context.Background()

	// WHEN: Loading the deviations scenario
	if err := h.loadDeviationsScenario(ctx); err != nil {
		t.Fatalf("loadDeviationsScenario failed: %v", err)
	}

	// THEN: One absence and one lateness exist in the current week
	week := roster.WeekOf(roster.Today())
	absences, err := p.Tracker.AbsencesIn(ctx, roster.RangeOfWeek(week))
	if err != nil {
		t.Fatalf("AbsencesIn failed: %v", err)
	}
	if len(absences) != 1 || absences[0].EmployeeID != "emp-002" {
		t.Fatalf("Expected one absence for emp-002, got %+v", absences)
	}

	lateness, err := p.Tracker.LatenessIn(ctx, roster.RangeOfWeek(week))
	if err != nil {
		t.Fatalf("LatenessIn failed: %v", err)
	}
	if len(lateness) != 1 || lateness[0].EmployeeID != "emp-001" {
		t.Fatalf("Expected one lateness for emp-001, got %+v", lateness)
	}
	if lateness[0].MinutesLate != 20 {
		t.Errorf("Expected 20 minutes late, got %d", lateness[0].MinutesLate)
	}
}

func TestOpenRotationScenario_SpreadsRestDays(t *testing.T) {
	// GIVEN: Empty stores
	p := newTestPlanner()
	h := NewHandler(p, p.Logger)
	ctx := context.Background()

	// WHEN: Loading the open rotation scenario
	if err := h.loadOpenRotationScenario(ctx); err != nil {
		t.Fatalf("loadOpenRotationScenario failed: %v", err)
	}

	// THEN: Five unpinned employees each got exactly one rest day
	members, err := p.Staff.ListStaff(ctx, false)
	if err != nil {
		t.Fatalf("ListStaff failed: %v", err)
	}
	if len(members) != 5 {
		t.Fatalf("Expected 5 employees, got %d", len(members))
	}

	week := roster.WeekOf(roster.Today())
	for _, m := range members {
		if m.Profile.PinnedRestDay != nil {
			t.Errorf("Employee %s: expected no pin", m.Employee.ID)
		}
		entries, err := p.Entries.EntriesForEmployee(ctx, m.Employee.ID, roster.RangeOfWeek(week))
		if err != nil {
			t.Fatalf("EntriesForEmployee failed: %v", err)
		}
		restDays := 0
		for _, e := range entries {
			if e.Status == roster.StatusRestDay {
				restDays++
			}
		}
		if restDays != 1 {
			t.Errorf("Employee %s: expected 1 rest day, got %d", m.Employee.ID, restDays)
		}
	}
}

func TestResetStores_ClearsPreviousScenario(t *testing.T) {
	// GIVEN: The boutique scenario loaded
	p := newTestPlanner()
	h := NewHandler(p, p.Logger)
	ctx := context.Background()
	if err := h.loadBoutiqueScenario(ctx); err != nil {
		t.Fatalf("loadBoutiqueScenario failed: %v", err)
	}

	// WHEN: Resetting and loading the open rotation
	if err := h.resetStores(ctx); err != nil {
		t.Fatalf("resetStores failed: %v", err)
	}
	if err := h.loadOpenRotationScenario(ctx); err != nil {
		t.Fatalf("loadOpenRotationScenario failed: %v", err)
	}

	// THEN: Only the rotation team remains
	members, err := p.Staff.ListStaff(ctx, true)
	if err != nil {
		t.Fatalf("ListStaff failed: %v", err)
	}
	if len(members) != 5 {
		t.Errorf("Expected 5 employees after reset, got %d", len(members))
	}

	versions, err := p.Policies.PolicyVersions(ctx)
	if err != nil {
		t.Fatalf("PolicyVersions failed: %v", err)
	}
	if len(versions) != 1 {
		t.Errorf("Expected 1 policy version after reset, got %d", len(versions))
	}
}
