package roster_test

import (
	"testing"
	"time"

	"github.com/geraldbelrose-cyber/skello-perso/roster"
)

func marchOutlookInput(asOf roster.Day, profiles ...roster.EmployeeProfile) roster.OutlookInput {
	return roster.OutlookInput{
		Year:     2024,
		Month:    time.March,
		Profiles: profiles,
		Settings: roster.DefaultSettings(),
		AsOf:     asOf,
	}
}

func TestProjectMonth_OpenMonth_ListsEveryRemainingSaturday(t *testing.T) {
	// GIVEN: No allocation yet and the whole of March 2024 ahead
	// THEN: All five Saturdays remain, the last chance is March 30

	in := marchOutlookInput(day(2024, time.March, 1), roster.EmployeeProfile{EmployeeID: "emp-1"})

	out := roster.ProjectMonth(in)
	if len(out.Employees) != 1 {
		t.Fatalf("expected 1 employee, got %d", len(out.Employees))
	}

	eo := out.Employees[0]
	if eo.Satisfied {
		t.Error("nothing is allocated yet")
	}
	if len(eo.RemainingSaturdays) != 5 {
		t.Fatalf("expected 5 remaining Saturdays, got %d", len(eo.RemainingSaturdays))
	}
	if !eo.LastChance.Equal(day(2024, time.March, 30)) {
		t.Errorf("expected last chance 2024-03-30, got %s", eo.LastChance)
	}
	if eo.AtRisk || eo.Unsatisfiable {
		t.Error("an open month is neither at risk nor unsatisfiable")
	}
}

func TestProjectMonth_ExistingAllocationSatisfies(t *testing.T) {
	in := marchOutlookInput(day(2024, time.March, 12), roster.EmployeeProfile{EmployeeID: "emp-1"})
	in.Entries = []roster.ScheduleEntry{
		{EmployeeID: "emp-1", Date: day(2024, time.March, 9), Status: roster.StatusSaturdayOff},
	}

	eo := roster.ProjectMonth(in).Employees[0]
	if !eo.Satisfied {
		t.Fatal("March 9 already carries the allocation")
	}
	if !eo.SatisfiedOn.Equal(day(2024, time.March, 9)) {
		t.Errorf("expected satisfied on 2024-03-09, got %s", eo.SatisfiedOn)
	}
	if len(eo.RemainingSaturdays) != 0 {
		t.Error("a satisfied month lists no candidates")
	}
}

func TestProjectMonth_RankNarrowsToTheSinglePreferredSaturday(t *testing.T) {
	in := marchOutlookInput(day(2024, time.March, 1),
		roster.EmployeeProfile{EmployeeID: "emp-1", SaturdayRank: 2})

	eo := roster.ProjectMonth(in).Employees[0]
	if len(eo.RemainingSaturdays) != 1 {
		t.Fatalf("rank 2 leaves exactly one candidate, got %d", len(eo.RemainingSaturdays))
	}
	if !eo.RemainingSaturdays[0].Equal(day(2024, time.March, 9)) {
		t.Errorf("expected 2024-03-09, got %s", eo.RemainingSaturdays[0])
	}
	if !eo.AtRisk {
		t.Error("one remaining candidate means at risk")
	}
}

func TestProjectMonth_LateInTheMonth_AtRiskThenUnsatisfiable(t *testing.T) {
	profile := roster.EmployeeProfile{EmployeeID: "emp-1"}

	eo := roster.ProjectMonth(marchOutlookInput(day(2024, time.March, 25), profile)).Employees[0]
	if !eo.AtRisk || eo.Unsatisfiable {
		t.Errorf("March 30 still remains: AtRisk=%v Unsatisfiable=%v", eo.AtRisk, eo.Unsatisfiable)
	}

	eo = roster.ProjectMonth(marchOutlookInput(day(2024, time.March, 31), profile)).Employees[0]
	if !eo.Unsatisfiable {
		t.Error("no Saturday remains after March 30")
	}
}

func TestProjectMonth_ManuallyOccupiedSaturdayIsNoCandidate(t *testing.T) {
	in := marchOutlookInput(day(2024, time.March, 25), roster.EmployeeProfile{EmployeeID: "emp-1"})
	in.Entries = []roster.ScheduleEntry{
		{
			EmployeeID: "emp-1",
			Date:       day(2024, time.March, 30),
			Status:     roster.StatusWorking,
			Start:      roster.NewClockTime(8, 0),
			End:        roster.NewClockTime(12, 0),
			Manual:     true,
		},
	}

	eo := roster.ProjectMonth(in).Employees[0]
	if !eo.Unsatisfiable {
		t.Error("the only remaining Saturday is manually occupied")
	}
}

func TestProjectMonth_AbsentSaturdaysSatisfyWhenThePolicySaysSo(t *testing.T) {
	in := marchOutlookInput(day(2024, time.March, 12), roster.EmployeeProfile{EmployeeID: "emp-1"})
	in.Settings.AbsentSaturdayCountsTowardQuota = true
	in.Absences = map[roster.EmployeeID][]roster.DateRange{
		"emp-1": {{Start: day(2024, time.March, 8), End: day(2024, time.March, 10)}},
	}

	eo := roster.ProjectMonth(in).Employees[0]
	if !eo.Satisfied {
		t.Fatal("the absence swallowed March 9, the quota counts it")
	}
	if !eo.SatisfiedOn.Equal(day(2024, time.March, 9)) {
		t.Errorf("expected satisfied on 2024-03-09, got %s", eo.SatisfiedOn)
	}
}
