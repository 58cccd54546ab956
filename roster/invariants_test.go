package roster_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/geraldbelrose-cyber/skello-perso/roster"
)

// =============================================================================
// YEAR-LONG PROPERTIES
// =============================================================================
// These tests run the generator over all 52 weeks of 2024, feeding each
// week's output back as the next week's history, the way the scheduler
// does in production. The per-week rules must hold across the whole year.
// =============================================================================

func simulateYear(t *testing.T, profile roster.EmployeeProfile) []roster.WeekSchedule {
	t.Helper()
	gen := roster.NewGenerator()

	var weeks []roster.WeekSchedule
	var prior []roster.ScheduleEntry
	for num := 1; num <= 52; num++ {
		ws, err := gen.GenerateWeek(roster.GenerateInput{
			Profile:  profile,
			Week:     week(2024, num),
			Settings: roster.DefaultSettings(),
			Prior:    prior,
		})
		if err != nil {
			t.Fatalf("week %d: %v", num, err)
		}
		prior = append(prior, ws.Entries...)
		weeks = append(weeks, ws)
	}
	return weeks
}

func TestInvariant_ExactlyOneRestDayPerWeek_AllYear(t *testing.T) {
	for ordinal := 0; ordinal < 6; ordinal++ {
		profile := roster.EmployeeProfile{EmployeeID: "emp", Ordinal: ordinal}
		for _, ws := range simulateYear(t, profile) {
			if got := countStatus(ws.Entries, roster.StatusRestDay); got != 1 {
				t.Errorf("ordinal %d, %s: expected 1 rest day, got %d", ordinal, ws.Week, got)
			}
			for _, e := range ws.Entries {
				if e.Status == roster.StatusRestDay && e.Date.IsSunday() {
					t.Errorf("ordinal %d, %s: rest day landed on a Sunday", ordinal, ws.Week)
				}
			}
		}
	}
}

func TestInvariant_SundaysAlwaysClosed_AllYear(t *testing.T) {
	profile := roster.EmployeeProfile{EmployeeID: "emp", Ordinal: 3}
	for _, ws := range simulateYear(t, profile) {
		for _, e := range ws.Entries {
			if e.Date.IsSunday() && e.Status != roster.StatusClosed {
				t.Errorf("%s: Sunday %s is %s, not closed", ws.Week, e.Date, e.Status)
			}
			if !e.Date.IsSunday() && e.Status == roster.StatusClosed {
				t.Errorf("%s: %s is closed but not a Sunday", ws.Week, e.Date)
			}
		}
	}
}

func TestInvariant_ExactlyOneSaturdayOffPerMonth_AllYear(t *testing.T) {
	for ordinal := 0; ordinal < 6; ordinal++ {
		profile := roster.EmployeeProfile{EmployeeID: "emp", Ordinal: ordinal}

		perMonth := make(map[time.Month]int)
		for _, ws := range simulateYear(t, profile) {
			for _, e := range ws.Entries {
				if e.Status != roster.StatusSaturdayOff {
					continue
				}
				if !e.Date.IsSaturday() {
					t.Errorf("ordinal %d: allocation on %s, which is not a Saturday", ordinal, e.Date)
				}
				perMonth[e.Date.Month()]++
			}
		}

		for m := time.January; m <= time.December; m++ {
			if perMonth[m] != 1 {
				t.Errorf("ordinal %d, %s 2024: expected exactly 1 Saturday off, got %d",
					ordinal, m, perMonth[m])
			}
		}
	}
}

func TestProperty_PinnedRestDay_HoldsAllYear(t *testing.T) {
	profile := roster.EmployeeProfile{EmployeeID: "emp", PinnedRestDay: weekdayPtr(time.Wednesday)}

	for _, ws := range simulateYear(t, profile) {
		for _, e := range ws.Entries {
			if e.Status == roster.StatusRestDay && e.Date.Weekday() != time.Wednesday {
				t.Errorf("%s: rest day drifted to %s", ws.Week, e.Date.Weekday())
			}
		}
	}
}

func TestProperty_SaturdayRank_AllocationsLandOnThePreferredSaturday(t *testing.T) {
	// GIVEN: An employee preferring the second Saturday of each month, with
	//        a Monday rest pin so the rest day never collides
	// THEN: Every month's allocation is exactly the second Saturday, and no
	//       shortfall is ever reported

	profile := roster.EmployeeProfile{
		EmployeeID:    "emp",
		PinnedRestDay: weekdayPtr(time.Monday),
		SaturdayRank:  2,
	}

	perMonth := make(map[time.Month]int)
	for _, ws := range simulateYear(t, profile) {
		if len(ws.Warnings) != 0 {
			t.Errorf("%s: unexpected warning %v", ws.Week, ws.Warnings[0])
		}
		for _, e := range ws.Entries {
			if e.Status != roster.StatusSaturdayOff {
				continue
			}
			if got := roster.NthSaturdayOfMonth(e.Date); got != 2 {
				t.Errorf("allocation on %s is Saturday number %d, not 2", e.Date, got)
			}
			perMonth[e.Date.Month()]++
		}
	}

	for m := time.January; m <= time.December; m++ {
		if perMonth[m] != 1 {
			t.Errorf("%s 2024: expected exactly 1 Saturday off, got %d", m, perMonth[m])
		}
	}
}

// =============================================================================
// MANUAL EDIT SURVIVAL
// =============================================================================

func TestProperty_ManualRowsSurviveRegeneration(t *testing.T) {
	// GIVEN: A generated week whose Tuesday an operator replaced by a short
	//        manual shift
	// WHEN: Regenerating the week from the stored rows, twice
	// THEN: The manual Tuesday survives verbatim, the week still holds one
	//       rest day, and the second pass changes nothing

	gen := roster.NewGenerator()
	profile := roster.EmployeeProfile{EmployeeID: "emp-1"}

	w10, err := gen.GenerateWeek(roster.GenerateInput{
		Profile:  profile,
		Week:     week(2024, 10),
		Settings: roster.OfficeSettings(),
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	edited := manualShift("emp-1", day(2024, time.March, 5), roster.NewClockTime(10, 0), roster.NewClockTime(14, 0))
	prior := make([]roster.ScheduleEntry, 0, len(w10.Entries))
	for _, e := range w10.Entries {
		if e.Date.Equal(edited.Date) {
			prior = append(prior, edited)
			continue
		}
		prior = append(prior, e)
	}

	regen, err := gen.GenerateWeek(roster.GenerateInput{
		Profile:  profile,
		Week:     week(2024, 10),
		Settings: roster.OfficeSettings(),
		Prior:    prior,
	})
	if err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}

	tue := regen.Entry(edited.Date)
	if tue == nil || !reflect.DeepEqual(*tue, edited) {
		t.Error("the manual Tuesday must survive regeneration verbatim")
	}
	if got := countStatus(regen.Entries, roster.StatusRestDay); got != 1 {
		t.Errorf("expected 1 rest day after the edit, got %d", got)
	}

	again, err := gen.GenerateWeek(roster.GenerateInput{
		Profile:  profile,
		Week:     week(2024, 10),
		Settings: roster.OfficeSettings(),
		Prior:    regen.Entries,
	})
	if err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}
	if !reflect.DeepEqual(regen.Entries, again.Entries) {
		t.Error("regeneration must be idempotent")
	}
}
