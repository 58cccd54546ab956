package timesheet_test

import (
	"errors"
	"testing"
	"time"

	"github.com/geraldbelrose-cyber/skello-perso/roster"
	"github.com/geraldbelrose-cyber/skello-perso/timesheet"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func day(year int, month time.Month, dom int) roster.Day {
	return roster.NewDay(year, month, dom)
}

func workingEntry(id roster.EmployeeID, d roster.Day, start, end roster.ClockTime, breakMin int) roster.ScheduleEntry {
	return roster.ScheduleEntry{
		EmployeeID:   id,
		Date:         d,
		Status:       roster.StatusWorking,
		Start:        start,
		End:          end,
		BreakMinutes: breakMin,
	}
}

func nineToFive(id roster.EmployeeID, d roster.Day) roster.ScheduleEntry {
	return workingEntry(id, d, roster.NewClockTime(9, 0), roster.NewClockTime(17, 0), 0)
}

func offEntry(id roster.EmployeeID, d roster.Day, status roster.EntryStatus) roster.ScheduleEntry {
	return roster.ScheduleEntry{EmployeeID: id, Date: d, Status: status}
}

func absence(id string, emp roster.EmployeeID, from, to roster.Day, kind timesheet.AbsenceKind) timesheet.AbsenceRecord {
	return timesheet.AbsenceRecord{ID: id, EmployeeID: emp, StartDate: from, EndDate: to, Kind: kind}
}

func lateBy(id string, emp roster.EmployeeID, d roster.Day, minutes int) timesheet.LatenessRecord {
	return timesheet.LatenessRecord{ID: id, EmployeeID: emp, Date: d, MinutesLate: minutes}
}

func hours(v float64) roster.Hours { return roster.NewHours(v) }

func findDay(t *testing.T, days []timesheet.EffectiveDay, emp roster.EmployeeID, d roster.Day) timesheet.EffectiveDay {
	t.Helper()
	for _, ed := range days {
		if ed.EmployeeID == emp && ed.Date.Equal(d) {
			return ed
		}
	}
	t.Fatalf("no effective day for %s on %s", emp, d)
	return timesheet.EffectiveDay{}
}

// =============================================================================
// ABSENCE PRECEDENCE
// =============================================================================

func TestApplyDeviations_AbsenceZeroesTheDay(t *testing.T) {
	// GIVEN a working day of 8 planned hours inside a leave interval
	result := timesheet.ApplyDeviations(timesheet.DeviationInput{
		Entries:  []roster.ScheduleEntry{nineToFive("emp-1", day(2024, time.March, 5))},
		Absences: []timesheet.AbsenceRecord{absence("abs-1", "emp-1", day(2024, time.March, 4), day(2024, time.March, 6), timesheet.KindLeave)},
	})

	// THEN the day yields zero effective hours with the plan preserved
	ed := findDay(t, result.Days, "emp-1", day(2024, time.March, 5))
	if !ed.EffectiveHours.IsZero() {
		t.Errorf("effective hours = %s, want 0", ed.EffectiveHours)
	}
	if !ed.PlannedHours.Equal(hours(8)) {
		t.Errorf("planned hours = %s, want 8", ed.PlannedHours)
	}
	if len(ed.Reasons) != 1 || ed.Reasons[0] != timesheet.ReasonLeave {
		t.Errorf("reasons = %v, want [leave]", ed.Reasons)
	}
	if len(result.Inconsistencies) != 0 {
		t.Errorf("unexpected inconsistencies: %v", result.Inconsistencies)
	}
}

func TestApplyDeviations_AbsenceCoversRestDayToo(t *testing.T) {
	// GIVEN a rest day inside a sickness interval
	result := timesheet.ApplyDeviations(timesheet.DeviationInput{
		Entries:  []roster.ScheduleEntry{offEntry("emp-1", day(2024, time.March, 8), roster.StatusRestDay)},
		Absences: []timesheet.AbsenceRecord{absence("abs-1", "emp-1", day(2024, time.March, 4), day(2024, time.March, 10), timesheet.KindSickness)},
	})

	// THEN the kind still lands as the reason, with zero on both sides
	ed := findDay(t, result.Days, "emp-1", day(2024, time.March, 8))
	if !ed.PlannedHours.IsZero() || !ed.EffectiveHours.IsZero() {
		t.Errorf("rest day inside absence: planned %s effective %s, want 0/0", ed.PlannedHours, ed.EffectiveHours)
	}
	if len(ed.Reasons) != 1 || ed.Reasons[0] != timesheet.ReasonSickness {
		t.Errorf("reasons = %v, want [sickness]", ed.Reasons)
	}
}

func TestApplyDeviations_AbsenceBeatsLateness(t *testing.T) {
	// GIVEN a working day carrying both an absence and a lateness
	d := day(2024, time.March, 5)
	result := timesheet.ApplyDeviations(timesheet.DeviationInput{
		Entries:  []roster.ScheduleEntry{nineToFive("emp-1", d)},
		Absences: []timesheet.AbsenceRecord{absence("abs-1", "emp-1", d, d, timesheet.KindLeave)},
		Lateness: []timesheet.LatenessRecord{lateBy("late-1", "emp-1", d, 45)},
	})

	// THEN the absence wins and the lateness is neither applied nor reported
	ed := findDay(t, result.Days, "emp-1", d)
	if !ed.EffectiveHours.IsZero() {
		t.Errorf("effective hours = %s, want 0", ed.EffectiveHours)
	}
	if len(ed.Reasons) != 1 || ed.Reasons[0] != timesheet.ReasonLeave {
		t.Errorf("reasons = %v, want [leave]", ed.Reasons)
	}
	if len(result.Inconsistencies) != 0 {
		t.Errorf("unexpected inconsistencies: %v", result.Inconsistencies)
	}
}

// =============================================================================
// LATENESS
// =============================================================================

func TestApplyDeviations_LatenessShavesMinutes(t *testing.T) {
	// GIVEN a 45 minute late arrival on an 8 hour working day
	d := day(2024, time.March, 7)
	result := timesheet.ApplyDeviations(timesheet.DeviationInput{
		Entries:  []roster.ScheduleEntry{nineToFive("emp-1", d)},
		Lateness: []timesheet.LatenessRecord{lateBy("late-1", "emp-1", d, 45)},
	})

	// THEN the day is worth 7.25 effective hours
	ed := findDay(t, result.Days, "emp-1", d)
	if !ed.EffectiveHours.Equal(hours(7.25)) {
		t.Errorf("effective hours = %s, want 7.25", ed.EffectiveHours)
	}
	if !ed.PlannedHours.Equal(hours(8)) {
		t.Errorf("planned hours = %s, want 8", ed.PlannedHours)
	}
	if len(ed.Reasons) != 1 || ed.Reasons[0] != timesheet.ReasonLateness {
		t.Errorf("reasons = %v, want [lateness]", ed.Reasons)
	}
}

func TestApplyDeviations_LatenessFloorsAtZero(t *testing.T) {
	// GIVEN a lateness larger than the whole shift window
	d := day(2024, time.March, 7)
	short := workingEntry("emp-1", d, roster.NewClockTime(9, 0), roster.NewClockTime(11, 0), 0)
	result := timesheet.ApplyDeviations(timesheet.DeviationInput{
		Entries:  []roster.ScheduleEntry{short},
		Lateness: []timesheet.LatenessRecord{lateBy("late-1", "emp-1", d, 180)},
	})

	// THEN the effective hours clamp at zero rather than going negative
	ed := findDay(t, result.Days, "emp-1", d)
	if !ed.EffectiveHours.IsZero() {
		t.Errorf("effective hours = %s, want 0", ed.EffectiveHours)
	}
	if !ed.PlannedHours.Equal(hours(2)) {
		t.Errorf("planned hours = %s, want 2", ed.PlannedHours)
	}
}

func TestApplyDeviations_ZeroMinuteLatenessLeavesPlanIntact(t *testing.T) {
	// GIVEN a lateness record whose derived minutes came out to zero
	d := day(2024, time.March, 7)
	result := timesheet.ApplyDeviations(timesheet.DeviationInput{
		Entries:  []roster.ScheduleEntry{nineToFive("emp-1", d)},
		Lateness: []timesheet.LatenessRecord{lateBy("late-1", "emp-1", d, 0)},
	})

	// THEN the day matches its plan and carries no reason code
	ed := findDay(t, result.Days, "emp-1", d)
	if !ed.EffectiveHours.Equal(hours(8)) {
		t.Errorf("effective hours = %s, want 8", ed.EffectiveHours)
	}
	if len(ed.Reasons) != 0 {
		t.Errorf("reasons = %v, want none", ed.Reasons)
	}
}

// =============================================================================
// PLAIN DAYS
// =============================================================================

func TestApplyDeviations_WorkingDayWithoutRecords(t *testing.T) {
	// GIVEN a working day with no deviation records
	d := day(2024, time.March, 4)
	result := timesheet.ApplyDeviations(timesheet.DeviationInput{
		Entries: []roster.ScheduleEntry{workingEntry("emp-1", d, roster.NewClockTime(7, 30), roster.NewClockTime(16, 30), 60)},
	})

	// THEN effective equals planned: the window minus the break
	ed := findDay(t, result.Days, "emp-1", d)
	if !ed.EffectiveHours.Equal(hours(8)) {
		t.Errorf("effective hours = %s, want 8", ed.EffectiveHours)
	}
	if len(ed.Reasons) != 0 {
		t.Errorf("reasons = %v, want none", ed.Reasons)
	}
}

func TestApplyDeviations_NonWorkingStatusesYieldZeroWithoutReason(t *testing.T) {
	// GIVEN a rest day, a Saturday allocation and a closed Sunday
	entries := []roster.ScheduleEntry{
		offEntry("emp-1", day(2024, time.March, 8), roster.StatusRestDay),
		offEntry("emp-1", day(2024, time.March, 9), roster.StatusSaturdayOff),
		offEntry("emp-1", day(2024, time.March, 10), roster.StatusClosed),
	}

	result := timesheet.ApplyDeviations(timesheet.DeviationInput{Entries: entries})

	// THEN each yields zero hours and no reason: expected non-work is not
	// a deviation
	for _, entry := range entries {
		ed := findDay(t, result.Days, "emp-1", entry.Date)
		if !ed.EffectiveHours.IsZero() || !ed.PlannedHours.IsZero() {
			t.Errorf("%s on %s: planned %s effective %s, want 0/0", entry.Status, entry.Date, ed.PlannedHours, ed.EffectiveHours)
		}
		if len(ed.Reasons) != 0 {
			t.Errorf("%s on %s: reasons = %v, want none", entry.Status, entry.Date, ed.Reasons)
		}
	}
}

// =============================================================================
// BAD RECORDS
// =============================================================================

func TestApplyDeviations_LatenessOnRestDayReported(t *testing.T) {
	// GIVEN a lateness pointing at a rest day
	d := day(2024, time.March, 8)
	result := timesheet.ApplyDeviations(timesheet.DeviationInput{
		Entries:  []roster.ScheduleEntry{offEntry("emp-1", d, roster.StatusRestDay)},
		Lateness: []timesheet.LatenessRecord{lateBy("late-1", "emp-1", d, 30)},
	})

	// THEN the record is reported and the day keeps its zero hours
	if len(result.Inconsistencies) != 1 {
		t.Fatalf("inconsistencies = %d, want 1", len(result.Inconsistencies))
	}
	issue := result.Inconsistencies[0]
	if issue.RecordID != "late-1" || issue.RecordKind != "lateness" {
		t.Errorf("reported record = %s/%s, want late-1/lateness", issue.RecordKind, issue.RecordID)
	}
	if !errors.Is(issue, roster.ErrDataInconsistency) {
		t.Error("inconsistency should unwrap to ErrDataInconsistency")
	}
	ed := findDay(t, result.Days, "emp-1", d)
	if !ed.EffectiveHours.IsZero() || len(ed.Reasons) != 0 {
		t.Errorf("rest day altered by bad lateness: %+v", ed)
	}
}

func TestApplyDeviations_LatenessWithoutEntryReported(t *testing.T) {
	// GIVEN a lateness for a day the roster has no row for
	result := timesheet.ApplyDeviations(timesheet.DeviationInput{
		Entries:  []roster.ScheduleEntry{nineToFive("emp-1", day(2024, time.March, 4))},
		Lateness: []timesheet.LatenessRecord{lateBy("late-1", "emp-1", day(2024, time.March, 20), 30)},
	})

	if len(result.Inconsistencies) != 1 {
		t.Fatalf("inconsistencies = %d, want 1", len(result.Inconsistencies))
	}
	if !roster.IsInconsistency(result.Inconsistencies[0]) {
		t.Error("expected a data inconsistency")
	}
	// AND the matched day is untouched
	ed := findDay(t, result.Days, "emp-1", day(2024, time.March, 4))
	if !ed.EffectiveHours.Equal(hours(8)) {
		t.Errorf("clean day effective = %s, want 8", ed.EffectiveHours)
	}
}

func TestApplyDeviations_InvertedAbsenceReportedOthersApplied(t *testing.T) {
	// GIVEN one inverted interval next to one valid absence
	d := day(2024, time.March, 5)
	result := timesheet.ApplyDeviations(timesheet.DeviationInput{
		Entries: []roster.ScheduleEntry{nineToFive("emp-1", d)},
		Absences: []timesheet.AbsenceRecord{
			absence("abs-bad", "emp-1", day(2024, time.March, 9), day(2024, time.March, 7), timesheet.KindLeave),
			absence("abs-good", "emp-1", d, d, timesheet.KindOther),
		},
	})

	// THEN the bad record is reported and the good one still zeroes its day
	if len(result.Inconsistencies) != 1 {
		t.Fatalf("inconsistencies = %d, want 1", len(result.Inconsistencies))
	}
	if result.Inconsistencies[0].RecordID != "abs-bad" {
		t.Errorf("reported record = %s, want abs-bad", result.Inconsistencies[0].RecordID)
	}
	ed := findDay(t, result.Days, "emp-1", d)
	if !ed.EffectiveHours.IsZero() {
		t.Errorf("valid absence not applied, effective = %s", ed.EffectiveHours)
	}
}

func TestApplyDeviations_DuplicateLatenessKeepsFirst(t *testing.T) {
	// GIVEN two lateness records for the same employee-day
	d := day(2024, time.March, 7)
	result := timesheet.ApplyDeviations(timesheet.DeviationInput{
		Entries: []roster.ScheduleEntry{nineToFive("emp-1", d)},
		Lateness: []timesheet.LatenessRecord{
			lateBy("late-1", "emp-1", d, 30),
			lateBy("late-2", "emp-1", d, 90),
		},
	})

	// THEN the first record applies and the second is reported
	ed := findDay(t, result.Days, "emp-1", d)
	if !ed.EffectiveHours.Equal(hours(7.5)) {
		t.Errorf("effective hours = %s, want 7.5", ed.EffectiveHours)
	}
	if len(result.Inconsistencies) != 1 || result.Inconsistencies[0].RecordID != "late-2" {
		t.Errorf("inconsistencies = %v, want one for late-2", result.Inconsistencies)
	}
}

// =============================================================================
// ORDERING
// =============================================================================

func TestApplyDeviations_DaysSortedByEmployeeThenDate(t *testing.T) {
	// GIVEN entries supplied in scrambled order
	result := timesheet.ApplyDeviations(timesheet.DeviationInput{
		Entries: []roster.ScheduleEntry{
			nineToFive("emp-2", day(2024, time.March, 5)),
			nineToFive("emp-1", day(2024, time.March, 6)),
			nineToFive("emp-2", day(2024, time.March, 4)),
			nineToFive("emp-1", day(2024, time.March, 4)),
		},
	})

	// THEN the output is ordered by employee then date
	want := []struct {
		emp roster.EmployeeID
		d   roster.Day
	}{
		{"emp-1", day(2024, time.March, 4)},
		{"emp-1", day(2024, time.March, 6)},
		{"emp-2", day(2024, time.March, 4)},
		{"emp-2", day(2024, time.March, 5)},
	}
	if len(result.Days) != len(want) {
		t.Fatalf("days = %d, want %d", len(result.Days), len(want))
	}
	for i, w := range want {
		got := result.Days[i]
		if got.EmployeeID != w.emp || !got.Date.Equal(w.d) {
			t.Errorf("days[%d] = %s@%s, want %s@%s", i, got.EmployeeID, got.Date, w.emp, w.d)
		}
	}
}

func TestApplyDeviations_OverlappingAbsencesPickEarliestStart(t *testing.T) {
	// GIVEN two absences covering the same day, supplied out of order
	d := day(2024, time.March, 6)
	result := timesheet.ApplyDeviations(timesheet.DeviationInput{
		Entries: []roster.ScheduleEntry{nineToFive("emp-1", d)},
		Absences: []timesheet.AbsenceRecord{
			absence("abs-2", "emp-1", day(2024, time.March, 6), day(2024, time.March, 8), timesheet.KindOther),
			absence("abs-1", "emp-1", day(2024, time.March, 4), day(2024, time.March, 7), timesheet.KindLeave),
		},
	})

	// THEN the earlier-starting interval supplies the reason
	ed := findDay(t, result.Days, "emp-1", d)
	if len(ed.Reasons) != 1 || ed.Reasons[0] != timesheet.ReasonLeave {
		t.Errorf("reasons = %v, want [leave]", ed.Reasons)
	}
}
