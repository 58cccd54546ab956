/*
intake.go - Screening deviation records before they are stored

PURPOSE:
  Incoming absence and lateness payloads are validated and normalized one
  record at a time. Each record resolves to accepted or rejected with a
  DataInconsistency reason; one bad record never aborts the batch.

NORMALIZATION:
  Lateness records carrying a scheduled/arrival clock pair get MinutesLate
  derived from it (early arrivals clamp to zero), mirroring how the field
  is captured at the door. Records without the pair keep the minutes they
  came with.

SEE ALSO:
  - deviation.go: Applies the same vocabulary of reasons at fold time
  - tracker.go: Runs single-record intake before every write
*/
package timesheet

import (
	"fmt"

	"github.com/geraldbelrose-cyber/skello-perso/roster"
)

// =============================================================================
// SINGLE-RECORD VALIDATION
// =============================================================================

// EntryLookup resolves the schedule entry for an employee-day, nil when the
// roster has none.
type EntryLookup func(roster.EmployeeID, roster.Day) *roster.ScheduleEntry

// ValidateAbsence checks one absence record. Returns nil when the record is
// acceptable.
func ValidateAbsence(rec AbsenceRecord) *roster.DataInconsistencyError {
	reject := func(reason string) *roster.DataInconsistencyError {
		return &roster.DataInconsistencyError{
			RecordID:   rec.ID,
			RecordKind: "absence",
			EmployeeID: rec.EmployeeID,
			Date:       rec.StartDate,
			Reason:     reason,
		}
	}

	if rec.EmployeeID == "" {
		return reject("missing employee")
	}
	if rec.StartDate.IsZero() || rec.EndDate.IsZero() {
		return reject("missing interval bounds")
	}
	if rec.StartDate.After(rec.EndDate) {
		return reject("interval start after end")
	}
	if !rec.Kind.Valid() {
		return reject(fmt.Sprintf("unknown absence kind %q", rec.Kind))
	}
	return nil
}

// NormalizeLateness derives MinutesLate from the scheduled/arrival pair
// when one is present. Arriving early counts as zero minutes late.
func NormalizeLateness(rec LatenessRecord) LatenessRecord {
	if rec.ScheduledAt == 0 && rec.ArrivedAt == 0 {
		return rec
	}
	minutes := rec.ScheduledAt.MinutesUntil(rec.ArrivedAt)
	if minutes < 0 {
		minutes = 0
	}
	rec.MinutesLate = minutes
	return rec
}

// ValidateLateness checks one lateness record against the schedule entry
// for its day. A nil entry means the roster has no row there.
func ValidateLateness(rec LatenessRecord, entry *roster.ScheduleEntry) *roster.DataInconsistencyError {
	if issue := latenessShapeIssue(rec); issue != nil {
		return issue
	}
	if entry == nil {
		return latenessIssue(rec, "no working entry for that day")
	}
	if entry.Status != roster.StatusWorking {
		return latenessIssue(rec, "lateness recorded on a non-working day")
	}
	return nil
}

func latenessShapeIssue(rec LatenessRecord) *roster.DataInconsistencyError {
	if rec.EmployeeID == "" {
		return latenessIssue(rec, "missing employee")
	}
	if rec.Date.IsZero() {
		return latenessIssue(rec, "missing date")
	}
	if rec.MinutesLate < 0 {
		return latenessIssue(rec, "negative minutes late")
	}
	return nil
}

func latenessIssue(rec LatenessRecord, reason string) *roster.DataInconsistencyError {
	return &roster.DataInconsistencyError{
		RecordID:   rec.ID,
		RecordKind: "lateness",
		EmployeeID: rec.EmployeeID,
		Date:       rec.Date,
		Reason:     reason,
	}
}

// =============================================================================
// BATCH SCREENING
// =============================================================================

// ScreenAbsences validates a batch, splitting it into accepted records and
// per-record rejections.
func ScreenAbsences(records []AbsenceRecord) ([]AbsenceRecord, []*roster.DataInconsistencyError) {
	accepted := make([]AbsenceRecord, 0, len(records))
	var rejected []*roster.DataInconsistencyError

	for _, rec := range records {
		if issue := ValidateAbsence(rec); issue != nil {
			rejected = append(rejected, issue)
			continue
		}
		accepted = append(accepted, rec)
	}
	return accepted, rejected
}

// ScreenLateness normalizes and validates a batch. Duplicate (employee,
// date) slots within the batch reject the later record. A nil lookup skips
// the schedule-entry check.
func ScreenLateness(records []LatenessRecord, lookup EntryLookup) ([]LatenessRecord, []*roster.DataInconsistencyError) {
	accepted := make([]LatenessRecord, 0, len(records))
	var rejected []*roster.DataInconsistencyError
	seen := make(map[string]bool, len(records))

	for _, rec := range records {
		rec = NormalizeLateness(rec)

		if seen[rec.Key()] {
			rejected = append(rejected, latenessIssue(rec, "duplicate lateness for that day"))
			continue
		}

		var issue *roster.DataInconsistencyError
		if lookup != nil {
			issue = ValidateLateness(rec, lookup(rec.EmployeeID, rec.Date))
		} else {
			issue = latenessShapeIssue(rec)
		}
		if issue != nil {
			rejected = append(rejected, issue)
			continue
		}

		seen[rec.Key()] = true
		accepted = append(accepted, rec)
	}
	return accepted, rejected
}
