/*
deviation.go - Folding absences and lateness onto the roster

PURPOSE:
  Turns schedule entries plus deviation records into EffectiveDay values,
  the "what actually happened" view of the roster. This is the central
  calculation behind the hour report.

PRECEDENCE, PER DAY:
  1. A date inside an absence interval is zero effective hours, whatever
     the entry status. PlannedHours is kept for reporting.
  2. Otherwise a lateness record shaves minutes off a working day, floored
     at zero.
  3. Otherwise a working day yields its planned hours; rest days, Saturday
     allocations and closed Sundays yield zero with no reason code.

BAD RECORDS:
  A lateness record pointing at a non-working day, or at a day with no
  entry at all, is reported as a DataInconsistency and ignored. So is an
  absence interval with start after end. One bad record never aborts the
  fold; every other record is still applied.

DETERMINISM:
  Output days are sorted by employee then date. When several absences
  cover the same day, the one with the earliest start (then lowest ID)
  supplies the reason code.

SEE ALSO:
  - aggregate.go: Reduces the output to per-employee report rows
  - intake.go: Screens records before they are stored
*/
package timesheet

import (
	"sort"

	"github.com/geraldbelrose-cyber/skello-perso/roster"
)

// =============================================================================
// DEVIATION FOLD
// =============================================================================

// DeviationInput carries the materialized collections the fold works on.
// The caller supplies entries and records for the same date range; the
// fold itself never touches storage.
type DeviationInput struct {
	Entries  []roster.ScheduleEntry
	Absences []AbsenceRecord
	Lateness []LatenessRecord
}

// DeviationResult is the fold output. Inconsistencies are non-fatal: the
// days are complete even when some records were rejected.
type DeviationResult struct {
	Days            []EffectiveDay
	Inconsistencies []*roster.DataInconsistencyError
}

// ApplyDeviations folds absence and lateness records onto schedule entries,
// producing one EffectiveDay per entry.
func ApplyDeviations(in DeviationInput) DeviationResult {
	var result DeviationResult

	absences, absenceIssues := indexAbsences(in.Absences)
	lateness, latenessIssues := indexLateness(in.Lateness)
	result.Inconsistencies = append(result.Inconsistencies, absenceIssues...)
	result.Inconsistencies = append(result.Inconsistencies, latenessIssues...)

	matched := make(map[string]bool, len(lateness))

	for _, entry := range in.Entries {
		day := EffectiveDay{
			EmployeeID:   entry.EmployeeID,
			Date:         entry.Date,
			PlannedHours: entry.PlannedHours(),
		}
		late, hasLate := lateness[entry.Key()]
		covering := coveringAbsence(absences[entry.EmployeeID], entry.Date)

		switch {
		case covering != nil:
			day.EffectiveHours = roster.ZeroHours()
			day.Reasons = []ReasonCode{ReasonCode(covering.Kind)}
			// A lateness on an absence-covered working day loses to the
			// absence; it is not an inconsistency.
			if hasLate {
				matched[late.Key()] = true
			}

		case entry.Status == roster.StatusWorking:
			day.EffectiveHours = day.PlannedHours
			if hasLate {
				matched[late.Key()] = true
				if late.MinutesLate > 0 {
					day.EffectiveHours = day.PlannedHours.Sub(roster.HoursFromMinutes(late.MinutesLate)).FloorZero()
					day.Reasons = []ReasonCode{ReasonLateness}
				}
			}

		default:
			day.EffectiveHours = roster.ZeroHours()
			if hasLate {
				matched[late.Key()] = true
				result.Inconsistencies = append(result.Inconsistencies, &roster.DataInconsistencyError{
					RecordID:   late.ID,
					RecordKind: "lateness",
					EmployeeID: late.EmployeeID,
					Date:       late.Date,
					Reason:     "lateness recorded on a non-working day",
				})
			}
		}

		result.Days = append(result.Days, day)
	}

	// Lateness records that matched no entry at all reference days the
	// roster knows nothing about.
	for _, late := range in.Lateness {
		key := late.Key()
		if matched[key] || lateness[key].ID != late.ID {
			continue
		}
		matched[key] = true
		result.Inconsistencies = append(result.Inconsistencies, &roster.DataInconsistencyError{
			RecordID:   late.ID,
			RecordKind: "lateness",
			EmployeeID: late.EmployeeID,
			Date:       late.Date,
			Reason:     "no working entry for that day",
		})
	}

	sort.Slice(result.Days, func(i, j int) bool {
		a, b := result.Days[i], result.Days[j]
		if a.EmployeeID != b.EmployeeID {
			return a.EmployeeID < b.EmployeeID
		}
		return a.Date.Before(b.Date)
	})

	return result
}

// =============================================================================
// RECORD INDEXING
// =============================================================================

// indexAbsences groups valid absences per employee, ordered by start date
// then ID so the covering pick is stable. Inverted intervals are reported
// and dropped.
func indexAbsences(records []AbsenceRecord) (map[roster.EmployeeID][]AbsenceRecord, []*roster.DataInconsistencyError) {
	byEmployee := make(map[roster.EmployeeID][]AbsenceRecord)
	var issues []*roster.DataInconsistencyError

	for _, rec := range records {
		if rec.StartDate.After(rec.EndDate) {
			issues = append(issues, &roster.DataInconsistencyError{
				RecordID:   rec.ID,
				RecordKind: "absence",
				EmployeeID: rec.EmployeeID,
				Date:       rec.StartDate,
				Reason:     "interval start after end",
			})
			continue
		}
		byEmployee[rec.EmployeeID] = append(byEmployee[rec.EmployeeID], rec)
	}

	for id := range byEmployee {
		recs := byEmployee[id]
		sort.Slice(recs, func(i, j int) bool {
			if !recs[i].StartDate.Equal(recs[j].StartDate) {
				return recs[i].StartDate.Before(recs[j].StartDate)
			}
			return recs[i].ID < recs[j].ID
		})
	}

	return byEmployee, issues
}

// indexLateness keys lateness per (employee, date). A second record for an
// occupied slot is reported and dropped; the first wins.
func indexLateness(records []LatenessRecord) (map[string]LatenessRecord, []*roster.DataInconsistencyError) {
	byKey := make(map[string]LatenessRecord, len(records))
	var issues []*roster.DataInconsistencyError

	for _, rec := range records {
		if _, occupied := byKey[rec.Key()]; occupied {
			issues = append(issues, &roster.DataInconsistencyError{
				RecordID:   rec.ID,
				RecordKind: "lateness",
				EmployeeID: rec.EmployeeID,
				Date:       rec.Date,
				Reason:     "duplicate lateness for that day",
			})
			continue
		}
		byKey[rec.Key()] = rec
	}

	return byKey, issues
}

func coveringAbsence(records []AbsenceRecord, d roster.Day) *AbsenceRecord {
	for i := range records {
		if records[i].Covers(d) {
			return &records[i]
		}
	}
	return nil
}
