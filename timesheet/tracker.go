/*
tracker.go - Stored deviation tracking service

PURPOSE:
  Wraps the record stores with the intake rules and drives the deviation
  fold against the persisted roster. This is the service the HTTP layer
  calls: every absence and lateness write passes through here, and so do
  the effective-day and hour-report reads.

INVARIANT:
  At most one lateness per (employee, date). The store enforces it with
  ErrLatenessExists; the tracker surfaces it as the same DataInconsistency
  the batch screen reports, so callers handle one error shape.

CACHING:
  Report rows are memoized per (employee set, range). Every write through
  the tracker invalidates the cache; writes that bypass it (schedule
  generation, manual edits) must call InvalidateReports.

EXAMPLE:
  tracker := timesheet.NewTracker(entries, absences, lateness)

  rec, err := tracker.RecordLateness(ctx, timesheet.LatenessRecord{
      EmployeeID:  "emp-1",
      Date:        day,
      ScheduledAt: shiftStart,
      ArrivedAt:   arrival,
  })

SEE ALSO:
  - intake.go: The validation the tracker runs per record
  - deviation.go: The fold behind EffectiveDays and Report
*/
package timesheet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/geraldbelrose-cyber/skello-perso/roster"
)

// =============================================================================
// TRACKER - Deviation records over stores
// =============================================================================

type Tracker struct {
	Entries  roster.EntryStore
	Absences AbsenceStore
	Lateness LatenessStore
	Cache    *ReportCache
}

func NewTracker(entries roster.EntryStore, absences AbsenceStore, lateness LatenessStore) *Tracker {
	return &Tracker{
		Entries:  entries,
		Absences: absences,
		Lateness: lateness,
		Cache:    NewReportCache(),
	}
}

// =============================================================================
// WRITES
// =============================================================================

// RecordAbsence validates and stores one absence. A missing ID gets a
// generated one; the stored record is returned.
func (t *Tracker) RecordAbsence(ctx context.Context, rec AbsenceRecord) (AbsenceRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if issue := ValidateAbsence(rec); issue != nil {
		return AbsenceRecord{}, issue
	}
	if err := t.Absences.InsertAbsence(ctx, rec); err != nil {
		return AbsenceRecord{}, fmt.Errorf("insert absence: %w", err)
	}
	t.Cache.Invalidate()
	return rec, nil
}

// RecordLateness normalizes, validates and stores one late arrival. The
// day must hold a working entry; a second record for an occupied day is a
// DataInconsistency.
func (t *Tracker) RecordLateness(ctx context.Context, rec LatenessRecord) (LatenessRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec = NormalizeLateness(rec)

	if issue := latenessShapeIssue(rec); issue != nil {
		return LatenessRecord{}, issue
	}
	entry, err := t.Entries.GetEntry(ctx, rec.EmployeeID, rec.Date)
	if err != nil {
		return LatenessRecord{}, fmt.Errorf("load entry for lateness: %w", err)
	}
	if issue := ValidateLateness(rec, entry); issue != nil {
		return LatenessRecord{}, issue
	}

	if err := t.Lateness.InsertLateness(ctx, rec); err != nil {
		if errors.Is(err, ErrLatenessExists) {
			return LatenessRecord{}, latenessIssue(rec, "duplicate lateness for that day")
		}
		return LatenessRecord{}, fmt.Errorf("insert lateness: %w", err)
	}
	t.Cache.Invalidate()
	return rec, nil
}

// RemoveAbsence deletes one absence by ID.
func (t *Tracker) RemoveAbsence(ctx context.Context, id string) error {
	if err := t.Absences.DeleteAbsence(ctx, id); err != nil {
		return err
	}
	t.Cache.Invalidate()
	return nil
}

// RemoveLateness deletes one lateness by ID.
func (t *Tracker) RemoveLateness(ctx context.Context, id string) error {
	if err := t.Lateness.DeleteLateness(ctx, id); err != nil {
		return err
	}
	t.Cache.Invalidate()
	return nil
}

// InvalidateReports drops memoized report rows. Call after any schedule
// write that bypasses the tracker.
func (t *Tracker) InvalidateReports() { t.Cache.Invalidate() }

// =============================================================================
// READS
// =============================================================================

// AbsencesIn returns every absence intersecting r.
func (t *Tracker) AbsencesIn(ctx context.Context, r roster.DateRange) ([]AbsenceRecord, error) {
	return t.Absences.AbsencesInRange(ctx, r)
}

// LatenessIn returns every lateness inside r.
func (t *Tracker) LatenessIn(ctx context.Context, r roster.DateRange) ([]LatenessRecord, error) {
	return t.Lateness.LatenessInRange(ctx, r)
}

// AbsenceRangesFor returns the employee's absence intervals intersecting r
// as date ranges, the shape week generation consumes.
func (t *Tracker) AbsenceRangesFor(ctx context.Context, employeeID roster.EmployeeID, r roster.DateRange) ([]roster.DateRange, error) {
	records, err := t.Absences.AbsencesForEmployee(ctx, employeeID, r)
	if err != nil {
		return nil, err
	}
	ranges := make([]roster.DateRange, 0, len(records))
	for _, rec := range records {
		ar, err := rec.Range()
		if err != nil {
			continue // inverted interval, screened out elsewhere
		}
		ranges = append(ranges, ar)
	}
	return ranges, nil
}

// EffectiveDays folds the stored roster and records over r. The returned
// inconsistencies are non-fatal; the days are complete without them.
func (t *Tracker) EffectiveDays(ctx context.Context, r roster.DateRange) ([]EffectiveDay, []*roster.DataInconsistencyError, error) {
	entries, err := t.Entries.EntriesInRange(ctx, r)
	if err != nil {
		return nil, nil, fmt.Errorf("load entries: %w", err)
	}
	absences, err := t.Absences.AbsencesInRange(ctx, r)
	if err != nil {
		return nil, nil, fmt.Errorf("load absences: %w", err)
	}
	lateness, err := t.Lateness.LatenessInRange(ctx, r)
	if err != nil {
		return nil, nil, fmt.Errorf("load lateness: %w", err)
	}

	result := ApplyDeviations(DeviationInput{
		Entries:  entries,
		Absences: absences,
		Lateness: lateness,
	})
	return result.Days, result.Inconsistencies, nil
}

// Report aggregates effective hours per employee over r. An empty employee
// set means every employee with entries in the range. Rows are memoized
// until the next write.
func (t *Tracker) Report(ctx context.Context, employees []roster.EmployeeID, r roster.DateRange) ([]HourReportRow, error) {
	if rows, ok := t.Cache.Lookup(employees, r.Start, r.End); ok {
		return rows, nil
	}

	days, _, err := t.EffectiveDays(ctx, r)
	if err != nil {
		return nil, err
	}
	if len(employees) > 0 {
		keep := make(map[roster.EmployeeID]bool, len(employees))
		for _, id := range employees {
			keep[id] = true
		}
		filtered := days[:0]
		for _, day := range days {
			if keep[day.EmployeeID] {
				filtered = append(filtered, day)
			}
		}
		days = filtered
	}

	rows := Aggregate(days, r.Start, r.End)
	t.Cache.Store(employees, r.Start, r.End, rows)
	return rows, nil
}
