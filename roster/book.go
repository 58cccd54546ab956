/*
book.go - Write path for schedule entries

PURPOSE:
  The ScheduleBook is the only component that writes schedule rows. It
  enforces the two write rules the rest of the system relies on:

  1. MANUAL ROWS ARE FROZEN: once an operator writes a day by hand, no
     generation pass may overwrite it. Regeneration skips those rows.
  2. NOTHING IS DELETED: generated rows are corrected by updating them
     on the next pass, and manual rows stay until an operator edits
     them again.

CONFLICTS ARE REPORTED, NOT REJECTED:
  A manual edit that breaks a week constraint (say, a second rest day
  in the same week) is still persisted. The operator asked for it, so
  the book keeps it and hands back a ConstraintConflictError describing
  the collision. Silently refusing the write would lose the operator's
  intent; silently accepting it would hide the broken week.

EXAMPLE FLOW:
  1. Generator produces a week: book.RecordWeek persists it
  2. Operator moves Wednesday to a rest day: book.ApplyManualEdit
  3. Next generation pass: RecordWeek skips Wednesday (frozen),
     rewrites the other generated rows around it

SEE ALSO:
  - store.go: Low-level persistence interface
  - generate.go: Produces the WeekSchedule this book persists
*/
package roster

import (
	"context"
	"fmt"
)

// =============================================================================
// SCHEDULE BOOK - Write rules over the entry store
// =============================================================================

type ScheduleBook struct {
	Entries EntryStore
}

func NewScheduleBook(entries EntryStore) *ScheduleBook {
	return &ScheduleBook{Entries: entries}
}

// RecordSummary reports what one RecordWeek pass changed.
type RecordSummary struct {
	Inserted   int // new rows written
	Superseded int // generated rows rewritten by this pass
	Frozen     int // manual rows left untouched
}

// RecordWeek persists a generated week. Manual rows already in the store
// are never overwritten; generated rows are updated in place; missing
// rows are inserted. Running it twice on the same output is a no-op
// beyond rewriting identical rows.
func (b *ScheduleBook) RecordWeek(ctx context.Context, ws WeekSchedule) (RecordSummary, error) {
	var sum RecordSummary
	for _, entry := range ws.Entries {
		existing, err := b.Entries.GetEntry(ctx, entry.EmployeeID, entry.Date)
		if err != nil {
			return sum, err
		}
		switch {
		case existing == nil:
			if err := b.Entries.InsertEntry(ctx, entry); err != nil {
				return sum, err
			}
			sum.Inserted++
		case existing.Manual:
			sum.Frozen++
		default:
			if err := b.Entries.UpdateEntry(ctx, entry); err != nil {
				return sum, err
			}
			sum.Superseded++
		}
	}
	return sum, nil
}

// Insert writes a single row onto a free day.
// Returns *DuplicateEntryError if the day is already occupied.
func (b *ScheduleBook) Insert(ctx context.Context, entry ScheduleEntry) error {
	if err := validateManual(entry); err != nil {
		return err
	}
	existing, err := b.Entries.GetEntry(ctx, entry.EmployeeID, entry.Date)
	if err != nil {
		return err
	}
	if existing != nil {
		return &DuplicateEntryError{EmployeeID: entry.EmployeeID, Date: entry.Date}
	}
	return b.Entries.InsertEntry(ctx, entry)
}

// ApplyManualEdit persists an operator-written row, overwriting whatever
// occupies the day, then checks the surrounding week. The returned
// conflict is nil when the week still satisfies its constraints; the row
// is persisted either way.
func (b *ScheduleBook) ApplyManualEdit(ctx context.Context, entry ScheduleEntry, settings PolicySettings) (ScheduleEntry, *ConstraintConflictError, error) {
	entry.Manual = true
	if err := validateManual(entry); err != nil {
		return ScheduleEntry{}, nil, err
	}

	existing, err := b.Entries.GetEntry(ctx, entry.EmployeeID, entry.Date)
	if err != nil {
		return ScheduleEntry{}, nil, err
	}
	if existing == nil {
		err = b.Entries.InsertEntry(ctx, entry)
	} else {
		err = b.Entries.UpdateEntry(ctx, entry)
	}
	if err != nil {
		return ScheduleEntry{}, nil, err
	}

	conflict, err := b.weekConflict(ctx, entry.EmployeeID, WeekOf(entry.Date), settings)
	if err != nil {
		return ScheduleEntry{}, nil, err
	}
	return entry, conflict, nil
}

// WeekRows returns the employee's persisted rows for a week, ordered by date.
func (b *ScheduleBook) WeekRows(ctx context.Context, employeeID EmployeeID, week ISOWeek) ([]ScheduleEntry, error) {
	return b.Entries.EntriesForEmployee(ctx, employeeID, RangeOfWeek(week))
}

// PriorFor loads everything the generator needs to plan a week: the
// employee's rows across the calendar months the week touches, so the
// monthly Saturday quota sees its whole month.
func (b *ScheduleBook) PriorFor(ctx context.Context, employeeID EmployeeID, week ISOWeek) ([]ScheduleEntry, error) {
	monday, sunday := week.Monday(), week.Sunday()
	r := DateRange{
		Start: StartOfMonth(monday.Year(), monday.Month()),
		End:   EndOfMonth(sunday.Year(), sunday.Month()),
	}
	return b.Entries.EntriesForEmployee(ctx, employeeID, r)
}

func (b *ScheduleBook) weekConflict(ctx context.Context, employeeID EmployeeID, week ISOWeek, settings PolicySettings) (*ConstraintConflictError, error) {
	rows, err := b.WeekRows(ctx, employeeID, week)
	if err != nil {
		return nil, err
	}
	var manualRests []ScheduleEntry
	for _, row := range rows {
		if row.Manual && row.Status == StatusRestDay {
			manualRests = append(manualRests, row)
		}
	}
	if len(manualRests) <= settings.RestDaysPerWeek {
		return nil, nil
	}
	return &ConstraintConflictError{
		EmployeeID: employeeID,
		Week:       week,
		Constraint: fmt.Sprintf("at most %d rest day(s) per week", settings.RestDaysPerWeek),
		Entries:    manualRests,
	}, nil
}

// =============================================================================
// MANUAL ROW VALIDATION
// =============================================================================

func validateManual(entry ScheduleEntry) error {
	inconsistent := func(reason string) error {
		return &DataInconsistencyError{
			RecordKind: "schedule_entry",
			EmployeeID: entry.EmployeeID,
			Date:       entry.Date,
			Reason:     reason,
		}
	}

	if entry.EmployeeID == "" {
		return inconsistent("missing employee")
	}
	if entry.Date.IsZero() {
		return inconsistent("missing date")
	}
	if !entry.Status.Valid() {
		return inconsistent(fmt.Sprintf("unknown status %q", entry.Status))
	}
	if entry.Date.IsSunday() && entry.Status != StatusClosed {
		return inconsistent("sunday rows must stay closed")
	}
	if entry.Status == StatusClosed && !entry.Date.IsSunday() {
		return inconsistent("closed is reserved for sundays")
	}
	if entry.Status == StatusSaturdayOff && !entry.Date.IsSaturday() {
		return inconsistent("saturday_off outside saturday")
	}
	if entry.Status == StatusWorking {
		if !entry.Start.Before(entry.End) {
			return inconsistent("working row needs start before end")
		}
		if entry.BreakMinutes < 0 || entry.BreakMinutes >= entry.Start.MinutesUntil(entry.End) {
			return inconsistent("break exceeds the working window")
		}
	}
	return nil
}
