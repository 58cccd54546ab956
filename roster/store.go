/*
store.go - Persistence interface for schedule entries

PURPOSE:
  Defines the interface between the roster logic and the database.
  The EntryStore holds one row per employee per date. Different
  implementations can use SQLite or in-memory storage.

KEY INTERFACES:
  EntryStore:  Schedule row persistence (insert, update, lookups)
  RunLog:      Generation run history for the scheduler
  StaffStore:  Employee registry (identity + scheduling profile)
  PolicyStore: Append-only settings versions

ONE ROW PER DAY CONTRACT:
  (employee, date) is unique. InsertEntry rejects a second row for an
  occupied day; UpdateEntry replaces an existing row in place. There is
  NO Delete method: manual rows are frozen forever, and generated rows
  are corrected by updating them on the next generation pass.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - roster/store/memory.go: In-memory for testing

EXAMPLE:
  err := entries.InsertEntry(ctx, entry)
  if errors.Is(err, roster.ErrEntryExists) {
      // Day already occupied, update or report a duplicate.
  }

SEE ALSO:
  - book.go: Higher-level interface using EntryStore
  - store/sqlite/sqlite.go: Concrete implementation
*/
package roster

import (
	"context"
	"time"
)

// =============================================================================
// ENTRY STORE - Interface for schedule row persistence
// =============================================================================

// EntryStore handles persistence of schedule entries.
// IMPORTANT: there is no Delete. Manual rows stay forever; generated rows
// are replaced via UpdateEntry on regeneration.
type EntryStore interface {
	// InsertEntry persists a new row.
	// Returns ErrEntryExists if the employee already has a row on that date.
	InsertEntry(ctx context.Context, entry ScheduleEntry) error

	// UpdateEntry replaces the row for the entry's employee and date.
	// Returns ErrEntryNotFound if no row exists.
	UpdateEntry(ctx context.Context, entry ScheduleEntry) error

	// GetEntry returns the row for employee+date, or (nil, nil) when absent.
	GetEntry(ctx context.Context, employeeID EmployeeID, date Day) (*ScheduleEntry, error)

	// EntriesForEmployee returns the employee's rows inside r, ordered by date.
	EntriesForEmployee(ctx context.Context, employeeID EmployeeID, r DateRange) ([]ScheduleEntry, error)

	// EntriesInRange returns every row inside r, ordered by employee then date.
	EntriesInRange(ctx context.Context, r DateRange) ([]ScheduleEntry, error)
}

// =============================================================================
// RUN LOG - Generation history, tracks what ran when and what it changed
// =============================================================================

// GenerationRun records one pass of the week generator over the workforce.
type GenerationRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Trigger    RunTrigger
	Week       ISOWeek
	Employees  int
	Inserted   int
	Superseded int
	Frozen     int
	Conflicts  int
	Warnings   int
	Err        string // empty on success
}

type RunTrigger string

const (
	TriggerManual    RunTrigger = "manual"    // operator hit the API
	TriggerScheduled RunTrigger = "scheduled" // background ticker
	TriggerStartup   RunTrigger = "startup"   // catch-up on boot
)

// RunLog stores generation runs. Append-only.
type RunLog interface {
	AppendRun(ctx context.Context, run GenerationRun) error

	// RecentRuns returns up to limit runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]GenerationRun, error)
}

// =============================================================================
// STAFF STORE - Employee identity plus scheduling profile
// =============================================================================

// StaffMember joins an employee's identity with the profile the generator
// reads. One row in the registry carries both.
type StaffMember struct {
	Employee Employee
	Profile  EmployeeProfile
}

// StaffStore is the employee registry.
type StaffStore interface {
	// UpsertStaff inserts or replaces a member by employee ID.
	UpsertStaff(ctx context.Context, m StaffMember) error

	// GetStaff returns the member, or ErrEmployeeNotFound.
	GetStaff(ctx context.Context, id EmployeeID) (StaffMember, error)

	// ListStaff returns members ordered by employee ID. Inactive members
	// are included only when asked; their history stays queryable.
	ListStaff(ctx context.Context, includeInactive bool) ([]StaffMember, error)

	// DeactivateStaff clears the Active flag. Deactivation, never deletion:
	// schedule rows and deviation records keep referencing the ID.
	DeactivateStaff(ctx context.Context, id EmployeeID) error
}

// =============================================================================
// POLICY STORE - Settings versions, append-only like the history they form
// =============================================================================

type PolicyStore interface {
	// AppendPolicyVersion persists a new settings version. Versions are
	// never edited in place.
	AppendPolicyVersion(ctx context.Context, p PolicySettings) error

	// PolicyVersions returns all versions ordered by EffectiveFrom.
	PolicyVersions(ctx context.Context) ([]PolicySettings, error)
}
