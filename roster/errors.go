/*
errors.go - Centralized error types for the roster engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers branch on these with errors.Is / errors.As; nothing here is
  ever swallowed silently.

ERROR CATEGORIES:
  1. Conflict errors - Manual entries colliding with hard constraints
  2. Policy warnings - Quotas that cannot be met within a period
  3. Record errors - Inconsistent absence/lateness inputs
  4. Store errors - Entry uniqueness and lookup failures

USAGE:
  week, err := gen.GenerateWeek(in)
  if week.Conflict != nil {
      // both manual rows retained; surface to the operator
  }

SEE ALSO:
  - book.go: Uses the duplicate/lookup errors
  - constraint.go: Emits PolicyUnsatisfiableError warnings
  - timesheet package: Wraps DataInconsistencyError around bad records
*/
package roster

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrConstraintConflict is the root of every manual-entry collision with
	// a hard constraint. Both entries are always retained.
	ErrConstraintConflict = errors.New("manual entries violate a hard constraint")

	// ErrPolicyUnsatisfiable is the root of quota shortfall warnings. It is
	// attached to generated weeks, never fatal.
	ErrPolicyUnsatisfiable = errors.New("policy quota cannot be met within the period")

	// ErrDataInconsistency is the root of per-record validation failures.
	// One bad record never aborts processing of the others.
	ErrDataInconsistency = errors.New("record is inconsistent with the schedule")

	// ErrEntryExists is returned when a second entry targets an occupied
	// (employee, date) slot outside the manual-override path.
	ErrEntryExists = errors.New("schedule entry already exists for employee and date")

	// ErrEntryNotFound is returned when an update targets a missing slot.
	ErrEntryNotFound = errors.New("schedule entry not found")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrNoPolicyForDate is returned when no settings version is in force
	// for the requested date.
	ErrNoPolicyForDate = errors.New("no policy settings in force for date")

	// ErrInvalidRange is returned when a range ends before it starts.
	ErrInvalidRange = errors.New("invalid range: end before start")

	// ErrInvalidWeek is returned for malformed ISO week references.
	ErrInvalidWeek = errors.New("invalid ISO week")

	// ErrInvalidSettings is returned when policy settings fail validation.
	ErrInvalidSettings = errors.New("invalid policy settings")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConstraintConflictError reports manual entries that together violate a
// hard constraint (e.g., two manual rest days in one week). The conflicting
// rows are carried so the operator sees exactly what collided; the engine
// never auto-corrects human-authored data.
type ConstraintConflictError struct {
	EmployeeID EmployeeID
	Week       ISOWeek
	Constraint string
	Entries    []ScheduleEntry
}

func (e *ConstraintConflictError) Error() string {
	return fmt.Sprintf("constraint conflict for %s in %s: %s (%d manual entries)",
		e.EmployeeID, e.Week, e.Constraint, len(e.Entries))
}

func (e *ConstraintConflictError) Unwrap() error { return ErrConstraintConflict }

// PolicyUnsatisfiableError is a warning that a quota cannot be met within
// the current period. Generation completes best-effort; the caller decides
// whether to force an allocation or accept the shortfall.
type PolicyUnsatisfiableError struct {
	EmployeeID EmployeeID
	Week       ISOWeek
	Year       int
	Month      time.Month
	Quota      string
	Reason     string
}

func (e *PolicyUnsatisfiableError) Error() string {
	return fmt.Sprintf("%s quota unsatisfiable for %s in %d-%02d: %s",
		e.Quota, e.EmployeeID, e.Year, int(e.Month), e.Reason)
}

func (e *PolicyUnsatisfiableError) Unwrap() error { return ErrPolicyUnsatisfiable }

// DataInconsistencyError reports a single invalid record: a lateness on a
// non-working day, an absence interval that ends before it starts. The
// offending record is identified and skipped, siblings are processed.
type DataInconsistencyError struct {
	RecordID   string
	RecordKind string
	EmployeeID EmployeeID
	Date       Day
	Reason     string
}

func (e *DataInconsistencyError) Error() string {
	return fmt.Sprintf("inconsistent %s record for %s on %s: %s",
		e.RecordKind, e.EmployeeID, e.Date, e.Reason)
}

func (e *DataInconsistencyError) Unwrap() error { return ErrDataInconsistency }

// DuplicateEntryError reports a write to an already-occupied slot outside
// the sanctioned manual-override path. Fatal to that single write only.
type DuplicateEntryError struct {
	EmployeeID EmployeeID
	Date       Day
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("duplicate schedule entry for %s on %s", e.EmployeeID, e.Date)
}

func (e *DuplicateEntryError) Unwrap() error { return ErrEntryExists }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsConflict returns true for manual-entry constraint collisions.
func IsConflict(err error) bool { return errors.Is(err, ErrConstraintConflict) }

// IsUnsatisfiable returns true for policy quota shortfall warnings.
func IsUnsatisfiable(err error) bool { return errors.Is(err, ErrPolicyUnsatisfiable) }

// IsInconsistency returns true for per-record validation failures.
func IsInconsistency(err error) bool { return errors.Is(err, ErrDataInconsistency) }

// IsDuplicate returns true for occupied-slot write failures.
func IsDuplicate(err error) bool { return errors.Is(err, ErrEntryExists) }

// IsNotFound returns true if the error indicates a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound) ||
		errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrNoPolicyForDate)
}
