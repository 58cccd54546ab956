package timesheet

import (
	"context"
	"errors"

	"github.com/geraldbelrose-cyber/skello-perso/roster"
)

// =============================================================================
// DEVIATION RECORD STORES
// =============================================================================

var (
	// ErrAbsenceNotFound is returned when no absence has the given ID.
	ErrAbsenceNotFound = errors.New("absence record not found")
	// ErrLatenessNotFound is returned when no lateness has the given ID.
	ErrLatenessNotFound = errors.New("lateness record not found")
	// ErrLatenessExists is returned on a second lateness for an occupied
	// (employee, date) slot.
	ErrLatenessExists = errors.New("lateness already recorded for that day")
)

// AbsenceStore persists absence intervals. Absences may overlap; the
// deviation fold resolves which one supplies the reason code.
type AbsenceStore interface {
	InsertAbsence(ctx context.Context, rec AbsenceRecord) error

	// DeleteAbsence removes the record with the given ID.
	// Returns ErrAbsenceNotFound if no record has it.
	DeleteAbsence(ctx context.Context, id string) error

	// AbsencesForEmployee returns the employee's records intersecting r,
	// ordered by start date then ID.
	AbsencesForEmployee(ctx context.Context, employeeID roster.EmployeeID, r roster.DateRange) ([]AbsenceRecord, error)

	// AbsencesInRange returns every record intersecting r, ordered by
	// employee, start date, then ID.
	AbsencesInRange(ctx context.Context, r roster.DateRange) ([]AbsenceRecord, error)
}

// LatenessStore persists late arrivals, at most one per (employee, date).
type LatenessStore interface {
	// InsertLateness persists a new record.
	// Returns ErrLatenessExists if the employee already has one that day.
	InsertLateness(ctx context.Context, rec LatenessRecord) error

	// DeleteLateness removes the record with the given ID.
	// Returns ErrLatenessNotFound if no record has it.
	DeleteLateness(ctx context.Context, id string) error

	// LatenessForEmployee returns the employee's records inside r, ordered
	// by date.
	LatenessForEmployee(ctx context.Context, employeeID roster.EmployeeID, r roster.DateRange) ([]LatenessRecord, error)

	// LatenessInRange returns every record inside r, ordered by employee
	// then date.
	LatenessInRange(ctx context.Context, r roster.DateRange) ([]LatenessRecord, error)
}
