// Package store provides AbsenceStore and LatenessStore implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/geraldbelrose-cyber/skello-perso/roster"
	"github.com/geraldbelrose-cyber/skello-perso/timesheet"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	absences map[string]timesheet.AbsenceRecord  // by record ID
	lateness map[string]timesheet.LatenessRecord // by record ID
	slots    map[string]string                   // lateness (employee, date) slot -> record ID
}

func NewMemory() *Memory {
	return &Memory{
		absences: make(map[string]timesheet.AbsenceRecord),
		lateness: make(map[string]timesheet.LatenessRecord),
		slots:    make(map[string]string),
	}
}

// =============================================================================
// ABSENCES
// =============================================================================

func (m *Memory) InsertAbsence(_ context.Context, rec timesheet.AbsenceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.absences[rec.ID] = rec
	return nil
}

func (m *Memory) DeleteAbsence(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.absences[id]; !ok {
		return timesheet.ErrAbsenceNotFound
	}
	delete(m.absences, id)
	return nil
}

func (m *Memory) AbsencesForEmployee(_ context.Context, employeeID roster.EmployeeID, r roster.DateRange) ([]timesheet.AbsenceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []timesheet.AbsenceRecord
	for _, rec := range m.absences {
		if rec.EmployeeID == employeeID && intersectsRange(rec, r) {
			result = append(result, rec)
		}
	}
	sortAbsences(result)
	return result, nil
}

func (m *Memory) AbsencesInRange(_ context.Context, r roster.DateRange) ([]timesheet.AbsenceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []timesheet.AbsenceRecord
	for _, rec := range m.absences {
		if intersectsRange(rec, r) {
			result = append(result, rec)
		}
	}
	sortAbsences(result)
	return result, nil
}

// intersectsRange reports whether the absence interval touches r. Inverted
// intervals never match.
func intersectsRange(rec timesheet.AbsenceRecord, r roster.DateRange) bool {
	if rec.StartDate.After(rec.EndDate) {
		return false
	}
	return !rec.EndDate.Before(r.Start) && !rec.StartDate.After(r.End)
}

func sortAbsences(recs []timesheet.AbsenceRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].EmployeeID != recs[j].EmployeeID {
			return recs[i].EmployeeID < recs[j].EmployeeID
		}
		if !recs[i].StartDate.Equal(recs[j].StartDate) {
			return recs[i].StartDate.Before(recs[j].StartDate)
		}
		return recs[i].ID < recs[j].ID
	})
}

// =============================================================================
// LATENESS
// =============================================================================

// InsertLateness adds a record. The (employee, date) slot must be free.
func (m *Memory) InsertLateness(_ context.Context, rec timesheet.LatenessRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.slots[rec.Key()]; ok {
		return timesheet.ErrLatenessExists
	}
	m.lateness[rec.ID] = rec
	m.slots[rec.Key()] = rec.ID
	return nil
}

func (m *Memory) DeleteLateness(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.lateness[id]
	if !ok {
		return timesheet.ErrLatenessNotFound
	}
	delete(m.lateness, id)
	delete(m.slots, rec.Key())
	return nil
}

func (m *Memory) LatenessForEmployee(_ context.Context, employeeID roster.EmployeeID, r roster.DateRange) ([]timesheet.LatenessRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []timesheet.LatenessRecord
	for _, rec := range m.lateness {
		if rec.EmployeeID == employeeID && r.Contains(rec.Date) {
			result = append(result, rec)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *Memory) LatenessInRange(_ context.Context, r roster.DateRange) ([]timesheet.LatenessRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []timesheet.LatenessRecord
	for _, rec := range m.lateness {
		if r.Contains(rec.Date) {
			result = append(result, rec)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].EmployeeID != result[j].EmployeeID {
			return result[i].EmployeeID < result[j].EmployeeID
		}
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

// Reset drops everything, returning the store to its initial state.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.absences = make(map[string]timesheet.AbsenceRecord)
	m.lateness = make(map[string]timesheet.LatenessRecord)
	m.slots = make(map[string]string)
	return nil
}
