// Package store provides in-memory implementations of the roster store
// interfaces, used by tests and demo scenarios.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/geraldbelrose-cyber/skello-perso/roster"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	entries map[key]roster.ScheduleEntry
	runs    []roster.GenerationRun
	staff   map[roster.EmployeeID]roster.StaffMember
	policy  []roster.PolicySettings
}

type key struct {
	EmployeeID roster.EmployeeID
	Date       string
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[key]roster.ScheduleEntry),
		staff:   make(map[roster.EmployeeID]roster.StaffMember),
	}
}

func entryKey(e roster.ScheduleEntry) key {
	return key{EmployeeID: e.EmployeeID, Date: e.Date.String()}
}

// InsertEntry adds a row. The day must be free.
func (m *Memory) InsertEntry(_ context.Context, entry roster.ScheduleEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := entryKey(entry)
	if _, ok := m.entries[k]; ok {
		return roster.ErrEntryExists
	}
	m.entries[k] = entry
	return nil
}

// UpdateEntry replaces an existing row in place.
func (m *Memory) UpdateEntry(_ context.Context, entry roster.ScheduleEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := entryKey(entry)
	if _, ok := m.entries[k]; !ok {
		return roster.ErrEntryNotFound
	}
	m.entries[k] = entry
	return nil
}

func (m *Memory) GetEntry(_ context.Context, employeeID roster.EmployeeID, date roster.Day) (*roster.ScheduleEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if entry, ok := m.entries[key{EmployeeID: employeeID, Date: date.String()}]; ok {
		row := entry
		return &row, nil
	}
	return nil, nil
}

func (m *Memory) EntriesForEmployee(_ context.Context, employeeID roster.EmployeeID, r roster.DateRange) ([]roster.ScheduleEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []roster.ScheduleEntry
	for _, entry := range m.entries {
		if entry.EmployeeID == employeeID && r.Contains(entry.Date) {
			result = append(result, entry)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *Memory) EntriesInRange(_ context.Context, r roster.DateRange) ([]roster.ScheduleEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []roster.ScheduleEntry
	for _, entry := range m.entries {
		if r.Contains(entry.Date) {
			result = append(result, entry)
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

// =============================================================================
// RUN LOG - In-memory generation history
// =============================================================================

func (m *Memory) AppendRun(_ context.Context, run roster.GenerationRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (m *Memory) RecentRuns(_ context.Context, limit int) ([]roster.GenerationRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.runs)
	if limit <= 0 || limit > n {
		limit = n
	}
	result := make([]roster.GenerationRun, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		result = append(result, m.runs[i])
	}
	return result, nil
}

// =============================================================================
// STAFF STORE - In-memory employee registry
// =============================================================================

func (m *Memory) UpsertStaff(_ context.Context, member roster.StaffMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staff[member.Employee.ID] = member
	return nil
}

func (m *Memory) GetStaff(_ context.Context, id roster.EmployeeID) (roster.StaffMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	member, ok := m.staff[id]
	if !ok {
		return roster.StaffMember{}, roster.ErrEmployeeNotFound
	}
	return member, nil
}

func (m *Memory) ListStaff(_ context.Context, includeInactive bool) ([]roster.StaffMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]roster.StaffMember, 0, len(m.staff))
	for _, member := range m.staff {
		if !includeInactive && !member.Employee.Active {
			continue
		}
		result = append(result, member)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Employee.ID < result[j].Employee.ID
	})
	return result, nil
}

func (m *Memory) DeactivateStaff(_ context.Context, id roster.EmployeeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	member, ok := m.staff[id]
	if !ok {
		return roster.ErrEmployeeNotFound
	}
	member.Employee.Active = false
	m.staff[id] = member
	return nil
}

// =============================================================================
// POLICY STORE - In-memory settings versions
// =============================================================================

func (m *Memory) AppendPolicyVersion(_ context.Context, p roster.PolicySettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policy = append(m.policy, p)
	return nil
}

// PolicyVersions returns versions ordered by EffectiveFrom, zero value first.
func (m *Memory) PolicyVersions(_ context.Context) ([]roster.PolicySettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]roster.PolicySettings, len(m.policy))
	copy(result, m.policy)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].EffectiveFrom.Before(result[j].EffectiveFrom)
	})
	return result, nil
}

// Reset drops everything, returning the store to its initial state.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[key]roster.ScheduleEntry)
	m.runs = nil
	m.staff = make(map[roster.EmployeeID]roster.StaffMember)
	m.policy = nil
	return nil
}
