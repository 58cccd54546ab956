/*
profile.go - Employee-to-schedule preference binding

PURPOSE:
  Employees carry scheduling preferences the engines consult:
  - An optional pinned rest weekday (fixed day off instead of rotation)
  - A preferred nth Saturday of the month for the Saturday-off allocation
  - A stable ordinal that seeds the modular rest-day rotation
  - The hire date, so partial first months keep their quota eligibility

KEY CONCEPTS:
  EmployeeProfile:
    One employee's preferences. A missing profile behaves like the zero
    value: rotate by ordinal, first available Saturday, hired "since always".

  ProfileSet:
    Lookup collection keyed by employee. AssignOrdinals derives stable
    ordinals from the sorted employee IDs so rotation never depends on
    insertion order.

SEE ALSO:
  - rotation.go: Consumes Ordinal and PinnedRestDay
  - constraint.go: Consumes SaturdayRank and HiredOn
*/
package roster

import (
	"fmt"
	"sort"
	"time"
)

// =============================================================================
// EMPLOYEE PROFILE - Scheduling preferences for one employee
// =============================================================================

type EmployeeProfile struct {
	EmployeeID EmployeeID

	// Ordinal seeds the modular rest-day rotation. Stable per employee.
	Ordinal int

	// PinnedRestDay fixes the weekly rest day instead of rotating.
	// nil = rotate. Sunday is invalid (the company is closed on Sundays).
	PinnedRestDay *time.Weekday

	// SaturdayRank is the preferred nth Saturday of the month for the
	// Saturday-off allocation (1-5). 0 = first available Saturday.
	SaturdayRank int

	// HiredOn dates the start of employment. History before it is treated
	// as non-existent, not as time off; the zero value means the employee
	// predates the system.
	HiredOn Day
}

// Validate checks the preference fields.
func (p EmployeeProfile) Validate() error {
	if p.PinnedRestDay != nil {
		wd := *p.PinnedRestDay
		if wd == time.Sunday {
			return fmt.Errorf("pinned rest day cannot be Sunday: %w", ErrInvalidSettings)
		}
	}
	if p.SaturdayRank < 0 || p.SaturdayRank > 5 {
		return fmt.Errorf("saturday rank %d out of range 0-5: %w", p.SaturdayRank, ErrInvalidSettings)
	}
	if p.Ordinal < 0 {
		return fmt.Errorf("ordinal %d negative: %w", p.Ordinal, ErrInvalidSettings)
	}
	return nil
}

// EmployedOn reports whether the employee was employed on the given date.
func (p EmployeeProfile) EmployedOn(d Day) bool {
	return p.HiredOn.IsZero() || p.HiredOn.BeforeOrEqual(d)
}

// =============================================================================
// PROFILE SET - Lookup collection
// =============================================================================

type ProfileSet struct {
	byID map[EmployeeID]EmployeeProfile
}

func NewProfileSet(profiles ...EmployeeProfile) (ProfileSet, error) {
	set := ProfileSet{byID: make(map[EmployeeID]EmployeeProfile, len(profiles))}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return ProfileSet{}, fmt.Errorf("profile %s: %w", p.EmployeeID, err)
		}
		set.byID[p.EmployeeID] = p
	}
	return set, nil
}

// Lookup returns the profile for an employee, or a zero-valued fallback
// profile when none was registered.
func (s ProfileSet) Lookup(id EmployeeID) EmployeeProfile {
	if p, ok := s.byID[id]; ok {
		return p
	}
	return EmployeeProfile{EmployeeID: id}
}

// AssignOrdinals derives stable ordinals for employees that don't have one,
// ordering by employee ID so the rotation is independent of listing order.
func AssignOrdinals(employees []Employee) []EmployeeProfile {
	sorted := make([]Employee, len(employees))
	copy(sorted, employees)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	profiles := make([]EmployeeProfile, 0, len(sorted))
	for i, emp := range sorted {
		profiles = append(profiles, EmployeeProfile{EmployeeID: emp.ID, Ordinal: i})
	}
	return profiles
}
