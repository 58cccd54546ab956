/*
policy.go - Labor policy settings and their effective-date history

PURPOSE:
  PolicySettings is the business-rule configuration the generator consumes:
  the daily work windows, break minutes, and the two quota values. The
  quotas are modeled as data (not hardcoded constants) so a future policy
  change is a new settings version, not a code change.

KEY CONCEPTS:
  - PolicySettings: one immutable version of the rules
  - PolicyHistory: versions ordered by effective date; historical weeks are
    evaluated under the version that applied when they were generated

DESIGN PRINCIPLES:
  1. Versions are never edited in place; a change appends a new version
     with a later EffectiveFrom
  2. Saturday has its own window because counter businesses close early
  3. Validation is explicit: start < end, counts >= 0, breaks fit windows

SEE ALSO:
  - presets.go: Named settings constructors
  - constraint.go: Consumes the quota fields
  - generate.go: Snapshots the window onto Working entries
*/
package roster

import (
	"fmt"
	"sort"
)

// =============================================================================
// POLICY SETTINGS - One version of the business rules
// =============================================================================

type PolicySettings struct {
	// Weekday shift window (Monday-Friday).
	WeekdayStart    ClockTime
	WeekdayEnd      ClockTime
	WeekdayBreakMin int

	// Saturday shift window; counter businesses typically close earlier.
	SaturdayStart    ClockTime
	SaturdayEnd      ClockTime
	SaturdayBreakMin int

	// RestDaysPerWeek is the number of rest days owed per employee per ISO
	// week. The business rule is 1; it is data so the rule can change.
	RestDaysPerWeek int

	// SaturdayOffPerMonth caps Saturday-off allocations per employee per
	// calendar month. The business rule is 1.
	SaturdayOffPerMonth int

	// AbsentSaturdayCountsTowardQuota controls whether a Saturday fully
	// covered by an absence satisfies the monthly Saturday-off quota. When
	// false (the default) the engine still tries to place an explicit
	// SaturdayOff on a later Saturday of the month.
	AbsentSaturdayCountsTowardQuota bool

	// EffectiveFrom dates this version. The zero value means "since always"
	// and is only valid for the first version in a history.
	EffectiveFrom Day
}

// Validate checks the window and quota fields.
func (p PolicySettings) Validate() error {
	if !p.WeekdayStart.Before(p.WeekdayEnd) {
		return fmt.Errorf("weekday window %s-%s: %w", p.WeekdayStart, p.WeekdayEnd, ErrInvalidSettings)
	}
	if !p.SaturdayStart.Before(p.SaturdayEnd) {
		return fmt.Errorf("saturday window %s-%s: %w", p.SaturdayStart, p.SaturdayEnd, ErrInvalidSettings)
	}
	if p.WeekdayBreakMin < 0 || p.WeekdayBreakMin >= p.WeekdayStart.MinutesUntil(p.WeekdayEnd) {
		return fmt.Errorf("weekday break %d min does not fit the window: %w", p.WeekdayBreakMin, ErrInvalidSettings)
	}
	if p.SaturdayBreakMin < 0 || p.SaturdayBreakMin >= p.SaturdayStart.MinutesUntil(p.SaturdayEnd) {
		return fmt.Errorf("saturday break %d min does not fit the window: %w", p.SaturdayBreakMin, ErrInvalidSettings)
	}
	if p.RestDaysPerWeek < 0 {
		return fmt.Errorf("rest days per week %d: %w", p.RestDaysPerWeek, ErrInvalidSettings)
	}
	if p.SaturdayOffPerMonth < 0 {
		return fmt.Errorf("saturday off per month %d: %w", p.SaturdayOffPerMonth, ErrInvalidSettings)
	}
	return nil
}

// WindowFor returns the shift window and break for a given date.
func (p PolicySettings) WindowFor(d Day) (start, end ClockTime, breakMin int) {
	if d.IsSaturday() {
		return p.SaturdayStart, p.SaturdayEnd, p.SaturdayBreakMin
	}
	return p.WeekdayStart, p.WeekdayEnd, p.WeekdayBreakMin
}

// PlannedHoursOn is the nominal workload of a Working day under this policy:
// window length minus break.
func (p PolicySettings) PlannedHoursOn(d Day) Hours {
	start, end, breakMin := p.WindowFor(d)
	minutes := start.MinutesUntil(end) - breakMin
	if minutes < 0 {
		minutes = 0
	}
	return HoursFromMinutes(minutes)
}

// =============================================================================
// POLICY HISTORY - Versions ordered by effective date
// =============================================================================

type PolicyHistory struct {
	versions []PolicySettings
}

// NewPolicyHistory validates every version and orders them by EffectiveFrom.
func NewPolicyHistory(versions ...PolicySettings) (PolicyHistory, error) {
	if len(versions) == 0 {
		return PolicyHistory{}, fmt.Errorf("empty history: %w", ErrInvalidSettings)
	}
	for _, v := range versions {
		if err := v.Validate(); err != nil {
			return PolicyHistory{}, err
		}
	}
	sorted := make([]PolicySettings, len(versions))
	copy(sorted, versions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EffectiveFrom.Before(sorted[j].EffectiveFrom)
	})
	return PolicyHistory{versions: sorted}, nil
}

// At resolves the settings version in force on the given date: the latest
// version whose EffectiveFrom is on or before it.
func (h PolicyHistory) At(d Day) (PolicySettings, error) {
	var found *PolicySettings
	for i := range h.versions {
		v := &h.versions[i]
		if v.EffectiveFrom.IsZero() || v.EffectiveFrom.BeforeOrEqual(d) {
			found = v
		}
	}
	if found == nil {
		return PolicySettings{}, fmt.Errorf("%s: %w", d, ErrNoPolicyForDate)
	}
	return *found, nil
}

// Current resolves the version in force today.
func (h PolicyHistory) Current() (PolicySettings, error) { return h.At(Today()) }

// Add returns a new history including the given version.
func (h PolicyHistory) Add(p PolicySettings) (PolicyHistory, error) {
	return NewPolicyHistory(append(h.Versions(), p)...)
}

// Versions returns a copy of the ordered versions.
func (h PolicyHistory) Versions() []PolicySettings {
	out := make([]PolicySettings, len(h.versions))
	copy(out, h.versions)
	return out
}
