package roster

import "time"

// =============================================================================
// ROTATION SCHEDULE - Interface for how rest days distribute over weeks
// =============================================================================

// RotationSchedule picks an employee's rest weekday for a given ISO week.
// Implementations define the distribution policy (modular rotation, pinned
// preference); all of them must be deterministic so regeneration is
// idempotent without persisting "whose turn is next" anywhere.
type RotationSchedule interface {
	// RestDayFor returns the rest weekday for the week, always Monday-Saturday
	// (Sunday is closed and never a rest day).
	RestDayFor(week ISOWeek) time.Weekday

	// IsPinned returns true when the weekday is a fixed employee preference
	// rather than a derived rotation.
	IsPinned() bool
}

// =============================================================================
// MODULAR ROTATION - (week number + employee ordinal) mod 6
// =============================================================================

// ModularRotation walks Monday-Saturday using the ISO week number and the
// employee's stable ordinal. Different ordinals shift the cycle, so a team
// never rests on the same day, and the long-run distribution across the six
// candidate days is even without any shared mutable state.
type ModularRotation struct {
	Ordinal int
}

func (m ModularRotation) RestDayFor(week ISOWeek) time.Weekday {
	idx := (week.Week + m.Ordinal) % 6
	return weekdayFromMondayIndex(idx)
}

func (m ModularRotation) IsPinned() bool { return false }

// =============================================================================
// PINNED ROTATION - Fixed weekday preference
// =============================================================================

// PinnedRotation always returns the same weekday, for employees with a
// negotiated fixed day off.
type PinnedRotation struct {
	Weekday time.Weekday
}

func (p PinnedRotation) RestDayFor(week ISOWeek) time.Weekday { return p.Weekday }
func (p PinnedRotation) IsPinned() bool                       { return true }

// RotationFor builds the schedule for a profile: the pinned preference when
// one is set, the modular rotation otherwise.
func RotationFor(p EmployeeProfile) RotationSchedule {
	if p.PinnedRestDay != nil {
		return PinnedRotation{Weekday: *p.PinnedRestDay}
	}
	return ModularRotation{Ordinal: p.Ordinal}
}

// weekdayFromMondayIndex maps Monday=0..Saturday=5 back onto time.Weekday.
func weekdayFromMondayIndex(idx int) time.Weekday {
	return time.Weekday((idx + 1) % 7)
}
