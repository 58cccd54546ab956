/*
presets.go - Pre-built policy settings configurations

PURPOSE:
  Ready-to-use PolicySettings for common shop patterns. These are starting
  points; real deployments append their own versions with a later
  EffectiveFrom.

AVAILABLE PRESETS:
  DefaultSettings: Counter business hours (early start, short Saturday)
  OfficeSettings:  Nine-to-five, no Saturday shortening, no breaks

SEE ALSO:
  - policy.go: PolicySettings definition and validation
  - config package: JSON parsing of operator-supplied settings
*/
package roster

// =============================================================================
// COMMON SETTINGS PRESETS
// =============================================================================

// DefaultSettings returns the counter-business defaults: 07:30-16:30 with a
// one-hour break on weekdays (8h planned) and a short break-free Saturday
// 07:30-12:30 (5h planned).
func DefaultSettings() PolicySettings {
	return PolicySettings{
		WeekdayStart:        NewClockTime(7, 30),
		WeekdayEnd:          NewClockTime(16, 30),
		WeekdayBreakMin:     60,
		SaturdayStart:       NewClockTime(7, 30),
		SaturdayEnd:         NewClockTime(12, 30),
		SaturdayBreakMin:    0,
		RestDaysPerWeek:     1,
		SaturdayOffPerMonth: 1,
	}
}

// OfficeSettings returns a plain 09:00-17:00 week with no breaks and the
// same window on Saturday.
func OfficeSettings() PolicySettings {
	return PolicySettings{
		WeekdayStart:        NewClockTime(9, 0),
		WeekdayEnd:          NewClockTime(17, 0),
		WeekdayBreakMin:     0,
		SaturdayStart:       NewClockTime(9, 0),
		SaturdayEnd:         NewClockTime(17, 0),
		SaturdayBreakMin:    0,
		RestDaysPerWeek:     1,
		SaturdayOffPerMonth: 1,
	}
}
