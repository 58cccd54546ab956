package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/geraldbelrose-cyber/skello-perso/roster"
)

// SettingsPayload is the JSON body for policy updates. Clock fields are
// HH:MM strings, EffectiveFrom an ISO date; cross-field rules (window
// order, break fitting the window) belong to roster.PolicySettings and
// run after conversion.
type SettingsPayload struct {
	WeekdayStart        string `json:"weekdayStart" validate:"required,clocktime"`
	WeekdayEnd          string `json:"weekdayEnd" validate:"required,clocktime"`
	WeekdayBreakMin     int    `json:"weekdayBreakMin" validate:"min=0,max=480"`
	SaturdayStart       string `json:"saturdayStart" validate:"required,clocktime"`
	SaturdayEnd         string `json:"saturdayEnd" validate:"required,clocktime"`
	SaturdayBreakMin    int    `json:"saturdayBreakMin" validate:"min=0,max=480"`
	RestDaysPerWeek     int    `json:"restDaysPerWeek" validate:"min=0,max=6"`
	SaturdayOffPerMonth int    `json:"saturdayOffPerMonth" validate:"min=0,max=5"`

	AbsentSaturdayCountsTowardQuota bool `json:"absentSaturdayCountsTowardQuota"`

	// EffectiveFrom dates the new version; empty means effective from the
	// beginning, which only the first version of a history may claim.
	EffectiveFrom string `json:"effectiveFrom" validate:"omitempty,datetime=2006-01-02"`
}

var settingsValidator = newSettingsValidator()

func newSettingsValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("clocktime", func(fl validator.FieldLevel) bool {
		_, parseErr := roster.ParseClockTime(fl.Field().String())
		return parseErr == nil
	})
	if err != nil {
		panic(err)
	}
	return v
}

// ParseSettings decodes and validates a settings payload into the policy
// type the generator consumes.
func ParseSettings(data []byte) (roster.PolicySettings, error) {
	var payload SettingsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return roster.PolicySettings{}, fmt.Errorf("decode settings: %w: %s", roster.ErrInvalidSettings, err)
	}
	return payload.ToPolicy()
}

// ToPolicy validates the payload and converts it.
func (p SettingsPayload) ToPolicy() (roster.PolicySettings, error) {
	if err := settingsValidator.Struct(p); err != nil {
		return roster.PolicySettings{}, fmt.Errorf("settings fields %v: %w", ValidationFields(err), roster.ErrInvalidSettings)
	}

	settings := roster.PolicySettings{
		WeekdayBreakMin:                 p.WeekdayBreakMin,
		SaturdayBreakMin:                p.SaturdayBreakMin,
		RestDaysPerWeek:                 p.RestDaysPerWeek,
		SaturdayOffPerMonth:             p.SaturdayOffPerMonth,
		AbsentSaturdayCountsTowardQuota: p.AbsentSaturdayCountsTowardQuota,
	}

	var err error
	if settings.WeekdayStart, err = roster.ParseClockTime(p.WeekdayStart); err != nil {
		return roster.PolicySettings{}, err
	}
	if settings.WeekdayEnd, err = roster.ParseClockTime(p.WeekdayEnd); err != nil {
		return roster.PolicySettings{}, err
	}
	if settings.SaturdayStart, err = roster.ParseClockTime(p.SaturdayStart); err != nil {
		return roster.PolicySettings{}, err
	}
	if settings.SaturdayEnd, err = roster.ParseClockTime(p.SaturdayEnd); err != nil {
		return roster.PolicySettings{}, err
	}
	if p.EffectiveFrom != "" {
		if settings.EffectiveFrom, err = roster.ParseDay(p.EffectiveFrom); err != nil {
			return roster.PolicySettings{}, err
		}
	}

	if err := settings.Validate(); err != nil {
		return roster.PolicySettings{}, err
	}
	return settings, nil
}

// PayloadFromPolicy renders settings back into the wire shape.
func PayloadFromPolicy(s roster.PolicySettings) SettingsPayload {
	payload := SettingsPayload{
		WeekdayStart:                    s.WeekdayStart.String(),
		WeekdayEnd:                      s.WeekdayEnd.String(),
		WeekdayBreakMin:                 s.WeekdayBreakMin,
		SaturdayStart:                   s.SaturdayStart.String(),
		SaturdayEnd:                     s.SaturdayEnd.String(),
		SaturdayBreakMin:                s.SaturdayBreakMin,
		RestDaysPerWeek:                 s.RestDaysPerWeek,
		SaturdayOffPerMonth:             s.SaturdayOffPerMonth,
		AbsentSaturdayCountsTowardQuota: s.AbsentSaturdayCountsTowardQuota,
	}
	if !s.EffectiveFrom.IsZero() {
		payload.EffectiveFrom = s.EffectiveFrom.String()
	}
	return payload
}

// ValidationFields flattens validator errors into a field-to-rule map for
// error responses.
func ValidationFields(err error) map[string]string {
	fields := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fields
	}
	for _, ve := range validationErrors {
		fields[ve.Field()] = ve.Tag()
	}
	return fields
}
