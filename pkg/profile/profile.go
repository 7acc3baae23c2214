// Package profile holds the user-configured thresholds the calculators
// and schedulers run against: expected daily counts, the meal and walk
// schedule, and per-category notification settings.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// MealTarget is one scheduled meal per day.
type MealTarget struct {
	TimeOfDay string `json:"time"` // "HH:MM", local
	Label     string `json:"label"`
	Portion   string `json:"portion,omitempty"`
}

// At resolves the target to an absolute time on the day containing
// day, using day's location.
func (m MealTarget) At(day time.Time) (time.Time, error) {
	hour, minute, err := ParseClock(m.TimeOfDay)
	if err != nil {
		return time.Time{}, fmt.Errorf("meal %q: %w", m.Label, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}

// ParseClock parses an "HH:MM" string.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// MealSettings configures meal reminders. OffsetMinutes shifts the
// fire time before the target; a negative offset fires after the meal
// time, framing the reminder as overdue instead of upcoming.
type MealSettings struct {
	Enabled       bool `json:"enabled"`
	OffsetMinutes int  `json:"offset_minutes"`
}

// LeadSettings configures reminders that fire ahead of a predicted or
// scheduled moment.
type LeadSettings struct {
	Enabled     bool `json:"enabled"`
	LeadMinutes int  `json:"lead_minutes"`
}

// NapSettings configures awake-duration nap reminders.
type NapSettings struct {
	Enabled               bool `json:"enabled"`
	AwakeThresholdMinutes int  `json:"awake_threshold_minutes"`
}

// Notifications groups the per-category settings.
type Notifications struct {
	Meal        MealSettings `json:"meal"`
	Potty       LeadSettings `json:"potty"`
	Walk        LeadSettings `json:"walk"`
	Nap         NapSettings  `json:"nap"`
	Appointment LeadSettings `json:"appointment"`
}

// Profile is the full user configuration.
type Profile struct {
	Name              string        `json:"name,omitempty"`
	ExpectedPoopsLow  int           `json:"expected_poops_low"`
	ExpectedPoopsHigh int           `json:"expected_poops_high"`
	Meals             []MealTarget  `json:"meals"`
	WalksPerDay       int           `json:"walks_per_day"`
	Notify            Notifications `json:"notifications"`
}

// Default returns the settings a fresh install starts with.
func Default() Profile {
	return Profile{
		ExpectedPoopsLow:  2,
		ExpectedPoopsHigh: 4,
		Meals: []MealTarget{
			{TimeOfDay: "08:00", Label: "Breakfast"},
			{TimeOfDay: "13:00", Label: "Lunch"},
			{TimeOfDay: "18:00", Label: "Dinner"},
		},
		WalksPerDay: 3,
		Notify: Notifications{
			Meal:        MealSettings{Enabled: true, OffsetMinutes: 0},
			Potty:       LeadSettings{Enabled: true, LeadMinutes: 10},
			Walk:        LeadSettings{Enabled: true, LeadMinutes: 15},
			Nap:         NapSettings{Enabled: true, AwakeThresholdMinutes: 120},
			Appointment: LeadSettings{Enabled: true, LeadMinutes: 60},
		},
	}
}

// Load reads a profile file, returning defaults when the file does not
// exist yet.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("reading profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parsing profile: %w", err)
	}
	return p, nil
}

// Save writes the profile as JSON, creating parent directories as
// needed.
func Save(path string, p Profile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating profile directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	return nil
}
