// Package status is the engine façade: it pulls the day's events and
// the profile, runs the calculators, and hands out the derived status
// values the UI, widgets and watch consume.
package status

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maypok86/otter/v2"

	"github.com/jaapstronks/ollie-app-sub007/pkg/daygap"
	"github.com/jaapstronks/ollie-app-sub007/pkg/event"
	"github.com/jaapstronks/ollie-app-sub007/pkg/pattern"
	"github.com/jaapstronks/ollie-app-sub007/pkg/profile"
	"github.com/jaapstronks/ollie-app-sub007/pkg/sleepstate"
	"github.com/jaapstronks/ollie-app-sub007/pkg/urgency"
)

const (
	// defaultHistoryDays bounds how far back the pattern analyzer
	// looks. Puppy habits shift week to week; older data misleads.
	defaultHistoryDays = 14

	// walkNudgeWindowMinutes is how long after a walk the "no poop
	// logged" nudge stays relevant.
	walkNudgeWindowMinutes = 90
)

// EventSource supplies ordered event sequences, newest first per day.
type EventSource interface {
	Day(date time.Time) ([]event.Event, error)
	Range(from, to time.Time) ([]event.Event, error)
}

// ProfileSource supplies the current user configuration.
type ProfileSource interface {
	Profile() (profile.Profile, error)
}

// Engine computes derived status values on demand. All state is
// injected; the engine itself only caches the per-day pattern, which
// is immutable once computed because the analysis excludes today.
type Engine struct {
	events      EventSource
	profiles    ProfileSource
	logger      *slog.Logger
	now         func() time.Time
	historyDays int
	patterns    *otter.Cache[string, pattern.Pattern]
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithHistoryDays overrides how far back pattern analysis looks.
func WithHistoryDays(days int) Option {
	return func(e *Engine) { e.historyDays = days }
}

// New builds an engine over the given sources.
func New(events EventSource, profiles ProfileSource, opts ...Option) *Engine {
	e := &Engine{
		events:      events,
		profiles:    profiles,
		logger:      slog.Default(),
		now:         time.Now,
		historyDays: defaultHistoryDays,
		patterns: otter.Must(&otter.Options[string, pattern.Pattern]{
			MaximumSize: 64,
		}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pattern returns the historical poop pattern for the day containing
// now, cached per day.
func (e *Engine) Pattern(ctx context.Context) (pattern.Pattern, error) {
	now := e.now()
	key := event.DayKey(now)
	if p, ok := e.patterns.GetIfPresent(key); ok {
		return p, nil
	}
	from := event.StartOfDay(now).AddDate(0, 0, -e.historyDays)
	history, err := e.events.Range(from, now)
	if err != nil {
		return pattern.Pattern{}, fmt.Errorf("loading history: %w", err)
	}
	p := pattern.Analyze(history, now)
	e.patterns.Set(key, p)
	e.logger.Debug("pattern analyzed",
		"day", key, "days_analyzed", p.DaysAnalyzed, "median_gap", p.MedianGapMinutes)
	return p, nil
}

// PoopStatus derives the current poop status. Missing data maps to
// neutral values, never errors; only source failures are returned.
func (e *Engine) PoopStatus(ctx context.Context) (urgency.Status, error) {
	now := e.now()
	today, err := e.events.Day(now)
	if err != nil {
		return urgency.Status{}, fmt.Errorf("loading today: %w", err)
	}
	prof, err := e.profiles.Profile()
	if err != nil {
		return urgency.Status{}, fmt.Errorf("loading profile: %w", err)
	}
	hist, err := e.Pattern(ctx)
	if err != nil {
		return urgency.Status{}, err
	}

	status := urgency.Status{
		Expected:           urgency.Range{Low: prof.ExpectedPoopsLow, High: prof.ExpectedPoopsHigh},
		HasPatternData:     !hist.Empty(),
		PatternDailyMedian: hist.MedianDailyCount,
	}
	for _, ev := range today {
		if ev.Type == event.TypePoop && !ev.Time.After(now) {
			status.TodayCount++
			if ev.Time.After(status.LastPoop) {
				status.LastPoop = ev.Time
			}
		}
	}
	status.GapMinutes, status.GapKnown = daygap.Minutes(status.LastPoop, now)
	status.RecentWalkWithoutPoop = daygap.WalkWithoutPoop(today, status.LastPoop, now, walkNudgeWindowMinutes)

	level, message := urgency.Determine(urgency.Input{
		TodayCount:            status.TodayCount,
		Expected:              status.Expected,
		GapMinutes:            status.GapMinutes,
		GapKnown:              status.GapKnown,
		Pattern:               hist,
		RecentWalkWithoutPoop: status.RecentWalkWithoutPoop,
		Hour:                  now.Hour(),
	})
	status.Urgency = level
	status.Message = message

	// Display suppression only: notification timing runs off the raw
	// rules independently.
	if urgency.IsNightHour(now.Hour()) {
		status.Urgency = urgency.Hidden
		status.Message = ""
	}
	return status, nil
}

// SleepState classifies the current sleep state from today's and
// yesterday's events.
func (e *Engine) SleepState(ctx context.Context) (sleepstate.State, error) {
	now := e.now()
	events, err := e.events.Range(event.StartOfDay(now).AddDate(0, 0, -1), now)
	if err != nil {
		return sleepstate.State{}, fmt.Errorf("loading sleep events: %w", err)
	}
	return sleepstate.Current(events, now), nil
}

// WalkSuggestion derives the next suggested walk.
func (e *Engine) WalkSuggestion(ctx context.Context) (urgency.WalkSuggestion, error) {
	now := e.now()
	prof, err := e.profiles.Profile()
	if err != nil {
		return urgency.WalkSuggestion{}, fmt.Errorf("loading profile: %w", err)
	}
	from := event.StartOfDay(now).AddDate(0, 0, -e.historyDays)
	events, err := e.events.Range(from, now)
	if err != nil {
		return urgency.WalkSuggestion{}, fmt.Errorf("loading walks: %w", err)
	}
	return urgency.SuggestWalk(events, prof.WalksPerDay, now), nil
}
