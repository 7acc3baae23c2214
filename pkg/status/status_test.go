package status

import (
	"context"
	"testing"
	"time"

	"github.com/jaapstronks/ollie-app-sub007/pkg/event"
	"github.com/jaapstronks/ollie-app-sub007/pkg/profile"
	"github.com/jaapstronks/ollie-app-sub007/pkg/sleepstate"
	"github.com/jaapstronks/ollie-app-sub007/pkg/urgency"
)

type fakeEvents struct {
	events []event.Event
	reads  int
}

func (f *fakeEvents) Day(date time.Time) ([]event.Event, error) {
	var out []event.Event
	for _, e := range f.events {
		if event.SameDay(e.Time, date) {
			out = append(out, e)
		}
	}
	event.SortReverseChronological(out)
	return out, nil
}

func (f *fakeEvents) Range(from, to time.Time) ([]event.Event, error) {
	f.reads++
	var out []event.Event
	for _, e := range f.events {
		if !e.Time.Before(from) && !e.Time.After(to) {
			out = append(out, e)
		}
	}
	event.SortReverseChronological(out)
	return out, nil
}

type fakeProfile struct{ prof profile.Profile }

func (f *fakeProfile) Profile() (profile.Profile, error) { return f.prof, nil }

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 8, day, hour, minute, 0, 0, time.Local)
}

func newEngine(events []event.Event, now time.Time) *Engine {
	return New(
		&fakeEvents{events: events},
		&fakeProfile{prof: profile.Default()},
		WithClock(func() time.Time { return now }),
	)
}

func TestPoopStatusEndToEnd(t *testing.T) {
	// Three poops yesterday, nothing today, queried at 10:00.
	now := at(30, 10, 0)
	events := []event.Event{
		{ID: "1", Type: event.TypePoop, Time: at(29, 8, 0)},
		{ID: "2", Type: event.TypePoop, Time: at(29, 14, 0)},
		{ID: "3", Type: event.TypePoop, Time: at(29, 20, 0)},
	}
	e := newEngine(events, now)

	hist, err := e.Pattern(context.Background())
	if err != nil {
		t.Fatalf("pattern: %v", err)
	}
	if hist.DaysAnalyzed != 1 {
		t.Errorf("DaysAnalyzed = %d, want 1", hist.DaysAnalyzed)
	}
	if hist.MedianDailyCount != 3 {
		t.Errorf("MedianDailyCount = %v, want 3", hist.MedianDailyCount)
	}

	status, err := e.PoopStatus(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.TodayCount != 0 {
		t.Errorf("TodayCount = %d, want 0", status.TodayCount)
	}
	if status.Urgency != urgency.Info {
		t.Errorf("Urgency = %v, want info", status.Urgency)
	}
	if status.Message != "No poop logged yet today." {
		t.Errorf("Message = %q", status.Message)
	}
	if !status.HasPatternData {
		t.Error("expected pattern data")
	}
}

func TestPoopStatusNightHidesUrgency(t *testing.T) {
	now := time.Date(2026, 8, 30, 23, 30, 0, 0, time.Local)
	e := newEngine(nil, now)
	status, err := e.PoopStatus(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Urgency != urgency.Hidden {
		t.Errorf("Urgency = %v, want hidden at night", status.Urgency)
	}
	if status.Message != "" {
		t.Errorf("hidden status must carry no message, got %q", status.Message)
	}
}

func TestPatternCachedPerDay(t *testing.T) {
	now := at(30, 10, 0)
	src := &fakeEvents{events: []event.Event{
		{ID: "1", Type: event.TypePoop, Time: at(29, 9, 0)},
	}}
	e := New(src, &fakeProfile{prof: profile.Default()},
		WithClock(func() time.Time { return now }))

	for range 3 {
		if _, err := e.Pattern(context.Background()); err != nil {
			t.Fatalf("pattern: %v", err)
		}
	}
	if src.reads != 1 {
		t.Errorf("history read %d times, want 1 (cached)", src.reads)
	}
}

func TestSleepStateCrossMidnight(t *testing.T) {
	now := at(30, 1, 0)
	events := []event.Event{
		{ID: "s1", Type: event.TypeSleep, Time: at(29, 22, 0)},
	}
	e := newEngine(events, now)
	state, err := e.SleepState(context.Background())
	if err != nil {
		t.Fatalf("sleep state: %v", err)
	}
	if state.Kind != sleepstate.Sleeping {
		t.Errorf("Kind = %v, want sleeping", state.Kind)
	}
}

func TestWalkSuggestion(t *testing.T) {
	now := at(30, 7, 0)
	e := newEngine(nil, now)
	s, err := e.WalkSuggestion(context.Background())
	if err != nil {
		t.Fatalf("walk suggestion: %v", err)
	}
	if s.TargetWalksPerDay != 3 {
		t.Errorf("TargetWalksPerDay = %d, want 3", s.TargetWalksPerDay)
	}
	if s.IsOverdue {
		t.Error("should not be overdue before the morning anchor")
	}
}
