package urgency

import (
	"testing"
	"time"

	"github.com/jaapstronks/ollie-app-sub007/pkg/event"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 8, day, hour, minute, 0, 0, time.Local)
}

func TestSuggestWalkNoWalksYet(t *testing.T) {
	now := at(30, 7, 0)
	s := SuggestWalk(nil, 3, now)
	if s.WalksCompletedToday != 0 {
		t.Errorf("WalksCompletedToday = %d, want 0", s.WalksCompletedToday)
	}
	if !s.SuggestedTime.Equal(at(30, 8, 0)) {
		t.Errorf("SuggestedTime = %v, want 08:00", s.SuggestedTime)
	}
	if s.IsOverdue {
		t.Error("07:00 suggestion for 08:00 must not be overdue")
	}
	if s.MinutesUntilSuggested != 60 {
		t.Errorf("MinutesUntilSuggested = %d, want 60", s.MinutesUntilSuggested)
	}
	if s.Label != "Walk 1 of 3" {
		t.Errorf("Label = %q", s.Label)
	}
}

func TestSuggestWalkMorningOverdue(t *testing.T) {
	now := at(30, 9, 30)
	s := SuggestWalk(nil, 3, now)
	if !s.IsOverdue {
		t.Error("expected overdue after the morning anchor passes")
	}
	if s.MinutesUntilSuggested != -90 {
		t.Errorf("MinutesUntilSuggested = %d, want -90", s.MinutesUntilSuggested)
	}
}

func TestSuggestWalkAfterFirstWalk(t *testing.T) {
	now := at(30, 10, 0)
	events := []event.Event{
		{ID: "w1", Type: event.TypeWalk, Time: at(30, 8, 0), DurationMinutes: 30},
		// Yesterday's walks give a 240-minute historical interval.
		{ID: "h1", Type: event.TypeWalk, Time: at(29, 8, 0), DurationMinutes: 30},
		{ID: "h2", Type: event.TypeWalk, Time: at(29, 12, 0), DurationMinutes: 30},
	}
	s := SuggestWalk(events, 3, now)
	if s.WalksCompletedToday != 1 {
		t.Errorf("WalksCompletedToday = %d, want 1", s.WalksCompletedToday)
	}
	// Last walk ended 08:30 + 240 minute interval = 12:30.
	if !s.SuggestedTime.Equal(at(30, 12, 30)) {
		t.Errorf("SuggestedTime = %v, want 12:30", s.SuggestedTime)
	}
	if s.IsOverdue {
		t.Error("not overdue before the suggested time")
	}
	if s.Label != "Walk 2 of 3" {
		t.Errorf("Label = %q", s.Label)
	}
}

func TestSuggestWalkNoHistoryFallback(t *testing.T) {
	now := at(30, 10, 0)
	events := []event.Event{
		{ID: "w1", Type: event.TypeWalk, Time: at(30, 8, 0), DurationMinutes: 30},
	}
	s := SuggestWalk(events, 3, now)
	// Fallback interval is 1020/3 = 340 minutes after the walk ends.
	want := at(30, 8, 30).Add(340 * time.Minute)
	if !s.SuggestedTime.Equal(want) {
		t.Errorf("SuggestedTime = %v, want %v", s.SuggestedTime, want)
	}
}

func TestSuggestWalkTargetMet(t *testing.T) {
	now := at(30, 19, 0)
	events := []event.Event{
		{ID: "w1", Type: event.TypeWalk, Time: at(30, 8, 0)},
		{ID: "w2", Type: event.TypeWalk, Time: at(30, 13, 0)},
		{ID: "w3", Type: event.TypeWalk, Time: at(30, 18, 0)},
	}
	s := SuggestWalk(events, 3, now)
	if s.IsOverdue {
		t.Error("a met target is never overdue")
	}
	if !s.SuggestedTime.Equal(at(31, 8, 0)) {
		t.Errorf("SuggestedTime = %v, want tomorrow 08:00", s.SuggestedTime)
	}
}
