// Package event defines the puppy logbook event model shared by every
// calculator: timestamped records of potty breaks, meals, walks, sleep
// sessions, coverage gaps, milestones and appointments.
package event

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Type identifies what kind of event was logged.
type Type string

const (
	TypePee         Type = "pee"
	TypePoop        Type = "poop"
	TypeMeal        Type = "meal"
	TypeWalk        Type = "walk"
	TypeSleep       Type = "sleep"
	TypeWake        Type = "wake"
	TypeGapStart    Type = "gap_start"
	TypeGapEnd      Type = "gap_end"
	TypeMilestone   Type = "milestone"
	TypeAppointment Type = "appointment"
)

// Location records where a potty event happened.
type Location string

const (
	LocationIndoor  Location = "indoor"
	LocationOutdoor Location = "outdoor"
)

// DefaultWalkMinutes is assumed when a walk event has no logged duration.
const DefaultWalkMinutes = 30

// Event is an immutable record of something that happened to the puppy.
// Optional fields are zero-valued when absent.
type Event struct {
	ID              string    `json:"id"`
	Time            time.Time `json:"time"`
	Type            Type      `json:"type"`
	DurationMinutes int       `json:"duration_minutes,omitempty"`
	Location        Location  `json:"location,omitempty"`
	Note            string    `json:"note,omitempty"`
	Spot            string    `json:"spot,omitempty"`
	SessionID       string    `json:"session_id,omitempty"`
	GapKind         string    `json:"gap_kind,omitempty"`
	GapLocation     string    `json:"gap_location,omitempty"`
	EndTime         time.Time `json:"end_time,omitempty"`
	Completed       bool      `json:"completed,omitempty"`
}

// New creates an event with a fresh identifier.
func New(t Type, at time.Time) Event {
	return Event{ID: uuid.NewString(), Time: at, Type: t}
}

// End returns when the event finished: the explicit end time if set,
// otherwise start plus duration. Walks without a duration are assumed
// to last DefaultWalkMinutes.
func (e Event) End() time.Time {
	if !e.EndTime.IsZero() {
		return e.EndTime
	}
	minutes := e.DurationMinutes
	if minutes == 0 && e.Type == TypeWalk {
		minutes = DefaultWalkMinutes
	}
	return e.Time.Add(time.Duration(minutes) * time.Minute)
}

// SortChronological orders events oldest first.
func SortChronological(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time.Before(events[j].Time)
	})
}

// SortReverseChronological orders events newest first, the order the
// event store hands out a day's log.
func SortReverseChronological(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time.After(events[j].Time)
	})
}

// FilterType returns the events of a single type, preserving order.
func FilterType(events []Event, t Type) []Event {
	var out []Event
	for _, e := range events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// DayKey formats the local calendar day of a timestamp. Events sharing
// a key belong to the same UI day; the boundary is local midnight.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// SameDay reports whether two timestamps fall on the same local
// calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// StartOfDay returns local midnight for the day containing t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// GroupByDay buckets events by local calendar day.
func GroupByDay(events []Event) map[string][]Event {
	byDay := make(map[string][]Event)
	for _, e := range events {
		key := DayKey(e.Time)
		byDay[key] = append(byDay[key], e)
	}
	return byDay
}

// Dedupe removes events that share an identifier with an earlier event
// in the slice. When two distinct events collide on ID (an import or
// merge artifact), the later one is kept with a fresh identifier
// rather than dropped.
func Dedupe(events []Event) []Event {
	seen := make(map[string]Event, len(events))
	out := make([]Event, 0, len(events))
	for _, e := range events {
		prev, ok := seen[e.ID]
		if !ok {
			seen[e.ID] = e
			out = append(out, e)
			continue
		}
		if prev.Time.Equal(e.Time) && prev.Type == e.Type {
			continue // true duplicate
		}
		e.ID = uuid.NewString()
		seen[e.ID] = e
		out = append(out, e)
	}
	return out
}

// Merge combines watch-local events with a phone-synced snapshot using
// last-writer-wins per identifier: when both sides carry the same ID,
// whichever record has the newer timestamp survives. The result is
// deduplicated and sorted newest first.
func Merge(local, snapshot []Event) []Event {
	byID := make(map[string]Event, len(local)+len(snapshot))
	for _, e := range local {
		byID[e.ID] = e
	}
	for _, e := range snapshot {
		if existing, ok := byID[e.ID]; ok && !e.Time.After(existing.Time) {
			continue
		}
		byID[e.ID] = e
	}
	merged := make([]Event, 0, len(byID))
	for _, e := range byID {
		merged = append(merged, e)
	}
	SortReverseChronological(merged)
	return merged
}
