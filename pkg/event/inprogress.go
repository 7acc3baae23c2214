package event

import (
	"time"

	"github.com/google/uuid"
)

// ActivityKind tags a live activity being tracked.
type ActivityKind string

const (
	ActivityWalk ActivityKind = "walk"
	ActivityNap  ActivityKind = "nap"
)

// InProgress is a walk or nap currently being tracked live. It is not
// an event yet; Finish converts it into logged events.
type InProgress struct {
	Kind      ActivityKind `json:"kind"`
	StartTime time.Time    `json:"start_time"`
	Spot      string       `json:"spot,omitempty"`
	Location  Location     `json:"location,omitempty"`
}

// ElapsedMinutes is how long the activity has been running.
func (a InProgress) ElapsedMinutes(now time.Time) int {
	minutes := int(now.Sub(a.StartTime).Minutes())
	if minutes < 0 {
		return 0
	}
	return minutes
}

// Finish converts the live activity into completed events, with the
// end adjustable as "ended N minutes ago". A walk becomes a single
// walk event; a nap becomes a sleep/wake pair sharing a session ID so
// the sleep state calculator can pair them later.
func (a InProgress) Finish(now time.Time, endedMinutesAgo int) []Event {
	end := now.Add(-time.Duration(endedMinutesAgo) * time.Minute)
	if end.Before(a.StartTime) {
		end = a.StartTime
	}
	duration := int(end.Sub(a.StartTime).Minutes())

	if a.Kind == ActivityWalk {
		walk := New(TypeWalk, a.StartTime)
		walk.DurationMinutes = duration
		walk.Spot = a.Spot
		walk.Location = a.Location
		return []Event{walk}
	}

	sleep := New(TypeSleep, a.StartTime)
	sleep.SessionID = uuid.NewString()
	wake := New(TypeWake, end)
	wake.SessionID = sleep.SessionID
	return []Event{sleep, wake}
}
