// Package sleepstate classifies whether the puppy is currently asleep
// or awake from the day's sleep and wake events, looking back into
// yesterday for sessions that started before midnight.
package sleepstate

import (
	"time"

	"github.com/jaapstronks/ollie-app-sub007/pkg/event"
)

// Kind tags the current sleep state.
type Kind int

const (
	Unknown Kind = iota
	Sleeping
	Awake
)

func (k Kind) String() string {
	switch k {
	case Sleeping:
		return "sleeping"
	case Awake:
		return "awake"
	default:
		return "unknown"
	}
}

// State is the current sleep/awake classification. Since and SessionID
// are set for Sleeping; Since and AwakeMinutes for Awake.
type State struct {
	Kind         Kind
	Since        time.Time
	SessionID    string
	AwakeMinutes int
}

// Current scans today's sleep and wake events, newest first, falling
// back to yesterday when today has none. A trailing sleep event means
// the puppy is still napping; a trailing wake event means awake since
// then.
func Current(events []event.Event, now time.Time) State {
	today := event.StartOfDay(now)
	yesterday := today.AddDate(0, 0, -1)

	if s, ok := latestTransition(events, today, now); ok {
		return resolve(s, now)
	}
	if s, ok := latestTransition(events, yesterday, today); ok {
		return resolve(s, now)
	}
	return State{Kind: Unknown}
}

// latestTransition finds the newest sleep or wake event in [from, to).
func latestTransition(events []event.Event, from, to time.Time) (event.Event, bool) {
	var latest event.Event
	found := false
	for _, e := range events {
		if e.Type != event.TypeSleep && e.Type != event.TypeWake {
			continue
		}
		if e.Time.Before(from) || !e.Time.Before(to) {
			continue
		}
		if !found || e.Time.After(latest.Time) {
			latest = e
			found = true
		}
	}
	return latest, found
}

func resolve(e event.Event, now time.Time) State {
	if e.Type == event.TypeSleep {
		sessionID := e.SessionID
		if sessionID == "" {
			sessionID = e.ID
		}
		return State{Kind: Sleeping, Since: e.Time, SessionID: sessionID}
	}
	minutes := int(now.Sub(e.Time).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	return State{Kind: Awake, Since: e.Time, AwakeMinutes: minutes}
}

// SessionDuration returns the length in minutes of the completed sleep
// session identified by sessionID, pairing a sleep event with the wake
// event that closed it. ok is false when either half is missing.
func SessionDuration(events []event.Event, sessionID string) (minutes int, ok bool) {
	var sleepAt, wakeAt time.Time
	for _, e := range events {
		id := e.SessionID
		if id == "" {
			id = e.ID
		}
		if id != sessionID {
			continue
		}
		switch e.Type {
		case event.TypeSleep:
			sleepAt = e.Time
		case event.TypeWake:
			wakeAt = e.Time
		}
	}
	if sleepAt.IsZero() || wakeAt.IsZero() || !wakeAt.After(sleepAt) {
		return 0, false
	}
	return int(wakeAt.Sub(sleepAt).Minutes()), true
}
