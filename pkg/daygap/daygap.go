// Package daygap measures elapsed time between events counting only
// daytime hours. Overnight stretches say nothing about how overdue the
// puppy is, so every gap-based comparison in the app runs on daytime
// minutes rather than wall-clock minutes.
package daygap

import (
	"time"

	"github.com/jaapstronks/ollie-app-sub007/pkg/event"
)

const (
	// nightStartHour..nightEndHour is the window excluded from gap
	// accounting: hours {23, 0, 1, 2, 3, 4, 5} are night.
	nightStartHour = 23
	nightEndHour   = 6

	// gridMinutes is the resolution of the interval walk. The grid
	// trades up to 15 minutes of rounding error for not having to do
	// exact interval clipping across the night boundary.
	gridMinutes = 15

	// maxGapMinutes caps plausible same-day gaps; anything >= 12 hours
	// crossed an overnight boundary and is excluded as an outlier.
	maxGapMinutes = 720
)

// isNightHour reports whether a local hour-of-day falls in the
// excluded night window.
func isNightHour(hour int) bool {
	return hour >= nightStartHour || hour < nightEndHour
}

// Minutes walks [from, to) in 15-minute steps and accumulates the
// steps whose starting hour is daytime. ok is false when from is the
// zero time or the whole interval was night.
func Minutes(from, to time.Time) (minutes int, ok bool) {
	if from.IsZero() || !to.After(from) {
		return 0, false
	}
	total := 0
	step := time.Duration(gridMinutes) * time.Minute
	for cursor := from; cursor.Before(to); cursor = cursor.Add(step) {
		if !isNightHour(cursor.Hour()) {
			total += gridMinutes
		}
	}
	if total == 0 {
		return 0, false
	}
	return total, true
}

// Gaps computes daytime gaps between consecutive events of a
// chronologically sorted same-type sequence, keeping only gaps that
// look like real same-day intervals: strictly positive and under 12
// hours. Fewer than two events yields nothing.
func Gaps(events []event.Event) []int {
	if len(events) < 2 {
		return nil
	}
	var gaps []int
	for i := 1; i < len(events); i++ {
		minutes, ok := Minutes(events[i-1].Time, events[i].Time)
		if !ok {
			continue
		}
		if minutes > 0 && minutes < maxGapMinutes {
			gaps = append(gaps, minutes)
		}
	}
	return gaps
}

// WalkWithoutPoop reports whether the most recent walk today has ended
// within the last windowMinutes without any poop logged at or after
// the walk's start. This drives the "you walked but didn't log a poop"
// nudge.
func WalkWithoutPoop(todayEvents []event.Event, lastPoop time.Time, now time.Time, windowMinutes int) bool {
	var walk event.Event
	found := false
	// Store order is newest first; scan for the most recent walk.
	for _, e := range todayEvents {
		if e.Type == event.TypeWalk {
			if !found || e.Time.After(walk.Time) {
				walk = e
				found = true
			}
		}
	}
	if !found {
		return false
	}
	walkEnd := walk.End()
	if now.Before(walkEnd) {
		return false // still out walking
	}
	sinceEnd := int(now.Sub(walkEnd).Minutes())
	if sinceEnd < 0 || sinceEnd > windowMinutes {
		return false
	}
	// Any poop at or after the walk start counts as logged.
	if !lastPoop.IsZero() && !lastPoop.Before(walk.Time) {
		return false
	}
	for _, e := range todayEvents {
		if e.Type == event.TypePoop && !e.Time.Before(walk.Time) {
			return false
		}
	}
	return true
}
