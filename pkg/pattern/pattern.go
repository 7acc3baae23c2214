// Package pattern aggregates historical poop and walk events into the
// summary statistics that personalize urgency thresholds. Today's
// events are always excluded so the pattern is stable within a day.
package pattern

import (
	"sort"
	"time"

	"github.com/jaapstronks/ollie-app-sub007/pkg/daygap"
	"github.com/jaapstronks/ollie-app-sub007/pkg/event"
)

// Pattern summarizes historical poop behavior. The zero value is the
// "no history yet" sentinel.
type Pattern struct {
	MedianDailyCount float64 // median poops per analyzed day
	MedianGapMinutes int     // median daytime gap between poops
	PostWalkPoopRate float64 // fraction of walks with a poop logged during the walk
	DaysAnalyzed     int
}

// Empty reports whether the pattern carries no history.
func (p Pattern) Empty() bool {
	return p.DaysAnalyzed == 0
}

// Median returns the median of values using the usual rule: the middle
// value for odd counts, the average of the two middle values for even
// counts, 0 for an empty slice. The input is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// MedianInts is Median over integer minutes, truncated back to whole
// minutes.
func MedianInts(values []int) int {
	floats := make([]float64, len(values))
	for i, v := range values {
		floats[i] = float64(v)
	}
	return int(Median(floats))
}

// Analyze computes the historical poop pattern from an event log. The
// day containing now is excluded; identical inputs always produce
// identical output.
func Analyze(events []event.Event, now time.Time) Pattern {
	var poops []event.Event
	for _, e := range events {
		if e.Type == event.TypePoop && !event.SameDay(e.Time, now) && e.Time.Before(now) {
			poops = append(poops, e)
		}
	}
	if len(poops) == 0 {
		return Pattern{}
	}
	event.SortChronological(poops)

	byDay := event.GroupByDay(poops)
	counts := make([]float64, 0, len(byDay))
	for _, dayEvents := range byDay {
		counts = append(counts, float64(len(dayEvents)))
	}

	return Pattern{
		MedianDailyCount: Median(counts),
		MedianGapMinutes: MedianInts(daygap.Gaps(poops)),
		PostWalkPoopRate: postWalkPoopRate(events, poops, now),
		DaysAnalyzed:     len(byDay),
	}
}

// postWalkPoopRate is the fraction of historical walks during which a
// poop was logged (poop timestamp within [walkStart, walkEnd]).
func postWalkPoopRate(events, poops []event.Event, now time.Time) float64 {
	var walks []event.Event
	for _, e := range events {
		if e.Type == event.TypeWalk && !event.SameDay(e.Time, now) && e.Time.Before(now) {
			walks = append(walks, e)
		}
	}
	if len(walks) == 0 {
		return 0
	}
	matched := 0
	for _, walk := range walks {
		end := walk.End()
		for _, p := range poops {
			if !p.Time.Before(walk.Time) && !p.Time.After(end) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(walks))
}
