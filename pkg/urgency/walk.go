package urgency

import (
	"fmt"
	"time"

	"github.com/jaapstronks/ollie-app-sub007/pkg/daygap"
	"github.com/jaapstronks/ollie-app-sub007/pkg/event"
	"github.com/jaapstronks/ollie-app-sub007/pkg/pattern"
)

const (
	// firstWalkHour anchors the day's first suggested walk when no
	// walk has been logged yet.
	firstWalkHour = 8

	// activeDayMinutes spans 06:00-23:00, the non-night portion of a
	// day; used to spread the walk target when no history exists.
	activeDayMinutes = 17 * 60

	defaultWalkTarget = 3
)

// WalkSuggestion is the derived "when should the next walk happen"
// value.
type WalkSuggestion struct {
	SuggestedTime         time.Time
	IsOverdue             bool
	MinutesUntilSuggested int
	WalksCompletedToday   int
	TargetWalksPerDay     int
	Label                 string
}

// SuggestWalk derives the next suggested walk time from the configured
// per-day target and the historical inter-walk interval. With no walk
// yet today the suggestion anchors at the morning hour; once the
// target is met the suggestion moves to tomorrow morning.
func SuggestWalk(events []event.Event, target int, now time.Time) WalkSuggestion {
	if target <= 0 {
		target = defaultWalkTarget
	}

	var todayWalks, pastWalks []event.Event
	for _, e := range events {
		if e.Type != event.TypeWalk || e.Time.After(now) {
			continue
		}
		if event.SameDay(e.Time, now) {
			todayWalks = append(todayWalks, e)
		} else {
			pastWalks = append(pastWalks, e)
		}
	}
	completed := len(todayWalks)

	suggestion := WalkSuggestion{
		WalksCompletedToday: completed,
		TargetWalksPerDay:   target,
	}

	if completed >= target {
		tomorrow := event.StartOfDay(now).AddDate(0, 0, 1).Add(firstWalkHour * time.Hour)
		suggestion.SuggestedTime = tomorrow
		suggestion.MinutesUntilSuggested = int(tomorrow.Sub(now).Minutes())
		suggestion.Label = fmt.Sprintf("All %d walks done for today", target)
		return suggestion
	}

	var suggested time.Time
	if completed == 0 {
		suggested = event.StartOfDay(now).Add(firstWalkHour * time.Hour)
	} else {
		var latest event.Event
		for _, w := range todayWalks {
			if w.Time.After(latest.Time) {
				latest = w
			}
		}
		suggested = latest.End().Add(time.Duration(walkInterval(pastWalks, target)) * time.Minute)
	}

	suggestion.SuggestedTime = suggested
	suggestion.MinutesUntilSuggested = int(suggested.Sub(now).Minutes())
	suggestion.IsOverdue = now.After(suggested)
	suggestion.Label = fmt.Sprintf("Walk %d of %d", completed+1, target)
	return suggestion
}

// walkInterval is the typical daytime minutes between walks: the
// historical median when available, otherwise the active day spread
// evenly across the target.
func walkInterval(pastWalks []event.Event, target int) int {
	event.SortChronological(pastWalks)
	if median := pattern.MedianInts(daygap.Gaps(pastWalks)); median > 0 {
		return median
	}
	return activeDayMinutes / target
}
