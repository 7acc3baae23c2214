// Package urgency turns today's counts, the historical pattern and
// time-of-day rules into a discrete urgency level, plus predictive
// "minutes until next expected event" estimates for potty breaks,
// walks and naps.
package urgency

import (
	"fmt"
	"time"

	"github.com/jaapstronks/ollie-app-sub007/pkg/pattern"
	"github.com/jaapstronks/ollie-app-sub007/pkg/sleepstate"
)

// Level is the severity tag for how overdue the next expected potty
// event is. Hidden suppresses display entirely during night hours.
type Level int

const (
	Hidden Level = iota
	Good
	Info
	Gentle
	Attention
)

func (l Level) String() string {
	switch l {
	case Hidden:
		return "hidden"
	case Good:
		return "good"
	case Info:
		return "info"
	case Gentle:
		return "gentle"
	case Attention:
		return "attention"
	}
	return "unknown"
}

// Tunable policy constants. The multipliers scale the historical
// median gap; the ceiling applies when no pattern exists yet.
const (
	// GentleGapMultiplier of the median gap triggers a soft nudge.
	GentleGapMultiplier = 1.5
	// AttentionGapMultiplier of the median gap means notably overdue.
	AttentionGapMultiplier = 2.0
	// AbsoluteGapCeilingMinutes is the no-pattern fallback: 8 daytime
	// hours without a poop warrants attention on its own.
	AbsoluteGapCeilingMinutes = 480

	earlyMorningHour = 9
	midMorningHour   = 10
	eveningHour      = 18

	// NightStartHour..NightEndHour is the display-suppression window.
	NightStartHour = 23
	NightEndHour   = 6
)

// Range is a closed integer interval of expected daily counts.
type Range struct {
	Low  int
	High int
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Low, r.High)
}

// Input carries everything Determine needs. GapKnown is false when no
// poop has been logged yet (no gap to measure).
type Input struct {
	TodayCount            int
	Expected              Range
	GapMinutes            int
	GapKnown              bool
	Pattern               pattern.Pattern
	RecentWalkWithoutPoop bool
	Hour                  int
}

// Determine evaluates the urgency rules in order; the first match
// wins. It never returns Hidden: the night-window override is the
// caller's concern so notification timing can still see the real
// level.
func Determine(in Input) (Level, string) {
	if in.Hour < earlyMorningHour && in.TodayCount == 0 {
		return Info, "No poop yet — still early in the day."
	}
	if in.RecentWalkWithoutPoop && in.TodayCount < in.Expected.Low {
		return Gentle, "Walk finished without a poop — keep an eye out."
	}
	if in.GapKnown && !in.Pattern.Empty() && in.Pattern.MedianGapMinutes > 0 {
		median := float64(in.Pattern.MedianGapMinutes)
		if float64(in.GapMinutes) >= median*AttentionGapMultiplier {
			return Attention, "It's been longer than usual since the last poop."
		}
		if float64(in.GapMinutes) >= median*GentleGapMultiplier {
			return Gentle, ""
		}
	} else if in.GapKnown && in.GapMinutes >= AbsoluteGapCeilingMinutes {
		return Attention, "It's been a long time since the last poop."
	}
	if in.Hour >= eveningHour && in.TodayCount < in.Expected.Low {
		return Info, "Below the expected count for today."
	}
	if in.TodayCount == 0 && in.Hour >= midMorningHour {
		return Info, "No poop logged yet today."
	}
	return Good, ""
}

// IsNightHour reports whether displayed urgency should be suppressed
// for a local hour-of-day.
func IsNightHour(hour int) bool {
	return hour >= NightStartHour || hour < NightEndHour
}

// Status is the derived poop status handed to the UI, widgets and the
// watch. It is a value; compare with Equal to detect changes.
type Status struct {
	TodayCount            int
	Expected              Range
	LastPoop              time.Time // zero when none today
	GapMinutes            int
	GapKnown              bool
	RecentWalkWithoutPoop bool
	Urgency               Level
	Message               string
	HasPatternData        bool
	PatternDailyMedian    float64
}

// Equal reports whether two statuses are interchangeable for display
// and notification purposes.
func (s Status) Equal(other Status) bool {
	return s.TodayCount == other.TodayCount &&
		s.Expected == other.Expected &&
		s.LastPoop.Equal(other.LastPoop) &&
		s.GapMinutes == other.GapMinutes &&
		s.GapKnown == other.GapKnown &&
		s.RecentWalkWithoutPoop == other.RecentWalkWithoutPoop &&
		s.Urgency == other.Urgency &&
		s.Message == other.Message &&
		s.HasPatternData == other.HasPatternData &&
		s.PatternDailyMedian == other.PatternDailyMedian
}

// MinutesUntilNextPoop predicts how many minutes remain until the next
// expected poop: the historical median gap minus the current daytime
// gap. Negative values mean overdue. ok is false without a pattern or
// a measured gap.
func MinutesUntilNextPoop(p pattern.Pattern, gapMinutes int, gapKnown bool) (int, bool) {
	if p.Empty() || p.MedianGapMinutes <= 0 || !gapKnown {
		return 0, false
	}
	return p.MedianGapMinutes - gapMinutes, true
}

// MinutesUntilNap predicts minutes until the puppy will likely need a
// nap, from the configured awake threshold and the current sleep
// state. ok is false unless the puppy is currently awake.
func MinutesUntilNap(state sleepstate.State, awakeThresholdMinutes int) (int, bool) {
	if state.Kind != sleepstate.Awake || awakeThresholdMinutes <= 0 {
		return 0, false
	}
	return awakeThresholdMinutes - state.AwakeMinutes, true
}
