// Package timeline renders a day of puppy events as a colored
// terminal view: one line per hour with event markers, plus the
// derived status summary.
package timeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/jaapstronks/ollie-app-sub007/pkg/event"
	"github.com/jaapstronks/ollie-app-sub007/pkg/sleepstate"
	"github.com/jaapstronks/ollie-app-sub007/pkg/urgency"
)

const separatorWidth = 50

// marker maps an event type to its timeline glyph and color.
func marker(t event.Type) (string, *color.Color) {
	switch t {
	case event.TypePee:
		return "o", color.New(color.FgYellow)
	case event.TypePoop:
		return "#", color.New(color.FgRed)
	case event.TypeMeal:
		return "M", color.New(color.FgGreen)
	case event.TypeWalk:
		return "W", color.New(color.FgCyan)
	case event.TypeSleep:
		return "z", color.New(color.FgBlue)
	case event.TypeWake:
		return "!", color.New(color.FgHiBlue)
	case event.TypeGapStart, event.TypeGapEnd:
		return "-", color.New(color.FgHiBlack)
	case event.TypeAppointment:
		return "A", color.New(color.FgMagenta)
	default:
		return "*", color.New(color.Reset)
	}
}

func urgencyColor(level urgency.Level) *color.Color {
	switch level {
	case urgency.Attention:
		return color.New(color.FgRed)
	case urgency.Gentle:
		return color.New(color.FgYellow)
	case urgency.Info:
		return color.New(color.FgCyan)
	case urgency.Good:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgHiBlack)
	}
}

// RenderDay draws the hour-by-hour view of a day's events.
func RenderDay(events []event.Event, day time.Time) string {
	var output strings.Builder
	output.WriteString(fmt.Sprintf("🐾 %s\n", day.Format("Monday, January 2")))
	output.WriteString(strings.Repeat("─", separatorWidth) + "\n")

	byHour := make(map[int][]event.Event)
	for _, e := range events {
		if event.SameDay(e.Time, day) {
			byHour[e.Time.Hour()] = append(byHour[e.Time.Hour()], e)
		}
	}
	if len(byHour) == 0 {
		output.WriteString("No events logged.\n")
		return output.String()
	}

	for hour := range 24 {
		hourEvents := byHour[hour]
		if len(hourEvents) == 0 {
			continue
		}
		event.SortChronological(hourEvents)
		line := fmt.Sprintf("%02d:00 ", hour)
		var notes []string
		for _, e := range hourEvents {
			glyph, c := marker(e.Type)
			line += c.Sprint(glyph)
			label := string(e.Type)
			if e.Spot != "" {
				label += "@" + e.Spot
			}
			notes = append(notes, fmt.Sprintf("%s %s", e.Time.Format("15:04"), label))
		}
		line += "  " + strings.Join(notes, ", ")
		output.WriteString(line + "\n")
	}
	return output.String()
}

// RenderStatus draws the derived status summary below the timeline.
func RenderStatus(st urgency.Status, sleep sleepstate.State, walk urgency.WalkSuggestion, now time.Time) string {
	var output strings.Builder
	output.WriteString(strings.Repeat("─", separatorWidth) + "\n")

	if st.Urgency == urgency.Hidden {
		output.WriteString(color.New(color.FgHiBlack).Sprint("Night mode — status hidden.") + "\n")
		return output.String()
	}

	line := fmt.Sprintf("Poops today: %d (expected %s)", st.TodayCount, st.Expected)
	if st.GapKnown {
		line += fmt.Sprintf(", %dm since last", st.GapMinutes)
	}
	output.WriteString(line + "\n")

	c := urgencyColor(st.Urgency)
	output.WriteString("Status: " + c.Sprint(st.Urgency.String()))
	if st.Message != "" {
		output.WriteString(" — " + st.Message)
	}
	output.WriteString("\n")

	if st.HasPatternData {
		output.WriteString(fmt.Sprintf("Pattern: %.1f/day median\n", st.PatternDailyMedian))
	}

	switch sleep.Kind {
	case sleepstate.Sleeping:
		output.WriteString(fmt.Sprintf("Sleeping since %s\n", sleep.Since.Format("15:04")))
	case sleepstate.Awake:
		output.WriteString(fmt.Sprintf("Awake for %dm\n", sleep.AwakeMinutes))
	}

	walkLine := fmt.Sprintf("%s: %s", walk.Label, walk.SuggestedTime.Format("15:04"))
	if walk.IsOverdue {
		walkLine += color.New(color.FgRed).Sprint(" (overdue)")
	}
	output.WriteString(walkLine + "\n")
	return output.String()
}
