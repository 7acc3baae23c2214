package notify

import (
	"fmt"
	"time"

	"github.com/jaapstronks/ollie-app-sub007/pkg/daygap"
	"github.com/jaapstronks/ollie-app-sub007/pkg/event"
	"github.com/jaapstronks/ollie-app-sub007/pkg/pattern"
	"github.com/jaapstronks/ollie-app-sub007/pkg/profile"
	"github.com/jaapstronks/ollie-app-sub007/pkg/sleepstate"
	"github.com/jaapstronks/ollie-app-sub007/pkg/urgency"
)

const (
	// mealSkipWindowMinutes: a meal logged within this window of the
	// target counts as that meal, so no reminder.
	mealSkipWindowMinutes = 30

	// pottyImmediateFloorMinutes: a potty reminder more overdue than
	// this is confusing rather than helpful and is dropped.
	pottyImmediateFloorMinutes = -10

	// walkImmediateFloorMinutes: walks tolerate a wider overdue window
	// before the reminder is dropped.
	walkImmediateFloorMinutes = -30

	// appointmentHorizonDays limits one-shot appointment reminders to
	// the coming week.
	appointmentHorizonDays = 7

	// Potty message tiers by how far past the lead-adjusted moment we
	// are when firing immediately.
	pottySoonFloorMinutes      = -3
	pottyAttentionFloorMinutes = -7

	// immediateDelay keeps "fire now" instructions marginally in the
	// future so the dispatcher accepts them.
	immediateDelay = time.Second
)

// PlanMeals emits one reminder per configured meal still ahead today,
// skipping targets already satisfied by a logged meal within ±30
// minutes. The configured offset shifts the fire time before the
// target; a negative offset fires after it with overdue framing.
func PlanMeals(events []event.Event, prof profile.Profile, now time.Time) []Request {
	if !prof.Notify.Meal.Enabled {
		return nil
	}
	var reqs []Request
	for _, meal := range prof.Meals {
		target, err := meal.At(now)
		if err != nil {
			continue
		}
		if !target.After(now) {
			continue // target already passed today
		}
		if mealLoggedNear(events, target) {
			continue
		}
		offset := time.Duration(prof.Notify.Meal.OffsetMinutes) * time.Minute
		fireAt := target.Add(-offset)
		if !fireAt.After(now) {
			fireAt = now.Add(immediateDelay)
		}
		body := fmt.Sprintf("%s is coming up at %s.", meal.Label, target.Format("15:04"))
		if prof.Notify.Meal.OffsetMinutes < 0 {
			body = fmt.Sprintf("%s was due at %s.", meal.Label, target.Format("15:04"))
		}
		reqs = append(reqs, Request{
			ID:     fmt.Sprintf("meal-%s", meal.TimeOfDay),
			FireAt: fireAt,
			Title:  "Meal time",
			Body:   body,
		})
	}
	return reqs
}

func mealLoggedNear(events []event.Event, target time.Time) bool {
	window := mealSkipWindowMinutes * time.Minute
	for _, e := range events {
		if e.Type != event.TypeMeal {
			continue
		}
		diff := e.Time.Sub(target)
		if diff >= -window && diff <= window {
			return true
		}
	}
	return false
}

// PlanNap reminds once the awake duration reaches the configured
// threshold. Only meaningful while the puppy is awake.
func PlanNap(events []event.Event, prof profile.Profile, now time.Time) []Request {
	if !prof.Notify.Nap.Enabled {
		return nil
	}
	state := sleepstate.Current(events, now)
	remaining, ok := urgency.MinutesUntilNap(state, prof.Notify.Nap.AwakeThresholdMinutes)
	if !ok {
		return nil
	}
	fireAt := now.Add(time.Duration(remaining) * time.Minute)
	body := "Time to wind down for a nap."
	if remaining <= 0 {
		fireAt = now.Add(immediateDelay)
		body = fmt.Sprintf("Awake for %d minutes — nap time.", state.AwakeMinutes)
	}
	return []Request{{
		ID:     "nap-awake",
		FireAt: fireAt,
		Title:  "Nap reminder",
		Body:   body,
	}}
}

// PlanPotty derives the next potty reminder from the prediction
// engine, minus the configured lead time. Slightly-overdue reminders
// fire immediately with tiered wording; anything more than 10 minutes
// past is dropped.
func PlanPotty(events []event.Event, prof profile.Profile, now time.Time) []Request {
	if !prof.Notify.Potty.Enabled {
		return nil
	}
	hist := pattern.Analyze(events, now)
	lastPoop := lastOfTypeToday(events, event.TypePoop, now)
	gap, gapKnown := 0, false
	if !lastPoop.IsZero() {
		gap, gapKnown = daygap.Minutes(lastPoop, now)
	}
	minutesUntil, ok := urgency.MinutesUntilNextPoop(hist, gap, gapKnown)
	if !ok {
		return nil
	}
	adjusted := minutesUntil - prof.Notify.Potty.LeadMinutes
	req := Request{ID: "potty-next", Title: "Potty break"}
	switch {
	case adjusted > 0:
		req.FireAt = now.Add(time.Duration(adjusted) * time.Minute)
		req.Body = "A potty break is coming up soon."
	case adjusted >= pottySoonFloorMinutes:
		req.FireAt = now.Add(immediateDelay)
		req.Body = "Potty break time — head outside soon."
	case adjusted >= pottyAttentionFloorMinutes:
		req.FireAt = now.Add(immediateDelay)
		req.Body = "Potty break due — time to go outside."
	case adjusted >= pottyImmediateFloorMinutes:
		req.FireAt = now.Add(immediateDelay)
		req.Body = "Potty break overdue — out now!"
	default:
		return nil // window has meaningfully passed
	}
	return []Request{req}
}

// PlanWalk mirrors the potty split on the walk suggestion, tolerating
// up to 30 minutes of overdue before dropping the reminder.
func PlanWalk(events []event.Event, prof profile.Profile, now time.Time) []Request {
	if !prof.Notify.Walk.Enabled {
		return nil
	}
	suggestion := urgency.SuggestWalk(events, prof.WalksPerDay, now)
	if suggestion.WalksCompletedToday >= suggestion.TargetWalksPerDay {
		return nil
	}
	adjusted := suggestion.MinutesUntilSuggested - prof.Notify.Walk.LeadMinutes
	req := Request{ID: "walk-next", Title: "Walk reminder"}
	switch {
	case adjusted > 0:
		req.FireAt = now.Add(time.Duration(adjusted) * time.Minute)
		req.Body = fmt.Sprintf("%s coming up at %s.", suggestion.Label, suggestion.SuggestedTime.Format("15:04"))
	case adjusted >= walkImmediateFloorMinutes:
		req.FireAt = now.Add(immediateDelay)
		req.Body = fmt.Sprintf("%s is due — grab the leash.", suggestion.Label)
	default:
		return nil
	}
	return []Request{req}
}

// PlanAppointments emits one-shot reminders for upcoming appointments
// within the next week that have a lead time and are not completed.
func PlanAppointments(events []event.Event, prof profile.Profile, now time.Time) []Request {
	if !prof.Notify.Appointment.Enabled || prof.Notify.Appointment.LeadMinutes == 0 {
		return nil
	}
	horizon := now.AddDate(0, 0, appointmentHorizonDays)
	lead := time.Duration(prof.Notify.Appointment.LeadMinutes) * time.Minute
	var reqs []Request
	for _, e := range events {
		if e.Type != event.TypeAppointment || e.Completed {
			continue
		}
		if !e.Time.After(now) || e.Time.After(horizon) {
			continue
		}
		fireAt := e.Time.Add(-lead)
		if !fireAt.After(now) {
			continue // reminder moment already passed
		}
		label := e.Note
		if label == "" {
			label = "Appointment"
		}
		reqs = append(reqs, Request{
			ID:     fmt.Sprintf("appt-%s", e.ID),
			FireAt: fireAt,
			Title:  "Upcoming appointment",
			Body:   fmt.Sprintf("%s at %s.", label, e.Time.Format("Mon 15:04")),
		})
	}
	return reqs
}

func lastOfTypeToday(events []event.Event, t event.Type, now time.Time) time.Time {
	var last time.Time
	for _, e := range events {
		if e.Type == t && event.SameDay(e.Time, now) && !e.Time.After(now) && e.Time.After(last) {
			last = e.Time
		}
	}
	return last
}
