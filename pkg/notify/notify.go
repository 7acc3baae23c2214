// Package notify computes when reminder notifications should fire and
// hands the instructions to an external dispatcher. Each activity
// category gets its own scheduler; a schedule call is an atomic
// cancel-then-issue so stale timers never coexist with fresh ones.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jaapstronks/ollie-app-sub007/pkg/event"
	"github.com/jaapstronks/ollie-app-sub007/pkg/profile"
)

// Category identifies an independent reminder stream.
type Category string

const (
	CategoryMeal        Category = "meal"
	CategoryWalk        Category = "walk"
	CategoryNap         Category = "nap"
	CategoryPotty       Category = "potty"
	CategoryAppointment Category = "appointment"
)

// Request is one computed notification instruction.
type Request struct {
	ID     string
	FireAt time.Time
	Title  string
	Body   string
}

// Dispatcher is the external notification system. Implementations are
// expected to be safe for concurrent use across categories.
type Dispatcher interface {
	Schedule(ctx context.Context, req Request) error
	Cancel(ctx context.Context, ids []string) error
}

// Planner computes a category's instructions from the event log and
// profile. Planners are pure; all side effects live in the scheduler.
type Planner func(events []event.Event, prof profile.Profile, now time.Time) []Request

// Scheduler serializes schedule/cancel for one category. Different
// categories are independent and may run concurrently.
type Scheduler struct {
	category   Category
	plan       Planner
	dispatcher Dispatcher
	logger     *slog.Logger
	now        func() time.Time

	mu      sync.Mutex
	pending []string
}

// NewScheduler builds a scheduler for one category.
func NewScheduler(category Category, plan Planner, dispatcher Dispatcher, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		category:   category,
		plan:       plan,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Schedule recomputes the category's instructions and replaces all
// previously issued ones. Dispatch failures are logged and swallowed;
// they never surface to the caller and never block other instructions.
// The returned slice is what was handed off successfully.
func (s *Scheduler) Schedule(ctx context.Context, events []event.Event, prof profile.Profile) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked(ctx)

	reqs := s.plan(events, prof, s.now())
	issued := make([]Request, 0, len(reqs))
	for _, req := range reqs {
		if err := s.dispatcher.Schedule(ctx, req); err != nil {
			s.logger.Warn("notification handoff failed",
				"category", s.category, "id", req.ID, "error", err)
			continue
		}
		s.pending = append(s.pending, req.ID)
		issued = append(issued, req)
	}
	return issued
}

// Cancel discards every instruction this scheduler previously issued.
func (s *Scheduler) Cancel(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(ctx)
}

func (s *Scheduler) cancelLocked(ctx context.Context) {
	if len(s.pending) == 0 {
		return
	}
	if err := s.dispatcher.Cancel(ctx, s.pending); err != nil {
		s.logger.Warn("notification cancel failed",
			"category", s.category, "error", err)
	}
	s.pending = nil
}

// Pending returns the IDs of currently issued instructions.
func (s *Scheduler) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.pending))
	copy(out, s.pending)
	return out
}

// Set bundles one scheduler per category, ready to wire to a
// dispatcher.
type Set struct {
	Meal        *Scheduler
	Walk        *Scheduler
	Nap         *Scheduler
	Potty       *Scheduler
	Appointment *Scheduler
}

// NewSet builds the standard five-category scheduler set.
func NewSet(dispatcher Dispatcher, logger *slog.Logger) *Set {
	return &Set{
		Meal:        NewScheduler(CategoryMeal, PlanMeals, dispatcher, logger),
		Walk:        NewScheduler(CategoryWalk, PlanWalk, dispatcher, logger),
		Nap:         NewScheduler(CategoryNap, PlanNap, dispatcher, logger),
		Potty:       NewScheduler(CategoryPotty, PlanPotty, dispatcher, logger),
		Appointment: NewScheduler(CategoryAppointment, PlanAppointments, dispatcher, logger),
	}
}

// ScheduleAll runs every category against the same snapshot.
// Categories are independent; one failing dispatcher never blocks the
// rest.
func (set *Set) ScheduleAll(ctx context.Context, events []event.Event, prof profile.Profile) {
	for _, s := range []*Scheduler{set.Meal, set.Walk, set.Nap, set.Potty, set.Appointment} {
		s.Schedule(ctx, events, prof)
	}
}
