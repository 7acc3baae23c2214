// Package syncapi exposes the phone's event log and derived status to
// the companion device over HTTP: the watch pushes its locally logged
// events here and pulls the merged day plus the status payload back.
package syncapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/jaapstronks/ollie-app-sub007/pkg/event"
	"github.com/jaapstronks/ollie-app-sub007/pkg/status"
	"github.com/jaapstronks/ollie-app-sub007/pkg/syncer"
)

// EventStore is the slice of the event log the API needs.
type EventStore interface {
	Day(date time.Time) ([]event.Event, error)
	ReplaceDay(date time.Time, events []event.Event) error
}

// Server handles the sync endpoints.
type Server struct {
	store  EventStore
	engine *status.Engine
	logger *slog.Logger
}

// NewServer wires the API over a store and engine.
func NewServer(store EventStore, engine *status.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: store, engine: engine, logger: logger}
}

// Router builds the chi handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Route("/v1", func(r chi.Router) {
		r.Get("/events/{day}", s.handleGetDay)
		r.Post("/events/{day}", s.handlePushDay)
		r.Get("/status", s.handleStatus)
	})
	return r
}

func parseDay(r *http.Request) (time.Time, bool) {
	day, err := time.ParseInLocation("2006-01-02", chi.URLParam(r, "day"), time.Local)
	return day, err == nil
}

func (s *Server) handleGetDay(w http.ResponseWriter, r *http.Request) {
	day, ok := parseDay(r)
	if !ok {
		http.Error(w, "invalid day", http.StatusBadRequest)
		return
	}
	events, err := s.store.Day(day)
	if err != nil {
		s.logger.Error("reading day failed", "error", err)
		http.Error(w, "event log unavailable", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []event.Event{}
	}
	writeJSON(w, events)
}

// handlePushDay merges the pushed snapshot into the local day,
// last-writer-wins per event ID.
func (s *Server) handlePushDay(w http.ResponseWriter, r *http.Request) {
	day, ok := parseDay(r)
	if !ok {
		http.Error(w, "invalid day", http.StatusBadRequest)
		return
	}
	var pushed []event.Event
	if err := json.NewDecoder(r.Body).Decode(&pushed); err != nil {
		http.Error(w, "invalid event payload", http.StatusBadRequest)
		return
	}
	local, err := s.store.Day(day)
	if err != nil {
		s.logger.Error("reading day failed", "error", err)
		http.Error(w, "event log unavailable", http.StatusInternalServerError)
		return
	}
	merged := event.Merge(local, pushed)
	if err := s.store.ReplaceDay(day, merged); err != nil {
		s.logger.Error("replacing day failed", "error", err)
		http.Error(w, "event log unavailable", http.StatusInternalServerError)
		return
	}
	s.logger.Info("day merged",
		"day", event.DayKey(day), "pushed", len(pushed), "total", len(merged))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.engine.PoopStatus(r.Context())
	if err != nil {
		s.logger.Error("status computation failed", "error", err)
		http.Error(w, "status unavailable", http.StatusInternalServerError)
		return
	}
	sleep, err := s.engine.SleepState(r.Context())
	if err != nil {
		s.logger.Error("sleep state failed", "error", err)
		http.Error(w, "status unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, syncer.EncodeStatus(st, sleep))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
