package syncer

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jaapstronks/ollie-app-sub007/pkg/event"
	"github.com/jaapstronks/ollie-app-sub007/pkg/sleepstate"
	"github.com/jaapstronks/ollie-app-sub007/pkg/urgency"
)

func TestEncodeDecodeStatus(t *testing.T) {
	lastPoop := time.Date(2026, 8, 30, 9, 0, 0, 0, time.Local)
	st := urgency.Status{
		TodayCount: 2,
		Expected:   urgency.Range{Low: 2, High: 4},
		LastPoop:   lastPoop,
		GapMinutes: 90,
		GapKnown:   true,
		Urgency:    urgency.Gentle,
		Message:    "nudge",
	}
	sleep := sleepstate.State{
		Kind:         sleepstate.Awake,
		Since:        lastPoop,
		AwakeMinutes: 45,
	}

	snap, err := DecodeStatus(EncodeStatus(st, sleep))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.TodayCount != 2 || snap.ExpectedLow != 2 || snap.ExpectedHigh != 4 {
		t.Errorf("counts lost: %+v", snap)
	}
	if !snap.LastPoop.Equal(lastPoop) {
		t.Errorf("LastPoop = %v, want %v", snap.LastPoop, lastPoop)
	}
	if !snap.GapKnown || snap.GapMinutes != 90 {
		t.Errorf("gap lost: %+v", snap)
	}
	if snap.Urgency != "gentle" || snap.Message != "nudge" {
		t.Errorf("urgency lost: %+v", snap)
	}
	if snap.IsSleeping {
		t.Error("awake state encoded as sleeping")
	}
	if snap.AwakeMinutes != 45 {
		t.Errorf("AwakeMinutes = %d, want 45", snap.AwakeMinutes)
	}
}

func TestEncodeStatusOmitsAbsentValues(t *testing.T) {
	p := EncodeStatus(urgency.Status{}, sleepstate.State{Kind: sleepstate.Unknown})
	if _, ok := p["last_poop"]; ok {
		t.Error("zero last poop must be omitted")
	}
	if _, ok := p["gap_minutes"]; ok {
		t.Error("unknown gap must be omitted")
	}
	snap, err := DecodeStatus(p)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.GapKnown || !snap.LastPoop.IsZero() {
		t.Errorf("absent values decoded as present: %+v", snap)
	}
}

func TestDecodeStatusBadValue(t *testing.T) {
	if _, err := DecodeStatus(Payload{"today_count": "many"}); err == nil {
		t.Error("expected error for non-numeric count")
	}
}

func TestClientPushAndFetch(t *testing.T) {
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.Local)
	events := []event.Event{
		{ID: "a", Type: event.TypePoop, Time: day.Add(9 * time.Hour)},
	}

	var stored []event.Event
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			if err := json.NewDecoder(r.Body).Decode(&stored); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			json.NewEncoder(w).Encode(stored)
		}
	}))
	defer server.Close()

	c := NewClient(server.URL, slog.Default())
	if err := c.PushDay(context.Background(), day, events); err != nil {
		t.Fatalf("push: %v", err)
	}
	got, err := c.FetchDay(context.Background(), day)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("round trip lost events: %v", got)
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	c := NewClient(server.URL, slog.Default())
	if _, err := c.FetchDay(context.Background(), time.Now()); err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer server.Close()

	c := NewClient(server.URL, slog.Default())
	if _, err := c.FetchDay(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("client errors must not be retried, got %d attempts", calls.Load())
	}
}
