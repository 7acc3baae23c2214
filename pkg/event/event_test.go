package event

import (
	"testing"
	"time"
)

func ts(hour, minute int) time.Time {
	return time.Date(2026, 8, 29, hour, minute, 0, 0, time.Local)
}

func TestEndUsesExplicitEndTime(t *testing.T) {
	e := Event{Time: ts(9, 0), EndTime: ts(9, 45), Type: TypeWalk}
	if !e.End().Equal(ts(9, 45)) {
		t.Errorf("expected explicit end time, got %v", e.End())
	}
}

func TestEndDefaultsWalkDuration(t *testing.T) {
	e := Event{Time: ts(9, 0), Type: TypeWalk}
	if !e.End().Equal(ts(9, 30)) {
		t.Errorf("expected 30 minute default walk, got %v", e.End())
	}
}

func TestEndWithDuration(t *testing.T) {
	e := Event{Time: ts(9, 0), Type: TypeWalk, DurationMinutes: 20}
	if !e.End().Equal(ts(9, 20)) {
		t.Errorf("expected 20 minute walk end, got %v", e.End())
	}
}

func TestSortOrders(t *testing.T) {
	events := []Event{
		{ID: "b", Time: ts(12, 0)},
		{ID: "a", Time: ts(8, 0)},
		{ID: "c", Time: ts(18, 0)},
	}
	SortChronological(events)
	if events[0].ID != "a" || events[2].ID != "c" {
		t.Errorf("chronological sort wrong: %v", events)
	}
	SortReverseChronological(events)
	if events[0].ID != "c" || events[2].ID != "a" {
		t.Errorf("reverse sort wrong: %v", events)
	}
}

func TestDedupeDropsTrueDuplicates(t *testing.T) {
	e := Event{ID: "x", Time: ts(10, 0), Type: TypePoop}
	out := Dedupe([]Event{e, e})
	if len(out) != 1 {
		t.Fatalf("expected 1 event, got %d", len(out))
	}
}

func TestDedupeRepairsCollisions(t *testing.T) {
	a := Event{ID: "x", Time: ts(10, 0), Type: TypePoop}
	b := Event{ID: "x", Time: ts(14, 0), Type: TypeWalk}
	out := Dedupe([]Event{a, b})
	if len(out) != 2 {
		t.Fatalf("expected 2 events, got %d", len(out))
	}
	if out[1].ID == "x" {
		t.Error("colliding event should have been reassigned a fresh ID")
	}
}

func TestMergeLastWriterWins(t *testing.T) {
	local := []Event{
		{ID: "a", Time: ts(8, 0), Type: TypePee},
		{ID: "b", Time: ts(9, 0), Type: TypePoop, Note: "stale"},
	}
	snapshot := []Event{
		{ID: "b", Time: ts(9, 30), Type: TypePoop, Note: "fresh"},
		{ID: "c", Time: ts(7, 0), Type: TypeMeal},
	}
	merged := Merge(local, snapshot)
	if len(merged) != 3 {
		t.Fatalf("expected 3 events, got %d", len(merged))
	}
	// Newest first.
	if merged[0].ID != "b" || merged[0].Note != "fresh" {
		t.Errorf("expected fresh b first, got %+v", merged[0])
	}
	if merged[2].ID != "c" {
		t.Errorf("expected c last, got %+v", merged[2])
	}
}

func TestMergePrefersNewerLocal(t *testing.T) {
	local := []Event{{ID: "b", Time: ts(10, 0), Type: TypePoop, Note: "newer"}}
	snapshot := []Event{{ID: "b", Time: ts(9, 0), Type: TypePoop, Note: "older"}}
	merged := Merge(local, snapshot)
	if len(merged) != 1 || merged[0].Note != "newer" {
		t.Errorf("expected newer local record to win, got %+v", merged)
	}
}

func TestGroupByDay(t *testing.T) {
	events := []Event{
		{ID: "a", Time: ts(8, 0)},
		{ID: "b", Time: ts(20, 0)},
		{ID: "c", Time: ts(8, 0).AddDate(0, 0, 1)},
	}
	byDay := GroupByDay(events)
	if len(byDay) != 2 {
		t.Fatalf("expected 2 days, got %d", len(byDay))
	}
	if len(byDay[DayKey(ts(8, 0))]) != 2 {
		t.Errorf("expected 2 events on first day")
	}
}

func TestSameDayAcrossMidnight(t *testing.T) {
	before := time.Date(2026, 8, 29, 23, 50, 0, 0, time.Local)
	after := time.Date(2026, 8, 30, 0, 10, 0, 0, time.Local)
	if SameDay(before, after) {
		t.Error("events across midnight must not share a day")
	}
}
