package profile

import (
	"path/filepath"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	hour, minute, err := ParseClock("08:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hour != 8 || minute != 30 {
		t.Errorf("got %d:%d, want 8:30", hour, minute)
	}
	if _, _, err := ParseClock("25:00"); err == nil {
		t.Error("expected error for 25:00")
	}
	if _, _, err := ParseClock("breakfast"); err == nil {
		t.Error("expected error for non-clock string")
	}
}

func TestMealTargetAt(t *testing.T) {
	day := time.Date(2026, 8, 30, 14, 45, 0, 0, time.Local)
	target := MealTarget{TimeOfDay: "18:00", Label: "Dinner"}
	at, err := target.At(day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 8, 30, 18, 0, 0, 0, time.Local)
	if !at.Equal(want) {
		t.Errorf("At = %v, want %v", at, want)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ExpectedPoopsLow != 2 || p.WalksPerDay != 3 {
		t.Errorf("expected defaults, got %+v", p)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ollie", "profile.json")
	p := Default()
	p.Name = "Ollie"
	p.Notify.Potty.LeadMinutes = 20
	if err := Save(path, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Name != "Ollie" || loaded.Notify.Potty.LeadMinutes != 20 {
		t.Errorf("round trip lost data: %+v", loaded)
	}
}
