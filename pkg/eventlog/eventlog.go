// Package eventlog stores events as append-only JSON lines, one file
// per local calendar day. Reads hand back a day sorted newest first
// and deduplicated, the order every calculator expects.
package eventlog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jaapstronks/ollie-app-sub007/pkg/event"
)

// Store is a directory of per-day event files. Safe for concurrent
// use.
type Store struct {
	dir    string
	logger *slog.Logger
	mu     sync.Mutex
}

// Open prepares a store rooted at dir, creating it if needed.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating event log directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) dayPath(t time.Time) string {
	return filepath.Join(s.dir, "events-"+event.DayKey(t)+".jsonl")
}

// Append writes one event to its day's file.
func (s *Store) Append(e event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding event %s: %w", e.ID, err)
	}
	f, err := os.OpenFile(s.dayPath(e.Time), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening day file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("appending event %s: %w", e.ID, err)
	}
	return nil
}

// Day returns the events of one local calendar day, newest first,
// deduplicated by ID. A day with no file is an empty day, not an
// error.
func (s *Store) Day(date time.Time) ([]event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readDayLocked(date)
}

func (s *Store) readDayLocked(date time.Time) ([]event.Event, error) {
	f, err := os.Open(s.dayPath(date))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening day file: %w", err)
	}
	defer f.Close()

	var events []event.Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e event.Event
		if err := json.Unmarshal(line, &e); err != nil {
			// A torn write should not take the whole day down.
			s.logger.Warn("skipping unreadable event record",
				"day", event.DayKey(date), "error", err)
			continue
		}
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading day file: %w", err)
	}
	events = event.Dedupe(events)
	event.SortReverseChronological(events)
	return events, nil
}

// Range returns all events with from <= day <= to, newest first.
func (s *Store) Range(from, to time.Time) ([]event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []event.Event
	for day := event.StartOfDay(from); !day.After(to); day = day.AddDate(0, 0, 1) {
		events, err := s.readDayLocked(day)
		if err != nil {
			return nil, err
		}
		all = append(all, events...)
	}
	event.SortReverseChronological(all)
	return all, nil
}

// Delete removes the event with the given ID from its day file by
// rewriting the file without it.
func (s *Store) Delete(date time.Time, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.readDayLocked(date)
	if err != nil {
		return err
	}
	kept := events[:0]
	removed := false
	for _, e := range events {
		if e.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		return nil
	}
	return s.rewriteDayLocked(date, kept)
}

func (s *Store) rewriteDayLocked(date time.Time, events []event.Event) error {
	path := s.dayPath(date)
	if len(events) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing empty day file: %w", err)
		}
		return nil
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("creating temp day file: %w", err)
	}
	w := bufio.NewWriter(f)
	// Files store oldest first, matching append order.
	for i := len(events) - 1; i >= 0; i-- {
		line, err := json.Marshal(events[i])
		if err != nil {
			f.Close()
			return fmt.Errorf("encoding event %s: %w", events[i].ID, err)
		}
		w.Write(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing day file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing day file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing day file: %w", err)
	}
	return nil
}

// ReplaceDay swaps a day's contents with merged events, used when a
// synced snapshot arrives from the companion device.
func (s *Store) ReplaceDay(date time.Time, events []event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	deduped := event.Dedupe(events)
	event.SortReverseChronological(deduped)
	return s.rewriteDayLocked(date, deduped)
}
