// Package main implements the ollie CLI: log puppy events, view the
// day's timeline and derived status, and push a day to the companion
// sync daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jaapstronks/ollie-app-sub007/pkg/event"
	"github.com/jaapstronks/ollie-app-sub007/pkg/eventlog"
	"github.com/jaapstronks/ollie-app-sub007/pkg/profile"
	"github.com/jaapstronks/ollie-app-sub007/pkg/status"
	"github.com/jaapstronks/ollie-app-sub007/pkg/syncer"
	"github.com/jaapstronks/ollie-app-sub007/pkg/timeline"
)

var (
	dataDir  = flag.String("data-dir", "", "Data directory (or set OLLIE_DATA_DIR)")
	syncURL  = flag.String("sync-url", "", "Companion sync daemon URL (or set OLLIE_SYNC_URL)")
	verbose  = flag.Bool("verbose", false, "Enable verbose logging")
	version  = flag.Bool("version", false, "Show version")
	atFlag   = flag.String("at", "", "Event time as HH:MM (default now)")
	duration = flag.Int("duration", 0, "Event duration in minutes")
	spot     = flag.String("spot", "", "Named spot for the event")
	note     = flag.String("note", "", "Free-text note")
	outdoor  = flag.Bool("outdoor", false, "Mark a potty event as outdoor")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("ollie v1.3.0")
		return
	}

	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *dataDir == "" {
		*dataDir = os.Getenv("OLLIE_DATA_DIR")
	}
	if *dataDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			logger.Error("no data directory available", "error", err)
			os.Exit(1)
		}
		*dataDir = filepath.Join(configDir, "ollie")
	}
	if *syncURL == "" {
		*syncURL = os.Getenv("OLLIE_SYNC_URL")
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <log|status|day|push> [args]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	store, err := eventlog.Open(filepath.Join(*dataDir, "events"), logger)
	if err != nil {
		logger.Error("opening event log failed", "error", err)
		os.Exit(1)
	}
	profilePath := filepath.Join(*dataDir, "profile.json")

	var runErr error
	switch args[0] {
	case "log":
		runErr = runLog(store, args[1:])
	case "status":
		runErr = runStatus(store, profilePath, logger)
	case "day":
		runErr = runDay(store, args[1:])
	case "push":
		runErr = runPush(store, logger)
	default:
		runErr = fmt.Errorf("unknown command %q", args[0])
	}
	if runErr != nil {
		logger.Error("command failed", "command", args[0], "error", runErr)
		os.Exit(1)
	}
}

func runLog(store *eventlog.Store, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: ollie log <pee|poop|meal|walk|sleep|wake>")
	}
	t := event.Type(args[0])
	switch t {
	case event.TypePee, event.TypePoop, event.TypeMeal, event.TypeWalk,
		event.TypeSleep, event.TypeWake, event.TypeMilestone, event.TypeAppointment:
	default:
		return fmt.Errorf("unknown event type %q", args[0])
	}

	at := time.Now()
	if *atFlag != "" {
		hour, minute, err := profile.ParseClock(*atFlag)
		if err != nil {
			return err
		}
		at = time.Date(at.Year(), at.Month(), at.Day(), hour, minute, 0, 0, at.Location())
	}

	e := event.New(t, at)
	e.DurationMinutes = *duration
	e.Spot = *spot
	e.Note = *note
	if *outdoor {
		e.Location = event.LocationOutdoor
	}
	if err := store.Append(e); err != nil {
		return err
	}
	fmt.Printf("Logged %s at %s\n", t, at.Format("15:04"))
	return nil
}

func runStatus(store *eventlog.Store, profilePath string, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	engine := status.New(store, fileProfile{path: profilePath}, status.WithLogger(logger))
	st, err := engine.PoopStatus(ctx)
	if err != nil {
		return err
	}
	sleep, err := engine.SleepState(ctx)
	if err != nil {
		return err
	}
	walk, err := engine.WalkSuggestion(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	events, err := store.Day(now)
	if err != nil {
		return err
	}
	fmt.Print(timeline.RenderDay(events, now))
	fmt.Print(timeline.RenderStatus(st, sleep, walk, now))
	return nil
}

func runDay(store *eventlog.Store, args []string) error {
	day := time.Now()
	if len(args) == 1 {
		parsed, err := time.ParseInLocation("2006-01-02", args[0], time.Local)
		if err != nil {
			return fmt.Errorf("invalid day %q: %w", args[0], err)
		}
		day = parsed
	}
	events, err := store.Day(day)
	if err != nil {
		return err
	}
	fmt.Print(timeline.RenderDay(events, day))
	return nil
}

func runPush(store *eventlog.Store, logger *slog.Logger) error {
	if *syncURL == "" {
		return fmt.Errorf("no sync URL configured (use -sync-url or OLLIE_SYNC_URL)")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	now := time.Now()
	events, err := store.Day(now)
	if err != nil {
		return err
	}
	client := syncer.NewClient(*syncURL, logger)
	if err := client.PushDay(ctx, now, events); err != nil {
		return err
	}
	fmt.Printf("Pushed %d events for %s\n", len(events), event.DayKey(now))
	return nil
}

// fileProfile loads the profile from disk on every query so edits take
// effect without restarting.
type fileProfile struct {
	path string
}

func (f fileProfile) Profile() (profile.Profile, error) {
	return profile.Load(f.path)
}
