// Package main runs the companion sync daemon: it serves the event
// log and derived status to the wrist device and recomputes reminder
// schedules whenever a pushed snapshot changes the day.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jaapstronks/ollie-app-sub007/pkg/eventlog"
	"github.com/jaapstronks/ollie-app-sub007/pkg/notify"
	"github.com/jaapstronks/ollie-app-sub007/pkg/profile"
	"github.com/jaapstronks/ollie-app-sub007/pkg/status"
	"github.com/jaapstronks/ollie-app-sub007/pkg/syncapi"
)

var (
	port     = flag.Int("port", 8787, "Listen port (or set PORT)")
	dataDir  = flag.String("data-dir", "", "Data directory (or set OLLIE_DATA_DIR)")
	interval = flag.Duration("reschedule-interval", 5*time.Minute, "How often reminder schedules are recomputed")
	verbose  = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
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
	if v := os.Getenv("PORT"); v != "" {
		fmt.Sscanf(v, "%d", port)
	}

	store, err := eventlog.Open(filepath.Join(*dataDir, "events"), logger)
	if err != nil {
		logger.Error("opening event log failed", "error", err)
		os.Exit(1)
	}
	profilePath := filepath.Join(*dataDir, "profile.json")
	profiles := fileProfile{path: profilePath}

	engine := status.New(store, profiles, status.WithLogger(logger))
	server := syncapi.NewServer(store, engine, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	schedulers := notify.NewSet(logDispatcher{logger: logger}, logger)
	go rescheduleLoop(ctx, schedulers, store, profiles, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      server.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("sync daemon listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("sync daemon stopped")
}

// rescheduleLoop periodically re-derives every category's reminder
// schedule from the current log and profile. Schedule is idempotent,
// so running it on a timer is safe.
func rescheduleLoop(ctx context.Context, schedulers *notify.Set, store *eventlog.Store, profiles fileProfile, logger *slog.Logger) {
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		now := time.Now()
		events, err := store.Range(now.AddDate(0, 0, -14), now.AddDate(0, 0, 7))
		if err != nil {
			logger.Warn("loading events for scheduling failed", "error", err)
		} else if prof, err := profiles.Profile(); err != nil {
			logger.Warn("loading profile for scheduling failed", "error", err)
		} else {
			schedulers.ScheduleAll(ctx, events, prof)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

type fileProfile struct {
	path string
}

func (f fileProfile) Profile() (profile.Profile, error) {
	return profile.Load(f.path)
}

// logDispatcher stands in for the platform notification system when
// the daemon runs headless; instructions are visible in the log.
type logDispatcher struct {
	logger *slog.Logger
}

func (d logDispatcher) Schedule(_ context.Context, req notify.Request) error {
	d.logger.Info("notification scheduled",
		"id", req.ID, "fire_at", req.FireAt.Format(time.RFC3339), "title", req.Title, "body", req.Body)
	return nil
}

func (d logDispatcher) Cancel(_ context.Context, ids []string) error {
	d.logger.Debug("notifications cancelled", "count", len(ids))
	return nil
}
