package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"JournalFeed/internal/ports"
)

// Journal names a feed to regenerate on every tick.
type Journal struct {
	ID       string
	SortType string
}

// Scheduler wires the cron-like driver with the pipeline use case.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	journals []Journal
	writer   ports.FeedWriter
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring feed generation.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, journals []Journal, writer ports.FeedWriter, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		driver:   driver,
		pipeline: pipeline,
		journals: journals,
		writer:   writer,
		logger:   logger,
	}
}

// Start registers the refresh job with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		s.RefreshAll(ctx, trigger)
	}

	return s.driver.Start(ctx, job)
}

// RefreshAll regenerates every journal once. A failing journal does not stop the others.
func (s *Scheduler) RefreshAll(ctx context.Context, trigger time.Time) {
	for _, journal := range s.journals {
		if ctx.Err() != nil {
			return
		}
		if err := s.refresh(ctx, journal); err != nil {
			s.log(slog.LevelError, "refresh failed", "journal", journal.ID, "trigger", trigger, "error", err)
			continue
		}
		s.log(slog.LevelInfo, "feed refreshed", "journal", journal.ID, "trigger", trigger)
	}
}

func (s *Scheduler) refresh(ctx context.Context, journal Journal) error {
	feed, err := s.pipeline.Run(ctx, journal.ID, journal.SortType)
	var partial *PartialError
	if err != nil && !errors.As(err, &partial) {
		return err
	}
	if partial != nil {
		s.log(slog.LevelWarn, "feed refreshed with unenriched articles", "journal", journal.ID, "failed", len(partial.Failures))
	}

	if s.writer == nil {
		return nil
	}
	return s.writer.WriteFeed(ctx, journal.ID, feed)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}

func (s *Scheduler) log(level slog.Level, msg string, args ...any) {
	if s.logger != nil {
		s.logger.Log(context.Background(), level, msg, args...)
	}
}
