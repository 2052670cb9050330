// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic mirror reconciliation job.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/sitedesk/internal/model"
)

// DefaultSchedule is used when no schedule is configured.
const DefaultSchedule = "@every 5m"

// runTimeout bounds a single reconciliation run.
const runTimeout = 30 * time.Second

// Reconciler rewrites mirror files that drifted from the stored content.
type Reconciler interface {
	ReconcileMirrors(ctx context.Context) (int, error)
}

// Scheduler handles the mirror reconciliation job.
type Scheduler struct {
	reconciler Reconciler
	schedule   string
	cron       *cron.Cron
	logger     *slog.Logger
}

// New creates a new scheduler instance. An empty schedule falls back to DefaultSchedule.
func New(reconciler Reconciler, schedule string, logger *slog.Logger) *Scheduler {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &Scheduler{
		reconciler: reconciler,
		schedule:   schedule,
		cron:       cron.New(),
		logger:     logger,
	}
}

// ValidateSchedule reports whether expr is a standard five-field cron
// expression or a descriptor such as "@hourly" or "@every 5m".
func ValidateSchedule(expr string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}

// Start registers the reconciliation job and starts the cron runner.
func (s *Scheduler) Start() error {
	if err := ValidateSchedule(s.schedule); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.schedule, s.runOnce); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()), "schedule", s.schedule)
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// runOnce performs one reconciliation pass.
func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	n, err := s.reconciler.ReconcileMirrors(ctx)
	if err != nil {
		s.logger.Error("mirror reconciliation failed",
			"category", model.EventCategoryContent,
			"rewritten", n,
			"error", err,
		)
		return
	}
	if n > 0 {
		s.logger.Warn("content mirrors drifted and were rewritten",
			"category", model.EventCategoryContent,
			"rewritten", n,
		)
	}
}
