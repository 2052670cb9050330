// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"context"
	"log/slog"
	"time"

	"github.com/olegiv/sitedesk/internal/content"
	"github.com/olegiv/sitedesk/internal/model"
)

// Failure reasons reported to callers.
const (
	ReasonNotConfigured = "smtp_not_configured"
	ReasonSendFailed    = "mail_send_failed"
)

// Retry policy: attempt n waits n*RetryStep before attempt n+1.
const (
	MaxAttempts = 3
	RetryStep   = 250 * time.Millisecond
)

// DefaultAttemptTimeout bounds one delivery attempt.
const DefaultAttemptTimeout = 20 * time.Second

// Result is the outcome of a dispatch.
type Result struct {
	Sent   bool   `json:"sent"`
	Reason string `json:"reason,omitempty"`
}

// DocumentSource provides the current content document.
type DocumentSource interface {
	Get(ctx context.Context) (content.Document, time.Time, error)
}

// Dispatcher sends notifications with bounded retries. It reads SMTP
// settings from the content document on every call.
type Dispatcher struct {
	source         DocumentSource
	sender         Sender
	logger         *slog.Logger
	attemptTimeout time.Duration
	now            func() time.Time
	sleep          func(ctx context.Context, d time.Duration) error
}

// NewDispatcher creates a Dispatcher. A zero attemptTimeout uses DefaultAttemptTimeout.
func NewDispatcher(source DocumentSource, sender Sender, logger *slog.Logger, attemptTimeout time.Duration) *Dispatcher {
	if attemptTimeout <= 0 {
		attemptTimeout = DefaultAttemptTimeout
	}
	return &Dispatcher{
		source:         source,
		sender:         sender,
		logger:         logger,
		attemptTimeout: attemptTimeout,
		now:            time.Now,
		sleep:          sleepContext,
	}
}

// Send delivers n to the configured recipients. It never returns an error;
// failures are reported in Result.Reason.
func (d *Dispatcher) Send(ctx context.Context, n Notification) Result {
	doc, _, err := d.source.Get(ctx)
	if err != nil {
		d.logger.Error("loading mail settings failed", "category", model.EventCategoryMail, "error", err)
		return failure(err)
	}

	settings := SettingsFrom(doc)
	if !settings.Configured() {
		d.logger.Warn("mail not sent, smtp is not configured", "category", model.EventCategoryMail, "subject", n.Subject)
		return Result{Reason: ReasonNotConfigured}
	}

	msg, err := BuildMessage(settings, n, d.now())
	if err != nil {
		d.logger.Error("building mail failed", "category", model.EventCategoryMail, "error", err)
		return failure(err)
	}

	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, d.attemptTimeout)
		lastErr = d.sender.Send(attemptCtx, settings, msg)
		cancel()

		if lastErr == nil {
			d.logger.Info("mail sent", "subject", n.Subject, "recipients", len(settings.Recipients), "attempt", attempt)
			return Result{Sent: true}
		}

		d.logger.Info("mail attempt failed", "attempt", attempt, "error", lastErr)
		if attempt == MaxAttempts {
			break
		}
		if err := d.sleep(ctx, time.Duration(attempt)*RetryStep); err != nil {
			break
		}
	}

	d.logger.Warn("mail delivery failed",
		"category", model.EventCategoryMail,
		"subject", n.Subject,
		"host", settings.Host,
		"error", lastErr,
	)
	return failure(lastErr)
}

func failure(err error) Result {
	if err == nil || err.Error() == "" {
		return Result{Reason: ReasonSendFailed}
	}
	return Result{Reason: err.Error()}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
