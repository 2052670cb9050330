// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
)

type fakeReconciler struct {
	calls     atomic.Int32
	rewritten int
	err       error
}

func (f *fakeReconciler) ReconcileMirrors(ctx context.Context) (int, error) {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("expected a deadline")
	}
	return f.rewritten, f.err
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestNew(t *testing.T) {
	logger := slog.Default()

	s := New(&fakeReconciler{}, "", logger)
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}
	if s.schedule != DefaultSchedule {
		t.Errorf("schedule = %q, want %q", s.schedule, DefaultSchedule)
	}
	if s.logger != logger {
		t.Error("New() scheduler has wrong logger")
	}
}

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr bool
	}{
		{"@every 5m", false},
		{"@hourly", false},
		{"*/10 * * * *", false},
		{"0 3 * * 1", false},
		{"", true},
		{"every five minutes", true},
		{"* * * *", true},
		{"61 * * * *", true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			err := ValidateSchedule(tt.expr)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSchedule(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
		})
	}
}

func TestScheduler_StartStop(t *testing.T) {
	logger, _ := bufferLogger()
	s := New(&fakeReconciler{}, "@every 1h", logger)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := len(s.cron.Entries()); got != 1 {
		t.Errorf("entries = %d, want 1", got)
	}
	s.Stop()
}

func TestScheduler_StartRejectsBadSchedule(t *testing.T) {
	logger, _ := bufferLogger()
	s := New(&fakeReconciler{}, "not a schedule", logger)

	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("Start() should reject an invalid schedule")
	}
}

func TestScheduler_RunOnce(t *testing.T) {
	tests := []struct {
		name      string
		rewritten int
		err       error
		wantLog   string
	}{
		{"in sync", 0, nil, ""},
		{"drift", 2, nil, "content mirrors drifted"},
		{"failure", 1, errors.New("disk full"), "mirror reconciliation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := bufferLogger()
			r := &fakeReconciler{rewritten: tt.rewritten, err: tt.err}
			s := New(r, "", logger)

			s.runOnce()

			if r.calls.Load() != 1 {
				t.Errorf("calls = %d, want 1", r.calls.Load())
			}
			out := buf.String()
			if tt.wantLog == "" && out != "" {
				t.Errorf("unexpected log output: %s", out)
			}
			if tt.wantLog != "" && !strings.Contains(out, tt.wantLog) {
				t.Errorf("log = %q, want it to contain %q", out, tt.wantLog)
			}
		})
	}
}
