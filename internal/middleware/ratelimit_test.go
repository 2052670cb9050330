// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	handler := rl.Middleware()(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}

	// Another client has its own bucket.
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("second client status = %d, want 200", rr.Code)
	}
}

func TestRateLimiter_OnlyListedMethods(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	handler := rl.Middleware(http.MethodPost)(http.HandlerFunc(okHandler))

	for range 3 {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("GET status = %d, want 200", rr.Code)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"192.168.1.1:1234", "192.168.1.1"},
		{"[::1]:80", "::1"},
		{"nohost", "nohost"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remote
		if got := ClientIP(req); got != tt.want {
			t.Errorf("ClientIP(%q) = %q, want %q", tt.remote, got, tt.want)
		}
	}
}

func TestLoginProtection_Lockout(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
	})
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	lp.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if locked, _ := lp.RecordFailedAttempt("Admin"); locked {
			t.Fatalf("locked after %d attempts", i+1)
		}
	}
	if got := lp.RemainingAttempts("admin"); got != 1 {
		t.Errorf("RemainingAttempts = %d, want 1", got)
	}

	locked, d := lp.RecordFailedAttempt(" admin ")
	if !locked || d != time.Minute {
		t.Fatalf("RecordFailedAttempt = %v, %v; want locked for 1m", locked, d)
	}
	if locked, _ := lp.IsAccountLocked("ADMIN"); !locked {
		t.Error("account should be locked")
	}

	// Second lockout doubles.
	now = now.Add(2 * time.Minute)
	if locked, _ := lp.IsAccountLocked("admin"); locked {
		t.Fatal("lock should have expired")
	}
	for i := 0; i < 2; i++ {
		lp.RecordFailedAttempt("admin")
	}
	if _, d := lp.RecordFailedAttempt("admin"); d != 2*time.Minute {
		t.Errorf("second lockout = %v, want 2m", d)
	}

	lp.RecordSuccessfulLogin("admin")
	if locked, _ := lp.IsAccountLocked("admin"); locked {
		t.Error("successful login should clear the lock")
	}
	if got := lp.RemainingAttempts("admin"); got != 3 {
		t.Errorf("RemainingAttempts after success = %d, want 3", got)
	}
}

func TestLoginProtection_WindowReset(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{MaxFailedAttempts: 2, AttemptWindow: time.Minute})
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	lp.now = func() time.Time { return now }

	lp.RecordFailedAttempt("u")
	now = now.Add(2 * time.Minute)
	if locked, _ := lp.RecordFailedAttempt("u"); locked {
		t.Error("attempts outside the window should not accumulate")
	}

	now = now.Add(10 * time.Minute)
	lp.cleanupStaleEntries()
	lp.attemptsMu.RLock()
	n := len(lp.failedAttempts)
	lp.attemptsMu.RUnlock()
	if n != 0 {
		t.Errorf("stale entries = %d, want 0", n)
	}
}
