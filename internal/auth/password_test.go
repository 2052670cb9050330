// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$") {
		t.Errorf("unexpected hash format: %s", hash)
	}

	other, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == other {
		t.Error("two hashes of the same password should use different salts")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	tests := []struct {
		password string
		want     bool
	}{
		{"changeme", true},
		{"wrongpassword", false},
		{"", false},
		{"Changeme", false},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			got, err := CheckPassword(tt.password, hash)
			if err != nil {
				t.Fatalf("CheckPassword error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CheckPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	for _, hash := range []string{"", "plain", "$bcrypt$x$y$z$w", "$argon2id$v=19$bad$salt$hash"} {
		if _, err := CheckPassword("x", hash); !errors.Is(err, ErrInvalidHash) {
			t.Errorf("CheckPassword with %q: err = %v, want ErrInvalidHash", hash, err)
		}
	}
}

func TestSessionToken(t *testing.T) {
	a, err := NewSessionToken()
	if err != nil {
		t.Fatalf("NewSessionToken error: %v", err)
	}
	b, _ := NewSessionToken()
	if a == b {
		t.Error("tokens should be unique")
	}
	if len(a) < 40 {
		t.Errorf("token too short: %d", len(a))
	}
	if HashToken(a) != HashToken(a) {
		t.Error("HashToken must be deterministic")
	}
	if len(HashToken(a)) != 64 {
		t.Errorf("HashToken length = %d, want 64", len(HashToken(a)))
	}
}
