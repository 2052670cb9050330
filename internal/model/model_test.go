// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestIsValidKind(t *testing.T) {
	tests := []struct {
		kind string
		want bool
	}{
		{KindCourse, true},
		{KindContact, true},
		{KindNewsletter, true},
		{"", false},
		{"Contact", false},
		{"feedback", false},
	}

	for _, tt := range tests {
		if got := IsValidKind(tt.kind); got != tt.want {
			t.Errorf("IsValidKind(%q) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range ValidStatuses {
		if !IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "done", "PENDING"} {
		if IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = true, want false", s)
		}
	}
}

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{RoleAdmin, true},
		{RoleEditor, true},
		{"user", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidRole(tt.role); got != tt.want {
			t.Errorf("IsValidRole(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
	if len(ValidRoles) != 2 {
		t.Errorf("ValidRoles = %v, want two roles", ValidRoles)
	}
}
