// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Admin roles.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// ValidRoles lists the roles an admin user may have.
var ValidRoles = []string{RoleAdmin, RoleEditor}

// IsValidRole reports whether role is a known admin role.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEditor
}
