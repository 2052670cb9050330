// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/sitedesk/internal/auth"
)

// DefaultAdminDisplayName is used for the seeded account.
const DefaultAdminDisplayName = "Administrator"

// SeedAdmin creates the first admin account when the users table is empty.
// An empty password is replaced by a random one that is logged once.
func SeedAdmin(ctx context.Context, db *sql.DB, username, password string) error {
	queries := New(db)

	count, err := queries.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting admin users: %w", err)
	}
	if count > 0 {
		slog.Debug("admin users exist, skipping seed", "count", count)
		return nil
	}

	generated := false
	if password == "" {
		password, err = auth.RandomPassword()
		if err != nil {
			return err
		}
		generated = true
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         "admin",
		DisplayName:  DefaultAdminDisplayName,
		IsActive:     true,
		CreatedAt:    FormatTimestamp(time.Now()),
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	if generated {
		slog.Info("created default admin user",
			"id", user.ID,
			"username", user.Username,
			"password", password,
		)
	} else {
		slog.Info("created default admin user", "id", user.ID, "username", user.Username)
	}

	return nil
}
