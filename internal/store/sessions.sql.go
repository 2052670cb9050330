// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
)

const createSession = `-- name: CreateSession :exec
INSERT INTO admin_sessions (token_hash, user_id, created_at) VALUES (?, ?, ?)`

// CreateSessionParams holds the columns written by CreateSession.
type CreateSessionParams struct {
	TokenHash string
	UserID    int64
	CreatedAt string
}

// CreateSession stores a hashed session token.
func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	_, err := q.db.ExecContext(ctx, createSession, arg.TokenHash, arg.UserID, arg.CreatedAt)
	return err
}

const getActiveSessionUser = `-- name: GetActiveSessionUser :one
SELECT u.id, u.username, u.password_hash, u.role, u.display_name, u.is_active, u.created_at, u.updated_at
FROM admin_sessions s
JOIN admin_users u ON u.id = s.user_id
WHERE s.token_hash = ? AND u.is_active = 1`

// GetActiveSessionUser resolves a token hash to its active user.
func (q *Queries) GetActiveSessionUser(ctx context.Context, tokenHash string) (AdminUser, error) {
	return scanAdminUser(q.db.QueryRowContext(ctx, getActiveSessionUser, tokenHash))
}

const deleteSession = `-- name: DeleteSession :exec
DELETE FROM admin_sessions WHERE token_hash = ?`

// DeleteSession revokes one token.
func (q *Queries) DeleteSession(ctx context.Context, tokenHash string) error {
	_, err := q.db.ExecContext(ctx, deleteSession, tokenHash)
	return err
}

const deleteSessionsByUser = `-- name: DeleteSessionsByUser :execrows
DELETE FROM admin_sessions WHERE user_id = ?`

// DeleteSessionsByUser revokes every token belonging to a user.
func (q *Queries) DeleteSessionsByUser(ctx context.Context, userID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSessionsByUser, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
