// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
)

const adminUserColumns = `id, username, password_hash, role, display_name, is_active, created_at, updated_at`

func scanAdminUser(row interface{ Scan(...any) error }) (AdminUser, error) {
	var i AdminUser
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.PasswordHash,
		&i.Role,
		&i.DisplayName,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createUser = `-- name: CreateUser :one
INSERT INTO admin_users (username, password_hash, role, display_name, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + adminUserColumns

// CreateUserParams holds the columns written by CreateUser.
type CreateUserParams struct {
	Username     string
	PasswordHash string
	Role         string
	DisplayName  string
	IsActive     bool
	CreatedAt    string
}

// CreateUser inserts an admin user.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (AdminUser, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.Username,
		arg.PasswordHash,
		arg.Role,
		arg.DisplayName,
		arg.IsActive,
		arg.CreatedAt,
		arg.CreatedAt,
	)
	return scanAdminUser(row)
}

const getUserByID = `-- name: GetUserByID :one
SELECT ` + adminUserColumns + ` FROM admin_users WHERE id = ?`

// GetUserByID returns one admin user.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (AdminUser, error) {
	return scanAdminUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByUsername = `-- name: GetUserByUsername :one
SELECT ` + adminUserColumns + ` FROM admin_users WHERE username = ?`

// GetUserByUsername looks a user up case-insensitively.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (AdminUser, error) {
	return scanAdminUser(q.db.QueryRowContext(ctx, getUserByUsername, username))
}

const listUsers = `-- name: ListUsers :many
SELECT ` + adminUserColumns + ` FROM admin_users ORDER BY id`

// ListUsers returns all admin users.
func (q *Queries) ListUsers(ctx context.Context) ([]AdminUser, error) {
	rows, err := q.db.QueryContext(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []AdminUser{}
	for rows.Next() {
		i, err := scanAdminUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countUsers = `-- name: CountUsers :one
SELECT COUNT(*) FROM admin_users`

// CountUsers returns the number of admin users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countUsers).Scan(&count)
	return count, err
}

const updateUser = `-- name: UpdateUser :one
UPDATE admin_users
SET password_hash = ?, role = ?, display_name = ?, is_active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + adminUserColumns

// UpdateUserParams holds the mutable columns of an admin user.
type UpdateUserParams struct {
	PasswordHash string
	Role         string
	DisplayName  string
	IsActive     bool
	UpdatedAt    string
	ID           int64
}

// UpdateUser rewrites the mutable columns and returns the updated row.
func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (AdminUser, error) {
	row := q.db.QueryRowContext(ctx, updateUser,
		arg.PasswordHash,
		arg.Role,
		arg.DisplayName,
		arg.IsActive,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanAdminUser(row)
}

const deleteUser = `-- name: DeleteUser :execrows
DELETE FROM admin_users WHERE id = ?`

// DeleteUser deletes a user; sessions go with it via ON DELETE CASCADE.
func (q *Queries) DeleteUser(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteUser, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
