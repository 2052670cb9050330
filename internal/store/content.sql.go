// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
)

const getContent = `-- name: GetContent :one
SELECT id, payload, updated_at FROM site_content WHERE id = ?
`

// GetContent returns the stored content row or sql.ErrNoRows.
func (q *Queries) GetContent(ctx context.Context, id string) (SiteContent, error) {
	row := q.db.QueryRowContext(ctx, getContent, id)
	var i SiteContent
	err := row.Scan(&i.ID, &i.Payload, &i.UpdatedAt)
	return i, err
}

const upsertContent = `-- name: UpsertContent :exec
INSERT INTO site_content (id, payload, updated_at) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
`

// UpsertContentParams holds the columns written by UpsertContent.
type UpsertContentParams struct {
	ID        string
	Payload   string
	UpdatedAt string
}

// UpsertContent replaces the content row wholesale.
func (q *Queries) UpsertContent(ctx context.Context, arg UpsertContentParams) error {
	_, err := q.db.ExecContext(ctx, upsertContent, arg.ID, arg.Payload, arg.UpdatedAt)
	return err
}
