// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
)

const submissionColumns = `id, type, name, email, phone, subject, message, course_id, status, created_at_display, created_at, updated_at`

func scanSubmission(row interface{ Scan(...any) error }) (Submission, error) {
	var i Submission
	err := row.Scan(
		&i.ID,
		&i.Type,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.Subject,
		&i.Message,
		&i.CourseID,
		&i.Status,
		&i.CreatedAtDisplay,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertSubmission = `-- name: InsertSubmission :one
INSERT INTO submissions (id, type, name, email, phone, subject, message, course_id, status, created_at_display, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + submissionColumns

// InsertSubmissionParams holds the columns written by InsertSubmission.
type InsertSubmissionParams struct {
	ID               string
	Type             string
	Name             string
	Email            string
	Phone            string
	Subject          string
	Message          string
	CourseID         string
	Status           string
	CreatedAtDisplay string
	CreatedAt        string
}

// InsertSubmission inserts a contact or newsletter submission.
func (q *Queries) InsertSubmission(ctx context.Context, arg InsertSubmissionParams) (Submission, error) {
	row := q.db.QueryRowContext(ctx, insertSubmission,
		arg.ID,
		arg.Type,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.Subject,
		arg.Message,
		arg.CourseID,
		arg.Status,
		arg.CreatedAtDisplay,
		arg.CreatedAt,
		arg.CreatedAt,
	)
	return scanSubmission(row)
}

const getSubmissionByID = `-- name: GetSubmissionByID :one
SELECT ` + submissionColumns + ` FROM submissions WHERE id = ?`

// GetSubmissionByID returns one submission.
func (q *Queries) GetSubmissionByID(ctx context.Context, id string) (Submission, error) {
	return scanSubmission(q.db.QueryRowContext(ctx, getSubmissionByID, id))
}

const listSubmissions = `-- name: ListSubmissions :many
SELECT ` + submissionColumns + ` FROM submissions
WHERE (? = '' OR type = ?)
ORDER BY created_at DESC, id DESC`

// ListSubmissions returns submissions newest first, optionally filtered by type.
func (q *Queries) ListSubmissions(ctx context.Context, submissionType string) ([]Submission, error) {
	rows, err := q.db.QueryContext(ctx, listSubmissions, submissionType, submissionType)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Submission{}
	for rows.Next() {
		i, err := scanSubmission(rows)
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

const updateSubmissionStatus = `-- name: UpdateSubmissionStatus :one
UPDATE submissions SET status = ?, updated_at = ? WHERE id = ?
RETURNING ` + submissionColumns

// UpdateSubmissionStatusParams holds the columns written by UpdateSubmissionStatus.
type UpdateSubmissionStatusParams struct {
	Status    string
	UpdatedAt string
	ID        string
}

// UpdateSubmissionStatus changes the status and returns the updated row.
func (q *Queries) UpdateSubmissionStatus(ctx context.Context, arg UpdateSubmissionStatusParams) (Submission, error) {
	return scanSubmission(q.db.QueryRowContext(ctx, updateSubmissionStatus, arg.Status, arg.UpdatedAt, arg.ID))
}

const deleteSubmission = `-- name: DeleteSubmission :execrows
DELETE FROM submissions WHERE id = ?`

// DeleteSubmission deletes a submission and reports the affected row count.
func (q *Queries) DeleteSubmission(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSubmission, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
