// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
)

const courseRequestColumns = `id, email, password_hash, course_id, full_name, status, created_at_display, created_at, updated_at`

func scanCourseRequest(row interface{ Scan(...any) error }) (CourseRequest, error) {
	var i CourseRequest
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.PasswordHash,
		&i.CourseID,
		&i.FullName,
		&i.Status,
		&i.CreatedAtDisplay,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertCourseRequest = `-- name: InsertCourseRequest :one
INSERT INTO course_requests (email, password_hash, course_id, full_name, status, created_at_display, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(email, course_id) DO NOTHING
RETURNING ` + courseRequestColumns

// InsertCourseRequestParams holds the columns written by InsertCourseRequest.
type InsertCourseRequestParams struct {
	Email            string
	PasswordHash     string
	CourseID         string
	FullName         string
	Status           string
	CreatedAtDisplay string
	CreatedAt        string
}

// InsertCourseRequest inserts a course request. It returns sql.ErrNoRows
// when a request for the same (email, course_id) already exists.
func (q *Queries) InsertCourseRequest(ctx context.Context, arg InsertCourseRequestParams) (CourseRequest, error) {
	row := q.db.QueryRowContext(ctx, insertCourseRequest,
		arg.Email,
		arg.PasswordHash,
		arg.CourseID,
		arg.FullName,
		arg.Status,
		arg.CreatedAtDisplay,
		arg.CreatedAt,
		arg.CreatedAt,
	)
	return scanCourseRequest(row)
}

const getCourseRequestByID = `-- name: GetCourseRequestByID :one
SELECT ` + courseRequestColumns + ` FROM course_requests WHERE id = ?`

// GetCourseRequestByID returns one course request.
func (q *Queries) GetCourseRequestByID(ctx context.Context, id int64) (CourseRequest, error) {
	return scanCourseRequest(q.db.QueryRowContext(ctx, getCourseRequestByID, id))
}

const getCourseRequestByEmailCourse = `-- name: GetCourseRequestByEmailCourse :one
SELECT ` + courseRequestColumns + ` FROM course_requests WHERE email = ? AND course_id = ?`

// GetCourseRequestByEmailCourseParams identifies a course request by its natural key.
type GetCourseRequestByEmailCourseParams struct {
	Email    string
	CourseID string
}

// GetCourseRequestByEmailCourse looks a course request up by (email, course_id).
func (q *Queries) GetCourseRequestByEmailCourse(ctx context.Context, arg GetCourseRequestByEmailCourseParams) (CourseRequest, error) {
	return scanCourseRequest(q.db.QueryRowContext(ctx, getCourseRequestByEmailCourse, arg.Email, arg.CourseID))
}

const listCourseRequests = `-- name: ListCourseRequests :many
SELECT ` + courseRequestColumns + ` FROM course_requests ORDER BY created_at DESC, id DESC`

// ListCourseRequests returns all course requests, newest first.
func (q *Queries) ListCourseRequests(ctx context.Context) ([]CourseRequest, error) {
	rows, err := q.db.QueryContext(ctx, listCourseRequests)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []CourseRequest{}
	for rows.Next() {
		i, err := scanCourseRequest(rows)
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

const updateCourseRequestStatus = `-- name: UpdateCourseRequestStatus :one
UPDATE course_requests SET status = ?, updated_at = ? WHERE id = ?
RETURNING ` + courseRequestColumns

// UpdateCourseRequestStatusParams holds the columns written by UpdateCourseRequestStatus.
type UpdateCourseRequestStatusParams struct {
	Status    string
	UpdatedAt string
	ID        int64
}

// UpdateCourseRequestStatus changes the status and returns the updated row.
func (q *Queries) UpdateCourseRequestStatus(ctx context.Context, arg UpdateCourseRequestStatusParams) (CourseRequest, error) {
	return scanCourseRequest(q.db.QueryRowContext(ctx, updateCourseRequestStatus, arg.Status, arg.UpdatedAt, arg.ID))
}

const deleteCourseRequest = `-- name: DeleteCourseRequest :execrows
DELETE FROM course_requests WHERE id = ?`

// DeleteCourseRequest deletes a course request and reports the affected row count.
func (q *Queries) DeleteCourseRequest(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteCourseRequest, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
