// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/olegiv/sitedesk/internal/store"
	"github.com/olegiv/sitedesk/internal/testutil"
)

func TestUpsertContent(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	if _, err := q.GetContent(ctx, "sitemap"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("GetContent on empty table: err = %v, want sql.ErrNoRows", err)
	}

	for _, payload := range []string{`{"a":1}`, `{"b":2}`} {
		if err := q.UpsertContent(ctx, store.UpsertContentParams{
			ID:        "sitemap",
			Payload:   payload,
			UpdatedAt: store.FormatTimestamp(time.Now()),
		}); err != nil {
			t.Fatalf("UpsertContent: %v", err)
		}
	}

	row, err := q.GetContent(ctx, "sitemap")
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if row.Payload != `{"b":2}` {
		t.Errorf("Payload = %q, want %q", row.Payload, `{"b":2}`)
	}
}

func TestInsertCourseRequest_Conflict(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	params := store.InsertCourseRequestParams{
		Email:            "a@example.com",
		PasswordHash:     "hash",
		CourseID:         "7",
		Status:           "pending",
		CreatedAtDisplay: "01.01.2026 10:00:00",
		CreatedAt:        "2026-01-01T06:00:00.000Z",
	}
	first, err := q.InsertCourseRequest(ctx, params)
	if err != nil {
		t.Fatalf("InsertCourseRequest: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("expected generated ID")
	}

	params.CreatedAt = "2026-02-01T06:00:00.000Z"
	if _, err := q.InsertCourseRequest(ctx, params); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("duplicate insert: err = %v, want sql.ErrNoRows", err)
	}

	existing, err := q.GetCourseRequestByEmailCourse(ctx, store.GetCourseRequestByEmailCourseParams{
		Email: "a@example.com", CourseID: "7",
	})
	if err != nil {
		t.Fatalf("GetCourseRequestByEmailCourse: %v", err)
	}
	if existing.CreatedAt != first.CreatedAt {
		t.Errorf("CreatedAt changed to %q", existing.CreatedAt)
	}

	n, err := q.DeleteCourseRequest(ctx, first.ID)
	if err != nil || n != 1 {
		t.Fatalf("DeleteCourseRequest = %d, %v", n, err)
	}
}

func TestListSubmissions_OrderAndFilter(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	rows := []store.InsertSubmissionParams{
		{ID: "s1", Type: "contact", Name: "A", Status: "pending", CreatedAt: "2026-01-01T00:00:00.000Z"},
		{ID: "s2", Type: "newsletter", Email: "b@x.az", Status: "pending", CreatedAt: "2026-01-03T00:00:00.000Z"},
		{ID: "s3", Type: "contact", Name: "C", Status: "pending", CreatedAt: "2026-01-02T00:00:00.000Z"},
	}
	for _, r := range rows {
		if _, err := q.InsertSubmission(ctx, r); err != nil {
			t.Fatalf("InsertSubmission(%s): %v", r.ID, err)
		}
	}

	all, err := q.ListSubmissions(ctx, "")
	if err != nil {
		t.Fatalf("ListSubmissions: %v", err)
	}
	if len(all) != 3 || all[0].ID != "s2" || all[1].ID != "s3" || all[2].ID != "s1" {
		t.Errorf("unexpected order: %+v", all)
	}

	contacts, err := q.ListSubmissions(ctx, "contact")
	if err != nil {
		t.Fatalf("ListSubmissions(contact): %v", err)
	}
	if len(contacts) != 2 {
		t.Errorf("len(contacts) = %d, want 2", len(contacts))
	}
}

func TestDeleteUser_CascadesSessions(t *testing.T) {
	db := testutil.TestDB(t)
	q := store.New(db)
	ctx := context.Background()

	user, err := q.CreateUser(ctx, store.CreateUserParams{
		Username: "editor", PasswordHash: "h", Role: "editor", IsActive: true,
		CreatedAt: store.FormatTimestamp(time.Now()),
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := q.CreateSession(ctx, store.CreateSessionParams{TokenHash: "t1", UserID: user.ID, CreatedAt: "x"}); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if _, err := q.GetActiveSessionUser(ctx, "t1"); err != nil {
		t.Fatalf("GetActiveSessionUser: %v", err)
	}

	if _, err := q.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := q.GetActiveSessionUser(ctx, "t1"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("session survived user deletion: err = %v", err)
	}
}

func TestSeedAdmin(t *testing.T) {
	db := testutil.TestDB(t)
	ctx := context.Background()

	if err := store.SeedAdmin(ctx, db, "admin", "secret123"); err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}
	if err := store.SeedAdmin(ctx, db, "other", ""); err != nil {
		t.Fatalf("second SeedAdmin: %v", err)
	}

	users, err := store.New(db).ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 1 || users[0].Username != "admin" || users[0].Role != "admin" || !users[0].IsActive {
		t.Errorf("unexpected users: %+v", users)
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 4, 5, 6, 7, 890_000_000, time.UTC)
	s := store.FormatTimestamp(now)
	if s != "2026-03-04T05:06:07.890Z" {
		t.Errorf("FormatTimestamp = %q", s)
	}
	back, err := store.ParseTimestamp(s)
	if err != nil || !back.Equal(now) {
		t.Errorf("ParseTimestamp = %v, %v", back, err)
	}
}
