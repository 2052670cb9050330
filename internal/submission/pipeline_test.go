// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package submission

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/sitedesk/internal/auth"
	"github.com/olegiv/sitedesk/internal/mail"
	"github.com/olegiv/sitedesk/internal/model"
	"github.com/olegiv/sitedesk/internal/store"
	"github.com/olegiv/sitedesk/internal/testutil"
)

type fakeMailer struct {
	mu     sync.Mutex
	result mail.Result
	panic  bool
	sent   []mail.Notification
	// onSend runs before the result is returned, while the row is still tentative.
	onSend func()
}

func (f *fakeMailer) Send(_ context.Context, n mail.Notification) mail.Result {
	f.mu.Lock()
	f.sent = append(f.sent, n)
	f.mu.Unlock()
	if f.onSend != nil {
		f.onSend()
	}
	if f.panic {
		panic("smtp exploded")
	}
	return f.result
}

func newTestPipeline(t *testing.T, mailer *fakeMailer) (*Pipeline, *store.Queries) {
	t.Helper()
	db := testutil.TestDB(t)
	baku := time.FixedZone("Baku", 4*60*60)
	p := NewPipeline(db, mailer, testutil.TestLogger(), baku)
	p.now = func() time.Time { return time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC) }
	return p, store.New(db)
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{"unknown kind", Input{Kind: "feedback", Email: "a@b.az"}},
		{"empty kind", Input{Email: "a@b.az"}},
		{"newsletter without email", Input{Kind: "newsletter", Name: "A"}},
		{"contact all empty", Input{Kind: "contact", Phone: "+994", Subject: "hi"}},
		{"course without password", Input{Kind: "course", Email: "a@b.az", CourseID: "go"}},
		{"course without course id", Input{Kind: "course", Email: "a@b.az", Password: "secret"}},
		{"course without email", Input{Kind: "course", Password: "secret", CourseID: "go"}},
		{"whitespace only", Input{Kind: "newsletter", Email: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &fakeMailer{result: mail.Result{Sent: true}}
			p, q := newTestPipeline(t, mailer)

			_, err := p.Submit(context.Background(), tt.in)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Message)
			assert.Empty(t, mailer.sent, "validation failures must not send mail")

			reqs, err := ListRequests(context.Background(), q)
			require.NoError(t, err)
			assert.Empty(t, reqs)
		})
	}
}

func TestSubmit_ContactSuccess(t *testing.T) {
	mailer := &fakeMailer{result: mail.Result{Sent: true}}
	p, q := newTestPipeline(t, mailer)

	res, err := p.Submit(context.Background(), Input{
		Kind:    " Contact ",
		Name:    "Leyla",
		Email:   "Leyla@Example.com",
		Message: "Salam",
	})
	require.NoError(t, err)
	assert.True(t, res.Mail.Sent)
	assert.Len(t, res.ID, 36)

	row, err := q.GetSubmissionByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.KindContact, row.Type)
	assert.Equal(t, "leyla@example.com", row.Email)
	assert.Equal(t, model.StatusPending, row.Status)
	assert.Equal(t, "14.03.2026 12:30:00", row.CreatedAtDisplay)
	assert.Equal(t, "2026-03-14T08:30:00.000Z", row.CreatedAt)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "leyla@example.com", mailer.sent[0].ReplyTo)
}

func TestSubmit_NewsletterDeliveryFailureRollsBack(t *testing.T) {
	mailer := &fakeMailer{result: mail.Result{Reason: mail.ReasonNotConfigured}}
	p, q := newTestPipeline(t, mailer)

	var seenTentative int
	mailer.onSend = func() {
		rows, err := q.ListSubmissions(context.Background(), model.KindNewsletter)
		require.NoError(t, err)
		seenTentative = len(rows)
	}

	_, err := p.Submit(context.Background(), Input{Kind: "newsletter", Email: "x@y.az"})

	var derr *DeliveryError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, mail.ReasonNotConfigured, derr.Reason)
	assert.Equal(t, 1, seenTentative, "row should exist while mail is in flight")

	rows, err := q.ListSubmissions(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSubmit_CourseDeliveryFailureLeavesNoRow(t *testing.T) {
	mailer := &fakeMailer{result: mail.Result{Reason: "dial tcp: i/o timeout"}}
	p, q := newTestPipeline(t, mailer)

	_, err := p.Submit(context.Background(), Input{Kind: "course", Email: "a@b.az", Password: "secret", CourseID: "go-101"})

	var derr *DeliveryError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "dial tcp: i/o timeout", derr.Reason)

	_, err = q.GetCourseRequestByEmailCourse(context.Background(), store.GetCourseRequestByEmailCourseParams{
		Email:    "a@b.az",
		CourseID: "go-101",
	})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSubmit_CourseSuccessHashesPassword(t *testing.T) {
	mailer := &fakeMailer{result: mail.Result{Sent: true}}
	p, _ := newTestPipeline(t, mailer)

	res, err := p.Submit(context.Background(), Input{
		Kind:        "course",
		Name:        "Orxan",
		Email:       "orxan@example.com",
		Password:    "hunter22",
		CourseID:    "go-101",
		CourseTitle: "Go 101",
	})
	require.NoError(t, err)
	require.NotNil(t, res.CourseRequest)

	assert.NotEqual(t, "hunter22", res.CourseRequest.PasswordHash)
	ok, err := auth.CheckPassword("hunter22", res.CourseRequest.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Yeni kurs müraciəti: Go 101 (go-101)", mailer.sent[0].Subject)
}

func TestSubmit_DuplicateCourseIsConflict(t *testing.T) {
	mailer := &fakeMailer{result: mail.Result{Sent: true}}
	p, q := newTestPipeline(t, mailer)
	ctx := context.Background()

	in := Input{Kind: "course", Email: "a@b.az", Password: "secret", CourseID: "go-101"}
	first, err := p.Submit(ctx, in)
	require.NoError(t, err)

	_, err = q.UpdateCourseRequestStatus(ctx, store.UpdateCourseRequestStatusParams{
		Status:    model.StatusApproved,
		UpdatedAt: "2026-03-15T00:00:00.000Z",
		ID:        first.CourseRequest.ID,
	})
	require.NoError(t, err)
	before, err := q.GetCourseRequestByID(ctx, first.CourseRequest.ID)
	require.NoError(t, err)

	p.now = func() time.Time { return time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC) }
	in.Email = "A@B.AZ"
	_, err = p.Submit(ctx, in)

	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, before, cerr.Existing)

	after, err := q.GetCourseRequestByID(ctx, first.CourseRequest.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after, "duplicate must not alter the stored row")
	assert.Len(t, mailer.sent, 1, "duplicate must not send mail")
}

func TestSubmit_PanicInMailerStillRollsBack(t *testing.T) {
	mailer := &fakeMailer{panic: true}
	p, q := newTestPipeline(t, mailer)

	func() {
		defer func() {
			assert.NotNil(t, recover())
		}()
		_, _ = p.Submit(context.Background(), Input{Kind: "contact", Message: "hi"})
	}()

	rows, err := q.ListSubmissions(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSubmit_CancelledRequestStillRollsBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mailer := &fakeMailer{result: mail.Result{Reason: "context canceled"}}
	mailer.onSend = cancel
	p, q := newTestPipeline(t, mailer)

	_, err := p.Submit(ctx, Input{Kind: "course", Email: "c@d.az", Password: "pw", CourseID: "x"})
	var derr *DeliveryError
	require.True(t, errors.As(err, &derr))

	reqs, err := q.ListCourseRequests(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestListRequests_NewestFirst(t *testing.T) {
	mailer := &fakeMailer{result: mail.Result{Sent: true}}
	p, q := newTestPipeline(t, mailer)
	ctx := context.Background()

	times := []time.Time{
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	inputs := []Input{
		{Kind: "newsletter", Email: "n@x.az"},
		{Kind: "course", Email: "c@x.az", Password: "pw", CourseID: "go"},
		{Kind: "contact", Name: "Contact"},
	}
	for i, in := range inputs {
		at := times[i]
		p.now = func() time.Time { return at }
		_, err := p.Submit(ctx, in)
		require.NoError(t, err)
	}

	reqs, err := ListRequests(ctx, q)
	require.NoError(t, err)
	require.Len(t, reqs, 3)
	assert.Equal(t, []string{"course", "contact", "newsletter"}, []string{reqs[0].Kind, reqs[1].Kind, reqs[2].Kind})
}
