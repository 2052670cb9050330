// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package submission accepts visitor submissions. A submission is stored
// only if its notification e-mail goes out; otherwise it is deleted again
// before the request returns.
package submission

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/sitedesk/internal/auth"
	"github.com/olegiv/sitedesk/internal/mail"
	"github.com/olegiv/sitedesk/internal/model"
	"github.com/olegiv/sitedesk/internal/store"
)

// DisplayLayout is the locale format of createdAtDisplay.
const DisplayLayout = "02.01.2006 15:04:05"

// Mailer delivers a notification.
type Mailer interface {
	Send(ctx context.Context, n mail.Notification) mail.Result
}

// Input is an incoming submission of any kind.
type Input struct {
	Kind        string
	Name        string
	Email       string
	Phone       string
	Subject     string
	Message     string
	CourseID    string
	CourseTitle string
	Password    string
}

// Result describes a stored and notified submission.
type Result struct {
	ID            string
	Kind          string
	Mail          mail.Result
	Submission    *store.Submission
	CourseRequest *store.CourseRequest
}

// Pipeline validates, stores and notifies.
type Pipeline struct {
	queries *store.Queries
	mailer  Mailer
	logger  *slog.Logger
	loc     *time.Location
	now     func() time.Time
}

// NewPipeline creates a Pipeline. Display timestamps are rendered in loc.
func NewPipeline(db *sql.DB, mailer Mailer, logger *slog.Logger, loc *time.Location) *Pipeline {
	if loc == nil {
		loc = time.UTC
	}
	return &Pipeline{
		queries: store.New(db),
		mailer:  mailer,
		logger:  logger,
		loc:     loc,
		now:     time.Now,
	}
}

// Submit runs the whole sequence: validate, insert as pending, notify, and
// either keep the row or delete it.
//
// Errors are *ValidationError, *ConflictError, *DeliveryError or a storage error.
func (p *Pipeline) Submit(ctx context.Context, in Input) (Result, error) {
	in = clean(in)
	if err := validate(in); err != nil {
		return Result{}, err
	}

	if in.Kind == model.KindCourse {
		return p.submitCourse(ctx, in)
	}
	return p.submitForm(ctx, in)
}

func (p *Pipeline) submitForm(ctx context.Context, in Input) (Result, error) {
	now := p.now()
	row, err := p.queries.InsertSubmission(ctx, store.InsertSubmissionParams{
		ID:               uuid.NewString(),
		Type:             in.Kind,
		Name:             in.Name,
		Email:            in.Email,
		Phone:            in.Phone,
		Subject:          in.Subject,
		Message:          in.Message,
		CourseID:         in.CourseID,
		Status:           model.StatusPending,
		CreatedAtDisplay: now.In(p.loc).Format(DisplayLayout),
		CreatedAt:        store.FormatTimestamp(now),
	})
	if err != nil {
		return Result{}, fmt.Errorf("storing submission: %w", err)
	}

	t := &tentative{kind: in.Kind, id: row.ID, remove: func(ctx context.Context) error {
		_, err := p.queries.DeleteSubmission(ctx, row.ID)
		return err
	}}
	defer p.settle(ctx, t)

	sent := p.mailer.Send(ctx, formNotification(row))
	if !sent.Sent {
		return Result{}, &DeliveryError{Reason: sent.Reason}
	}

	t.confirm()
	p.logger.Info("submission accepted", "type", row.Type, "id", row.ID)
	return Result{ID: row.ID, Kind: row.Type, Mail: sent, Submission: &row}, nil
}

func (p *Pipeline) submitCourse(ctx context.Context, in Input) (Result, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Result{}, err
	}

	now := p.now()
	row, err := p.queries.InsertCourseRequest(ctx, store.InsertCourseRequestParams{
		Email:            in.Email,
		PasswordHash:     hash,
		CourseID:         in.CourseID,
		FullName:         in.Name,
		Status:           model.StatusPending,
		CreatedAtDisplay: now.In(p.loc).Format(DisplayLayout),
		CreatedAt:        store.FormatTimestamp(now),
	})
	if errors.Is(err, sql.ErrNoRows) {
		existing, lookupErr := p.queries.GetCourseRequestByEmailCourse(ctx, store.GetCourseRequestByEmailCourseParams{
			Email:    in.Email,
			CourseID: in.CourseID,
		})
		if lookupErr != nil {
			return Result{}, fmt.Errorf("loading existing course request: %w", lookupErr)
		}
		return Result{}, &ConflictError{Existing: existing}
	}
	if err != nil {
		return Result{}, fmt.Errorf("storing course request: %w", err)
	}

	id := fmt.Sprint(row.ID)
	t := &tentative{kind: model.KindCourse, id: id, remove: func(ctx context.Context) error {
		_, err := p.queries.DeleteCourseRequest(ctx, row.ID)
		return err
	}}
	defer p.settle(ctx, t)

	sent := p.mailer.Send(ctx, courseNotification(row, in))
	if !sent.Sent {
		return Result{}, &DeliveryError{Reason: sent.Reason}
	}

	t.confirm()
	p.logger.Info("course request accepted", "id", row.ID, "course_id", row.CourseID)
	return Result{ID: id, Kind: model.KindCourse, Mail: sent, CourseRequest: &row}, nil
}

// tentative is a freshly inserted row that is deleted on settle unless confirmed.
type tentative struct {
	kind      string
	id        string
	remove    func(ctx context.Context) error
	confirmed bool
}

func (t *tentative) confirm() {
	t.confirmed = true
}

// settle deletes an unconfirmed row. It runs even if the request context
// was cancelled, and during a panic.
func (p *Pipeline) settle(ctx context.Context, t *tentative) {
	if t.confirmed {
		return
	}
	if err := t.remove(context.WithoutCancel(ctx)); err != nil {
		p.logger.Error("rolling back unnotified submission failed",
			"category", model.EventCategorySubmission,
			"type", t.kind,
			"id", t.id,
			"error", err,
		)
		return
	}
	p.logger.Warn("submission rolled back, notification not delivered",
		"category", model.EventCategorySubmission,
		"type", t.kind,
		"id", t.id,
	)
}

func clean(in Input) Input {
	in.Kind = strings.ToLower(strings.TrimSpace(in.Kind))
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	in.CourseID = strings.TrimSpace(in.CourseID)
	in.CourseTitle = strings.TrimSpace(in.CourseTitle)
	return in
}

func validate(in Input) error {
	switch in.Kind {
	case model.KindNewsletter:
		if in.Email == "" {
			return &ValidationError{Message: "email is required"}
		}
	case model.KindContact:
		if in.Name == "" && in.Email == "" && in.Message == "" {
			return &ValidationError{Message: "name, email or message is required"}
		}
	case model.KindCourse:
		if in.Email == "" || in.Password == "" || in.CourseID == "" {
			return &ValidationError{Message: "email, password and courseId are required"}
		}
	default:
		return &ValidationError{Message: "type must be one of course, contact, newsletter"}
	}
	return nil
}
