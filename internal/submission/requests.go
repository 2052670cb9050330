// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package submission

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/sitedesk/internal/model"
	"github.com/olegiv/sitedesk/internal/store"
)

// Request is one row of the unified admin listing.
type Request struct {
	Kind             string `json:"type"`
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Subject          string `json:"subject"`
	Message          string `json:"message"`
	CourseID         string `json:"courseId"`
	Status           string `json:"status"`
	CreatedAtDisplay string `json:"createdAtDisplay"`
	CreatedAt        string `json:"createdAt"`
}

// FromCourseRequest converts a course request for the unified listing.
func FromCourseRequest(r store.CourseRequest) Request {
	return Request{
		Kind:             model.KindCourse,
		ID:               strconv.FormatInt(r.ID, 10),
		Name:             r.FullName,
		Email:            r.Email,
		CourseID:         r.CourseID,
		Status:           r.Status,
		CreatedAtDisplay: r.CreatedAtDisplay,
		CreatedAt:        r.CreatedAt,
	}
}

// FromSubmission converts a contact or newsletter row for the unified listing.
func FromSubmission(s store.Submission) Request {
	return Request{
		Kind:             s.Type,
		ID:               s.ID,
		Name:             s.Name,
		Email:            s.Email,
		Phone:            s.Phone,
		Subject:          s.Subject,
		Message:          s.Message,
		CourseID:         s.CourseID,
		Status:           s.Status,
		CreatedAtDisplay: s.CreatedAtDisplay,
		CreatedAt:        s.CreatedAt,
	}
}

// ListRequests returns course requests and form submissions together,
// newest first.
func ListRequests(ctx context.Context, q *store.Queries) ([]Request, error) {
	var (
		courses []store.CourseRequest
		forms   []store.Submission
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		courses, err = q.ListCourseRequests(gctx)
		if err != nil {
			return fmt.Errorf("listing course requests: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		forms, err = q.ListSubmissions(gctx, "")
		if err != nil {
			return fmt.Errorf("listing submissions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Request, 0, len(courses)+len(forms))
	for _, c := range courses {
		out = append(out, FromCourseRequest(c))
	}
	for _, s := range forms {
		out = append(out, FromSubmission(s))
	}

	// Timestamps are fixed-width UTC strings, so string order is time order.
	slices.SortStableFunc(out, func(a, b Request) int {
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})
	return out, nil
}
