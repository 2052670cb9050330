// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/sitedesk/internal/model"
	"github.com/olegiv/sitedesk/internal/store"
	"github.com/olegiv/sitedesk/internal/submission"
)

// Submitter runs the submission pipeline.
type Submitter interface {
	Submit(ctx context.Context, in submission.Input) (submission.Result, error)
}

// SubmissionsHandler handles visitor submissions and their admin management.
type SubmissionsHandler struct {
	queries   *store.Queries
	submitter Submitter
	now       func() time.Time
}

// NewSubmissionsHandler creates a new SubmissionsHandler.
func NewSubmissionsHandler(db *sql.DB, submitter Submitter) *SubmissionsHandler {
	return &SubmissionsHandler{
		queries:   store.New(db),
		submitter: submitter,
		now:       time.Now,
	}
}

// listResponse wraps admin listings.
type listResponse struct {
	Data any      `json:"data"`
	Meta listMeta `json:"meta"`
}

type listMeta struct {
	Total int `json:"total"`
}

// submittedResponse is returned when a submission was stored and notified.
type submittedResponse struct {
	ID         string             `json:"id"`
	MailSent   bool               `json:"mailSent"`
	MailReason string             `json:"mailReason,omitempty"`
	Request    *courseRequestJSON `json:"request,omitempty"`
}

type submissionRequest struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	CourseID    string `json:"courseId"`
	CourseTitle string `json:"courseTitle"`
}

type courseRequestBody struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CourseID    string `json:"courseId"`
	CourseTitle string `json:"courseTitle"`
	FullName    string `json:"fullName"`
	Name        string `json:"name"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type submissionJSON struct {
	ID               string `json:"id"`
	Type             string `json:"type"`
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

// courseRequestJSON never carries the password hash.
type courseRequestJSON struct {
	ID               int64  `json:"id"`
	Email            string `json:"email"`
	CourseID         string `json:"courseId"`
	FullName         string `json:"fullName"`
	Status           string `json:"status"`
	CreatedAtDisplay string `json:"createdAtDisplay"`
	CreatedAt        string `json:"createdAt"`
}

func submissionView(s store.Submission) submissionJSON {
	return submissionJSON{
		ID:               s.ID,
		Type:             s.Type,
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

func courseRequestView(c store.CourseRequest) courseRequestJSON {
	return courseRequestJSON{
		ID:               c.ID,
		Email:            c.Email,
		CourseID:         c.CourseID,
		FullName:         c.FullName,
		Status:           c.Status,
		CreatedAtDisplay: c.CreatedAtDisplay,
		CreatedAt:        c.CreatedAt,
	}
}

// Create handles POST /api/submissions for contact and newsletter forms.
func (h *SubmissionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req submissionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.EqualFold(strings.TrimSpace(req.Type), model.KindCourse) {
		writeError(w, r, &submission.ValidationError{Message: "course requests go to /api/course-requests"})
		return
	}

	result, err := h.submitter.Submit(r.Context(), submission.Input{
		Kind:        req.Type,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Subject:     req.Subject,
		Message:     req.Message,
		CourseID:    req.CourseID,
		CourseTitle: req.CourseTitle,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, submittedResponse{
		ID:         result.ID,
		MailSent:   result.Mail.Sent,
		MailReason: result.Mail.Reason,
	})
}

// List handles GET /api/submissions with an optional ?type= filter.
func (h *SubmissionsHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type")))
	if kind != "" && kind != model.KindContact && kind != model.KindNewsletter {
		WriteBadRequest(w, "type must be contact or newsletter")
		return
	}

	rows, err := h.queries.ListSubmissions(r.Context(), kind)
	if err != nil {
		slog.Error("failed to list submissions", "error", err)
		writeError(w, r, err)
		return
	}

	items := make([]submissionJSON, 0, len(rows))
	for _, row := range rows {
		items = append(items, submissionView(row))
	}
	WriteJSON(w, http.StatusOK, listResponse{Data: items, Meta: listMeta{Total: len(items)}})
}

// UpdateStatus handles PATCH /api/submissions/{id}.
func (h *SubmissionsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	status, err := decodeStatus(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	row, err := h.queries.UpdateSubmissionStatus(r.Context(), store.UpdateSubmissionStatusParams{
		Status:    status,
		UpdatedAt: store.FormatTimestamp(h.now()),
		ID:        chi.URLParam(r, "id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, submissionView(row))
}

// Delete handles DELETE /api/submissions/{id}.
func (h *SubmissionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	n, err := h.queries.DeleteSubmission(r.Context(), chi.URLParam(r, "id"))
	if err == nil && n == 0 {
		err = errNotFound
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// CreateCourseRequest handles POST /api/course-requests.
func (h *SubmissionsHandler) CreateCourseRequest(w http.ResponseWriter, r *http.Request) {
	var req courseRequestBody
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	name := req.FullName
	if strings.TrimSpace(name) == "" {
		name = req.Name
	}

	result, err := h.submitter.Submit(r.Context(), submission.Input{
		Kind:        model.KindCourse,
		Name:        name,
		Email:       req.Email,
		CourseID:    req.CourseID,
		CourseTitle: req.CourseTitle,
		Password:    req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := submittedResponse{ID: result.ID, MailSent: result.Mail.Sent, MailReason: result.Mail.Reason}
	if result.CourseRequest != nil {
		view := courseRequestView(*result.CourseRequest)
		resp.Request = &view
	}
	WriteJSON(w, http.StatusCreated, resp)
}

// CheckCourseRequest handles GET /api/course-requests/check?email=&courseId=.
// The body is the stored record or null.
func (h *SubmissionsHandler) CheckCourseRequest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	email := strings.ToLower(strings.TrimSpace(q.Get("email")))
	courseID := strings.TrimSpace(q.Get("courseId"))
	if email == "" || courseID == "" {
		WriteBadRequest(w, "email and courseId are required")
		return
	}

	row, err := h.queries.GetCourseRequestByEmailCourse(r.Context(), store.GetCourseRequestByEmailCourseParams{
		Email:    email,
		CourseID: courseID,
	})
	if errors.Is(err, sql.ErrNoRows) {
		WriteJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, courseRequestView(row))
}

// ListCourseRequests handles GET /api/course-requests.
func (h *SubmissionsHandler) ListCourseRequests(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.ListCourseRequests(r.Context())
	if err != nil {
		slog.Error("failed to list course requests", "error", err)
		writeError(w, r, err)
		return
	}

	items := make([]courseRequestJSON, 0, len(rows))
	for _, row := range rows {
		items = append(items, courseRequestView(row))
	}
	WriteJSON(w, http.StatusOK, listResponse{Data: items, Meta: listMeta{Total: len(items)}})
}

// UpdateCourseRequestStatus handles PATCH /api/course-requests/{id}.
func (h *SubmissionsHandler) UpdateCourseRequestStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := courseRequestID(r)
	if !ok {
		WriteNotFound(w, "Course request not found")
		return
	}
	status, err := decodeStatus(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	row, err := h.queries.UpdateCourseRequestStatus(r.Context(), store.UpdateCourseRequestStatusParams{
		Status:    status,
		UpdatedAt: store.FormatTimestamp(h.now()),
		ID:        id,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, courseRequestView(row))
}

// DeleteCourseRequest handles DELETE /api/course-requests/{id}.
func (h *SubmissionsHandler) DeleteCourseRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := courseRequestID(r)
	if !ok {
		WriteNotFound(w, "Course request not found")
		return
	}

	n, err := h.queries.DeleteCourseRequest(r.Context(), id)
	if err == nil && n == 0 {
		err = errNotFound
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Requests handles GET /api/requests, the unified listing.
func (h *SubmissionsHandler) Requests(w http.ResponseWriter, r *http.Request) {
	items, err := submission.ListRequests(r.Context(), h.queries)
	if err != nil {
		slog.Error("failed to list requests", "error", err)
		writeError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, listResponse{Data: items, Meta: listMeta{Total: len(items)}})
}

func decodeStatus(w http.ResponseWriter, r *http.Request) (string, error) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return "", err
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !model.IsValidStatus(status) {
		return "", &submission.ValidationError{Message: "status must be one of " + strings.Join(model.ValidStatuses, ", ")}
	}
	return status, nil
}

func courseRequestID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}
