// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the JSON API, share preview and upload handlers.
package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/olegiv/sitedesk/internal/middleware"
	"github.com/olegiv/sitedesk/internal/submission"
)

// maxJSONBody limits JSON request bodies. The content document is the largest.
const maxJSONBody = 10 << 20

// errNotFound is returned by handlers for unknown ids.
var errNotFound = errors.New("not found")

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	middleware.WriteAPIError(w, statusCode, code, message, details)
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, nil)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message, nil)
}

// conflictResponse is the 409 body: the usual error plus the stored record.
type conflictResponse struct {
	Error    errorDetail `json:"error"`
	Existing any         `json:"existing"`
}

// deliveryResponse is the 502 body for a submission whose mail failed.
type deliveryResponse struct {
	Error      errorDetail `json:"error"`
	MailSent   bool        `json:"mailSent"`
	MailReason string      `json:"mailReason"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps err onto an HTTP response. Typed submission errors and
// sql.ErrNoRows get their own status; anything else is a 400 carrying the
// error message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *submission.ValidationError
		conflict   *submission.ConflictError
		delivery   *submission.DeliveryError
	)

	switch {
	case errors.As(err, &validation):
		WriteBadRequest(w, validation.Message)
	case errors.As(err, &conflict):
		WriteJSON(w, http.StatusConflict, conflictResponse{
			Error:    errorDetail{Code: "conflict", Message: "Course request already exists"},
			Existing: courseRequestView(conflict.Existing),
		})
	case errors.As(err, &delivery):
		WriteJSON(w, http.StatusBadGateway, deliveryResponse{
			Error:      errorDetail{Code: "mail_failed", Message: "Notification could not be delivered"},
			MailSent:   false,
			MailReason: delivery.Reason,
		})
	case errors.Is(err, sql.ErrNoRows), errors.Is(err, errNotFound):
		WriteNotFound(w, "Not found")
	default:
		slog.Warn("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg := err.Error()
		if msg == "" {
			msg = "Request failed"
		}
		WriteBadRequest(w, msg)
	}
}

// decodeJSON reads a JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return &submission.ValidationError{Message: "request body is empty"}
		}
		return &submission.ValidationError{Message: fmt.Sprintf("invalid JSON body: %v", err)}
	}
	return nil
}
