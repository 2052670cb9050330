// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/olegiv/sitedesk/internal/content"
	"github.com/olegiv/sitedesk/internal/middleware"
	"github.com/olegiv/sitedesk/internal/model"
	"github.com/olegiv/sitedesk/internal/store"
	"github.com/olegiv/sitedesk/internal/submission"
)

// ContentHandler serves and replaces the site content document.
type ContentHandler struct {
	store *content.Store
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(s *content.Store) *ContentHandler {
	return &ContentHandler{store: s}
}

type contentResponse struct {
	Document  content.Document `json:"document"`
	UpdatedAt string           `json:"updatedAt"`
}

// Get handles GET /api/content.
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, updatedAt, err := h.store.Get(r.Context())
	if err != nil {
		slog.Error("failed to load content", "category", model.EventCategoryContent, "error", err)
		writeError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, contentResponse{Document: doc, UpdatedAt: store.FormatTimestamp(updatedAt)})
}

// Put handles PUT /api/content. The body is {"document": {...}} and the
// document replaces the stored one wholesale.
func (h *ContentHandler) Put(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		writeError(w, r, &submission.ValidationError{Message: "request body too large"})
		return
	}

	raw, err := content.Decode(data)
	if err != nil {
		writeError(w, r, &submission.ValidationError{Message: "invalid JSON body"})
		return
	}
	doc := content.AsObject(content.AsObject(raw)["document"])
	if doc == nil {
		writeError(w, r, &submission.ValidationError{Message: "document must be a JSON object"})
		return
	}

	normalized := content.Normalize(doc)
	updatedAt, err := h.store.Save(r.Context(), normalized)
	if err != nil {
		slog.Error("failed to save content", "category", model.EventCategoryContent, "error", err)
		writeError(w, r, err)
		return
	}

	user := middleware.GetUser(r)
	if user != nil {
		slog.Info("content updated", "user", user.Username)
	}
	WriteJSON(w, http.StatusOK, contentResponse{Document: normalized, UpdatedAt: store.FormatTimestamp(updatedAt)})
}
