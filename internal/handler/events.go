// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/olegiv/sitedesk/internal/store"
)

// Event list limits.
const (
	defaultEventLimit = 100
	maxEventLimit     = 500
)

// EventsHandler lists the persisted WARN/ERROR event log.
type EventsHandler struct {
	queries *store.Queries
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(db *sql.DB) *EventsHandler {
	return &EventsHandler{queries: store.New(db)}
}

type eventJSON struct {
	ID        int64           `json:"id"`
	Level     string          `json:"level"`
	Category  string          `json:"category"`
	Message   string          `json:"message"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt string          `json:"createdAt"`
}

// List handles GET /api/admin/events?limit=N, newest first.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			WriteBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = min(n, maxEventLimit)
	}

	events, err := h.queries.ListRecentEvents(r.Context(), int64(limit))
	if err != nil {
		slog.Error("failed to list events", "error", err)
		writeError(w, r, err)
		return
	}

	items := make([]eventJSON, 0, len(events))
	for _, e := range events {
		item := eventJSON{
			ID:        e.ID,
			Level:     e.Level,
			Category:  e.Category,
			Message:   e.Message,
			CreatedAt: e.CreatedAt,
		}
		if json.Valid([]byte(e.Metadata)) {
			item.Metadata = json.RawMessage(e.Metadata)
		}
		items = append(items, item)
	}
	WriteJSON(w, http.StatusOK, listResponse{Data: items, Meta: listMeta{Total: len(items)}})
}
