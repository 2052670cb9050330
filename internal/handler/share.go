// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/sitedesk/internal/content"
	"github.com/olegiv/sitedesk/internal/share"
	"github.com/olegiv/sitedesk/internal/util"
)

// ShareHandler renders crawler-facing preview pages.
type ShareHandler struct {
	store   *content.Store
	baseURL util.BaseURL
}

// NewShareHandler creates a new ShareHandler.
func NewShareHandler(s *content.Store, baseURL util.BaseURL) *ShareHandler {
	return &ShareHandler{store: s, baseURL: baseURL}
}

// BlogPost handles GET /share/blog/{id}. Unknown posts are a 404.
func (h *ShareHandler) BlogPost(w http.ResponseWriter, r *http.Request) {
	doc, _, err := h.store.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	meta, ok := share.ResolveBlogPost(doc, chi.URLParam(r, "id"), h.baseURL.Resolver(r))
	if !ok {
		WriteNotFound(w, "Blog post not found")
		return
	}
	h.render(w, r, meta)
}

// Page handles GET /share?path=..., /share?url=... and /share/*.
// It always renders a page; unknown routes get the site defaults.
func (h *ShareHandler) Page(w http.ResponseWriter, r *http.Request) {
	doc, _, err := h.store.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.render(w, r, share.Resolve(doc, sharePath(r), h.baseURL.Resolver(r)))
}

func (h *ShareHandler) render(w http.ResponseWriter, r *http.Request, meta share.Meta) {
	body, err := share.Render(meta)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// sharePath picks the front-end path from the query or the wildcard suffix.
func sharePath(r *http.Request) string {
	q := r.URL.Query()
	if p := q.Get("path"); p != "" {
		return p
	}
	if u := q.Get("url"); u != "" {
		return u
	}
	if rest := chi.URLParam(r, "*"); rest != "" {
		return "/" + strings.TrimPrefix(rest, "/")
	}
	return "/"
}
