// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/sitedesk/internal/upload"
	"github.com/olegiv/sitedesk/internal/util"
)

// uploadField is the multipart field carrying the file.
const uploadField = "file"

// UploadsHandler accepts admin file uploads.
type UploadsHandler struct {
	store   *upload.Store
	baseURL util.BaseURL
}

// NewUploadsHandler creates a new UploadsHandler.
func NewUploadsHandler(s *upload.Store, baseURL util.BaseURL) *UploadsHandler {
	return &UploadsHandler{store: s, baseURL: baseURL}
}

type uploadResponse struct {
	URL          string `json:"url"`
	AbsoluteURL  string `json:"absoluteUrl"`
	Name         string `json:"name"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
}

// Image handles POST /api/upload/image.
func (h *UploadsHandler) Image(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, upload.KindImage)
}

// File handles POST /api/upload/file.
func (h *UploadsHandler) File(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, upload.KindFile)
}

func (h *UploadsHandler) save(w http.ResponseWriter, r *http.Request, kind string) {
	// Allow some room for the multipart envelope.
	r.Body = http.MaxBytesReader(w, r.Body, h.store.MaxBytes()+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "too_large", upload.ErrTooLarge.Error(), nil)
			return
		}
		WriteBadRequest(w, "Invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		WriteBadRequest(w, "No file uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	saved, err := h.store.Save(file, header.Filename, kind)
	switch {
	case errors.Is(err, upload.ErrTooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, "too_large", err.Error(), nil)
		return
	case errors.Is(err, upload.ErrUnsupportedType), errors.Is(err, upload.ErrInvalidImage):
		WriteBadRequest(w, err.Error())
		return
	case err != nil:
		slog.Error("failed to store upload", "kind", kind, "error", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "Failed to store upload", nil)
		return
	}

	rel := "/uploads/" + saved.Name
	slog.Info("file uploaded", "kind", kind, "name", saved.Name, "size", saved.Size, "user_id", actorID(r))

	WriteJSON(w, http.StatusCreated, uploadResponse{
		URL:          rel,
		AbsoluteURL:  h.baseURL.Absolute(r, rel),
		Name:         saved.Name,
		OriginalName: saved.OriginalName,
		MimeType:     saved.MimeType,
		Size:         saved.Size,
		Width:        saved.Width,
		Height:       saved.Height,
	})
}
