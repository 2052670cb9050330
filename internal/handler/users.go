// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/sitedesk/internal/auth"
	"github.com/olegiv/sitedesk/internal/middleware"
	"github.com/olegiv/sitedesk/internal/model"
	"github.com/olegiv/sitedesk/internal/store"
	"github.com/olegiv/sitedesk/internal/submission"
)

// UsersHandler handles admin user management.
type UsersHandler struct {
	queries *store.Queries
	now     func() time.Time
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(db *sql.DB) *UsersHandler {
	return &UsersHandler{queries: store.New(db), now: time.Now}
}

type createUserRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
}

// updateUserRequest fields are optional; nil leaves the value unchanged.
type updateUserRequest struct {
	Role        *string `json:"role"`
	DisplayName *string `json:"displayName"`
	IsActive    *bool   `json:"isActive"`
	Password    *string `json:"password"`
}

// List handles GET /api/admin/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		slog.Error("failed to list users", "error", err)
		writeError(w, r, err)
		return
	}

	items := make([]userJSON, 0, len(users))
	for _, u := range users {
		items = append(items, userView(u))
	}
	WriteJSON(w, http.StatusOK, listResponse{Data: items, Meta: listMeta{Total: len(items)}})
}

// Create handles POST /api/admin/users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	username := strings.TrimSpace(req.Username)
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = model.RoleEditor
	}
	if err := validateUser(username, req.Password, role); err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := h.queries.GetUserByUsername(r.Context(), username); err == nil {
		WriteError(w, http.StatusConflict, "conflict", "Username already exists", nil)
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		writeError(w, r, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = username
	}

	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		DisplayName:  displayName,
		IsActive:     true,
		CreatedAt:    store.FormatTimestamp(h.now()),
	})
	if err != nil {
		slog.Error("failed to create user", "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("admin user created", "user_id", user.ID, "username", user.Username, "role", user.Role, "by", actorID(r))
	WriteJSON(w, http.StatusCreated, userView(user))
}

// Update handles PATCH /api/admin/users/{id}. Deactivating a user revokes
// all of their sessions.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	self := actorID(r) == user.ID
	params := store.UpdateUserParams{
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		DisplayName:  user.DisplayName,
		IsActive:     user.IsActive,
		UpdatedAt:    store.FormatTimestamp(h.now()),
		ID:           user.ID,
	}

	if req.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*req.Role))
		if !model.IsValidRole(role) {
			WriteBadRequest(w, "role must be one of "+strings.Join(model.ValidRoles, ", "))
			return
		}
		if self && role != model.RoleAdmin {
			WriteBadRequest(w, "You cannot remove your own admin role")
			return
		}
		params.Role = role
	}
	if req.DisplayName != nil {
		params.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.IsActive != nil {
		if self && !*req.IsActive {
			WriteBadRequest(w, "You cannot deactivate your own account")
			return
		}
		params.IsActive = *req.IsActive
	}
	if req.Password != nil {
		if len(*req.Password) < auth.MinPasswordLength {
			WriteBadRequest(w, fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength))
			return
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			writeError(w, r, err)
			return
		}
		params.PasswordHash = hash
	}

	updated, err := h.queries.UpdateUser(r.Context(), params)
	if err != nil {
		slog.Error("failed to update user", "user_id", user.ID, "error", err)
		writeError(w, r, err)
		return
	}

	if user.IsActive && !updated.IsActive {
		revoked, err := h.queries.DeleteSessionsByUser(r.Context(), updated.ID)
		if err != nil {
			slog.Error("failed to revoke sessions of deactivated user", "category", model.EventCategoryAuth, "user_id", updated.ID, "error", err)
		} else {
			slog.Info("admin user deactivated", "user_id", updated.ID, "revoked_sessions", revoked, "by", actorID(r))
		}
	}

	WriteJSON(w, http.StatusOK, userView(updated))
}

// Delete handles DELETE /api/admin/users/{id}.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	if actorID(r) == user.ID {
		WriteBadRequest(w, "You cannot delete your own account")
		return
	}

	if _, err := h.queries.DeleteSessionsByUser(r.Context(), user.ID); err != nil {
		slog.Error("failed to revoke sessions of deleted user", "category", model.EventCategoryAuth, "user_id", user.ID, "error", err)
		writeError(w, r, err)
		return
	}
	if _, err := h.queries.DeleteUser(r.Context(), user.ID); err != nil {
		slog.Error("failed to delete user", "user_id", user.ID, "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("admin user deleted", "user_id", user.ID, "username", user.Username, "by", actorID(r))
	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *UsersHandler) loadUser(w http.ResponseWriter, r *http.Request) (store.AdminUser, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteNotFound(w, "User not found")
		return store.AdminUser{}, false
	}
	user, err := h.queries.GetUserByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return store.AdminUser{}, false
	}
	return user, true
}

func validateUser(username, password, role string) error {
	if username == "" {
		return &submission.ValidationError{Message: "username is required"}
	}
	if len(password) < auth.MinPasswordLength {
		return &submission.ValidationError{Message: fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength)}
	}
	if !model.IsValidRole(role) {
		return &submission.ValidationError{Message: "role must be one of " + strings.Join(model.ValidRoles, ", ")}
	}
	return nil
}

func actorID(r *http.Request) int64 {
	if user := middleware.GetUser(r); user != nil {
		return user.ID
	}
	return 0
}
