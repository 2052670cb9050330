// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/sitedesk/internal/auth"
	"github.com/olegiv/sitedesk/internal/middleware"
	"github.com/olegiv/sitedesk/internal/model"
	"github.com/olegiv/sitedesk/internal/store"
)

// AuthHandler handles admin login, logout and the current user.
type AuthHandler struct {
	queries        *store.Queries
	loginProtector *middleware.LoginProtection
	now            func() time.Time
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		queries:        store.New(db),
		loginProtector: lp,
		now:            time.Now,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  userJSON `json:"user"`
}

type userJSON struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func userView(u store.AdminUser) userJSON {
	return userJSON{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role,
		DisplayName: u.DisplayName,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// Login handles POST /api/admin/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		WriteBadRequest(w, "username and password are required")
		return
	}

	ip := middleware.ClientIP(r)

	if h.loginProtector != nil {
		if locked, remaining := h.loginProtector.IsAccountLocked(username); locked {
			slog.Warn("login attempt on locked account", "category", model.EventCategoryAuth, "username", username, "ip", ip)
			WriteError(w, http.StatusTooManyRequests, "account_locked",
				fmt.Sprintf("Account temporarily locked. Try again in %s.", remaining.Round(time.Second)), nil)
			return
		}
	}

	user, err := h.queries.GetUserByUsername(r.Context(), username)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		slog.Error("failed to load user for login", "error", err)
		writeError(w, r, err)
		return
	}

	valid := false
	if err == nil && user.IsActive {
		valid, err = auth.CheckPassword(req.Password, user.PasswordHash)
		if err != nil {
			slog.Error("stored password hash is invalid", "category", model.EventCategoryAuth, "user_id", user.ID, "error", err)
		}
	}
	if !valid {
		h.recordFailure(username, ip)
		WriteUnauthorized(w, "Invalid username or password")
		return
	}

	token, err := auth.NewSessionToken()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.queries.CreateSession(r.Context(), store.CreateSessionParams{
		TokenHash: auth.HashToken(token),
		UserID:    user.ID,
		CreatedAt: store.FormatTimestamp(h.now()),
	}); err != nil {
		slog.Error("failed to create session", "error", err)
		writeError(w, r, err)
		return
	}

	if h.loginProtector != nil {
		h.loginProtector.RecordSuccessfulLogin(username)
	}
	slog.Info("admin logged in", "user_id", user.ID, "username", user.Username, "ip", ip)
	WriteJSON(w, http.StatusOK, loginResponse{Token: token, User: userView(user)})
}

func (h *AuthHandler) recordFailure(username, ip string) {
	if h.loginProtector == nil {
		slog.Warn("failed login attempt", "category", model.EventCategoryAuth, "username", username, "ip", ip)
		return
	}
	if locked, _ := h.loginProtector.RecordFailedAttempt(username); locked {
		return
	}
	slog.Warn("failed login attempt",
		"category", model.EventCategoryAuth,
		"username", username,
		"ip", ip,
		"remaining_attempts", h.loginProtector.RemainingAttempts(username),
	)
}

// Logout handles POST /api/admin/logout. Only the presented token is revoked.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.queries.DeleteSession(r.Context(), middleware.GetTokenHash(r)); err != nil {
		slog.Error("failed to delete session", "error", err)
		writeError(w, r, err)
		return
	}
	if user := middleware.GetUser(r); user != nil {
		slog.Info("admin logged out", "user_id", user.ID)
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Me handles GET /api/admin/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}
	WriteJSON(w, http.StatusOK, userView(*user))
}
