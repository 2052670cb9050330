// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for admin authentication,
// rate limiting, security headers and request timeouts.
package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/sitedesk/internal/auth"
	"github.com/olegiv/sitedesk/internal/model"
	"github.com/olegiv/sitedesk/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for authenticated requests.
const (
	ContextKeyUser      ContextKey = "user"
	ContextKeyTokenHash ContextKey = "token_hash"
)

// HeaderAdminToken is the alternative to "Authorization: Bearer".
const HeaderAdminToken = "X-Admin-Token"

// APIError is the JSON body of every error response.
type APIError struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// WriteAPIError writes a JSON error response.
func WriteAPIError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	apiErr := APIError{}
	apiErr.Error.Code = code
	apiErr.Error.Message = message
	apiErr.Error.Details = details

	_ = json.NewEncoder(w).Encode(apiErr)
}

// TokenFromRequest returns the bearer token, or the X-Admin-Token header.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "bearer") {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get(HeaderAdminToken))
}

// AdminAuth rejects requests without a token that maps to an active user.
// The user is stored in the request context.
func AdminAuth(db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
				return
			}

			hash := auth.HashToken(token)
			user, err := queries.GetActiveSessionUser(r.Context(), hash)
			if err != nil {
				if !errors.Is(err, sql.ErrNoRows) {
					slog.Error("failed to validate admin session", "category", model.EventCategoryAuth, "error", err)
				}
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired session", nil)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			ctx = context.WithValue(ctx, ContextKeyTokenHash, hash)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin allows only users with the admin role. Use after AdminAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		if user == nil {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required", nil)
			return
		}
		if user.Role != model.RoleAdmin {
			WriteAPIError(w, http.StatusForbidden, "forbidden", "Admin role required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUser returns the authenticated user, or nil.
func GetUser(r *http.Request) *store.AdminUser {
	user, ok := r.Context().Value(ContextKeyUser).(store.AdminUser)
	if !ok {
		return nil
	}
	return &user
}

// GetTokenHash returns the hash of the token the request authenticated with.
func GetTokenHash(r *http.Request) string {
	hash, _ := r.Context().Value(ContextKeyTokenHash).(string)
	return hash
}
