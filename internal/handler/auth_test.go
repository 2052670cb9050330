// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/sitedesk/internal/model"
)

func TestAuth_LoginMeLogout(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("root", model.RoleAdmin)

	if rr := env.do(http.MethodPost, "/api/admin/login", "", map[string]string{"username": "root", "password": "wrong"}); rr.Code != http.StatusUnauthorized {
		t.Errorf("wrong password = %d, want 401", rr.Code)
	}
	if rr := env.do(http.MethodPost, "/api/admin/login", "", map[string]string{"username": "nobody", "password": "x"}); rr.Code != http.StatusUnauthorized {
		t.Errorf("unknown user = %d, want 401", rr.Code)
	}
	if rr := env.do(http.MethodPost, "/api/admin/login", "", map[string]string{"username": ""}); rr.Code != http.StatusBadRequest {
		t.Errorf("empty credentials = %d, want 400", rr.Code)
	}

	// Usernames are case-insensitive.
	token := env.login("ROOT", testPassword)
	other := env.login("root", testPassword)

	rr := env.do(http.MethodGet, "/api/admin/me", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("me = %d", rr.Code)
	}
	var me userJSON
	decodeBody(t, rr, &me)
	if me.Username != "root" || me.Role != model.RoleAdmin {
		t.Errorf("me = %+v", me)
	}

	if rr := env.do(http.MethodGet, "/api/admin/me", "", nil); rr.Code != http.StatusUnauthorized {
		t.Errorf("me without token = %d, want 401", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.Header.Set("x-admin-token", token)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("me via x-admin-token = %d, want 200", rec.Code)
	}

	if rr := env.do(http.MethodPost, "/api/admin/logout", token, nil); rr.Code != http.StatusOK {
		t.Fatalf("logout = %d", rr.Code)
	}
	if rr := env.do(http.MethodGet, "/api/admin/me", token, nil); rr.Code != http.StatusUnauthorized {
		t.Errorf("me after logout = %d, want 401", rr.Code)
	}
	if rr := env.do(http.MethodGet, "/api/admin/me", other, nil); rr.Code != http.StatusOK {
		t.Errorf("other session after logout = %d, want 200", rr.Code)
	}
}

func TestAuth_AccountLockout(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("root", model.RoleAdmin)

	for i := 0; i < 5; i++ {
		rr := env.do(http.MethodPost, "/api/admin/login", "", map[string]string{"username": "root", "password": "wrong"})
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d = %d, want 401", i+1, rr.Code)
		}
	}

	rr := env.do(http.MethodPost, "/api/admin/login", "", map[string]string{"username": "root", "password": testPassword})
	if rr.Code != http.StatusTooManyRequests || errorCode(t, rr) != "account_locked" {
		t.Errorf("locked login = %d %s, want 429 account_locked", rr.Code, rr.Body.String())
	}
}

func TestUsers_DeactivationRevokesTokens(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken()

	rr := env.do(http.MethodPost, "/api/admin/users", admin, map[string]string{
		"username": "editor1",
		"password": "editor-pass",
		"role":     "editor",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create = %d, body %s", rr.Code, rr.Body.String())
	}
	var created userJSON
	decodeBody(t, rr, &created)
	if created.Role != model.RoleEditor || !created.IsActive || created.DisplayName != "editor1" {
		t.Errorf("created = %+v", created)
	}

	editor := env.login("editor1", "editor-pass")
	if rr := env.do(http.MethodGet, "/api/admin/me", editor, nil); rr.Code != http.StatusOK {
		t.Fatalf("editor me = %d", rr.Code)
	}

	path := fmt.Sprintf("/api/admin/users/%d", created.ID)
	rr = env.do(http.MethodPatch, path, admin, map[string]any{"isActive": false})
	if rr.Code != http.StatusOK {
		t.Fatalf("deactivate = %d, body %s", rr.Code, rr.Body.String())
	}

	if rr := env.do(http.MethodGet, "/api/admin/me", editor, nil); rr.Code != http.StatusUnauthorized {
		t.Errorf("old token after deactivation = %d, want 401", rr.Code)
	}

	// Reactivating does not bring old tokens back.
	env.do(http.MethodPatch, path, admin, map[string]any{"isActive": true})
	if rr := env.do(http.MethodGet, "/api/admin/me", editor, nil); rr.Code != http.StatusUnauthorized {
		t.Errorf("old token after reactivation = %d, want 401", rr.Code)
	}
	if rr := env.do(http.MethodPost, "/api/admin/login", "", map[string]string{"username": "editor1", "password": "editor-pass"}); rr.Code != http.StatusOK {
		t.Errorf("login after reactivation = %d", rr.Code)
	}
}

func TestUsers_DeleteRevokesTokens(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken()
	user := env.createUser("temp", model.RoleEditor)
	token := env.login("temp", testPassword)

	if rr := env.do(http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", user.ID), admin, nil); rr.Code != http.StatusOK {
		t.Fatalf("delete = %d", rr.Code)
	}
	if rr := env.do(http.MethodGet, "/api/admin/me", token, nil); rr.Code != http.StatusUnauthorized {
		t.Errorf("token of deleted user = %d, want 401", rr.Code)
	}
	if rr := env.do(http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", user.ID), admin, nil); rr.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rr.Code)
	}
}

func TestUsers_Guards(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken()
	env.createUser("ed", model.RoleEditor)
	editor := env.login("ed", testPassword)

	rr := env.do(http.MethodGet, "/api/admin/me", admin, nil)
	var me userJSON
	decodeBody(t, rr, &me)
	self := fmt.Sprintf("/api/admin/users/%d", me.ID)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		want   int
	}{
		{"editor cannot list users", http.MethodGet, "/api/admin/users", editor, nil, http.StatusForbidden},
		{"admin lists users", http.MethodGet, "/api/admin/users", admin, nil, http.StatusOK},
		{"short password", http.MethodPost, "/api/admin/users", admin, map[string]string{"username": "x", "password": "123"}, http.StatusBadRequest},
		{"bad role", http.MethodPost, "/api/admin/users", admin, map[string]string{"username": "x", "password": "123456", "role": "owner"}, http.StatusBadRequest},
		{"duplicate username", http.MethodPost, "/api/admin/users", admin, map[string]string{"username": "ED", "password": "123456"}, http.StatusConflict},
		{"self deactivate", http.MethodPatch, self, admin, map[string]any{"isActive": false}, http.StatusBadRequest},
		{"self demote", http.MethodPatch, self, admin, map[string]any{"role": "editor"}, http.StatusBadRequest},
		{"self delete", http.MethodDelete, self, admin, nil, http.StatusBadRequest},
		{"rename self", http.MethodPatch, self, admin, map[string]any{"displayName": "Boss"}, http.StatusOK},
		{"unknown user", http.MethodPatch, "/api/admin/users/999", admin, map[string]any{"displayName": "x"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(tt.method, tt.path, tt.token, tt.body)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d; body %s", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestEvents_ListsWarnings(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken()

	rr := env.do(http.MethodGet, "/api/admin/events?limit=5", admin, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("events = %d", rr.Code)
	}
	if rr := env.do(http.MethodGet, "/api/admin/events?limit=0", admin, nil); rr.Code != http.StatusBadRequest {
		t.Errorf("limit=0 = %d, want 400", rr.Code)
	}
	if rr := env.do(http.MethodGet, "/api/admin/events", "", nil); rr.Code != http.StatusUnauthorized {
		t.Errorf("events without token = %d, want 401", rr.Code)
	}
}
