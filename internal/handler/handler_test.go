// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/olegiv/sitedesk/internal/auth"
	"github.com/olegiv/sitedesk/internal/config"
	"github.com/olegiv/sitedesk/internal/content"
	"github.com/olegiv/sitedesk/internal/mail"
	"github.com/olegiv/sitedesk/internal/middleware"
	"github.com/olegiv/sitedesk/internal/model"
	"github.com/olegiv/sitedesk/internal/store"
	"github.com/olegiv/sitedesk/internal/submission"
	"github.com/olegiv/sitedesk/internal/testutil"
	"github.com/olegiv/sitedesk/internal/upload"
	"github.com/olegiv/sitedesk/internal/util"
)

const testPassword = "secret-pass"

// fakeMailer records notifications and answers with a fixed result.
type fakeMailer struct {
	mu     sync.Mutex
	result mail.Result
	calls  []mail.Notification
}

func (f *fakeMailer) Send(_ context.Context, n mail.Notification) mail.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, n)
	return f.result
}

func (f *fakeMailer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type testEnv struct {
	t       *testing.T
	db      *sql.DB
	mailer  *fakeMailer
	content *content.Store
	uploads string
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.TestMemDB(t)
	dir := t.TempDir()
	logger := testutil.TestLogger()
	mailer := &fakeMailer{result: mail.Result{Sent: true}}
	contentStore := content.NewStore(db, config.MirrorPaths(filepath.Join(dir, "sitemap.json")), logger)
	uploadsDir := filepath.Join(dir, "uploads")

	h := NewRouter(RouterConfig{
		DB:        db,
		Content:   contentStore,
		Submitter: submission.NewPipeline(db, mailer, logger, time.UTC),
		Uploads:   upload.NewStore(uploadsDir, 1<<20),
		BaseURL:   util.BaseURL{Public: "https://example.az"},
		LoginProtection: middleware.NewLoginProtection(middleware.LoginProtectionConfig{
			IPRateLimit: 1000,
			IPBurst:     1000,
		}),
		PublicLimiter: middleware.NewRateLimiter(1000, 1000),
	})

	return &testEnv{t: t, db: db, mailer: mailer, content: contentStore, uploads: uploadsDir, handler: h}
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

// createUser inserts an active user with testPassword.
func (e *testEnv) createUser(username, role string) store.AdminUser {
	e.t.Helper()
	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		e.t.Fatalf("HashPassword: %v", err)
	}
	user, err := store.New(e.db).CreateUser(context.Background(), store.CreateUserParams{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		DisplayName:  username,
		IsActive:     true,
		CreatedAt:    store.FormatTimestamp(time.Now()),
	})
	if err != nil {
		e.t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func (e *testEnv) login(username, password string) string {
	e.t.Helper()
	rr := e.do(http.MethodPost, "/api/admin/login", "", map[string]string{"username": username, "password": password})
	if rr.Code != http.StatusOK {
		e.t.Fatalf("login %s: status %d, body %s", username, rr.Code, rr.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(e.t, rr, &resp)
	if resp.Token == "" {
		e.t.Fatal("login returned empty token")
	}
	return resp.Token
}

func (e *testEnv) adminToken() string {
	e.t.Helper()
	e.createUser("root", model.RoleAdmin)
	return e.login("root", testPassword)
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding %q: %v", rr.Body.String(), err)
	}
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body middleware.APIError
	decodeBody(t, rr, &body)
	return body.Error.Code
}
