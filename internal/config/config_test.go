// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearSiteEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "SITE_") {
			t.Setenv(key, "")
			_ = os.Unsetenv(key)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearSiteEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/site.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/site.db")
	}
	if cfg.SitemapPath != "./data/sitemap.json" {
		t.Errorf("SitemapPath = %q, want %q", cfg.SitemapPath, "./data/sitemap.json")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.MailAttemptTimeout != 20*time.Second {
		t.Errorf("MailAttemptTimeout = %v, want %v", cfg.MailAttemptTimeout, 20*time.Second)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearSiteEnv(t)
	t.Setenv("SITE_DB_PATH", "/custom/path.db")
	t.Setenv("SITE_SERVER_PORT", "3000")
	t.Setenv("SITE_ENV", "production")
	t.Setenv("SITE_PUBLIC_BASE_URL", " https://example.az/ ")
	t.Setenv("SITE_CORS_ORIGINS", "https://example.az,https://admin.example.az")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "/custom/path.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/custom/path.db")
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "0.0.0.0:3000")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
	if cfg.PublicBaseURL != "https://example.az" {
		t.Errorf("PublicBaseURL = %q, want %q", cfg.PublicBaseURL, "https://example.az")
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v, want 2 entries", cfg.CORSOrigins)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	clearSiteEnv(t)
	t.Setenv("SITE_SERVER_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Error("Load() with port 70000 should fail")
	}
}

func TestMirrorPaths(t *testing.T) {
	dir := filepath.Join("data", "content")
	tests := []struct {
		primary string
		want    [2]string
	}{
		{filepath.Join(dir, "sitemap.json"), [2]string{filepath.Join(dir, "sitemap.json"), filepath.Join(dir, "site-map.json")}},
		{filepath.Join(dir, "site-map.json"), [2]string{filepath.Join(dir, "site-map.json"), filepath.Join(dir, "sitemap.json")}},
		{filepath.Join(dir, "content.json"), [2]string{filepath.Join(dir, "content.json"), filepath.Join(dir, "sitemap.json")}},
	}

	for _, tt := range tests {
		t.Run(tt.primary, func(t *testing.T) {
			got := MirrorPaths(tt.primary)
			if got != tt.want {
				t.Errorf("MirrorPaths(%q) = %v, want %v", tt.primary, got, tt.want)
			}
		})
	}
}

func TestDisplayLocation_Fallback(t *testing.T) {
	cfg := Config{DisplayTimezone: "Not/AZone"}
	_, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).In(cfg.DisplayLocation()).Zone()
	if offset != 4*60*60 {
		t.Errorf("fallback offset = %d, want %d", offset, 4*60*60)
	}
}
