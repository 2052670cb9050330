// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from the environment.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Historical sitemap file names. The store always writes both.
const (
	SitemapFileName       = "sitemap.json"
	LegacySitemapFileName = "site-map.json"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Env        string `env:"SITE_ENV" envDefault:"development"`
	LogLevel   string `env:"SITE_LOG_LEVEL" envDefault:"info"`
	ServerHost string `env:"SITE_SERVER_HOST" envDefault:"0.0.0.0"`
	ServerPort int    `env:"SITE_SERVER_PORT" envDefault:"8080"`

	DBPath      string `env:"SITE_DB_PATH" envDefault:"./data/site.db"`
	SitemapPath string `env:"SITE_SITEMAP_PATH" envDefault:"./data/sitemap.json"`
	UploadsDir  string `env:"SITE_UPLOADS_DIR" envDefault:"./uploads"`

	// PublicBaseURL overrides request-derived absolute URLs (e.g. https://example.az).
	PublicBaseURL string `env:"SITE_PUBLIC_BASE_URL"`

	CORSOrigins     []string `env:"SITE_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	DisplayTimezone string   `env:"SITE_DISPLAY_TIMEZONE" envDefault:"Asia/Baku"`

	MailAttemptTimeout time.Duration `env:"SITE_MAIL_ATTEMPT_TIMEOUT" envDefault:"20s"`
	MirrorReconcile    string        `env:"SITE_MIRROR_RECONCILE" envDefault:"@every 5m"`
	UploadMaxMB        int64         `env:"SITE_UPLOAD_MAX_MB" envDefault:"20"`

	// Seeding of the first admin account; an empty password is replaced by a random one.
	AdminUsername string `env:"SITE_ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"SITE_ADMIN_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// MirrorPaths returns the two sitemap files kept in sync with the database.
// The configured path comes first; the second is its historical twin.
func (c Config) MirrorPaths() [2]string {
	return MirrorPaths(c.SitemapPath)
}

// MirrorPaths derives the mirror pair for a primary sitemap path.
// sitemap.json and site-map.json pair with each other; any other
// file name pairs with sitemap.json in the same directory.
func MirrorPaths(primary string) [2]string {
	dir := filepath.Dir(primary)
	switch strings.ToLower(filepath.Base(primary)) {
	case SitemapFileName:
		return [2]string{primary, filepath.Join(dir, LegacySitemapFileName)}
	case LegacySitemapFileName:
		return [2]string{primary, filepath.Join(dir, SitemapFileName)}
	default:
		return [2]string{primary, filepath.Join(dir, SitemapFileName)}
	}
}

// DisplayLocation returns the time zone used for display timestamps.
// Unknown zone names fall back to a fixed UTC+4 offset.
func (c Config) DisplayLocation() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return time.FixedZone("UTC+4", 4*60*60)
	}
	return loc
}

// UploadMaxBytes returns the upload size limit in bytes.
func (c Config) UploadMaxBytes() int64 {
	return c.UploadMaxMB << 20
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("SITE_SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}
	if cfg.SitemapPath == "" {
		return nil, fmt.Errorf("SITE_SITEMAP_PATH must not be empty")
	}
	if cfg.UploadMaxMB <= 0 {
		cfg.UploadMaxMB = 20
	}
	cfg.PublicBaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.PublicBaseURL), "/")

	return cfg, nil
}
