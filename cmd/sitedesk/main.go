// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/sitedesk/internal/config"
	"github.com/olegiv/sitedesk/internal/content"
	"github.com/olegiv/sitedesk/internal/handler"
	"github.com/olegiv/sitedesk/internal/logging"
	"github.com/olegiv/sitedesk/internal/mail"
	"github.com/olegiv/sitedesk/internal/middleware"
	"github.com/olegiv/sitedesk/internal/scheduler"
	"github.com/olegiv/sitedesk/internal/store"
	"github.com/olegiv/sitedesk/internal/submission"
	"github.com/olegiv/sitedesk/internal/upload"
	"github.com/olegiv/sitedesk/internal/util"
	"github.com/olegiv/sitedesk/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "sitedesk - site content and submissions backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITE_DB_PATH           SQLite database path (default: ./data/site.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITE_SITEMAP_PATH      Primary sitemap mirror (default: ./data/sitemap.json)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITE_UPLOADS_DIR       Upload directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITE_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITE_PUBLIC_BASE_URL   Public origin for absolute URLs (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITE_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITE_ADMIN_USERNAME    First admin account (default: admin)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SITE_ADMIN_PASSWORD    First admin password (random when empty)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	versionInfo := &version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showVersion {
		_, _ = fmt.Println(versionInfo.String())
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(versionInfo *version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := scheduler.ValidateSchedule(cfg.MirrorReconcile); err != nil {
		return fmt.Errorf("SITE_MIRROR_RECONCILE: %w", err)
	}

	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// WARN and ERROR records also go to the event log table.
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := store.SeedAdmin(ctx, db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}

	contentStore := content.NewStore(db, cfg.MirrorPaths(), logger)
	if _, _, err := contentStore.Get(ctx); err != nil {
		return fmt.Errorf("loading content: %w", err)
	}
	slog.Info("content store ready", "mirrors", contentStore.Mirrors())

	dispatcher := mail.NewDispatcher(contentStore, mail.SMTPSender{}, logger, cfg.MailAttemptTimeout)
	pipeline := submission.NewPipeline(db, dispatcher, logger, cfg.DisplayLocation())

	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}
	uploads := upload.NewStore(cfg.UploadsDir, cfg.UploadMaxBytes())

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	go loginProtection.Run(ctx, 10*time.Minute)

	sched := scheduler.New(contentStore, cfg.MirrorReconcile, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	router := handler.NewRouter(handler.RouterConfig{
		DB:              db,
		Content:         contentStore,
		Submitter:       pipeline,
		Uploads:         uploads,
		BaseURL:         util.BaseURL{Public: cfg.PublicBaseURL},
		Version:         versionInfo,
		CORSOrigins:     cfg.CORSOrigins,
		IsDevelopment:   cfg.IsDevelopment(),
		LoginProtection: loginProtection,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      handler.DefaultRequestTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
