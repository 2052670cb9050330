// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/olegiv/sitedesk/internal/content"
	"github.com/olegiv/sitedesk/internal/middleware"
	"github.com/olegiv/sitedesk/internal/upload"
	"github.com/olegiv/sitedesk/internal/util"
	"github.com/olegiv/sitedesk/internal/version"
)

// DefaultRequestTimeout covers a submission with every mail attempt timing out.
const DefaultRequestTimeout = 90 * time.Second

// RouterConfig holds everything the HTTP routes depend on.
type RouterConfig struct {
	DB        *sql.DB
	Content   *content.Store
	Submitter Submitter
	Uploads   *upload.Store
	BaseURL   util.BaseURL
	Version   *version.Info

	CORSOrigins    []string
	IsDevelopment  bool
	RequestTimeout time.Duration

	// LoginProtection guards POST /api/admin/login; nil uses defaults.
	LoginProtection *middleware.LoginProtection
	// PublicLimiter guards public POST endpoints; nil uses 1 rps with a burst of 10.
	PublicLimiter *middleware.RateLimiter
}

// NewRouter builds the application router.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.LoginProtection == nil {
		cfg.LoginProtection = middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	}
	if cfg.PublicLimiter == nil {
		cfg.PublicLimiter = middleware.NewRateLimiter(1, 10)
	}
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	contentHandler := NewContentHandler(cfg.Content)
	shareHandler := NewShareHandler(cfg.Content, cfg.BaseURL)
	submissionsHandler := NewSubmissionsHandler(cfg.DB, cfg.Submitter)
	authHandler := NewAuthHandler(cfg.DB, cfg.LoginProtection)
	usersHandler := NewUsersHandler(cfg.DB)
	eventsHandler := NewEventsHandler(cfg.DB)
	uploadsHandler := NewUploadsHandler(cfg.Uploads, cfg.BaseURL)
	healthHandler := NewHealthHandler(cfg.DB, cfg.Version)

	adminAuth := middleware.AdminAuth(cfg.DB)
	publicLimit := cfg.PublicLimiter.Middleware(http.MethodPost)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.HeaderAdminToken},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment)))

	r.Get("/health", healthHandler.Health)

	r.Route("/share", func(r chi.Router) {
		r.Get("/blog/{id}", shareHandler.BlogPost)
		r.Get("/", shareHandler.Page)
		r.Get("/*", shareHandler.Page)
	})

	if cfg.Uploads != nil {
		r.Get("/uploads/*", serveUploads(cfg.Uploads.Dir()))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.RequestTimeout))

		r.Get("/content", contentHandler.Get)
		r.With(publicLimit).Post("/submissions", submissionsHandler.Create)
		r.With(publicLimit).Post("/course-requests", submissionsHandler.CreateCourseRequest)
		r.Get("/course-requests/check", submissionsHandler.CheckCourseRequest)
		r.With(cfg.LoginProtection.Limiter().Middleware(http.MethodPost)).Post("/admin/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(adminAuth)

			r.Put("/content", contentHandler.Put)

			r.Get("/submissions", submissionsHandler.List)
			r.Patch("/submissions/{id}", submissionsHandler.UpdateStatus)
			r.Delete("/submissions/{id}", submissionsHandler.Delete)

			r.Get("/course-requests", submissionsHandler.ListCourseRequests)
			r.Patch("/course-requests/{id}", submissionsHandler.UpdateCourseRequestStatus)
			r.Delete("/course-requests/{id}", submissionsHandler.DeleteCourseRequest)

			r.Get("/requests", submissionsHandler.Requests)

			r.Post("/admin/logout", authHandler.Logout)
			r.Get("/admin/me", authHandler.Me)
			r.Get("/admin/events", eventsHandler.List)

			r.Post("/upload/image", uploadsHandler.Image)
			r.Post("/upload/file", uploadsHandler.File)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/admin/users", usersHandler.List)
				r.Post("/admin/users", usersHandler.Create)
				r.Patch("/admin/users/{id}", usersHandler.Update)
				r.Delete("/admin/users/{id}", usersHandler.Delete)
			})
		})

		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			WriteNotFound(w, "Endpoint not found")
		})
	})

	return r
}

// serveUploads serves stored files without directory listings.
func serveUploads(dir string) http.HandlerFunc {
	fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir)))
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			WriteNotFound(w, "Not found")
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		fs.ServeHTTP(w, r)
	}
}
