package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vitrinecms/vitrine/internal/auth"
	"github.com/vitrinecms/vitrine/internal/handler"
	"github.com/vitrinecms/vitrine/internal/ratelimit"
	"github.com/vitrinecms/vitrine/internal/region"
	"github.com/vitrinecms/vitrine/internal/server/middleware"
	"github.com/vitrinecms/vitrine/internal/store"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	EnforceTLS      bool
	FloodLimit      int   // coarse per-IP requests per minute, 0 disables
	JSONBodyLimit   int64 // bytes
	UploadBodyLimit int64 // bytes
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8080,
		ShutdownTimeout: 30 * time.Second,
		CORSOrigins:     []string{"*"},
		EnforceTLS:      false,
		FloodLimit:      1200,
		JSONBodyLimit:   1 * 1024 * 1024,  // 1MB
		UploadBodyLimit: 10 * 1024 * 1024, // 10MB
	}
}

// Server is the top-level HTTP server. It owns the Chi router, the relational
// store, and the auth services, and composes the request pipeline around them.
type Server struct {
	cfg        Config
	router     chi.Router
	store      *store.Store
	tokens     *auth.TokenService
	csrf       *auth.CSRFGuard
	lockout    *auth.LoginLimiter
	limiter    *ratelimit.Limiter
	resolver   *region.Resolver
	regions    region.Config
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a new Server, wires up all routes and middleware, and returns
// it ready to listen. Call ListenAndServe to start accepting connections.
func New(cfg Config, st *store.Store, tokens *auth.TokenService, regions region.Config, logger *slog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		store:    st,
		tokens:   tokens,
		csrf:     auth.NewCSRFGuard(),
		lockout:  auth.NewLoginLimiter(),
		limiter:  ratelimit.NewLimiter(ratelimit.NewMemoryStore()),
		resolver: region.NewResolver(regions),
		regions:  regions,
		logger:   logger,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// --- Global middleware ---
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Region(s.resolver))
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)
	if s.cfg.FloodLimit > 0 {
		r.Use(middleware.FloodCeiling(s.cfg.FloodLimit))
	}
	r.Use(middleware.EnforceTLS(s.cfg.EnforceTLS))
	r.Use(middleware.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", auth.CSRFHeaderName, "X-Requested-With"},
		ExposedHeaders: []string{"X-Request-ID", auth.CSRFHeaderName,
			"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.BodyLimit(s.cfg.JSONBodyLimit, s.cfg.UploadBodyLimit))
	r.Use(chimw.Compress(5))

	// --- Health checks (no auth required) ---
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	authHandler := handler.NewAuthHandler(s.store, s.tokens, s.csrf, s.lockout, s.logger)
	contentHandler := handler.NewContentHandler(s.store, s.logger)
	adminHandler := handler.NewAdminHandler(s.store, s.logger)
	activityHandler := handler.NewActivityHandler(s.store, s.logger)

	publicLimit := middleware.RateLimit(s.limiter, ratelimit.Public, middleware.PublicKey)
	adminLimit := middleware.RateLimit(s.limiter, ratelimit.Admin, middleware.AdminKey)

	// --- Session endpoints ---
	// Login is CSRF-exempt (no token exists pre-session) and guarded by the
	// public limiter plus the per-username lockout inside the handler.
	r.Group(func(r chi.Router) {
		r.Use(publicLimit)
		r.Use(middleware.Audit(s.store, s.logger))
		r.Post("/auth/login", authHandler.Login)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(s.tokens))
		r.Use(middleware.Audit(s.store, s.logger))
		r.Post("/auth/logout", authHandler.Logout)
		r.Post("/auth/refresh", authHandler.Refresh)
	})

	// --- Public content, one route tree per configured region prefix ---
	// The Region middleware has already resolved the code from the prefix;
	// handlers just read it from the context.
	mountPublic := func(r chi.Router) {
		r.Use(publicLimit)
		r.Get("/slider", contentHandler.PublicSliderImages)
		r.Get("/gallery", contentHandler.PublicGalleryImages)
		r.Get("/logos", contentHandler.PublicLogos)
		r.Get("/services", contentHandler.PublicServices)
		r.Get("/team", contentHandler.PublicTeamMembers)
		r.Get("/page-content", contentHandler.PublicPageContent)
		r.Get("/section-images", contentHandler.PublicSectionImages)
	}
	for _, reg := range s.regions.Regions {
		r.Route(reg.PathPrefix, mountPublic)
	}
	r.Route("/content", mountPublic)

	// --- Admin API ---
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Authenticate(s.tokens))
		r.Use(middleware.CSRF(s.csrf))
		r.Use(adminLimit)
		r.Use(middleware.Audit(s.store, s.logger))

		// Region-scoped content management.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRegionAccess(s.resolver))

			r.Get("/slider", contentHandler.ListSliderImages)
			r.Post("/slider", contentHandler.CreateSliderImage)
			r.Put("/slider/{id}", contentHandler.UpdateSliderImage)
			r.Delete("/slider/{id}", contentHandler.DeleteSliderImage)

			r.Get("/gallery", contentHandler.ListGalleryImages)
			r.Post("/gallery", contentHandler.CreateGalleryImage)
			r.Put("/gallery/{id}", contentHandler.UpdateGalleryImage)
			r.Delete("/gallery/{id}", contentHandler.DeleteGalleryImage)

			r.Get("/logos", contentHandler.ListLogos)
			r.Post("/logos", contentHandler.CreateLogo)
			r.Put("/logos/{id}", contentHandler.UpdateLogo)
			r.Delete("/logos/{id}", contentHandler.DeleteLogo)

			r.Get("/services", contentHandler.ListServices)
			r.Post("/services", contentHandler.CreateService)
			r.Put("/services/{id}", contentHandler.UpdateService)
			r.Delete("/services/{id}", contentHandler.DeleteService)

			r.Get("/team", contentHandler.ListTeamMembers)
			r.Post("/team", contentHandler.CreateTeamMember)
			r.Put("/team/{id}", contentHandler.UpdateTeamMember)
			r.Delete("/team/{id}", contentHandler.DeleteTeamMember)

			r.Get("/page-content", contentHandler.ListPageContent)
			r.Put("/page-content", contentHandler.UpsertPageContent)
			r.Delete("/page-content/{id}", contentHandler.DeletePageContent)

			r.Get("/section-images", contentHandler.ListSectionImages)
			r.Post("/section-images", contentHandler.CreateSectionImage)
			r.Put("/section-images/{id}", contentHandler.UpdateSectionImage)
			r.Delete("/section-images/{id}", contentHandler.DeleteSectionImage)
		})

		// Account management and the audit trail are super-admin only and not
		// region-scoped.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSuperAdmin())

			r.Get("/accounts", adminHandler.List)
			r.Post("/accounts", adminHandler.Create)
			r.Get("/accounts/{id}", adminHandler.Get)
			r.Put("/accounts/{id}", adminHandler.Update)
			r.Delete("/accounts/{id}", adminHandler.Delete)

			r.Get("/activity", activityHandler.List)
		})
	})

	s.router = r
}

// handleHealthz is a liveness probe. Returns 200 if the process is running.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleReadyz is a readiness probe. Returns 200 when the store is reachable,
// or 503 otherwise.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.store.Ping(); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"degraded","checks":{"store":"` + err.Error() + `"}}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok","checks":{"store":"ok"}}`))
}

// ListenAndServe starts the HTTP server and blocks until a SIGINT or SIGTERM
// is received. It then performs a graceful shutdown, draining in-flight
// requests before closing the store.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if err := s.store.Close(); err != nil {
		s.logger.Warn("store close failed", "error", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Router returns the underlying Chi router, useful for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler, delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
