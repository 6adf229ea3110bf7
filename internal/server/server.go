// Package server is the composition root: it opens the database, builds the
// photo store and AI client, wires services into handlers and runs the HTTP
// server until SIGINT or SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/ganfan/internal/ai"
	"github.com/sakif/ganfan/internal/auth"
	"github.com/sakif/ganfan/internal/companion"
	"github.com/sakif/ganfan/internal/config"
	"github.com/sakif/ganfan/internal/handler"
	"github.com/sakif/ganfan/internal/kv"
	"github.com/sakif/ganfan/internal/middleware"
	"github.com/sakif/ganfan/internal/photo"
	sqliteRepo "github.com/sakif/ganfan/internal/repository/sqlite"
	"github.com/sakif/ganfan/internal/service"
)

// Server owns the database connection and the router.
type Server struct {
	cfg    config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	router chi.Router
}

// New opens the database at cfg.DBPath, creating its directory if needed,
// and wires the production dependencies.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	photos, err := newPhotoStore(ctx, cfg.Photo, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	gemini, err := ai.NewGeminiClient(ctx, ai.GeminiConfig{
		APIKey:     cfg.Gemini.APIKey,
		Model:      cfg.Gemini.Model,
		ImageModel: cfg.Gemini.ImageModel,
		BaseURL:    cfg.Gemini.BaseURL,
		Timeout:    cfg.Gemini.Timeout,
	}, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	if cfg.Gemini.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, AI features will answer with fallbacks")
	}

	s, err := newServer(cfg, logger, db, photos, gemini, time.Now)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func newPhotoStore(ctx context.Context, cfg config.PhotoConfig, logger *slog.Logger) (photo.Store, error) {
	if cfg.Backend != config.PhotoS3 {
		return photo.InlineStore{}, nil
	}

	store, err := photo.NewS3Store(ctx, photo.S3Config{
		Bucket:        cfg.Bucket,
		Region:        cfg.Region,
		Endpoint:      cfg.Endpoint,
		AccessKey:     cfg.AccessKey,
		SecretKey:     cfg.SecretKey,
		PublicBaseURL: cfg.PublicBaseURL,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating photo store: %w", err)
	}
	logger.Info("photos stored in S3", slog.String("bucket", cfg.Bucket))
	return store, nil
}

// newServer wires everything on top of already-built infrastructure. Tests
// call it with an in-memory database and a fake generator.
func newServer(cfg config.Config, logger *slog.Logger, db *sqliteRepo.DB, photos photo.Store, gen ai.Generator, now service.Clock) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		db:     db,
		router: chi.NewRouter(),
	}
	s.setupRoutes(tokens, photos, gen, now)
	return s, nil
}

// setupRoutes builds the dependency graph and the route table:
//
//	sqlite.DB → repositories → services → handlers
//
// Middleware order: RequestID, RealIP, Logger, Recoverer. The logger sits
// outside Recoverer so panics are logged with their 500.
func (s *Server) setupRoutes(tokens *auth.TokenService, photos photo.Store, gen ai.Generator, now service.Clock) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	meals := s.db.Meals()
	settings := kv.New(s.db.KV(), s.logger)
	gateway := ai.NewGateway(gen, s.logger)

	userService := service.NewUserService(s.db, meals, tokens, settings, photos, gateway, s.logger)
	mealService := service.NewMealService(meals, photos, gateway, now, s.logger)
	insightService := service.NewInsightService(meals, userService, gateway, now, s.logger)
	assistService := service.NewAssistService(gateway)

	userHandler := handler.NewUserHandler(userService, tokens, s.cfg.CookieSecure, s.logger)
	mealHandler := handler.NewMealHandler(mealService, s.logger)
	insightHandler := handler.NewInsightHandler(insightService, s.logger)
	companionHandler := handler.NewCompanionHandler(companion.NewPool(settings), companion.NewTapDetector(), s.logger)
	assistHandler := handler.NewAssistHandler(assistService)

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/login", userHandler.HandleLogin)
		r.Post("/logout", userHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/me", userHandler.HandleMe)
			r.Put("/me/avatar", userHandler.HandleSetAvatar)
			r.Post("/me/guardian", userHandler.HandleGenerateGuardian)
			r.Get("/preferences", userHandler.HandleGetPreferences)
			r.Put("/preferences", userHandler.HandleUpdatePreferences)

			r.Get("/meals", mealHandler.HandleList)
			r.Post("/meals", mealHandler.HandleCreate)
			r.Get("/feed", mealHandler.HandleFeed)

			r.Get("/garden", insightHandler.HandleGarden)
			r.Post("/garden/interact", insightHandler.HandleInteract)
			r.Get("/stats", insightHandler.HandleStats)
			r.Get("/analysis", insightHandler.HandleAnalysis)
			r.Get("/tips", insightHandler.HandleTips)

			r.Get("/companions", companionHandler.HandleList)
			r.Post("/companions", companionHandler.HandleAdd)
			r.Post("/companions/tap", companionHandler.HandleTap)
			r.Delete("/companions/{name}", companionHandler.HandleRemove)

			r.Post("/ai/cuisine", assistHandler.HandleCuisine)
			r.Post("/ai/scan", assistHandler.HandleScan)
			r.Post("/ai/brainstorm", assistHandler.HandleBrainstorm)
			r.Post("/ai/dishes", assistHandler.HandleDishes)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unavailable"}` + "\n"))
		return
	}
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until SIGINT or SIGTERM, then gives in-flight requests 30
// seconds to finish and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: s.router,
		// Photos arrive as data URLs and AI calls may take up to the
		// configured timeout, so these are looser than usual.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: s.cfg.Gemini.Timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.cfg.Port)),
			slog.String("database", s.cfg.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
