// Package server wires the router, middleware and handlers together and
// owns the HTTP listener lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/arif/devnetwork/internal/auth"
	"github.com/arif/devnetwork/internal/handler"
	"github.com/arif/devnetwork/internal/middleware"
	sqliteRepo "github.com/arif/devnetwork/internal/repository/sqlite"
	"github.com/arif/devnetwork/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
}

// Server is the HTTP server and its owned resources. The database
// connection belongs to the server and is closed on shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain: database stores feed the
// services, services feed the handlers, handlers get mounted on the
// router. Each layer only receives what it needs — handlers never touch
// the database, services never touch HTTP.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Router exposes the configured handler tree, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()
	requireAuth := auth.RequireAuth(tokens)

	authService := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	profileService := service.NewProfileService(s.db.Profiles(), s.db.Users(), s.logger)
	postService := service.NewPostService(s.db.Posts(), s.db.Users(), s.logger)

	userHandler := handler.NewUserHandler(authService, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)
	profileHandler := handler.NewProfileHandler(profileService, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", userHandler.HandleRegister)

		r.Post("/auth", authHandler.HandleLogin)
		r.With(requireAuth).Get("/auth", authHandler.HandleCurrentUser)

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", profileHandler.HandleList)
			r.Get("/user/{userID}", profileHandler.HandleGetByUser)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", profileHandler.HandleGetMine)
				r.Post("/", profileHandler.HandleUpsert)
				r.Delete("/", profileHandler.HandleDeleteAccount)
				r.Put("/experience", profileHandler.HandleAddExperience)
				r.Delete("/experience/{entryID}", profileHandler.HandleRemoveExperience)
				r.Put("/education", profileHandler.HandleAddEducation)
				r.Delete("/education/{entryID}", profileHandler.HandleRemoveEducation)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", postHandler.HandleCreate)
			r.Get("/", postHandler.HandleList)
			r.Get("/{postID}", postHandler.HandleGet)
			r.Delete("/{postID}", postHandler.HandleDelete)
			r.Put("/like/{postID}", postHandler.HandleLike)
			r.Put("/unlike/{postID}", postHandler.HandleUnlike)
			r.Post("/comment/{postID}", postHandler.HandleAddComment)
			r.Delete("/{postID}/comment/{commentID}", postHandler.HandleRemoveComment)
		})
	})

	return nil
}

// Start runs the listener until a SIGINT/SIGTERM or a server error, then
// shuts down gracefully: stop accepting connections, drain in-flight
// requests (30s budget), close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
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
