// Package server wires the application together: it is the composition root
// where the database, services, handlers, middleware and routes meet.
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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nkazarin/noteboard/internal/auth"
	"github.com/nkazarin/noteboard/internal/config"
	"github.com/nkazarin/noteboard/internal/handler"
	"github.com/nkazarin/noteboard/internal/middleware"
	"github.com/nkazarin/noteboard/internal/moderation"
	sqliteRepo "github.com/nkazarin/noteboard/internal/repository/sqlite"
	"github.com/nkazarin/noteboard/internal/service"
	"github.com/nkazarin/noteboard/internal/view"
)

// Server owns the router and the database connection; the connection is
// closed on shutdown so the WAL is flushed and the file lock released.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
//
//	sqlite.DB → repositories → services → handlers → routes
//
// Each layer sees only the one below it: services get repository interfaces,
// handlers get services, routes get handlers.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// Handler exposes the router, mainly so tests can drive the whole stack
// through httptest without opening a port.
func (s *Server) Handler() http.Handler { return s.router }

// DB exposes the storage layer for seeding fixtures (news articles have no
// HTTP write path).
func (s *Server) DB() *sqliteRepo.DB { return s.db }

// setupRoutes builds middleware, services, handlers and the route table.
//
// ROUTE TABLE:
//
//	GET  /                                        news feed          public
//	GET  /news/{newsID}                           article + comments public
//	POST /news/{newsID}                           add comment        login
//	GET+POST /news/{newsID}/edit_comment/{id}     edit own comment   login, owner-or-404
//	GET+POST+DELETE /news/{newsID}/delete_comment/{id}  delete own comment  login, owner-or-404
//	GET  /notes                                   own notes          login
//	GET+POST /notes/add                           create note        login
//	GET  /notes/done                              success page       login
//	GET  /notes/note/{slug}                       own note           login, owner-or-404
//	GET+POST /notes/edit/{slug}                   edit own note      login, owner-or-404
//	GET+POST+DELETE /notes/delete/{slug}          delete own note    login, owner-or-404
//	GET+POST /auth/{signup,login,logout}          accounts           public
//	GET  /auth/github/{login,callback}            OAuth              public
//	GET  /metrics                                 Prometheus         public
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.cfg.Auth.JWTSecret, time.Duration(s.cfg.Auth.SessionTTLMinutes)*time.Minute)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}
	passwords := auth.NewPasswordService(s.cfg.Auth.BcryptCost)

	var github *auth.GitHubProvider
	if gh := s.cfg.Auth.GitHub; gh.ClientID != "" && gh.ClientSecret != "" && gh.CallbackURL != "" {
		github = auth.NewGitHubProvider(gh.ClientID, gh.ClientSecret, gh.CallbackURL)
	}

	views, err := view.New()
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	filter := moderation.New(s.cfg.Moderation.BadWords, s.cfg.Moderation.Warning)

	authSvc := service.NewAuthService(s.db, passwords, tokens, s.logger)
	noteSvc := service.NewNoteService(s.db, s.logger)
	newsSvc := service.NewNewsService(s.db, s.db, s.logger)
	commentSvc := service.NewCommentService(s.db, s.db, filter, s.logger)

	authHandler := handler.NewAuthHandler(views, authSvc, tokens, github, s.logger)
	newsHandler := handler.NewNewsHandler(views, authSvc, newsSvc, commentSvc, s.logger)
	commentHandler := handler.NewCommentHandler(views, authSvc, commentSvc, s.logger)
	noteHandler := handler.NewNoteHandler(views, authSvc, noteSvc, s.logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	// Django-style URLs carry trailing slashes; accept both forms.
	s.router.Use(chimiddleware.StripSlashes)
	s.router.Use(middleware.Logger(s.logger))

	s.router.Handle("/metrics", promhttp.Handler())

	// Public pages carry the identity when present so the navigation and the
	// per-comment edit links render correctly.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.OptionalAuth(tokens))

		r.Get("/", newsHandler.HandleHome)
		r.Get("/news/{newsID}", newsHandler.HandleDetail)

		r.Get("/auth/signup", authHandler.HandleSignupPage)
		r.Post("/auth/signup", authHandler.HandleSignup)
		r.Get("/auth/login", authHandler.HandleLoginPage)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Get("/auth/logout", authHandler.HandleLogoutPage)
		r.Post("/auth/logout", authHandler.HandleLogout)
		r.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		r.Get("/auth/github/callback", authHandler.HandleGitHubCallback)

		// chi wraps this with the group's middleware, so the 404 page still
		// renders the logged-in navigation.
		r.NotFound(newsHandler.NotFound)
	})

	// Everything below redirects anonymous visitors to the login page with
	// a ?next= pointing back here.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireLogin(tokens))

		r.Post("/news/{newsID}", newsHandler.HandleCommentCreate)
		r.Get("/news/{newsID}/edit_comment/{commentID}", commentHandler.HandleEditPage)
		r.Post("/news/{newsID}/edit_comment/{commentID}", commentHandler.HandleEdit)
		r.Get("/news/{newsID}/delete_comment/{commentID}", commentHandler.HandleDeletePage)
		r.Post("/news/{newsID}/delete_comment/{commentID}", commentHandler.HandleDelete)
		r.Delete("/news/{newsID}/delete_comment/{commentID}", commentHandler.HandleDelete)

		r.Get("/notes", noteHandler.HandleList)
		r.Get("/notes/add", noteHandler.HandleAddPage)
		r.Post("/notes/add", noteHandler.HandleAdd)
		r.Get("/notes/done", noteHandler.HandleDone)
		r.Get("/notes/note/{slug}", noteHandler.HandleDetail)
		r.Get("/notes/edit/{slug}", noteHandler.HandleEditPage)
		r.Post("/notes/edit/{slug}", noteHandler.HandleEdit)
		r.Get("/notes/delete/{slug}", noteHandler.HandleDeletePage)
		r.Post("/notes/delete/{slug}", noteHandler.HandleDelete)
		r.Delete("/notes/delete/{slug}", noteHandler.HandleDelete)
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, drain in-flight requests, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
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
			slog.Int("port", s.cfg.Server.Port),
			slog.String("database", s.cfg.Database.Path),
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
