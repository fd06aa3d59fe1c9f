// Package api exposes the HTTP transport: routing, the authentication and
// admin guards, cookie handling for refresh tokens, and request/response
// mapping for the session service.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/RTHeLL/mg-test/internal/logging"
	"github.com/RTHeLL/mg-test/internal/server/auth"
	"github.com/RTHeLL/mg-test/internal/server/ratelimit"
	"github.com/RTHeLL/mg-test/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

// Server wires handlers, guards, and collaborators behind a gorilla/mux
// router.
type Server struct {
	addr        string
	environment string
	router      *mux.Router
	sessions    *services.SessionService
	users       *services.UserService
	codec       *auth.Codec
	limiter     ratelimit.Limiter
	logger      logging.Logger
}

// NewServer builds the HTTP server and registers all routes.
func NewServer(addr, environment string, sessionService *services.SessionService, userService *services.UserService,
	codec *auth.Codec, limiter ratelimit.Limiter, logger logging.Logger) *Server {

	s := &Server{
		addr:        addr,
		environment: environment,
		sessions:    sessionService,
		users:       userService,
		codec:       codec,
		limiter:     limiter,
		logger:      logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	apiV1 := r.PathPrefix("/api/v1").Subrouter()

	authRoutes := apiV1.PathPrefix("/auth").Subrouter()
	authRoutes.HandleFunc("/signup", s.handleSignUp).Methods(http.MethodPost)
	authRoutes.HandleFunc("/signin", s.handleSignIn).Methods(http.MethodPost)
	authRoutes.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodGet)
	authRoutes.HandleFunc("/logout", s.handleLogout).Methods(http.MethodGet)

	// Guards compose sequentially: authenticate populates the identity,
	// requireAdmin reads it.
	userRoutes := apiV1.PathPrefix("/users").Subrouter()
	userRoutes.Use(s.authenticate)
	userRoutes.HandleFunc("/{id:[0-9]+}", s.handleGetUser).Methods(http.MethodGet)
	userRoutes.Handle("/{id:[0-9]+}", s.requireAdmin(http.HandlerFunc(s.handleDeleteUser))).Methods(http.MethodDelete)

	return r
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info(ctx, "http server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
