// Package httpserver exposes the blogging service over HTTP/JSON.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bhuumii/Medium/internal/auth"
	"github.com/bhuumii/Medium/internal/config"
	"github.com/bhuumii/Medium/internal/domain"
)

// Server is the HTTP server for the blogging API.
type Server struct {
	cfg        *config.Config
	blog       *domain.BlogService
	tokens     *auth.TokenIssuer
	logger     *slog.Logger
	httpServer *http.Server
}

// NewServer creates the HTTP server. live is an optional handler for the
// websocket event stream; pass nil to leave the endpoint unregistered.
func NewServer(cfg *config.Config, blog *domain.BlogService, tokens *auth.TokenIssuer, live http.Handler, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		blog:   blog,
		tokens: tokens,
		logger: logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/federated", s.handleFederated)
	mux.HandleFunc("POST /api/logout", s.handleLogout)

	mux.HandleFunc("GET /api/profile", s.authed(s.handleGetProfile))
	mux.HandleFunc("POST /api/profile", s.authed(s.handleUpdateProfile))
	mux.HandleFunc("POST /api/change-password", s.authed(s.handleChangePassword))

	mux.HandleFunc("GET /api/posts", s.handleHomeFeed)
	mux.HandleFunc("POST /api/posts", s.authed(s.handleCreatePost))
	mux.HandleFunc("GET /api/posts/{slug}", s.handleGetPost)
	mux.HandleFunc("PUT /api/posts/{id}", s.authed(s.handleUpdatePost))
	mux.HandleFunc("DELETE /api/posts/{id}", s.authed(s.handleDeletePost))
	mux.HandleFunc("POST /api/posts/{id}/like", s.authed(s.handleLike))
	mux.HandleFunc("DELETE /api/posts/{id}/like", s.authed(s.handleUnlike))

	mux.HandleFunc("GET /api/bookmarks", s.authed(s.handleLibrary))
	mux.HandleFunc("POST /api/bookmarks", s.authed(s.handleToggleBookmark))
	mux.HandleFunc("GET /api/stories", s.authed(s.handleStories))
	mux.HandleFunc("GET /api/users/{id}/posts", s.handleAuthorPosts)
	mux.HandleFunc("GET /api/search", s.handleSearch)

	if live != nil {
		mux.Handle("GET /live", live)
	}
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      withLogging(logger, s.withIdentity(mux)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the server's full handler chain, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for HTTP requests. It blocks until the server is
// shut down or an error occurs.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps the domain failure taxonomy to HTTP statuses.
// Anything outside the taxonomy is logged with detail and returned as a
// generic 500 so storage-layer internals never leak to clients.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "Conflict")
	default:
		s.logger.Error("internal error",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}

// decodeJSON decodes a request body into v, rejecting malformed JSON with a
// client-facing validation error.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &domain.ValidationError{Message: "Invalid JSON body"}
	}
	return nil
}
