package httpserver

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

const sessionCookieName = "session_token"

type contextKey string

const identityKey contextKey = "identity"

// withIdentity resolves the caller's session identity once per request and
// stores the account ID in the request context. Absent or invalid tokens
// leave the request anonymous; authorization decisions belong to the
// handlers.
func (s *Server) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			if cookie, err := r.Cookie(sessionCookieName); err == nil {
				token = cookie.Value
			}
		}
		if token != "" {
			if accountID, err := s.tokens.Validate(token); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), identityKey, accountID))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// identityFrom returns the resolved account ID, or "" for anonymous callers.
func identityFrom(r *http.Request) string {
	id, _ := r.Context().Value(identityKey).(string)
	return id
}

// authed wraps a handler that requires a session, passing the caller's
// account ID as an explicit parameter. Anonymous callers get a generic 401
// with no detail about why.
func (s *Server) authed(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := identityFrom(r)
		if accountID == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r, accountID)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// setSessionCookie attaches the session token to the response.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.tokens.TTL()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie removes the session cookie. The token itself stays
// valid until expiry; sign-out is a client-side discard.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func withLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration", time.Since(start),
		)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Hijack lets the websocket upgrade on /live reach the underlying
// connection through the logging wrapper.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hj.Hijack()
}
