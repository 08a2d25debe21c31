package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/condyapp/portal/internal/model"
	"github.com/condyapp/portal/internal/session"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const requestIDKey contextKey = "request_id"

// RequestIDFromContext extracts the request ID from the context.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// requestIDMiddleware ensures every request has an X-Request-ID.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if id == "" {
			id = generateID()
		}

		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// generateID produces a 32-character hex string from 16 random bytes.
func generateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// secureHeaders adds security-related response headers.
func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "0")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// slogRequestLogger logs every request and feeds the HTTP metrics.
func (h *Handler) slogRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		if h.metrics != nil {
			h.metrics.IncHTTPRequest(r.Method, routePattern(r), ww.Status())
			h.metrics.ObserveHTTPDuration(r.Method, routePattern(r), elapsed.Seconds())
		}

		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", elapsed.Milliseconds(),
			"bytes", ww.BytesWritten(),
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}

// routePattern returns the chi route pattern so metric cardinality stays
// bounded: one series per route, not per URL.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// withSession decodes the session cookie once per request and stores the
// session in the context.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := h.sessions.Get(r)
		ctx := session.ContextWith(r.Context(), s)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireSession guards JSON action routes: without a logged-in session
// the client gets 401 and a login redirect target.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := session.FromContext(r.Context())
		if !s.IsLoggedIn {
			writeJSON(w, http.StatusUnauthorized, logoutResponse{
				Success:  false,
				Error:    "Faça login para continuar.",
				Code:     "unauthenticated",
				Redirect: "/login",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// pageGate guards full page loads for a role area. Unauthenticated and
// wrong-role visitors are redirected to the login page.
func (h *Handler) pageGate(allowed func(model.UserType) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := session.FromContext(r.Context())
			if !s.IsLoggedIn || s.User == nil || !allowed(s.User.UserType) {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireRole guards JSON routes restricted to a role set.
func (h *Handler) requireRole(allowed func(model.UserType) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := session.FromContext(r.Context())
			if s.User == nil || !allowed(s.User.UserType) {
				writeError(w, http.StatusForbidden, "forbidden", "Você não tem acesso a esta área.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
