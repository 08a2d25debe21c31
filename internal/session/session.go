// Package session holds the portal's only locally-owned state: the
// authenticated user's session, sealed into an encrypted http-only cookie.
// There is no server-side session table; the cookie is the session.
package session

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/condyapp/portal/internal/model"
)

// Session is the decoded cookie payload. Invariant: IsLoggedIn implies both
// Token and User are set; Create enforces it, Destroy clears all three.
type Session struct {
	IsLoggedIn bool        `json:"isLoggedIn"`
	Token      string      `json:"token,omitempty"`
	User       *model.User `json:"user,omitempty"`
	IssuedAt   time.Time   `json:"issuedAt,omitempty"`
}

// Anonymous returns the default logged-out session.
func Anonymous() *Session {
	return &Session{IsLoggedIn: false}
}

// Manager reads and writes the session cookie. It is request-scoped in use:
// each handler gets the session via Get and passes it down explicitly.
type Manager struct {
	codec      *Codec
	cookieName string
	maxAge     time.Duration
	secure     bool
}

// NewManager creates a Manager. maxAge bounds the cookie lifetime; the
// session is only refreshed by an explicit re-login.
func NewManager(codec *Codec, cookieName string, maxAge time.Duration, secure bool) *Manager {
	return &Manager{
		codec:      codec,
		cookieName: cookieName,
		maxAge:     maxAge,
		secure:     secure,
	}
}

// Get returns the session carried by the request cookie. A missing,
// expired, or undecipherable cookie yields the anonymous session rather
// than an error: from the portal's point of view the visitor is simply not
// logged in.
func (m *Manager) Get(r *http.Request) *Session {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return Anonymous()
	}

	plaintext, err := m.codec.Open(c.Value)
	if err != nil {
		return Anonymous()
	}

	var s Session
	if err := json.Unmarshal(plaintext, &s); err != nil {
		return Anonymous()
	}

	if s.IsLoggedIn && (s.Token == "" || s.User == nil) {
		// Broken invariant means a stale or forged payload.
		return Anonymous()
	}
	if !s.IssuedAt.IsZero() && time.Since(s.IssuedAt) > m.maxAge {
		return Anonymous()
	}

	return &s
}

// Create seals a fresh logged-in session into the response cookie and
// returns it. Token, user, and the logged-in flag are set together.
func (m *Manager) Create(w http.ResponseWriter, token string, user *model.User) (*Session, error) {
	s := &Session{
		IsLoggedIn: true,
		Token:      token,
		User:       user,
		IssuedAt:   time.Now().UTC(),
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}

	value, err := m.codec.Seal(payload)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	})

	return s, nil
}

// Destroy invalidates the session cookie.
func (m *Manager) Destroy(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

type contextKey int

const sessionContextKey contextKey = iota

// ContextWith returns a new context carrying the given session.
func ContextWith(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

// FromContext extracts the session from the context, or the anonymous
// session if none is present.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionContextKey).(*Session); ok {
		return s
	}
	return Anonymous()
}
