package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// LoginPath is the redirect target for every rejected page load. The
// unauthenticated and wrong-identity cases redirect to the same place
// on purpose: a page caller must not be able to tell them apart.
const LoginPath = "/login"

// Gate errors, returned by AuthorizeAPICall after the response has been
// written. Callers must stop processing when one is returned.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")
)

// SessionResolver yields the caller's session for a request. The
// concrete implementation is backed by the auth service; a lookup
// failure there is distinct from "no session".
type SessionResolver interface {
	Resolve(r *http.Request) (Session, bool, error)
}

// StoreResolver resolves sessions from the session cookie against an
// in-memory SessionStore. It never fails: a missing or expired token is
// simply not a session.
type StoreResolver struct {
	Sessions *SessionStore
}

// Resolve implements SessionResolver.
func (sr StoreResolver) Resolve(r *http.Request) (Session, bool, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return Session{}, false, nil
	}
	session, ok := sr.Sessions.Get(cookie.Value)
	return session, ok, nil
}

// AdminGate is the single authorization boundary for the dashboard.
// Exactly one identity is allowed through: the statically configured
// admin email, compared case-insensitively. There is no role table and
// no per-resource permission.
type AdminGate struct {
	adminEmail string // canonical lower-case form
	resolver   SessionResolver
}

// NewAdminGate creates a gate for the given admin email.
// PRE: adminEmail is non-empty (enforced at startup)
func NewAdminGate(adminEmail string, resolver SessionResolver) *AdminGate {
	return &AdminGate{
		adminEmail: strings.ToLower(adminEmail),
		resolver:   resolver,
	}
}

// RenderResult is the outcome of gating a server-rendered page: either
// an authorized session or a redirect target, never both.
type RenderResult struct {
	Authorized bool
	Session    Session
	Target     string // set when !Authorized
}

// AuthorizeServerRender gates a page render. Missing sessions, sessions
// without an email, and sessions with the wrong email all yield the
// same redirect; a session matching the admin email is authorized.
// Resolver failures are treated as "not logged in" on the page path —
// the login page is the right destination either way.
// INVARIANT: read-only; no response is written
func (g *AdminGate) AuthorizeServerRender(r *http.Request) RenderResult {
	session, ok, err := g.resolver.Resolve(r)
	if err != nil {
		slog.Error("session_resolve_failed", "error", err.Error(), "path", r.URL.Path)
		return RenderResult{Target: LoginPath}
	}
	if !ok || session.Email == "" {
		return RenderResult{Target: LoginPath}
	}
	if !strings.EqualFold(session.Email, g.adminEmail) {
		return RenderResult{Target: LoginPath}
	}
	return RenderResult{Authorized: true, Session: session}
}

// AuthorizeAPICall gates an API request. On failure it writes the
// response (500 on resolver error, 401 without a session or email,
// 403 on identity mismatch) and returns a non-nil error; the caller
// must not touch any record afterwards. On success it returns the
// authorized session.
func (g *AdminGate) AuthorizeAPICall(w http.ResponseWriter, r *http.Request) (Session, error) {
	session, ok, err := g.resolver.Resolve(r)
	if err != nil {
		slog.Error("session_resolve_failed", "error", err.Error(), "path", r.URL.Path)
		writeGateError(w, http.StatusInternalServerError, "session verification failed")
		return Session{}, fmt.Errorf("resolve session: %w", err)
	}
	if !ok || session.Email == "" {
		writeGateError(w, http.StatusUnauthorized, ErrUnauthenticated.Error())
		return Session{}, ErrUnauthenticated
	}
	if !strings.EqualFold(session.Email, g.adminEmail) {
		writeGateError(w, http.StatusForbidden, ErrForbidden.Error())
		return Session{}, ErrForbidden
	}
	return session, nil
}

func writeGateError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
