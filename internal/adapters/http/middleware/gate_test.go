package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"swingadmin/internal/adapters/http/middleware"
)

// fixedResolver returns a canned resolution outcome.
type fixedResolver struct {
	session middleware.Session
	ok      bool
	err     error
}

func (f fixedResolver) Resolve(r *http.Request) (middleware.Session, bool, error) {
	return f.session, f.ok, f.err
}

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	return httptest.NewRequest("GET", "/api/messages", nil)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("error body is not JSON: %v", err)
	}
	return body["error"]
}

// TestAuthorizeAPICall tests the API gate's status code mapping.
func TestAuthorizeAPICall(t *testing.T) {
	tests := []struct {
		name       string
		resolver   fixedResolver
		wantStatus int
		wantErr    error
	}{
		{
			name:       "admin email exact match",
			resolver:   fixedResolver{session: middleware.Session{AccountID: "a1", Email: "admin@example.com"}, ok: true},
			wantStatus: 0,
			wantErr:    nil,
		},
		{
			name:       "admin email differing case",
			resolver:   fixedResolver{session: middleware.Session{AccountID: "a1", Email: "Admin@Example.com"}, ok: true},
			wantStatus: 0,
			wantErr:    nil,
		},
		{
			name:       "no session",
			resolver:   fixedResolver{},
			wantStatus: http.StatusUnauthorized,
			wantErr:    middleware.ErrUnauthenticated,
		},
		{
			name:       "session without email",
			resolver:   fixedResolver{session: middleware.Session{AccountID: "a1"}, ok: true},
			wantStatus: http.StatusUnauthorized,
			wantErr:    middleware.ErrUnauthenticated,
		},
		{
			name:       "wrong identity",
			resolver:   fixedResolver{session: middleware.Session{AccountID: "a2", Email: "someone@example.com"}, ok: true},
			wantStatus: http.StatusForbidden,
			wantErr:    middleware.ErrForbidden,
		},
		{
			name:       "resolver failure",
			resolver:   fixedResolver{err: errors.New("auth service down")},
			wantStatus: http.StatusInternalServerError,
			wantErr:    errors.New("any"), // only non-nil-ness is asserted
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := middleware.NewAdminGate("admin@example.com", tt.resolver)
			rec := httptest.NewRecorder()

			session, err := gate.AuthorizeAPICall(rec, newRequest(t))

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if session.Email == "" {
					t.Error("authorized session has no email")
				}
				if rec.Body.Len() != 0 {
					t.Errorf("response body written on success: %q", rec.Body.String())
				}
				return
			}

			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if msg := decodeError(t, rec); msg == "" {
				t.Error("error body has no message")
			}
			if tt.wantStatus == http.StatusUnauthorized && !errors.Is(err, middleware.ErrUnauthenticated) {
				t.Errorf("err = %v, want ErrUnauthenticated", err)
			}
			if tt.wantStatus == http.StatusForbidden && !errors.Is(err, middleware.ErrForbidden) {
				t.Errorf("err = %v, want ErrForbidden", err)
			}
		})
	}
}

// TestAuthorizeServerRender tests the page gate's redirect behavior.
func TestAuthorizeServerRender(t *testing.T) {
	tests := []struct {
		name       string
		resolver   fixedResolver
		authorized bool
	}{
		{
			name:       "admin authorized case-insensitively",
			resolver:   fixedResolver{session: middleware.Session{AccountID: "a1", Email: "ADMIN@example.COM"}, ok: true},
			authorized: true,
		},
		{
			name:     "no session redirects",
			resolver: fixedResolver{},
		},
		{
			name:     "missing email redirects",
			resolver: fixedResolver{session: middleware.Session{AccountID: "a1"}, ok: true},
		},
		{
			name:     "wrong identity redirects",
			resolver: fixedResolver{session: middleware.Session{AccountID: "a2", Email: "someone@example.com"}, ok: true},
		},
		{
			name:     "resolver failure redirects",
			resolver: fixedResolver{err: errors.New("auth service down")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := middleware.NewAdminGate("admin@example.com", tt.resolver)
			result := gate.AuthorizeServerRender(newRequest(t))

			if result.Authorized != tt.authorized {
				t.Fatalf("Authorized = %v, want %v", result.Authorized, tt.authorized)
			}
			if tt.authorized && result.Target != "" {
				t.Errorf("authorized result carries a redirect target %q", result.Target)
			}
			if !tt.authorized && result.Target != middleware.LoginPath {
				t.Errorf("redirect target = %q, want %q", result.Target, middleware.LoginPath)
			}
		})
	}
}

// TestAuthorizeServerRender_SameRedirectForAllFailures verifies the
// deliberate indistinguishability of "not logged in" and "wrong email".
func TestAuthorizeServerRender_SameRedirectForAllFailures(t *testing.T) {
	gate := middleware.NewAdminGate("admin@example.com", fixedResolver{})
	anon := gate.AuthorizeServerRender(newRequest(t))

	gate = middleware.NewAdminGate("admin@example.com",
		fixedResolver{session: middleware.Session{AccountID: "a2", Email: "someone@example.com"}, ok: true})
	wrong := gate.AuthorizeServerRender(newRequest(t))

	if anon.Target != wrong.Target {
		t.Errorf("redirect targets differ: %q vs %q", anon.Target, wrong.Target)
	}
}

// TestStoreResolver tests cookie-backed session resolution.
func TestStoreResolver(t *testing.T) {
	sessions := middleware.NewSessionStore()
	token, err := sessions.Create("a1", "admin@example.com")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	resolver := middleware.StoreResolver{Sessions: sessions}

	// Valid cookie resolves.
	r := newRequest(t)
	r.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	session, ok, err := resolver.Resolve(r)
	if err != nil || !ok {
		t.Fatalf("Resolve = (%v, %v), want session", ok, err)
	}
	if session.Email != "admin@example.com" {
		t.Errorf("email = %q", session.Email)
	}

	// No cookie resolves to no session, not an error.
	_, ok, err = resolver.Resolve(newRequest(t))
	if err != nil || ok {
		t.Errorf("Resolve without cookie = (%v, %v), want (false, nil)", ok, err)
	}

	// Unknown token resolves to no session.
	r = newRequest(t)
	r.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "bogus"})
	_, ok, err = resolver.Resolve(r)
	if err != nil || ok {
		t.Errorf("Resolve with bogus token = (%v, %v), want (false, nil)", ok, err)
	}
}
