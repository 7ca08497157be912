package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelmondragon/retail-admin-backend/internal/users"
	"github.com/angelmondragon/retail-admin-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/retail-admin-backend/pkg/errors"
)

type stubLookup map[string]users.UserDTO

func (s stubLookup) GetByUsername(ctx context.Context, username string) (*users.UserDTO, error) {
	user, ok := s[username]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return &user, nil
}

func newTestSessions(t *testing.T, lookup userLookup) *Sessions {
	t.Helper()
	sessions, err := NewSessions(config.SessionConfig{SecretKey: "test-secret", TTL: time.Hour}, lookup, nil)
	if err != nil {
		t.Fatalf("NewSessions: %v", err)
	}
	return sessions
}

func issuedCookie(t *testing.T, sessions *Sessions, username string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	sessions.Issue(rec, username)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	return cookies[0]
}

func TestSessions_IssueSetsHardenedCookie(t *testing.T) {
	sessions := newTestSessions(t, stubLookup{})
	cookie := issuedCookie(t, sessions, "alice")

	if cookie.Name != "admin_session" {
		t.Fatalf("unexpected cookie name %q", cookie.Name)
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie not hardened: %+v", cookie)
	}
	if cookie.Value == "alice" {
		t.Fatal("cookie must be signed")
	}
}

func TestSessions_RequireAPI(t *testing.T) {
	sessions := newTestSessions(t, stubLookup{
		"alice": {ID: 7, Username: "alice", IsActive: true, IsSuperuser: true},
		"bob":   {ID: 8, Username: "bob", IsActive: false},
	})
	handler := sessions.RequireAPI()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := SessionUserFromContext(r.Context())
		if !ok || user.ID != 7 || !user.IsSuperuser {
			t.Fatalf("unexpected session user %+v", user)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := map[string]struct {
		cookie *http.Cookie
		want   int
	}{
		"valid":    {issuedCookie(t, sessions, "alice"), http.StatusNoContent},
		"missing":  {nil, http.StatusUnauthorized},
		"unsigned": {&http.Cookie{Name: "admin_session", Value: "alice"}, http.StatusUnauthorized},
		"inactive": {issuedCookie(t, sessions, "bob"), http.StatusUnauthorized},
		"unknown":  {issuedCookie(t, sessions, "carol"), http.StatusUnauthorized},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestSessions_ExpiredTokenRejected(t *testing.T) {
	sessions := newTestSessions(t, stubLookup{"alice": {ID: 1, Username: "alice", IsActive: true}})
	issuedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return issuedAt }
	cookie := issuedCookie(t, sessions, "alice")

	sessions.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	if _, ok, err := sessions.Resolve(req); err != nil || ok {
		t.Fatalf("expected expired session to be ignored, ok=%v err=%v", ok, err)
	}
}

func TestSessions_RequireWebRedirects(t *testing.T) {
	sessions := newTestSessions(t, stubLookup{})
	handler := sessions.RequireWeb("/web/login")(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/web/dashboard", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/web/login?error=login_required" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestSessions_ClearExpiresCookie(t *testing.T) {
	sessions := newTestSessions(t, stubLookup{})
	rec := httptest.NewRecorder()
	sessions.Clear(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expiring cookie, got %+v", cookies)
	}
}
