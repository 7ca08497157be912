package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/retail-admin-backend/api/middleware"
	"github.com/angelmondragon/retail-admin-backend/internal/downloads"
	"github.com/angelmondragon/retail-admin-backend/internal/testdb"
	"github.com/angelmondragon/retail-admin-backend/internal/users"
	"github.com/angelmondragon/retail-admin-backend/pkg/config"
	"github.com/angelmondragon/retail-admin-backend/pkg/security"
)

type memoryRateStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (m *memoryRateStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int64{}
	}
	m.counts[key]++
	return m.counts[key], nil
}

type adminFixture struct {
	handler http.Handler
	users   users.Service
}

func newAdminFixture(t *testing.T, store RateLimitStore) adminFixture {
	t.Helper()
	client := testdb.Open(t)
	svc, err := users.NewService(users.NewRepository(client.DB()), security.NewPasswordHasher(1000))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), users.CreateUserInput{Username: "admin", Password: "secret123", IsSuperuser: true})
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Session = config.SessionConfig{SecretKey: "test-secret", TTL: time.Hour}
	cfg.LoginRateLimit = config.LoginRateLimitConfig{Window: time.Minute, IPLimit: 100, UsernameLimit: 3}

	sessions, err := middleware.NewSessions(cfg.Session, svc, nil)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Retail-Setup.zip"), []byte("zip"), 0o644))
	installers, err := downloads.NewDirectory(dir)
	require.NoError(t, err)

	h, err := NewAdminRouter(cfg, nil, AdminDeps{
		Users:      svc,
		Sessions:   sessions,
		Installers: installers,
		RateLimit:  store,
		DB:         client,
		Metrics:    prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	return adminFixture{handler: h, users: svc}
}

func (f adminFixture) do(t *testing.T, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "admin_session" && c.Value != "" {
			return c
		}
	}
	t.Fatalf("no session cookie in response: %v", rec.Header())
	return nil
}

func TestAdminLoginAndUserManagement(t *testing.T) {
	f := newAdminFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/users", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/auth/login", `{"username":"admin","password":"wrong-pass"}`, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/auth/login", `{"username":"admin","password":"secret123"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookie := sessionCookie(t, rec)
	require.True(t, cookie.HttpOnly)

	rec = f.do(t, http.MethodGet, "/auth/me", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"username":"admin"`)

	rec = f.do(t, http.MethodPost, "/users", `{"username":"clerk","password":"secret123"}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotContains(t, rec.Body.String(), "password")

	rec = f.do(t, http.MethodPost, "/users", `{"username":"clerk","password":"secret123"}`, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/users?limit=10&skip=0", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"username":"clerk"`)

	clerk, err := f.users.GetByUsername(context.Background(), "clerk")
	require.NoError(t, err)
	path := "/users/" + strconv.FormatUint(uint64(clerk.ID), 10)

	rec = f.do(t, http.MethodPut, path, `{"is_active":false}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), `"is_active":false`)

	rec = f.do(t, http.MethodPost, "/auth/login", `{"username":"clerk","password":"secret123"}`, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code, "inactive users cannot log in")

	rec = f.do(t, http.MethodDelete, path, "", cookie)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, path, "", cookie)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminWebRequiresSession(t *testing.T) {
	f := newAdminFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/web/dashboard", "", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/web/login?error=login_required", rec.Header().Get("Location"))

	form := url.Values{"username": {"admin"}, "password": {"secret123"}}
	req := httptest.NewRequest(http.MethodPost, "/web/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookie := sessionCookie(t, rec)

	rec = f.do(t, http.MethodGet, "/web/dashboard?module=orders", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Orders (OMS)")
}

func TestAdminDownloads(t *testing.T) {
	f := newAdminFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/downloads", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Retail-Setup.zip")

	rec = f.do(t, http.MethodGet, "/downloads/Retail-Setup.zip", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "zip", rec.Body.String())

	rec = f.do(t, http.MethodGet, "/downloads/missing.zip", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminLoginRateLimit(t *testing.T) {
	f := newAdminFixture(t, &memoryRateStore{})

	for i := 0; i < 3; i++ {
		rec := f.do(t, http.MethodPost, "/auth/login", `{"username":"admin","password":"nope-nope"}`, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := f.do(t, http.MethodPost, "/auth/login", `{"username":"ADMIN","password":"secret123"}`, nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}
