package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/retail-admin-backend/api/responses"
	"github.com/angelmondragon/retail-admin-backend/internal/users"
	"github.com/angelmondragon/retail-admin-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/retail-admin-backend/pkg/errors"
	"github.com/angelmondragon/retail-admin-backend/pkg/logger"
	"github.com/angelmondragon/retail-admin-backend/pkg/security"
)

type userLookup interface {
	GetByUsername(ctx context.Context, username string) (*users.UserDTO, error)
}

// Sessions issues and validates the signed session cookie shared by the JSON
// API and the HTML dashboard.
type Sessions struct {
	codec *security.SessionCodec
	cfg   config.SessionConfig
	users userLookup
	logg  *logger.Logger
	now   func() time.Time
}

// NewSessions wires cookie handling for the configured secret and TTL.
func NewSessions(cfg config.SessionConfig, lookup userLookup, logg *logger.Logger) (*Sessions, error) {
	codec, err := security.NewSessionCodec(cfg.SecretKey, cfg.TTL)
	if err != nil {
		return nil, err
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "admin_session"
	}
	return &Sessions{codec: codec, cfg: cfg, users: lookup, logg: logg, now: time.Now}, nil
}

// Issue sets the session cookie for username.
func (s *Sessions) Issue(w http.ResponseWriter, username string) {
	now := s.now()
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    s.codec.Issue(username, now),
		Path:     "/",
		Expires:  now.Add(s.codec.TTL()),
		MaxAge:   int(s.codec.TTL().Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Resolve returns the active user behind the request cookie, if any.
func (s *Sessions) Resolve(r *http.Request) (SessionUser, bool, error) {
	cookie, err := r.Cookie(s.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return SessionUser{}, false, nil
	}
	username, err := s.codec.Parse(cookie.Value, s.now())
	if err != nil {
		return SessionUser{}, false, nil
	}
	user, err := s.users.GetByUsername(r.Context(), username)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return SessionUser{}, false, nil
		}
		return SessionUser{}, false, err
	}
	if !user.IsActive {
		return SessionUser{}, false, nil
	}
	return SessionUser{ID: user.ID, Username: user.Username, IsSuperuser: user.IsSuperuser}, true, nil
}

// RequireAPI rejects requests without a valid session with 401.
func (s *Sessions) RequireAPI() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok, err := s.Resolve(r)
			if err != nil {
				responses.WriteError(r.Context(), s.logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve session"))
				return
			}
			if !ok {
				responses.WriteError(r.Context(), s.logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			next.ServeHTTP(w, r.WithContext(s.attach(r.Context(), user)))
		})
	}
}

// RequireWeb redirects anonymous dashboard requests to loginPath.
func (s *Sessions) RequireWeb(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok, err := s.Resolve(r)
			if err != nil {
				responses.WriteError(r.Context(), s.logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve session"))
				return
			}
			if !ok {
				http.Redirect(w, r, loginPath+"?error=login_required", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(s.attach(r.Context(), user)))
		})
	}
}

func (s *Sessions) attach(ctx context.Context, user SessionUser) context.Context {
	ctx = WithSessionUser(ctx, user)
	if s.logg != nil {
		ctx = s.logg.WithUsername(ctx, user.Username)
	}
	return ctx
}
