package routes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/retail-admin-backend/api/controllers"
	"github.com/angelmondragon/retail-admin-backend/api/middleware"
	"github.com/angelmondragon/retail-admin-backend/api/web"
	"github.com/angelmondragon/retail-admin-backend/internal/downloads"
	"github.com/angelmondragon/retail-admin-backend/internal/users"
	"github.com/angelmondragon/retail-admin-backend/pkg/config"
	"github.com/angelmondragon/retail-admin-backend/pkg/logger"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
)

// RateLimitStore backs the login throttles; a nil store disables them.
type RateLimitStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// AdminDeps groups what the user-management service needs.
type AdminDeps struct {
	Users      users.Service
	Sessions   *middleware.Sessions
	Installers *downloads.Directory
	RateLimit  RateLimitStore
	DB         controllers.Pinger
	Metrics    Registry
}

// NewAdminRouter builds the user-management service: JSON API, installer
// downloads and the /web dashboard.
func NewAdminRouter(cfg *config.Config, logg *logger.Logger, deps AdminDeps) (http.Handler, error) {
	if deps.Sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	dashboard, err := web.NewHandler(cfg.App.Name, deps.Users, deps.Sessions, logg)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	useCommon(r, cfg, logg, deps.Metrics, "admin")

	bounds := pagination.Bounds{Default: cfg.Pagination.DefaultPageSize, Max: cfg.Pagination.MaxPageSize}
	limits := cfg.LoginRateLimit
	apiLogin := middleware.LoginRateLimit(
		middleware.NewLoginRateLimitPolicy("api-login", limits.Window, limits.IPLimit, limits.UsernameLimit),
		deps.RateLimit, logg)
	webLogin := middleware.LoginRateLimit(
		middleware.NewLoginRateLimitPolicy("web-login", limits.Window, limits.IPLimit, limits.UsernameLimit).WithRedirect(web.LoginPath),
		deps.RateLimit, logg)
	requireAPI := deps.Sessions.RequireAPI()

	r.Get("/health", controllers.Health())
	r.Get("/health/ready", controllers.HealthReady(deps.DB, logg))

	r.Route("/auth", func(r chi.Router) {
		r.With(apiLogin).Post("/login", controllers.AuthLogin(deps.Users, deps.Sessions, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Sessions))
		r.With(requireAPI).Get("/me", controllers.AuthMe(deps.Users, logg))
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(requireAPI)
		r.Get("/", controllers.UserList(deps.Users, bounds, logg))
		r.Post("/", controllers.UserCreate(deps.Users, logg))
		r.Get("/{userID}", controllers.UserGet(deps.Users, logg))
		r.Put("/{userID}", controllers.UserUpdate(deps.Users, logg))
		r.Delete("/{userID}", controllers.UserDelete(deps.Users, logg))
	})

	r.Get("/downloads", controllers.DownloadList(deps.Installers, logg))
	r.Get("/downloads/{filename}", controllers.DownloadFile(deps.Installers, logg))

	r.Route("/web", func(r chi.Router) {
		dashboard.Routes(r, deps.Sessions.RequireWeb(web.LoginPath), webLogin)
	})

	return r, nil
}
