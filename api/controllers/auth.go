package controllers

import (
	"net/http"

	"github.com/angelmondragon/retail-admin-backend/api/middleware"
	"github.com/angelmondragon/retail-admin-backend/api/responses"
	"github.com/angelmondragon/retail-admin-backend/api/validators"
	"github.com/angelmondragon/retail-admin-backend/internal/users"
	pkgerrors "github.com/angelmondragon/retail-admin-backend/pkg/errors"
	"github.com/angelmondragon/retail-admin-backend/pkg/logger"
)

// SessionIssuer writes and clears the session cookie.
type SessionIssuer interface {
	Issue(w http.ResponseWriter, username string)
	Clear(w http.ResponseWriter)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthLogin verifies credentials and sets the session cookie.
func AuthLogin(svc users.Service, sessions SessionIssuer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || sessions == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Authenticate(r.Context(), payload.Username, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessions.Issue(w, user.Username)
		if logg != nil {
			logg.Info(logg.WithUsername(r.Context(), user.Username), "auth.login")
		}
		responses.WriteSuccess(w, user)
	}
}

func AuthLogout(sessions SessionIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions != nil {
			sessions.Clear(w)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// AuthMe returns the operator behind the current session.
func AuthMe(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		current, ok := middleware.SessionUserFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		user, err := svc.Get(r.Context(), current.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}
