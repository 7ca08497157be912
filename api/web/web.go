// Package web serves the server-rendered operator dashboard.
package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/retail-admin-backend/api/middleware"
	"github.com/angelmondragon/retail-admin-backend/api/validators"
	"github.com/angelmondragon/retail-admin-backend/internal/users"
	pkgerrors "github.com/angelmondragon/retail-admin-backend/pkg/errors"
	"github.com/angelmondragon/retail-admin-backend/pkg/logger"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
)

const (
	LoginPath     = "/web/login"
	dashboardPath = "/web/dashboard"
	formsPath     = "/web/forms"
	formsListSize = 200
)

//go:embed templates/*.html
var templateFS embed.FS

type sessionManager interface {
	Resolve(r *http.Request) (middleware.SessionUser, bool, error)
	Issue(w http.ResponseWriter, username string)
	Clear(w http.ResponseWriter)
}

// Handler renders the /web pages.
type Handler struct {
	appName   string
	users     users.Service
	sessions  sessionManager
	templates *template.Template
	logg      *logger.Logger
}

// NewHandler parses the embedded templates.
func NewHandler(appName string, svc users.Service, sessions sessionManager, logg *logger.Logger) (*Handler, error) {
	if svc == nil || sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "web handler requires users and sessions")
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Handler{appName: appName, users: svc, sessions: sessions, templates: tmpl, logg: logg}, nil
}

// Routes mounts the public pages on r and the protected ones behind protect.
func (h *Handler) Routes(r chi.Router, protect func(http.Handler) http.Handler, loginLimit func(http.Handler) http.Handler) {
	r.Get("/", h.Index)
	r.Get("/login", h.LoginPage)
	r.With(loginLimit).Post("/login", h.LoginSubmit)
	r.Get("/logout", h.Logout)
	r.Group(func(r chi.Router) {
		r.Use(protect)
		r.Get("/dashboard", h.Dashboard)
		r.Get("/forms", h.Forms)
		r.Post("/forms/create", h.CreateUser)
		r.Post("/forms/update", h.UpdateUser)
		r.Post("/forms/delete", h.DeleteUser)
	})
}

type page struct {
	AppName      string
	CurrentUser  *middleware.SessionUser
	Error        string
	Message      string
	Modules      []Module
	ActiveModule string
	Users        []users.UserDTO
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	target := LoginPath
	if _, ok, _ := h.sessions.Resolve(r); ok {
		target = dashboardPath
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok, _ := h.sessions.Resolve(r); ok {
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return
	}
	q := r.URL.Query()
	data := page{Message: q.Get("message")}
	switch q.Get("error") {
	case "login_required":
		data.Error = "Please sign in to access the console."
	case "rate_limited":
		data.Error = "Too many login attempts. Try again later."
	}
	h.render(w, r, http.StatusOK, "login.html", data)
}

func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "login.html", page{Error: "Invalid form submission."})
		return
	}
	user, err := h.users.Authenticate(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		status := http.StatusUnauthorized
		msg := "Invalid username or password."
		if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			h.logError(r.Context(), "web.login_failed", err)
			status = http.StatusServiceUnavailable
			msg = "Login is temporarily unavailable."
		}
		h.render(w, r, status, "login.html", page{Error: msg})
		return
	}
	h.sessions.Issue(w, user.Username)
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "dashboard.html", page{
		Modules:      modules,
		ActiveModule: resolveModule(r.URL.Query().Get("module")),
	})
}

func (h *Handler) Forms(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.List(r.Context(), pagination.Params{Limit: formsListSize})
	if err != nil {
		h.logError(r.Context(), "web.list_users_failed", err)
		http.Error(w, "unable to load users", http.StatusServiceUnavailable)
		return
	}
	h.render(w, r, http.StatusOK, "forms.html", page{
		Message: r.URL.Query().Get("message"),
		Users:   list,
	})
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithMessage(w, r, "Invalid form submission")
		return
	}
	f := r.PostForm
	input := users.CreateUserInput{
		Username:    strings.TrimSpace(f.Get("username")),
		Password:    f.Get("password"),
		FullName:    optional(f.Get("full_name")),
		Email:       optional(f.Get("email")),
		IsActive:    boolPtr(formBool(f.Get("is_active"), "true")),
		IsSuperuser: formBool(f.Get("is_superuser"), "false"),
	}
	if err := validators.Struct(&input); err != nil {
		redirectWithMessage(w, r, "Invalid user details")
		return
	}
	_, err := h.users.Create(r.Context(), input)
	switch {
	case err == nil:
		redirectWithMessage(w, r, "User created")
	case pkgerrors.IsCode(err, pkgerrors.CodeConflict):
		redirectWithMessage(w, r, "Username already exists")
	default:
		h.logError(r.Context(), "web.create_user_failed", err)
		redirectWithMessage(w, r, "Unable to create user")
	}
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithMessage(w, r, "Invalid form submission")
		return
	}
	f := r.PostForm
	id, ok := formUserID(f)
	if !ok {
		redirectWithMessage(w, r, "User not found")
		return
	}
	input := users.UpdateUserInput{
		FullName:    optional(f.Get("full_name")),
		Email:       optional(f.Get("email")),
		IsActive:    tristate(f.Get("is_active")),
		IsSuperuser: tristate(f.Get("is_superuser")),
		Password:    secret(f.Get("password")),
	}
	if err := validators.Struct(&input); err != nil {
		redirectWithMessage(w, r, "Invalid user details")
		return
	}
	_, err := h.users.Update(r.Context(), id, input)
	switch {
	case err == nil:
		redirectWithMessage(w, r, "User updated")
	case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
		redirectWithMessage(w, r, "User not found")
	default:
		h.logError(r.Context(), "web.update_user_failed", err)
		redirectWithMessage(w, r, "Unable to update user")
	}
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithMessage(w, r, "Invalid form submission")
		return
	}
	id, ok := formUserID(r.PostForm)
	if !ok {
		redirectWithMessage(w, r, "User not found")
		return
	}
	err := h.users.Delete(r.Context(), id)
	switch {
	case err == nil:
		redirectWithMessage(w, r, "User deleted")
	case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
		redirectWithMessage(w, r, "User not found")
	default:
		h.logError(r.Context(), "web.delete_user_failed", err)
		redirectWithMessage(w, r, "Unable to delete user")
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data page) {
	data.AppName = h.appName
	if user, ok := middleware.SessionUserFromContext(r.Context()); ok {
		data.CurrentUser = &user
	}
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logError(r.Context(), "web.render_failed", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	if h.logg != nil {
		h.logg.Error(ctx, msg, err)
	}
}

func redirectWithMessage(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, formsPath+"?message="+url.QueryEscape(msg), http.StatusSeeOther)
}

func formUserID(f url.Values) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(f.Get("user_id")), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func formBool(value, fallback string) bool {
	if value == "" {
		value = fallback
	}
	return value == "true"
}

// tristate maps "keep" (or blank) to nil.
func tristate(value string) *bool {
	if value == "" || value == "keep" {
		return nil
	}
	return boolPtr(value == "true")
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

// secret keeps passwords byte-for-byte.
func secret(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func boolPtr(v bool) *bool {
	return &v
}
