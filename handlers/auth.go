package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"contact-manager/models"
	"contact-manager/session"

	"go.uber.org/zap"
)

// AuthHandler serves registration, login, profile and logout.
type AuthHandler struct {
	users    UserStore
	sessions *session.Manager
	views    *Views
	log      *zap.Logger
}

func NewAuthHandler(users UserStore, sessions *session.Manager, views *Views, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, views: views, log: log}
}

// Index handles GET / - everything starts at the login page
func (h *AuthHandler) Index(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
}

// RegisterPage handles GET /auth/register
func (h *AuthHandler) RegisterPage(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.views.render(w, r, http.StatusOK, "auth/register.html", viewData{Title: "Register"})
}

// Register handles POST /auth/register. Validation problems are shown on the form.
func (h *AuthHandler) Register(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	reg := models.Registration{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Confirm:  r.PostFormValue("confirm_password"),
	}

	user, err := h.users.Register(ctx, reg)
	if verr, ok := models.AsValidation(err); ok {
		logRequest(ctx, h.log, r, "info", "Registration rejected", zap.Strings("problems", verr.Problems))
		h.views.render(w, r, http.StatusOK, "auth/register.html", viewData{
			Title:  "Register",
			Errors: verr.Problems,
			Name:   strings.TrimSpace(reg.Name),
			Email:  strings.TrimSpace(reg.Email),
		})
		return
	}
	if err != nil {
		h.views.serverError(w, r, "Failed to register user", err)
		return
	}

	logRequest(ctx, h.log, r, "info", "User registered", zap.Int64("new_user_id", user.ID))
	redirectWithFlash(w, r, session.LoginPath, session.FlashSuccess, "Registration successful. Please log in.")
}

// LoginPage handles GET /auth/login
func (h *AuthHandler) LoginPage(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.views.render(w, r, http.StatusOK, "auth/login.html", viewData{Title: "Log in"})
}

// Login handles POST /auth/login and starts a session on success.
func (h *AuthHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	if email == "" || password == "" {
		h.views.render(w, r, http.StatusOK, "auth/login.html", viewData{
			Title:  "Log in",
			Errors: []string{"Please enter email and password"},
			Email:  email,
		})
		return
	}

	user, err := h.users.Authenticate(ctx, email, password)
	if errors.Is(err, models.ErrInvalidCredentials) {
		logRequest(ctx, h.log, r, "info", "Invalid credentials")
		h.views.render(w, r, http.StatusOK, "auth/login.html", viewData{
			Title:  "Log in",
			Errors: []string{"Invalid email or password"},
			Email:  email,
		})
		return
	}
	if err != nil {
		h.views.serverError(w, r, "Failed to authenticate", err)
		return
	}

	if _, err := h.sessions.Login(ctx, w, user); err != nil {
		h.views.serverError(w, r, "Failed to start session", err)
		return
	}

	logRequest(ctx, h.log, r, "info", "Login successful", zap.Int64("user_id", user.ID))
	redirectWithFlash(w, r, "/contactos/", session.FlashSuccess, "Welcome, "+user.Name+"!")
}

// Profile handles GET /auth/profile (guarded)
func (h *AuthHandler) Profile(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	s := currentSession(ctx)

	user, err := h.users.GetByID(ctx, s.UserID)
	if errors.Is(err, models.ErrNotFound) {
		// The account behind a live session is gone; drop the session.
		logRequest(ctx, h.log, r, "info", "Session user no longer exists")
		if err := h.sessions.Logout(ctx, w, r); err != nil {
			logRequest(ctx, h.log, r, "error", "Failed to clear session", zap.Error(err))
		}
		http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
		return
	}
	if err != nil {
		h.views.serverError(w, r, "Failed to load profile", err)
		return
	}

	profile := user.Profile()
	h.views.render(w, r, http.StatusOK, "auth/profile.html", viewData{Title: "My profile", Profile: &profile})
}

// Logout handles GET /auth/logout. It succeeds whether or not a session exists.
func (h *AuthHandler) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(ctx, w, r); err != nil {
		logRequest(ctx, h.log, r, "error", "Failed to clear session", zap.Error(err))
	}
	redirectWithFlash(w, r, session.LoginPath, session.FlashInfo, "Logged out successfully")
}
