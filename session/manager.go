package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"contact-manager/models"

	"github.com/google/uuid"
	"github.com/umakantv/go-utils/errs"
	"github.com/umakantv/go-utils/httpserver"
	"go.uber.org/zap"
)

const (
	CookieName = "session"
	// LoginPath is where the HTML guard sends anonymous visitors.
	LoginPath = "/auth/login"
)

// Options configures a Manager.
type Options struct {
	Secret       string
	Lifetime     time.Duration
	CookieSecure bool
}

// Manager creates, resolves and destroys sessions, and guards routes with them.
type Manager struct {
	store    Store
	codec    tokenCodec
	lifetime time.Duration
	secure   bool
	now      func() time.Time
	log      *zap.Logger
}

func NewManager(store Store, opts Options, log *zap.Logger) *Manager {
	m := &Manager{
		store:    store,
		lifetime: opts.Lifetime,
		secure:   opts.CookieSecure,
		now:      time.Now,
		log:      log,
	}
	m.codec = tokenCodec{secret: []byte(opts.Secret), now: func() time.Time { return m.now() }}
	return m
}

// Login starts a session for user and sets the session cookie.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, user *models.User) (Session, error) {
	now := m.now()
	s := Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		UserName:  user.Name,
		CreatedAt: now,
		ExpiresAt: now.Add(m.lifetime),
	}
	// Signed before it is stored, so a failure leaves nothing behind.
	token, err := m.codec.sign(s)
	if err != nil {
		return Session{}, err
	}
	if err := m.store.Save(ctx, s); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.lifetime.Seconds()),
		Expires:  s.ExpiresAt,
	})
	return s, nil
}

// Current resolves the request's session. Anything short of a valid, unexpired,
// stored session is ErrNoSession; other errors come from the store.
func (m *Manager) Current(r *http.Request) (Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Session{}, ErrNoSession
	}
	claims, err := m.codec.parse(cookie.Value, true)
	if err != nil {
		return Session{}, ErrNoSession
	}

	s, err := m.store.Load(r.Context(), claims.ID)
	if err != nil {
		return Session{}, err
	}
	if s.UserID != claims.UserID || s.Expired(m.now()) {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Logout removes the session record, if any, and always expires the cookie.
func (m *Manager) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var err error
	if cookie, cerr := r.Cookie(CookieName); cerr == nil && cookie.Value != "" {
		if claims, perr := m.codec.parse(cookie.Value, false); perr == nil {
			err = m.store.Delete(ctx, claims.ID)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Require guards HTML routes: without a session the visitor is sent to the login
// page with a notice and next is never called.
func (m *Manager) Require(next httpserver.HandlerFunc) httpserver.HandlerFunc {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(ctx)
		s, err := m.Current(r)
		if err != nil {
			if !errors.Is(err, ErrNoSession) {
				m.log.Error("Session lookup failed", zap.String("path", r.URL.Path), zap.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			SetFlash(w, FlashWarning, "Please log in to access this page")
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}

		ctx = WithSession(ctx, s)
		next(ctx, w, r.WithContext(ctx))
	}
}

// RequireAPI guards JSON routes, answering 401 instead of redirecting.
func (m *Manager) RequireAPI(next httpserver.HandlerFunc) httpserver.HandlerFunc {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		r = r.WithContext(ctx)
		s, err := m.Current(r)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			if !errors.Is(err, ErrNoSession) {
				m.log.Error("Session lookup failed", zap.String("path", r.URL.Path), zap.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(errs.NewInternalServerError("Session error"))
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(errs.NewAuthenticationError("Not logged in"))
			return
		}

		ctx = WithSession(ctx, s)
		next(ctx, w, r.WithContext(ctx))
	}
}
