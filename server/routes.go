package server

import (
	"context"
	"net/http"

	"contact-manager/config"
	"contact-manager/handlers"
	"contact-manager/repository"
	"contact-manager/session"

	"github.com/jmoiron/sqlx"
	"github.com/umakantv/go-utils/httpserver"
	"go.uber.org/zap"
)

// Binding pairs a route with its handler.
type Binding struct {
	Route   httpserver.Route
	Handler httpserver.HandlerFunc
}

// NewRoutes wires repositories, sessions and handlers into the full route table.
func NewRoutes(db *sqlx.DB, store session.Store, cfg config.Config, log *zap.Logger) ([]Binding, error) {
	views, err := handlers.LoadViews(log)
	if err != nil {
		return nil, err
	}

	users, err := repository.NewUsers(db, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	contacts := repository.NewContacts(db)
	sessions := session.NewManager(store, session.Options{
		Secret:       cfg.Session.Secret,
		Lifetime:     cfg.Session.Lifetime,
		CookieSecure: cfg.Session.CookieSecure,
	}, log)

	auth := handlers.NewAuthHandler(users, sessions, views, log)
	contactPages := handlers.NewContactHandler(contacts, views, log)
	contactAPI := handlers.NewContactAPIHandler(contacts, log)

	public := []Binding{
		route("HealthCheck", "GET", "/health", httpserver.HandlerFunc(handlers.Health(db, log))),
		route("Index", "GET", "/", auth.Index),
		route("RegisterPage", "GET", "/auth/register", auth.RegisterPage),
		route("Register", "POST", "/auth/register", auth.Register),
		route("LoginPage", "GET", "/auth/login", auth.LoginPage),
		route("Login", "POST", "/auth/login", auth.Login),
		route("Logout", "GET", "/auth/logout", auth.Logout),
	}

	pages := guard(sessions.Require, []Binding{
		route("Profile", "GET", "/auth/profile", auth.Profile),
		route("ListContacts", "GET", "/contactos/", contactPages.List),
		route("AddContactPage", "GET", "/contactos/agregar", contactPages.AddPage),
		route("AddContact", "POST", "/contactos/agregar", contactPages.Add),
		route("EditContactPage", "GET", "/contactos/editar/{id}", contactPages.EditPage),
		route("EditContact", "POST", "/contactos/editar/{id}", contactPages.Edit),
		route("DeleteContact", "GET", "/contactos/eliminar/{id}", contactPages.Delete),
	})

	api := guard(sessions.RequireAPI, []Binding{
		route("APIListContacts", "GET", "/api/contactos", contactAPI.List),
		route("APICreateContact", "POST", "/api/contactos", contactAPI.Create),
		route("APIGetContact", "GET", "/api/contactos/{id}", contactAPI.Get),
		route("APIUpdateContact", "PUT", "/api/contactos/{id}", contactAPI.Update),
		route("APIDeleteContact", "DELETE", "/api/contactos/{id}", contactAPI.Delete),
	})

	bindings := append(public, pages...)
	bindings = append(bindings, api...)
	return bindings, nil
}

// route registers with AuthType "none": access control is done by the session guards,
// which redirect (HTML) or answer with a JSON error body (API).
// The request handed on carries ctx, so r.Context() sees the route details too.
func route(name, method, path string, h httpserver.HandlerFunc) Binding {
	return Binding{
		Route: httpserver.Route{
			Name:     name,
			Method:   method,
			Path:     path,
			AuthType: "none",
		},
		Handler: func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
			h(ctx, w, r.WithContext(ctx))
		},
	}
}

// guard wraps every handler of a route group with the same middleware.
func guard(mw func(httpserver.HandlerFunc) httpserver.HandlerFunc, group []Binding) []Binding {
	for i := range group {
		group[i].Handler = mw(group[i].Handler)
	}
	return group
}
