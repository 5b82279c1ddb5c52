package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"contact-manager/models"
	"contact-manager/session"

	"go.uber.org/zap"
)

//go:embed templates
var templatesFS embed.FS

var pages = []string{
	"auth/login.html",
	"auth/register.html",
	"auth/profile.html",
	"contacts/list.html",
	"contacts/form.html",
	"error.html",
}

var funcMap = template.FuncMap{
	"formatDate": formatDate,
}

// formatDate renders a timestamp for humans.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("January 2, 2006 at 3:04 PM")
}

// Views holds one parsed template set per page, each combined with the layout.
type Views struct {
	pages map[string]*template.Template
	log   *zap.Logger
}

// viewData is everything a page may show. Session and Flash are filled in by render.
type viewData struct {
	Title     string
	Session   *session.Session
	Flash     *session.Flash
	Errors    []string
	Email     string
	Name      string
	Form      models.ContactFields
	Action    string
	ContactID int64
	Contacts  []models.Contact
	Profile   *models.Profile
	Status    int
	Message   string
}

func LoadViews(log *zap.Logger) (*Views, error) {
	v := &Views{pages: make(map[string]*template.Template, len(pages)), log: log}
	for _, name := range pages {
		tmpl, err := template.New(name).Funcs(funcMap).ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		v.pages[name] = tmpl
	}
	return v, nil
}

// render executes a page into a buffer first so a template failure never leaves a
// half-written response.
func (v *Views) render(w http.ResponseWriter, r *http.Request, status int, name string, data viewData) {
	if s, ok := session.FromContext(r.Context()); ok {
		data.Session = &s
	}
	if f, ok := session.PopFlash(w, r); ok {
		data.Flash = &f
	}

	tmpl, ok := v.pages[name]
	if !ok {
		logRequest(r.Context(), v.log, r, "error", "Template not found", zap.String("template", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		logRequest(r.Context(), v.log, r, "error", "Template execution failed", zap.String("template", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// serverError logs err and shows the generic error page.
func (v *Views) serverError(w http.ResponseWriter, r *http.Request, message string, err error) {
	logRequest(r.Context(), v.log, r, "error", message, zap.Error(err))
	v.render(w, r, http.StatusInternalServerError, "error.html", viewData{
		Title:   "Error",
		Status:  http.StatusInternalServerError,
		Message: "Something went wrong. Please try again later.",
	})
}

// redirectWithFlash queues a notice and sends the client to target.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, target, kind, message string) {
	session.SetFlash(w, kind, message)
	http.Redirect(w, r, target, http.StatusSeeOther)
}
