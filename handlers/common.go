package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"contact-manager/models"
	"contact-manager/session"

	"github.com/gorilla/mux"
	"github.com/umakantv/go-utils/httpserver"
	"go.uber.org/zap"
)

// UserStore is the credential store the auth handlers need.
type UserStore interface {
	Register(ctx context.Context, reg models.Registration) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// ContactStore is the owner-scoped contact repository.
type ContactStore interface {
	List(ctx context.Context, userID int64) ([]models.Contact, error)
	Get(ctx context.Context, id, userID int64) (*models.Contact, error)
	Create(ctx context.Context, userID int64, fields models.ContactFields) (*models.Contact, error)
	Update(ctx context.Context, id, userID int64, fields models.ContactFields) (*models.Contact, error)
	Delete(ctx context.Context, id, userID int64) (bool, error)
}

// logRequest logs with the go-utils route details and, when logged in, the user attached.
func logRequest(ctx context.Context, log *zap.Logger, r *http.Request, level string, message string, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.String("route", httpserver.GetRouteName(ctx)),
		zap.String("route_path", httpserver.GetRoutePath(ctx)),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}, fields...)
	if s, ok := session.FromContext(ctx); ok {
		allFields = append(allFields, zap.Int64("user_id", s.UserID))
	}

	switch level {
	case "info":
		log.Info(message, allFields...)
	case "error":
		log.Error(message, allFields...)
	case "debug":
		log.Debug(message, allFields...)
	}
}

// contactID reads the {id} path variable. Malformed ids are treated as not found.
func contactID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, models.ErrNotFound
	}
	return id, nil
}

// currentSession returns the session the guard stored in ctx.
func currentSession(ctx context.Context) session.Session {
	s, _ := session.FromContext(ctx)
	return s
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func contactFieldsFromForm(r *http.Request) models.ContactFields {
	return models.ContactFields{
		Name:   r.PostFormValue("name"),
		Email:  r.PostFormValue("email"),
		Phone:  r.PostFormValue("phone"),
		Detail: r.PostFormValue("detail"),
	}
}
