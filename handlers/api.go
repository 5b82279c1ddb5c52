package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"contact-manager/models"

	"github.com/umakantv/go-utils/errs"
	"go.uber.org/zap"
)

// ContactAPIHandler is the JSON flavour of the contact routes, behind session.Manager.RequireAPI.
type ContactAPIHandler struct {
	contacts ContactStore
	log      *zap.Logger
}

func NewContactAPIHandler(contacts ContactStore, log *zap.Logger) *ContactAPIHandler {
	return &ContactAPIHandler{contacts: contacts, log: log}
}

// List handles GET /api/contactos
func (h *ContactAPIHandler) List(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	s := currentSession(ctx)

	contacts, err := h.contacts.List(ctx, s.UserID)
	if err != nil {
		logRequest(ctx, h.log, r, "error", "Failed to list contacts", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errs.NewInternalServerError("Database error"))
		return
	}

	logRequest(ctx, h.log, r, "info", "Contacts retrieved successfully", zap.Int("count", len(contacts)))
	writeJSON(w, http.StatusOK, contacts)
}

// Get handles GET /api/contactos/{id}
func (h *ContactAPIHandler) Get(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	s := currentSession(ctx)

	id, err := contactID(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errs.NewNotFoundError("Contact not found"))
		return
	}

	contact, err := h.contacts.Get(ctx, id, s.UserID)
	if errors.Is(err, models.ErrNotFound) {
		logRequest(ctx, h.log, r, "info", "Contact not found", zap.Int64("contact_id", id))
		writeJSON(w, http.StatusNotFound, errs.NewNotFoundError("Contact not found"))
		return
	}
	if err != nil {
		logRequest(ctx, h.log, r, "error", "Failed to query contact", zap.Error(err), zap.Int64("contact_id", id))
		writeJSON(w, http.StatusInternalServerError, errs.NewInternalServerError("Database error"))
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

// Create handles POST /api/contactos
func (h *ContactAPIHandler) Create(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	s := currentSession(ctx)

	var req models.ContactFields
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, h.log, r, "error", "Invalid request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError("Invalid JSON"))
		return
	}

	contact, err := h.contacts.Create(ctx, s.UserID, req)
	if verr, ok := models.AsValidation(err); ok {
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError(verr.Error()))
		return
	}
	if err != nil {
		logRequest(ctx, h.log, r, "error", "Failed to create contact", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errs.NewInternalServerError("Failed to create contact"))
		return
	}

	logRequest(ctx, h.log, r, "info", "Contact created successfully", zap.Int64("contact_id", contact.ID))
	writeJSON(w, http.StatusCreated, contact)
}

// Update handles PUT /api/contactos/{id} - all fields are replaced, omitted ones become empty
func (h *ContactAPIHandler) Update(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	s := currentSession(ctx)

	id, err := contactID(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errs.NewNotFoundError("Contact not found"))
		return
	}

	var req models.ContactFields
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logRequest(ctx, h.log, r, "error", "Invalid request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError("Invalid JSON"))
		return
	}

	contact, err := h.contacts.Update(ctx, id, s.UserID, req)
	if verr, ok := models.AsValidation(err); ok {
		writeJSON(w, http.StatusBadRequest, errs.NewValidationError(verr.Error()))
		return
	}
	if errors.Is(err, models.ErrNotFound) {
		logRequest(ctx, h.log, r, "info", "Contact not found for update", zap.Int64("contact_id", id))
		writeJSON(w, http.StatusNotFound, errs.NewNotFoundError("Contact not found"))
		return
	}
	if err != nil {
		logRequest(ctx, h.log, r, "error", "Failed to update contact", zap.Error(err), zap.Int64("contact_id", id))
		writeJSON(w, http.StatusInternalServerError, errs.NewInternalServerError("Failed to update contact"))
		return
	}

	logRequest(ctx, h.log, r, "info", "Contact updated successfully", zap.Int64("contact_id", id))
	writeJSON(w, http.StatusOK, contact)
}

// Delete handles DELETE /api/contactos/{id}
func (h *ContactAPIHandler) Delete(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	s := currentSession(ctx)

	id, err := contactID(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errs.NewNotFoundError("Contact not found"))
		return
	}

	removed, err := h.contacts.Delete(ctx, id, s.UserID)
	if err != nil {
		logRequest(ctx, h.log, r, "error", "Failed to delete contact", zap.Error(err), zap.Int64("contact_id", id))
		writeJSON(w, http.StatusInternalServerError, errs.NewInternalServerError("Failed to delete contact"))
		return
	}
	if !removed {
		logRequest(ctx, h.log, r, "info", "Contact not found for deletion", zap.Int64("contact_id", id))
		writeJSON(w, http.StatusNotFound, errs.NewNotFoundError("Contact not found"))
		return
	}

	logRequest(ctx, h.log, r, "info", "Contact deleted successfully", zap.Int64("contact_id", id))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Contact deleted successfully"})
}

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health handles GET /health
func Health(db Pinger, log *zap.Logger) func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(ctx); err != nil {
			logRequest(ctx, log, r, "error", "Health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "service": "contact-manager"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "contact-manager"})
	}
}
