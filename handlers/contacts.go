package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"contact-manager/models"
	"contact-manager/session"

	"go.uber.org/zap"
)

const contactsPath = "/contactos/"

// ContactHandler serves the HTML contact pages. Every route is behind session.Manager.Require.
type ContactHandler struct {
	contacts ContactStore
	views    *Views
	log      *zap.Logger
}

func NewContactHandler(contacts ContactStore, views *Views, log *zap.Logger) *ContactHandler {
	return &ContactHandler{contacts: contacts, views: views, log: log}
}

// List handles GET /contactos/
func (h *ContactHandler) List(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	s := currentSession(ctx)

	contacts, err := h.contacts.List(ctx, s.UserID)
	if err != nil {
		h.views.serverError(w, r, "Failed to list contacts", err)
		return
	}

	logRequest(ctx, h.log, r, "debug", "Contacts listed", zap.Int("count", len(contacts)))
	h.views.render(w, r, http.StatusOK, "contacts/list.html", viewData{Title: "My contacts", Contacts: contacts})
}

// AddPage handles GET /contactos/agregar
func (h *ContactHandler) AddPage(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	h.views.render(w, r, http.StatusOK, "contacts/form.html", addView(models.ContactFields{}, nil))
}

// Add handles POST /contactos/agregar
func (h *ContactHandler) Add(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	s := currentSession(ctx)
	fields := contactFieldsFromForm(r)

	contact, err := h.contacts.Create(ctx, s.UserID, fields)
	if verr, ok := models.AsValidation(err); ok {
		fields.Normalize()
		h.views.render(w, r, http.StatusOK, "contacts/form.html", addView(fields, verr.Problems))
		return
	}
	if err != nil {
		h.views.serverError(w, r, "Failed to create contact", err)
		return
	}

	logRequest(ctx, h.log, r, "info", "Contact created", zap.Int64("contact_id", contact.ID))
	redirectWithFlash(w, r, contactsPath, session.FlashSuccess, "Contact added successfully")
}

// EditPage handles GET /contactos/editar/{id}
func (h *ContactHandler) EditPage(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	s := currentSession(ctx)

	id, err := contactID(r)
	if err == nil {
		var contact *models.Contact
		contact, err = h.contacts.Get(ctx, id, s.UserID)
		if err == nil {
			h.views.render(w, r, http.StatusOK, "contacts/form.html", editView(id, contact.Fields(), nil))
			return
		}
	}
	if errors.Is(err, models.ErrNotFound) {
		redirectWithFlash(w, r, contactsPath, session.FlashDanger, "Contact not found")
		return
	}
	h.views.serverError(w, r, "Failed to load contact", err)
}

// Edit handles POST /contactos/editar/{id} - full overwrite of the editable fields
func (h *ContactHandler) Edit(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	s := currentSession(ctx)

	id, err := contactID(r)
	if err != nil {
		redirectWithFlash(w, r, contactsPath, session.FlashDanger, "Contact not found")
		return
	}

	fields := contactFieldsFromForm(r)
	_, err = h.contacts.Update(ctx, id, s.UserID, fields)
	if verr, ok := models.AsValidation(err); ok {
		fields.Normalize()
		h.views.render(w, r, http.StatusOK, "contacts/form.html", editView(id, fields, verr.Problems))
		return
	}
	if errors.Is(err, models.ErrNotFound) {
		logRequest(ctx, h.log, r, "info", "Contact not found for update", zap.Int64("contact_id", id))
		redirectWithFlash(w, r, contactsPath, session.FlashDanger, "Contact not found")
		return
	}
	if err != nil {
		h.views.serverError(w, r, "Failed to update contact", err)
		return
	}

	logRequest(ctx, h.log, r, "info", "Contact updated", zap.Int64("contact_id", id))
	redirectWithFlash(w, r, contactsPath, session.FlashSuccess, "Contact updated successfully")
}

// Delete handles GET /contactos/eliminar/{id}. A false result from the store is a failure notice.
func (h *ContactHandler) Delete(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	s := currentSession(ctx)

	removed := false
	if id, err := contactID(r); err == nil {
		removed, err = h.contacts.Delete(ctx, id, s.UserID)
		if err != nil {
			h.views.serverError(w, r, "Failed to delete contact", err)
			return
		}
		logRequest(ctx, h.log, r, "info", "Contact delete", zap.Int64("contact_id", id), zap.Bool("removed", removed))
	}

	if !removed {
		redirectWithFlash(w, r, contactsPath, session.FlashDanger, "Could not delete the contact")
		return
	}
	redirectWithFlash(w, r, contactsPath, session.FlashSuccess, "Contact deleted successfully")
}

func addView(fields models.ContactFields, problems []string) viewData {
	return viewData{Title: "Add contact", Action: "/contactos/agregar", Form: fields, Errors: problems}
}

func editView(id int64, fields models.ContactFields, problems []string) viewData {
	return viewData{
		Title:     "Edit contact",
		Action:    "/contactos/editar/" + strconv.FormatInt(id, 10),
		ContactID: id,
		Form:      fields,
		Errors:    problems,
	}
}
