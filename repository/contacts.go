package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"contact-manager/models"

	"github.com/jmoiron/sqlx"
)

const contactColumns = "id, user_id, name, email, phone, detail, created_at"

// Contacts is the contact repository. Every query is filtered by the owning user,
// so a contact id belonging to someone else behaves exactly like a missing one.
type Contacts struct {
	db *sqlx.DB
}

func NewContacts(db *sqlx.DB) *Contacts {
	return &Contacts{db: db}
}

// List returns the user's contacts ordered by name.
func (c *Contacts) List(ctx context.Context, userID int64) ([]models.Contact, error) {
	contacts := []models.Contact{}
	err := c.db.SelectContext(ctx, &contacts,
		"SELECT "+contactColumns+" FROM contacts WHERE user_id = ? ORDER BY name ASC, id ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// Get returns models.ErrNotFound when the contact is absent or owned by another user.
func (c *Contacts) Get(ctx context.Context, id, userID int64) (*models.Contact, error) {
	var contact models.Contact
	err := c.db.GetContext(ctx, &contact,
		"SELECT "+contactColumns+" FROM contacts WHERE id = ? AND user_id = ?", id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact %d: %w", id, err)
	}
	return &contact, nil
}

func (c *Contacts) Create(ctx context.Context, userID int64, fields models.ContactFields) (*models.Contact, error) {
	fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	res, err := c.db.ExecContext(ctx,
		"INSERT INTO contacts (user_id, name, email, phone, detail, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		userID, fields.Name, fields.Email, fields.Phone, fields.Detail, now)
	if err != nil {
		return nil, fmt.Errorf("insert contact: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert contact: %w", err)
	}

	return &models.Contact{
		ID:        id,
		UserID:    userID,
		Name:      fields.Name,
		Email:     fields.Email,
		Phone:     fields.Phone,
		Detail:    fields.Detail,
		CreatedAt: now,
	}, nil
}

// Update overwrites all editable fields of an owned contact.
func (c *Contacts) Update(ctx context.Context, id, userID int64, fields models.ContactFields) (*models.Contact, error) {
	fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	res, err := c.db.ExecContext(ctx,
		"UPDATE contacts SET name = ?, email = ?, phone = ?, detail = ? WHERE id = ? AND user_id = ?",
		fields.Name, fields.Email, fields.Phone, fields.Detail, id, userID)
	if err != nil {
		return nil, fmt.Errorf("update contact %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update contact %d: %w", id, err)
	}
	if n == 0 {
		return nil, models.ErrNotFound
	}
	return c.Get(ctx, id, userID)
}

// Delete reports whether an owned contact was removed.
func (c *Contacts) Delete(ctx context.Context, id, userID int64) (bool, error) {
	res, err := c.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return false, fmt.Errorf("delete contact %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete contact %d: %w", id, err)
	}
	return n > 0, nil
}
