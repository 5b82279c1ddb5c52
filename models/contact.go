package models

import (
	"strings"
	"time"
)

// Contact is an address-book entry. It always belongs to exactly one user.
type Contact struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Detail    string    `json:"detail" db:"detail"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ContactFields holds the user-editable part of a contact.
// Create and update both overwrite all four fields.
type ContactFields struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Detail string `json:"detail"`
}

func (f *ContactFields) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Detail = strings.TrimSpace(f.Detail)
}

// Validate collects every problem with the fields. Phone and detail are free text.
func (f ContactFields) Validate() error {
	var problems []string
	if strings.TrimSpace(f.Name) == "" {
		problems = append(problems, "Name is required")
	}
	if email := strings.TrimSpace(f.Email); email != "" && !ValidEmail(email) {
		problems = append(problems, "Email format is invalid")
	}
	if len(problems) > 0 {
		return NewValidationError(problems...)
	}
	return nil
}

// Fields returns the editable part of c, used to pre-fill the edit form.
func (c Contact) Fields() ContactFields {
	return ContactFields{Name: c.Name, Email: c.Email, Phone: c.Phone, Detail: c.Detail}
}
