package models

import (
	"strings"
	"time"
)

// User represents a registered account.
// PasswordHash is a bcrypt hash and never leaves the service.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Registration is the submitted signup form.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"confirm_password"`
}

// MinPasswordLength is the shortest password accepted on registration.
const MinPasswordLength = 8

// Normalize trims name and email. Passwords are kept as typed.
func (r *Registration) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

// Validate runs the checks that do not need the database, in the order the form reports them.
func (r Registration) Validate() error {
	if r.Name == "" || r.Email == "" || r.Password == "" {
		return NewValidationError("All fields are required")
	}
	if r.Password != r.Confirm {
		return NewValidationError("Passwords do not match")
	}
	if !ValidEmail(r.Email) {
		return NewValidationError("Invalid email")
	}
	if len(r.Password) < MinPasswordLength {
		return NewValidationError("Password must be at least 8 characters")
	}
	return nil
}

// Profile is the public view of a user (GET /auth/profile).
type Profile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}
