package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"ana@x.com", true},
		{"first.last+tag@sub.example.org", true},
		{"not-an-email", false},
		{"missing@tld", false},
		{"@example.com", false},
		{"spaces in@example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.email))
		})
	}
}

func TestRegistrationValidate(t *testing.T) {
	valid := Registration{Name: "Ana", Email: "ana@x.com", Password: "password1", Confirm: "password1"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(r *Registration)
		problem string
	}{
		{"empty name", func(r *Registration) { r.Name = "" }, "All fields are required"},
		{"empty password", func(r *Registration) { r.Password = "" }, "All fields are required"},
		{"mismatch", func(r *Registration) { r.Confirm = "password2" }, "Passwords do not match"},
		{"bad email", func(r *Registration) { r.Email = "ana" }, "Invalid email"},
		{"short password", func(r *Registration) { r.Password, r.Confirm = "short", "short" }, "Password must be at least 8 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			verr, ok := AsValidation(r.Validate())
			require.True(t, ok)
			assert.Equal(t, []string{tt.problem}, verr.Problems)
		})
	}
}

func TestContactFieldsValidate(t *testing.T) {
	assert.NoError(t, ContactFields{Name: "Bob"}.Validate())
	assert.NoError(t, ContactFields{Name: "Bob", Email: "bob@x.com", Phone: "anything goes"}.Validate())

	verr, ok := AsValidation(ContactFields{Name: "   ", Email: "bob@x.com"}.Validate())
	require.True(t, ok)
	assert.Equal(t, []string{"Name is required"}, verr.Problems)

	verr, ok = AsValidation(ContactFields{Name: "Bob", Email: "not-an-email"}.Validate())
	require.True(t, ok)
	assert.Equal(t, []string{"Email format is invalid"}, verr.Problems)

	verr, ok = AsValidation(ContactFields{Email: "not-an-email"}.Validate())
	require.True(t, ok)
	assert.Len(t, verr.Problems, 2)
}

func TestContactFieldsNormalize(t *testing.T) {
	f := ContactFields{Name: "  Bob ", Email: " bob@x.com", Phone: " 555 ", Detail: "\tnote\n"}
	f.Normalize()
	assert.Equal(t, ContactFields{Name: "Bob", Email: "bob@x.com", Phone: "555", Detail: "note"}, f)
}

func TestDuplicateEmail(t *testing.T) {
	err := fmt.Errorf("register: %w", DuplicateEmail())
	assert.True(t, errors.Is(err, ErrDuplicateEmail))

	verr, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "Email is already registered", verr.Error())
}

func TestUserProfile(t *testing.T) {
	u := User{ID: 3, Name: "Ana", Email: "ana@x.com", PasswordHash: "hash"}
	p := u.Profile()
	assert.Equal(t, int64(3), p.ID)
	assert.Equal(t, "Ana", p.Name)
}
