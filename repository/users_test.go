package repository

import (
	"context"
	"errors"
	"testing"

	"contact-manager/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUsers_Register(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t, setupTestDB(t))

	created, err := users.Register(ctx, models.Registration{
		Name: " Ana ", Email: "ana@x.com", Password: "password1", Confirm: "password1",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Ana", created.Name)
	assert.NotEqual(t, "password1", created.PasswordHash)
	assert.False(t, created.CreatedAt.IsZero())

	byEmail, err := users.GetByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", byEmail.Name)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", byID.Email)
}

func TestUsers_RegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t, setupTestDB(t))
	mustRegister(t, users, "Ana", "ana@x.com")

	_, err := users.Register(ctx, models.Registration{
		Name: "Other", Email: "ana@x.com", Password: "password2", Confirm: "password2",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDuplicateEmail))

	verr, ok := models.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Email is already registered"}, verr.Problems)
}

func TestUsers_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t, setupTestDB(t))

	tests := []struct {
		name string
		reg  models.Registration
	}{
		{"missing name", models.Registration{Email: "a@x.com", Password: "password1", Confirm: "password1"}},
		{"mismatch", models.Registration{Name: "A", Email: "a@x.com", Password: "password1", Confirm: "password2"}},
		{"bad email", models.Registration{Name: "A", Email: "a-x.com", Password: "password1", Confirm: "password1"}},
		{"short password", models.Registration{Name: "A", Email: "a@x.com", Password: "pass", Confirm: "pass"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := users.Register(ctx, tt.reg)
			_, ok := models.AsValidation(err)
			assert.True(t, ok, "got %v", err)
		})
	}

	_, err := users.GetByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUsers_Authenticate(t *testing.T) {
	ctx := context.Background()
	users := newUsers(t, setupTestDB(t))
	created := mustRegister(t, users, "Ana", "ana@x.com")

	got, err := users.Authenticate(ctx, "ana@x.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, wrongPassword := users.Authenticate(ctx, "ana@x.com", "password2")
	_, unknownEmail := users.Authenticate(ctx, "bob@x.com", "password1")
	assert.ErrorIs(t, wrongPassword, models.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, models.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestUsers_GetByIDNotFound(t *testing.T) {
	users := newUsers(t, setupTestDB(t))
	_, err := users.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestNewUsers_RejectsUnusableCost(t *testing.T) {
	_, err := NewUsers(setupTestDB(t), bcrypt.MaxCost+1)
	assert.Error(t, err)
}

func TestUsers_UnknownEmailStillComparesHash(t *testing.T) {
	users := newUsers(t, setupTestDB(t))
	assert.NotEmpty(t, users.dummyHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword(users.dummyHash, []byte("not-a-real-password")))
}
