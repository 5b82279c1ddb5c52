package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"contact-manager/models"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

const userColumns = "id, name, email, password_hash, created_at"

// Users is the credential store.
type Users struct {
	db   *sqlx.DB
	cost int
	// dummyHash is compared against when the email is unknown, so a miss costs as much as a wrong password.
	dummyHash []byte
}

// NewUsers creates a credential store hashing passwords with the given bcrypt cost.
func NewUsers(db *sqlx.DB, cost int) (*Users, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("credential store: %w", err)
	}
	return &Users{db: db, cost: cost, dummyHash: dummy}, nil
}

// Register validates the signup form and stores the new user with a bcrypt hash.
func (u *Users) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	reg.Normalize()
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	_, err := u.GetByEmail(ctx, reg.Email)
	if err == nil {
		return nil, models.DuplicateEmail()
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), u.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, models.NewValidationError("Password must be at most 72 bytes")
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	res, err := u.db.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		reg.Name, reg.Email, string(hash), now)
	if isUniqueViolation(err) {
		// Lost a race with a concurrent signup for the same email.
		return nil, models.DuplicateEmail()
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &models.User{
		ID:           id,
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}, nil
}

// Authenticate returns the user owning email if password matches.
// Unknown email and wrong password both yield models.ErrInvalidCredentials.
func (u *Users) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := u.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(u.dummyHash, []byte(password))
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}

func (u *Users) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return u.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

func (u *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return u.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
}

func (u *Users) getOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := u.db.GetContext(ctx, &user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}
