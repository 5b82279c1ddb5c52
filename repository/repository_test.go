package repository

import (
	"context"
	"testing"

	"contact-manager/config"
	"contact-manager/database"
	"contact-manager/models"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// setupTestDB returns a migrated in-memory SQLite database closed at test end.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.InitializeDatabase(context.Background(),
		config.Database{Driver: config.DriverSQLite, SQLitePath: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newUsers(t *testing.T, db *sqlx.DB) *Users {
	t.Helper()
	users, err := NewUsers(db, bcrypt.MinCost)
	require.NoError(t, err)
	return users
}

func mustRegister(t *testing.T, users *Users, name, email string) *models.User {
	t.Helper()
	u, err := users.Register(context.Background(), models.Registration{
		Name: name, Email: email, Password: "password1", Confirm: "password1",
	})
	require.NoError(t, err)
	return u
}
