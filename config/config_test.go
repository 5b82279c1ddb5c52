package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvironment_Defaults(t *testing.T) {
	cfg, err := FromEnvironment(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "./contacts.db", cfg.Database.SQLitePath)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "root", cfg.Database.User)
	assert.Equal(t, "contacts_db", cfg.Database.Name)
	assert.Equal(t, time.Hour, cfg.Session.Lifetime)
	assert.Equal(t, StoreMemory, cfg.Session.Store)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.UsesDefaultSecret())
	assert.Empty(t, cfg.EnvFile)
}

func TestFromEnvironment_Overrides(t *testing.T) {
	cfg, err := FromEnvironment(map[string]string{
		"DB_DRIVER":        "mysql",
		"MYSQL_HOST":       "db.internal",
		"MYSQL_PORT":       "3307",
		"MYSQL_PASSWORD":   "hunter22",
		"SECRET_KEY":       "s3cret",
		"SESSION_LIFETIME": "30m",
		"SESSION_STORE":    "redis",
		"REDIS_DB":         "2",
	})
	require.NoError(t, err)

	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 3307, cfg.Database.Port)
	assert.Equal(t, 30*time.Minute, cfg.Session.Lifetime)
	assert.Equal(t, StoreRedis, cfg.Session.Store)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.False(t, cfg.UsesDefaultSecret())
}

func TestFromEnvironment_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
	}{
		{"unknown driver", map[string]string{"DB_DRIVER": "oracle"}},
		{"unknown store", map[string]string{"SESSION_STORE": "disk"}},
		{"zero lifetime", map[string]string{"SESSION_LIFETIME": "0s"}},
		{"bcrypt cost too low", map[string]string{"BCRYPT_COST": "1"}},
		{"bad port", map[string]string{"MYSQL_PORT": "not-a-number"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnvironment(tt.environ)
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("MYSQL_DATABASE=from_file\n"), 0o600))

	// godotenv never overrides variables that are already set.
	t.Setenv("MYSQL_DATABASE", "")
	require.NoError(t, os.Unsetenv("MYSQL_DATABASE"))
	t.Setenv("MYSQL_USER", "from_env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.EnvFile)
	assert.Equal(t, "from_file", cfg.Database.Name)
	assert.Equal(t, "from_env", cfg.Database.User)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Empty(t, cfg.EnvFile)
}

func TestFields_HidesSecrets(t *testing.T) {
	cfg, err := FromEnvironment(map[string]string{
		"DB_DRIVER":      "mysql",
		"MYSQL_PASSWORD": "hunter22",
		"SECRET_KEY":     "s3cret",
		"SESSION_STORE":  "redis",
		"REDIS_PASSWORD": "redispw",
	})
	require.NoError(t, err)

	keys := map[string]bool{}
	for _, f := range cfg.Fields() {
		keys[f.Key] = true
		assert.NotContains(t, []string{"hunter22", "s3cret", "redispw"}, f.String)
	}
	assert.True(t, keys["mysql_host"])
	assert.True(t, keys["redis_addr"])
	assert.True(t, keys["mysql_password_set"])
	assert.False(t, keys["sqlite_path"])
}
