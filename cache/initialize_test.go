package cache

import (
	"context"
	"testing"
	"time"

	"contact-manager/config"
	"contact-manager/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitializeSessionStore_Memory(t *testing.T) {
	cfg, err := config.FromEnvironment(map[string]string{"SESSION_STORE": "memory"})
	require.NoError(t, err)

	store, closeStore, err := InitializeSessionStore(cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeStore()
	assert.IsType(t, &session.CacheStore{}, store)

	// Round trip through the returned store.
	ctx := context.Background()
	s := session.Session{ID: "abc", UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save(ctx, s))
	got, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.UserID)
}

func TestInitializeSessionStore_Unknown(t *testing.T) {
	cfg := config.Config{Session: config.Session{Store: "disk"}}
	_, _, err := InitializeSessionStore(cfg, zap.NewNop())
	assert.Error(t, err)
}
