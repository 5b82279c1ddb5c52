package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/umakantv/go-utils/cache"
)

// Key prefix for sessions in the cache
const sessionKeyPrefix = "session:"

// CacheStore keeps sessions in a go-utils cache (redis, or memory via NewMemoryStore),
// expiring with the session.
type CacheStore struct {
	cache cache.Cache
	now   func() time.Time
}

func NewCacheStore(c cache.Cache) *CacheStore {
	return &CacheStore{cache: c, now: time.Now}
}

func (c *CacheStore) Save(_ context.Context, s Session) error {
	ttl := s.ExpiresAt.Sub(c.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", s.ID)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := c.cache.Set(sessionKeyPrefix+s.ID, string(data), ttl); err != nil {
		return fmt.Errorf("cache set %s: %w", s.ID, err)
	}
	return nil
}

func (c *CacheStore) Load(_ context.Context, id string) (Session, error) {
	raw, err := c.cache.Get(sessionKeyPrefix + id)
	if errors.Is(err, cache.ErrKeyNotFound) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("cache get %s: %w", id, err)
	}
	s, err := decodeSession(raw)
	if err != nil {
		return Session{}, err
	}
	if s.Expired(c.now()) {
		return Session{}, ErrNoSession
	}
	return s, nil
}

func (c *CacheStore) Delete(_ context.Context, id string) error {
	if err := c.cache.Delete(sessionKeyPrefix + id); err != nil {
		return fmt.Errorf("cache delete %s: %w", id, err)
	}
	return nil
}

// decodeSession accepts whatever shape the cache hands back for a stored JSON string.
func decodeSession(raw interface{}) (Session, error) {
	var data []byte
	switch v := raw.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case map[string]interface{}:
		b, err := json.Marshal(v)
		if err != nil {
			return Session{}, fmt.Errorf("decode session: %w", err)
		}
		data = b
	default:
		return Session{}, fmt.Errorf("decode session: unexpected type %T", raw)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	if s.ID == "" {
		return Session{}, fmt.Errorf("decode session: missing id")
	}
	return s, nil
}
