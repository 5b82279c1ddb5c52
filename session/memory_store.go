package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/umakantv/go-utils/cache"
)

// NewMemoryStore keeps sessions in a go-utils memory cache. Sessions do not survive a
// restart and are not shared between instances; use a redis-backed CacheStore for that.
func NewMemoryStore() (*CacheStore, error) {
	c, err := cache.New(cache.Config{Type: "memory"})
	if err != nil {
		return nil, fmt.Errorf("memory session cache: %w", err)
	}
	return NewCacheStore(&serialCache{cache: c}), nil
}

// serialCache runs one cache call at a time. The memory cache's Get deletes expired
// entries while holding only its read lock.
type serialCache struct {
	mu    sync.Mutex
	cache cache.Cache
}

func (s *serialCache) Set(key string, value interface{}, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Set(key, value, ttl)
}

func (s *serialCache) Get(key string) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Get(key)
}

func (s *serialCache) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Delete(key)
}

func (s *serialCache) Exists(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Exists(key)
}

func (s *serialCache) Close() error {
	return s.cache.Close()
}
