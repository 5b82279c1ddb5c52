package cache

import (
	"fmt"

	"contact-manager/config"
	"contact-manager/session"

	"github.com/umakantv/go-utils/cache"
	"go.uber.org/zap"
)

// InitializeSessionStore builds the configured session backend. The returned func
// releases it and is safe to defer.
func InitializeSessionStore(cfg config.Config, log *zap.Logger) (session.Store, func(), error) {
	switch cfg.Session.Store {
	case config.StoreMemory:
		store, err := session.NewMemoryStore()
		if err != nil {
			return nil, nil, err
		}
		log.Info("Session store: memory")
		return store, func() {}, nil
	case config.StoreRedis:
		c, err := cache.New(cache.Config{
			Type:          "redis",
			RedisAddr:     cfg.Redis.Addr,
			RedisPassword: cfg.Redis.Password,
			RedisDB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("initialize redis session store: %w", err)
		}
		log.Info("Session store: redis", zap.String("addr", cfg.Redis.Addr))
		return session.NewCacheStore(c), func() { c.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}
