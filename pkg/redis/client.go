package redis

import (
	"github.com/redis/go-redis/v9"

	"projectpulse/pkg/config"
)

// NewClient builds the shared redis client. Connectivity failures surface
// on first use; redis is an optimization layer and callers degrade without
// it.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
