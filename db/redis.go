package db

import (
	"github.com/KAsare1/Kodefx-blog/cmd/config"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns nil when no REDIS_ADDR is configured.
func ConnectRedis(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}
