package realtime

import (
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/Windi-Fikriyansyah/gigboard_be/internal/config"
)

// NewRedis creates a Redis client. REDIS_ADDR may be a host:port or a redis:// URL.
func NewRedis(cfg config.Config) (*redis.Client, error) {
	if strings.HasPrefix(cfg.RedisAddr, "redis://") || strings.HasPrefix(cfg.RedisAddr, "rediss://") {
		opt, err := redis.ParseURL(cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}), nil
}

