package ratelimit

import (
	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/specto/internal/config"
	"go.uber.org/fx"
)

func NewRedisClient(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}

var Module = fx.Module("rate.limit",
	fx.Provide(
		NewRedisClient,
		NewLocker,
		NewStoreLock,
	),
)
