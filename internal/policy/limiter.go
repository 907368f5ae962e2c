package policy

import (
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/kewgardenflowers/kgf-orders/internal/config"
	"github.com/kewgardenflowers/kgf-orders/internal/ratelimit"
	"github.com/sirupsen/logrus"
)

// NewLimiter builds the submission rate limiter: Redis-backed when REDIS_URL
// is set, otherwise an in-process LRU store. The returned close func releases
// the Redis client and is never nil.
func NewLimiter(cfg config.RateLimitConfig, log logrus.FieldLogger) (*ratelimit.Limiter, func() error, error) {
	opts := []ratelimit.Option{ratelimit.WithLogger(log)}
	if cfg.RedisURL != "" {
		ropts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(ropts)
		log.WithField("addr", ropts.Addr).Info("rate limiter using redis store")
		return ratelimit.New(ratelimit.NewRedisStore(client, ""), cfg.MaxPerHour, opts...), client.Close, nil
	}
	store, err := ratelimit.NewMemoryStore(cfg.MaxKeys)
	if err != nil {
		return nil, nil, err
	}
	return ratelimit.New(store, cfg.MaxPerHour, opts...), func() error { return nil }, nil
}
