package ratelimit

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// hitScript counts a request unless the key already reached the limit. The
// key expires with its window, so the first INCR opens a new one.
var hitScript = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
if current >= tonumber(ARGV[1]) then
	return 0
end
if redis.call("INCR", KEYS[1]) == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 1
`)

// RedisStore shares windows between processes through Redis.
type RedisStore struct {
	client redis.Scripter
	prefix string
}

// NewRedisStore returns a store keeping windows under prefix.
func NewRedisStore(client redis.Scripter, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "kgf:ratelimit:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Hit(ctx context.Context, key string, _ time.Time, win time.Duration, limit int) (bool, error) {
	n, err := hitScript.Run(ctx, s.client, []string{s.prefix + key}, limit, win.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
