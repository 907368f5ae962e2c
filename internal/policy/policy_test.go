package policy

import (
	"testing"

	"github.com/kewgardenflowers/kgf-orders/internal/config"
	"github.com/kewgardenflowers/kgf-orders/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimiter_Memory(t *testing.T) {
	l, closeFn, err := NewLimiter(config.RateLimitConfig{MaxPerHour: 2, MaxKeys: 10}, logging.Discard())
	require.NoError(t, err)
	require.NotNil(t, closeFn)
	defer closeFn()

	ctx := t.Context()
	assert.True(t, l.Allow(ctx, "1.2.3.4"))
	assert.True(t, l.Allow(ctx, "1.2.3.4"))
	assert.False(t, l.Allow(ctx, "1.2.3.4"))
	assert.True(t, l.Allow(ctx, "5.6.7.8"))
}

func TestNewLimiter_Redis(t *testing.T) {
	l, closeFn, err := NewLimiter(config.RateLimitConfig{MaxPerHour: 2, RedisURL: "redis://localhost:6379/0"}, logging.Discard())
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.NoError(t, closeFn())
}

func TestNewLimiter_BadRedisURL(t *testing.T) {
	_, _, err := NewLimiter(config.RateLimitConfig{MaxPerHour: 2, RedisURL: "://nope"}, logging.Discard())
	assert.Error(t, err)
}
