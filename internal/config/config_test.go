package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "MIGRATIONS", "RATELIMIT_MAX_PER_HOUR", "SESSION_TTL_HOURS", "METRICS"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, MigrateAuto, cfg.App.Migrations)
	assert.True(t, cfg.App.Metrics)
	assert.Equal(t, 10, cfg.RateLimit.MaxPerHour)
	assert.Equal(t, 10000, cfg.RateLimit.MaxKeys)
	assert.Equal(t, 336*time.Hour, cfg.Auth.SessionTTL)
	assert.Contains(t, cfg.Database.DSN(), "dbname=kgf_orders")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "'sqlite://kgf.db'")
	t.Setenv("MIGRATIONS", "SQL")
	t.Setenv("RATELIMIT_MAX_PER_HOUR", "3")
	t.Setenv("DEV", "true")
	t.Setenv("SESSION_TTL_HOURS", "not-a-number")
	cfg := Load()
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite://kgf.db", cfg.Database.DSN())
	assert.Equal(t, MigrateSQL, cfg.App.Migrations)
	assert.Equal(t, 3, cfg.RateLimit.MaxPerHour)
	assert.True(t, cfg.App.Dev)
	assert.Equal(t, 336*time.Hour, cfg.Auth.SessionTTL)
}

func TestRedacted(t *testing.T) {
	withURL := DatabaseConfig{URL: "postgres://kgf:secret@db:5432/kgf?sslmode=disable"}
	assert.Equal(t, "postgres://kgf:xxxxx@db:5432/kgf?sslmode=disable", withURL.Redacted())

	noPassword := DatabaseConfig{URL: "postgres://kgf@db:5432/kgf"}
	assert.Equal(t, "postgres://kgf@db:5432/kgf", noPassword.Redacted())

	kv := DatabaseConfig{Host: "db", Port: 5432, User: "kgf", Password: "secret", DBName: "kgf", SSLMode: "disable"}
	assert.NotContains(t, kv.Redacted(), "secret")
	assert.Contains(t, kv.Redacted(), "password=***")
}
