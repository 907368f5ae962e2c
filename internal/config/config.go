package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full runtime configuration of the server and kgfctl.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	App       AppConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

// DatabaseConfig holds either a full URL or the discrete postgres settings.
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Debug    bool
}

// Migration modes.
const (
	MigrateAuto = "auto"
	MigrateSQL  = "sql"
	MigrateOff  = "off"
)

type AppConfig struct {
	Dev        bool
	Migrations string
	Seed       bool
	Metrics    bool
}

type AuthConfig struct {
	AdminPassword     string
	AdminPasswordHash string
	SecretKey         string
	SessionTTL        time.Duration
	PublicFormToken   string
}

type RateLimitConfig struct {
	MaxPerHour int
	MaxKeys    int
	RedisURL   string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by the caller) > default.
func Load() Config {
	cfg := Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			URL:      strings.Trim(strings.TrimSpace(os.Getenv("DATABASE_URL")), "\"'"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "kgf_orders"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Debug:    getEnvBool("DB_DEBUG", false),
		},
		App: AppConfig{
			Dev:        getEnvBool("DEV", false),
			Migrations: migrationMode(getEnv("MIGRATIONS", MigrateAuto)),
			Seed:       getEnvBool("SEED", false),
			Metrics:    getEnvBool("METRICS", true),
		},
		Auth: AuthConfig{
			AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
			AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			SecretKey:         getEnv("SECRET_KEY", "change-me"),
			SessionTTL:        time.Duration(getEnvInt("SESSION_TTL_HOURS", 336)) * time.Hour,
			PublicFormToken:   os.Getenv("PUBLIC_FORM_TOKEN"),
		},
		RateLimit: RateLimitConfig{
			MaxPerHour: getEnvInt("RATELIMIT_MAX_PER_HOUR", 10),
			MaxKeys:    getEnvInt("RATELIMIT_MAX_KEYS", 10000),
			RedisURL:   os.Getenv("REDIS_URL"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
	return cfg
}

// DSN returns the connection string: DATABASE_URL when set, otherwise a
// postgres key=value DSN built from the DB_* settings.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Redacted returns DSN with any password masked, for logs.
func (c DatabaseConfig) Redacted() string {
	dsn := c.DSN()
	if u, err := url.Parse(dsn); err == nil && u.User != nil {
		return u.Redacted()
	}
	fields := strings.Fields(dsn)
	for i, f := range fields {
		if strings.HasPrefix(strings.ToLower(f), "password=") {
			fields[i] = "password=***"
		}
	}
	return strings.Join(fields, " ")
}

// UsingDefaultSecret reports whether SECRET_KEY was left at its placeholder.
func (c AuthConfig) UsingDefaultSecret() bool {
	return c.SecretKey == "change-me"
}

func migrationMode(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case MigrateSQL:
		return MigrateSQL
	case MigrateOff, "0", "false", "no":
		return MigrateOff
	default:
		return MigrateAuto
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid integer for %s: %s", key, v)
			return def
		}
		return n
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}
