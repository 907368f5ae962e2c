package db

import (
	"regexp"
	"strings"
)

var kvPairRegex = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)

// Driver names returned by Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Driver picks the gorm dialect for a DATABASE_URL and returns the DSN the
// driver expects. sqlite://path and file: DSNs use SQLite; everything else is
// treated as PostgreSQL.
func Driver(raw string) (driver, dsn string) {
	s := NormalizeDSN(raw)
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "sqlite://"):
		return DriverSQLite, s[len("sqlite://"):]
	case strings.HasPrefix(lower, "sqlite:"):
		return DriverSQLite, s[len("sqlite:"):]
	case strings.HasPrefix(lower, "file:"):
		return DriverSQLite, s
	}
	return DriverPostgres, s
}

// NormalizeDSN accepts either a URL style DSN (postgres://...) or a lib/pq key=value list.
// It trims quotes and whitespace and, if given key=value form, returns it cleaned.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "://") || strings.HasPrefix(lower, "sqlite:") || strings.HasPrefix(lower, "file:") {
		// Heroku-style URLs use the postgres scheme; both spellings are accepted by pgx.
		return s
	}
	// If it does not look like key=value pairs, return unchanged (driver will error)
	if !kvPairRegex.MatchString(s) {
		return s
	}
	cleaned := strings.Join(strings.Fields(s), " ")
	if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
		cleaned += " sslmode=disable"
	}
	return cleaned
}
