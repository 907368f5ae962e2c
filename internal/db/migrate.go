package db

import (
	"embed"
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	mpostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/kewgardenflowers/kgf-orders/internal/config"
	"github.com/kewgardenflowers/kgf-orders/internal/models"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrSQLMigrationsUnsupported is returned when versioned SQL migrations are
// requested on a database other than PostgreSQL.
var ErrSQLMigrationsUnsupported = errors.New("sql migrations require postgres")

// Migrate brings the schema up to date. mode is one of config.MigrateAuto
// (gorm AutoMigrate), config.MigrateSQL (versioned files via golang-migrate)
// or config.MigrateOff.
func Migrate(conn *gorm.DB, mode string) error {
	switch mode {
	case config.MigrateOff:
		return nil
	case config.MigrateSQL:
		return runSQLMigrations(conn)
	default:
		for _, m := range models.All() {
			if err := conn.AutoMigrate(m); err != nil {
				return fmt.Errorf("automigrate %T: %w", m, err)
			}
		}
	}
	for _, table := range []string{"clients", "orders"} {
		if !conn.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// runSQLMigrations applies the embedded migrations/ files with golang-migrate.
func runSQLMigrations(conn *gorm.DB) error {
	if conn.Dialector.Name() != DriverPostgres {
		return ErrSQLMigrationsUnsupported
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}
	driver, err := mpostgres.WithInstance(sqlDB, &mpostgres.Config{})
	if err != nil {
		return fmt.Errorf("open migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
