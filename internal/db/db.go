// Package db opens the database, applies migrations and loads sample data.
package db

import (
	"fmt"
	"time"

	"github.com/kewgardenflowers/kgf-orders/internal/config"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectAttempts = 5

// Open connects using cfg, retrying PostgreSQL while the server starts up.
// SQL logging goes through log and is silent unless cfg.Debug is set.
func Open(cfg config.DatabaseConfig, log logrus.FieldLogger) (*gorm.DB, error) {
	driver, dsn := Driver(cfg.DSN())
	if dsn == "" {
		return nil, fmt.Errorf("empty database dsn")
	}

	level := logger.Silent
	if cfg.Debug {
		level = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.New(log, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})}

	log.WithFields(logrus.Fields{"driver": driver, "dsn": cfg.Redacted()}).Info("connecting to database")

	if driver == DriverSQLite {
		conn, err := gorm.Open(sqlite.Open(dsn), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return conn, nil
	}

	var conn *gorm.DB
	var err error
	for i := 0; i < connectAttempts; i++ {
		conn, err = gorm.Open(postgres.Open(dsn), gcfg)
		if err == nil {
			break
		}
		log.WithError(err).Warnf("database connection attempt %d/%d failed", i+1, connectAttempts)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	return conn, nil
}

// Ping checks the connection, for health probes.
func Ping(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
