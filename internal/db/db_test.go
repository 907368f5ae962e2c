package db

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kewgardenflowers/kgf-orders/internal/config"
	"github.com/kewgardenflowers/kgf-orders/internal/logging"
	"github.com/kewgardenflowers/kgf-orders/internal/models"
	"github.com/kewgardenflowers/kgf-orders/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := Open(config.DatabaseConfig{URL: fmt.Sprintf("sqlite://file:%s?mode=memory&cache=shared", name)}, logging.Discard())
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

func TestDriver(t *testing.T) {
	cases := []struct {
		raw, driver, dsn string
	}{
		{"sqlite://kgf.db", DriverSQLite, "kgf.db"},
		{"sqlite:kgf.db", DriverSQLite, "kgf.db"},
		{"file:x?mode=memory", DriverSQLite, "file:x?mode=memory"},
		{"postgres://u:p@h/db", DriverPostgres, "postgres://u:p@h/db"},
		{" 'host=h   user=u dbname=d' ", DriverPostgres, "host=h user=u dbname=d sslmode=disable"},
	}
	for _, tc := range cases {
		d, dsn := Driver(tc.raw)
		assert.Equal(t, tc.driver, d, tc.raw)
		assert.Equal(t, tc.dsn, dsn, tc.raw)
	}
}

func TestMigrate_Modes(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, Migrate(conn, config.MigrateOff))
	assert.False(t, conn.Migrator().HasTable("orders"))

	require.NoError(t, Migrate(conn, config.MigrateAuto))
	assert.True(t, conn.Migrator().HasTable("clients"))
	assert.True(t, conn.Migrator().HasTable("orders"))
	require.NoError(t, Ping(conn))

	assert.ErrorIs(t, Migrate(conn, config.MigrateSQL), ErrSQLMigrationsUnsupported)
}

func TestMigrationFilesEmbedded(t *testing.T) {
	up, err := migrationsFS.ReadFile("migrations/000001_init.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS orders")
	_, err = migrationsFS.ReadFile("migrations/000001_init.down.sql")
	require.NoError(t, err)
}

func TestSeedIdempotent(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, Migrate(conn, config.MigrateAuto))
	log := logging.Discard()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	orders := services.NewOrderService(conn, log).WithClock(func() time.Time { return now })
	clients := services.NewClientService(conn, log)

	ctx := context.Background()
	require.NoError(t, Seed(ctx, conn, orders, clients, now))
	require.NoError(t, Seed(ctx, conn, orders, clients, now))

	var clientCount, orderCount int64
	conn.Model(&models.Client{}).Count(&clientCount)
	conn.Model(&models.Order{}).Count(&orderCount)
	assert.EqualValues(t, 3, clientCount)
	assert.EqualValues(t, 4, orderCount)

	var last models.Order
	require.NoError(t, conn.Order("id DESC").First(&last).Error)
	assert.Equal(t, "KGF-2025-0004", last.PublicID)
	assert.Equal(t, "2025-03-17", last.DeliveryDate.Format(models.DateLayout))
}
