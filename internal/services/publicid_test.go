package services

import (
	"context"
	"testing"

	"github.com/kewgardenflowers/kgf-orders/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPublicID_FirstOfYear(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, testLogger()).WithClock(fixedClock("2025-03-10T09:00:00Z"))

	id, err := svc.NextPublicID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "KGF-2025-0001", id)
}

func TestNextPublicID_IncreasesWithinYear(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db, testLogger()).WithClock(fixedClock("2025-03-10T09:00:00Z"))
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		o, err := svc.Create(ctx, OrderInput{
			Contact:      ContactInput{Name: "Alice", Email: "alice@example.com"},
			DeliveryDate: "2025-06-01",
		})
		require.NoError(t, err)
		ids = append(ids, o.PublicID)
	}
	assert.Equal(t, []string{"KGF-2025-0001", "KGF-2025-0002", "KGF-2025-0003"}, ids)
}

func TestNextPublicID_IgnoresOtherYears(t *testing.T) {
	db := setupTestDB(t)
	client := models.Client{Name: "Old"}
	require.NoError(t, db.Create(&client).Error)
	require.NoError(t, db.Create(&models.Order{
		PublicID: "KGF-2024-0042", ClientID: client.ID, Status: models.OrderStatusFulfilled,
	}).Error)

	svc := NewOrderService(db, testLogger()).WithClock(fixedClock("2025-01-01T00:00:00Z"))
	id, err := svc.NextPublicID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "KGF-2025-0001", id)
}

func TestNextPublicID_FollowsLastInsertedRow(t *testing.T) {
	db := setupTestDB(t)
	client := models.Client{Name: "Migrated"}
	require.NoError(t, db.Create(&client).Error)
	for _, pid := range []string{"KGF-2025-0009", "KGF-2025-0003"} {
		require.NoError(t, db.Create(&models.Order{
			PublicID: pid, ClientID: client.ID, Status: models.OrderStatusUnfulfilled,
		}).Error)
	}

	svc := NewOrderService(db, testLogger()).WithClock(fixedClock("2025-05-05T00:00:00Z"))
	id, err := svc.NextPublicID(context.Background())
	require.NoError(t, err)
	// Insertion order wins over the numeric maximum.
	assert.Equal(t, "KGF-2025-0004", id)
}

func TestNextPublicID_UnparsableSuffixRestarts(t *testing.T) {
	db := setupTestDB(t)
	client := models.Client{Name: "Odd"}
	require.NoError(t, db.Create(&client).Error)
	require.NoError(t, db.Create(&models.Order{
		PublicID: "KGF-2025-XYZ", ClientID: client.ID, Status: models.OrderStatusUnfulfilled,
	}).Error)

	svc := NewOrderService(db, testLogger()).WithClock(fixedClock("2025-05-05T00:00:00Z"))
	id, err := svc.NextPublicID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "KGF-2025-0001", id)
}

func TestNextPublicID_CountsArchivedOrders(t *testing.T) {
	db := setupTestDB(t)
	client := models.Client{Name: "Archived"}
	require.NoError(t, db.Create(&client).Error)
	require.NoError(t, db.Create(&models.Order{
		PublicID: "KGF-2025-0005", ClientID: client.ID, Status: models.OrderStatusUnfulfilled, IsArchived: true,
	}).Error)

	svc := NewOrderService(db, testLogger()).WithClock(fixedClock("2025-05-05T00:00:00Z"))
	id, err := svc.NextPublicID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "KGF-2025-0006", id)
}
