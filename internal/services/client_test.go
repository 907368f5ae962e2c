package services

import (
	"context"
	"testing"

	"github.com/kewgardenflowers/kgf-orders/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOrCreate_CreatesNewClient(t *testing.T) {
	db := setupTestDB(t)
	svc := NewClientService(db, testLogger())

	c, err := svc.ResolveOrCreate(context.Background(), ContactInput{
		Name: "Alice", Email: "  Alice@Example.com ", Phone: " +85255500001 ", Address: "Central",
	})
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Equal(t, "Alice", c.Name)
	assert.Equal(t, "alice@example.com", c.Email)
	assert.Equal(t, "+85255500001", c.Phone)
}

func TestResolveOrCreate_BlankNameDefaultsToUnknown(t *testing.T) {
	db := setupTestDB(t)
	svc := NewClientService(db, testLogger())

	c, err := svc.ResolveOrCreate(context.Background(), ContactInput{Name: "  ", Phone: "123"})
	require.NoError(t, err)
	assert.Equal(t, "Unknown", c.Name)
}

func TestResolveOrCreate_MatchesEmailCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	existing := models.Client{Name: "Old Name", Email: "Bob@Example.com", Phone: "111", Address: "Old"}
	require.NoError(t, db.Create(&existing).Error)
	svc := NewClientService(db, testLogger())

	c, err := svc.ResolveOrCreate(context.Background(), ContactInput{
		Name: "Bob", Email: "bob@example.COM", Phone: "999", Address: "New address",
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, c.ID)

	var stored models.Client
	require.NoError(t, db.First(&stored, existing.ID).Error)
	assert.Equal(t, "Bob", stored.Name)
	assert.Equal(t, "New address", stored.Address)
	// Match keys are never rewritten.
	assert.Equal(t, "111", stored.Phone)
	assert.Equal(t, "Bob@Example.com", stored.Email)

	var count int64
	db.Model(&models.Client{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestResolveOrCreate_FallsBackToPhone(t *testing.T) {
	db := setupTestDB(t)
	existing := models.Client{Name: "Carol", Phone: "+85255500003"}
	require.NoError(t, db.Create(&existing).Error)
	svc := NewClientService(db, testLogger())

	c, err := svc.ResolveOrCreate(context.Background(), ContactInput{
		Name: "Carol W", Email: "carol@example.com", Phone: "+85255500003",
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, c.ID)
	assert.Equal(t, "Carol W", c.Name)
	assert.Empty(t, c.Email)
}

func TestResolveOrCreate_SkipsArchivedClients(t *testing.T) {
	db := setupTestDB(t)
	archived := models.Client{Name: "Gone", Email: "gone@example.com", IsArchived: true}
	require.NoError(t, db.Create(&archived).Error)
	svc := NewClientService(db, testLogger())

	c, err := svc.ResolveOrCreate(context.Background(), ContactInput{Name: "Back", Email: "gone@example.com"})
	require.NoError(t, err)
	assert.NotEqual(t, archived.ID, c.ID)
}

func TestClientService_CRUD(t *testing.T) {
	db := setupTestDB(t)
	svc := NewClientService(db, testLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, ClientInput{Name: ptr(" ")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "required", verr.Violations["name"])

	c, err := svc.Create(ctx, ClientInput{Name: ptr("Beacon Brands"), Email: ptr("orders@beaconbrands.hk")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, c.ID, ClientInput{Phone: ptr("+85255500002")})
	require.NoError(t, err)
	assert.Equal(t, "Beacon Brands", updated.Name)
	assert.Equal(t, "+85255500002", updated.Phone)
	assert.Equal(t, "orders@beaconbrands.hk", updated.Email)

	list, err := svc.List(ctx, "BEACON")
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.Archive(ctx, c.ID))
	assert.ErrorIs(t, svc.Archive(ctx, c.ID), ErrNotFound)
	_, err = svc.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err = svc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestClientService_ListOrdersByName(t *testing.T) {
	db := setupTestDB(t)
	svc := NewClientService(db, testLogger())
	for _, n := range []string{"Kenji Wong", "Alice Chan", "Beacon Brands"} {
		require.NoError(t, db.Create(&models.Client{Name: n}).Error)
	}
	list, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Alice Chan", list[0].Name)
	assert.Equal(t, "Kenji Wong", list[2].Name)
}

func TestClientService_GetIncludesActiveOrdersLatestFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := NewClientService(db, testLogger())
	orders := NewOrderService(db, testLogger()).WithClock(fixedClock("2025-03-10T09:00:00Z"))
	ctx := context.Background()

	var created []uint
	for _, d := range []string{"2025-06-01", "2025-07-01", "2025-05-01"} {
		o, err := orders.Create(ctx, OrderInput{Contact: ContactInput{Name: "Dora", Email: "dora@example.com"}, DeliveryDate: d})
		require.NoError(t, err)
		created = append(created, o.ID)
	}
	require.NoError(t, orders.Archive(ctx, created[2]))

	o, err := orders.Get(ctx, created[0])
	require.NoError(t, err)
	c, err := svc.Get(ctx, o.ClientID)
	require.NoError(t, err)
	require.Len(t, c.Orders, 2)
	assert.Equal(t, "2025-07-01", c.Orders[0].DeliveryDay())
	assert.Equal(t, "2025-06-01", c.Orders[1].DeliveryDay())
}
