package db

import (
	"context"
	"fmt"
	"time"

	"github.com/kewgardenflowers/kgf-orders/internal/models"
	"github.com/kewgardenflowers/kgf-orders/internal/services"
	"gorm.io/gorm"
)

type sampleOrder struct {
	email     string
	daysAhead int
	items     string
	price     string
}

var sampleClients = []services.ContactInput{
	{Name: "Alice Chan", Email: "alice@example.com", Phone: "+8525550001", Address: "12 Flower Street, Central"},
	{Name: "Beacon Brands", Email: "orders@beaconbrands.hk", Phone: "+8525550002", Address: "88 Harbour Road, Wan Chai"},
	{Name: "Kenji Wong", Email: "kenji@example.com", Phone: "+8525550003", Address: "Flat 5B, Kowloon Tong"},
}

var sampleOrders = []sampleOrder{
	{"alice@example.com", 0, "Seasonal bouquet with eucalyptus", "880"},
	{"alice@example.com", 3, "Pastel arrangement for anniversary", "1200"},
	{"orders@beaconbrands.hk", 1, "Corporate table pieces x5", "3200"},
	{"kenji@example.com", 7, "Birthday bouquet with sunflowers", "950"},
}

// Seed loads sample clients and orders. Clients are matched by email so they
// are never duplicated; orders are only added to an empty orders table.
func Seed(ctx context.Context, conn *gorm.DB, orders *services.OrderService, clients *services.ClientService, now time.Time) error {
	contacts := make(map[string]services.ContactInput, len(sampleClients))
	for _, c := range sampleClients {
		if _, err := clients.ResolveOrCreate(ctx, c); err != nil {
			return fmt.Errorf("seed client %s: %w", c.Email, err)
		}
		contacts[c.Email] = c
	}

	var count int64
	if err := conn.WithContext(ctx).Model(&models.Order{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, o := range sampleOrders {
		_, err := orders.Create(ctx, services.OrderInput{
			Contact:      contacts[o.email],
			DeliveryDate: now.AddDate(0, 0, o.daysAhead).Format(models.DateLayout),
			ItemsText:    o.items,
			Price:        o.price,
		})
		if err != nil {
			return fmt.Errorf("seed order for %s: %w", o.email, err)
		}
	}
	return nil
}
