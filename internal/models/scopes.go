package models

import "gorm.io/gorm"

// ActiveOrders restricts a query to orders that are not archived.
// Every default order query goes through this scope.
func ActiveOrders(db *gorm.DB) *gorm.DB {
	return db.Where("orders.is_archived = ?", false)
}

// ActiveClients restricts a query to clients that are not archived.
func ActiveClients(db *gorm.DB) *gorm.DB {
	return db.Where("clients.is_archived = ?", false)
}

// All returns every model managed by migrations, in dependency order.
func All() []any {
	return []any{&Client{}, &Order{}}
}
