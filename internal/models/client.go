package models

import (
	"strings"
	"time"
)

// Client is a customer of the shop. Clients are archived, never deleted,
// so that existing orders keep a valid owner.
type Client struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:120;not null" json:"name"`
	Phone      string    `gorm:"size:50;index" json:"phone,omitempty"`
	Email      string    `gorm:"size:120;index" json:"email,omitempty"`
	Address    string    `gorm:"type:text" json:"address,omitempty"`
	Notes      string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	IsArchived bool      `gorm:"not null;default:false;index" json:"is_archived"`

	Orders []Order `gorm:"foreignKey:ClientID" json:"orders,omitempty"`
}

// NormalizeEmail returns the match key used for client deduplication.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ActiveOrders returns the loaded orders that are not archived.
func (c *Client) ActiveOrders() []Order {
	active := make([]Order, 0, len(c.Orders))
	for _, o := range c.Orders {
		if !o.IsArchived {
			active = append(active, o)
		}
	}
	return active
}

// CSVAddress flattens the address for comma separated exports.
func (c *Client) CSVAddress() string {
	return strings.ReplaceAll(c.Address, ",", ";")
}
