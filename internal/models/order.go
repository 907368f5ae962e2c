package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	OrderStatusUnfulfilled OrderStatus = "unfulfilled"
	OrderStatusFulfilled   OrderStatus = "fulfilled"
)

// PublicIDPrefix prefixes every human-facing order identifier.
const PublicIDPrefix = "KGF"

// DateLayout is the wire format of delivery dates in forms and exports.
const DateLayout = "2006-01-02"

// Order is a flower order for delivery on a given date.
type Order struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	PublicID string  `gorm:"size:40;uniqueIndex;not null" json:"public_id"`
	ClientID uint    `gorm:"index;not null" json:"client_id"`
	Client   *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`

	DeliveryDate time.Time   `gorm:"type:date;not null;index" json:"delivery_date"`
	Status       OrderStatus `gorm:"size:20;not null;default:'unfulfilled'" json:"status"`

	ItemsText string              `gorm:"type:text" json:"items_text,omitempty"`
	PriceHKD  decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"price_hkd"`
	Notes     string              `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	IsArchived bool      `gorm:"not null;default:false;index" json:"is_archived"`
}

// IsFulfilled reports whether the order has been delivered.
func (o *Order) IsFulfilled() bool {
	return o.Status == OrderStatusFulfilled
}

// ToggleStatus flips between unfulfilled and fulfilled.
func (o *Order) ToggleStatus() {
	if o.Status == OrderStatusFulfilled {
		o.Status = OrderStatusUnfulfilled
		return
	}
	o.Status = OrderStatusFulfilled
}

// ClientName returns the owning client's name, or an empty string when not loaded.
func (o *Order) ClientName() string {
	if o.Client == nil {
		return ""
	}
	return o.Client.Name
}

// DeliveryDay returns the delivery date as YYYY-MM-DD.
func (o *Order) DeliveryDay() string {
	return o.DeliveryDate.Format(DateLayout)
}

// PriceString returns the price as a plain decimal string, empty when unset.
func (o *Order) PriceString() string {
	if !o.PriceHKD.Valid {
		return ""
	}
	return o.PriceHKD.Decimal.String()
}

// PublicIDPattern returns the LIKE pattern matching every public id of the year.
func PublicIDPattern(year int) string {
	return fmt.Sprintf("%s-%d-%%", PublicIDPrefix, year)
}

// FormatPublicID renders a public id such as KGF-2025-0007.
func FormatPublicID(year, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", PublicIDPrefix, year, seq)
}

// PublicIDSequence extracts the trailing sequence number of a public id.
func PublicIDSequence(publicID string) (int, bool) {
	i := strings.LastIndex(publicID, "-")
	if i < 0 {
		return 0, false
	}
	seq, err := strconv.Atoi(publicID[i+1:])
	if err != nil {
		return 0, false
	}
	return seq, true
}
