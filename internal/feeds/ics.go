// Package feeds renders orders and clients as iCalendar and CSV documents.
package feeds

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/kewgardenflowers/kgf-orders/internal/models"
)

const (
	ProductID = "-//Kew Garden Flowers//Orders//EN"
	Timezone  = "Europe/London"
	uidDomain = "kewgardenflowers"
)

// EventUID is the stable iCalendar UID of an order.
func EventUID(o *models.Order) string {
	return fmt.Sprintf("kgf-order-%d@%s", o.ID, uidDomain)
}

// Calendar builds one all-day VEVENT per order on its delivery date.
// Orders must have Client loaded.
func Calendar(orders []models.Order, now time.Time) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetXWRTimezone(Timezone)
	for i := range orders {
		o := &orders[i]
		ev := cal.AddEvent(EventUID(o))
		ev.SetDtStampTime(now.UTC())
		ev.SetAllDayStartAt(o.DeliveryDate)
		ev.SetSummary("Delivery – " + o.ClientName())
		ev.SetDescription(description(o))
	}
	return cal
}

// WriteICS serializes the calendar feed for orders.
func WriteICS(w io.Writer, orders []models.Order, now time.Time) error {
	_, err := io.WriteString(w, Calendar(orders, now).Serialize())
	return err
}

func description(o *models.Order) string {
	address := ""
	if o.Client != nil {
		address = o.Client.Address
	}
	return strings.Join([]string{
		"Order ID: " + o.PublicID,
		"Items: " + orNA(o.ItemsText),
		"Address: " + orNA(address),
	}, "\n")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
