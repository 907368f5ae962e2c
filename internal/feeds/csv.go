package feeds

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/kewgardenflowers/kgf-orders/internal/models"
)

var (
	orderHeader  = []string{"Order ID", "Client", "Delivery Date", "Price HKD", "Status"}
	clientHeader = []string{"Client ID", "Name", "Email", "Phone", "Address"}
)

// WriteOrdersCSV writes one row per order. Orders must have Client loaded.
func WriteOrdersCSV(w io.Writer, orders []models.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(orderHeader); err != nil {
		return err
	}
	for i := range orders {
		o := &orders[i]
		price := ""
		if o.PriceHKD.Valid {
			price = o.PriceHKD.Decimal.StringFixed(2)
		}
		if err := cw.Write([]string{
			o.PublicID,
			o.ClientName(),
			o.DeliveryDay(),
			price,
			string(o.Status),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteClientsCSV writes one row per client. Commas in addresses become
// semicolons so spreadsheet imports keep one column per field.
func WriteClientsCSV(w io.Writer, clients []models.Client) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(clientHeader); err != nil {
		return err
	}
	for i := range clients {
		c := &clients[i]
		if err := cw.Write([]string{
			strconv.FormatUint(uint64(c.ID), 10),
			c.Name,
			c.Email,
			c.Phone,
			c.CSVAddress(),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
