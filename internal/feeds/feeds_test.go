package feeds

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/kewgardenflowers/kgf-orders/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrders() []models.Order {
	bob := &models.Client{ID: 2, Name: "Bob", Address: "1 Garden Lane, Kew"}
	return []models.Order{
		{
			ID:           5,
			PublicID:     "KGF-2025-0005",
			Client:       bob,
			DeliveryDate: time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
			Status:       models.OrderStatusUnfulfilled,
			ItemsText:    "Peonies",
			PriceHKD:     decimal.NewNullDecimal(decimal.RequireFromString("880")),
		},
		{
			ID:           6,
			PublicID:     "KGF-2025-0006",
			Client:       &models.Client{ID: 3, Name: "Carol, Ltd"},
			DeliveryDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			Status:       models.OrderStatusFulfilled,
		},
	}
}

func TestWriteICS(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
	require.NoError(t, WriteICS(&buf, sampleOrders(), now))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "PRODID:"+ProductID)
	assert.Contains(t, out, "X-WR-TIMEZONE:Europe/London")
	assert.Contains(t, out, "UID:kgf-order-5@kewgardenflowers")
	assert.Contains(t, out, "SUMMARY:Delivery – Bob")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20250614")
	assert.Contains(t, out, "KGF-2025-0005")
	assert.Contains(t, out, "Items: N/A")
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
}

func TestWriteICS_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, nil, time.Now()))
	assert.Contains(t, buf.String(), "BEGIN:VCALENDAR")
	assert.NotContains(t, buf.String(), "BEGIN:VEVENT")
}

func TestWriteOrdersCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrdersCSV(&buf, sampleOrders()))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Order ID", "Client", "Delivery Date", "Price HKD", "Status"}, rows[0])
	assert.Equal(t, []string{"KGF-2025-0005", "Bob", "2025-06-14", "880.00", "unfulfilled"}, rows[1])
	assert.Equal(t, []string{"KGF-2025-0006", "Carol, Ltd", "2025-06-15", "", "fulfilled"}, rows[2])
}

func TestWriteClientsCSV(t *testing.T) {
	var buf bytes.Buffer
	clients := []models.Client{{ID: 9, Name: "Bob", Email: "bob@example.com", Phone: "555", Address: "1 Garden Lane, Kew, Richmond"}}
	require.NoError(t, WriteClientsCSV(&buf, clients))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Client ID,Name,Email,Phone,Address", lines[0])
	assert.Equal(t, "9,Bob,bob@example.com,555,1 Garden Lane; Kew; Richmond", lines[1])
}
