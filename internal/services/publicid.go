package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/kewgardenflowers/kgf-orders/internal/models"
	"gorm.io/gorm"
)

// nextPublicID computes the next public id for the year of now.
//
// The candidate is the most recently inserted order of that year (highest id),
// not the highest parsed sequence: rows inserted out of numeric order will make
// the generator follow them. A suffix that does not parse restarts at 1.
// Callers serialize through OrderService.create so that two requests do not
// read the same predecessor.
func nextPublicID(tx *gorm.DB, now time.Time) (string, error) {
	year := now.UTC().Year()

	var last models.Order
	err := tx.Model(&models.Order{}).
		Select("id", "public_id").
		Where("public_id LIKE ?", models.PublicIDPattern(year)).
		Order("id DESC").
		Take(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("find last public id: %w", err)
	}

	seq := 1
	if err == nil {
		if n, ok := models.PublicIDSequence(last.PublicID); ok {
			seq = n + 1
		}
	}
	return models.FormatPublicID(year, seq), nil
}
