package orderControllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/soereshchotkan/afhaalrestaurant-website/models"
	"gorm.io/gorm"
)

const orderNumberPrefix = "ORD"

// generateOrderNumber builds the next ORD-YYYYMMDD-NNNN number for
// today: the day's order count plus one, walked upward until a free
// number is found. The pre-check only narrows the race window between
// two concurrent checkouts; the unique index on order_number is the
// real guarantee, and Checkout retries the whole transaction when the
// insert trips it.
func generateOrderNumber(tx *gorm.DB, now time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%s-", orderNumberPrefix, now.Format("20060102"))

	var count int64
	if err := tx.Model(&models.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	for seq := count + 1; seq <= count+1000; seq++ {
		candidate := fmt.Sprintf("%s%04d", prefix, seq)

		var existing int64
		if err := tx.Model(&models.Order{}).
			Where("order_number = ?", candidate).
			Count(&existing).Error; err != nil {
			return "", err
		}
		if existing == 0 {
			return candidate, nil
		}
	}
	return "", errors.New("could not generate a free order number")
}
