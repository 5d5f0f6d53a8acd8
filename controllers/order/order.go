package orderControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/soereshchotkan/afhaalrestaurant-website/models"
	"gorm.io/gorm"
)

// Cancel lets a customer cancel their own order, but only while the
// kitchen has not started on it. Payment status is left untouched.
func Cancel(db *gorm.DB, userID uint, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := db.Where("user_id = ?", userID).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !order.Status.CanCancel() {
		return nil, &CannotCancelError{Status: order.Status}
	}

	if err := db.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Items.Product").First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GET /user/orders
func GetOrderHistoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var orders []models.Order
		if err := db.Where("user_id = ?", userID).
			Preload("Items.Product").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Fout bij ophalen bestelling geschiedenis",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"orders": orders},
		})
	}
}

// GET /user/orders/:id
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		orderID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Ongeldig order ID"})
			return
		}

		var order models.Order
		if err := db.Where("user_id = ?", userID).
			Preload("Items.Product").
			First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Bestelling niet gevonden"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Fout bij ophalen bestelling details",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"order": order},
		})
	}
}

// POST /user/orders/:id/cancel
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		orderID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Ongeldig order ID"})
			return
		}

		order, err := Cancel(db, userID, uint(orderID))
		if err != nil {
			var cancelErr *CannotCancelError
			switch {
			case errors.Is(err, ErrOrderNotFound):
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Bestelling niet gevonden"})
			case errors.As(err, &cancelErr):
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"message": "Deze bestelling kan niet meer geannuleerd worden",
				})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"message": "Fout bij annuleren bestelling",
				})
			}
			return
		}

		broadcastOrderEvent("status_changed", *order)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Bestelling succesvol geannuleerd",
			"data":    gin.H{"order": order},
		})
	}
}
