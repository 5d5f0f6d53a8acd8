package orderControllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soereshchotkan/afhaalrestaurant-website/middleware"
	"github.com/soereshchotkan/afhaalrestaurant-website/models"
	"gorm.io/gorm"
)

type UpdateStatusRequest struct {
	Status        string  `json:"status" binding:"required"`
	Notes         *string `json:"notes" binding:"omitempty,max=1000"`
	EstimatedTime *int    `json:"estimated_time" binding:"omitempty,min=5,max=120"` // minutes
}

type MarkPaidRequest struct {
	TransactionID string `json:"transaction_id" binding:"omitempty,max=255"`
}

// StatusChange records one applied transition.
type StatusChange struct {
	From      models.OrderStatus `json:"from"`
	To        models.OrderStatus `json:"to"`
	ChangedAt time.Time          `json:"changed_at"`
}

// UpdateStatus applies a transition from the allowed adjacency only.
// When the kitchen confirms with a preparation estimate, the pickup
// time is moved to now plus the estimate; the kitchen's estimate wins
// over the customer's original preference.
func UpdateStatus(db *gorm.DB, orderID uint, newStatus models.OrderStatus, notes *string, estimatedMinutes *int) (*models.Order, *StatusChange, error) {
	var order models.Order
	if err := db.Preload("Items.Product").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, err
	}

	oldStatus := order.Status
	if !oldStatus.CanTransitionTo(newStatus) {
		return nil, nil, &InvalidTransitionError{From: oldStatus, To: newStatus}
	}

	updates := map[string]interface{}{"status": newStatus}
	// A request that carries the notes field overwrites them, an empty
	// string included, so the admin can wipe stale notes.
	if notes != nil {
		updates["notes"] = *notes
	}
	if newStatus == models.OrderStatusConfirmed && estimatedMinutes != nil {
		updates["pickup_time"] = time.Now().Add(time.Duration(*estimatedMinutes) * time.Minute)
	}

	if err := db.Model(&order).Updates(updates).Error; err != nil {
		return nil, nil, err
	}
	if err := db.Preload("Items.Product").First(&order, order.ID).Error; err != nil {
		return nil, nil, err
	}

	change := &StatusChange{From: oldStatus, To: newStatus, ChangedAt: time.Now()}
	return &order, change, nil
}

// MarkPaid flips the payment axis regardless of the fulfillment status;
// payments may settle before or after the kitchen is done.
func MarkPaid(db *gorm.DB, orderID uint, transactionID string) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{"payment_status": models.PaymentStatusPaid}
	if transactionID != "" {
		updates["payment_transaction_id"] = transactionID
	}
	if err := db.Model(&order).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := db.First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// PUT /admin/orders/:id/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Ongeldig order ID"})
			return
		}

		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"message": "Validatie fout",
				"errors":  err.Error(),
			})
			return
		}

		newStatus, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"message": "Validatie fout",
				"errors":  gin.H{"status": "status must be one of pending, confirmed, preparing, ready, completed, cancelled"},
			})
			return
		}

		order, change, err := UpdateStatus(db, uint(orderID), newStatus, req.Notes, req.EstimatedTime)
		if err != nil {
			middleware.RecordOrderOperation("update_status", false)

			var transitionErr *InvalidTransitionError
			switch {
			case errors.Is(err, ErrOrderNotFound):
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Bestelling niet gevonden"})
			case errors.As(err, &transitionErr):
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": transitionErr.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"message": "Fout bij updaten bestelling status",
				})
			}
			return
		}

		middleware.RecordOrderOperation("update_status", true)
		broadcastOrderEvent("status_changed", *order)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": statusChangeMessage(change.To),
			"data": gin.H{
				"order": order,
				"status_changed": gin.H{
					"from":       change.From,
					"to":         change.To,
					"changed_at": change.ChangedAt.Format("02-01-2006 15:04:05"),
				},
			},
		})
	}
}

// POST /admin/orders/:id/mark-paid
func MarkPaidHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Ongeldig order ID"})
			return
		}

		var req MarkPaidRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"message": "Validatie fout",
				"errors":  err.Error(),
			})
			return
		}

		order, err := MarkPaid(db, uint(orderID), req.TransactionID)
		if err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Bestelling niet gevonden"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Fout bij updaten payment status",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Bestelling gemarkeerd als betaald",
			"data":    gin.H{"order": order},
		})
	}
}

// GET /admin/orders
func AdminListOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Items.Product").Preload("User")

		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if paymentStatus := c.Query("payment_status"); paymentStatus != "" {
			query = query.Where("payment_status = ?", paymentStatus)
		}
		if date := c.Query("date"); date != "" {
			query = query.Where("DATE(created_at) = ?", date)
		}
		if pickupDate := c.Query("pickup_date"); pickupDate != "" {
			query = query.Where("DATE(pickup_time) = ?", pickupDate)
		}
		if search := c.Query("search"); search != "" {
			like := "%" + search + "%"
			query = query.Where(
				"order_number LIKE ? OR customer_name LIKE ? OR customer_phone LIKE ?",
				like, like, like,
			)
		}

		var orders []models.Order
		if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Fout bij ophalen bestellingen",
			})
			return
		}

		summary, err := statusSummary(db)
		if err != nil {
			log.Printf("❌ Status summary mislukt: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Fout bij ophalen bestellingen",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"orders":  orders,
				"summary": summary,
			},
		})
	}
}

// GET /admin/orders/stats
func AdminStatsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		today := now.Format("2006-01-02")
		daysSinceMonday := (int(now.Weekday()) + 6) % 7
		weekStart := time.Date(now.Year(), now.Month(), now.Day()-daysSinceMonday, 0, 0, 0, 0, now.Location())
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

		var recent []models.Order
		if err := db.Preload("Items.Product").
			Order("created_at DESC").Limit(5).
			Find(&recent).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Fout bij ophalen statistieken",
			})
			return
		}

		var statsErr error
		count := func(cond string, args ...interface{}) int64 {
			n, err := countWhere(db, cond, args...)
			if err != nil && statsErr == nil {
				statsErr = err
			}
			return n
		}
		revenue := func(cond string, args ...interface{}) float64 {
			r, err := paidRevenueWhere(db, cond, args...)
			if err != nil && statsErr == nil {
				statsErr = err
			}
			return r
		}

		stats := gin.H{
			"today": gin.H{
				"total_orders":   count("DATE(created_at) = ?", today),
				"total_revenue":  revenue("DATE(created_at) = ?", today),
				"pending_orders": count("DATE(created_at) = ? AND status = ?", today, models.OrderStatusPending),
			},
			"this_week": gin.H{
				"total_orders":  count("created_at >= ?", weekStart),
				"total_revenue": revenue("created_at >= ?", weekStart),
			},
			"this_month": gin.H{
				"total_orders":  count("created_at >= ?", monthStart),
				"total_revenue": revenue("created_at >= ?", monthStart),
			},
			"recent_orders": recent,
		}
		summary, err := statusSummary(db)
		if err != nil && statsErr == nil {
			statsErr = err
		}
		if statsErr != nil {
			log.Printf("❌ Statistieken query mislukt: %v", statsErr)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Fout bij ophalen statistieken",
			})
			return
		}
		stats["status_counts"] = summary

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    stats,
		})
	}
}

func statusSummary(db *gorm.DB) (gin.H, error) {
	summary := gin.H{}
	for _, status := range []models.OrderStatus{
		models.OrderStatusPending, models.OrderStatusConfirmed,
		models.OrderStatusPreparing, models.OrderStatusReady,
		models.OrderStatusCompleted, models.OrderStatusCancelled,
	} {
		count, err := countWhere(db, "status = ?", status)
		if err != nil {
			return nil, err
		}
		summary[string(status)] = count
	}
	return summary, nil
}

func countWhere(db *gorm.DB, cond string, args ...interface{}) (int64, error) {
	var count int64
	err := db.Model(&models.Order{}).Where(cond, args...).Count(&count).Error
	return count, err
}

func paidRevenueWhere(db *gorm.DB, cond string, args ...interface{}) (float64, error) {
	var revenue float64
	err := db.Model(&models.Order{}).
		Where(cond, args...).
		Where("payment_status = ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error
	return revenue, err
}

func statusChangeMessage(status models.OrderStatus) string {
	switch status {
	case models.OrderStatusConfirmed:
		return "Bestelling bevestigd"
	case models.OrderStatusPreparing:
		return "Bestelling wordt bereid"
	case models.OrderStatusReady:
		return "Bestelling is klaar voor afhaal"
	case models.OrderStatusCompleted:
		return "Bestelling voltooid"
	case models.OrderStatusCancelled:
		return "Bestelling geannuleerd"
	default:
		return "Bestelling status bijgewerkt"
	}
}
