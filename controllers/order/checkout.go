package orderControllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soereshchotkan/afhaalrestaurant-website/config"
	"github.com/soereshchotkan/afhaalrestaurant-website/middleware"
	"github.com/soereshchotkan/afhaalrestaurant-website/models"
	"github.com/soereshchotkan/afhaalrestaurant-website/pricing"
	"gorm.io/gorm"
)

type CheckoutRequest struct {
	CustomerName  string    `json:"customer_name" binding:"required,max=255"`
	CustomerPhone string    `json:"customer_phone" binding:"required,max=20"`
	CustomerEmail string    `json:"customer_email" binding:"omitempty,email,max=255"`
	PickupTime    time.Time `json:"pickup_time" binding:"required"`
	PaymentMethod string    `json:"payment_method" binding:"required"`
	Notes         string    `json:"notes" binding:"omitempty,max=1000"`
}

// checkoutAttempts bounds the whole-transaction retry on an order
// number collision; two attempts colliding back to back is already
// rare, three means something else is wrong.
const checkoutAttempts = 3

func validateCheckout(req CheckoutRequest, now time.Time) (models.PaymentMethod, error) {
	fields := map[string]string{}
	if req.CustomerName == "" {
		fields["customer_name"] = "customer name is required"
	}
	if req.CustomerPhone == "" {
		fields["customer_phone"] = "customer phone is required"
	}
	if !req.PickupTime.After(now) {
		fields["pickup_time"] = "pickup time must be in the future"
	}
	if len(req.Notes) > 1000 {
		fields["notes"] = "notes may be at most 1000 characters"
	}
	method, err := models.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		fields["payment_method"] = "payment method must be one of cash, card, ideal, paypal"
	}
	if len(fields) > 0 {
		return "", &ValidationError{Fields: fields}
	}
	return method, nil
}

// Checkout converts the user's cart into an order. The order insert,
// the order items and the cart clear run in one transaction; on any
// failure everything rolls back and the cart is left exactly as it was.
// Totals are computed from the snapshot prices on the cart lines, never
// from the live menu.
func Checkout(db *gorm.DB, cfg *config.Config, userID uint, req CheckoutRequest) (*models.Order, error) {
	method, err := validateCheckout(req, time.Now())
	if err != nil {
		return nil, err
	}

	var cartItems []models.CartItem
	if err := db.Preload("Product").
		Where("user_id = ?", userID).
		Find(&cartItems).Error; err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	lines := make([]pricing.Line, 0, len(cartItems))
	for _, item := range cartItems {
		lines = append(lines, pricing.Line{Quantity: item.Quantity, UnitPrice: item.Price})
	}
	summary := pricing.Calculate(lines, cfg.TaxRate)

	if summary.Total < cfg.MinOrderAmount {
		return nil, &MinimumOrderError{Minimum: cfg.MinOrderAmount, CurrentTotal: summary.Total}
	}

	var order models.Order
	for attempt := 0; attempt < checkoutAttempts; attempt++ {
		order = models.Order{}
		err = db.Transaction(func(tx *gorm.DB) error {
			number, err := generateOrderNumber(tx, time.Now())
			if err != nil {
				return err
			}

			items := make([]models.OrderItem, 0, len(cartItems))
			for _, item := range cartItems {
				items = append(items, models.OrderItem{
					ProductID: item.ProductID,
					Quantity:  item.Quantity,
					Price:     item.Price,
					Total:     float64(item.Quantity) * item.Price,
					Notes:     item.SpecialInstructions,
				})
			}

			order = models.Order{
				OrderNumber:   number,
				UserID:        userID,
				CustomerName:  req.CustomerName,
				CustomerPhone: req.CustomerPhone,
				CustomerEmail: req.CustomerEmail,
				PickupTime:    req.PickupTime,
				PaymentMethod: method,
				Status:        models.OrderStatusPending,
				PaymentStatus: models.PaymentStatusPending,
				Subtotal:      summary.Subtotal,
				TaxAmount:     summary.Tax,
				TotalAmount:   summary.Total,
				Notes:         req.Notes,
				Items:         items,
			}
			if err := tx.Create(&order).Error; err != nil {
				return err
			}

			// Clear every line still present for this user, not just the
			// ones read above, so a line added mid-checkout is not left
			// dangling without an order item.
			if err := tx.Where("user_id = ?", userID).
				Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			return nil
		})

		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the order number race; run the whole unit again.
			continue
		}
		break
	}
	if err != nil {
		return nil, err
	}

	if err := db.Preload("Items.Product").Preload("User").
		First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// CheckoutHandler binds the request, runs Checkout and maps domain
// errors onto the response envelope.
func CheckoutHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"message": "Validatie fout",
				"errors":  err.Error(),
			})
			return
		}

		order, err := Checkout(db, cfg, userID, req)
		if err != nil {
			middleware.RecordOrderOperation("checkout", false)

			var validationErr *ValidationError
			var minimumErr *MinimumOrderError
			switch {
			case errors.As(err, &validationErr):
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"success": false,
					"message": "Validatie fout",
					"errors":  validationErr.Fields,
				})
			case errors.Is(err, ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"message": "Je winkelwagen is leeg",
				})
			case errors.As(err, &minimumErr):
				c.JSON(http.StatusBadRequest, gin.H{
					"success":          false,
					"message":          fmt.Sprintf("Minimum bestelbedrag is €%.2f", minimumErr.Minimum),
					"current_total":    fmt.Sprintf("%.2f", minimumErr.CurrentTotal),
					"minimum_required": fmt.Sprintf("%.2f", minimumErr.Minimum),
					"amount_needed":    fmt.Sprintf("%.2f", minimumErr.Shortfall()),
				})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"message": "Er is een fout opgetreden bij het plaatsen van de bestelling",
				})
			}
			return
		}

		middleware.RecordOrderOperation("checkout", true)
		broadcastOrderEvent("order_placed", *order)

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Bestelling succesvol geplaatst!",
			"data":    gin.H{"order": checkoutResponse(order)},
		})
	}
}

// checkoutResponse renders the order the way the frontend expects it:
// money fixed to two decimals, Dutch day-first timestamps.
func checkoutResponse(order *models.Order) gin.H {
	items := make([]gin.H, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, gin.H{
			"product_name": item.Product.Name,
			"quantity":     item.Quantity,
			"price":        fmt.Sprintf("%.2f", item.Price),
			"total":        fmt.Sprintf("%.2f", item.Total),
			"notes":        item.Notes,
		})
	}
	return gin.H{
		"id":             order.ID,
		"order_number":   order.OrderNumber,
		"status":         order.Status,
		"customer_name":  order.CustomerName,
		"customer_phone": order.CustomerPhone,
		"customer_email": order.CustomerEmail,
		"pickup_time":    order.PickupTime.Format("02-01-2006 15:04"),
		"payment_method": order.PaymentMethod,
		"payment_status": order.PaymentStatus,
		"subtotal":       fmt.Sprintf("%.2f", order.Subtotal),
		"tax_amount":     fmt.Sprintf("%.2f", order.TaxAmount),
		"total_amount":   fmt.Sprintf("%.2f", order.TotalAmount),
		"notes":          order.Notes,
		"created_at":     order.CreatedAt.Format("02-01-2006 15:04:05"),
		"items":          items,
	}
}
