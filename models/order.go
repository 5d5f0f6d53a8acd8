package models

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string
type PaymentStatus string
type PaymentMethod string

const (
	// Fulfillment statuses, in kitchen order
	OrderStatusPending   OrderStatus = "pending"   // Placed, waiting for the kitchen to confirm
	OrderStatusConfirmed OrderStatus = "confirmed" // Accepted, pickup time fixed
	OrderStatusPreparing OrderStatus = "preparing" // Being cooked
	OrderStatusReady     OrderStatus = "ready"     // Waiting on the counter
	OrderStatusCompleted OrderStatus = "completed" // Picked up
	OrderStatusCancelled OrderStatus = "cancelled" // Cancelled before preparation started

	// Payment statuses, independent of the fulfillment flow
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"

	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodIdeal  PaymentMethod = "ideal"
	PaymentMethodPaypal PaymentMethod = "paypal"
)

// statusTransitions is the full adjacency of the fulfillment state
// machine. Completed and cancelled are terminal; cancellation is only
// possible before preparation starts.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady},
	OrderStatusReady:     {OrderStatusCompleted},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CanCancel reports whether a customer may still cancel from s.
func (s OrderStatus) CanCancel() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToLower(s)) {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled:
		return OrderStatus(strings.ToLower(s)), nil
	default:
		return "", errors.New("invalid order status")
	}
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(strings.ToLower(s)) {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return PaymentStatus(strings.ToLower(s)), nil
	default:
		return "", errors.New("invalid payment status")
	}
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(s)) {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodIdeal, PaymentMethodPaypal:
		return PaymentMethod(strings.ToLower(s)), nil
	default:
		return "", errors.New("invalid payment method")
	}
}

// Order is created once, at checkout, and never rebuilt from the cart
// afterward. Customer contact fields are captured at checkout time and
// stay as entered even if the user profile changes later.
type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	OrderNumber   string        `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID        uint          `gorm:"index;not null" json:"user_id"`
	User          User          `json:"user,omitempty"`
	CustomerName  string        `gorm:"not null" json:"customer_name"`
	CustomerPhone string        `gorm:"not null" json:"customer_phone"`
	CustomerEmail string        `json:"customer_email"`
	PickupTime    time.Time     `gorm:"not null" json:"pickup_time"`
	PaymentMethod PaymentMethod `gorm:"type:VARCHAR(20);not null" json:"payment_method"`
	Status        OrderStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`

	PaymentTransactionID string `json:"payment_transaction_id,omitempty"`

	Subtotal    float64 `gorm:"not null" json:"subtotal"`
	TaxAmount   float64 `gorm:"not null" json:"tax_amount"`
	TotalAmount float64 `gorm:"not null" json:"total_amount"`

	Notes string `gorm:"size:1000" json:"notes"`

	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OrderItem freezes one cart line at checkout time.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	ProductID uint    `gorm:"not null" json:"product_id"`
	Product   Product `json:"product"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Price     float64 `gorm:"not null" json:"price"`
	Total     float64 `gorm:"not null" json:"total"`
	Notes     string  `gorm:"size:500" json:"notes"`
}
