package models

import "time"

// CartItem is one line of a user's cart. Price is snapshotted when the
// line is added so a later menu price change does not affect a pending
// cart. The composite unique index keeps one line per (user, product);
// adding the same product again increments the quantity instead.
type CartItem struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	UserID              uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID           uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Product             Product   `json:"product"`
	Quantity            int       `gorm:"not null" json:"quantity"`
	Price               float64   `gorm:"not null" json:"price"`
	SpecialInstructions string    `gorm:"size:500" json:"special_instructions"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Subtotal is quantity times the snapshotted unit price.
func (ci CartItem) Subtotal() float64 {
	return float64(ci.Quantity) * ci.Price
}
