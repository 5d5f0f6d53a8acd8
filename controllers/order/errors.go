package orderControllers

import (
	"errors"
	"fmt"

	"github.com/soereshchotkan/afhaalrestaurant-website/models"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
)

// ValidationError carries field-level detail for malformed checkout
// input. It is produced before any write happens.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

// MinimumOrderError rejects a checkout below the configured minimum and
// carries how much is still missing.
type MinimumOrderError struct {
	Minimum      float64
	CurrentTotal float64
}

func (e *MinimumOrderError) Error() string {
	return fmt.Sprintf("minimum order amount is %.2f, cart total is %.2f", e.Minimum, e.CurrentTotal)
}

func (e *MinimumOrderError) Shortfall() float64 {
	return e.Minimum - e.CurrentTotal
}

// InvalidTransitionError names both ends of a rejected status change.
type InvalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %q to %q", e.From, e.To)
}

// CannotCancelError is returned when a customer tries to cancel an
// order that the kitchen already started on.
type CannotCancelError struct {
	Status models.OrderStatus
}

func (e *CannotCancelError) Error() string {
	return fmt.Sprintf("order in status %q can no longer be cancelled", e.Status)
}
