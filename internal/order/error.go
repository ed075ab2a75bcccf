package order

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrForbidden         = errors.New("not allowed to access this order")
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrNotCancellable    = errors.New("order can no longer be cancelled")
	ErrAlreadyCancelled  = errors.New("order is already cancelled")
	ErrAlreadyPaid       = errors.New("order is already paid")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPaymentFailed     = errors.New("payment failed")
)

// StockError is returned when the guarded decrement inside the create
// transaction finds less stock than the order needs.
type StockError struct {
	ProductName string
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.ProductName)
}
