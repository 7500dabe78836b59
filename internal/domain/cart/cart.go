package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Line is a single cart entry. UnitPrice is captured when the line is first
// added, so a later catalog price change does not affect an open cart.
type Line struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Snapshot is an immutable view of the cart at a point in time. TotalAmount
// and ItemCount are always recomputed from the lines, never stored.
type Snapshot struct {
	Items       []Line
	TotalAmount decimal.Decimal
	ItemCount   int
}

// InvalidQuantityError indicates a non-positive quantity was requested.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// InsufficientStockError indicates the requested quantity, combined with what
// is already in the cart, exceeds the available stock.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
