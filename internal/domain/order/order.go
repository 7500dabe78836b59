package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Order represents a completed checkout. Orders are created atomically by
// the checkout engine and never mutated afterward.
type Order struct {
	ID             string
	Items          []LineItem
	TotalAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	FinalAmount    decimal.Decimal
	DiscountCode   string
	CreatedAt      time.Time
}

// LineItem is a purchased line with the unit price the buyer actually paid.
type LineItem struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Repository stores completed orders. Count doubles as the order counter
// used for discount code eligibility.
type Repository interface {
	Create(ctx context.Context, order *Order) error
	Count(ctx context.Context) (int, error)
}
