package analytics

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Report is the admin analytics view: running purchase totals plus every
// discount code ever generated (used or not).
type Report struct {
	TotalItemsPurchased int
	TotalPurchaseAmount decimal.Decimal
	DiscountCodes       []string
	TotalDiscountAmount decimal.Decimal
}

// Aggregator accumulates purchase totals. Only the checkout engine records
// into it, exactly once per completed order.
type Aggregator struct {
	mu             sync.Mutex
	itemsPurchased int
	purchaseAmount decimal.Decimal
	discountAmount decimal.Decimal
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		purchaseAmount: decimal.Zero,
		discountAmount: decimal.Zero,
	}
}

// Record adds one completed order to the running totals. finalAmount is the
// amount charged after discount; discountAmount is zero when no code applied.
func (a *Aggregator) Record(itemCount int, finalAmount, discountAmount decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.itemsPurchased += itemCount
	a.purchaseAmount = a.purchaseAmount.Add(finalAmount)
	a.discountAmount = a.discountAmount.Add(discountAmount)
}

// Report returns the totals at call time combined with the given list of
// generated discount codes. It never fails and is idempotent: two calls with
// no intervening Record return identical values.
func (a *Aggregator) Report(codes []string) Report {
	a.mu.Lock()
	defer a.mu.Unlock()

	return Report{
		TotalItemsPurchased: a.itemsPurchased,
		TotalPurchaseAmount: a.purchaseAmount,
		DiscountCodes:       codes,
		TotalDiscountAmount: a.discountAmount,
	}
}
