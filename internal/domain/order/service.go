package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pronoy1004/uniblox-assignment/internal/domain/analytics"
	"github.com/pronoy1004/uniblox-assignment/internal/domain/cart"
	"github.com/pronoy1004/uniblox-assignment/internal/domain/coupon"
)

// ErrEmptyCart is returned when checkout is attempted with no cart items.
var ErrEmptyCart = errors.New("cannot checkout with empty cart")

// Service is the checkout engine. It consumes the cart, validates an
// optional discount code against the registry, and commits the order,
// counter, analytics, and cart clear as one unit.
type Service struct {
	cart      *cart.Service
	coupons   *coupon.Registry
	orders    Repository
	analytics *analytics.Aggregator

	// mu serializes checkouts so two concurrent requests cannot both pass
	// validation on the same unused code or the same cart contents.
	mu sync.Mutex

	now   func() time.Time
	newID func() string
}

// NewService creates a checkout engine with the required collaborators.
func NewService(
	cartSvc *cart.Service,
	coupons *coupon.Registry,
	orders Repository,
	agg *analytics.Aggregator,
) *Service {
	return &Service{
		cart:      cartSvc,
		coupons:   coupons,
		orders:    orders,
		analytics: agg,
		now:       time.Now,
		newID:     newOrderID,
	}
}

// Checkout places an order for the current cart contents, applying the
// optional discount code. The whole sequence runs inside cart.Consume, which
// holds the cart lock: a concurrent AddItem either completes before the
// snapshot or lands after the order is committed, never in between.
// Validation completes before any state changes: on failure the cart, code,
// and counters are untouched, and on success the code redemption, order
// record, analytics update, and cart clear all take effect together.
func (s *Service) Checkout(ctx context.Context, discountCode string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var o *Order
	err := s.cart.Consume(func(snap cart.Snapshot) error {
		if len(snap.Items) == 0 {
			return ErrEmptyCart
		}

		total := snap.TotalAmount

		discount := decimal.Zero
		if discountCode != "" {
			c, err := s.coupons.Lookup(discountCode)
			if err != nil {
				return err
			}
			if c.Used {
				return coupon.ErrCouponUsed
			}
			discount = coupon.Apply(total)
		}

		final := total.Sub(discount)

		// Validation is complete; everything below must succeed.
		if discountCode != "" {
			if err := s.coupons.MarkUsed(discountCode); err != nil {
				return errors.Wrap(err, "mark discount code used")
			}
		}

		items := make([]LineItem, len(snap.Items))
		for i, l := range snap.Items {
			items[i] = LineItem{
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
			}
		}

		o = &Order{
			ID:             s.newID(),
			Items:          items,
			TotalAmount:    total,
			DiscountAmount: discount,
			FinalAmount:    final,
			DiscountCode:   discountCode,
			CreatedAt:      s.now(),
		}
		if err := s.orders.Create(ctx, o); err != nil {
			return errors.Wrap(err, "create order")
		}

		s.analytics.Record(snap.ItemCount, final, discount)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// newOrderID produces ids like order_1a2b3c4d.
func newOrderID() string {
	u := uuid.New()
	return fmt.Sprintf("order_%x", u[:4])
}
