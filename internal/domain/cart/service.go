package cart

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/pronoy1004/uniblox-assignment/internal/domain/product"
)

// Service owns the single process-wide cart. All reads and mutations go
// through s.mu, so concurrent handlers never observe a half-updated cart.
type Service struct {
	products product.Repository

	mu    sync.Mutex
	lines []Line
}

// NewService creates a cart Service backed by the given product catalog.
func NewService(products product.Repository) *Service {
	return &Service{products: products}
}

// AddItem validates the request against the catalog and merges the quantity
// into the cart. The stock check counts what is already in the cart: adding
// 3 of a product with 2 already carted requires stock of at least 5.
func (s *Service) AddItem(ctx context.Context, productID string, quantity int) (Snapshot, error) {
	if quantity <= 0 {
		return Snapshot{}, &InvalidQuantityError{ProductID: productID}
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return Snapshot{}, err
		}
		return Snapshot{}, errors.Wrapf(err, "get product %s", productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	carted := 0
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			idx = i
			carted = s.lines[i].Quantity
			break
		}
	}

	if carted+quantity > p.Stock {
		return Snapshot{}, &InsufficientStockError{
			ProductID: productID,
			Requested: carted + quantity,
			Available: p.Stock,
		}
	}

	if idx >= 0 {
		s.lines[idx].Quantity += quantity
	} else {
		s.lines = append(s.lines, Line{
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: p.Price,
		})
	}

	return s.snapshotLocked(), nil
}

// Snapshot returns the current cart contents and derived totals.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Clear unconditionally empties the cart, serving the clear-cart endpoint.
// Checkout empties it through Consume instead.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Consume runs fn with the current snapshot while holding the cart lock, so
// no concurrent AddItem or Clear can interleave with it. When fn returns nil
// the snapshotted lines are removed; on error the cart is left untouched.
// The checkout engine uses this to make its snapshot-validate-commit sequence
// and cart mutation mutually exclusive.
func (s *Service) Consume(fn func(Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.snapshotLocked()); err != nil {
		return err
	}
	s.lines = nil
	return nil
}

// snapshotLocked copies the lines and computes totals. Caller must hold s.mu.
func (s *Service) snapshotLocked() Snapshot {
	items := make([]Line, len(s.lines))
	copy(items, s.lines)

	total := decimal.Zero
	count := 0
	for _, l := range items {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		count += l.Quantity
	}

	return Snapshot{
		Items:       items,
		TotalAmount: total.Round(2),
		ItemCount:   count,
	}
}
