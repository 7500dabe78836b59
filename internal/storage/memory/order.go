package memory

import (
	"context"
	"sync"

	"github.com/pronoy1004/uniblox-assignment/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository in memory. The stored order
// count is the monotonically increasing counter that gates discount code
// generation.
type OrderRepository struct {
	mu     sync.RWMutex
	orders []*order.Order
}

// NewOrderRepository returns an empty OrderRepository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Create appends a completed order.
func (r *OrderRepository) Create(_ context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *o
	r.orders = append(r.orders, &stored)
	return nil
}

// Count returns the number of completed orders.
func (r *OrderRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders), nil
}
