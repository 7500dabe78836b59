package memory

import (
	"context"
	"sync"

	"github.com/pronoy1004/uniblox-assignment/internal/domain/product"
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository over an in-memory catalog.
// The catalog is fixed at construction time.
type ProductRepository struct {
	mu    sync.RWMutex
	byID  map[string]product.Product
	order []string
}

// NewProductRepository builds a repository from the given products,
// preserving their order for List.
func NewProductRepository(products []product.Product) *ProductRepository {
	byID := make(map[string]product.Product, len(products))
	order := make([]string, 0, len(products))
	for _, p := range products {
		if _, exists := byID[p.ID]; exists {
			continue
		}
		byID[p.ID] = p
		order = append(order, p.ID)
	}
	return &ProductRepository{byID: byID, order: order}
}

// List returns all catalog products in their seeded order.
func (r *ProductRepository) List(_ context.Context) ([]product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]product.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

// GetByID returns the product with the given id, or product.ErrNotFound.
func (r *ProductRepository) GetByID(_ context.Context, id string) (*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}
