// Package handler exposes the store over HTTP. Handlers decode and validate
// request bodies, delegate to the domain services, and map domain errors to
// the client-facing error shape.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pronoy1004/uniblox-assignment/internal/domain/analytics"
	"github.com/pronoy1004/uniblox-assignment/internal/domain/cart"
	"github.com/pronoy1004/uniblox-assignment/internal/domain/coupon"
	"github.com/pronoy1004/uniblox-assignment/internal/domain/order"
	"github.com/pronoy1004/uniblox-assignment/internal/domain/product"
)

// Handler holds the domain collaborators behind the HTTP surface.
type Handler struct {
	products  product.Repository
	cart      *cart.Service
	checkout  *order.Service
	coupons   *coupon.Registry
	orders    order.Repository
	analytics *analytics.Aggregator
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	products product.Repository,
	cartSvc *cart.Service,
	checkout *order.Service,
	coupons *coupon.Registry,
	orders order.Repository,
	agg *analytics.Aggregator,
) *Handler {
	return &Handler{
		products:  products,
		cart:      cartSvc,
		checkout:  checkout,
		coupons:   coupons,
		orders:    orders,
		analytics: agg,
	}
}

// Routes returns the API router. All routes are relative to the mount
// point, conventionally /api/v1.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/products", h.ListProducts)
	r.Get("/products/{id}", h.GetProduct)

	r.Post("/cart/add", h.AddToCart)
	r.Get("/cart", h.GetCart)
	r.Delete("/cart/clear", h.ClearCart)

	r.Post("/checkout", h.Checkout)

	r.Post("/admin/discount/generate", h.GenerateDiscountCode)
	r.Get("/admin/analytics", h.GetAnalytics)

	return r
}
