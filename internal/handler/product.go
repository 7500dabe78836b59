package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/pronoy1004/uniblox-assignment/internal/domain/product"
)

type productDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"image_url,omitempty"`
}

func productToDTO(p product.Product) productDTO {
	return productDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Category:    p.Category,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
	}
}

// ListProducts returns the full catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("list products", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to list products")
		return
	}

	out := make([]productDTO, len(products))
	for i, p := range products {
		out[i] = productToDTO(p)
	}
	writeJSON(w, r, http.StatusOK, out)
}

// GetProduct returns a single catalog product by id.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "product "+id+" not found")
			return
		}
		zctx.From(r.Context()).Error("get product", zap.String("id", id), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to get product")
		return
	}

	writeJSON(w, r, http.StatusOK, productToDTO(*p))
}
