package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/pronoy1004/uniblox-assignment/internal/domain/cart"
	"github.com/pronoy1004/uniblox-assignment/internal/domain/product"
)

type cartItemDTO struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type cartDTO struct {
	Items       []cartItemDTO `json:"items"`
	TotalAmount float64       `json:"total_amount"`
	ItemCount   int           `json:"item_count"`
}

func cartToDTO(snap cart.Snapshot) cartDTO {
	items := make([]cartItemDTO, len(snap.Items))
	for i, l := range snap.Items {
		items[i] = cartItemDTO{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.InexactFloat64(),
		}
	}
	return cartDTO{
		Items:       items,
		TotalAmount: snap.TotalAmount.InexactFloat64(),
		ItemCount:   snap.ItemCount,
	}
}

// AddToCart adds a quantity of a product to the shared cart and returns the
// updated cart snapshot.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == "" {
		writeError(w, r, http.StatusBadRequest, "product_id is required")
		return
	}

	snap, err := h.cart.AddItem(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		h.writeCartError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, cartToDTO(snap))
}

// GetCart returns the current cart snapshot. It never fails.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, cartToDTO(h.cart.Snapshot()))
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear()
	writeJSON(w, r, http.StatusOK, map[string]string{"message": "cart cleared"})
}

func (h *Handler) writeCartError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		iqErr *cart.InvalidQuantityError
		isErr *cart.InsufficientStockError
	)
	switch {
	case errors.As(err, &iqErr), errors.As(err, &isErr), errors.Is(err, product.ErrNotFound):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "failed to add item to cart")
	}
}
