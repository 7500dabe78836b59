package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/pronoy1004/uniblox-assignment/internal/domain/coupon"
	"github.com/pronoy1004/uniblox-assignment/internal/domain/order"
)

type checkoutResponse struct {
	OrderID        string  `json:"order_id"`
	TotalAmount    float64 `json:"total_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	FinalAmount    float64 `json:"final_amount"`
	DiscountCode   string  `json:"discount_code,omitempty"`
	Message        string  `json:"message"`
}

// Checkout places an order for the current cart, applying an optional
// single-use discount code.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DiscountCode string `json:"discount_code"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	o, err := h.checkout.Checkout(r.Context(), req.DiscountCode)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyCart),
			errors.Is(err, coupon.ErrInvalidCoupon),
			errors.Is(err, coupon.ErrCouponUsed):
			writeError(w, r, http.StatusBadRequest, err.Error())
		default:
			zctx.From(r.Context()).Error("checkout", zap.Error(err))
			writeError(w, r, http.StatusInternalServerError, "checkout failed")
		}
		return
	}

	writeJSON(w, r, http.StatusOK, checkoutResponse{
		OrderID:        o.ID,
		TotalAmount:    o.TotalAmount.InexactFloat64(),
		DiscountAmount: o.DiscountAmount.InexactFloat64(),
		FinalAmount:    o.FinalAmount.InexactFloat64(),
		DiscountCode:   o.DiscountCode,
		Message:        "Order placed successfully!",
	})
}
