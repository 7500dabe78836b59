package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/pronoy1004/uniblox-assignment/internal/domain/coupon"
)

type generateCodeResponse struct {
	Message      string    `json:"message"`
	DiscountCode string    `json:"discount_code"`
	CreatedAt    time.Time `json:"created_at"`
}

type analyticsResponse struct {
	TotalItemsPurchased int      `json:"total_items_purchased"`
	TotalPurchaseAmount float64  `json:"total_purchase_amount"`
	DiscountCodes       []string `json:"discount_codes"`
	TotalDiscountAmount float64  `json:"total_discount_amount"`
}

// GenerateDiscountCode creates a new discount code when the completed order
// count is a positive multiple of the configured interval.
func (h *Handler) GenerateDiscountCode(w http.ResponseWriter, r *http.Request) {
	count, err := h.orders.Count(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("count orders", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to count orders")
		return
	}

	c, err := h.coupons.Generate(count)
	if err != nil {
		if errors.Is(err, coupon.ErrNotEligible) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		zctx.From(r.Context()).Error("generate discount code", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to generate discount code")
		return
	}

	writeJSON(w, r, http.StatusOK, generateCodeResponse{
		Message:      "Discount code generated successfully",
		DiscountCode: c.Code,
		CreatedAt:    c.CreatedAt,
	})
}

// GetAnalytics returns the admin report: running purchase totals plus every
// discount code ever generated.
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	report := h.analytics.Report(h.coupons.Codes())

	writeJSON(w, r, http.StatusOK, analyticsResponse{
		TotalItemsPurchased: report.TotalItemsPurchased,
		TotalPurchaseAmount: report.TotalPurchaseAmount.InexactFloat64(),
		DiscountCodes:       report.DiscountCodes,
		TotalDiscountAmount: report.TotalDiscountAmount.InexactFloat64(),
	})
}
