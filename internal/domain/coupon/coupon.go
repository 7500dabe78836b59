package coupon

import (
	"time"

	"github.com/go-faster/errors"
)

// CodePrefix is the fixed prefix of every generated discount code.
const CodePrefix = "SAVE10_"

// suffixLen is the number of random characters after the prefix.
const suffixLen = 6

var (
	// ErrInvalidCoupon is returned when a discount code is not found.
	ErrInvalidCoupon = errors.New("invalid discount code")
	// ErrCouponUsed is returned when a discount code has already been redeemed.
	ErrCouponUsed = errors.New("discount code already used")
	// ErrNotEligible is returned when the order count does not permit
	// generating a new discount code yet.
	ErrNotEligible = errors.New("not eligible to generate discount code yet")
	// ErrCodeSpaceExhausted is returned when the registry cannot produce a
	// unique code within the retry bound. With a 36^6 code space this only
	// happens under a misconfigured or broken randomness source.
	ErrCodeSpaceExhausted = errors.New("discount code space exhausted")
)

// Code is a single-use 10%-off discount code. The used transition is one-way:
// once redeemed, a code never becomes usable again.
type Code struct {
	Code      string
	Used      bool
	CreatedAt time.Time
	UsedAt    *time.Time
}

// Eligible reports whether a new discount code may be generated given the
// number of completed orders. Generation is allowed exactly when the order
// count is a positive multiple of everyNth.
func Eligible(orderCount, everyNth int) bool {
	if everyNth <= 0 {
		return false
	}
	return orderCount > 0 && orderCount%everyNth == 0
}
