package coupon

import "github.com/shopspring/decimal"

var (
	rate    = decimal.NewFromInt(10)
	hundred = decimal.NewFromInt(100)
)

// Apply calculates the 10% discount for the given pre-discount total,
// rounded to 2 decimal places (half away from zero). Every amount in the
// system is rounded with this same rule.
func Apply(total decimal.Decimal) decimal.Decimal {
	return total.Mul(rate).Div(hundred).Round(2)
}
