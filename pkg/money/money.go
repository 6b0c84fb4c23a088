package money

import "github.com/shopspring/decimal"

// CurrencySymbol prefixes formatted prices. The marketplace bills in INR.
const CurrencySymbol = "₹"

// FormatPrice renders a price for display with two decimals. Internal
// computation stays on unrounded float64 values; this is the only place
// monetary values are rounded.
func FormatPrice(value float64) string {
	return CurrencySymbol + decimal.NewFromFloat(value).StringFixed(2)
}

// FormatAmount renders an aggregate amount for display. Same shape as
// FormatPrice; the names keep line prices and cart totals distinct at call
// sites.
func FormatAmount(value float64) string {
	return FormatPrice(value)
}

// FormatMargin renders a margin percentage with one decimal.
func FormatMargin(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(1) + "%"
}
