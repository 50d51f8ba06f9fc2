package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountKind selects how a discount code changes the checkout totals.
type DiscountKind string

const (
	// DiscountPercent subtracts a percentage of the subtotal.
	DiscountPercent DiscountKind = "percent"
	// DiscountFixed subtracts a flat kroner amount.
	DiscountFixed DiscountKind = "fixed"
	// DiscountFreeShipping zeroes the delivery fee. The forgone fee is
	// reported as the discount amount but never subtracted from the total.
	DiscountFreeShipping DiscountKind = "free_shipping"
)

// DiscountCode is a named promotional rule. Codes are keyed uppercase;
// user input is trimmed and uppercased before lookup.
type DiscountCode struct {
	Code   string          `json:"code"`
	Kind   DiscountKind    `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

// NormalizeCode prepares user input for registry lookup.
func NormalizeCode(input string) string {
	return strings.ToUpper(strings.TrimSpace(input))
}

// AwardTTL is how long a discount awarded by the lucky wheel stays
// redeemable: 24 hours from the spin.
const AwardTTL = 24 * time.Hour

// DiscountAward is a discount code won on the lucky wheel, persisted as
// a single JSON object keyed by the spinning session.
type DiscountAward struct {
	Code      string          `json:"code"`
	Kind      DiscountKind    `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp int64           `json:"timestamp"` // unix milliseconds of the award
}

// Expired reports whether the award is older than AwardTTL at now.
func (a DiscountAward) Expired(now time.Time) bool {
	return now.UnixMilli()-a.Timestamp >= AwardTTL.Milliseconds()
}
