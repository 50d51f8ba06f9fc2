// Package pricing computes checkout totals: subtotal over sized cart
// lines, the flat delivery fee with its free-delivery threshold, and a
// single optional discount code.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"pizzeria/internal/models"
)

var oneHundred = decimal.NewFromInt(100)

// Breakdown is the result of pricing a cart. All amounts are kroner.
type Breakdown struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryFee    decimal.Decimal `json:"delivery_fee"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
	AppliedCode    string          `json:"applied_code,omitempty"`
}

// Calculator prices carts against a discount registry. It never mutates
// the cart lines it is given.
type Calculator struct {
	deliveryFee   decimal.Decimal
	freeThreshold decimal.Decimal
	registry      DiscountRegistry
}

// Defaults per the restaurant's standing offer: 39 kr delivery, free
// above 150 kr.
var (
	DefaultDeliveryFee           = decimal.NewFromInt(39)
	DefaultFreeDeliveryThreshold = decimal.NewFromInt(150)
)

// New creates a calculator with the given fee and threshold.
func New(deliveryFee, freeThreshold decimal.Decimal, registry DiscountRegistry) *Calculator {
	return &Calculator{
		deliveryFee:   deliveryFee,
		freeThreshold: freeThreshold,
		registry:      registry,
	}
}

// NewDefault creates a calculator with the default fee and threshold.
func NewDefault(registry DiscountRegistry) *Calculator {
	return New(DefaultDeliveryFee, DefaultFreeDeliveryThreshold, registry)
}

// Quote prices the cart with an optional discount code. A code is
// matched case-insensitively after trimming whitespace; an unknown code
// returns both a quote without any discount and ErrInvalidDiscountCode,
// so checkout can proceed while the caller surfaces the rejection.
// Exactly one code applies at a time: Quote is stateless, so quoting
// again with a different code fully replaces the previous effect.
func (c *Calculator) Quote(lines []models.CartLine, code string) (Breakdown, error) {
	subtotal := Subtotal(lines)

	deliveryFee := c.deliveryFee
	if subtotal.GreaterThan(c.freeThreshold) {
		deliveryFee = decimal.Zero
	}

	b := Breakdown{
		Subtotal:       subtotal,
		DeliveryFee:    deliveryFee,
		DiscountAmount: decimal.Zero,
	}

	code = models.NormalizeCode(code)
	if code == "" {
		b.Total = subtotal.Add(deliveryFee)
		return b, nil
	}

	dc, ok := c.registry.Lookup(code)
	if !ok {
		b.Total = subtotal.Add(deliveryFee)
		return b, fmt.Errorf("%w: %q", models.ErrInvalidDiscountCode, code)
	}

	b.AppliedCode = dc.Code
	subtract := decimal.Zero

	switch dc.Kind {
	case models.DiscountPercent:
		b.DiscountAmount = subtotal.Mul(dc.Amount).Div(oneHundred)
		subtract = b.DiscountAmount
	case models.DiscountFixed:
		b.DiscountAmount = dc.Amount
		subtract = b.DiscountAmount
	case models.DiscountFreeShipping:
		// The forgone fee is reported for display but never subtracted
		// from the total a second time.
		b.DiscountAmount = b.DeliveryFee
		b.DeliveryFee = decimal.Zero
	}

	total := subtotal.Add(b.DeliveryFee).Sub(subtract)
	if total.IsNegative() {
		// An oversized fixed discount floors the total at zero instead
		// of producing a negative amount owed.
		total = decimal.Zero
	}
	b.Total = total

	return b, nil
}

// Subtotal sums unit price x size multiplier x quantity over the lines.
func Subtotal(lines []models.CartLine) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal())
	}
	return subtotal
}

// BuildCustomPizza prices a builder pizza: base price plus the selected
// available ingredients, returned as a cart line ready for Quote.
func BuildCustomPizza(name string, base decimal.Decimal, ingredients []models.Ingredient, size models.Size, quantity int) (models.CartLine, error) {
	if !size.Valid() {
		return models.CartLine{}, models.NewValidationError("size", "must be one of: small, medium, large")
	}
	if quantity < 1 {
		return models.CartLine{}, models.NewValidationError("quantity", "must be at least 1")
	}

	price := base
	for _, ing := range ingredients {
		if !ing.Available {
			return models.CartLine{}, models.NewValidationError("ingredients", "ingredient %s is not available", ing.ID)
		}
		price = price.Add(ing.Price)
	}

	return models.CartLine{
		ItemID:    "custom",
		Name:      name,
		UnitPrice: price,
		Size:      size,
		Quantity:  quantity,
	}, nil
}
