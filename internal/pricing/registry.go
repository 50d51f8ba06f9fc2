package pricing

import (
	"github.com/shopspring/decimal"

	"pizzeria/internal/models"
)

// DiscountRegistry resolves a normalized code to its promotional rule.
type DiscountRegistry interface {
	Lookup(code string) (models.DiscountCode, bool)
}

// StaticRegistry is an in-memory registry keyed by uppercase code.
type StaticRegistry map[string]models.DiscountCode

// Lookup normalizes the input and returns the matching code, if any.
func (r StaticRegistry) Lookup(code string) (models.DiscountCode, bool) {
	dc, ok := r[models.NormalizeCode(code)]
	return dc, ok
}

// NewDefaultRegistry returns the codes the restaurant runs by default,
// including the lucky wheel prizes.
func NewDefaultRegistry() StaticRegistry {
	codes := []models.DiscountCode{
		{Code: "SPIN5", Kind: models.DiscountPercent, Amount: decimal.NewFromInt(5)},
		{Code: "SPIN10", Kind: models.DiscountPercent, Amount: decimal.NewFromInt(10)},
		{Code: "SPIN15", Kind: models.DiscountPercent, Amount: decimal.NewFromInt(15)},
		{Code: "SPIN20", Kind: models.DiscountPercent, Amount: decimal.NewFromInt(20)},
		{Code: "FIFTY", Kind: models.DiscountFixed, Amount: decimal.NewFromInt(50)},
		{Code: "FREESHIP", Kind: models.DiscountFreeShipping, Amount: decimal.Zero},
	}

	registry := make(StaticRegistry, len(codes))
	for _, dc := range codes {
		registry[dc.Code] = dc
	}
	return registry
}
