package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzeria/internal/models"
)

func line(price string, size models.Size, qty int) models.CartLine {
	return models.CartLine{
		ItemID:    "itm-1",
		Name:      "Margherita",
		UnitPrice: decimal.RequireFromString(price),
		Size:      size,
		Quantity:  qty,
	}
}

func TestQuote_SubtotalAdditivity(t *testing.T) {
	calc := NewDefault(NewDefaultRegistry())

	lines := []models.CartLine{
		line("89", models.SizeSmall, 1),
		line("120", models.SizeMedium, 2),
		line("99", models.SizeLarge, 3),
	}

	b, err := calc.Quote(lines, "")
	require.NoError(t, err)

	want := decimal.Zero
	for _, l := range lines {
		want = want.Add(l.UnitPrice.Mul(l.Size.Multiplier()).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	assert.True(t, b.Subtotal.Equal(want), "subtotal %s, want %s", b.Subtotal, want)
}

func TestQuote_ExampleScenario(t *testing.T) {
	// 89 x 1.15 x 2 = 204.70 > 150, so delivery is free.
	calc := NewDefault(NewDefaultRegistry())

	b, err := calc.Quote([]models.CartLine{line("89", models.SizeMedium, 2)}, "")
	require.NoError(t, err)
	assert.True(t, b.Subtotal.Equal(decimal.RequireFromString("204.7")))
	assert.True(t, b.DeliveryFee.IsZero())
	assert.True(t, b.Total.Equal(decimal.RequireFromString("204.7")))

	b, err = calc.Quote([]models.CartLine{line("89", models.SizeMedium, 2)}, "SPIN10")
	require.NoError(t, err)
	assert.True(t, b.DiscountAmount.Equal(decimal.RequireFromString("20.47")), "discount %s", b.DiscountAmount)
	assert.True(t, b.Total.Equal(decimal.RequireFromString("184.23")), "total %s", b.Total)
}

func TestQuote_FreeDeliveryThreshold(t *testing.T) {
	calc := NewDefault(NewDefaultRegistry())

	tests := []struct {
		name    string
		price   string
		wantFee string
	}{
		{"below threshold", "100", "39"},
		{"exactly at threshold", "150", "39"},
		{"above threshold", "151", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := calc.Quote([]models.CartLine{line(tt.price, models.SizeSmall, 1)}, "")
			require.NoError(t, err)
			assert.True(t, b.DeliveryFee.Equal(decimal.RequireFromString(tt.wantFee)),
				"fee %s, want %s", b.DeliveryFee, tt.wantFee)
		})
	}
}

func TestQuote_EmptyCart(t *testing.T) {
	calc := NewDefault(NewDefaultRegistry())

	b, err := calc.Quote(nil, "")
	require.NoError(t, err)
	assert.True(t, b.Subtotal.IsZero())
	assert.True(t, b.DeliveryFee.Equal(decimal.NewFromInt(39)))
	assert.True(t, b.Total.Equal(decimal.NewFromInt(39)))

	b, err = calc.Quote(nil, "FREESHIP")
	require.NoError(t, err)
	assert.True(t, b.Total.IsZero())
}

func TestQuote_DiscountExclusivity(t *testing.T) {
	// Re-quoting with a second code must fully replace the first: a
	// 200 kr cart quoted with SPIN10 then SPIN20 reflects only the 20%.
	calc := NewDefault(NewDefaultRegistry())
	lines := []models.CartLine{line("200", models.SizeSmall, 1)}

	_, err := calc.Quote(lines, "SPIN10")
	require.NoError(t, err)

	b, err := calc.Quote(lines, "SPIN20")
	require.NoError(t, err)
	assert.True(t, b.DiscountAmount.Equal(decimal.NewFromInt(40)), "discount %s", b.DiscountAmount)
	assert.True(t, b.Total.Equal(decimal.NewFromInt(160)), "total %s", b.Total)
}

func TestQuote_FreeShippingNotDoubleCounted(t *testing.T) {
	// Subtotal 100 normally carries a 39 kr fee; FREESHIP zeroes the
	// fee and reports it as the discount without subtracting it again.
	calc := NewDefault(NewDefaultRegistry())

	b, err := calc.Quote([]models.CartLine{line("100", models.SizeSmall, 1)}, "FREESHIP")
	require.NoError(t, err)
	assert.True(t, b.DeliveryFee.IsZero())
	assert.True(t, b.DiscountAmount.Equal(decimal.NewFromInt(39)))
	assert.True(t, b.Total.Equal(decimal.NewFromInt(100)), "total %s", b.Total)
}

func TestQuote_FixedDiscountClampedAtZero(t *testing.T) {
	calc := NewDefault(NewDefaultRegistry())

	b, err := calc.Quote([]models.CartLine{line("5", models.SizeSmall, 1)}, "FIFTY")
	require.NoError(t, err)
	assert.True(t, b.DiscountAmount.Equal(decimal.NewFromInt(50)))
	assert.True(t, b.Total.IsZero(), "total %s should be floored at zero", b.Total)
}

func TestQuote_CodeNormalization(t *testing.T) {
	calc := NewDefault(NewDefaultRegistry())
	lines := []models.CartLine{line("200", models.SizeSmall, 1)}

	for _, input := range []string{"spin10", "  SPIN10  ", "Spin10"} {
		b, err := calc.Quote(lines, input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, "SPIN10", b.AppliedCode)
		assert.True(t, b.DiscountAmount.Equal(decimal.NewFromInt(20)))
	}
}

func TestQuote_UnknownCode(t *testing.T) {
	// Checkout proceeds without a discount; the error is surfaced to
	// the user inline.
	calc := NewDefault(NewDefaultRegistry())

	b, err := calc.Quote([]models.CartLine{line("100", models.SizeSmall, 1)}, "BOGUS")
	require.ErrorIs(t, err, models.ErrInvalidDiscountCode)
	assert.Empty(t, b.AppliedCode)
	assert.True(t, b.DiscountAmount.IsZero())
	assert.True(t, b.Total.Equal(decimal.NewFromInt(139)), "total %s", b.Total)
}

func TestQuote_DoesNotMutateCart(t *testing.T) {
	calc := NewDefault(NewDefaultRegistry())
	lines := []models.CartLine{line("100", models.SizeMedium, 2)}
	before := lines[0]

	_, err := calc.Quote(lines, "SPIN10")
	require.NoError(t, err)
	assert.Equal(t, before.Quantity, lines[0].Quantity)
	assert.True(t, before.UnitPrice.Equal(lines[0].UnitPrice))
}

func TestBuildCustomPizza(t *testing.T) {
	ingredients := []models.Ingredient{
		{ID: "ing-1", Name: "Mozzarella", Category: models.IngredientCheese, Price: decimal.NewFromInt(10), Available: true},
		{ID: "ing-2", Name: "Pepperoni", Category: models.IngredientMeat, Price: decimal.NewFromInt(15), Available: true},
	}

	cl, err := BuildCustomPizza("My Pizza", decimal.NewFromInt(79), ingredients, models.SizeLarge, 1)
	require.NoError(t, err)
	assert.True(t, cl.UnitPrice.Equal(decimal.NewFromInt(104)))

	// 104 x 1.3 = 135.2
	assert.True(t, cl.LineTotal().Equal(decimal.RequireFromString("135.2")))

	ingredients[1].Available = false
	_, err = BuildCustomPizza("My Pizza", decimal.NewFromInt(79), ingredients, models.SizeLarge, 1)
	var ve *models.ValidationError
	require.True(t, errors.As(err, &ve))
}
