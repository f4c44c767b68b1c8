package pricing

import (
	"math"
	"testing"

	"github.com/deecee-hair/storefront-api/internal/catalog"
)

const tolerance = 0.01

func TestSubtotal(t *testing.T) {
	weft := catalog.Product{
		ID:    2,
		Price: 24,
		SizeTexturePricing: map[string]map[string]float64{
			`8"`: {"Curly": 27},
		},
	}
	bulk := catalog.Product{
		ID:          1,
		Price:       150,
		SizePricing: map[string]float64{`6"`: 150},
	}
	lines := []Line{
		{Product: weft, Selection: Selection{Size: `8"`, Texture: "Curly"}, Qty: 2},
		{Product: bulk, Selection: Selection{Size: `6"`}, Qty: 1},
		{Product: bulk, Selection: Selection{Size: `6"`}, Qty: 0}, // ignored
	}
	got := Subtotal(lines)
	if math.Abs(got-204) > tolerance {
		t.Fatalf("expected subtotal 204, got %g", got)
	}
}

func TestComputeQuoteOrdering(t *testing.T) {
	// subtotal 100, free shipping from 58, 18% tax, 10% promo:
	// 100 + 0 + 18 - 10 = 108.
	q := ComputeQuote(100, QuoteParams{
		ShippingFee:           5,
		FreeShippingThreshold: 58,
		TaxPercent:            18,
		PromoPercent:          10,
	})
	if math.Abs(q.Shipping) > tolerance {
		t.Fatalf("expected waived shipping, got %g", q.Shipping)
	}
	if math.Abs(q.Tax-18) > tolerance {
		t.Fatalf("expected tax 18, got %g", q.Tax)
	}
	if math.Abs(q.PromoDiscount-10) > tolerance {
		t.Fatalf("expected promo discount 10, got %g", q.PromoDiscount)
	}
	if math.Abs(q.Total-108) > tolerance {
		t.Fatalf("expected total 108, got %g", q.Total)
	}
}

func TestComputeQuoteChargesShippingBelowThreshold(t *testing.T) {
	q := ComputeQuote(40, QuoteParams{
		ShippingFee:           5,
		FreeShippingThreshold: 58,
		TaxPercent:            18,
	})
	if math.Abs(q.Shipping-5) > tolerance {
		t.Fatalf("expected shipping 5, got %g", q.Shipping)
	}
	if math.Abs(q.Total-(40+5+7.2)) > tolerance {
		t.Fatalf("unexpected total %g", q.Total)
	}
}

func TestComputeQuoteTaxOnPreDiscountSubtotal(t *testing.T) {
	// Tax is computed before the promo discount is subtracted: a 100%
	// promo still leaves the tax amount in the total.
	q := ComputeQuote(200, QuoteParams{
		TaxPercent:            18,
		PromoPercent:          100,
		FreeShippingThreshold: 1,
	})
	if math.Abs(q.Tax-36) > tolerance {
		t.Fatalf("expected tax 36, got %g", q.Tax)
	}
	if math.Abs(q.Total-36) > tolerance {
		t.Fatalf("expected total 36, got %g", q.Total)
	}
}

func TestDiscountRoundTrip(t *testing.T) {
	d, err := NewDiscount(20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	original := d.OriginalPrice(80)
	if math.Abs(original-100) > 1e-9 {
		t.Fatalf("expected original price 100, got %g", original)
	}
	viaMultiplier := 80 * d.Multiplier()
	if math.Abs(viaMultiplier-original) > 1e-9 {
		t.Fatalf("multiplier disagrees with original price: %g vs %g", viaMultiplier, original)
	}
}

func TestDiscountRejectsInvalidPercent(t *testing.T) {
	for _, percent := range []float64{100, 150, -1} {
		if _, err := NewDiscount(percent); err == nil {
			t.Fatalf("expected error for percent %g", percent)
		}
	}
}

func TestDiscountZeroIsIdentity(t *testing.T) {
	d, err := NewDiscount(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Multiplier() != 1 {
		t.Fatalf("expected identity multiplier, got %g", d.Multiplier())
	}
	if d.OriginalPrice(42) != 42 {
		t.Fatalf("expected 42, got %g", d.OriginalPrice(42))
	}
}
