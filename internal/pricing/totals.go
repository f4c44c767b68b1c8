package pricing

import "github.com/deecee-hair/storefront-api/internal/catalog"

// Line is one cart line presented for aggregation.
type Line struct {
	Product   catalog.Product
	Selection Selection
	Qty       int
}

// Subtotal sums resolved unit price times quantity over all lines.
// Non-positive quantities contribute nothing.
func Subtotal(lines []Line) float64 {
	var subtotal float64
	for _, l := range lines {
		if l.Qty <= 0 {
			continue
		}
		subtotal += Resolve(l.Product, l.Selection) * float64(l.Qty)
	}
	return subtotal
}

// QuoteParams are the checkout-time charge parameters, injected from
// configuration.
type QuoteParams struct {
	ShippingFee           float64
	FreeShippingThreshold float64
	TaxPercent            float64
	PromoPercent          float64
}

// Quote breaks down a checkout total.
type Quote struct {
	Subtotal      float64 `json:"subtotal"`
	Shipping      float64 `json:"shipping"`
	Tax           float64 `json:"tax"`
	PromoDiscount float64 `json:"promoDiscount"`
	Total         float64 `json:"total"`
}

// ComputeQuote applies the checkout charges in their fixed order: flat
// shipping (waived at or above the free-shipping threshold), tax on the
// pre-discount subtotal, then the promo discount subtracted last.
func ComputeQuote(subtotal float64, p QuoteParams) Quote {
	shipping := p.ShippingFee
	if subtotal >= p.FreeShippingThreshold {
		shipping = 0
	}
	tax := subtotal * p.TaxPercent / 100
	promo := subtotal * p.PromoPercent / 100
	return Quote{
		Subtotal:      subtotal,
		Shipping:      shipping,
		Tax:           tax,
		PromoDiscount: promo,
		Total:         subtotal + shipping + tax - promo,
	}
}
