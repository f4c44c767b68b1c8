// Package pricing implements the variant price resolution engine and the
// cart/checkout total calculations built on top of it. Everything here is
// pure computation over immutable catalog data.
package pricing

import "github.com/deecee-hair/storefront-api/internal/catalog"

// Selection is a shopper's in-progress variant choice. Empty fields mean
// "not selected yet", never a literal table key.
type Selection struct {
	Size     string
	Texture  string
	BaseSize string
}

// tier is one pricing table consulted during resolution. Lookup reports
// whether the tier produced a price; a present entry of 0 is a valid hit.
type tier struct {
	name   string
	lookup func(catalog.Product, Selection) (float64, bool)
}

// tiers are evaluated most specific first. The base-size table is the
// newest refinement of the catalog data and must win over the coarser
// tables a product may still carry from an earlier data shape.
var tiers = []tier{
	{name: "base-size+size+texture", lookup: baseSizeTexturePrice},
	{name: "size+texture", lookup: sizeTexturePrice},
	{name: "size", lookup: sizePrice},
}

// Resolve returns the unit price for the product and selection. It is
// total: unresolvable or partial selections degrade tier by tier and
// ultimately fall back to the product's flat price.
func Resolve(p catalog.Product, sel Selection) float64 {
	for _, t := range tiers {
		if price, ok := t.lookup(p, sel); ok {
			return price
		}
	}
	return p.Price
}

func baseSizeTexturePrice(p catalog.Product, sel Selection) (float64, bool) {
	if p.BaseSizeTexturePricing == nil || sel.BaseSize == "" || sel.Size == "" || sel.Texture == "" {
		return 0, false
	}
	bySize, ok := p.BaseSizeTexturePricing[sel.BaseSize]
	if !ok {
		return 0, false
	}
	byTexture, ok := bySize[sel.Size]
	if !ok {
		return 0, false
	}
	price, ok := byTexture[sel.Texture]
	return price, ok
}

func sizeTexturePrice(p catalog.Product, sel Selection) (float64, bool) {
	if p.SizeTexturePricing == nil || sel.Size == "" || sel.Texture == "" {
		return 0, false
	}
	byTexture, ok := p.SizeTexturePricing[sel.Size]
	if !ok {
		return 0, false
	}
	price, ok := byTexture[sel.Texture]
	return price, ok
}

func sizePrice(p catalog.Product, sel Selection) (float64, bool) {
	if p.SizePricing == nil || sel.Size == "" {
		return 0, false
	}
	price, ok := p.SizePricing[sel.Size]
	return price, ok
}
