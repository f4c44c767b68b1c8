package catalog

// Product is an immutable catalog record. Records are created at catalog
// load time and never mutated afterwards.
//
// A product carries up to three pricing tables, each refining the one
// below it: BaseSizeTexturePricing keys base size then size then texture,
// SizeTexturePricing keys size then texture, SizePricing keys size only.
// Price is the flat fallback used when no table entry applies.
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	Images      []string `json:"images,omitempty"`
	Colors      []string `json:"colors"`
	Sizes       []string `json:"sizes"`
	Textures    []string `json:"textures,omitempty"`
	BaseSizes   []string `json:"baseSizes,omitempty"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	Bestseller  bool     `json:"isBestseller,omitempty"`
	New         bool     `json:"isNew,omitempty"`
	Mens        bool     `json:"isMans,omitempty"`

	SizePricing            map[string]float64                       `json:"sizePricing,omitempty"`
	SizeTexturePricing     map[string]map[string]float64            `json:"sizeTexturePricing,omitempty"`
	BaseSizeTexturePricing map[string]map[string]map[string]float64 `json:"baseSizeTexturePricing,omitempty"`
}

// HasColor reports whether the product offers the given color.
func (p Product) HasColor(color string) bool {
	return contains(p.Colors, color)
}

// HasSize reports whether the product offers the given size.
func (p Product) HasSize(size string) bool {
	return contains(p.Sizes, size)
}

// HasTexture reports whether the product offers the given texture. A
// product without textures accepts only the empty selection.
func (p Product) HasTexture(texture string) bool {
	if texture == "" {
		return true
	}
	return contains(p.Textures, texture)
}

// HasBaseSize reports whether the product offers the given base size. A
// product without base sizes accepts only the empty selection.
func (p Product) HasBaseSize(baseSize string) bool {
	if baseSize == "" {
		return true
	}
	return contains(p.BaseSizes, baseSize)
}

func contains(values []string, v string) bool {
	for _, el := range values {
		if el == v {
			return true
		}
	}
	return false
}
