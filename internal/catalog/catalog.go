package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ErrNotFound indicates the requested product does not exist in the catalog.
var ErrNotFound = errors.New("product not found")

//go:embed data/products.json
var embeddedProducts []byte

// Catalog holds the full set of products, loaded once at boot and
// read-only afterwards.
type Catalog struct {
	products []Product
	byID     map[int64]Product
}

// Load builds the catalog from the embedded product snapshot.
func Load() (*Catalog, error) {
	return FromJSON(strings.NewReader(string(embeddedProducts)))
}

// FromJSON decodes and validates a catalog from a JSON product array.
func FromJSON(r io.Reader) (*Catalog, error) {
	var products []Product
	dec := json.NewDecoder(r)
	if err := dec.Decode(&products); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(products)
}

// New validates the provided records and assembles a catalog.
func New(products []Product) (*Catalog, error) {
	byID := make(map[int64]Product, len(products))
	for _, p := range products {
		if p.ID <= 0 {
			return nil, fmt.Errorf("product %q: id must be positive", p.Name)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("product %d: duplicate id", p.ID)
		}
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("product %d: name is required", p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("product %d: price must not be negative", p.ID)
		}
		if len(p.Sizes) == 0 {
			return nil, fmt.Errorf("product %d: at least one size is required", p.ID)
		}
		if err := validatePricing(p); err != nil {
			return nil, fmt.Errorf("product %d: %w", p.ID, err)
		}
		byID[p.ID] = p
	}
	sorted := make([]Product, len(products))
	copy(sorted, products)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return &Catalog{products: sorted, byID: byID}, nil
}

func validatePricing(p Product) error {
	for size, price := range p.SizePricing {
		if price < 0 {
			return fmt.Errorf("sizePricing[%s]: negative price", size)
		}
	}
	for size, byTexture := range p.SizeTexturePricing {
		for texture, price := range byTexture {
			if price < 0 {
				return fmt.Errorf("sizeTexturePricing[%s][%s]: negative price", size, texture)
			}
		}
	}
	for base, bySize := range p.BaseSizeTexturePricing {
		for size, byTexture := range bySize {
			for texture, price := range byTexture {
				if price < 0 {
					return fmt.Errorf("baseSizeTexturePricing[%s][%s][%s]: negative price", base, size, texture)
				}
			}
		}
	}
	return nil
}

// ByID returns the product with the given identifier.
func (c *Catalog) ByID(id int64) (Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

// Filter narrows a product listing.
type Filter struct {
	Category   string
	Bestseller bool
	New        bool
	Mens       bool
}

// List returns the products matching the filter, ordered by id.
func (c *Catalog) List(f Filter) []Product {
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if f.Bestseller && !p.Bestseller {
			continue
		}
		if f.New && !p.New {
			continue
		}
		if f.Mens && !p.Mens {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Len reports the number of products in the catalog.
func (c *Catalog) Len() int {
	return len(c.products)
}
