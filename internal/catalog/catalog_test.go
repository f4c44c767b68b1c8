package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleProducts() []Product {
	return []Product{
		{
			ID:       2,
			Name:     "Raw Indian Wavy Bundle",
			Price:    150,
			Colors:   []string{"Natural Black"},
			Sizes:    []string{"18\"", "20\""},
			Category: "bundles",
			New:      true,
			SizePricing: map[string]float64{
				"18\"": 150,
				"20\"": 170,
			},
		},
		{
			ID:         1,
			Name:       "HD Lace Frontal Wig",
			Price:      320,
			Colors:     []string{"Natural Black", "Chocolate Brown"},
			Sizes:      []string{"18\"", "22\""},
			Textures:   []string{"Straight", "Body Wave"},
			BaseSizes:  []string{"13x4", "13x6"},
			Category:   "wigs",
			Bestseller: true,
			BaseSizeTexturePricing: map[string]map[string]map[string]float64{
				"13x4": {"18\"": {"Straight": 320}},
				"13x6": {"18\"": {"Straight": 380}},
			},
		},
		{
			ID:       3,
			Name:     "Mens Hair Unit",
			Price:    95,
			Colors:   []string{"Black"},
			Sizes:    []string{"8x10"},
			Category: "units",
			Mens:     true,
		},
	}
}

func TestNewSortsAndIndexesByID(t *testing.T) {
	c, err := New(sampleProducts())
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	all := c.List(Filter{})
	require.Equal(t, int64(1), all[0].ID)
	require.Equal(t, int64(2), all[1].ID)
	require.Equal(t, int64(3), all[2].ID)

	p, err := c.ByID(2)
	require.NoError(t, err)
	require.Equal(t, "Raw Indian Wavy Bundle", p.Name)

	_, err = c.ByID(99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNewRejectsInvalidRecords(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*[]Product)
		wantErr string
	}{
		{"non-positive id", func(ps *[]Product) { (*ps)[0].ID = 0 }, "id must be positive"},
		{"duplicate id", func(ps *[]Product) { (*ps)[1].ID = (*ps)[0].ID }, "duplicate id"},
		{"blank name", func(ps *[]Product) { (*ps)[0].Name = "  " }, "name is required"},
		{"negative price", func(ps *[]Product) { (*ps)[0].Price = -1 }, "price must not be negative"},
		{"no sizes", func(ps *[]Product) { (*ps)[0].Sizes = nil }, "at least one size"},
		{"negative size price", func(ps *[]Product) {
			(*ps)[0].SizePricing = map[string]float64{"18\"": -5}
		}, "negative price"},
		{"negative tiered price", func(ps *[]Product) {
			(*ps)[1].BaseSizeTexturePricing["13x4"]["18\""]["Straight"] = -1
		}, "negative price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			products := sampleProducts()
			tc.mutate(&products)
			_, err := New(products)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestFromJSON(t *testing.T) {
	c, err := FromJSON(strings.NewReader(`[
		{"id": 7, "name": "Clip-In Set", "price": 85, "colors": ["Black"], "sizes": ["16\""], "category": "extensions"}
	]`))
	require.NoError(t, err)

	p, err := c.ByID(7)
	require.NoError(t, err)
	require.Equal(t, 85.0, p.Price)

	_, err = FromJSON(strings.NewReader(`{"not": "an array"}`))
	require.Error(t, err)
}

func TestListFilters(t *testing.T) {
	c, err := New(sampleProducts())
	require.NoError(t, err)

	wigs := c.List(Filter{Category: "WIGS"})
	require.Len(t, wigs, 1)
	require.Equal(t, int64(1), wigs[0].ID)

	best := c.List(Filter{Bestseller: true})
	require.Len(t, best, 1)
	require.Equal(t, int64(1), best[0].ID)

	fresh := c.List(Filter{New: true})
	require.Len(t, fresh, 1)
	require.Equal(t, int64(2), fresh[0].ID)

	mens := c.List(Filter{Mens: true})
	require.Len(t, mens, 1)
	require.Equal(t, int64(3), mens[0].ID)

	none := c.List(Filter{Category: "wigs", Mens: true})
	require.Empty(t, none)
}

func TestVariantChecks(t *testing.T) {
	products := sampleProducts()
	wig := products[1]
	require.True(t, wig.HasColor("Chocolate Brown"))
	require.False(t, wig.HasColor("Burgundy"))
	require.True(t, wig.HasSize("22\""))
	require.False(t, wig.HasSize("30\""))
	require.True(t, wig.HasTexture("Body Wave"))
	require.False(t, wig.HasTexture("Kinky Curly"))
	require.True(t, wig.HasBaseSize("13x6"))
	require.False(t, wig.HasBaseSize("2x6"))

	bundle := products[0]
	require.True(t, bundle.HasTexture(""))
	require.False(t, bundle.HasTexture("Straight"))
	require.True(t, bundle.HasBaseSize(""))
}

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	require.Greater(t, c.Len(), 0)
}
