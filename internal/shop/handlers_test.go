package shop_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/deecee-hair/storefront-api/internal/catalog"
	"github.com/deecee-hair/storefront-api/internal/currency"
	"github.com/deecee-hair/storefront-api/internal/pricing"
	"github.com/deecee-hair/storefront-api/internal/shop"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]catalog.Product{
		{
			ID:       1,
			Name:     "Bulk Hair Bundle",
			Price:    150,
			Colors:   []string{"Natural Black"},
			Sizes:    []string{"6\"", "8\""},
			Category: "bulk",
			SizePricing: map[string]float64{
				"6\"": 150,
				"8\"": 170,
			},
			Bestseller: true,
		},
		{
			ID:       2,
			Name:     "Machine Weft Bundle",
			Price:    27,
			Colors:   []string{"Natural Black"},
			Sizes:    []string{"8\""},
			Textures: []string{"Straight", "Curly"},
			Category: "weft",
			SizeTexturePricing: map[string]map[string]float64{
				"8\"": {"Straight": 25, "Curly": 27},
			},
		},
		{
			ID:        4,
			Name:      "Lace Frontal",
			Price:     145,
			Colors:    []string{"Natural Black"},
			Sizes:     []string{"18\""},
			Textures:  []string{"Straight", "Curly"},
			BaseSizes: []string{"13x4", "13x6"},
			Category:  "frontal",
			BaseSizeTexturePricing: map[string]map[string]map[string]float64{
				"13x4": {"18\"": {"Straight": 145, "Curly": 155}},
				"13x6": {"18\"": {"Straight": 175, "Curly": 185}},
			},
		},
	})
	require.NoError(t, err)
	return c
}

func testHandler(t *testing.T) *shop.Handler {
	t.Helper()
	d, err := pricing.NewDiscount(20)
	require.NoError(t, err)
	return shop.NewHandler(shop.HandlerConfig{
		Catalog:         testCatalog(t),
		Currencies:      currency.DefaultTable(),
		Discount:        d,
		DefaultCurrency: "USD",
	})
}

func serveQuote(t *testing.T, h *shop.Handler, id int64, query string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/api/v1/products/{id}/price", h.PriceQuote)
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/products/%d/price?%s", id, query), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type quoteResponse struct {
	Data struct {
		ProductID            int64   `json:"productId"`
		Price                float64 `json:"price"`
		OriginalPrice        float64 `json:"originalPrice"`
		Currency             string  `json:"currency"`
		DisplayPrice         string  `json:"displayPrice"`
		DisplayOriginalPrice string  `json:"displayOriginalPrice"`
	} `json:"data"`
}

func TestProductsListAndFilters(t *testing.T) {
	h := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()
	h.Products(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []struct {
			ID              int64   `json:"id"`
			Price           float64 `json:"price"`
			OriginalPrice   float64 `json:"originalPrice"`
			DiscountPercent float64 `json:"discountPercent"`
			DisplayPrice    string  `json:"displayPrice"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 3)
	require.Equal(t, "$150", resp.Data[0].DisplayPrice)
	require.InDelta(t, 187.5, resp.Data[0].OriginalPrice, 0.01)
	require.InDelta(t, 20, resp.Data[0].DiscountPercent, 0.01)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/products?bestsellers=true", nil)
	rec = httptest.NewRecorder()
	h.Products(rec, req)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, int64(1), resp.Data[0].ID)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/products?category=frontal", nil)
	rec = httptest.NewRecorder()
	h.Products(rec, req)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, int64(4), resp.Data[0].ID)
}

func TestProductDetail(t *testing.T) {
	h := testHandler(t)
	r := chi.NewRouter()
	r.Get("/api/v1/products/{id}", h.ProductDetail)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/2", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Machine Weft Bundle", resp.Data.Name)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/products/99", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/products/abc", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPriceQuoteResolvesVariant(t *testing.T) {
	h := testHandler(t)

	rec := serveQuote(t, h, 4, "size=18%22&texture=Curly&baseSize=13x6")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp quoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.InDelta(t, 185, resp.Data.Price, 0.01)
	require.InDelta(t, 231.25, resp.Data.OriginalPrice, 0.01)
	require.Equal(t, "$185", resp.Data.DisplayPrice)

	rec = serveQuote(t, h, 2, "size=8%22&texture=Curly")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.InDelta(t, 27, resp.Data.Price, 0.01)
}

func TestPriceQuoteCurrencyConversion(t *testing.T) {
	h := testHandler(t)

	rec := serveQuote(t, h, 1, "size=6%22&currency=INR")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp quoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "INR", resp.Data.Currency)
	require.Equal(t, "₹12,975", resp.Data.DisplayPrice)

	// Unknown codes fall back to USD formatting.
	rec = serveQuote(t, h, 1, "size=6%22&currency=XXX")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "$150", resp.Data.DisplayPrice)
}

func TestPriceQuoteRejectsUnknownVariant(t *testing.T) {
	h := testHandler(t)

	rec := serveQuote(t, h, 1, "size=40%22")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = serveQuote(t, h, 2, "size=8%22&texture=Kinky")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = serveQuote(t, h, 4, "size=18%22&texture=Curly&baseSize=13x8")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// A product without base sizes rejects any base size selection.
	rec = serveQuote(t, h, 1, "size=6%22&baseSize=13x4")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCurrenciesEndpoint(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/currencies", nil)
	rec := httptest.NewRecorder()
	h.Currencies(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []struct {
			Code   string  `json:"code"`
			Symbol string  `json:"symbol"`
			Rate   float64 `json:"rate"`
			Name   string  `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 8)
	require.Equal(t, "AED", resp.Data[0].Code)
	for _, c := range resp.Data {
		require.NotEmpty(t, c.Symbol)
		require.Greater(t, c.Rate, 0.0)
	}
}
