// Package shop exposes the public storefront read API: product listings,
// product detail, variant price quotes, and the currency table.
package shop

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/deecee-hair/storefront-api/internal/catalog"
	"github.com/deecee-hair/storefront-api/internal/common"
	"github.com/deecee-hair/storefront-api/internal/currency"
	"github.com/deecee-hair/storefront-api/internal/obs"
	"github.com/deecee-hair/storefront-api/internal/pricing"
)

// Handler serves the public storefront endpoints.
type Handler struct {
	catalog    *catalog.Catalog
	currencies currency.Table
	discount   pricing.Discount
	defaultFX  string
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Catalog         *catalog.Catalog
	Currencies      currency.Table
	Discount        pricing.Discount
	DefaultCurrency string
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	fx := cfg.DefaultCurrency
	if fx == "" {
		fx = "USD"
	}
	return &Handler{
		catalog:    cfg.Catalog,
		currencies: cfg.Currencies,
		discount:   cfg.Discount,
		defaultFX:  fx,
	}
}

// productView decorates a catalog record with the strike-through price,
// the sale badge percentage, and display strings in the shopper's
// currency.
type productView struct {
	catalog.Product
	OriginalPrice        float64 `json:"originalPrice"`
	DiscountPercent      float64 `json:"discountPercent"`
	DisplayPrice         string  `json:"displayPrice"`
	DisplayOriginalPrice string  `json:"displayOriginalPrice"`
}

func (h *Handler) view(p catalog.Product, fx string) productView {
	original := h.discount.OriginalPrice(p.Price)
	return productView{
		Product:              p,
		OriginalPrice:        original,
		DiscountPercent:      h.discount.Percent(),
		DisplayPrice:         h.currencies.Convert(p.Price, fx),
		DisplayOriginalPrice: h.currencies.Convert(original, fx),
	}
}

func (h *Handler) fxOf(r *http.Request) string {
	if code := r.URL.Query().Get("currency"); code != "" {
		return code
	}
	return h.defaultFX
}

// Products handles GET /api/v1/products with category and flag filters.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := catalog.Filter{
		Category:   q.Get("category"),
		Bestseller: q.Get("bestsellers") == "true",
		New:        q.Get("new") == "true",
		Mens:       q.Get("mens") == "true",
	}
	fx := h.fxOf(r)
	items := h.catalog.List(f)
	views := make([]productView, 0, len(items))
	for _, p := range items {
		views = append(views, h.view(p, fx))
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": views})
}

// ProductDetail handles GET /api/v1/products/{id}.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.view(p, h.fxOf(r))})
}

// priceQuote is the response body for a variant price lookup.
type priceQuote struct {
	ProductID            int64   `json:"productId"`
	Size                 string  `json:"size,omitempty"`
	Texture              string  `json:"texture,omitempty"`
	BaseSize             string  `json:"baseSize,omitempty"`
	Price                float64 `json:"price"`
	OriginalPrice        float64 `json:"originalPrice"`
	Currency             string  `json:"currency"`
	DisplayPrice         string  `json:"displayPrice"`
	DisplayOriginalPrice string  `json:"displayOriginalPrice"`
}

// PriceQuote handles GET /api/v1/products/{id}/price. It resolves the
// price for the selected variant and formats it for display.
func (h *Handler) PriceQuote(w http.ResponseWriter, r *http.Request) {
	p, ok := h.lookup(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	sel := pricing.Selection{
		Size:     q.Get("size"),
		Texture:  q.Get("texture"),
		BaseSize: q.Get("baseSize"),
	}
	if sel.Size != "" && !p.HasSize(sel.Size) {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "size not offered for this product", map[string]string{"size": sel.Size})
		return
	}
	if !p.HasTexture(sel.Texture) {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "texture not offered for this product", map[string]string{"texture": sel.Texture})
		return
	}
	if !p.HasBaseSize(sel.BaseSize) {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "base size not offered for this product", map[string]string{"baseSize": sel.BaseSize})
		return
	}

	fx := h.fxOf(r)
	price := pricing.Resolve(p, sel)
	original := h.discount.OriginalPrice(price)
	obs.PriceQuotesTotal.Inc()
	common.JSON(w, http.StatusOK, map[string]any{"data": priceQuote{
		ProductID:            p.ID,
		Size:                 sel.Size,
		Texture:              sel.Texture,
		BaseSize:             sel.BaseSize,
		Price:                price,
		OriginalPrice:        original,
		Currency:             fx,
		DisplayPrice:         h.currencies.Convert(price, fx),
		DisplayOriginalPrice: h.currencies.Convert(original, fx),
	}})
}

// currencyView pairs a currency code with its display metadata.
type currencyView struct {
	Code string `json:"code"`
	currency.Info
}

// Currencies handles GET /api/v1/currencies.
func (h *Handler) Currencies(w http.ResponseWriter, r *http.Request) {
	codes := h.currencies.Codes()
	views := make([]currencyView, 0, len(codes))
	for _, code := range codes {
		views = append(views, currencyView{
			Code: code,
			Info: currency.Info{
				Symbol: h.currencies.Symbol(code),
				Rate:   h.currencies[code].Rate,
				Name:   h.currencies.Name(code),
			},
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": views})
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (catalog.Product, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "product id must be an integer", nil)
		return catalog.Product{}, false
	}
	p, err := h.catalog.ByID(id)
	if err != nil {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
		return catalog.Product{}, false
	}
	return p, true
}
