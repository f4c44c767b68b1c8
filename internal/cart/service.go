package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deecee-hair/storefront-api/internal/catalog"
	"github.com/deecee-hair/storefront-api/internal/currency"
	"github.com/deecee-hair/storefront-api/internal/obs"
	"github.com/deecee-hair/storefront-api/internal/pricing"
	"github.com/deecee-hair/storefront-api/internal/promo"
)

// ErrLineNotFound indicates the referenced cart line does not exist.
var ErrLineNotFound = errors.New("cart line not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// Service encapsulates cart domain operations.
type Service struct {
	Store      *Store
	Catalog    *catalog.Catalog
	Promos     promo.Table
	Currencies currency.Table
	Quote      pricing.QuoteParams
	Now        func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Create starts an empty cart, optionally bound to a user.
func (s *Service) Create(ctx context.Context, userID string) (Cart, error) {
	now := s.now()
	c := Cart{
		ID:        uuid.NewString(),
		UserID:    userID,
		Lines:     []Line{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Save(ctx, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// Get loads a cart by id.
func (s *Service) Get(ctx context.Context, id string) (Cart, error) {
	return s.Store.Get(ctx, id)
}

// LineInput is the payload for adding a product selection to a cart.
type LineInput struct {
	ProductID int64  `json:"productId" validate:"required"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Texture   string `json:"texture"`
	BaseSize  string `json:"baseSize"`
	Qty       int    `json:"qty"`
}

func (s *Service) validateSelection(in LineInput) error {
	p, err := s.Catalog.ByID(in.ProductID)
	if err != nil {
		return fmt.Errorf("product %d: %w", in.ProductID, ErrInvalidInput)
	}
	if in.Color != "" && !p.HasColor(in.Color) {
		return fmt.Errorf("color %q not offered: %w", in.Color, ErrInvalidInput)
	}
	if in.Size != "" && !p.HasSize(in.Size) {
		return fmt.Errorf("size %q not offered: %w", in.Size, ErrInvalidInput)
	}
	if !p.HasTexture(in.Texture) {
		return fmt.Errorf("texture %q not offered: %w", in.Texture, ErrInvalidInput)
	}
	if !p.HasBaseSize(in.BaseSize) {
		return fmt.Errorf("base size %q not offered: %w", in.BaseSize, ErrInvalidInput)
	}
	return nil
}

// AddLine adds a product selection to the cart. A selection matching an
// existing line increments that line instead of appending a duplicate.
// Quantities below one are clamped to one.
func (s *Service) AddLine(ctx context.Context, cartID string, in LineInput) (Cart, error) {
	if err := s.validateSelection(in); err != nil {
		return Cart{}, err
	}
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	qty := in.Qty
	if qty < 1 {
		qty = 1
	}
	line := Line{
		ID:        uuid.NewString(),
		ProductID: in.ProductID,
		Color:     in.Color,
		Size:      in.Size,
		Texture:   in.Texture,
		BaseSize:  in.BaseSize,
		Qty:       qty,
	}
	merged := false
	for i := range c.Lines {
		if c.Lines[i].SameVariant(line) {
			c.Lines[i].Qty += qty
			merged = true
			break
		}
	}
	if !merged {
		c.Lines = append(c.Lines, line)
	}
	c.UpdatedAt = s.now()
	if err := s.Store.Save(ctx, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// UpdateQty sets the quantity of a line, clamping below-one values to one.
func (s *Service) UpdateQty(ctx context.Context, cartID, lineID string, qty int) (Cart, error) {
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	if qty < 1 {
		qty = 1
	}
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines[i].Qty = qty
			c.UpdatedAt = s.now()
			if err := s.Store.Save(ctx, c); err != nil {
				return Cart{}, err
			}
			return c, nil
		}
	}
	return Cart{}, ErrLineNotFound
}

// RemoveLine deletes a line from the cart.
func (s *Service) RemoveLine(ctx context.Context, cartID, lineID string) (Cart, error) {
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.UpdatedAt = s.now()
			if err := s.Store.Save(ctx, c); err != nil {
				return Cart{}, err
			}
			return c, nil
		}
	}
	return Cart{}, ErrLineNotFound
}

// Clear empties the cart and drops any applied promo code.
func (s *Service) Clear(ctx context.Context, cartID string) (Cart, error) {
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	c.Lines = []Line{}
	c.PromoCode = ""
	c.UpdatedAt = s.now()
	if err := s.Store.Save(ctx, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// ApplyPromo validates and attaches a promo code to the cart.
func (s *Service) ApplyPromo(ctx context.Context, cartID, code string) (Cart, error) {
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	pc, err := s.Promos.Lookup(code)
	if err != nil {
		obs.PromoRedemptionsTotal.WithLabelValues("invalid").Inc()
		return Cart{}, err
	}
	obs.PromoRedemptionsTotal.WithLabelValues("applied").Inc()
	c.PromoCode = pc.Code
	c.UpdatedAt = s.now()
	if err := s.Store.Save(ctx, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// RemovePromo detaches the promo code, if any.
func (s *Service) RemovePromo(ctx context.Context, cartID string) (Cart, error) {
	c, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	c.PromoCode = ""
	c.UpdatedAt = s.now()
	if err := s.Store.Save(ctx, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// PricedLine is a cart line with its resolved price.
type PricedLine struct {
	Line
	Name             string  `json:"name"`
	UnitPrice        float64 `json:"unitPrice"`
	Subtotal         float64 `json:"subtotal"`
	DisplayUnitPrice string  `json:"displayUnitPrice"`
	DisplaySubtotal  string  `json:"displaySubtotal"`
}

// PricedCart is a cart joined against the catalog with totals computed.
type PricedCart struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId,omitempty"`
	PromoCode    string        `json:"promoCode,omitempty"`
	Lines        []PricedLine  `json:"lines"`
	ItemCount    int           `json:"itemCount"`
	Currency     string        `json:"currency"`
	Quote        pricing.Quote `json:"quote"`
	DisplayTotal string        `json:"displayTotal"`
}

// Price resolves every line against the catalog and computes the order
// quote. Lines whose product is no longer in the catalog are dropped.
func (s *Service) Price(c Cart, fx string) PricedCart {
	priced := PricedCart{
		ID:        c.ID,
		UserID:    c.UserID,
		PromoCode: c.PromoCode,
		Lines:     make([]PricedLine, 0, len(c.Lines)),
		Currency:  fx,
	}
	lines := make([]pricing.Line, 0, len(c.Lines))
	kept := Cart{Lines: make([]Line, 0, len(c.Lines))}
	for _, l := range c.Lines {
		p, err := s.Catalog.ByID(l.ProductID)
		if err != nil {
			continue
		}
		kept.Lines = append(kept.Lines, l)
		sel := pricing.Selection{Size: l.Size, Texture: l.Texture, BaseSize: l.BaseSize}
		unit := pricing.Resolve(p, sel)
		subtotal := unit * float64(l.Qty)
		priced.Lines = append(priced.Lines, PricedLine{
			Line:             l,
			Name:             p.Name,
			UnitPrice:        unit,
			Subtotal:         subtotal,
			DisplayUnitPrice: s.Currencies.Convert(unit, fx),
			DisplaySubtotal:  s.Currencies.Convert(subtotal, fx),
		})
		lines = append(lines, pricing.Line{Product: p, Selection: sel, Qty: l.Qty})
	}

	params := s.Quote
	if c.PromoCode != "" {
		if pc, err := s.Promos.Lookup(c.PromoCode); err == nil {
			params.PromoPercent = pc.Percent
		}
	}
	priced.ItemCount = kept.TotalQty()
	priced.Quote = pricing.ComputeQuote(pricing.Subtotal(lines), params)
	priced.DisplayTotal = s.Currencies.Convert(priced.Quote.Total, fx)
	return priced
}
