// Package cart implements Redis-backed shopping carts. A cart stores
// product selections only; unit prices are resolved from the catalog at
// read time so a price change is reflected immediately.
package cart

import (
	"time"
)

// Line is one product selection in a cart.
type Line struct {
	ID        string `json:"id"`
	ProductID int64  `json:"productId"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
	Texture   string `json:"texture,omitempty"`
	BaseSize  string `json:"baseSize,omitempty"`
	Qty       int    `json:"qty"`
}

// SameVariant reports whether two lines refer to the same product
// variant. Lines for the same variant are merged rather than duplicated.
func (l Line) SameVariant(other Line) bool {
	return l.ProductID == other.ProductID &&
		l.Color == other.Color &&
		l.Size == other.Size &&
		l.Texture == other.Texture &&
		l.BaseSize == other.BaseSize
}

// Cart is the persisted cart document.
type Cart struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	Lines     []Line    `json:"lines"`
	PromoCode string    `json:"promoCode,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TotalQty sums the quantities across all lines.
func (c Cart) TotalQty() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Qty
	}
	return total
}
