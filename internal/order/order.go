// Package order holds the persisted order model and its lifecycle.
package order

import (
	"time"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle permits moving from s to
// next. Delivered and cancelled orders are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusCancelled
	case StatusProcessing:
		return next == StatusShipped || next == StatusCancelled
	case StatusShipped:
		return next == StatusDelivered
	}
	return false
}

// Address is the shipping destination captured at checkout.
type Address struct {
	FullName   string `json:"fullName" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required,iso3166_1_alpha2"`
}

// Line is an order line frozen at checkout time. Unlike cart lines the
// unit price is recorded, so later catalog changes never reprice an
// existing order.
type Line struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Color     string  `json:"color,omitempty"`
	Size      string  `json:"size,omitempty"`
	Texture   string  `json:"texture,omitempty"`
	BaseSize  string  `json:"baseSize,omitempty"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unitPrice"`
	Subtotal  float64 `json:"subtotal"`
}

// Order is the persisted record of a completed checkout.
type Order struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Status        Status    `json:"status"`
	PromoCode     string    `json:"promoCode,omitempty"`
	Subtotal      float64   `json:"subtotal"`
	Shipping      float64   `json:"shipping"`
	Tax           float64   `json:"tax"`
	PromoDiscount float64   `json:"promoDiscount"`
	Total         float64   `json:"total"`
	Currency      string    `json:"currency"`
	Address       Address   `json:"address"`
	Lines         []Line    `json:"lines"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
