// Package checkout turns a priced cart into a persisted order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deecee-hair/storefront-api/internal/cart"
	"github.com/deecee-hair/storefront-api/internal/obs"
	"github.com/deecee-hair/storefront-api/internal/order"
)

// ErrEmptyCart is returned when the cart has no priceable lines.
var ErrEmptyCart = errors.New("cart is empty")

// ErrCartOwnership is returned when the cart belongs to another user.
var ErrCartOwnership = errors.New("cart does not belong to user")

// Input is the checkout request payload.
type Input struct {
	CartID  string        `json:"cartId" validate:"required"`
	Address order.Address `json:"address" validate:"required"`
}

// Service coordinates cart pricing and order persistence.
type Service struct {
	Pool     *pgxpool.Pool
	CartSvc  *cart.Service
	Orders   *order.Repo
	Currency string
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Create prices the cart, persists the order, and clears the cart. The
// order write and cart clear happen in one transaction so a failed
// checkout never leaves a half-created order behind.
func (s *Service) Create(ctx context.Context, userID string, in Input) (order.Order, error) {
	if userID == "" {
		return order.Order{}, errors.New("user is required for checkout")
	}
	c, err := s.CartSvc.Get(ctx, in.CartID)
	if err != nil {
		return order.Order{}, err
	}
	if c.UserID != "" && c.UserID != userID {
		return order.Order{}, ErrCartOwnership
	}
	priced := s.CartSvc.Price(c, s.Currency)
	if len(priced.Lines) == 0 {
		return order.Order{}, ErrEmptyCart
	}

	lines := make([]order.Line, 0, len(priced.Lines))
	for _, l := range priced.Lines {
		lines = append(lines, order.Line{
			ProductID: l.ProductID,
			Name:      l.Name,
			Color:     l.Color,
			Size:      l.Size,
			Texture:   l.Texture,
			BaseSize:  l.BaseSize,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}

	now := s.now()
	o := order.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Status:        order.StatusPending,
		PromoCode:     priced.PromoCode,
		Subtotal:      priced.Quote.Subtotal,
		Shipping:      priced.Quote.Shipping,
		Tax:           priced.Quote.Tax,
		PromoDiscount: priced.Quote.PromoDiscount,
		Total:         priced.Quote.Total,
		Currency:      s.Currency,
		Address:       in.Address,
		Lines:         lines,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return order.Order{}, fmt.Errorf("begin checkout tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := s.Orders.CreateTx(ctx, tx, o); err != nil {
		return order.Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return order.Order{}, fmt.Errorf("commit checkout tx: %w", err)
	}

	obs.OrdersCreatedTotal.Inc()

	// The cart lives in Redis, so clearing it cannot share the order
	// transaction. Clearing after commit means a failure here leaves a
	// stale cart, never a lost order.
	_, _ = s.CartSvc.Clear(ctx, c.ID)
	return o, nil
}
