package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the requested order does not exist or is not
// visible to the caller.
var ErrNotFound = errors.New("order not found")

// Repo provides order persistence on Postgres. Lines and the shipping
// address are stored as jsonb documents alongside the scalar totals.
type Repo struct {
	Pool *pgxpool.Pool
}

const orderColumns = `id, user_id, status, promo_code, subtotal, shipping, tax, promo_discount, total, currency, address, lines, created_at, updated_at`

// CreateTx inserts an order inside an existing transaction.
func (r *Repo) CreateTx(ctx context.Context, tx pgx.Tx, o Order) error {
	address, err := json.Marshal(o.Address)
	if err != nil {
		return fmt.Errorf("encode address: %w", err)
	}
	lines, err := json.Marshal(o.Lines)
	if err != nil {
		return fmt.Errorf("encode lines: %w", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, status, promo_code, subtotal, shipping, tax, promo_discount, total, currency, address, lines, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		o.ID, o.UserID, o.Status, o.PromoCode,
		o.Subtotal, o.Shipping, o.Tax, o.PromoDiscount, o.Total, o.Currency,
		address, lines, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o       Order
		address []byte
		lines   []byte
	)
	err := row.Scan(
		&o.ID, &o.UserID, &o.Status, &o.PromoCode,
		&o.Subtotal, &o.Shipping, &o.Tax, &o.PromoDiscount, &o.Total, &o.Currency,
		&address, &lines, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("scan order: %w", err)
	}
	if err := json.Unmarshal(address, &o.Address); err != nil {
		return Order{}, fmt.Errorf("decode address: %w", err)
	}
	if err := json.Unmarshal(lines, &o.Lines); err != nil {
		return Order{}, fmt.Errorf("decode lines: %w", err)
	}
	return o, nil
}

// GetByID loads one order.
func (r *Repo) GetByID(ctx context.Context, id string) (Order, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return scanOrder(row)
}

// GetForUser loads one order owned by the given user.
func (r *Repo) GetForUser(ctx context.Context, id, userID string) (Order, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`, id, userID)
	return scanOrder(row)
}

// ListByUser returns a user's orders, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

// ListAll returns recent orders across all users for the admin view.
func (r *Repo) ListAll(ctx context.Context, limit int) ([]Order, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.Pool.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return out, nil
}

// UpdateStatus persists a status change.
func (r *Repo) UpdateStatus(ctx context.Context, id string, status Status) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
