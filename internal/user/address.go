// Package user covers account-scoped resources, currently the shipping
// address book.
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deecee-hair/storefront-api/internal/order"
)

// ErrAddressNotFound indicates the address does not exist for this user.
var ErrAddressNotFound = errors.New("address not found")

// AddressRecord is a saved shipping destination.
type AddressRecord struct {
	ID        string        `json:"id"`
	UserID    string        `json:"-"`
	Label     string        `json:"label,omitempty"`
	Address   order.Address `json:"address"`
	IsDefault bool          `json:"isDefault"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// AddressRepo persists the address book on Postgres.
type AddressRepo struct {
	Pool *pgxpool.Pool
}

const addressColumns = `id, user_id, label, full_name, phone, line1, line2, city, state, postal_code, country, is_default, created_at, updated_at`

// Create inserts a new address. Marking it default unsets any previous
// default in the same statement batch.
func (r *AddressRepo) Create(ctx context.Context, a AddressRecord) (AddressRecord, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return AddressRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if a.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE addresses SET is_default = false WHERE user_id = $1`, a.UserID); err != nil {
			return AddressRecord{}, fmt.Errorf("unset default: %w", err)
		}
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO addresses (id, user_id, label, full_name, phone, line1, line2, city, state, postal_code, country, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		a.ID, a.UserID, a.Label,
		a.Address.FullName, a.Address.Phone, a.Address.Line1, a.Address.Line2,
		a.Address.City, a.Address.State, a.Address.PostalCode, a.Address.Country,
		a.IsDefault, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return AddressRecord{}, fmt.Errorf("insert address: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return AddressRecord{}, fmt.Errorf("commit: %w", err)
	}
	return a, nil
}

// Update rewrites an address owned by the user.
func (r *AddressRepo) Update(ctx context.Context, a AddressRecord) (AddressRecord, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return AddressRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if a.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE addresses SET is_default = false WHERE user_id = $1 AND id <> $2`, a.UserID, a.ID); err != nil {
			return AddressRecord{}, fmt.Errorf("unset default: %w", err)
		}
	}
	tag, err := tx.Exec(ctx, `
		UPDATE addresses
		SET label = $3, full_name = $4, phone = $5, line1 = $6, line2 = $7,
		    city = $8, state = $9, postal_code = $10, country = $11,
		    is_default = $12, updated_at = $13
		WHERE id = $1 AND user_id = $2`,
		a.ID, a.UserID, a.Label,
		a.Address.FullName, a.Address.Phone, a.Address.Line1, a.Address.Line2,
		a.Address.City, a.Address.State, a.Address.PostalCode, a.Address.Country,
		a.IsDefault, a.UpdatedAt,
	)
	if err != nil {
		return AddressRecord{}, fmt.Errorf("update address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return AddressRecord{}, ErrAddressNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return AddressRecord{}, fmt.Errorf("commit: %w", err)
	}
	return a, nil
}

// Get loads one address owned by the user.
func (r *AddressRepo) Get(ctx context.Context, id, userID string) (AddressRecord, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	a, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AddressRecord{}, ErrAddressNotFound
		}
		return AddressRecord{}, fmt.Errorf("get address: %w", err)
	}
	return a, nil
}

// List returns the user's addresses, default first.
func (r *AddressRepo) List(ctx context.Context, userID string) ([]AddressRecord, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+addressColumns+` FROM addresses WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()
	out := []AddressRecord{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate addresses: %w", err)
	}
	return out, nil
}

// Delete removes an address owned by the user.
func (r *AddressRepo) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func scanAddress(row pgx.Row) (AddressRecord, error) {
	var a AddressRecord
	err := row.Scan(
		&a.ID, &a.UserID, &a.Label,
		&a.Address.FullName, &a.Address.Phone, &a.Address.Line1, &a.Address.Line2,
		&a.Address.City, &a.Address.State, &a.Address.PostalCode, &a.Address.Country,
		&a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}
