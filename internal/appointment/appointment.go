// Package appointment handles styling consultation bookings.
package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the appointment does not exist.
var ErrNotFound = errors.New("appointment not found")

// Status is the booking lifecycle state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment is a booked styling consultation.
type Appointment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Service   string    `json:"service"`
	Date      string    `json:"date"`
	TimeSlot  string    `json:"timeSlot"`
	Notes     string    `json:"notes,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Repo persists appointments on Postgres.
type Repo struct {
	Pool *pgxpool.Pool
}

const columns = `id, name, email, phone, service, date, time_slot, notes, status, created_at, updated_at`

// Create inserts a new appointment.
func (r *Repo) Create(ctx context.Context, a Appointment) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO appointments (id, name, email, phone, service, date, time_slot, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		a.ID, a.Name, a.Email, a.Phone, a.Service, a.Date, a.TimeSlot, a.Notes, a.Status, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

// GetByID loads one appointment.
func (r *Repo) GetByID(ctx context.Context, id string) (Appointment, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+columns+` FROM appointments WHERE id = $1`, id)
	a, err := scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Appointment{}, ErrNotFound
		}
		return Appointment{}, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

// List returns recent appointments, newest first.
func (r *Repo) List(ctx context.Context, limit int) ([]Appointment, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.Pool.Query(ctx, `SELECT `+columns+` FROM appointments ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()
	out := []Appointment{}
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}
	return out, nil
}

// UpdateStatus persists a status change.
func (r *Repo) UpdateStatus(ctx context.Context, id string, status Status) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE appointments SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scan(row pgx.Row) (Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Service, &a.Date, &a.TimeSlot, &a.Notes, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}
