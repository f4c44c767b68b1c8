package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUserNotFound indicates no user matched the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken indicates the email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// ErrSessionNotFound indicates the refresh token has no live session.
var ErrSessionNotFound = errors.New("session not found")

// UserRecord is the stored user row.
type UserRecord struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is a stored refresh token. Only the SHA-256 hash of the token
// is persisted.
type Session struct {
	ID        string
	UserID    string
	TokenHash string
	UserAgent string
	IP        string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Store is the persistence surface the auth service needs. Split out as
// an interface so tests can run without Postgres.
type Store interface {
	CreateUser(ctx context.Context, u UserRecord) (UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (UserRecord, error)
	GetUserByID(ctx context.Context, id string) (UserRecord, error)
	CreateSession(ctx context.Context, s Session) error
	GetSessionByToken(ctx context.Context, tokenHash string) (Session, error)
	RotateSession(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	DeleteSessionByToken(ctx context.Context, tokenHash string) error
	DeleteSessionsByUser(ctx context.Context, userID string) error
}

// PGStore implements Store on Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

const userColumns = `id, name, email, password_hash, role, created_at, updated_at`

func (s *PGStore) CreateUser(ctx context.Context, u UserRecord) (UserRecord, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt,
	)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return UserRecord{}, ErrEmailTaken
		}
		return UserRecord{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *PGStore) GetUserByEmail(ctx context.Context, email string) (UserRecord, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *PGStore) GetUserByID(ctx context.Context, id string) (UserRecord, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (UserRecord, error) {
	var u UserRecord
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (s *PGStore) CreateSession(ctx context.Context, sess Session) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token_hash, user_agent, ip, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sess.ID, sess.UserID, sess.TokenHash, sess.UserAgent, sess.IP, sess.ExpiresAt, sess.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *PGStore) GetSessionByToken(ctx context.Context, tokenHash string) (Session, error) {
	var sess Session
	err := s.Pool.QueryRow(ctx, `
		SELECT id, user_id, token_hash, user_agent, ip, expires_at, created_at
		FROM refresh_tokens WHERE token_hash = $1`, tokenHash,
	).Scan(&sess.ID, &sess.UserID, &sess.TokenHash, &sess.UserAgent, &sess.IP, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

func (s *PGStore) RotateSession(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE refresh_tokens SET token_hash = $2, expires_at = $3 WHERE id = $1`,
		id, tokenHash, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("rotate session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *PGStore) DeleteSessionByToken(ctx context.Context, tokenHash string) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *PGStore) DeleteSessionsByUser(ctx context.Context, userID string) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	return nil
}
