package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/deecee-hair/storefront-api/internal/common"
)

type fakeStore struct {
	usersByEmail map[string]UserRecord
	usersByID    map[string]UserRecord
	sessions     map[string]Session
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		usersByEmail: map[string]UserRecord{},
		usersByID:    map[string]UserRecord{},
		sessions:     map[string]Session{},
	}
}

func (f *fakeStore) CreateUser(_ context.Context, u UserRecord) (UserRecord, error) {
	if _, exists := f.usersByEmail[u.Email]; exists {
		return UserRecord{}, ErrEmailTaken
	}
	f.usersByEmail[u.Email] = u
	f.usersByID[u.ID] = u
	return u, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (UserRecord, error) {
	u, ok := f.usersByEmail[email]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (UserRecord, error) {
	u, ok := f.usersByID[id]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeStore) CreateSession(_ context.Context, s Session) error {
	f.sessions[s.TokenHash] = s
	return nil
}

func (f *fakeStore) GetSessionByToken(_ context.Context, hash string) (Session, error) {
	s, ok := f.sessions[hash]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeStore) RotateSession(_ context.Context, id, hash string, expiresAt time.Time) error {
	for key, s := range f.sessions {
		if s.ID == id {
			delete(f.sessions, key)
			s.TokenHash = hash
			s.ExpiresAt = expiresAt
			f.sessions[hash] = s
			return nil
		}
	}
	return ErrSessionNotFound
}

func (f *fakeStore) DeleteSessionByToken(_ context.Context, hash string) error {
	delete(f.sessions, hash)
	return nil
}

func (f *fakeStore) DeleteSessionsByUser(_ context.Context, userID string) error {
	for key, s := range f.sessions {
		if s.UserID == userID {
			delete(f.sessions, key)
		}
	}
	return nil
}

func newTestService(t *testing.T, store Store) *Service {
	t.Helper()
	svc, err := NewService(Config{
		Store:           store,
		Secret:          "test-secret-test-secret-test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresSecret(t *testing.T) {
	_, err := NewService(Config{Store: newFakeStore()})
	require.Error(t, err)

	_, err = NewService(Config{Secret: "s"})
	require.Error(t, err)
}

func TestRegisterAndLogin(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	u, err := svc.Register(ctx, "Priya", "Priya@Example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, "priya@example.com", u.Email)
	require.Equal(t, RoleCustomer, u.Role)

	// Duplicate email maps to a conflict.
	_, err = svc.Register(ctx, "Priya", "priya@example.com", "password123")
	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "EMAIL_ALREADY_USED", appErr.Code)

	result, err := svc.Login(ctx, "priya@example.com", "password123", "ua", "127.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)
	require.Equal(t, u.ID, result.User.ID)

	_, err = svc.Login(ctx, "priya@example.com", "wrongpass", "ua", "127.0.0.1")
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "INVALID_CREDENTIALS", appErr.Code)

	_, err = svc.Login(ctx, "nobody@example.com", "password123", "ua", "127.0.0.1")
	require.Error(t, err)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t, newFakeStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "a@b.com", "password123")
	require.Error(t, err)
	_, err = svc.Register(ctx, "Name", "", "password123")
	require.Error(t, err)
	_, err = svc.Register(ctx, "Name", "a@b.com", "short")
	require.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Priya", "priya@example.com", "password123")
	require.NoError(t, err)
	result, err := svc.Login(ctx, "priya@example.com", "password123", "ua", "127.0.0.1")
	require.NoError(t, err)

	claims, err := svc.ParseAccessToken(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, claims.UserID)
	require.Equal(t, RoleCustomer, claims.Role)

	_, err = svc.ParseAccessToken("not-a-token")
	require.Error(t, err)

	// A token signed with a different secret is rejected.
	other := newTestService(t, store)
	other.secret = []byte("a-completely-different-secret-value")
	forged, _, err := other.signAccessToken(result.User.ID, RoleAdmin)
	require.NoError(t, err)
	_, err = svc.ParseAccessToken(forged)
	require.Error(t, err)
}

func TestAccessTokenExpiry(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Priya", "priya@example.com", "password123")
	require.NoError(t, err)
	result, err := svc.Login(ctx, "priya@example.com", "password123", "ua", "127.0.0.1")
	require.NoError(t, err)

	svc.WithNow(func() time.Time { return time.Now().Add(16 * time.Minute) })
	_, err = svc.ParseAccessToken(result.AccessToken)
	require.Error(t, err)
}

func TestRefreshRotatesToken(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Priya", "priya@example.com", "password123")
	require.NoError(t, err)
	result, err := svc.Login(ctx, "priya@example.com", "password123", "ua", "127.0.0.1")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, result.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
	require.NotEqual(t, result.RefreshToken, refreshed.RefreshToken)

	// The old refresh token is dead after rotation.
	_, err = svc.Refresh(ctx, result.RefreshToken)
	require.Error(t, err)

	// The rotated one still works.
	_, err = svc.Refresh(ctx, refreshed.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshRejectsExpiredSession(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Priya", "priya@example.com", "password123")
	require.NoError(t, err)
	result, err := svc.Login(ctx, "priya@example.com", "password123", "ua", "127.0.0.1")
	require.NoError(t, err)

	svc.WithNow(func() time.Time { return time.Now().Add(2 * time.Hour) })
	_, err = svc.Refresh(ctx, result.RefreshToken)
	require.Error(t, err)
	require.Empty(t, store.sessions)
}

func TestLogoutRevokesSession(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Priya", "priya@example.com", "password123")
	require.NoError(t, err)
	result, err := svc.Login(ctx, "priya@example.com", "password123", "ua", "127.0.0.1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.RefreshToken))
	_, err = svc.Refresh(ctx, result.RefreshToken)
	require.Error(t, err)

	// Logging out with no token is a no-op.
	require.NoError(t, svc.Logout(ctx, ""))
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	u, err := svc.Register(ctx, "Priya", "priya@example.com", "password123")
	require.NoError(t, err)
	phone, err := svc.Login(ctx, "priya@example.com", "password123", "phone", "127.0.0.1")
	require.NoError(t, err)
	laptop, err := svc.Login(ctx, "priya@example.com", "password123", "laptop", "127.0.0.1")
	require.NoError(t, err)
	require.Len(t, store.sessions, 2)

	require.NoError(t, svc.LogoutAll(ctx, u.ID))
	require.Empty(t, store.sessions)
	_, err = svc.Refresh(ctx, phone.RefreshToken)
	require.Error(t, err)
	_, err = svc.Refresh(ctx, laptop.RefreshToken)
	require.Error(t, err)

	// An unauthenticated caller cannot revoke anything.
	var appErr *common.AppError
	err = svc.LogoutAll(ctx, " ")
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "UNAUTHORIZED", appErr.Code)
}
