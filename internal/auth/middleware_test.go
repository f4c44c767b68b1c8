package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deecee-hair/storefront-api/internal/common"
)

func loginAs(t *testing.T, svc *Service, store *fakeStore, role string) string {
	t.Helper()
	ctx := context.Background()
	u, err := svc.Register(ctx, "Tester", role+"@example.com", "password123")
	require.NoError(t, err)
	if role == RoleAdmin {
		rec := store.usersByID[u.ID]
		rec.Role = RoleAdmin
		store.usersByID[u.ID] = rec
		store.usersByEmail[rec.Email] = rec
	}
	result, err := svc.Login(ctx, role+"@example.com", "password123", "ua", "127.0.0.1")
	require.NoError(t, err)
	return result.AccessToken
}

func TestRequireAuth(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)
	mw := Middleware{Service: svc}

	var seenUser string
	protected := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser, _ = common.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token := loginAs(t, svc, store, RoleCustomer)
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, seenUser)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)
	mw := Middleware{Service: svc}

	adminOnly := mw.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	customerToken := loginAs(t, svc, store, RoleCustomer)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	rec := httptest.NewRecorder()
	adminOnly.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	adminToken := loginAs(t, svc, store, RoleAdmin)
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	adminOnly.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticatePassesThroughWithoutToken(t *testing.T) {
	svc := newTestService(t, newFakeStore())
	mw := Middleware{Service: svc}

	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := common.UserID(r.Context()); ok {
			t.Error("anonymous request should carry no user")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
