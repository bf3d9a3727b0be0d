package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/centroimagen/booking-api/pkg/logger"
	"github.com/centroimagen/booking-api/pkg/types"
)

// testRouter wires the session routes the way the server does: public
// auth routes, token-gated session routes, and the admin identity routes.
func testRouter(t *testing.T) (*mux.Router, *Service, *MockSessionStore) {
	t.Helper()

	service, _, mockStore := setupTestService()
	service.repository = NewMemoryIdentityRepository()

	log := logger.New("debug")
	middleware := NewMiddleware(service, log)
	handler := NewHandler(service, log)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	authed := router.NewRoute().Subrouter()
	authed.Use(middleware.Authenticate)
	handler.RegisterAuthedRoutes(authed)

	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Authenticate)
	admin.Use(middleware.RequireRole(types.RoleAdmin))
	handler.RegisterAdminRoutes(admin)

	return router, service, mockStore
}

func login(t *testing.T, service *Service, mockStore *MockSessionStore, email, password string) *types.AuthToken {
	t.Helper()

	mockStore.On("Save", mock.Anything, mock.AnythingOfType("*types.Identity")).Return(nil)
	_, token, err := service.Login(context.Background(), &types.Credentials{
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return token
}

func TestHandler_SessionRoutesRequireAuth(t *testing.T) {
	t.Run("unauthenticated session read is rejected", func(t *testing.T) {
		router, _, _ := testRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unauthenticated logout is rejected", func(t *testing.T) {
		router, _, _ := testRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("authenticated session read returns the current identity", func(t *testing.T) {
		router, service, mockStore := testRouter(t)
		token := login(t, service, mockStore, "usuario@test.com", "user123")

		req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "usuario@test.com")
	})

	t.Run("authenticated logout clears the session", func(t *testing.T) {
		router, service, mockStore := testRouter(t)
		token := login(t, service, mockStore, "usuario@test.com", "user123")
		mockStore.On("Clear", mock.Anything).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, service.Current())
	})
}

func TestHandler_ListIdentities(t *testing.T) {
	t.Run("admin lists registered identities", func(t *testing.T) {
		router, service, mockStore := testRouter(t)
		token := login(t, service, mockStore, "admin@centroimagen.com", "admin123")

		req := httptest.NewRequest(http.MethodGet, "/admin/identities?search=juan", nil)
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "usuario@test.com")
		assert.NotContains(t, rec.Body.String(), "admin@centroimagen.com")
	})

	t.Run("user is rejected from the identity listing", func(t *testing.T) {
		router, service, mockStore := testRouter(t)
		token := login(t, service, mockStore, "usuario@test.com", "user123")

		req := httptest.NewRequest(http.MethodGet, "/admin/identities", nil)
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unauthenticated listing is rejected", func(t *testing.T) {
		router, _, _ := testRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/admin/identities", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
