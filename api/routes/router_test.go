package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyftEbikes/ryft-site-sub000/internal/auth"
	"github.com/RyftEbikes/ryft-site-sub000/internal/datavault"
	"github.com/RyftEbikes/ryft-site-sub000/internal/orders"
	"github.com/RyftEbikes/ryft-site-sub000/internal/session"
	"github.com/RyftEbikes/ryft-site-sub000/internal/users"
	"github.com/RyftEbikes/ryft-site-sub000/internal/wishlist"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/config"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/db"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/db/models"
	"github.com/RyftEbikes/ryft-site-sub000/pkg/metrics"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: config.AppEnvDev, Port: "0"},
		JWT: config.JWTConfig{Secret: "test-secret", Issuer: "ryft-api", ExpirationMinutes: 60},
		Password: config.PasswordConfig{
			ArgonMemoryKB:    8,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     8,
			ArgonKeyLen:      16,
		},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *db.Client) {
	t.Helper()

	ctx := context.Background()
	cfg := testConfig()

	client, err := db.New(ctx, config.DBConfig{
		Driver: config.DBDriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().AutoMigrate(
		&models.User{}, &models.Order{}, &models.WishlistItem{}, &models.SessionSlot{},
	))

	usersRepo := users.NewRepository(client.DB())
	sessions := session.NewRepository(client.DB())

	authSvc, err := auth.NewService(client, usersRepo, sessions, cfg.JWT, cfg.Password)
	require.NoError(t, err)
	usersSvc, err := users.NewService(usersRepo)
	require.NoError(t, err)
	ordersSvc, err := orders.NewService(client, orders.NewRepository(client.DB()), usersRepo, cfg.Password)
	require.NoError(t, err)
	wishlistSvc, err := wishlist.NewService(wishlist.NewRepository(client.DB()))
	require.NoError(t, err)
	vaultSvc, err := datavault.NewService(client, sessions)
	require.NoError(t, err)

	router := NewRouter(cfg, nil, client, nil, metrics.NewHTTPMetrics(),
		authSvc, usersSvc, ordersSvc, wishlistSvc, vaultSvc)
	return router, client
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func dataField(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func registerRider(t *testing.T, router http.Handler, email string) (token string) {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    email,
		"password": "super-secret-1",
		"name":     "Jordan Vale",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := dataField(t, rec)
	token, _ = data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev", rec.Header().Get("X-Ryft-Env"))

	rec = doJSON(t, router, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterLoginMeFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerRider(t, router, "rider@example.com")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "rider@example.com", dataField(t, rec)["email"])

	// session pointer survives without the token
	rec = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rider@example.com", dataField(t, rec)["email"])

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, dataField(t, rec))

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "rider@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "unknown@example.com",
		"password": "super-secret-1",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "rider@example.com",
		"password": "super-secret-1",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	router, _ := newTestRouter(t)
	registerRider(t, router, "rider@example.com")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    "RIDER@example.com",
		"password": "other-secret-2",
		"name":     "Casey",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWishlistFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerRider(t, router, "rider@example.com")

	item := map[string]any{
		"product_id":   "ryft-one-matte",
		"product_name": "Ryft One (Matte Black)",
		"price_cents":  249900,
	}

	rec := doJSON(t, router, http.MethodPost, "/api/v1/wishlist", token, item)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/v1/wishlist", token, item)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/wishlist/ryft-one-matte", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// removal is idempotent
	rec = doJSON(t, router, http.MethodDelete, "/api/v1/wishlist/ryft-one-matte", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/wishlist", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// unauthenticated access is rejected
	rec = doJSON(t, router, http.MethodGet, "/api/v1/wishlist", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGuestPreorderCreatesAccount(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/orders", "", map[string]any{
		"email":       "fresh@example.com",
		"name":        "Casey Ryft",
		"items":       []string{"Ryft One (Preorder)"},
		"total_cents": 49900,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "preorder", dataField(t, rec)["type"])

	// the implicit account exists: registering the same email conflicts
	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    "fresh@example.com",
		"password": "super-secret-1",
		"name":     "Casey Ryft",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthedOrderFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	token := registerRider(t, router, "rider@example.com")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/orders", token, map[string]any{
		"items":       []string{"Ryft One (Matte Black)"},
		"total_cents": 249900,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "purchase", dataField(t, rec)["type"])
	assert.Equal(t, "processing", dataField(t, rec)["status"])

	rec = doJSON(t, router, http.MethodGet, "/api/v1/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// counters reflect the purchase
	rec = doJSON(t, router, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, dataField(t, rec)["total_orders"])
}

func TestAdminRoutesAreRoleGated(t *testing.T) {
	router, client := newTestRouter(t)
	token := registerRider(t, router, "rider@example.com")

	rec := doJSON(t, router, http.MethodGet, "/api/admin/v1/data/export", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// promote the rider and log in again for an admin token
	require.NoError(t, client.DB().Model(&models.User{}).
		Where("email = ?", "rider@example.com").
		UpdateColumn("role", "admin").Error)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "rider@example.com",
		"password": "super-secret-1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	adminToken, _ := dataField(t, rec)["token"].(string)
	require.NotEmpty(t, adminToken)

	rec = doJSON(t, router, http.MethodGet, "/api/admin/v1/data/export", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "ryft-data-")

	rec = doJSON(t, router, http.MethodPost, "/api/admin/v1/data/clear", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// everything is gone, including the session pointer
	rec = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, dataField(t, rec))
}
