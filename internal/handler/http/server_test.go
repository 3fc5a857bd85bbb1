package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"PartnerHub-Backend/internal/analytics"
	"PartnerHub-Backend/internal/auth"
	"PartnerHub-Backend/internal/domain"
	"PartnerHub-Backend/internal/repository/memory"
	"PartnerHub-Backend/internal/service"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAdminEmail    = "admin@partnerhub.example.com"
	testAdminPassword = "correct-horse-battery"
)

func newTestRouter(t *testing.T) (*memory.MemStorage, *auth.JWTService, http.Handler) {
	t.Helper()
	log := zap.NewNop()
	storage := memory.New()

	jwtService := auth.NewJWTService(&auth.JWTConfig{
		SecretKey:     []byte("test-secret"),
		TokenDuration: time.Hour,
		Issuer:        "partnerhub-test",
	})
	passwordService := auth.NewPasswordServiceWithCost(bcrypt.MinCost)
	allowlist := auth.NewAllowlist([]string{testAdminEmail})

	hash, err := passwordService.HashPassword(testAdminPassword)
	require.NoError(t, err)
	require.NoError(t, storage.CreateAdmin(context.Background(), &domain.AdminUser{
		Email:        testAdminEmail,
		PasswordHash: hash,
		Active:       true,
	}))

	catalog := service.NewCatalog(storage, log)
	stats := analytics.NewStats(storage, log)

	router := &Router{
		Redirect:   NewRedirectHandler(storage, log, testHomeURL),
		Dashboard:  NewDashboardHandler(stats, log),
		Partners:   NewPartnersHandler(storage, catalog, log),
		Products:   NewProductsHandler(storage, catalog, log),
		Categories: NewCategoriesHandler(storage, catalog, log),
		Auth:       auth.NewAuthHandlers(storage, jwtService, passwordService, allowlist, log),
		Health:     NewHealthHandler(storage, log),
		Middleware: auth.NewMiddleware(jwtService, allowlist, log),
	}
	return storage, jwtService, router.SetupRoutes()
}

func adminToken(t *testing.T, jwtService *auth.JWTService) string {
	t.Helper()
	token, err := jwtService.GenerateToken(testAdminEmail)
	require.NoError(t, err)
	return token
}

func TestRouter_AdminRoutesRequireAuth(t *testing.T) {
	_, _, mux := newTestRouter(t)

	paths := []string{
		"/api/admin/partners",
		"/api/admin/products",
		"/api/admin/categories",
		"/api/admin/product-categories",
		"/api/admin/stats/top",
		"/api/admin/stats/series",
	}

	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "path %s", path)
	}
}

func TestRouter_NonAllowlistedTokenIsForbidden(t *testing.T) {
	_, jwtService, mux := newTestRouter(t)

	token, err := jwtService.GenerateToken("intruder@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats/top", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_LoginThenAdminRequest(t *testing.T) {
	_, _, mux := newTestRouter(t)

	body, _ := json.Marshal(auth.LoginRequest{Email: testAdminEmail, Password: testAdminPassword})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var login auth.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.AccessToken)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/stats/top?days=7", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_LoginRejectsWrongPassword(t *testing.T) {
	_, _, mux := newTestRouter(t)

	body, _ := json.Marshal(auth.LoginRequest{Email: testAdminEmail, Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_AdminCatalogLifecycle(t *testing.T) {
	storage, jwtService, mux := newTestRouter(t)
	token := adminToken(t, jwtService)

	category := &domain.Category{Name: "Moda", Slug: "moda"}
	require.NoError(t, storage.CreateCategory(context.Background(), category))

	// Create a partner through the admin API.
	body, _ := json.Marshal(service.CreatePartnerInput{
		Name:       "Renner",
		CategoryID: category.ID,
		URL:        "https://renner.com.br",
		LogoURL:    "/logos/renner.png",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/partners", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Partner
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "renner", created.Slug)
	require.True(t, created.Active)

	// The public listing sees it.
	req = httptest.NewRequest(http.MethodGet, "/api/partners", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var listing PartnerListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Equal(t, int64(1), listing.Total)

	// Click it via the outbound route, then check the leaderboard.
	req = httptest.NewRequest(http.MethodGet, "/out/partner/renner", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "https://renner.com.br", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/api/admin/stats/top?kind=partner&days=1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var top TopClicksResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &top))
	require.Len(t, top.Items, 1)
	require.Equal(t, created.ID, top.Items[0].EntityID)
	require.Equal(t, "Renner", top.Items[0].Label)
	require.Equal(t, int64(1), top.Items[0].Clicks)

	// Delete the partner; its ledger goes with it.
	req = httptest.NewRequest(http.MethodDelete, "/api/admin/partners/"+itoa(created.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/out/partner/renner", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, testHomeURL, rec.Header().Get("Location"))
}

func TestRouter_HealthIsOpen(t *testing.T) {
	_, _, mux := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
