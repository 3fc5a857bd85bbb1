package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"PartnerHub-Backend/internal/domain"
	"PartnerHub-Backend/internal/repository"
	"PartnerHub-Backend/internal/repository/memory"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testHomeURL = "https://partnerhub.example.com/"

var redirectTestNow = time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)

func newRedirectFixture(t *testing.T) (*memory.MemStorage, *RedirectHandler) {
	t.Helper()
	storage := memory.New()
	handler := NewRedirectHandler(storage, zap.NewNop(), testHomeURL)
	handler.now = func() time.Time { return redirectTestNow }
	return storage, handler
}

func seedPartner(t *testing.T, storage *memory.MemStorage, name, url string, active bool) *domain.Partner {
	t.Helper()
	ctx := context.Background()

	category := &domain.Category{Name: "Loja " + name, Slug: "loja-" + name}
	require.NoError(t, storage.CreateCategory(ctx, category))

	partner := &domain.Partner{
		Name:       name,
		Slug:       name,
		URL:        url,
		LogoURL:    "/logos/" + name + ".png",
		CategoryID: category.ID,
		Active:     active,
	}
	require.NoError(t, storage.CreatePartner(ctx, partner))
	return partner
}

func doRedirect(handler http.HandlerFunc, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func ledgerTotal(t *testing.T, storage *memory.MemStorage, kind domain.EntityKind) int64 {
	t.Helper()
	sums, err := storage.SumClicksByDay(context.Background(), kind, redirectTestNow.AddDate(0, 0, -1))
	require.NoError(t, err)
	var total int64
	for _, sum := range sums {
		total += sum.Total
	}
	return total
}

func TestRedirect_ResolvesAndCounts(t *testing.T) {
	storage, handler := newRedirectFixture(t)
	partner := seedPartner(t, storage, "amazon", "https://amazon.com.br", true)

	rec := doRedirect(handler.HandlePartner, "/out/partner/amazon", nil)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, partner.URL, rec.Header().Get("Location"))
	require.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
	require.Equal(t, int64(1), ledgerTotal(t, storage, domain.KindPartner))
}

func TestRedirect_PrefetchRedirectsWithoutCounting(t *testing.T) {
	storage, handler := newRedirectFixture(t)
	partner := seedPartner(t, storage, "shopee", "https://shopee.com.br", true)

	prefetchHeaders := []map[string]string{
		{"Purpose": "prefetch"},
		{"Sec-Purpose": "prefetch;anonymous-client-ip"},
		{"X-Middleware-Prefetch": "1"},
		{"Next-Router-Prefetch": "1"},
		{"Sec-Fetch-Dest": "empty"},
	}

	for _, headers := range prefetchHeaders {
		rec := doRedirect(handler.HandlePartner, "/out/partner/shopee", headers)
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, partner.URL, rec.Header().Get("Location"))
	}

	require.Equal(t, int64(0), ledgerTotal(t, storage, domain.KindPartner))
}

func TestRedirect_UnknownSlugGoesHome(t *testing.T) {
	storage, handler := newRedirectFixture(t)

	rec := doRedirect(handler.HandlePartner, "/out/partner/no-such-store", nil)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, testHomeURL, rec.Header().Get("Location"))
	require.Equal(t, int64(0), ledgerTotal(t, storage, domain.KindPartner))
}

func TestRedirect_InactivePartnerGoesHome(t *testing.T) {
	storage, handler := newRedirectFixture(t)
	seedPartner(t, storage, "paused-store", "https://paused.example.com", false)

	rec := doRedirect(handler.HandlePartner, "/out/partner/paused-store", nil)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, testHomeURL, rec.Header().Get("Location"))
	require.Equal(t, int64(0), ledgerTotal(t, storage, domain.KindPartner))
}

func TestRedirect_EmptySlugGoesHome(t *testing.T) {
	_, handler := newRedirectFixture(t)

	rec := doRedirect(handler.HandlePartner, "/out/partner/", nil)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, testHomeURL, rec.Header().Get("Location"))
}

// countFailStorage fails every ledger write while resolving normally.
type countFailStorage struct {
	*memory.MemStorage
}

func (s *countFailStorage) RecordClick(context.Context, domain.EntityKind, int64, time.Time) error {
	return errors.New("ledger unavailable")
}

func TestRedirect_CountFailureStillRedirectsToTarget(t *testing.T) {
	inner := memory.New()
	partner := seedPartner(t, inner, "magalu", "https://magazineluiza.com.br", true)

	var storage repository.Storage = &countFailStorage{MemStorage: inner}
	handler := NewRedirectHandler(storage, zap.NewNop(), testHomeURL)
	handler.now = func() time.Time { return redirectTestNow }

	rec := doRedirect(handler.HandlePartner, "/out/partner/magalu", nil)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, partner.URL, rec.Header().Get("Location"))
}

func TestRedirect_ProductRoute(t *testing.T) {
	storage, handler := newRedirectFixture(t)
	ctx := context.Background()

	category := &domain.ProductCategory{Name: "Cozinha", Slug: "cozinha"}
	require.NoError(t, storage.CreateProductCategory(ctx, category))

	product := &domain.Product{
		Name:              "Air Fryer",
		Slug:              "air-fryer",
		URL:               "https://example.com/air-fryer",
		Platform:          "Amazon",
		ImageURLs:         []string{"/products/air-fryer.jpg"},
		ProductCategoryID: category.ID,
		Active:            true,
	}
	require.NoError(t, storage.CreateProduct(ctx, product))

	rec := doRedirect(handler.HandleProduct, "/out/product/air-fryer", nil)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, product.URL, rec.Header().Get("Location"))
	require.Equal(t, int64(1), ledgerTotal(t, storage, domain.KindProduct))
	require.Equal(t, int64(0), ledgerTotal(t, storage, domain.KindPartner))
}

func TestRedirect_SequentialClicksAccumulate(t *testing.T) {
	storage, handler := newRedirectFixture(t)
	partner := seedPartner(t, storage, "acme", "https://acme.example.com", true)

	for i := 0; i < 3; i++ {
		rec := doRedirect(handler.HandlePartner, "/out/partner/acme", nil)
		require.Equal(t, http.StatusFound, rec.Code)
	}

	// Lifetime counter and the day ledger move together.
	reloaded, err := storage.GetPartner(context.Background(), partner.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), reloaded.ClickCount)

	sums, err := storage.SumClicksByDay(context.Background(), domain.KindPartner, redirectTestNow.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, sums, 1)
	require.Equal(t, int64(3), sums[0].Total)
}

func TestRedirect_MixedTrafficCountsOnlyNavigations(t *testing.T) {
	storage, handler := newRedirectFixture(t)
	seedPartner(t, storage, "shein", "https://shein.com", true)

	doRedirect(handler.HandlePartner, "/out/partner/shein", nil)
	doRedirect(handler.HandlePartner, "/out/partner/shein", map[string]string{"Purpose": "prefetch"})
	doRedirect(handler.HandlePartner, "/out/partner/shein", map[string]string{"Sec-Fetch-Dest": "document"})

	require.Equal(t, int64(2), ledgerTotal(t, storage, domain.KindPartner))
}
