package analytics

import (
	"PartnerHub-Backend/internal/domain"
	"PartnerHub-Backend/internal/repository"
	"PartnerHub-Backend/internal/repository/memory"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)

func newTestStats(t *testing.T) (*Stats, *memory.MemStorage) {
	t.Helper()
	storage := memory.New()
	stats := NewStats(storage, zap.NewNop())
	stats.now = func() time.Time { return testNow }
	return stats, storage
}

// seedPartner creates a partner and records clicks at the given day
// offsets (0 = today), one RecordClick call per click.
func seedPartner(t *testing.T, storage *memory.MemStorage, name string, clicksByOffset map[int]int) *domain.Partner {
	t.Helper()
	ctx := context.Background()

	category := &domain.Category{Name: "Eletrônicos", Slug: "eletronicos"}
	if _, err := storage.GetCategory(ctx, 1); err != nil {
		_ = storage.CreateCategory(ctx, category)
	}

	partner := &domain.Partner{
		Name:       name,
		Slug:       name,
		URL:        "https://store.example/" + name,
		LogoURL:    "/logos/" + name + ".png",
		CategoryID: 1,
		Active:     true,
	}
	require.NoError(t, storage.CreatePartner(ctx, partner))

	for offset, clicks := range clicksByOffset {
		day := testNow.AddDate(0, 0, -offset)
		for i := 0; i < clicks; i++ {
			require.NoError(t, storage.RecordClick(ctx, domain.KindPartner, partner.ID, day))
		}
	}
	return partner
}

func TestTopClicksWindows(t *testing.T) {
	stats, storage := newTestStats(t)
	ctx := context.Background()

	// Clicks at day offsets 0, 5 and 10: only the first two fall inside
	// a 7-day window, only the first inside a 1-day window.
	seedPartner(t, storage, "acme", map[int]int{0: 3, 5: 2, 10: 5})

	t.Run("7 day window sums offsets 0 and 5", func(t *testing.T) {
		leaders, err := stats.TopClicks(ctx, domain.KindPartner, 7, 5)
		require.NoError(t, err)
		require.Len(t, leaders, 1)
		assert.Equal(t, int64(5), leaders[0].Clicks)
		assert.Equal(t, "acme", leaders[0].Label)
		assert.Equal(t, "Eletrônicos", leaders[0].Badge)
	})

	t.Run("1 day window sums today only", func(t *testing.T) {
		leaders, err := stats.TopClicks(ctx, domain.KindPartner, 1, 5)
		require.NoError(t, err)
		require.Len(t, leaders, 1)
		assert.Equal(t, int64(3), leaders[0].Clicks)
	})

	t.Run("365 day window sums everything", func(t *testing.T) {
		leaders, err := stats.TopClicks(ctx, domain.KindPartner, 365, 5)
		require.NoError(t, err)
		require.Len(t, leaders, 1)
		assert.Equal(t, int64(10), leaders[0].Clicks)
	})
}

func TestTopClicksOrderingAndLimit(t *testing.T) {
	stats, storage := newTestStats(t)
	ctx := context.Background()

	seedPartner(t, storage, "bronze", map[int]int{0: 1})
	seedPartner(t, storage, "gold", map[int]int{0: 9})
	seedPartner(t, storage, "silver", map[int]int{0: 4})
	seedPartner(t, storage, "quiet", nil)

	leaders, err := stats.TopClicks(ctx, domain.KindPartner, 7, 2)
	require.NoError(t, err)

	require.Len(t, leaders, 2)
	assert.Equal(t, "gold", leaders[0].Label)
	assert.Equal(t, int64(9), leaders[0].Clicks)
	assert.Equal(t, "silver", leaders[1].Label)

	// Entities with zero clicks in the window never appear, not even
	// with a zero count.
	all, err := stats.TopClicks(ctx, domain.KindPartner, 7, 10)
	require.NoError(t, err)
	for _, leader := range all {
		assert.NotEqual(t, "quiet", leader.Label)
		assert.Greater(t, leader.Clicks, int64(0))
	}
}

func TestTopClicksEmptyLedger(t *testing.T) {
	stats, _ := newTestStats(t)

	leaders, err := stats.TopClicks(context.Background(), domain.KindPartner, 30, 5)
	require.NoError(t, err)
	assert.Empty(t, leaders)
}

func TestTopClicksProductBadgeFallsBackToPlatform(t *testing.T) {
	stats, storage := newTestStats(t)
	ctx := context.Background()

	require.NoError(t, storage.CreateProductCategory(ctx, &domain.ProductCategory{Name: "Casa", Slug: "casa"}))
	product := &domain.Product{
		Name:              "Air Fryer",
		Slug:              "air-fryer",
		URL:               "https://shop.example/air-fryer",
		Platform:          "Shopee",
		ImageURLs:         []string{"/img/air-fryer.jpg"},
		ProductCategoryID: 1,
		Active:            true,
	}
	require.NoError(t, storage.CreateProduct(ctx, product))

	orphan := &domain.Product{
		Name:      "No Category",
		Slug:      "no-category",
		URL:       "https://shop.example/no-category",
		Platform:  "Amazon",
		ImageURLs: []string{"/img/x.jpg"},
		// ProductCategoryID left pointing nowhere
		ProductCategoryID: 999,
		Active:            true,
	}
	require.NoError(t, storage.CreateProduct(ctx, orphan))

	require.NoError(t, storage.RecordClick(ctx, domain.KindProduct, product.ID, testNow))
	require.NoError(t, storage.RecordClick(ctx, domain.KindProduct, orphan.ID, testNow))

	leaders, err := stats.TopClicks(ctx, domain.KindProduct, 7, 5)
	require.NoError(t, err)
	require.Len(t, leaders, 2)

	byLabel := map[string]string{}
	for _, leader := range leaders {
		byLabel[leader.Label] = leader.Badge
	}
	assert.Equal(t, "Casa", byLabel["Air Fryer"])
	assert.Equal(t, "Amazon", byLabel["No Category"])
}

func TestDailySeriesDense(t *testing.T) {
	stats, storage := newTestStats(t)
	ctx := context.Background()

	t.Run("empty ledger is all zeros", func(t *testing.T) {
		series, err := stats.DailySeries(ctx, domain.KindPartner, 30)
		require.NoError(t, err)
		require.Len(t, series, 30)
		for _, point := range series {
			assert.Zero(t, point.Clicks)
		}
	})

	seedPartner(t, storage, "acme", map[int]int{0: 2, 29: 7})

	t.Run("sparse data still yields a gapless window", func(t *testing.T) {
		series, err := stats.DailySeries(ctx, domain.KindPartner, 30)
		require.NoError(t, err)
		require.Len(t, series, 30)

		// Ascending, one calendar day apart, no gaps.
		for i := 1; i < len(series); i++ {
			assert.Equal(t, series[i-1].Day.AddDate(0, 0, 1), series[i].Day)
		}

		assert.Equal(t, int64(7), series[0].Clicks)
		assert.Equal(t, int64(2), series[29].Clicks)
		for _, point := range series[1:29] {
			assert.Zero(t, point.Clicks)
		}
	})

	t.Run("clicks outside the window are excluded", func(t *testing.T) {
		series, err := stats.DailySeries(ctx, domain.KindPartner, 7)
		require.NoError(t, err)
		require.Len(t, series, 7)
		assert.Equal(t, int64(2), series[6].Clicks)
		var total int64
		for _, point := range series {
			total += point.Clicks
		}
		assert.Equal(t, int64(2), total)
	})
}

// mockStorage covers the one case the memory implementation cannot
// produce: ledger rows whose entity has since been deleted.
type mockStorage struct {
	repository.Storage
	mock.Mock
}

func (m *mockStorage) SumClicksByEntity(ctx context.Context, kind domain.EntityKind, since time.Time, limit int) ([]repository.EntityClickSum, error) {
	args := m.Called(ctx, kind, since, limit)
	return args.Get(0).([]repository.EntityClickSum), args.Error(1)
}

func (m *mockStorage) PartnersByIDs(ctx context.Context, ids []int64) ([]*domain.Partner, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*domain.Partner), args.Error(1)
}

func TestTopClicksDropsDeletedEntities(t *testing.T) {
	storage := &mockStorage{}
	stats := NewStats(storage, zap.NewNop())
	stats.now = func() time.Time { return testNow }

	sums := []repository.EntityClickSum{
		{EntityID: 1, Total: 8},
		{EntityID: 2, Total: 3}, // deleted since its clicks were recorded
	}
	partners := []*domain.Partner{
		{ID: 1, Name: "alive"},
	}
	storage.On("SumClicksByEntity", mock.Anything, domain.KindPartner, mock.Anything, 5).Return(sums, nil)
	storage.On("PartnersByIDs", mock.Anything, []int64{1, 2}).Return(partners, nil)

	leaders, err := stats.TopClicks(context.Background(), domain.KindPartner, 7, 5)
	require.NoError(t, err)

	require.Len(t, leaders, 1)
	assert.Equal(t, "alive", leaders[0].Label)
	storage.AssertExpectations(t)
}
