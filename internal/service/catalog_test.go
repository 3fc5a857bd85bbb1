package service

import (
	"context"
	"testing"
	"time"

	"PartnerHub-Backend/internal/domain"
	"PartnerHub-Backend/internal/repository"
	"PartnerHub-Backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCatalogFixture(t *testing.T) (*memory.MemStorage, *CatalogService, *domain.Category, *domain.ProductCategory) {
	t.Helper()
	ctx := context.Background()
	storage := memory.New()

	category := &domain.Category{Name: "Eletrônicos", Slug: "eletronicos"}
	require.NoError(t, storage.CreateCategory(ctx, category))

	productCategory := &domain.ProductCategory{Name: "Cozinha", Slug: "cozinha"}
	require.NoError(t, storage.CreateProductCategory(ctx, productCategory))

	return storage, NewCatalog(storage, zap.NewNop()), category, productCategory
}

func validPartnerInput(categoryID int64) CreatePartnerInput {
	return CreatePartnerInput{
		Name:       "Casas Bahia",
		CategoryID: categoryID,
		URL:        "https://casasbahia.com.br",
		LogoURL:    "/logos/casas-bahia.png",
	}
}

func validProductInput(categoryID int64) CreateProductInput {
	return CreateProductInput{
		Name:              "Air Fryer Mondial",
		ProductCategoryID: categoryID,
		Platform:          "Amazon",
		URL:               "https://example.com/air-fryer",
		ImageURLs:         []string{"/products/air-fryer.jpg"},
	}
}

func TestCreatePartner_DerivesSlugAndDefaults(t *testing.T) {
	_, catalog, category, _ := newCatalogFixture(t)

	input := validPartnerInput(category.ID)
	input.Name = "Polishop Variedades"

	partner, err := catalog.CreatePartner(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "polishop-variedades", partner.Slug)
	assert.True(t, partner.Active)
	assert.Nil(t, partner.Description)
	assert.NotZero(t, partner.ID)
}

func TestCreatePartner_FoldsDiacriticsIntoSlug(t *testing.T) {
	_, catalog, category, _ := newCatalogFixture(t)

	input := validPartnerInput(category.ID)
	input.Name = "Eletrônicos São João"

	partner, err := catalog.CreatePartner(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "eletronicos-sao-joao", partner.Slug)
}

func TestCreatePartner_ValidationFailures(t *testing.T) {
	_, catalog, category, _ := newCatalogFixture(t)
	ctx := context.Background()

	cases := map[string]func(*CreatePartnerInput){
		"missing name":    func(in *CreatePartnerInput) { in.Name = "" },
		"short name":      func(in *CreatePartnerInput) { in.Name = "x" },
		"bad url":         func(in *CreatePartnerInput) { in.URL = "not-a-url" },
		"bad logo source": func(in *CreatePartnerInput) { in.LogoURL = "ftp://logo.png" },
		"missing category": func(in *CreatePartnerInput) { in.CategoryID = 0 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := validPartnerInput(category.ID)
			mutate(&input)
			_, err := catalog.CreatePartner(ctx, input)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreatePartner_UnknownCategory(t *testing.T) {
	_, catalog, _, _ := newCatalogFixture(t)

	input := validPartnerInput(9999)
	_, err := catalog.CreatePartner(context.Background(), input)
	require.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCreatePartner_DuplicateName(t *testing.T) {
	_, catalog, category, _ := newCatalogFixture(t)
	ctx := context.Background()

	_, err := catalog.CreatePartner(ctx, validPartnerInput(category.ID))
	require.NoError(t, err)

	_, err = catalog.CreatePartner(ctx, validPartnerInput(category.ID))
	require.ErrorIs(t, err, repository.ErrSlugExists)
}

func TestUpdatePartner_SlugFollowsName(t *testing.T) {
	_, catalog, category, _ := newCatalogFixture(t)
	ctx := context.Background()

	partner, err := catalog.CreatePartner(ctx, validPartnerInput(category.ID))
	require.NoError(t, err)

	input := validPartnerInput(category.ID)
	input.Name = "Casas Bahia Oficial"
	inactive := false
	input.Active = &inactive

	updated, err := catalog.UpdatePartner(ctx, partner.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "casas-bahia-oficial", updated.Slug)
	assert.False(t, updated.Active)
}

func TestCreateProduct_AppliesCTADefaults(t *testing.T) {
	_, catalog, _, productCategory := newCatalogFixture(t)

	product, err := catalog.CreateProduct(context.Background(), validProductInput(productCategory.ID))
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultCTALabel, product.CTALabel)
	assert.Equal(t, domain.DefaultCTAColor, product.CTAColor)
	assert.Equal(t, "air-fryer-mondial", product.Slug)
}

func TestCreateProduct_KeepsCustomCTA(t *testing.T) {
	_, catalog, _, productCategory := newCatalogFixture(t)

	input := validProductInput(productCategory.ID)
	input.CTALabel = "Comprar agora"
	input.CTAColor = "#00AA55"

	product, err := catalog.CreateProduct(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "Comprar agora", product.CTALabel)
	assert.Equal(t, "#00AA55", product.CTAColor)
}

func TestCreateProduct_ValidationFailures(t *testing.T) {
	_, catalog, _, productCategory := newCatalogFixture(t)
	ctx := context.Background()

	cases := map[string]func(*CreateProductInput){
		"no images":      func(in *CreateProductInput) { in.ImageURLs = nil },
		"too many images": func(in *CreateProductInput) {
			in.ImageURLs = []string{"/a.jpg", "/b.jpg", "/c.jpg", "/d.jpg", "/e.jpg", "/f.jpg"}
		},
		"bad image source": func(in *CreateProductInput) { in.ImageURLs = []string{"nope"} },
		"bad cta color":    func(in *CreateProductInput) { in.CTAColor = "red" },
		"missing platform": func(in *CreateProductInput) { in.Platform = "" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := validProductInput(productCategory.ID)
			mutate(&input)
			_, err := catalog.CreateProduct(ctx, input)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateCategory_UniquenessCollisions(t *testing.T) {
	_, catalog, _, _ := newCatalogFixture(t)
	ctx := context.Background()

	_, err := catalog.CreateCategory(ctx, CreateCategoryInput{Name: "Moda"})
	require.NoError(t, err)

	_, err = catalog.CreateCategory(ctx, CreateCategoryInput{Name: "Moda"})
	require.ErrorIs(t, err, repository.ErrNameExists)

	// A different name folding to the same slug collides on the slug.
	_, err = catalog.CreateCategory(ctx, CreateCategoryInput{Name: "Móda"})
	require.ErrorIs(t, err, repository.ErrSlugExists)
}

func TestCreateCategory_DerivesSlug(t *testing.T) {
	_, catalog, _, _ := newCatalogFixture(t)

	category, err := catalog.CreateCategory(context.Background(), CreateCategoryInput{Name: "Casa e Decoração"})
	require.NoError(t, err)
	assert.Equal(t, "casa-e-decoracao", category.Slug)
}

func TestDeletePartner_RemovesClickLedger(t *testing.T) {
	storage, catalog, category, _ := newCatalogFixture(t)
	ctx := context.Background()

	partner, err := catalog.CreatePartner(ctx, validPartnerInput(category.ID))
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, storage.RecordClick(ctx, domain.KindPartner, partner.ID, now))
	require.NoError(t, catalog.DeletePartner(ctx, partner.ID))

	sums, err := storage.SumClicksByEntity(ctx, domain.KindPartner, now.AddDate(0, 0, -1), 10)
	require.NoError(t, err)
	assert.Empty(t, sums)
}
