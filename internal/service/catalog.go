// Package service holds the write-side business logic for the catalog:
// validation, slug derivation and storage orchestration.
package service

import (
	"PartnerHub-Backend/internal/domain"
	"PartnerHub-Backend/internal/repository"
	"PartnerHub-Backend/pkg/slug"
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	// ErrValidation wraps field-level validation failures; handlers map it
	// to a 400.
	ErrValidation = errors.New("validation failed")
	// ErrCategoryNotFound is returned when a write references a missing
	// category.
	ErrCategoryNotFound = errors.New("category not found")
)

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// CreatePartnerInput carries the validated fields of a partner write.
type CreatePartnerInput struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	CategoryID  int64  `json:"category_id" validate:"required,gt=0"`
	URL         string `json:"url" validate:"required,http_url"`
	LogoURL     string `json:"logo_url" validate:"required,min=2,imagesource"`
	Description string `json:"description" validate:"max=240"`
	Active      *bool  `json:"active,omitempty"`
}

// CreateProductInput carries the validated fields of a product write.
type CreateProductInput struct {
	Name              string   `json:"name" validate:"required,min=3,max=160"`
	ProductCategoryID int64    `json:"product_category_id" validate:"required,gt=0"`
	Platform          string   `json:"platform" validate:"required,min=2,max=80"`
	URL               string   `json:"url" validate:"required,http_url"`
	ImageURLs         []string `json:"image_urls" validate:"required,min=1,max=5,dive,min=2,imagesource"`
	CTALabel          string   `json:"cta_label" validate:"max=80"`
	CTAColor          string   `json:"cta_color" validate:"omitempty,ctacolor"`
	Description       string   `json:"description" validate:"max=3000"`
	Active            *bool    `json:"active,omitempty"`
}

// CreateCategoryInput carries the validated fields of a category write,
// shared by both taxonomies.
type CreateCategoryInput struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"max=240"`
}

// CatalogService owns every admin write to the catalog.
type CatalogService struct {
	storage  repository.Storage
	validate *validator.Validate
	log      *zap.Logger
}

// NewCatalog creates the catalog service and registers the custom
// validators the image fields need.
func NewCatalog(storage repository.Storage, log *zap.Logger) *CatalogService {
	v := validator.New()

	// Image and logo sources: full http(s) link, or a relative path into
	// the public assets folder.
	_ = v.RegisterValidation("imagesource", func(fl validator.FieldLevel) bool {
		return isImageSource(fl.Field().String())
	})
	_ = v.RegisterValidation("ctacolor", func(fl validator.FieldLevel) bool {
		return hexColorRe.MatchString(fl.Field().String())
	})

	return &CatalogService{
		storage:  storage,
		validate: v,
		log:      log,
	}
}

func isImageSource(value string) bool {
	if strings.HasPrefix(value, "/") {
		return true
	}
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return u.Scheme == "https" || u.Scheme == "http"
}

// --- Partners ---

// CreatePartner validates the input and saves a new partner with a slug
// derived from its name.
func (s *CatalogService) CreatePartner(ctx context.Context, input CreatePartnerInput) (*domain.Partner, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validationDetail(err))
	}

	if _, err := s.storage.GetCategory(ctx, input.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	partner := &domain.Partner{
		Name:        strings.TrimSpace(input.Name),
		Slug:        slug.Make(input.Name),
		URL:         input.URL,
		LogoURL:     input.LogoURL,
		Description: optional(input.Description),
		CategoryID:  input.CategoryID,
		Active:      activeOrDefault(input.Active),
	}
	if partner.Slug == "" {
		return nil, fmt.Errorf("%w: name does not produce a usable slug", ErrValidation)
	}

	if err := s.storage.CreatePartner(ctx, partner); err != nil {
		return nil, err
	}
	return partner, nil
}

// UpdatePartner validates the input and rewrites an existing partner.
// The slug follows the (possibly changed) name.
func (s *CatalogService) UpdatePartner(ctx context.Context, id int64, input CreatePartnerInput) (*domain.Partner, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validationDetail(err))
	}

	if _, err := s.storage.GetCategory(ctx, input.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	existing, err := s.storage.GetPartner(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Slug = slug.Make(input.Name)
	existing.URL = input.URL
	existing.LogoURL = input.LogoURL
	existing.Description = optional(input.Description)
	existing.CategoryID = input.CategoryID
	if input.Active != nil {
		existing.Active = *input.Active
	}

	if err := s.storage.UpdatePartner(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeletePartner removes a partner and, through storage, its click ledger.
func (s *CatalogService) DeletePartner(ctx context.Context, id int64) error {
	return s.storage.DeletePartner(ctx, id)
}

// --- Products ---

// CreateProduct validates the input and saves a new product. CTA fields
// fall back to the stock label and brand color when omitted.
func (s *CatalogService) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validationDetail(err))
	}

	if _, err := s.storage.GetProductCategory(ctx, input.ProductCategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	product := &domain.Product{
		Name:              strings.TrimSpace(input.Name),
		Slug:              slug.Make(input.Name),
		URL:               input.URL,
		Platform:          strings.TrimSpace(input.Platform),
		ImageURLs:         input.ImageURLs,
		CTALabel:          ctaLabelOrDefault(input.CTALabel),
		CTAColor:          ctaColorOrDefault(input.CTAColor),
		Description:       optional(input.Description),
		ProductCategoryID: input.ProductCategoryID,
		Active:            activeOrDefault(input.Active),
	}
	if product.Slug == "" {
		return nil, fmt.Errorf("%w: name does not produce a usable slug", ErrValidation)
	}

	if err := s.storage.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct validates the input and rewrites an existing product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, input CreateProductInput) (*domain.Product, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validationDetail(err))
	}

	if _, err := s.storage.GetProductCategory(ctx, input.ProductCategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	existing, err := s.storage.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Slug = slug.Make(input.Name)
	existing.URL = input.URL
	existing.Platform = strings.TrimSpace(input.Platform)
	existing.ImageURLs = input.ImageURLs
	existing.CTALabel = ctaLabelOrDefault(input.CTALabel)
	existing.CTAColor = ctaColorOrDefault(input.CTAColor)
	existing.Description = optional(input.Description)
	existing.ProductCategoryID = input.ProductCategoryID
	if input.Active != nil {
		existing.Active = *input.Active
	}

	if err := s.storage.UpdateProduct(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteProduct removes a product and its click ledger.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.storage.DeleteProduct(ctx, id)
}

// --- Taxonomies ---

// CreateCategory saves a new store category.
func (s *CatalogService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validationDetail(err))
	}

	category := &domain.Category{
		Name:        strings.TrimSpace(input.Name),
		Slug:        slug.Make(input.Name),
		Description: optional(input.Description),
	}
	if category.Slug == "" {
		return nil, fmt.Errorf("%w: name does not produce a usable slug", ErrValidation)
	}

	if err := s.storage.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory rewrites a store category.
func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, input CreateCategoryInput) (*domain.Category, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validationDetail(err))
	}

	existing, err := s.storage.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Slug = slug.Make(input.Name)
	existing.Description = optional(input.Description)

	if err := s.storage.UpdateCategory(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteCategory removes a store category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.storage.DeleteCategory(ctx, id)
}

// CreateProductCategory saves a new product category.
func (s *CatalogService) CreateProductCategory(ctx context.Context, input CreateCategoryInput) (*domain.ProductCategory, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validationDetail(err))
	}

	category := &domain.ProductCategory{
		Name:        strings.TrimSpace(input.Name),
		Slug:        slug.Make(input.Name),
		Description: optional(input.Description),
	}
	if category.Slug == "" {
		return nil, fmt.Errorf("%w: name does not produce a usable slug", ErrValidation)
	}

	if err := s.storage.CreateProductCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateProductCategory rewrites a product category.
func (s *CatalogService) UpdateProductCategory(ctx context.Context, id int64, input CreateCategoryInput) (*domain.ProductCategory, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, validationDetail(err))
	}

	existing, err := s.storage.GetProductCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.Slug = slug.Make(input.Name)
	existing.Description = optional(input.Description)

	if err := s.storage.UpdateProductCategory(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteProductCategory removes a product category.
func (s *CatalogService) DeleteProductCategory(ctx context.Context, id int64) error {
	return s.storage.DeleteProductCategory(ctx, id)
}

// --- Helpers ---

func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return fmt.Sprintf("field %s failed on %s", first.Field(), first.Tag())
	}
	return err.Error()
}

func optional(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func activeOrDefault(active *bool) bool {
	if active == nil {
		return true
	}
	return *active
}

func ctaLabelOrDefault(label string) string {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return domain.DefaultCTALabel
	}
	return trimmed
}

func ctaColorOrDefault(color string) string {
	trimmed := strings.TrimSpace(color)
	if trimmed == "" {
		return domain.DefaultCTAColor
	}
	return trimmed
}
