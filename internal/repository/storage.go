package repository

import (
	"PartnerHub-Backend/internal/domain"
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrSlugExists  = errors.New("slug already exists")
	ErrNameExists  = errors.New("name already exists")
	ErrEmailExists = errors.New("email already exists")
)

// Outbound is the minimal projection the redirect handler needs: where to
// send the visitor and which ledger row to count against.
type Outbound struct {
	EntityID int64
	URL      string
}

// EntityClickSum is one leaderboard row before label enrichment.
type EntityClickSum struct {
	EntityID int64
	Total    int64
}

// DayClickSum is one summed ledger bucket, keyed by UTC day.
type DayClickSum struct {
	Day   time.Time
	Total int64
}

// ListOptions controls catalog list queries. Page is 1-based.
type ListOptions struct {
	CategorySlug    string
	Page            int
	PerPage         int
	IncludeInactive bool
}

type Storage interface {
	// Click ledger
	ResolveOutbound(ctx context.Context, kind domain.EntityKind, slug string) (*Outbound, error)
	RecordClick(ctx context.Context, kind domain.EntityKind, entityID int64, day time.Time) error
	SumClicksByEntity(ctx context.Context, kind domain.EntityKind, since time.Time, limit int) ([]EntityClickSum, error)
	SumClicksByDay(ctx context.Context, kind domain.EntityKind, since time.Time) ([]DayClickSum, error)

	// Partner catalog
	CreatePartner(ctx context.Context, partner *domain.Partner) error
	GetPartner(ctx context.Context, id int64) (*domain.Partner, error)
	ListPartners(ctx context.Context, opts ListOptions) ([]*domain.Partner, int64, error)
	PartnersByIDs(ctx context.Context, ids []int64) ([]*domain.Partner, error)
	UpdatePartner(ctx context.Context, partner *domain.Partner) error
	DeletePartner(ctx context.Context, id int64) error

	// Product catalog
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, opts ListOptions) ([]*domain.Product, int64, error)
	ProductsByIDs(ctx context.Context, ids []int64) ([]*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error

	// Taxonomies
	CreateCategory(ctx context.Context, category *domain.Category) error
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error

	CreateProductCategory(ctx context.Context, category *domain.ProductCategory) error
	GetProductCategory(ctx context.Context, id int64) (*domain.ProductCategory, error)
	ListProductCategories(ctx context.Context) ([]*domain.ProductCategory, error)
	UpdateProductCategory(ctx context.Context, category *domain.ProductCategory) error
	DeleteProductCategory(ctx context.Context, id int64) error

	// Admin accounts
	GetAdminByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	CreateAdmin(ctx context.Context, admin *domain.AdminUser) error
}
