package postgres

import (
	"PartnerHub-Backend/internal/domain"
	"PartnerHub-Backend/internal/repository"
	"PartnerHub-Backend/pkg/timeutil"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostgresStorage implements the Storage interface on top of PostgreSQL.
type PostgresStorage struct {
	db  *gorm.DB
	log *zap.Logger
}

// New creates a new PostgreSQL storage instance.
func New(db *gorm.DB, log *zap.Logger) *PostgresStorage {
	return &PostgresStorage{
		db:  db,
		log: log,
	}
}

// --- Click Ledger ---

// ResolveOutbound finds the redirect target for an active catalog entry.
// Entries without a usable URL resolve as not found; the handler treats
// both the same way.
func (s *PostgresStorage) ResolveOutbound(ctx context.Context, kind domain.EntityKind, slug string) (*repository.Outbound, error) {
	var out repository.Outbound

	query := s.db.WithContext(ctx).
		Select("id AS entity_id, url").
		Where("slug = ? AND active = ? AND url <> ''", slug, true).
		Limit(1)

	switch kind {
	case domain.KindPartner:
		query = query.Model(&domain.Partner{})
	case domain.KindProduct:
		query = query.Model(&domain.Product{})
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}

	err := query.Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		s.log.Error("failed to resolve outbound target",
			zap.String("kind", string(kind)), zap.String("slug", slug), zap.Error(err))
		return nil, fmt.Errorf("failed to resolve outbound: %w", err)
	}

	return &out, nil
}

// RecordClick records one countable visit: the entity's lifetime counter
// and its (entity, day) ledger row move together in a single transaction,
// so readers never observe one without the other. Concurrent visits rely
// on the database's atomic increment and upsert, not application locking.
func (s *PostgresStorage) RecordClick(ctx context.Context, kind domain.EntityKind, entityID int64, day time.Time) error {
	day = timeutil.StartOfDay(day)

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin click transaction: %w", tx.Error)
	}

	var (
		lifetime *gorm.DB
		upsert   error
	)

	onConflict := clause.OnConflict{
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count": gorm.Expr("count + 1"),
		}),
	}

	switch kind {
	case domain.KindPartner:
		lifetime = tx.Model(&domain.Partner{}).
			Where("id = ?", entityID).
			Update("click_count", gorm.Expr("click_count + 1"))
		onConflict.Columns = []clause.Column{{Name: "partner_id"}, {Name: "day"}}
		upsert = tx.Clauses(onConflict).
			Create(&domain.PartnerClickStat{PartnerID: entityID, Day: day, Count: 1}).Error
	case domain.KindProduct:
		lifetime = tx.Model(&domain.Product{}).
			Where("id = ?", entityID).
			Update("click_count", gorm.Expr("click_count + 1"))
		onConflict.Columns = []clause.Column{{Name: "product_id"}, {Name: "day"}}
		upsert = tx.Clauses(onConflict).
			Create(&domain.ProductClickStat{ProductID: entityID, Day: day, Count: 1}).Error
	default:
		tx.Rollback()
		return fmt.Errorf("unknown entity kind %q", kind)
	}

	if lifetime.Error != nil {
		tx.Rollback()
		s.log.Error("failed to increment lifetime click count",
			zap.String("kind", string(kind)), zap.Int64("entity_id", entityID), zap.Error(lifetime.Error))
		return fmt.Errorf("failed to increment click count: %w", lifetime.Error)
	}
	if lifetime.RowsAffected == 0 {
		tx.Rollback()
		return repository.ErrNotFound
	}

	if upsert != nil {
		tx.Rollback()
		s.log.Error("failed to upsert click stat",
			zap.String("kind", string(kind)), zap.Int64("entity_id", entityID), zap.Error(upsert))
		return fmt.Errorf("failed to upsert click stat: %w", upsert)
	}

	if err := tx.Commit().Error; err != nil {
		s.log.Error("failed to commit click transaction",
			zap.String("kind", string(kind)), zap.Int64("entity_id", entityID), zap.Error(err))
		return fmt.Errorf("failed to commit click transaction: %w", err)
	}

	return nil
}

// SumClicksByEntity returns per-entity click totals since the given day,
// largest first. Ties are broken by entity id so the order is stable
// within a query.
func (s *PostgresStorage) SumClicksByEntity(ctx context.Context, kind domain.EntityKind, since time.Time, limit int) ([]repository.EntityClickSum, error) {
	since = timeutil.StartOfDay(since)
	var sums []repository.EntityClickSum

	query := s.db.WithContext(ctx).Where("day >= ?", since)
	switch kind {
	case domain.KindPartner:
		query = query.Model(&domain.PartnerClickStat{}).
			Select("partner_id AS entity_id, SUM(count) AS total").
			Group("partner_id").
			Order("total DESC, partner_id ASC")
	case domain.KindProduct:
		query = query.Model(&domain.ProductClickStat{}).
			Select("product_id AS entity_id, SUM(count) AS total").
			Group("product_id").
			Order("total DESC, product_id ASC")
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&sums).Error; err != nil {
		s.log.Error("failed to sum clicks by entity",
			zap.String("kind", string(kind)), zap.Error(err))
		return nil, fmt.Errorf("failed to sum clicks by entity: %w", err)
	}

	return sums, nil
}

// SumClicksByDay returns per-day click totals since the given day in
// ascending day order. Days without clicks are absent from the result;
// the aggregation layer fills them in.
func (s *PostgresStorage) SumClicksByDay(ctx context.Context, kind domain.EntityKind, since time.Time) ([]repository.DayClickSum, error) {
	since = timeutil.StartOfDay(since)
	var sums []repository.DayClickSum

	query := s.db.WithContext(ctx).
		Select("day, SUM(count) AS total").
		Where("day >= ?", since).
		Group("day").
		Order("day ASC")

	switch kind {
	case domain.KindPartner:
		query = query.Model(&domain.PartnerClickStat{})
	case domain.KindProduct:
		query = query.Model(&domain.ProductClickStat{})
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}

	if err := query.Find(&sums).Error; err != nil {
		s.log.Error("failed to sum clicks by day",
			zap.String("kind", string(kind)), zap.Error(err))
		return nil, fmt.Errorf("failed to sum clicks by day: %w", err)
	}

	return sums, nil
}

// --- Partner Catalog ---

// CreatePartner saves a new partner, enforcing slug uniqueness.
func (s *PostgresStorage) CreatePartner(ctx context.Context, partner *domain.Partner) error {
	taken, err := s.slugTaken(ctx, &domain.Partner{}, partner.Slug, 0)
	if err != nil {
		return err
	}
	if taken {
		return repository.ErrSlugExists
	}

	if err := s.db.WithContext(ctx).Create(partner).Error; err != nil {
		s.log.Error("failed to create partner", zap.String("slug", partner.Slug), zap.Error(err))
		return fmt.Errorf("failed to create partner: %w", err)
	}

	s.log.Info("created partner", zap.Int64("partner_id", partner.ID), zap.String("slug", partner.Slug))
	return nil
}

// GetPartner fetches a partner by id.
func (s *PostgresStorage) GetPartner(ctx context.Context, id int64) (*domain.Partner, error) {
	var partner domain.Partner

	err := s.db.WithContext(ctx).First(&partner, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		s.log.Error("failed to get partner", zap.Int64("partner_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get partner: %w", err)
	}

	return &partner, nil
}

// ListPartners returns one page of partners plus the unpaged total.
func (s *PostgresStorage) ListPartners(ctx context.Context, opts repository.ListOptions) ([]*domain.Partner, int64, error) {
	query := s.db.WithContext(ctx).Model(&domain.Partner{})

	if !opts.IncludeInactive {
		query = query.Where("active = ?", true)
	}
	if opts.CategorySlug != "" {
		query = query.Where("category_id IN (?)",
			s.db.Model(&domain.Category{}).Select("id").Where("slug = ?", opts.CategorySlug))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.log.Error("failed to count partners", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count partners: %w", err)
	}

	var partners []*domain.Partner
	err := query.Order("created_at DESC, id DESC").
		Offset(pageOffset(opts)).Limit(pageSize(opts)).
		Find(&partners).Error
	if err != nil {
		s.log.Error("failed to list partners", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list partners: %w", err)
	}

	return partners, total, nil
}

// PartnersByIDs fetches the partners that still exist among the given
// ids; missing ids are silently absent from the result.
func (s *PostgresStorage) PartnersByIDs(ctx context.Context, ids []int64) ([]*domain.Partner, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var partners []*domain.Partner
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("id IN ?", ids).
		Find(&partners).Error
	if err != nil {
		s.log.Error("failed to fetch partners by ids", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch partners by ids: %w", err)
	}

	return partners, nil
}

// UpdatePartner rewrites a partner's editable fields. Identity fields
// (id) and counters are never touched here.
func (s *PostgresStorage) UpdatePartner(ctx context.Context, partner *domain.Partner) error {
	taken, err := s.slugTaken(ctx, &domain.Partner{}, partner.Slug, partner.ID)
	if err != nil {
		return err
	}
	if taken {
		return repository.ErrSlugExists
	}

	result := s.db.WithContext(ctx).Model(&domain.Partner{}).
		Where("id = ?", partner.ID).
		Updates(map[string]interface{}{
			"name":        partner.Name,
			"slug":        partner.Slug,
			"url":         partner.URL,
			"logo_url":    partner.LogoURL,
			"description": partner.Description,
			"category_id": partner.CategoryID,
			"active":      partner.Active,
		})
	if result.Error != nil {
		s.log.Error("failed to update partner", zap.Int64("partner_id", partner.ID), zap.Error(result.Error))
		return fmt.Errorf("failed to update partner: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}

	s.log.Info("updated partner", zap.Int64("partner_id", partner.ID))
	return nil
}

// DeletePartner hard-deletes a partner together with its click ledger.
func (s *PostgresStorage) DeletePartner(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("partner_id = ?", id).Delete(&domain.PartnerClickStat{}).Error; err != nil {
			return fmt.Errorf("failed to delete partner click stats: %w", err)
		}
		result := tx.Delete(&domain.Partner{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete partner: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error("failed to delete partner", zap.Int64("partner_id", id), zap.Error(err))
		}
		return err
	}

	s.log.Info("deleted partner", zap.Int64("partner_id", id))
	return nil
}

// --- Product Catalog ---

// CreateProduct saves a new product, enforcing slug uniqueness.
func (s *PostgresStorage) CreateProduct(ctx context.Context, product *domain.Product) error {
	taken, err := s.slugTaken(ctx, &domain.Product{}, product.Slug, 0)
	if err != nil {
		return err
	}
	if taken {
		return repository.ErrSlugExists
	}

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		s.log.Error("failed to create product", zap.String("slug", product.Slug), zap.Error(err))
		return fmt.Errorf("failed to create product: %w", err)
	}

	s.log.Info("created product", zap.Int64("product_id", product.ID), zap.String("slug", product.Slug))
	return nil
}

// GetProduct fetches a product by id.
func (s *PostgresStorage) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product

	err := s.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		s.log.Error("failed to get product", zap.Int64("product_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

// ListProducts returns one page of products plus the unpaged total.
func (s *PostgresStorage) ListProducts(ctx context.Context, opts repository.ListOptions) ([]*domain.Product, int64, error) {
	query := s.db.WithContext(ctx).Model(&domain.Product{})

	if !opts.IncludeInactive {
		query = query.Where("active = ?", true)
	}
	if opts.CategorySlug != "" {
		query = query.Where("product_category_id IN (?)",
			s.db.Model(&domain.ProductCategory{}).Select("id").Where("slug = ?", opts.CategorySlug))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		s.log.Error("failed to count products", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []*domain.Product
	err := query.Order("created_at DESC, id DESC").
		Offset(pageOffset(opts)).Limit(pageSize(opts)).
		Find(&products).Error
	if err != nil {
		s.log.Error("failed to list products", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	return products, total, nil
}

// ProductsByIDs fetches the products that still exist among the given ids.
func (s *PostgresStorage) ProductsByIDs(ctx context.Context, ids []int64) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var products []*domain.Product
	err := s.db.WithContext(ctx).
		Preload("ProductCategory").
		Where("id IN ?", ids).
		Find(&products).Error
	if err != nil {
		s.log.Error("failed to fetch products by ids", zap.Error(err))
		return nil, fmt.Errorf("failed to fetch products by ids: %w", err)
	}

	return products, nil
}

// UpdateProduct rewrites a product's editable fields.
func (s *PostgresStorage) UpdateProduct(ctx context.Context, product *domain.Product) error {
	taken, err := s.slugTaken(ctx, &domain.Product{}, product.Slug, product.ID)
	if err != nil {
		return err
	}
	if taken {
		return repository.ErrSlugExists
	}

	// Struct-based update so the image_urls serializer applies; Select
	// forces zero values (inactive, cleared description) through.
	result := s.db.WithContext(ctx).Model(&domain.Product{ID: product.ID}).
		Select("name", "slug", "url", "platform", "image_urls", "cta_label",
			"cta_color", "description", "product_category_id", "active").
		Updates(product)
	if result.Error != nil {
		s.log.Error("failed to update product", zap.Int64("product_id", product.ID), zap.Error(result.Error))
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}

	s.log.Info("updated product", zap.Int64("product_id", product.ID))
	return nil
}

// DeleteProduct hard-deletes a product together with its click ledger.
func (s *PostgresStorage) DeleteProduct(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&domain.ProductClickStat{}).Error; err != nil {
			return fmt.Errorf("failed to delete product click stats: %w", err)
		}
		result := tx.Delete(&domain.Product{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete product: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error("failed to delete product", zap.Int64("product_id", id), zap.Error(err))
		}
		return err
	}

	s.log.Info("deleted product", zap.Int64("product_id", id))
	return nil
}

// --- Taxonomies ---

// CreateCategory saves a new store category, enforcing name and slug
// uniqueness.
func (s *PostgresStorage) CreateCategory(ctx context.Context, category *domain.Category) error {
	if err := s.taxonomyAvailable(ctx, &domain.Category{}, category.Name, category.Slug, 0); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		s.log.Error("failed to create category", zap.String("slug", category.Slug), zap.Error(err))
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// GetCategory fetches a store category by id.
func (s *PostgresStorage) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var category domain.Category

	err := s.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		s.log.Error("failed to get category", zap.Int64("category_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &category, nil
}

// ListCategories returns all store categories ordered by name.
func (s *PostgresStorage) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category

	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		s.log.Error("failed to list categories", zap.Error(err))
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// UpdateCategory rewrites a store category's editable fields.
func (s *PostgresStorage) UpdateCategory(ctx context.Context, category *domain.Category) error {
	if err := s.taxonomyAvailable(ctx, &domain.Category{}, category.Name, category.Slug, category.ID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&domain.Category{}).
		Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"name":        category.Name,
			"slug":        category.Slug,
			"description": category.Description,
		})
	if result.Error != nil {
		s.log.Error("failed to update category", zap.Int64("category_id", category.ID), zap.Error(result.Error))
		return fmt.Errorf("failed to update category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteCategory removes a store category.
func (s *PostgresStorage) DeleteCategory(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&domain.Category{}, id)
	if result.Error != nil {
		s.log.Error("failed to delete category", zap.Int64("category_id", id), zap.Error(result.Error))
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// CreateProductCategory saves a new product category, enforcing name and
// slug uniqueness.
func (s *PostgresStorage) CreateProductCategory(ctx context.Context, category *domain.ProductCategory) error {
	if err := s.taxonomyAvailable(ctx, &domain.ProductCategory{}, category.Name, category.Slug, 0); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		s.log.Error("failed to create product category", zap.String("slug", category.Slug), zap.Error(err))
		return fmt.Errorf("failed to create product category: %w", err)
	}

	return nil
}

// GetProductCategory fetches a product category by id.
func (s *PostgresStorage) GetProductCategory(ctx context.Context, id int64) (*domain.ProductCategory, error) {
	var category domain.ProductCategory

	err := s.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		s.log.Error("failed to get product category", zap.Int64("product_category_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get product category: %w", err)
	}

	return &category, nil
}

// ListProductCategories returns all product categories ordered by name.
func (s *PostgresStorage) ListProductCategories(ctx context.Context) ([]*domain.ProductCategory, error) {
	var categories []*domain.ProductCategory

	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		s.log.Error("failed to list product categories", zap.Error(err))
		return nil, fmt.Errorf("failed to list product categories: %w", err)
	}

	return categories, nil
}

// UpdateProductCategory rewrites a product category's editable fields.
func (s *PostgresStorage) UpdateProductCategory(ctx context.Context, category *domain.ProductCategory) error {
	if err := s.taxonomyAvailable(ctx, &domain.ProductCategory{}, category.Name, category.Slug, category.ID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&domain.ProductCategory{}).
		Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"name":        category.Name,
			"slug":        category.Slug,
			"description": category.Description,
		})
	if result.Error != nil {
		s.log.Error("failed to update product category", zap.Int64("product_category_id", category.ID), zap.Error(result.Error))
		return fmt.Errorf("failed to update product category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteProductCategory removes a product category.
func (s *PostgresStorage) DeleteProductCategory(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&domain.ProductCategory{}, id)
	if result.Error != nil {
		s.log.Error("failed to delete product category", zap.Int64("product_category_id", id), zap.Error(result.Error))
		return fmt.Errorf("failed to delete product category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// --- Admin Accounts ---

// GetAdminByEmail fetches an active admin account by email.
func (s *PostgresStorage) GetAdminByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	var admin domain.AdminUser

	err := s.db.WithContext(ctx).Where("email = ? AND active = ?", email, true).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		s.log.Error("failed to get admin by email", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	return &admin, nil
}

// CreateAdmin saves a new admin account.
func (s *PostgresStorage) CreateAdmin(ctx context.Context, admin *domain.AdminUser) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.AdminUser{}).
		Where("email = ?", admin.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check admin email: %w", err)
	}
	if count > 0 {
		return repository.ErrEmailExists
	}

	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		s.log.Error("failed to create admin", zap.String("email", admin.Email), zap.Error(err))
		return fmt.Errorf("failed to create admin: %w", err)
	}

	s.log.Info("created admin account", zap.Int64("admin_id", admin.ID), zap.String("email", admin.Email))
	return nil
}

// --- Helpers ---

// slugTaken reports whether another row of the given model already owns
// the slug. excludeID skips the row being updated.
func (s *PostgresStorage) slugTaken(ctx context.Context, model interface{}, slug string, excludeID int64) (bool, error) {
	var count int64
	query := s.db.WithContext(ctx).Model(model).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		s.log.Error("failed to check slug", zap.String("slug", slug), zap.Error(err))
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return count > 0, nil
}

// taxonomyAvailable checks a category write against both unique columns.
// Name collisions are reported ahead of slug collisions so a verbatim
// duplicate name surfaces as ErrNameExists rather than the derived slug.
func (s *PostgresStorage) taxonomyAvailable(ctx context.Context, model interface{}, name, slug string, excludeID int64) error {
	var count int64
	query := s.db.WithContext(ctx).Model(model).Where("name = ?", name)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		s.log.Error("failed to check category name", zap.String("name", name), zap.Error(err))
		return fmt.Errorf("failed to check category name: %w", err)
	}
	if count > 0 {
		return repository.ErrNameExists
	}

	taken, err := s.slugTaken(ctx, model, slug, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return repository.ErrSlugExists
	}
	return nil
}

func pageSize(opts repository.ListOptions) int {
	if opts.PerPage <= 0 {
		return 8
	}
	return opts.PerPage
}

func pageOffset(opts repository.ListOptions) int {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize(opts)
}
