package database

import (
	"PartnerHub-Backend/internal/domain"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AutoMigrate runs automatic migrations for all domain models.
// Migration order matters because of foreign keys.
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("starting database auto-migration")

	models := []interface{}{
		&domain.Category{},
		&domain.ProductCategory{},
		&domain.Partner{},          // depends on categories
		&domain.Product{},          // depends on product categories
		&domain.PartnerClickStat{}, // depends on partners
		&domain.ProductClickStat{}, // depends on products
		&domain.AdminUser{},
	}

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			log.Error("failed to migrate model",
				zap.String("model", fmt.Sprintf("%T", model)),
				zap.Error(err))
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Info("database auto-migration completed", zap.Int("migrated_models", len(models)))
	return nil
}

// SeedData creates the starter taxonomy on an empty database so the
// admin can file partners immediately. No-op when categories exist.
func SeedData(db *gorm.DB, log *zap.Logger) error {
	var count int64
	db.Model(&domain.Category{}).Count(&count)
	if count > 0 {
		log.Info("categories already exist, skipping seeding", zap.Int64("existing_count", count))
		return nil
	}

	categories := []domain.Category{
		{Name: "Eletrônicos", Slug: "eletronicos"},
		{Name: "Moda", Slug: "moda"},
		{Name: "Casa e Decoração", Slug: "casa-e-decoracao"},
		{Name: "Beleza", Slug: "beleza"},
	}

	if err := db.Create(&categories).Error; err != nil {
		log.Error("failed to seed categories", zap.Error(err))
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	log.Info("database seeding completed", zap.Int("categories_created", len(categories)))
	return nil
}
