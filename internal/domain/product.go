package domain

import "time"

// Default call-to-action presentation for product cards.
const (
	DefaultCTALabel = "Ir para link oficial"
	DefaultCTAColor = "#b02b24"
)

// Product is an affiliate product listing. Like Partner it carries a
// lifetime ClickCount alongside the per-day ProductClickStat ledger.
type Product struct {
	ID                int64     `gorm:"primaryKey;column:id" json:"id"`
	Name              string    `gorm:"column:name;size:160;not null" json:"name"`
	Slug              string    `gorm:"column:slug;size:180;uniqueIndex;not null" json:"slug"`
	URL               string    `gorm:"column:url;size:500;not null" json:"url"`
	Platform          string    `gorm:"column:platform;size:80;not null" json:"platform"`
	ImageURLs         []string  `gorm:"column:image_urls;serializer:json;type:jsonb" json:"image_urls"`
	CTALabel          string    `gorm:"column:cta_label;size:80;not null;default:''" json:"cta_label"`
	CTAColor          string    `gorm:"column:cta_color;size:7;not null;default:''" json:"cta_color"`
	Description       *string   `gorm:"column:description;size:3000" json:"description,omitempty"`
	ProductCategoryID int64     `gorm:"column:product_category_id;not null;index" json:"product_category_id"`
	Active            bool      `gorm:"column:active;not null;default:true" json:"active"`
	ClickCount        int64     `gorm:"column:click_count;not null;default:0" json:"click_count"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	ProductCategory *ProductCategory `gorm:"foreignKey:ProductCategoryID" json:"product_category,omitempty"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}
