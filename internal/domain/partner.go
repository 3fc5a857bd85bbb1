package domain

import "time"

// Partner is a store with an outbound affiliate link. ClickCount is the
// lifetime total maintained by the redirect handler; the per-day ledger
// lives in PartnerClickStat.
type Partner struct {
	ID          int64     `gorm:"primaryKey;column:id" json:"id"`
	Name        string    `gorm:"column:name;size:120;not null" json:"name"`
	Slug        string    `gorm:"column:slug;size:140;uniqueIndex;not null" json:"slug"`
	URL         string    `gorm:"column:url;size:500;not null" json:"url"`
	LogoURL     string    `gorm:"column:logo_url;size:500;not null" json:"logo_url"`
	Description *string   `gorm:"column:description;size:240" json:"description,omitempty"`
	CategoryID  int64     `gorm:"column:category_id;not null;index" json:"category_id"`
	Active      bool      `gorm:"column:active;not null;default:true" json:"active"`
	ClickCount  int64     `gorm:"column:click_count;not null;default:0" json:"click_count"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName returns the table name for GORM
func (Partner) TableName() string {
	return "partners"
}
