package domain

import "time"

// Category groups partner stores on the public site.
type Category struct {
	ID          int64     `gorm:"primaryKey;column:id" json:"id"`
	Name        string    `gorm:"column:name;size:120;uniqueIndex;not null" json:"name"`
	Slug        string    `gorm:"column:slug;size:140;uniqueIndex;not null" json:"slug"`
	Description *string   `gorm:"column:description;size:240" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}
