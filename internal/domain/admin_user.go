package domain

import "time"

// AdminUser is an operator account for the catalog admin API. Being in
// this table is not enough to get write access: the email must also pass
// the configured allowlist.
type AdminUser struct {
	ID           int64     `gorm:"primaryKey;column:id" json:"id"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	Active       bool      `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for GORM
func (AdminUser) TableName() string {
	return "admin_users"
}
