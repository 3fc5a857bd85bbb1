package domain

import "time"

// EntityKind selects which outbound catalog the click ledger refers to.
type EntityKind string

const (
	KindPartner EntityKind = "partner"
	KindProduct EntityKind = "product"
)

// Valid reports whether the kind is one of the known catalogs.
func (k EntityKind) Valid() bool {
	return k == KindPartner || k == KindProduct
}

// PartnerClickStat is one row of the partner click ledger: the number of
// countable visits recorded for a partner on one UTC calendar day. Day is
// always UTC-midnight-normalized before it reaches storage.
type PartnerClickStat struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	PartnerID int64     `gorm:"column:partner_id;not null;uniqueIndex:idx_partner_day" json:"partner_id"`
	Day       time.Time `gorm:"column:day;type:date;not null;uniqueIndex:idx_partner_day" json:"day"`
	Count     int64     `gorm:"column:count;not null;default:0" json:"count"`

	// Relationships
	Partner *Partner `gorm:"foreignKey:PartnerID;constraint:OnDelete:CASCADE" json:"partner,omitempty"`
}

// TableName returns the table name for GORM
func (PartnerClickStat) TableName() string {
	return "partner_click_stats"
}

// ProductClickStat mirrors PartnerClickStat for the product catalog.
type ProductClickStat struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	ProductID int64     `gorm:"column:product_id;not null;uniqueIndex:idx_product_day" json:"product_id"`
	Day       time.Time `gorm:"column:day;type:date;not null;uniqueIndex:idx_product_day" json:"day"`
	Count     int64     `gorm:"column:count;not null;default:0" json:"count"`

	// Relationships
	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
}

// TableName returns the table name for GORM
func (ProductClickStat) TableName() string {
	return "product_click_stats"
}
