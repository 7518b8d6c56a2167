package model

import "time"

type DonStatus string

const (
	DonStatusInStock       DonStatus = "in_stock"
	DonStatusInStorage     DonStatus = "in_storage"
	DonStatusInConsignment DonStatus = "in_consignment"
	DonStatusReserved      DonStatus = "reserved"
	DonStatusGiven         DonStatus = "given"
	DonStatusSold          DonStatus = "sold"
	DonStatusExpired       DonStatus = "expired"
)

// Don is a stocked, inventory-tracked item created exactly once from a
// completed proposition. Reference has the form DON-<year>-<6-digit id> and
// is assigned in the same transaction as the insert.
type Don struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	PropositionID uint64 `gorm:"column:proposition_id;uniqueIndex;not null"`
	Reference     string `gorm:"size:50;uniqueIndex"`

	CategoryID   *uint64       `gorm:"column:category_id;index"`
	MaterialType string        `gorm:"column:material_type;size:200;not null"`
	Quantity     int           `gorm:"not null;default:1"`
	Description  string        `gorm:"type:text;not null"`
	Condition    ItemCondition `gorm:"column:item_condition;size:20;not null;default:good"`
	PhotoURL     *string       `gorm:"column:photo_url;size:512"`

	Status          DonStatus `gorm:"column:status;size:20;not null;default:in_stock"`
	StorageLocation string    `gorm:"column:storage_location;size:100"`

	EstimatedValue *float64   `gorm:"column:estimated_value"`
	SalePrice      *float64   `gorm:"column:sale_price"`
	SoldAt         *time.Time `gorm:"column:sold_at"`
	Buyer          string     `gorm:"size:255"`
	GivenAt        *time.Time `gorm:"column:given_at"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Don) TableName() string {
	return "dons"
}
