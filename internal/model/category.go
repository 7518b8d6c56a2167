package model

import "time"

// Category is a self-referencing tree used to match demandes to stock.
type Category struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	Name        string    `gorm:"size:100;not null;uniqueIndex:uk_categories_name"`
	Description string    `gorm:"type:text"`
	ParentID    *uint64   `gorm:"column:parent_id;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Category) TableName() string {
	return "categories"
}
