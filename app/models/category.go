package models

import (
	"time"
)

// Category is effectively immutable reference data: seeded once, articles
// point at it, no mutation endpoints exist.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100)" json:"name" validate:"required,min=2,max=100"`
	Slug      string    `gorm:"uniqueIndex;type:varchar(100)" json:"slug" validate:"required,min=2,max=100"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
