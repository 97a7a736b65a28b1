package models

import (
	"time"
)

// Article is the primary content entity. The slug is derived from the title
// at creation and never regenerated afterwards, so published URLs stay valid
// across title edits. Deletion is a hard delete, hence no gorm.DeletedAt.
type Article struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(255)" json:"title" validate:"required,min=3,max=255"`
	Summary     string    `gorm:"type:text" json:"summary" validate:"required"`
	Content     string    `gorm:"type:longtext" json:"content" validate:"required"`
	Slug        string    `gorm:"uniqueIndex;type:varchar(255)" json:"slug" validate:"required,min=3,max=255"`
	ImageURL    string    `gorm:"type:varchar(500)" json:"image_url" validate:"required,max=500"`
	Featured    bool      `gorm:"type:tinyint(1);default:0;index" json:"featured"`
	ViewCount   uint64    `gorm:"default:0" json:"view_count"`
	CategoryID  uint      `gorm:"index" json:"category_id"`
	Category    Category  `gorm:"foreignKey:CategoryID" json:"category"`
	UserID      uint      `gorm:"index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"author"`
	PublishedAt time.Time `gorm:"index" json:"published_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Article model
func (Article) TableName() string {
	return "articles"
}
