package models

import (
	"time"

	"gorm.io/gorm"
)

// Service is a catalog entry for an offered line of work.
type Service struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Name        string         `gorm:"type:varchar(200);not null" json:"name"`
	Summary     string         `gorm:"type:varchar(500)" json:"summary"`
	Description string         `gorm:"type:text" json:"description"`
	Icon        string         `gorm:"type:varchar(500)" json:"icon"`
	Image       string         `gorm:"type:varchar(500)" json:"image"`
	Features    StringArray    `gorm:"type:json" json:"features"`
	Price       Money          `gorm:"type:decimal(10,2)" json:"price"`
	PriceType   string         `gorm:"type:varchar(20);default:'custom'" json:"price_type"` // fixed/hourly/project/custom
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`
	IsFeatured  bool           `gorm:"default:false;index" json:"is_featured"`
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Service) TableName() string {
	return "services"
}
