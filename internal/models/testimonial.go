package models

import (
	"time"

	"gorm.io/gorm"
)

// Testimonial is a customer quote shown on the site after approval.
type Testimonial struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	AuthorName string         `gorm:"type:varchar(200);not null" json:"author_name"`
	Company    string         `gorm:"type:varchar(200)" json:"company"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	Rating     int            `gorm:"default:5" json:"rating"` // 1..5
	Avatar     string         `gorm:"type:varchar(500)" json:"avatar"`
	ProjectID  *uint          `gorm:"index" json:"project_id"`
	Project    *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	IsApproved bool           `gorm:"default:false;index" json:"is_approved"`
	SortOrder  int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Testimonial) TableName() string {
	return "testimonials"
}
