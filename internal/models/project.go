package models

import (
	"time"

	"gorm.io/gorm"
)

// Project is a completed or ongoing job shown in the portfolio.
type Project struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`
	Summary     string         `gorm:"type:varchar(500)" json:"summary"`
	Description string         `gorm:"type:text" json:"description"`
	Client      string         `gorm:"type:varchar(200)" json:"client"`
	Location    string         `gorm:"type:varchar(200)" json:"location"`
	Status      string         `gorm:"type:varchar(20);default:'completed';index" json:"status"` // planned/in_progress/completed
	ServiceID   *uint          `gorm:"index" json:"service_id"`
	Service     *Service       `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	CoverImage  string         `gorm:"type:varchar(500)" json:"cover_image"`
	Gallery     StringArray    `gorm:"type:json" json:"gallery"`
	AreaSqm     float64        `gorm:"default:0" json:"area_sqm"`
	StartedAt   *time.Time     `json:"started_at"`
	CompletedAt *time.Time     `gorm:"index" json:"completed_at"`
	IsFeatured  bool           `gorm:"default:false;index" json:"is_featured"`
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Project) TableName() string {
	return "projects"
}
