package models

import (
	"time"

	"gorm.io/gorm"
)

// BlogPost is an article on the company blog.
type BlogPost struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`
	Excerpt     string         `gorm:"type:varchar(500)" json:"excerpt"`
	Content     string         `gorm:"type:text" json:"content"`
	CoverImage  string         `gorm:"type:varchar(500)" json:"cover_image"`
	Tags        StringArray    `gorm:"type:json" json:"tags"`
	Status      string         `gorm:"type:varchar(20);default:'draft';index" json:"status"` // draft/published/archived
	AuthorID    string         `gorm:"type:varchar(36);index" json:"author_id"`
	Author      *User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	ViewCount   int64          `gorm:"default:0" json:"view_count"`
	PublishedAt *time.Time     `gorm:"index" json:"published_at"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (BlogPost) TableName() string {
	return "blog_posts"
}

// IsPublished reports whether the post is publicly visible.
func (p *BlogPost) IsPublished() bool {
	return p.Status == "published"
}
