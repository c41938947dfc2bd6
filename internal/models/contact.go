package models

import (
	"time"

	"gorm.io/gorm"
)

// Contact is an inbound message from the public site, either a plain
// contact-form message or a quote request with job details.
type Contact struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Kind      string         `gorm:"type:varchar(20);default:'contact';index" json:"kind"` // contact/quote
	Name      string         `gorm:"type:varchar(200);not null" json:"name"`
	Email     string         `gorm:"type:varchar(255);not null;index" json:"email"`
	Phone     string         `gorm:"type:varchar(32)" json:"phone"`
	Company   string         `gorm:"type:varchar(200)" json:"company"`
	Subject   string         `gorm:"type:varchar(300)" json:"subject"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	ServiceID *uint          `gorm:"index" json:"service_id"`
	Service   *Service       `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Location  string         `gorm:"type:varchar(300)" json:"location"`
	AreaSqm   float64        `gorm:"default:0" json:"area_sqm"`
	Budget    string         `gorm:"type:varchar(100)" json:"budget"`
	Status    string         `gorm:"type:varchar(20);default:'new';index" json:"status"` // new/read/replied/archived
	ReadAt    *time.Time     `json:"read_at"`
	RepliedAt *time.Time     `json:"replied_at"`
	IPAddress string         `gorm:"type:varchar(64)" json:"-"`
	UserAgent string         `gorm:"type:varchar(500)" json:"-"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Contact) TableName() string {
	return "contacts"
}
