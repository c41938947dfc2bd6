package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that can authenticate against the API.
type User struct {
	ID                      string         `gorm:"type:varchar(36);primarykey" json:"id"`
	Username                string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email                   string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash            string         `gorm:"not null" json:"-"`
	FirstName               string         `gorm:"type:varchar(100)" json:"first_name"`
	LastName                string         `gorm:"type:varchar(100)" json:"last_name"`
	Phone                   string         `gorm:"type:varchar(32)" json:"phone"`
	Avatar                  string         `gorm:"type:varchar(500)" json:"avatar"`
	Role                    string         `gorm:"type:varchar(20);default:'user';index" json:"role"` // admin/moderator/user
	Permissions             StringArray    `gorm:"type:json" json:"permissions"`
	IsActive                bool           `gorm:"default:true;index" json:"is_active"`
	IsEmailVerified         bool           `gorm:"default:false" json:"is_email_verified"`
	EmailVerificationToken  string         `gorm:"type:varchar(128);index" json:"-"`
	EmailVerificationExpire *time.Time     `json:"-"`
	PasswordResetToken      string         `gorm:"type:varchar(128);index" json:"-"`
	PasswordResetExpire     *time.Time     `json:"-"`
	RefreshToken            string         `gorm:"type:varchar(256);index" json:"-"`
	RefreshTokenExpire      *time.Time     `json:"-"`
	LoginAttempts           int            `gorm:"default:0" json:"-"` // consecutive failures
	LockUntil               *time.Time     `json:"-"`
	LastLoginAt             *time.Time     `json:"last_login_at"`
	CreatedAt               time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt               time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt               gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsLocked reports whether the account is inside a lockout window.
func (u *User) IsLocked() bool {
	return u.LockUntil != nil && u.LockUntil.After(time.Now())
}

// FullName joins the name parts for display.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
