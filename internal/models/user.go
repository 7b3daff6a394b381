package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Global user roles. Role gates product catalog writes; household
// visibility is decided by membership rows, not by this field.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is an internal account created lazily from verified token claims.
// ExternalID is the token subject and the stable lookup key; Username is
// derived from the email local-part at creation time and never changes.
type User struct {
	ID          string            `gorm:"type:char(36);primaryKey" json:"id"`
	ExternalID  string            `gorm:"size:255;not null;uniqueIndex" json:"-"`
	Username    string            `gorm:"size:255;not null" json:"username"`
	Email       string            `gorm:"size:255;not null;index" json:"email"`
	DisplayName string            `gorm:"size:255" json:"displayName"`
	Role        string            `gorm:"size:16;not null;default:USER" json:"role"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Memberships []HouseholdMember `gorm:"foreignKey:UserID" json:"memberships"`
}

// BeforeCreate assigns a UUID primary key when none was provided
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsAdmin reports whether the user holds the global admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
