package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Household member roles. OWNER gates household administration
// (rename, delete, member management); MEMBER suffices for everything
// else scoped to the household.
const (
	MemberRoleMember = "MEMBER"
	MemberRoleOwner  = "OWNER"
)

// Household groups users sharing inventory and scopes locations.
type Household struct {
	ID        string            `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string            `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Members   []HouseholdMember `gorm:"foreignKey:HouseholdID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Locations []Location        `gorm:"foreignKey:HouseholdID;constraint:OnDelete:CASCADE" json:"locations,omitempty"`
}

// BeforeCreate assigns a UUID primary key when none was provided
func (h *Household) BeforeCreate(_ *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for Household
func (Household) TableName() string {
	return "households"
}

// HouseholdMember links a user to a household with a role. The row is
// the sole source of truth for whether the user may see the household.
type HouseholdMember struct {
	MemberID    uint64    `gorm:"primaryKey;autoIncrement" json:"memberId"`
	HouseholdID string    `gorm:"type:char(36);not null;index:idx_household_user,unique" json:"householdId"`
	UserID      string    `gorm:"type:char(36);not null;index:idx_household_user,unique" json:"userId"`
	Role        string    `gorm:"size:16;not null;default:MEMBER" json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsOwner reports whether the membership carries the owner role
func (m *HouseholdMember) IsOwner() bool {
	return m.Role == MemberRoleOwner
}

// TableName overrides the table name for HouseholdMember
func (HouseholdMember) TableName() string {
	return "household_members"
}
