package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Location is a storage place inside a household. Name is unique per
// household (case-sensitive); the composite index backs the service-level
// conflict check against races.
type Location struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	HouseholdID string    `gorm:"type:char(36);not null;index:idx_location_household_name,unique" json:"householdId"`
	Name        string    `gorm:"size:255;not null;index:idx_location_household_name,unique" json:"name"`
	Description *string   `gorm:"size:1000" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID primary key when none was provided
func (l *Location) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for Location
func (Location) TableName() string {
	return "locations"
}
