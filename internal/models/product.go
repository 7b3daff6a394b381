package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product data sources.
const (
	DataSourceManual      = "MANUAL"
	DataSourceExternalAPI = "EXTERNAL_API"
)

// Product is a catalog entry shared across households, created manually
// or from an external UPC lookup. RequiresAPIRetry/RetryAttempts record
// that the upstream database had no data yet; the retry worker consumes
// them. NutritionGrade, Ingredients and Nutriments are only filled by the
// detailed lookup variant.
type Product struct {
	ID                    string     `gorm:"type:char(36);primaryKey" json:"id"`
	UPC                   *string    `gorm:"size:32;uniqueIndex" json:"upc"`
	Name                  string     `gorm:"size:255;not null" json:"name"`
	Brand                 *string    `gorm:"size:255" json:"brand"`
	Category              *string    `gorm:"size:255" json:"category"`
	DefaultExpirationDays uint64     `gorm:"not null;default:0" json:"defaultExpirationDays"`
	DataSource            string     `gorm:"size:32;not null;default:MANUAL" json:"dataSource"`
	RequiresAPIRetry      bool       `gorm:"not null;default:false" json:"requiresApiRetry"`
	RetryAttempts         int        `gorm:"not null;default:0" json:"retryAttempts"`
	LastRetryAttempt      *time.Time `json:"lastRetryAttempt"`
	NutritionGrade        *string    `gorm:"size:8" json:"nutritionGrade,omitempty"`
	Ingredients           *string    `gorm:"type:text" json:"ingredients,omitempty"`
	Nutriments            JSON       `json:"nutriments,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// BeforeCreate assigns a UUID primary key when none was provided
func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for Product
func (Product) TableName() string {
	return "products"
}
