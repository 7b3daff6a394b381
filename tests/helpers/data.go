// data.go
//
// A household inventory and product data service with barcode-driven enrichment
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of pantrio.
// pantrio is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// pantrio is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with pantrio.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package helpers

import (
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/pantrio/pantrio/internal/models"
)

// CreateTestUser creates a user row the way token resolution would,
// deriving the username from the email local part.
func CreateTestUser(t *testing.T, db *gorm.DB, externalID, email, role string) *models.User {
	user := models.User{
		ExternalID: externalID,
		Email:      email,
		Username:   strings.SplitN(email, "@", 2)[0],
		Role:       role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	return &user
}

// CreateTestHousehold creates a household owned by the given user.
func CreateTestHousehold(t *testing.T, db *gorm.DB, name, ownerID string) *models.Household {
	household := models.Household{Name: name}
	if err := db.Create(&household).Error; err != nil {
		t.Fatalf("Failed to create household %s: %v", name, err)
	}
	AddTestMember(t, db, household.ID, ownerID, models.MemberRoleOwner)
	return &household
}

// AddTestMember links a user to a household with the given role.
func AddTestMember(t *testing.T, db *gorm.DB, householdID, userID, role string) {
	member := models.HouseholdMember{
		HouseholdID: householdID,
		UserID:      userID,
		Role:        role,
	}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("Failed to add member %s to household %s: %v", userID, householdID, err)
	}
}

// CreateTestLocation creates a storage location inside a household.
func CreateTestLocation(t *testing.T, db *gorm.DB, householdID, name string, description *string) *models.Location {
	location := models.Location{
		HouseholdID: householdID,
		Name:        name,
		Description: description,
	}
	if err := db.Create(&location).Error; err != nil {
		t.Fatalf("Failed to create location %s: %v", name, err)
	}
	return &location
}

// CreateTestProduct creates a manually entered catalog product.
// Pass a nil upc for products without a barcode.
func CreateTestProduct(t *testing.T, db *gorm.DB, upc *string, name string) *models.Product {
	product := models.Product{
		UPC:        upc,
		Name:       name,
		DataSource: models.DataSourceManual,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("Failed to create product %s: %v", name, err)
	}
	return &product
}

// CreateTestRetryProduct creates a placeholder product waiting on the
// external lookup, as a failed UPC scan would leave behind.
func CreateTestRetryProduct(t *testing.T, db *gorm.DB, upc string, attempts int) *models.Product {
	product := models.Product{
		UPC:              &upc,
		Name:             "Unknown Product",
		DataSource:       models.DataSourceManual,
		RequiresAPIRetry: true,
		RetryAttempts:    attempts,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("Failed to create retry product %s: %v", upc, err)
	}
	return &product
}
