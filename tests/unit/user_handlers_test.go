// user_handlers_test.go
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

package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/pantrio/pantrio/internal/models"
	"github.com/pantrio/pantrio/tests/helpers"
)

// TestGetMeCreatesUserOnFirstSight verifies that an unseen principal
// gets an internal record derived from its token claims.
func TestGetMeCreatesUserOnFirstSight(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(t, db, unusedLookup())
	token := helpers.MintJWT(t, testSecret, "auth0|jane", "jane.doe@example.com", "Jane Doe")

	req := httptest.NewRequest("GET", "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if user.ID == "" {
		t.Error("Expected a generated user id")
	}
	if user.Username != "jane.doe" {
		t.Errorf("Expected username derived from the email local part, got %q", user.Username)
	}
	if user.Email != "jane.doe@example.com" || user.DisplayName != "Jane Doe" {
		t.Errorf("Unexpected user fields: %+v", user)
	}
	if user.Role != models.RoleUser {
		t.Errorf("Expected default USER role, got %q", user.Role)
	}

	// The same principal resolves to the same record
	req = httptest.NewRequest("GET", "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	var again models.User
	if err := json.NewDecoder(resp.Body).Decode(&again); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if again.ID != user.ID {
		t.Errorf("Expected the same user on repeat resolution, got %s and %s", user.ID, again.ID)
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 user row, got %d", count)
	}
}

// TestUpdateMe verifies profile updates and that the username stays
// fixed.
func TestUpdateMe(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(t, db, unusedLookup())
	token := helpers.MintJWT(t, testSecret, "auth0|jane", "jane.doe@example.com", "Jane Doe")

	body, _ := json.Marshal(map[string]string{
		"displayName": "Janey",
		"email":       "janey@example.com",
	})
	req := httptest.NewRequest("PUT", "/api/users/me", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if user.DisplayName != "Janey" || user.Email != "janey@example.com" {
		t.Errorf("Expected updated profile, got %+v", user)
	}
	if user.Username != "jane.doe" {
		t.Errorf("Expected username to stay %q, got %q", "jane.doe", user.Username)
	}

	// A malformed email is rejected
	body, _ = json.Marshal(map[string]string{"email": "no-at-sign"})
	req = httptest.NewRequest("PUT", "/api/users/me", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Expected status 400 for a malformed email, got %d", resp.StatusCode)
	}
}

// TestMeRequiresToken verifies both /users/me verbs sit behind auth.
func TestMeRequiresToken(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(t, db, unusedLookup())

	for _, method := range []string{"GET", "PUT"} {
		req := httptest.NewRequest(method, "/api/users/me", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to execute request: %v", err)
		}
		if resp.StatusCode != 401 {
			t.Errorf("Expected status 401 for %s without a token, got %d", method, resp.StatusCode)
		}
	}
}
