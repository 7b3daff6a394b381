package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pantrio/pantrio/internal/config"
	"github.com/pantrio/pantrio/internal/foodfacts"
	"github.com/pantrio/pantrio/internal/handlers"
	"github.com/pantrio/pantrio/internal/middleware"
	"github.com/pantrio/pantrio/internal/models"
	"github.com/pantrio/pantrio/internal/repository/gormrepo"
	"github.com/pantrio/pantrio/internal/services"
	"github.com/pantrio/pantrio/tests/helpers"
)

const testSecret = "unit-test-secret"

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// Auto-migrate models
	err = db.AutoMigrate(
		&models.User{},
		&models.Household{},
		&models.HouseholdMember{},
		&models.Location{},
		&models.Product{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// setupTestApp wires repositories, services and handlers over the given
// database the same way the server binary does, authenticating requests
// with bearer tokens.
func setupTestApp(t *testing.T, db *gorm.DB, lookup services.ProductLookup) *fiber.App {
	log := zap.NewNop()

	userRepo := gormrepo.NewUserRepository(db)
	householdRepo := gormrepo.NewHouseholdRepository(db)
	memberRepo := gormrepo.NewHouseholdMemberRepository(db)
	locationRepo := gormrepo.NewLocationRepository(db)
	productRepo := gormrepo.NewProductRepository(db)

	guard := services.NewAccessGuard(memberRepo)
	userService := services.NewUserService(userRepo, log)
	householdService := services.NewHouseholdService(householdRepo, memberRepo, userRepo, guard, log)
	locationService := services.NewLocationService(locationRepo, guard, log)
	productService := services.NewProductService(productRepo, guard, lookup, nil, log)

	userHandler := &handlers.UserHandler{Users: userService}
	householdHandler := &handlers.HouseholdHandler{Users: userService, Households: householdService}
	locationHandler := &handlers.LocationHandler{Users: userService, Locations: locationService}
	productHandler := &handlers.ProductHandler{Users: userService, Products: productService}

	cfg := &config.Config{AuthMode: config.AuthModeJWT, JWTSecret: testSecret}
	auth := middleware.AuthUser(cfg)

	app := fiber.New()
	api := app.Group("/api")

	api.Get("/users/me", auth, userHandler.GetMe)
	api.Put("/users/me", auth, userHandler.UpdateMe)

	households := api.Group("/households", auth)
	households.Post("/", householdHandler.Create)
	households.Get("/", householdHandler.List)
	households.Get("/:householdId", householdHandler.Get)
	households.Put("/:householdId", householdHandler.Update)
	households.Delete("/:householdId", householdHandler.Delete)
	households.Post("/:householdId/members", householdHandler.AddMembers)
	households.Delete("/:householdId/members/:userId", householdHandler.RemoveMember)

	households.Post("/:householdId/locations", locationHandler.Create)
	households.Get("/:householdId/locations", locationHandler.List)
	households.Get("/:householdId/locations/search", locationHandler.Search)
	households.Get("/:householdId/locations/:locationId", locationHandler.Get)
	households.Put("/:householdId/locations/:locationId", locationHandler.Update)
	households.Delete("/:householdId/locations/:locationId", locationHandler.Delete)

	products := api.Group("/products", auth)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Post("/upc/:upc", productHandler.CreateFromUPC)
	products.Get("/upc/:upc", productHandler.GetByUPC)
	products.Get("/:productId", productHandler.Get)
	products.Put("/:productId", productHandler.Update)
	products.Patch("/:productId", productHandler.Patch)
	products.Delete("/:productId", productHandler.Delete)

	lookupGroup := api.Group("/lookup", auth)
	lookupGroup.Get("/:upc", productHandler.Lookup)
	lookupGroup.Get("/:upc/detailed", productHandler.LookupDetailed)

	return app
}

// unusedLookup returns a lookup client whose upstream always fails, for
// tests that never exercise product resolution.
func unusedLookup() services.ProductLookup {
	return foodfacts.New(foodfacts.Config{BaseURL: "http://food.invalid"}, &stubDoer{status: 500})
}

// TestHouseholdLifecycle walks create, list, get, rename and delete
// through the HTTP surface.
func TestHouseholdLifecycle(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(t, db, unusedLookup())
	token := helpers.MintJWT(t, testSecret, "auth0|alice", "alice@example.com", "Alice A")

	// Create
	body, _ := json.Marshal(map[string]string{"name": "Casa Verde"})
	req := httptest.NewRequest("POST", "/api/households", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}
	var created models.Household
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if created.ID == "" || created.Name != "Casa Verde" {
		t.Errorf("Unexpected household in response: %+v", created)
	}

	// List
	req = httptest.NewRequest("GET", "/api/households", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var listed []models.Household
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Errorf("Expected the created household in the listing, got %+v", listed)
	}

	// Get returns the roster with the caller as OWNER
	req = httptest.NewRequest("GET", "/api/households/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var fetched models.Household
	if err := json.NewDecoder(resp.Body).Decode(&fetched); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(fetched.Members) != 1 || fetched.Members[0].Role != models.MemberRoleOwner {
		t.Errorf("Expected a single OWNER member, got %+v", fetched.Members)
	}

	// Rename
	body, _ = json.Marshal(map[string]string{"name": "Casa Azul"})
	req = httptest.NewRequest("PUT", "/api/households/"+created.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var renamed models.Household
	if err := json.NewDecoder(resp.Body).Decode(&renamed); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if renamed.Name != "Casa Azul" {
		t.Errorf("Expected renamed household, got %q", renamed.Name)
	}

	// Delete
	req = httptest.NewRequest("DELETE", "/api/households/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 204 {
		t.Fatalf("Expected status 204, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/api/households", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	listed = nil
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("Expected no households after delete, got %+v", listed)
	}
}

// TestHouseholdRequiresAuth verifies the bearer token wall.
func TestHouseholdRequiresAuth(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(t, db, unusedLookup())

	req := httptest.NewRequest("GET", "/api/households", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Errorf("Expected status 401 without a token, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/api/households", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Errorf("Expected status 401 for a garbage token, got %d", resp.StatusCode)
	}
}

// TestHouseholdMembershipWall verifies that non-members get 403 whether
// the household exists or not.
func TestHouseholdMembershipWall(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(t, db, unusedLookup())
	alice := helpers.MintJWT(t, testSecret, "auth0|alice", "alice@example.com", "Alice A")
	mallory := helpers.MintJWT(t, testSecret, "auth0|mallory", "mallory@example.com", "Mallory M")

	body, _ := json.Marshal(map[string]string{"name": "Casa Verde"})
	req := httptest.NewRequest("POST", "/api/households", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+alice)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	var created models.Household
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	for _, target := range []string{
		"/api/households/" + created.ID,
		"/api/households/does-not-exist",
	} {
		req = httptest.NewRequest("GET", target, nil)
		req.Header.Set("Authorization", "Bearer "+mallory)
		resp, err = app.Test(req)
		if err != nil {
			t.Fatalf("Failed to execute request: %v", err)
		}
		if resp.StatusCode != 403 {
			t.Errorf("Expected status 403 for %s, got %d", target, resp.StatusCode)
		}
		var errBody map[string]interface{}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if errBody["type"] != "forbidden" {
			t.Errorf("Expected forbidden error type for %s, got %v", target, errBody["type"])
		}
	}
}

// TestMemberManagement adds a second member, checks their limited
// rights and removes them again.
func TestMemberManagement(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(t, db, unusedLookup())
	alice := helpers.MintJWT(t, testSecret, "auth0|alice", "alice@example.com", "Alice A")
	bob := helpers.MintJWT(t, testSecret, "auth0|bob", "bob@example.com", "Bob B")

	// Bob has to exist before he can be added to a roster
	req := httptest.NewRequest("GET", "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+bob)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	var bobUser models.User
	if err := json.NewDecoder(resp.Body).Decode(&bobUser); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	body, _ := json.Marshal(map[string]string{"name": "Shared Flat"})
	req = httptest.NewRequest("POST", "/api/households", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+alice)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	var household models.Household
	if err := json.NewDecoder(resp.Body).Decode(&household); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	// Add bob; the response is the updated roster
	body, _ = json.Marshal(map[string]interface{}{"userIds": []string{bobUser.ID}})
	req = httptest.NewRequest("POST", "/api/households/"+household.ID+"/members", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+alice)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var roster []models.HouseholdMember
	if err := json.NewDecoder(resp.Body).Decode(&roster); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(roster) != 2 {
		t.Errorf("Expected 2 members on the roster, got %d", len(roster))
	}

	// A plain member cannot rename the household
	body, _ = json.Marshal(map[string]string{"name": "Bob's Flat"})
	req = httptest.NewRequest("PUT", "/api/households/"+household.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bob)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("Expected status 403 for a member rename, got %d", resp.StatusCode)
	}
	var errBody map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if errBody["type"] != "insufficient_permission" {
		t.Errorf("Expected insufficient_permission error type, got %v", errBody["type"])
	}

	// But a member can see the household
	req = httptest.NewRequest("GET", "/api/households/"+household.ID, nil)
	req.Header.Set("Authorization", "Bearer "+bob)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200 for a member get, got %d", resp.StatusCode)
	}

	// Owner removes bob
	req = httptest.NewRequest("DELETE", "/api/households/"+household.ID+"/members/"+bobUser.ID, nil)
	req.Header.Set("Authorization", "Bearer "+alice)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 204 {
		t.Fatalf("Expected status 204, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/api/households/"+household.ID, nil)
	req.Header.Set("Authorization", "Bearer "+bob)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("Expected status 403 after removal, got %d", resp.StatusCode)
	}
}

// TestRemoveLastOwnerRejected verifies the household cannot be left
// ownerless.
func TestRemoveLastOwnerRejected(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(t, db, unusedLookup())
	alice := helpers.MintJWT(t, testSecret, "auth0|alice", "alice@example.com", "Alice A")

	req := httptest.NewRequest("GET", "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+alice)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	var aliceUser models.User
	if err := json.NewDecoder(resp.Body).Decode(&aliceUser); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	body, _ := json.Marshal(map[string]string{"name": "Solo"})
	req = httptest.NewRequest("POST", "/api/households", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+alice)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	var household models.Household
	if err := json.NewDecoder(resp.Body).Decode(&household); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	req = httptest.NewRequest("DELETE", "/api/households/"+household.ID+"/members/"+aliceUser.ID, nil)
	req.Header.Set("Authorization", "Bearer "+alice)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Expected status 400 removing the last owner, got %d", resp.StatusCode)
	}
}

// TestLocationRoutes walks the location lifecycle inside a household.
func TestLocationRoutes(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(t, db, unusedLookup())
	token := helpers.MintJWT(t, testSecret, "auth0|alice", "alice@example.com", "Alice A")

	body, _ := json.Marshal(map[string]string{"name": "Casa Verde"})
	req := httptest.NewRequest("POST", "/api/households", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	var household models.Household
	if err := json.NewDecoder(resp.Body).Decode(&household); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	base := "/api/households/" + household.ID + "/locations"

	// Create
	body, _ = json.Marshal(map[string]string{"name": "Kitchen Pantry", "description": "Left of the fridge"})
	req = httptest.NewRequest("POST", base, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}
	var pantry models.Location
	if err := json.NewDecoder(resp.Body).Decode(&pantry); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if pantry.Description == nil || *pantry.Description != "Left of the fridge" {
		t.Errorf("Expected description to round-trip, got %+v", pantry.Description)
	}

	// Duplicate name in the same household is a conflict
	body, _ = json.Marshal(map[string]string{"name": "Kitchen Pantry"})
	req = httptest.NewRequest("POST", base, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 409 {
		t.Errorf("Expected status 409 for a duplicate name, got %d", resp.StatusCode)
	}

	// List is paginated
	body, _ = json.Marshal(map[string]string{"name": "Garage Shelf"})
	req = httptest.NewRequest("POST", base, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if _, err := app.Test(req); err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	req = httptest.NewRequest("GET", base+"?page=1&limit=1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var page struct {
		Items []models.Location `json:"items"`
		Total int64             `json:"total"`
		Page  int               `json:"page"`
		Limit int               `json:"limit"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(page.Items) != 1 || page.Total != 2 || page.Limit != 1 {
		t.Errorf("Unexpected page shape: %+v", page)
	}

	// Search matches case-insensitively on a fragment
	req = httptest.NewRequest("GET", base+"/search?name=pantry", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var found []models.Location
	if err := json.NewDecoder(resp.Body).Decode(&found); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(found) != 1 || found[0].ID != pantry.ID {
		t.Errorf("Expected the pantry from search, got %+v", found)
	}

	// Update
	body, _ = json.Marshal(map[string]string{"name": "Main Pantry"})
	req = httptest.NewRequest("PUT", base+"/"+pantry.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	var updated models.Location
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if updated.Name != "Main Pantry" {
		t.Errorf("Expected renamed location, got %q", updated.Name)
	}

	// Delete, then the id is gone
	req = httptest.NewRequest("DELETE", base+"/"+pantry.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 204 {
		t.Fatalf("Expected status 204, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", base+"/"+pantry.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Expected status 404 after delete, got %d", resp.StatusCode)
	}
}

// TestVersionNegotiation verifies the X-Api-Version header is defaulted,
// alias-expanded and echoed back on the response.
func TestVersionNegotiation(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.VersionMiddleware())
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(middleware.VersionKey).(string))
	})

	for _, tc := range []struct {
		header   string
		expected string
	}{
		{"", middleware.CurrentAPIVersion},
		{"1", middleware.CurrentAPIVersion},
		{"1.0", middleware.CurrentAPIVersion},
		{"2.1.0", "2.1.0"},
	} {
		req := httptest.NewRequest("GET", "/ping", nil)
		if tc.header != "" {
			req.Header.Set("X-Api-Version", tc.header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("Failed to execute request: %v", err)
		}
		if got := resp.Header.Get("X-Api-Version"); got != tc.expected {
			t.Errorf("Expected echoed version %q for header %q, got %q", tc.expected, tc.header, got)
		}
		body := new(bytes.Buffer)
		if _, err := body.ReadFrom(resp.Body); err != nil {
			t.Fatalf("Failed to read body: %v", err)
		}
		if body.String() != tc.expected {
			t.Errorf("Expected context version %q for header %q, got %q", tc.expected, tc.header, body.String())
		}
	}
}
