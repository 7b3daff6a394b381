package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pantrio/pantrio/internal/cache"
	"github.com/pantrio/pantrio/internal/foodfacts"
	"github.com/pantrio/pantrio/internal/models"
	"github.com/pantrio/pantrio/internal/repository"
	"github.com/pantrio/pantrio/internal/types"
)

// ProductLookup resolves barcodes against the external product database.
type ProductLookup interface {
	Fetch(ctx context.Context, upc string) (*foodfacts.Product, error)
	FetchDetailed(ctx context.Context, upc string) (*foodfacts.Product, error)
}

// patchableFields is the whitelist for sparse product updates. Keys
// outside it are ignored.
var patchableFields = map[string]struct{}{
	"name":                    {},
	"brand":                   {},
	"category":                {},
	"default_expiration_days": {},
	"requires_api_retry":      {},
}

// ProductService manages the global product catalog. Reads are open to
// any authenticated user; update, patch and delete require the global
// ADMIN role. UPC lookups enrich creation on a best-effort basis and
// never make it fail.
type ProductService struct {
	products repository.ProductRepository
	guard    *AccessGuard
	lookup   ProductLookup
	cache    *cache.ProductCache
	log      *zap.Logger
}

func NewProductService(
	products repository.ProductRepository,
	guard *AccessGuard,
	lookup ProductLookup,
	productCache *cache.ProductCache,
	log *zap.Logger,
) *ProductService {
	return &ProductService{
		products: products,
		guard:    guard,
		lookup:   lookup,
		cache:    productCache,
		log:      log,
	}
}

// CreateProductInput carries the fields for a manually created product.
// The expiration window accepts both number and string encodings.
type CreateProductInput struct {
	UPC                   *string          `json:"upc"`
	Name                  string           `json:"name"`
	Brand                 *string          `json:"brand"`
	Category              *string          `json:"category"`
	DefaultExpirationDays types.FlexUint64 `json:"defaultExpirationDays"`
}

// CreateManual adds a catalog entry from caller-supplied fields, without
// consulting the external database.
func (s *ProductService) CreateManual(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, types.NewValidationError("product name must not be blank")
	}

	var upc *string
	if input.UPC != nil {
		trimmed := strings.TrimSpace(*input.UPC)
		if trimmed != "" {
			existing, err := s.products.GetByUPC(ctx, trimmed)
			if err != nil {
				return nil, types.NewUnexpectedError("checking product UPC failed", err)
			}
			if existing != nil {
				return nil, types.NewConflictError(fmt.Sprintf("a product with UPC %s already exists", trimmed))
			}
			upc = &trimmed
		}
	}

	product := &models.Product{
		UPC:                   upc,
		Name:                  name,
		Brand:                 normalizeOptional(input.Brand),
		Category:              normalizeOptional(input.Category),
		DefaultExpirationDays: input.DefaultExpirationDays.Uint64(),
		DataSource:            models.DataSourceManual,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, types.NewDataIntegrityError("creating product failed", err)
	}

	if err := s.cache.Put(ctx, product); err != nil {
		s.log.Warn("caching created product failed", zap.Error(err))
	}
	return product, nil
}

// CreateFromUPC resolves a barcode into a catalog entry, returning the
// existing entry when the UPC is already cataloged. A lookup that the
// upstream answers with "not found" persists the retryable placeholder;
// a lookup that fails outright degrades to a minimal manual entry flagged
// for retry. Neither case fails the request. The bool reports whether a
// new row was created.
func (s *ProductService) CreateFromUPC(ctx context.Context, upc string) (*models.Product, bool, error) {
	upc = strings.TrimSpace(upc)
	if upc == "" {
		return nil, false, types.NewValidationError("UPC must not be blank")
	}

	if cached, err := s.cache.GetByUPC(ctx, upc); err != nil {
		s.log.Warn("cache read failed, falling back to database", zap.Error(err))
	} else if cached != nil {
		return cached, false, nil
	}

	existing, err := s.products.GetByUPC(ctx, upc)
	if err != nil {
		return nil, false, types.NewUnexpectedError("checking product UPC failed", err)
	}
	if existing != nil {
		if err := s.cache.Put(ctx, existing); err != nil {
			s.log.Warn("caching product failed", zap.Error(err))
		}
		return existing, false, nil
	}

	var product *models.Product
	result, err := s.lookup.FetchDetailed(ctx, upc)
	switch {
	case err == nil:
		product = productFromLookup(result)
	case types.IsErrorType(err, types.ErrorTypeValidation):
		return nil, false, err
	default:
		// Lookup is best-effort enrichment. Transport or parse failures
		// degrade to a bare manual entry that the retry queue can still
		// resolve later.
		s.log.Warn("UPC lookup failed, creating manual entry",
			zap.String("upc", upc), zap.Error(err))
		product = &models.Product{
			UPC:              &upc,
			Name:             foodfacts.UnknownProductName,
			DataSource:       models.DataSourceManual,
			RequiresAPIRetry: true,
		}
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, false, types.NewDataIntegrityError("creating product failed", err)
	}

	if err := s.cache.Put(ctx, product); err != nil {
		s.log.Warn("caching created product failed", zap.Error(err))
	}
	return product, true, nil
}

// Get returns a product by id.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, types.NewUnexpectedError("looking up product failed", err)
	}
	if product == nil {
		return nil, types.NewNotFoundError("product not found")
	}
	return product, nil
}

// GetByUPC returns a cataloged product by barcode, consulting the cache
// first.
func (s *ProductService) GetByUPC(ctx context.Context, upc string) (*models.Product, error) {
	upc = strings.TrimSpace(upc)
	if upc == "" {
		return nil, types.NewValidationError("UPC must not be blank")
	}

	if cached, err := s.cache.GetByUPC(ctx, upc); err != nil {
		s.log.Warn("cache read failed, falling back to database", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	product, err := s.products.GetByUPC(ctx, upc)
	if err != nil {
		return nil, types.NewUnexpectedError("looking up product failed", err)
	}
	if product == nil {
		return nil, types.NewNotFoundError("product not found")
	}

	if err := s.cache.Put(ctx, product); err != nil {
		s.log.Warn("caching product failed", zap.Error(err))
	}
	return product, nil
}

// List returns a catalog page and the total count.
func (s *ProductService) List(ctx context.Context, params repository.ListParams) ([]models.Product, int64, error) {
	products, total, err := s.products.List(ctx, params)
	if err != nil {
		return nil, 0, types.NewUnexpectedError("listing products failed", err)
	}
	return products, total, nil
}

// Search finds products by case-insensitive name substring.
func (s *ProductService) Search(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, types.NewValidationError("search query must not be blank")
	}

	products, err := s.products.SearchByName(ctx, query)
	if err != nil {
		return nil, types.NewUnexpectedError("searching products failed", err)
	}
	return products, nil
}

// ListByCategory returns products whose category matches, ignoring case.
func (s *ProductService) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, types.NewValidationError("category must not be blank")
	}

	products, err := s.products.ListByCategory(ctx, category)
	if err != nil {
		return nil, types.NewUnexpectedError("listing products by category failed", err)
	}
	return products, nil
}

// ListByBrand returns products whose brand matches, ignoring case.
func (s *ProductService) ListByBrand(ctx context.Context, brand string) ([]models.Product, error) {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return nil, types.NewValidationError("brand must not be blank")
	}

	products, err := s.products.ListByBrand(ctx, brand)
	if err != nil {
		return nil, types.NewUnexpectedError("listing products by brand failed", err)
	}
	return products, nil
}

// UpdateProductInput carries a fixed-shape product update. Nil means
// leave unchanged; the UPC is immutable.
type UpdateProductInput struct {
	Name                  *string `json:"name"`
	Brand                 *string `json:"brand"`
	Category              *string `json:"category"`
	DefaultExpirationDays *uint64 `json:"defaultExpirationDays"`
	RequiresAPIRetry      *bool   `json:"requiresApiRetry"`
}

// Update applies a fixed-shape update to a catalog entry. ADMIN only.
func (s *ProductService) Update(ctx context.Context, user *models.User, id string, input UpdateProductInput) (*models.Product, error) {
	if err := s.guard.RequireAdmin(user); err != nil {
		return nil, err
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, types.NewValidationError("product name must not be blank")
		}
		product.Name = name
	}
	if input.Brand != nil {
		product.Brand = normalizeOptional(input.Brand)
	}
	if input.Category != nil {
		product.Category = normalizeOptional(input.Category)
	}
	if input.DefaultExpirationDays != nil {
		product.DefaultExpirationDays = *input.DefaultExpirationDays
	}
	if input.RequiresAPIRetry != nil {
		product.RequiresAPIRetry = *input.RequiresAPIRetry
	}

	return s.saveAndRecache(ctx, product)
}

// Patch applies a sparse key-value update against the whitelist. Keys
// outside the whitelist are ignored; an empty map is rejected because
// there is nothing to do. ADMIN only.
func (s *ProductService) Patch(ctx context.Context, user *models.User, id string, fields map[string]any) (*models.Product, error) {
	if err := s.guard.RequireAdmin(user); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, types.NewValidationError("patch must contain at least one field")
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	for key, value := range fields {
		if _, ok := patchableFields[key]; !ok {
			continue
		}
		if err := applyPatchField(product, key, value); err != nil {
			return nil, err
		}
	}

	return s.saveAndRecache(ctx, product)
}

// Delete removes a catalog entry. ADMIN only.
func (s *ProductService) Delete(ctx context.Context, user *models.User, id string) error {
	if err := s.guard.RequireAdmin(user); err != nil {
		return err
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.products.Delete(ctx, product); err != nil {
		return types.NewDataIntegrityError("deleting product failed", err)
	}

	if product.UPC != nil {
		if err := s.cache.Invalidate(ctx, *product.UPC); err != nil {
			s.log.Warn("invalidating cached product failed", zap.Error(err))
		}
	}
	s.log.Info("deleted product", zap.String("productId", id))
	return nil
}

// Lookup resolves a barcode without persisting anything.
func (s *ProductService) Lookup(ctx context.Context, upc string) (*foodfacts.Product, error) {
	return s.lookup.Fetch(ctx, upc)
}

// LookupDetailed resolves a barcode with the richer field set, without
// persisting anything.
func (s *ProductService) LookupDetailed(ctx context.Context, upc string) (*foodfacts.Product, error) {
	return s.lookup.FetchDetailed(ctx, upc)
}

// ProcessRetryQueue re-resolves placeholder products that are flagged for
// retry and still under the attempt cap. It returns how many candidates
// were examined and how many resolved to real upstream data. Lookup
// failures leave the candidate untouched for the next run.
func (s *ProductService) ProcessRetryQueue(ctx context.Context, maxAttempts, batchSize int) (examined, resolved int, err error) {
	candidates, err := s.products.ListRetryCandidates(ctx, maxAttempts, batchSize)
	if err != nil {
		return 0, 0, types.NewUnexpectedError("listing retry candidates failed", err)
	}

	for i := range candidates {
		product := &candidates[i]
		if product.UPC == nil {
			continue
		}
		examined++

		result, err := s.lookup.FetchDetailed(ctx, *product.UPC)
		if err != nil {
			s.log.Warn("retry lookup failed",
				zap.String("upc", *product.UPC), zap.Error(err))
			continue
		}

		if result.Found() {
			resolveFromLookup(product, result)
			resolved++
		} else {
			product.RetryAttempts++
			now := time.Now().UTC()
			product.LastRetryAttempt = &now
		}

		if err := s.products.Save(ctx, product); err != nil {
			return examined, resolved, types.NewDataIntegrityError("saving retried product failed", err)
		}
		if err := s.cache.Put(ctx, product); err != nil {
			s.log.Warn("caching retried product failed", zap.Error(err))
		}
	}

	return examined, resolved, nil
}

func (s *ProductService) saveAndRecache(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := s.products.Save(ctx, product); err != nil {
		return nil, types.NewDataIntegrityError("saving product failed", err)
	}
	if err := s.cache.Put(ctx, product); err != nil {
		s.log.Warn("caching product failed", zap.Error(err))
	}
	return product, nil
}

// applyPatchField coerces one whitelisted patch value onto the product.
// JSON numbers arrive as float64, so the day count is checked for sign
// and integrality before converting.
func applyPatchField(product *models.Product, key string, value any) error {
	switch key {
	case "name":
		name, ok := value.(string)
		if !ok || strings.TrimSpace(name) == "" {
			return types.NewValidationError("name must be a non-blank string")
		}
		product.Name = strings.TrimSpace(name)
	case "brand":
		brand, err := optionalString(value, "brand")
		if err != nil {
			return err
		}
		product.Brand = brand
	case "category":
		category, err := optionalString(value, "category")
		if err != nil {
			return err
		}
		product.Category = category
	case "default_expiration_days":
		days, ok := value.(float64)
		if !ok || days < 0 || days != math.Trunc(days) {
			return types.NewValidationError("default_expiration_days must be a non-negative integer")
		}
		product.DefaultExpirationDays = uint64(days)
	case "requires_api_retry":
		flag, ok := value.(bool)
		if !ok {
			return types.NewValidationError("requires_api_retry must be a boolean")
		}
		product.RequiresAPIRetry = flag
	}
	return nil
}

// optionalString accepts a string or an explicit null, which clears the
// field.
func optionalString(value any, field string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, types.NewValidationError(field + " must be a string or null")
	}
	return normalizeOptional(&s), nil
}

// normalizeOptional trims an optional string and collapses blank to nil.
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// productFromLookup converts a normalized lookup result into a catalog
// row, carrying the retry state through unchanged.
func productFromLookup(result *foodfacts.Product) *models.Product {
	upc := result.UPC
	product := &models.Product{
		UPC:              &upc,
		Name:             result.Name,
		Brand:            result.Brand,
		Category:         result.Category,
		DataSource:       result.DataSource,
		RequiresAPIRetry: result.RequiresAPIRetry,
		RetryAttempts:    result.RetryAttempts,
		LastRetryAttempt: result.LastRetryAttempt,
		NutritionGrade:   result.NutritionGrade,
		Ingredients:      result.Ingredients,
	}
	if len(result.Nutriments) > 0 {
		product.Nutriments = models.JSONFrom(result.Nutriments)
	}
	return product
}

// resolveFromLookup overwrites a placeholder row with real upstream data
// and clears its retry flags.
func resolveFromLookup(product *models.Product, result *foodfacts.Product) {
	product.Name = result.Name
	product.Brand = result.Brand
	product.Category = result.Category
	product.DataSource = foodfacts.DataSourceExternalAPI
	product.RequiresAPIRetry = false
	product.NutritionGrade = result.NutritionGrade
	product.Ingredients = result.Ingredients
	if len(result.Nutriments) > 0 {
		product.Nutriments = models.JSONFrom(result.Nutriments)
	}
	now := time.Now().UTC()
	product.LastRetryAttempt = &now
}
