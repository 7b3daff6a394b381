// products.go
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

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pantrio/pantrio/internal/services"
	"github.com/pantrio/pantrio/internal/utils"
)

// productSortColumns whitelists sortable columns for catalog listings.
var productSortColumns = []string{"name", "brand", "category", "created_at", "updated_at"}

// ProductHandler handles the global product catalog and the raw lookup
// passthrough.
type ProductHandler struct {
	Users    *services.UserService
	Products *services.ProductService
}

// Create handles POST /api/products
// @Summary Create a product manually
// @Description Add a catalog entry from caller-supplied fields; the UPC, when given, must be unused
// @Tags Products
// @Accept json
// @Produce json
// @Param body body services.CreateProductInput true "Product fields"
// @Success 201 {object} models.Product
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	if _, err := currentUser(c, h.Users); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	var input services.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	product, err := h.Products.CreateManual(c.UserContext(), input)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, product, fiber.StatusCreated)
}

// CreateFromUPC handles POST /api/products/upc/:upc
// @Summary Create a product from a barcode
// @Description Get-or-create by UPC: returns the existing entry, or resolves the barcode against the external database and persists the result. A barcode the external database does not know yields a retryable placeholder entry.
// @Tags Products
// @Produce json
// @Param upc path string true "UPC barcode"
// @Success 200 {object} models.Product "Product was already cataloged"
// @Success 201 {object} models.Product "Product was created"
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /products/upc/{upc} [post]
func (h *ProductHandler) CreateFromUPC(c *fiber.Ctx) error {
	if _, err := currentUser(c, h.Users); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	product, created, err := h.Products.CreateFromUPC(c.UserContext(), c.Params("upc"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return utils.SuccessResponse(c, product, status)
}

// List handles GET /api/products
// @Summary List the product catalog
// @Tags Products
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size (max 100)"
// @Param sort query string false "Sort column: name, brand, category, created_at, updated_at"
// @Param order query string false "asc or desc"
// @Success 200 {object} utils.PaginatedResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	if _, err := currentUser(c, h.Users); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	params, page, limit := parseListParams(c, productSortColumns)
	products, total, err := h.Products.List(c.UserContext(), params)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.PaginatedResponse(c, products, total, page, limit)
}

// Search handles GET /api/products/search
// @Summary Search the product catalog
// @Description Search by name fragment, or filter by exact category or brand (first non-empty of name, category, brand wins)
// @Tags Products
// @Produce json
// @Param name query string false "Name fragment (case-insensitive)"
// @Param category query string false "Category (case-insensitive)"
// @Param brand query string false "Brand (case-insensitive)"
// @Success 200 {array} models.Product
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /products/search [get]
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	if _, err := currentUser(c, h.Users); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	ctx := c.UserContext()
	switch {
	case c.Query("name") != "":
		products, err := h.Products.Search(ctx, c.Query("name"))
		if err != nil {
			return utils.AppErrorResponse(c, err)
		}
		return utils.SuccessResponse(c, products, fiber.StatusOK)
	case c.Query("category") != "":
		products, err := h.Products.ListByCategory(ctx, c.Query("category"))
		if err != nil {
			return utils.AppErrorResponse(c, err)
		}
		return utils.SuccessResponse(c, products, fiber.StatusOK)
	case c.Query("brand") != "":
		products, err := h.Products.ListByBrand(ctx, c.Query("brand"))
		if err != nil {
			return utils.AppErrorResponse(c, err)
		}
		return utils.SuccessResponse(c, products, fiber.StatusOK)
	default:
		return utils.ErrorResponse(c, "One of name, category or brand is required",
			fiber.StatusBadRequest, "validation")
	}
}

// GetByUPC handles GET /api/products/upc/:upc
// @Summary Get a cataloged product by barcode
// @Tags Products
// @Produce json
// @Param upc path string true "UPC barcode"
// @Success 200 {object} models.Product
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/upc/{upc} [get]
func (h *ProductHandler) GetByUPC(c *fiber.Ctx) error {
	if _, err := currentUser(c, h.Users); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	product, err := h.Products.GetByUPC(c.UserContext(), c.Params("upc"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, product, fiber.StatusOK)
}

// Get handles GET /api/products/:productId
// @Summary Get a product
// @Tags Products
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{productId} [get]
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	if _, err := currentUser(c, h.Users); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	product, err := h.Products.Get(c.UserContext(), c.Params("productId"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, product, fiber.StatusOK)
}

// Update handles PUT /api/products/:productId
// @Summary Update a product
// @Description Fixed-shape update; omitted fields stay unchanged; ADMIN only
// @Tags Products
// @Accept json
// @Produce json
// @Param productId path string true "Product ID"
// @Param body body services.UpdateProductInput true "Fields to update"
// @Success 200 {object} models.Product
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{productId} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	user, err := currentUser(c, h.Users)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	var input services.UpdateProductInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	product, err := h.Products.Update(c.UserContext(), user, c.Params("productId"), input)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, product, fiber.StatusOK)
}

// Patch handles PATCH /api/products/:productId
// @Summary Patch a product
// @Description Sparse key-value update; recognized keys are name, brand, category, default_expiration_days, requires_api_retry; unknown keys are ignored; ADMIN only
// @Tags Products
// @Accept json
// @Produce json
// @Param productId path string true "Product ID"
// @Param body body object true "Fields to patch"
// @Success 200 {object} models.Product
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{productId} [patch]
func (h *ProductHandler) Patch(c *fiber.Ctx) error {
	user, err := currentUser(c, h.Users)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	var fields map[string]any
	if err := c.BodyParser(&fields); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	product, err := h.Products.Patch(c.UserContext(), user, c.Params("productId"), fields)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, product, fiber.StatusOK)
}

// Delete handles DELETE /api/products/:productId
// @Summary Delete a product
// @Description Remove a catalog entry; ADMIN only
// @Tags Products
// @Produce json
// @Param productId path string true "Product ID"
// @Success 204
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{productId} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	user, err := currentUser(c, h.Users)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	if err := h.Products.Delete(c.UserContext(), user, c.Params("productId")); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Lookup handles GET /api/lookup/:upc
// @Summary Look up a barcode without persisting
// @Description Resolve a UPC against the external product database and return the normalized result; a barcode the database does not know yields the not-found placeholder, not an error
// @Tags Lookup
// @Produce json
// @Param upc path string true "UPC barcode"
// @Success 200 {object} foodfacts.Product
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /lookup/{upc} [get]
func (h *ProductHandler) Lookup(c *fiber.Ctx) error {
	if _, err := currentUser(c, h.Users); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	result, err := h.Products.Lookup(c.UserContext(), c.Params("upc"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, result, fiber.StatusOK)
}

// LookupDetailed handles GET /api/lookup/:upc/detailed
// @Summary Look up a barcode with nutrition fields
// @Description Same as the plain lookup but requests nutrition grade, ingredients and nutriments
// @Tags Lookup
// @Produce json
// @Param upc path string true "UPC barcode"
// @Success 200 {object} foodfacts.Product
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /lookup/{upc}/detailed [get]
func (h *ProductHandler) LookupDetailed(c *fiber.Ctx) error {
	if _, err := currentUser(c, h.Users); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	result, err := h.Products.LookupDetailed(c.UserContext(), c.Params("upc"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, result, fiber.StatusOK)
}
