package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pantrio/pantrio/internal/services"
	"github.com/pantrio/pantrio/internal/utils"
)

// locationSortColumns whitelists sortable columns for location listings.
var locationSortColumns = []string{"name", "created_at", "updated_at"}

// LocationHandler handles household-scoped location routes.
type LocationHandler struct {
	Users     *services.UserService
	Locations *services.LocationService
}

// Create handles POST /api/households/:householdId/locations
// @Summary Create a location
// @Description Create a storage location in a household; the name must be unique within the household
// @Tags Locations
// @Accept json
// @Produce json
// @Param householdId path string true "Household ID"
// @Param body body services.CreateLocationInput true "Location fields"
// @Success 201 {object} models.Location
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /households/{householdId}/locations [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c, h.Users)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	var input services.CreateLocationInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	location, err := h.Locations.Create(c.UserContext(), user, c.Params("householdId"), input)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, location, fiber.StatusCreated)
}

// List handles GET /api/households/:householdId/locations
// @Summary List a household's locations
// @Tags Locations
// @Produce json
// @Param householdId path string true "Household ID"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size (max 100)"
// @Param sort query string false "Sort column: name, created_at, updated_at"
// @Param order query string false "asc or desc"
// @Success 200 {object} utils.PaginatedResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /households/{householdId}/locations [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c, h.Users)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	params, page, limit := parseListParams(c, locationSortColumns)
	locations, total, err := h.Locations.List(c.UserContext(), user, c.Params("householdId"), params)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.PaginatedResponse(c, locations, total, page, limit)
}

// Search handles GET /api/households/:householdId/locations/search
// @Summary Search locations by name
// @Description Case-insensitive substring match on the location name
// @Tags Locations
// @Produce json
// @Param householdId path string true "Household ID"
// @Param name query string true "Name fragment"
// @Success 200 {array} models.Location
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /households/{householdId}/locations/search [get]
func (h *LocationHandler) Search(c *fiber.Ctx) error {
	user, err := currentUser(c, h.Users)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	locations, err := h.Locations.Search(c.UserContext(), user, c.Params("householdId"), c.Query("name"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, locations, fiber.StatusOK)
}

// Get handles GET /api/households/:householdId/locations/:locationId
// @Summary Get a location
// @Tags Locations
// @Produce json
// @Param householdId path string true "Household ID"
// @Param locationId path string true "Location ID"
// @Success 200 {object} models.Location
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /households/{householdId}/locations/{locationId} [get]
func (h *LocationHandler) Get(c *fiber.Ctx) error {
	user, err := currentUser(c, h.Users)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	location, err := h.Locations.Get(c.UserContext(), user, c.Params("householdId"), c.Params("locationId"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, location, fiber.StatusOK)
}

// Update handles PUT /api/households/:householdId/locations/:locationId
// @Summary Update a location
// @Description Rename or re-describe a location; renaming to the current name is allowed
// @Tags Locations
// @Accept json
// @Produce json
// @Param householdId path string true "Household ID"
// @Param locationId path string true "Location ID"
// @Param body body services.UpdateLocationInput true "Fields to update"
// @Success 200 {object} models.Location
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /households/{householdId}/locations/{locationId} [put]
func (h *LocationHandler) Update(c *fiber.Ctx) error {
	user, err := currentUser(c, h.Users)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	var input services.UpdateLocationInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	location, err := h.Locations.Update(c.UserContext(), user, c.Params("householdId"), c.Params("locationId"), input)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, location, fiber.StatusOK)
}

// Delete handles DELETE /api/households/:householdId/locations/:locationId
// @Summary Delete a location
// @Tags Locations
// @Produce json
// @Param householdId path string true "Household ID"
// @Param locationId path string true "Location ID"
// @Success 204
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /households/{householdId}/locations/{locationId} [delete]
func (h *LocationHandler) Delete(c *fiber.Ctx) error {
	user, err := currentUser(c, h.Users)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	if err := h.Locations.Delete(c.UserContext(), user, c.Params("householdId"), c.Params("locationId")); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
