package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pantrio/pantrio/internal/services"
	"github.com/pantrio/pantrio/internal/types"
	"github.com/pantrio/pantrio/internal/utils"
)

// HouseholdHandler handles household and membership routes.
type HouseholdHandler struct {
	Users      *services.UserService
	Households *services.HouseholdService
}

// createHouseholdRequest is the body for household creation and rename.
type createHouseholdRequest struct {
	Name string `json:"name"`
}

// addMembersRequest accepts a single user id or an array of them.
type addMembersRequest struct {
	UserIDs types.FlexList[string] `json:"userIds"`
}

// Create handles POST /api/households
// @Summary Create a household
// @Description Create a household with the caller as its OWNER member
// @Tags Households
// @Accept json
// @Produce json
// @Param body body createHouseholdRequest true "Household name"
// @Success 201 {object} models.Household
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /households [post]
func (h *HouseholdHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c, h.Users)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	var body createHouseholdRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	household, err := h.Households.Create(c.UserContext(), user, body.Name)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, household, fiber.StatusCreated)
}

// List handles GET /api/households
// @Summary List the caller's households
// @Tags Households
// @Produce json
// @Success 200 {array} models.Household
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /households [get]
func (h *HouseholdHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c, h.Users)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	households, err := h.Households.ListMine(c.UserContext(), user)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, households, fiber.StatusOK)
}

// Get handles GET /api/households/:householdId
// @Summary Get a household with its member roster
// @Tags Households
// @Produce json
// @Param householdId path string true "Household ID"
// @Success 200 {object} models.Household
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /households/{householdId} [get]
func (h *HouseholdHandler) Get(c *fiber.Ctx) error {
	user, err := currentUser(c, h.Users)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	household, err := h.Households.Get(c.UserContext(), user, c.Params("householdId"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, household, fiber.StatusOK)
}

// Update handles PUT /api/households/:householdId
// @Summary Rename a household
// @Description Rename a household; only the OWNER may do this
// @Tags Households
// @Accept json
// @Produce json
// @Param householdId path string true "Household ID"
// @Param body body createHouseholdRequest true "New household name"
// @Success 200 {object} models.Household
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /households/{householdId} [put]
func (h *HouseholdHandler) Update(c *fiber.Ctx) error {
	user, err := currentUser(c, h.Users)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	var body createHouseholdRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	household, err := h.Households.Rename(c.UserContext(), user, c.Params("householdId"), body.Name)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, household, fiber.StatusOK)
}

// Delete handles DELETE /api/households/:householdId
// @Summary Delete a household
// @Description Delete a household and everything in it; only the OWNER may do this
// @Tags Households
// @Produce json
// @Param householdId path string true "Household ID"
// @Success 204
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /households/{householdId} [delete]
func (h *HouseholdHandler) Delete(c *fiber.Ctx) error {
	user, err := currentUser(c, h.Users)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	if err := h.Households.Delete(c.UserContext(), user, c.Params("householdId")); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddMembers handles POST /api/households/:householdId/members
// @Summary Add members to a household
// @Description Add one or more users to the roster; only the OWNER may do this
// @Tags Households
// @Accept json
// @Produce json
// @Param householdId path string true "Household ID"
// @Param body body addMembersRequest true "User id or array of user ids"
// @Success 200 {array} models.HouseholdMember
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /households/{householdId}/members [post]
func (h *HouseholdHandler) AddMembers(c *fiber.Ctx) error {
	user, err := currentUser(c, h.Users)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	var body addMembersRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	roster, err := h.Households.AddMembers(c.UserContext(), user, c.Params("householdId"), body.UserIDs.Slice())
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, roster, fiber.StatusOK)
}

// RemoveMember handles DELETE /api/households/:householdId/members/:userId
// @Summary Remove a member from a household
// @Description Owners can remove anyone; members can remove themselves; the last OWNER cannot be removed
// @Tags Households
// @Produce json
// @Param householdId path string true "Household ID"
// @Param userId path string true "User ID"
// @Success 204
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /households/{householdId}/members/{userId} [delete]
func (h *HouseholdHandler) RemoveMember(c *fiber.Ctx) error {
	user, err := currentUser(c, h.Users)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	if err := h.Households.RemoveMember(c.UserContext(), user, c.Params("householdId"), c.Params("userId")); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
