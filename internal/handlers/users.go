package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pantrio/pantrio/internal/services"
	"github.com/pantrio/pantrio/internal/utils"
)

// UserHandler handles the authenticated user's own record.
type UserHandler struct {
	Users *services.UserService
}

// GetMe handles GET /api/users/me
// @Summary Get the current user
// @Description Resolve the authenticated principal to its user record, creating it on first sight
// @Tags Users
// @Produce json
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	user, err := currentUser(c, h.Users)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, user, fiber.StatusOK)
}

// UpdateMe handles PUT /api/users/me
// @Summary Update the current user's profile
// @Description Update display name or email; the username is immutable
// @Tags Users
// @Accept json
// @Produce json
// @Param body body services.UpdateProfileInput true "Profile fields to update"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	user, err := currentUser(c, h.Users)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	var input services.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "validation")
	}

	updated, err := h.Users.UpdateProfile(c.UserContext(), user.ID, input)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, updated, fiber.StatusOK)
}
