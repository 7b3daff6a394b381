package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pantrio/pantrio/internal/cache"
	"github.com/pantrio/pantrio/internal/config"
	"github.com/pantrio/pantrio/internal/foodfacts"
	"github.com/pantrio/pantrio/internal/services"
)

// HealthHandler reports service health. The route is unauthenticated so
// orchestrators can probe it.
type HealthHandler struct {
	Cfg    *config.Config
	DB     *gorm.DB
	Lookup *foodfacts.Client
	Cache  *cache.ProductCache
	Log    *zap.Logger
}

// Check handles GET /api/health
// @Summary Service health
// @Description Probe the database, the external product API and, when configured, the cache and authorizer
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	result := services.HealthCheck(c.UserContext(), h.Cfg, h.DB, h.Lookup, h.Cache, h.Log)

	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
