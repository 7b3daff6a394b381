package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pantrio/pantrio/internal/cache"
	"github.com/pantrio/pantrio/internal/config"
	"github.com/pantrio/pantrio/internal/foodfacts"
	"github.com/pantrio/pantrio/internal/utils"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	ProductAPI   string            `json:"productApi"`
	Cache        string            `json:"cache,omitempty"`
	Authorizer   string            `json:"authorizer,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck probes the database, the external product API and, when
// configured, the cache and the authorizer. The product API and cache
// are reported but do not flip the overall status: the service still
// serves inventory without them.
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB, lookup *foodfacts.Client, productCache *cache.ProductCache, log *zap.Logger) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		log.Error("health check failed on database connection", zap.Error(err))
	} else if err := sqlDB.PingContext(ctx); err != nil {
		result.Status = "unhealthy"
		result.Database = "unreachable"
		result.Details["database_ping_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
		log.Error("health check failed on database ping", zap.Error(err))
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
		result.Details["database_name"] = cfg.DBDatabase
	}

	if lookup.Available(ctx) {
		result.ProductAPI = "ok"
	} else {
		result.ProductAPI = "unavailable"
		result.Details["product_api"] = "lookup probe failed"
		log.Warn("health check found product API unavailable")
	}

	if productCache != nil {
		if productCache.Healthy(ctx) {
			result.Cache = "ok"
		} else {
			result.Cache = "unreachable"
			result.Details["cache"] = "redis ping failed"
			log.Warn("health check found cache unreachable")
		}
	}

	if cfg.AuthMode == config.AuthModeAuthorizer {
		if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
			result.Status = "unhealthy"
			result.Authorizer = "unreachable"
			result.Details["authorizer_error"] = err.Error()
			if result.ErrorMessage == "" {
				result.ErrorMessage = fmt.Sprintf("Authorizer ping failed: %v", err)
			} else {
				result.ErrorMessage += fmt.Sprintf("; Authorizer ping failed: %v", err)
			}
			log.Error("health check failed on authorizer ping", zap.Error(err))
		} else {
			result.Authorizer = "ok"
			result.Details["authorizer_url"] = cfg.AuthzURL
		}
	}

	return result
}
