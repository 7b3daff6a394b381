package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"go.uber.org/zap"

	"github.com/pantrio/pantrio/internal/cache"
	"github.com/pantrio/pantrio/internal/config"
	"github.com/pantrio/pantrio/internal/database"
	"github.com/pantrio/pantrio/internal/foodfacts"
	"github.com/pantrio/pantrio/internal/handlers"
	"github.com/pantrio/pantrio/internal/middleware"
	"github.com/pantrio/pantrio/internal/repository/gormrepo"
	"github.com/pantrio/pantrio/internal/services"
	"github.com/pantrio/pantrio/internal/types"
	"github.com/pantrio/pantrio/internal/utils"
	"github.com/pantrio/pantrio/internal/worker"

	_ "github.com/pantrio/pantrio/docs/api" // Swagger docs
)

// @title Pantrio API
// @version 1.0.0
// @description Household inventory backend with barcode-driven product enrichment
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/pantrio/pantrio
// @contact.email support@pantrio.app

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}
	if cfg.AppEnv == "development" {
		if dev, err := zap.NewDevelopment(); err == nil {
			log = dev
		}
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	// Optional Redis product cache; stays nil (a permanent miss) when
	// REDIS_ADDR is not configured.
	var productCache *cache.ProductCache
	if cfg.RedisAddr != "" {
		productCache, err = cache.NewProductCache(cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      time.Duration(cfg.CacheTTLMinutes) * time.Minute,
		}, log)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer productCache.Close()
	}

	lookup := foodfacts.New(foodfacts.Config{
		BaseURL:         cfg.FoodAPIBaseURL,
		StagingBaseURL:  cfg.FoodAPIStagingBaseURL,
		UseStaging:      cfg.FoodAPIUseStaging,
		StagingUser:     cfg.FoodAPIStagingUser,
		StagingPassword: cfg.FoodAPIStagingPassword,
		UserAgent:       cfg.FoodAPIUserAgent,
		Timeout:         time.Duration(cfg.FoodAPITimeoutSeconds) * time.Second,
	}, nil)

	// Repositories and services
	userRepo := gormrepo.NewUserRepository(db)
	householdRepo := gormrepo.NewHouseholdRepository(db)
	memberRepo := gormrepo.NewHouseholdMemberRepository(db)
	locationRepo := gormrepo.NewLocationRepository(db)
	productRepo := gormrepo.NewProductRepository(db)

	guard := services.NewAccessGuard(memberRepo)
	userService := services.NewUserService(userRepo, log)
	householdService := services.NewHouseholdService(householdRepo, memberRepo, userRepo, guard, log)
	locationService := services.NewLocationService(locationRepo, guard, log)
	productService := services.NewProductService(productRepo, guard, lookup, productCache, log)

	// Background re-resolution of placeholder products
	var retryWorker *worker.RetryWorker
	if cfg.RetryEnabled {
		retryWorker = worker.NewRetryWorker(
			productService,
			time.Duration(cfg.RetryIntervalMinutes)*time.Minute,
			cfg.RetryMaxAttempts,
			cfg.RetryBatchSize,
			log,
		)
		retryWorker.Start(context.Background())
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("pantrio")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Handlers
	userHandler := &handlers.UserHandler{Users: userService}
	householdHandler := &handlers.HouseholdHandler{Users: userService, Households: householdService}
	locationHandler := &handlers.LocationHandler{Users: userService, Locations: locationService}
	productHandler := &handlers.ProductHandler{Users: userService, Products: productService}
	healthHandler := &handlers.HealthHandler{Cfg: cfg, DB: db, Lookup: lookup, Cache: productCache, Log: log}

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	// Health is unauthenticated so orchestrators can probe it
	api.Get("/health", healthHandler.Check)

	// Everything else requires a verified credential
	auth := middleware.AuthUser(cfg)

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

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("gracefully shutting down")
		if retryWorker != nil {
			retryWorker.Stop()
		}
		_ = app.Shutdown()
	}()

	log.Info("starting server", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}

	log.Info("server stopped")
}

// errorHandler shapes uncaught errors into the standard envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		return utils.AppErrorResponse(c, err)
	}

	code := fiber.StatusInternalServerError
	message := err.Error()
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}
	return utils.ErrorResponse(c, message, code, "unexpected")
}
