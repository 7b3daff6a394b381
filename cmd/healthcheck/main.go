// main.go
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

// Container healthcheck. Prints the same health report the /api/health
// endpoint serves and exits non-zero when the service is unhealthy.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/pantrio/pantrio/internal/cache"
	"github.com/pantrio/pantrio/internal/config"
	"github.com/pantrio/pantrio/internal/database"
	"github.com/pantrio/pantrio/internal/foodfacts"
	"github.com/pantrio/pantrio/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var productCache *cache.ProductCache
	if cfg.RedisAddr != "" {
		productCache, err = cache.NewProductCache(cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      time.Duration(cfg.CacheTTLMinutes) * time.Minute,
		}, zap.NewNop())
		if err != nil {
			// Report it through the health result instead of dying here.
			fmt.Fprintf(os.Stderr, "redis unavailable: %v\n", err)
		} else {
			defer productCache.Close()
		}
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

	result := services.HealthCheck(ctx, cfg, db, lookup, productCache, zap.NewNop())

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}
	fmt.Println(string(output))

	if result.Status != "healthy" {
		os.Exit(1)
	}
}
