// common.go
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

	"github.com/pantrio/pantrio/internal/middleware"
	"github.com/pantrio/pantrio/internal/models"
	"github.com/pantrio/pantrio/internal/repository"
	"github.com/pantrio/pantrio/internal/services"
	"github.com/pantrio/pantrio/internal/types"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// currentUser resolves the verified claims on the request into the
// internal user record, creating it on first sight.
func currentUser(c *fiber.Ctx, users *services.UserService) (*models.User, error) {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil, types.NewValidationError("request carries no verified credentials")
	}
	return users.Resolve(c.UserContext(), claims)
}

// parseListParams reads page, limit, sort and order query parameters.
// The sort column must be on the per-entity whitelist; anything else
// falls back to the first whitelisted column.
func parseListParams(c *fiber.Ctx, sortable []string) (repository.ListParams, int, int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", defaultPageSize)
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	sort := c.Query("sort", "")
	allowed := false
	for _, col := range sortable {
		if sort == col {
			allowed = true
			break
		}
	}
	if !allowed {
		sort = sortable[0]
	}

	order := c.Query("order", "asc")
	if order != "desc" {
		order = "asc"
	}

	params := repository.ListParams{
		Offset: (page - 1) * limit,
		Limit:  limit,
		Sort:   sort,
		Order:  order,
	}
	return params, page, limit
}
