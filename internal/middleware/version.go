package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// CurrentAPIVersion is served when the client does not ask for one.
const CurrentAPIVersion = "1.0.0"

// VersionKey is the context local under which the negotiated version is stored.
const VersionKey = "apiVersion"

// versionAliases maps shorthand version strings to their full form.
var versionAliases = map[string]string{
	"1":   CurrentAPIVersion,
	"1.0": CurrentAPIVersion,
}

// VersionMiddleware negotiates the API version from the X-Api-Version
// header, stores it in the request context and echoes it on the response.
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", CurrentAPIVersion)
		if full, ok := versionAliases[version]; ok {
			version = full
		}

		c.Locals(VersionKey, version)
		c.Set("X-Api-Version", version)

		return c.Next()
	}
}
