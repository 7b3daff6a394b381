package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/pantrio/pantrio/internal/config"
	"github.com/pantrio/pantrio/internal/services"
	"github.com/pantrio/pantrio/internal/types"
	"github.com/pantrio/pantrio/internal/utils"
)

// claimsKey is the fiber.Ctx locals slot carrying the verified claims.
const claimsKey = "authClaims"

// AuthUser verifies the request credential and stores the resulting
// claims in the request context. With AUTH_MODE=jwt a Bearer token is
// verified against the shared secret; with AUTH_MODE=authorizer the
// session cookie is validated against the Authorizer service.
func AuthUser(cfg *config.Config) fiber.Handler {
	if cfg.AuthMode == config.AuthModeAuthorizer {
		return authorizerSession(cfg)
	}
	return bearerToken(cfg.JWTSecret)
}

// Claims returns the verified claims set by AuthUser. The bool is false
// on routes that bypassed the middleware.
func Claims(c *fiber.Ctx) (types.AuthClaims, bool) {
	claims, ok := c.Locals(claimsKey).(types.AuthClaims)
	return claims, ok
}

func bearerToken(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return utils.ErrorResponse(c, "Authorization header with Bearer token required",
				fiber.StatusUnauthorized, "unauthorized")
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.ErrorResponse(c, "Invalid or expired token",
				fiber.StatusUnauthorized, "unauthorized")
		}

		mapClaims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.ErrorResponse(c, "Failed to parse token claims",
				fiber.StatusUnauthorized, "unauthorized")
		}

		claims := types.AuthClaims{
			Subject: stringClaim(mapClaims, "sub"),
			Email:   stringClaim(mapClaims, "email"),
			Name:    stringClaim(mapClaims, "name"),
		}
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

func authorizerSession(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := c.Cookies("cookie_session")
		if session == "" {
			return utils.ErrorResponse(c, "Authorizer cookie \"cookie_session\" not found",
				fiber.StatusUnauthorized, "unauthorized")
		}

		// The client needs the request origin for its redirect URL, so
		// initialization waits for the first authenticated request.
		if !services.IsAuthorizerInitialized() {
			if err := services.InitAuthorizer(cfg, c.Protocol(), c.Hostname()); err != nil {
				return utils.ErrorResponse(c, fmt.Sprintf("Authorizer unavailable: %v", err),
					fiber.StatusUnauthorized, "unauthorized")
			}
		}

		data, err := services.ValidateSession(session, []string{"user"})
		if err != nil {
			return utils.ErrorResponse(c, fmt.Sprintf("Invalid session: %v", err),
				fiber.StatusUnauthorized, "unauthorized")
		}

		claims, err := claimsFromSession(data)
		if err != nil {
			return utils.ErrorResponse(c, err.Error(),
				fiber.StatusUnauthorized, "unauthorized")
		}
		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// claimsFromSession maps the Authorizer session payload onto token-style
// claims. The Authorizer user id plays the role of the subject.
func claimsFromSession(data map[string]interface{}) (types.AuthClaims, error) {
	user, ok := data["user"].(map[string]interface{})
	if !ok {
		return types.AuthClaims{}, fmt.Errorf("session payload has no user object")
	}

	claims := types.AuthClaims{
		Subject: stringClaim(user, "id"),
		Email:   stringClaim(user, "email"),
	}
	if name := stringClaim(user, "given_name"); name != "" {
		claims.Name = strings.TrimSpace(name + " " + stringClaim(user, "family_name"))
	} else {
		claims.Name = stringClaim(user, "nickname")
	}

	if claims.Subject == "" {
		return types.AuthClaims{}, fmt.Errorf("session user has no id")
	}
	return claims, nil
}

func stringClaim(m map[string]interface{}, key string) string {
	if value, ok := m[key].(string); ok {
		return value
	}
	return ""
}
