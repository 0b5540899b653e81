package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/farmstand/backend/pkg/envelope"
)

// Locals keys set by the middleware.
const (
	LocalStaffID = "staff_id"
	LocalName    = "staff_name"
	LocalRole    = "role"
)

// RequireAuth validates the bearer token and stores the claims in the
// request locals.
func RequireAuth(manager *JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(envelope.Fail("Authorization header required"))
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(envelope.Fail("Invalid authorization header format"))
		}

		claims, err := manager.Validate(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(envelope.Fail("Invalid token"))
		}

		c.Locals(LocalStaffID, claims.StaffID)
		c.Locals(LocalName, claims.Name)
		c.Locals(LocalRole, claims.Role)

		return c.Next()
	}
}

// RequireRole restricts a route to the given roles. Must run after
// RequireAuth.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalRole).(string)
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(envelope.Fail("Insufficient role"))
	}
}

// OptionalAuth validates the token if present but never rejects.
func OptionalAuth(manager *JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if claims, err := manager.Validate(parts[1]); err == nil {
				c.Locals(LocalStaffID, claims.StaffID)
				c.Locals(LocalName, claims.Name)
				c.Locals(LocalRole, claims.Role)
			}
		}
		return c.Next()
	}
}
