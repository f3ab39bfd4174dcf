package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/youngamerican68/Property-Perfect/auth"
)

// TestToken is a reserved bearer value used by integration dashboards; it
// authenticates without touching persistence.
const TestToken = "test-token"

// AuthMiddleware resolves the Authorization header into a user id stored in
// the request locals.
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == TestToken {
			c.Locals("testUser", true)
			c.Locals("userID", uint(0))
			return c.Next()
		}

		userID, email, err := auth.ParseToken(tokenStr)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authentication",
			})
		}

		c.Locals("userID", userID)
		c.Locals("userEmail", email)
		return c.Next()
	}
}

// CheckUserLoggedIn returns the authenticated user id from the locals.
func CheckUserLoggedIn(c *fiber.Ctx) (uint, error) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return 0, fiber.ErrUnauthorized
	}
	return userID, nil
}

// UserEmail returns the email claim carried by the bearer token, if any.
func UserEmail(c *fiber.Ctx) string {
	email, _ := c.Locals("userEmail").(string)
	return email
}

// IsTestUser reports whether the request authenticated with the reserved
// test token.
func IsTestUser(c *fiber.Ctx) bool {
	v, _ := c.Locals("testUser").(bool)
	return v
}
