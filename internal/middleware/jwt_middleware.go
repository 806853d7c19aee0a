package middleware

import (
	"log"
	"strings"

	"carmarket/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserIDKey is the locals key under which the authenticated user's ID is
// stored for downstream handlers.
const UserIDKey = "user_id"

// AuthRequired is a Fiber middleware to check for a valid JWT token.
// On success the acting user's ID is stored in the request locals; the
// handlers never consult any ambient session state.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := userIDFromHeader(c, authService)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or missing Bearer token",
			})
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// AuthOptional resolves the acting user when a valid Bearer token is
// present but lets anonymous requests through. The browse page uses it:
// authenticated users should not see their own listings there.
func AuthOptional(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, ok := userIDFromHeader(c, authService); ok {
			c.Locals(UserIDKey, userID)
		}
		return c.Next()
	}
}

// ActingUserID returns the authenticated user's ID from the request locals,
// or 0 when the request is anonymous.
func ActingUserID(c *fiber.Ctx) uint {
	if userID, ok := c.Locals(UserIDKey).(uint); ok {
		return userID
	}
	return 0
}

// userIDFromHeader validates the Authorization header and extracts the
// user ID claim.
func userIDFromHeader(c *fiber.Ctx, authService *services.AuthService) (uint, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, false
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return 0, false
	}

	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		log.Printf("JWT validation failed: %v", err)
		return 0, false
	}

	// MapClaims decodes numbers as float64
	rawID, ok := claims["user_id"].(float64)
	if !ok || rawID <= 0 {
		return 0, false
	}
	return uint(rawID), true
}
