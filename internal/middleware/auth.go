// Package middleware provides HTTP middleware for the gateway's
// storefront-facing API.
package middleware

import (
	"log"
	"strings"

	"qrisgate/internal/services/auth"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates storefront JWTs. The callback and buyer poll
// endpoints stay public: Duitku signs its own requests and the poll
// leaks nothing beyond paid/expired.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Handler validates the Bearer token and stores the claims in the
// request context.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := m.authService.ValidateToken(tokenString)
	if err != nil {
		log.Printf("token validation error: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	c.Locals("claims", claims)
	return c.Next()
}
