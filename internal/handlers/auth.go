package handlers

import (
	"qrisgate/internal/services/auth"
	"qrisgate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Token exchanges the storefront API key for a short-lived JWT.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var input struct {
		APIKey string `json:"api_key"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if input.APIKey == "" {
		return response.BadRequest(c, "api_key is required")
	}

	token, expiresAt, err := h.authService.IssueToken(input.APIKey)
	if err != nil {
		return response.Unauthorized(c, "Invalid API key")
	}

	return response.Success(c, "Token issued", fiber.Map{
		"token":      token,
		"expires_at": expiresAt.Unix(),
	})
}
