package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ardikasatria/gymdesk/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginOrRegister handles POST /v1/auth/login
func (h *AuthHandler) LoginOrRegister(c *fiber.Ctx) error {
	// Get Firebase token from Authorization header
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "missing authorization header",
		})
	}

	// Extract token (format: "Bearer <token>")
	token := authHeader
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		token = authHeader[7:]
	}

	resp, err := h.authService.LoginOrRegister(c.UserContext(), service.LoginRequest{
		FirebaseToken: token,
	})
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"token":        resp.Token,
		"is_new_staff": resp.IsNewStaff,
		"staff": fiber.Map{
			"id":    resp.Staff.ID,
			"name":  resp.Staff.Name,
			"email": resp.Staff.Email,
			"roles": resp.Staff.Roles,
		},
	})
}
