package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/storefront/catalog-service/internal/api/dto"
	"github.com/storefront/catalog-service/internal/service"
)

// AuthHandler exposes registration and login.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}

	user, err := h.auth.RegisterUser(requestContext(c), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewUserResponse(user))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}

	user, token, exp, err := h.auth.LoginUser(requestContext(c), req.Email, req.Password)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.LoginResponse{
		User:      dto.NewUserResponse(user),
		Token:     token,
		ExpiresAt: exp,
	})
}
