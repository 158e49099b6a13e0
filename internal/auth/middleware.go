package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const userIDKey = "auth_user_id"

// TokenVerifier resolves a raw bearer token to a user id.
type TokenVerifier interface {
	VerifyToken(raw string) (string, error)
}

// AuthMiddleware validates bearer tokens on protected routes.
type AuthMiddleware struct {
	verifier TokenVerifier
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	userID, err := m.verifier.VerifyToken(bearerToken(c.Get(fiber.HeaderAuthorization)))
	if err != nil {
		return err
	}
	c.Locals(userIDKey, userID)
	return c.Next()
}

// bearerToken returns the token part of "Bearer <token>", or "" when absent.
func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// UserIDFromContext retrieves the authenticated user id.
func UserIDFromContext(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals(userIDKey).(string)
	return userID, ok && userID != ""
}
