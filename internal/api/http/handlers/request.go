package handlers

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/storefront/catalog-service/internal/api/dto"
	"github.com/storefront/catalog-service/internal/auth"
	"github.com/storefront/catalog-service/internal/service"
	apperrors "github.com/storefront/catalog-service/pkg/util"
)

// decodeJSON decodes the body into dst, rejecting unknown fields, and then
// runs the DTO validation tags.
func decodeJSON(c *fiber.Ctx, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid request body", map[string]any{"reason": err.Error()})
	}
	if dec.More() {
		return apperrors.NewValidationError("invalid request body", map[string]any{"reason": "unexpected data after JSON object"})
	}
	return dto.Validate(dst)
}

// requestContext carries the request deadline and the caller's id.
func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if userID, ok := auth.UserIDFromContext(c); ok {
		ctx = service.WithActor(ctx, userID)
	}
	return ctx
}

func data(c *fiber.Ctx, status int, payload any) error {
	return c.Status(status).JSON(fiber.Map{"data": payload})
}
