package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/storefront/catalog-service/internal/api/dto"
	"github.com/storefront/catalog-service/internal/service"
)

// CategoriesHandler manages category endpoints.
type CategoriesHandler struct {
	service *service.CategoryService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(categoryService *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{service: categoryService}
}

// Create POST /api/categories.
func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}
	category, err := h.service.Create(requestContext(c), req.Name, req.Description)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewCategoryResponse(category))
}

// List GET /api/categories.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	categories, err := h.service.List(requestContext(c))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewCategoryList(categories))
}

// Get GET /api/categories/:id.
func (h *CategoriesHandler) Get(c *fiber.Ctx) error {
	category, err := h.service.GetByID(requestContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewCategoryResponse(category))
}

// GetByName GET /api/categories/name/:name.
func (h *CategoriesHandler) GetByName(c *fiber.Ctx) error {
	category, err := h.service.GetByName(requestContext(c), c.Params("name"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewCategoryResponse(category))
}

// Update PUT /api/categories/:id.
func (h *CategoriesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateCategoryRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}
	category, err := h.service.Update(requestContext(c), c.Params("id"), req.Patch())
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewCategoryResponse(category))
}

// Delete DELETE /api/categories/:id.
func (h *CategoriesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(requestContext(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
