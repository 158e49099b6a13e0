package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/storefront/catalog-service/internal/api/dto"
	"github.com/storefront/catalog-service/internal/blobstore"
	"github.com/storefront/catalog-service/internal/config"
	"github.com/storefront/catalog-service/internal/domain"
	"github.com/storefront/catalog-service/internal/service"
	apperrors "github.com/storefront/catalog-service/pkg/util"
)

const imagesField = "images"

// ProductsHandler manages product endpoints.
type ProductsHandler struct {
	service *service.ProductService
	limits  config.UploadConfig
}

// NewProductsHandler constructs handler.
func NewProductsHandler(productService *service.ProductService, limits config.UploadConfig) *ProductsHandler {
	return &ProductsHandler{service: productService, limits: limits}
}

// Create POST /api/products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}
	product, err := h.service.Create(requestContext(c), req.Input(), nil)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewProductResponse(product))
}

// CreateWithImages POST /api/products/with-images (multipart).
func (h *ProductsHandler) CreateWithImages(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	files, err := h.parseMultipart(c, &req)
	if err != nil {
		return err
	}
	product, err := h.service.Create(requestContext(c), req.Input(), files)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewProductResponse(product))
}

// Update PUT /api/products/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateProductRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}
	product, err := h.service.Update(requestContext(c), c.Params("id"), req.Patch(), nil)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewProductResponse(product))
}

// UpdateWithImages PUT /api/products/with-images/:id (multipart). Uploaded
// images replace the current ones; with none the current ones are kept.
func (h *ProductsHandler) UpdateWithImages(c *fiber.Ctx) error {
	var req dto.UpdateProductRequest
	files, err := h.parseMultipart(c, &req)
	if err != nil {
		return err
	}
	product, err := h.service.Update(requestContext(c), c.Params("id"), req.Patch(), files)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewProductResponse(product))
}

// Delete DELETE /api/products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(requestContext(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Get GET /api/products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	product, err := h.service.GetByID(requestContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewProductResponse(product))
}

// List GET /api/products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	return h.respondList(c, h.service.List)
}

// Featured GET /api/products/featured.
func (h *ProductsHandler) Featured(c *fiber.Ctx) error {
	return h.respondList(c, h.service.FindFeatured)
}

// Popular GET /api/products/popular.
func (h *ProductsHandler) Popular(c *fiber.Ctx) error {
	return h.respondList(c, h.service.FindPopular)
}

// SinglePerCategory GET /api/products/percategory.
func (h *ProductsHandler) SinglePerCategory(c *fiber.Ctx) error {
	return h.respondList(c, h.service.SingleProductPerCategory)
}

// TwoPerCategory GET /api/products/twopercategory.
func (h *ProductsHandler) TwoPerCategory(c *fiber.Ctx) error {
	return h.respondList(c, h.service.TwoProductsPerCategory)
}

// ByCategory GET /api/products/category/:categoryId.
func (h *ProductsHandler) ByCategory(c *fiber.Ctx) error {
	products, err := h.service.FindByCategory(requestContext(c), c.Params("categoryId"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewProductList(products))
}

// SearchByCategoryID GET /api/products/vs/:categoryId?color=.
func (h *ProductsHandler) SearchByCategoryID(c *fiber.Ctx) error {
	return h.search(c, domain.ProductQuery{
		CategoryID: c.Params("categoryId"),
		Color:      c.Query("color"),
	})
}

// SearchByCategoryName serves the /vsc and /visual_search routes, which
// accept both color and pattern.
func (h *ProductsHandler) SearchByCategoryName(c *fiber.Ctx) error {
	return h.search(c, domain.ProductQuery{
		CategoryName: c.Params("categoryName"),
		Color:        c.Query("color"),
		Pattern:      c.Query("pattern"),
	})
}

// SearchByCategoryNameAndColor GET /api/products/vscc/:categoryName?color=.
func (h *ProductsHandler) SearchByCategoryNameAndColor(c *fiber.Ctx) error {
	return h.search(c, domain.ProductQuery{
		CategoryName: c.Params("categoryName"),
		Color:        c.Query("color"),
	})
}

// SearchByCategoryNameAndPattern GET /api/products/vscp/:categoryName?pattern=.
func (h *ProductsHandler) SearchByCategoryNameAndPattern(c *fiber.Ctx) error {
	return h.search(c, domain.ProductQuery{
		CategoryName: c.Params("categoryName"),
		Pattern:      c.Query("pattern"),
	})
}

func (h *ProductsHandler) search(c *fiber.Ctx, q domain.ProductQuery) error {
	products, err := h.service.Search(requestContext(c), q)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewProductList(products))
}

func (h *ProductsHandler) respondList(c *fiber.Ctx, fetch func(ctx context.Context) ([]domain.Product, error)) error {
	products, err := fetch(requestContext(c))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewProductList(products))
}

// parseMultipart binds the form fields into req and reads the image parts.
func (h *ProductsHandler) parseMultipart(c *fiber.Ctx, req any) ([]blobstore.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperrors.NewValidationError("multipart form expected", map[string]any{"reason": err.Error()})
	}
	if err := c.BodyParser(req); err != nil {
		return nil, apperrors.NewValidationError("invalid form fields", map[string]any{"reason": err.Error()})
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	return h.readImages(form.File[imagesField])
}

func (h *ProductsHandler) readImages(headers []*multipart.FileHeader) ([]blobstore.File, error) {
	if h.limits.MaxFiles > 0 && len(headers) > h.limits.MaxFiles {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("at most %d images may be uploaded", h.limits.MaxFiles),
			map[string]any{"field": imagesField, "count": len(headers)})
	}

	files := make([]blobstore.File, 0, len(headers))
	for _, fh := range headers {
		if h.limits.MaxFileBytes > 0 && fh.Size > h.limits.MaxFileBytes {
			return nil, apperrors.NewValidationError("image is too large", map[string]any{
				"file":     fh.Filename,
				"maxBytes": h.limits.MaxFileBytes,
			})
		}
		contentType := fh.Header.Get(fiber.HeaderContentType)
		if !strings.HasPrefix(contentType, "image/") {
			return nil, apperrors.NewValidationError("only image uploads are allowed", map[string]any{
				"file":        fh.Filename,
				"contentType": contentType,
			})
		}

		content, err := readPart(fh)
		if err != nil {
			return nil, apperrors.NewValidationError("could not read uploaded image", map[string]any{"file": fh.Filename})
		}
		files = append(files, blobstore.File{Name: fh.Filename, ContentType: contentType, Data: content})
	}
	return files, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
