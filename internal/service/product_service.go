package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/storefront/catalog-service/internal/blobstore"
	"github.com/storefront/catalog-service/internal/domain"
	"github.com/storefront/catalog-service/internal/events"
	"github.com/storefront/catalog-service/internal/repository"
	apperrors "github.com/storefront/catalog-service/pkg/util"
)

// ProductService coordinates the product catalog and its images.
type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	images     *blobstore.Manager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ProductDependencies bundles collaborators for product service.
type ProductDependencies struct {
	ProductRepo  repository.ProductRepository
	CategoryRepo repository.CategoryRepository
	Images       *blobstore.Manager
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewProductService constructs the service.
func NewProductService(deps ProductDependencies) *ProductService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		products:   deps.ProductRepo,
		categories: deps.CategoryRepo,
		images:     deps.Images,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Create uploads files, then persists the product with the resulting URLs.
// No blob outlives a failed call.
func (s *ProductService) Create(ctx context.Context, input domain.ProductInput, files []blobstore.File) (*domain.Product, error) {
	if err := s.requireCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	urls, err := s.uploadImages(ctx, files)
	if err != nil {
		return nil, err
	}

	product := domain.NewProduct(input, urls)
	if err := s.products.Create(ctx, product); err != nil {
		s.discardImages(ctx, urls)
		return nil, storeError(err, "product", "")
	}

	s.logger.Info("product created", zap.String("product_id", product.ID), zap.Int("images", len(urls)))
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:       events.EventProductCreated,
		ResourceID: product.ID,
		Payload: events.ProductChangedPayload{
			Title:      product.Title,
			CategoryID: product.CategoryID,
			ImageCount: len(product.Images),
		},
	})
	return product, nil
}

// Update applies patch. Non-empty files replace the image list and the
// previous images are then deleted; without files the images are kept.
func (s *ProductService) Update(ctx context.Context, id string, patch domain.ProductPatch, files []blobstore.File) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "product", id)
	}
	if patch.CategoryID != nil && *patch.CategoryID != product.CategoryID {
		if err := s.requireCategory(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
	}

	urls, err := s.uploadImages(ctx, files)
	if err != nil {
		return nil, err
	}

	patch.Apply(product)
	previous := product.Images
	replaced := len(urls) > 0
	if replaced {
		product.Images = urls
	}

	if err := s.products.Update(ctx, product); err != nil {
		s.discardImages(ctx, urls)
		return nil, storeError(err, "product", id)
	}
	if replaced {
		s.discardImages(ctx, previous)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:       events.EventProductUpdated,
		ResourceID: product.ID,
		Payload: events.ProductChangedPayload{
			Title:          product.Title,
			CategoryID:     product.CategoryID,
			ImageCount:     len(product.Images),
			ImagesReplaced: replaced,
		},
	})
	return product, nil
}

// Delete removes the product, then requests deletion of each of its images.
// Image deletion failures are logged and never returned.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return storeError(err, "product", id)
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return storeError(err, "product", id)
	}

	s.discardImages(ctx, product.Images)

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:       events.EventProductDeleted,
		ResourceID: id,
		Payload: events.ProductDeletedPayload{
			CategoryID: product.CategoryID,
			Images:     product.Images,
		},
	})
	return nil
}

// GetByID returns a product.
func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "product", id)
	}
	return product, nil
}

// List returns every product.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, storeError(err, "product", "")
	}
	return products, nil
}

// FindByCategory lists the products referencing categoryID.
func (s *ProductService) FindByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	products, err := s.products.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, storeError(err, "product", "")
	}
	return products, nil
}

// FindByCategoryName resolves name to a category first. An unknown name
// yields an empty result, not an error.
func (s *ProductService) FindByCategoryName(ctx context.Context, name string) ([]domain.Product, error) {
	category, err := s.categories.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []domain.Product{}, nil
		}
		return nil, storeError(err, "category", "")
	}
	return s.FindByCategory(ctx, category.ID)
}

// FindFeatured lists products flagged as featured.
func (s *ProductService) FindFeatured(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.ListFeatured(ctx)
	if err != nil {
		return nil, storeError(err, "product", "")
	}
	return products, nil
}

// FindPopular is not backed by any selection rule yet.
func (s *ProductService) FindPopular(context.Context) ([]domain.Product, error) {
	return nil, apperrors.NewNotImplemented("popular product retrieval is not implemented")
}

// Search resolves the category of q, by name when given, else by id, else
// the whole catalog, and then applies the color and pattern filters.
func (s *ProductService) Search(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	var (
		products []domain.Product
		err      error
	)
	switch {
	case q.CategoryName != "":
		products, err = s.FindByCategoryName(ctx, q.CategoryName)
	case q.CategoryID != "":
		products, err = s.FindByCategory(ctx, q.CategoryID)
	default:
		products, err = s.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	return domain.FilterProducts(products, q.AttributeFilters()...), nil
}

// SingleProductPerCategory returns the lowest-id product of every category.
func (s *ProductService) SingleProductPerCategory(ctx context.Context) ([]domain.Product, error) {
	return s.representatives(ctx, 1)
}

// TwoProductsPerCategory returns up to two lowest-id products per category.
func (s *ProductService) TwoProductsPerCategory(ctx context.Context) ([]domain.Product, error) {
	return s.representatives(ctx, 2)
}

func (s *ProductService) representatives(ctx context.Context, perCategory int) ([]domain.Product, error) {
	products, err := s.products.RepresentativesPerCategory(ctx, perCategory)
	if err != nil {
		return nil, storeError(err, "product", "")
	}
	return domain.RepresentativesPerCategory(products, perCategory), nil
}

func (s *ProductService) requireCategory(ctx context.Context, categoryID string) error {
	if categoryID == "" {
		return apperrors.NewValidationError("category is required", map[string]any{"field": "category"})
	}
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewValidationError("category does not exist", map[string]any{"category": categoryID})
		}
		return storeError(err, "category", categoryID)
	}
	return nil
}

func (s *ProductService) uploadImages(ctx context.Context, files []blobstore.File) ([]string, error) {
	if len(files) == 0 {
		return []string{}, nil
	}
	urls, err := s.images.UploadAll(ctx, files)
	if err != nil {
		return nil, apperrors.NewUpstreamFailure("image upload failed", err)
	}
	return urls, nil
}

func (s *ProductService) discardImages(ctx context.Context, urls []string) {
	if len(urls) == 0 {
		return
	}
	s.images.DeleteAll(context.WithoutCancel(ctx), urls)
}
