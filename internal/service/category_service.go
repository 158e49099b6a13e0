package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/storefront/catalog-service/internal/domain"
	"github.com/storefront/catalog-service/internal/events"
	"github.com/storefront/catalog-service/internal/repository"
	apperrors "github.com/storefront/catalog-service/pkg/util"
)

// CategoryService manages the category directory.
type CategoryService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// CategoryDependencies bundles repositories for category service.
type CategoryDependencies struct {
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewCategoryService constructs the service.
func NewCategoryService(deps CategoryDependencies) *CategoryService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{
		categories: deps.CategoryRepo,
		products:   deps.ProductRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Create adds a category. Names are unique.
func (s *CategoryService) Create(ctx context.Context, name, description string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("category name is required", map[string]any{"field": "name"})
	}

	category := &domain.Category{Name: name, Description: description}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, s.writeError(err, name, "")
	}
	return category, nil
}

// GetByID returns a category.
func (s *CategoryService) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "category", id)
	}
	return category, nil
}

// GetByName matches the name exactly, case included.
func (s *CategoryService) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	category, err := s.categories.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("category", map[string]any{"name": name})
		}
		return nil, storeError(err, "category", "")
	}
	return category, nil
}

// List returns every category.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, storeError(err, "category", "")
	}
	return categories, nil
}

// Update applies patch to the category with id.
func (s *CategoryService) Update(ctx context.Context, id string, patch domain.CategoryPatch) (*domain.Category, error) {
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return nil, apperrors.NewValidationError("category name cannot be empty", map[string]any{"field": "name"})
		}
		patch.Name = &trimmed
	}

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "category", id)
	}
	if patch.IsEmpty() {
		return category, nil
	}

	patch.Apply(category)
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, s.writeError(err, category.Name, id)
	}
	return category, nil
}

// Delete removes the category. Products referencing it are left in place
// with a dangling category id; the count is logged.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return storeError(err, "category", id)
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return storeError(err, "category", id)
	}

	orphaned, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		s.logger.Warn("could not count products of deleted category", zap.String("category_id", id), zap.Error(err))
	} else if orphaned > 0 {
		s.logger.Warn("deleted category is still referenced by products",
			zap.String("category_id", id),
			zap.String("category_name", category.Name),
			zap.Int64("products", orphaned))
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:       events.EventCategoryDeleted,
		ResourceID: id,
		Payload: events.CategoryDeletedPayload{
			Name:             category.Name,
			OrphanedProducts: orphaned,
		},
	})
	return nil
}

func (s *CategoryService) writeError(err error, name, id string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperrors.NewConflict("category name already exists", map[string]any{"name": name})
	}
	return storeError(err, "category", id)
}
