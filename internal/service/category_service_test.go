package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/catalog-service/internal/domain"
	"github.com/storefront/catalog-service/internal/events"
	apperrors "github.com/storefront/catalog-service/pkg/util"
)

func TestCategoryService_CreateThenGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.categorySvc.Create(ctx, " Shirts ", "Tops")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := f.categorySvc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Category{ID: created.ID, Name: "Shirts", Description: "Tops", CreatedAt: created.CreatedAt}, *got)
}

func TestCategoryService_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.categorySvc.Create(ctx, "   ", "")
	requireCode(t, err, apperrors.CodeValidationFailed)

	_, err = f.categorySvc.Create(ctx, "Shirts", "")
	require.NoError(t, err)
	_, err = f.categorySvc.Create(ctx, "Shirts", "again")
	requireCode(t, err, apperrors.CodeConflict)
}

func TestCategoryService_GetByNameIsCaseSensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.categorySvc.Create(ctx, "Shirts", "")
	require.NoError(t, err)

	got, err := f.categorySvc.GetByName(ctx, "Shirts")
	require.NoError(t, err)
	assert.Equal(t, "Shirts", got.Name)

	_, err = f.categorySvc.GetByName(ctx, "shirts")
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestCategoryService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shirts, err := f.categorySvc.Create(ctx, "Shirts", "Tops")
	require.NoError(t, err)
	_, err = f.categorySvc.Create(ctx, "Pants", "")
	require.NoError(t, err)

	desc := "Button-downs"
	updated, err := f.categorySvc.Update(ctx, shirts.ID, domain.CategoryPatch{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Shirts", updated.Name)
	assert.Equal(t, "Button-downs", updated.Description)

	taken := "Pants"
	_, err = f.categorySvc.Update(ctx, shirts.ID, domain.CategoryPatch{Name: &taken})
	requireCode(t, err, apperrors.CodeConflict)

	blank := " "
	_, err = f.categorySvc.Update(ctx, shirts.ID, domain.CategoryPatch{Name: &blank})
	requireCode(t, err, apperrors.CodeValidationFailed)

	_, err = f.categorySvc.Update(ctx, "missing", domain.CategoryPatch{Description: &desc})
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestCategoryService_DeleteLeavesProductsDangling(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	shirts, err := f.categorySvc.Create(ctx, "Shirts", "")
	require.NoError(t, err)
	product, err := f.productSvc.Create(ctx, domain.ProductInput{Title: "Oxford", CategoryID: shirts.ID}, nil)
	require.NoError(t, err)

	require.NoError(t, f.categorySvc.Delete(ctx, shirts.ID))

	_, err = f.categorySvc.GetByID(ctx, shirts.ID)
	requireCode(t, err, apperrors.CodeNotFound)

	still, err := f.productSvc.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, shirts.ID, still.CategoryID)

	require.Contains(t, f.events.types(), events.EventCategoryDeleted)
	last := f.events.events[len(f.events.events)-1]
	assert.Equal(t, events.CategoryDeletedPayload{Name: "Shirts", OrphanedProducts: 1}, last.Payload)

	err = f.categorySvc.Delete(ctx, shirts.ID)
	requireCode(t, err, apperrors.CodeNotFound)
}
