package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/catalog-service/internal/blobstore"
	"github.com/storefront/catalog-service/internal/events"
	"github.com/storefront/catalog-service/internal/observability"
	"github.com/storefront/catalog-service/internal/repository/repositorytest"
	apperrors "github.com/storefront/catalog-service/pkg/util"
)

type fakeBlobs struct {
	mu        sync.Mutex
	seq       int
	failOn    string
	deleteErr error
	uploads   []string
	deletes   []string
}

func (f *fakeBlobs) Upload(_ context.Context, file blobstore.File, folder string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if file.Name == f.failOn {
		return "", errors.New("media store unavailable")
	}
	f.seq++
	url := fmt.Sprintf("https://media.test/%s/%d-%s", folder, f.seq, file.Name)
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeBlobs) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, url)
	return f.deleteErr
}

func (f *fakeBlobs) deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.deletes...)
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	categories *repositorytest.Categories
	products   *repositorytest.Products
	blobs      *fakeBlobs
	events     *recorder

	categorySvc *CategoryService
	productSvc  *ProductService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		categories: repositorytest.NewCategories(),
		products:   repositorytest.NewProducts(),
		blobs:      &fakeBlobs{},
		events:     &recorder{},
	}

	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher(logger)
	for _, typ := range []events.EventType{
		events.EventProductCreated,
		events.EventProductUpdated,
		events.EventProductDeleted,
		events.EventCategoryDeleted,
	} {
		dispatcher.Subscribe(typ, f.events.handle)
	}
	NewAuditService(dispatcher, logger).RegisterHandlers()

	images := blobstore.NewManager(f.blobs, "ecommerce/product_images", logger, observability.NewMetrics(prometheus.NewRegistry()))
	f.categorySvc = NewCategoryService(CategoryDependencies{
		CategoryRepo: f.categories,
		ProductRepo:  f.products,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	f.productSvc = NewProductService(ProductDependencies{
		ProductRepo:  f.products,
		CategoryRepo: f.categories,
		Images:       images,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	return f
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, apperrors.HasCode(err, code), "expected %s, got %v", code, err)
}
