// Package blobstore uploads and deletes product images in a remote object
// store. Records only ever hold the URLs it returns.
package blobstore

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/storefront/catalog-service/internal/observability"
)

// ErrForeignURL is returned when asked to delete a URL the store never issued.
var ErrForeignURL = errors.New("url does not belong to this blob store")

// File is an in-memory upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Store is the remote object store contract.
type Store interface {
	Upload(ctx context.Context, file File, folder string) (string, error)
	Delete(ctx context.Context, url string) error
}

// Manager applies the batch policies around a Store: uploads are all-or-
// nothing, deletions are best effort.
type Manager struct {
	store   Store
	folder  string
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewManager wraps store. folder prefixes every uploaded object.
func NewManager(store Store, folder string, logger *zap.Logger, metrics *observability.Metrics) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, folder: folder, logger: logger, metrics: metrics}
}

// UploadAll uploads files concurrently and returns their URLs in input
// order. If any upload fails the call fails, and the uploads that did
// succeed are deleted again on a best-effort basis.
func (m *Manager) UploadAll(ctx context.Context, files []File) ([]string, error) {
	if len(files) == 0 {
		return []string{}, nil
	}

	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			url, err := m.store.Upload(gctx, file, m.folder)
			m.metrics.RecordBlobOp("upload", err)
			if err != nil {
				m.logger.Error("image upload failed", zap.String("file", file.Name), zap.Error(err))
				return fmt.Errorf("upload %s: %w", file.Name, err)
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		uploaded := make([]string, 0, len(urls))
		for _, url := range urls {
			if url != "" {
				uploaded = append(uploaded, url)
			}
		}
		if len(uploaded) > 0 {
			m.logger.Warn("rolling back partial image upload", zap.Int("uploaded", len(uploaded)), zap.Int("requested", len(files)))
			m.DeleteAll(context.WithoutCancel(ctx), uploaded)
		}
		return nil, err
	}

	m.logger.Info("images uploaded", zap.Int("count", len(urls)))
	return urls, nil
}

// DeleteAll issues one delete per URL concurrently. Failures are logged and
// counted, never returned.
func (m *Manager) DeleteAll(ctx context.Context, urls []string) {
	if len(urls) == 0 {
		return
	}

	var g errgroup.Group
	g.SetLimit(8)
	for _, url := range urls {
		url := url
		g.Go(func() error {
			err := m.store.Delete(ctx, url)
			m.metrics.RecordBlobOp("delete", err)
			if err != nil {
				m.logger.Warn("image delete failed", zap.String("url", url), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	m.logger.Info("image deletion finished", zap.Int("count", len(urls)))
}
