package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/catalog-service/internal/api/http/handlers"
	"github.com/storefront/catalog-service/internal/auth"
	"github.com/storefront/catalog-service/internal/blobstore"
	"github.com/storefront/catalog-service/internal/config"
	"github.com/storefront/catalog-service/internal/events"
	"github.com/storefront/catalog-service/internal/observability"
	"github.com/storefront/catalog-service/internal/repository/repositorytest"
	"github.com/storefront/catalog-service/internal/service"
)

type memoryBlobs struct {
	mu      sync.Mutex
	seq     int
	deletes []string
}

func (m *memoryBlobs) Upload(_ context.Context, file blobstore.File, folder string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return fmt.Sprintf("https://media.test/%s/%d-%s", folder, m.seq, file.Name), nil
}

func (m *memoryBlobs) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, url)
	return nil
}

type testServer struct {
	app   *fiber.App
	blobs *memoryBlobs
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := config.Config{
		App:    config.AppConfig{Name: "catalog-service", Version: "test"},
		Upload: config.UploadConfig{MaxFiles: 2, MaxFileBytes: 1024},
		Auth:   config.AuthConfig{JWTSecret: "test-secret", TokenTTLHours: 24, BcryptCost: bcrypt.MinCost},
	}
	logger := zap.NewNop()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	dispatcher := events.NewInMemoryDispatcher(logger)
	blobs := &memoryBlobs{}

	users := repositorytest.NewUsers()
	categories := repositorytest.NewCategories()
	products := repositorytest.NewProducts()

	authSvc := service.NewAuthService(cfg, service.AuthDependencies{UserRepo: users, Logger: logger})
	categorySvc := service.NewCategoryService(service.CategoryDependencies{
		CategoryRepo: categories, ProductRepo: products, Dispatcher: dispatcher, Logger: logger,
	})
	productSvc := service.NewProductService(service.ProductDependencies{
		ProductRepo:  products,
		CategoryRepo: categories,
		Images:       blobstore.NewManager(blobs, "ecommerce/product_images", logger, metrics),
		Dispatcher:   dispatcher,
		Logger:       logger,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, nil),
		Auth:           handlers.NewAuthHandler(authSvc),
		Categories:     handlers.NewCategoriesHandler(categorySvc),
		Products:       handlers.NewProductsHandler(productSvc, cfg.Upload),
		AuthMiddleware: auth.NewAuthMiddleware(authSvc),
	})

	srv := &testServer{app: app, blobs: blobs}

	status, _ := srv.do(t, fiber.MethodPost, "/api/auth/register", `{"name":"Ada","email":"Ada@Example.com","password":"secret1"}`)
	require.Equal(t, fiber.StatusCreated, status)
	status, body := srv.do(t, fiber.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"secret1"}`)
	require.Equal(t, fiber.StatusOK, status)
	srv.token = body["data"].(map[string]any)["token"].(string)
	require.NotEmpty(t, srv.token)
	return srv
}

func (s *testServer) send(t *testing.T, method, target, contentType string, body io.Reader) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}
	if s.token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+s.token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	decoded := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}
	return resp.StatusCode, decoded
}

func (s *testServer) do(t *testing.T, method, target, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	contentType := ""
	if body != "" {
		reader = strings.NewReader(body)
		contentType = fiber.MIMEApplicationJSON
	}
	return s.send(t, method, target, contentType, reader)
}

func errorCode(body map[string]any) string {
	errBody, _ := body["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

func multipartBody(t *testing.T, fields map[string]string, images map[string]string) (string, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for name, contentType := range images {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="%s"`, name))
		header.Set("Content-Type", contentType)
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image " + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return w.FormDataContentType(), buf
}

func TestRoutes_RequireBearerToken(t *testing.T) {
	srv := newTestServer(t)

	anonymous := &testServer{app: srv.app}
	status, body := anonymous.do(t, fiber.MethodGet, "/api/products", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	forged := &testServer{app: srv.app, token: "forged.token.value"}
	status, body = forged.do(t, fiber.MethodGet, "/api/categories", "")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))
}

func TestRoutes_AuthErrors(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.do(t, fiber.MethodPost, "/api/auth/register", `{"name":"Ada","email":"ada@example.com","password":"secret1"}`)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "DUPLICATE_EMAIL", errorCode(body))

	status, body = srv.do(t, fiber.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"nope"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "INCORRECT_PASSWORD", errorCode(body))

	status, body = srv.do(t, fiber.MethodPost, "/api/auth/login", `{"email":"ghost@example.com","password":"secret1"}`)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "USER_NOT_FOUND", errorCode(body))

	status, body = srv.do(t, fiber.MethodPost, "/api/auth/register", `{"name":"Bo","email":"bo@example.com","password":"123"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	// 80 characters, and 25 characters that encode to 75 bytes.
	for _, password := range []string{strings.Repeat("x", 80), strings.Repeat("€", 25)} {
		status, body = srv.do(t, fiber.MethodPost, "/api/auth/register", `{"name":"Bo","email":"bo@example.com","password":"`+password+`"}`)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
	}
}

func TestRoutes_ProductLifecycleWithImages(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.do(t, fiber.MethodPost, "/api/categories", `{"name":"Shirts"}`)
	require.Equal(t, fiber.StatusCreated, status)
	categoryID := body["data"].(map[string]any)["id"].(string)

	contentType, form := multipartBody(t, map[string]string{
		"title":        "Oxford",
		"price":        "40",
		"discountRate": "25",
		"category":     categoryID,
		"color":        "Blue",
	}, map[string]string{"front.png": "image/png", "back.png": "image/png"})
	status, body = srv.send(t, fiber.MethodPost, "/api/products/with-images", contentType, form)
	require.Equal(t, fiber.StatusCreated, status, body)

	product := body["data"].(map[string]any)
	productID := product["id"].(string)
	assert.Len(t, product["images"], 2)
	assert.Equal(t, 30.0, product["priceAfterDiscount"])
	assert.Equal(t, true, product["isInStock"])

	status, body = srv.do(t, fiber.MethodGet, "/api/products/vsc/Shirts?color=blue", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, body = srv.do(t, fiber.MethodGet, "/api/products/percategory", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, body = srv.do(t, fiber.MethodPut, "/api/products/"+productID, `{"title":"Oxford","colour":"red"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, _ = srv.do(t, fiber.MethodDelete, "/api/products/"+productID, "")
	assert.Equal(t, fiber.StatusNoContent, status)
	assert.Len(t, srv.blobs.deletes, 2)

	status, body = srv.do(t, fiber.MethodGet, "/api/products/"+productID, "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestRoutes_RejectsBadUploads(t *testing.T) {
	srv := newTestServer(t)
	_, body := srv.do(t, fiber.MethodPost, "/api/categories", `{"name":"Shirts"}`)
	categoryID := body["data"].(map[string]any)["id"].(string)
	fields := map[string]string{"title": "Oxford", "price": "40", "category": categoryID}

	contentType, form := multipartBody(t, fields, map[string]string{"notes.txt": "text/plain"})
	status, body := srv.send(t, fiber.MethodPost, "/api/products/with-images", contentType, form)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	contentType, form = multipartBody(t, fields, map[string]string{"a.png": "image/png", "b.png": "image/png", "c.png": "image/png"})
	status, body = srv.send(t, fiber.MethodPost, "/api/products/with-images", contentType, form)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestRoutes_CreateProductRequiresPrice(t *testing.T) {
	srv := newTestServer(t)
	_, body := srv.do(t, fiber.MethodPost, "/api/categories", `{"name":"Shirts"}`)
	categoryID := body["data"].(map[string]any)["id"].(string)

	status, body := srv.do(t, fiber.MethodPost, "/api/products", `{"title":"T","category":"`+categoryID+`"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = srv.do(t, fiber.MethodPost, "/api/products", `{"title":"T","category":"`+categoryID+`","price":0}`)
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Equal(t, 0.0, body["data"].(map[string]any)["price"])

	contentType, form := multipartBody(t, map[string]string{"title": "T", "category": categoryID}, nil)
	status, body = srv.send(t, fiber.MethodPost, "/api/products/with-images", contentType, form)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestRoutes_PopularIsNotImplemented(t *testing.T) {
	srv := newTestServer(t)
	status, body := srv.do(t, fiber.MethodGet, "/api/products/popular", "")
	assert.Equal(t, fiber.StatusNotImplemented, status)
	assert.Equal(t, "NOT_IMPLEMENTED", errorCode(body))
}

func TestRoutes_HealthAndUnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.do(t, fiber.MethodGet, "/health/live", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, body = srv.do(t, fiber.MethodGet, "/health/ready", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ready", body["status"])

	status, body = srv.do(t, fiber.MethodGet, "/nope", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}
