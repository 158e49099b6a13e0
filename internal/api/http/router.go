package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/storefront/catalog-service/internal/api/http/handlers"
	"github.com/storefront/catalog-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Categories     *handlers.CategoriesHandler
	Products       *handlers.ProductsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	categories := api.Group("/categories", cfg.AuthMiddleware.Handle)
	categories.Post("/", cfg.Categories.Create)
	categories.Get("/", cfg.Categories.List)
	categories.Get("/name/:name", cfg.Categories.GetByName)
	categories.Get("/:id", cfg.Categories.Get)
	categories.Put("/:id", cfg.Categories.Update)
	categories.Delete("/:id", cfg.Categories.Delete)

	// Fixed paths come before /:id.
	products := api.Group("/products", cfg.AuthMiddleware.Handle)
	products.Get("/popular", cfg.Products.Popular)
	products.Get("/percategory", cfg.Products.SinglePerCategory)
	products.Get("/twopercategory", cfg.Products.TwoPerCategory)
	products.Get("/featured", cfg.Products.Featured)
	products.Get("/category/:categoryId", cfg.Products.ByCategory)
	products.Get("/vs/:categoryId", cfg.Products.SearchByCategoryID)
	products.Get("/vsc/:categoryName", cfg.Products.SearchByCategoryName)
	products.Get("/vscc/:categoryName", cfg.Products.SearchByCategoryNameAndColor)
	products.Get("/vscp/:categoryName", cfg.Products.SearchByCategoryNameAndPattern)
	products.Get("/visual_search/:categoryName", cfg.Products.SearchByCategoryName)
	products.Post("/with-images", cfg.Products.CreateWithImages)
	products.Put("/with-images/:id", cfg.Products.UpdateWithImages)
	products.Post("/", cfg.Products.Create)
	products.Get("/", cfg.Products.List)
	products.Get("/:id", cfg.Products.Get)
	products.Put("/:id", cfg.Products.Update)
	products.Delete("/:id", cfg.Products.Delete)
}
