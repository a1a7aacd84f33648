package handler

import (
	"database/sql"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"inventoryapi/docs"
	"inventoryapi/internal/service"
)

// Services groups the use cases served over HTTP.
type Services struct {
	Products  service.ProductService
	Suppliers service.SupplierService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services) {
	app.Get("/swagger/*", SwaggerUI())

	app.Get("/", Index())
	app.Get("/status", Status(db))
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", Liveness())

	api := app.Group("/api")

	products := api.Group("/products")
	products.Get("/", ListProducts(svc.Products))
	products.Post("/", CreateProduct(svc.Products))
	products.Get("/:id", GetProduct(svc.Products))
	products.Put("/:id", UpdateProduct(svc.Products))
	products.Delete("/:id", DeleteProduct(svc.Products))
	products.Post("/:id/stock", AdjustStock(svc.Products))
	products.Put("/:id/image", UploadProductImage(svc.Products))
	products.Get("/:id/image", GetProductImage(svc.Products))

	suppliers := api.Group("/suppliers")
	suppliers.Get("/", ListSuppliers(svc.Suppliers))
	suppliers.Post("/", CreateSupplier(svc.Suppliers))
	suppliers.Get("/:id", GetSupplier(svc.Suppliers))
	suppliers.Put("/:id", UpdateSupplier(svc.Suppliers))
	suppliers.Delete("/:id", DeleteSupplier(svc.Suppliers))
}

// SwaggerUI serves the API docs with host and scheme taken from the request,
// so the "try it out" calls work behind proxies.
func SwaggerUI() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get(fiber.HeaderXForwardedProto); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		docs.SwaggerInfo.Host = c.Get(fiber.HeaderHost)
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	}
}
