// Package web serves the HTML front-end. Every page and form action goes
// through the REST API; the database is never touched here.
package web

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"

	"inventoryapi/internal/http/middleware"
	"inventoryapi/internal/logger"
	"inventoryapi/internal/model"
	"inventoryapi/internal/web/client"
)

//go:embed templates
var templateFS embed.FS

const layout = "layouts/main"

// ProductStatuses are offered in the status forms.
var ProductStatuses = []string{"Active", "Inactive", "Discontinued", "Out of Stock"}

// API is the subset of the REST client used by the pages.
type API interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	CreateProduct(ctx context.Context, in client.ProductInput) (int64, error)
	UpdateProductStatus(ctx context.Context, id int64, status string) (string, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	GetSupplier(ctx context.Context, id int64) (*model.Supplier, error)
	CreateSupplier(ctx context.Context, in client.SupplierInput) (int64, error)
	UpdateSupplier(ctx context.Context, id int64, in client.SupplierInput) (string, error)
	DeleteSupplier(ctx context.Context, id int64) error
}

// NewEngine returns the template engine over the embedded templates.
func NewEngine() *html.Engine {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("deref", func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	})
	return engine
}

// Handler renders the pages.
type Handler struct {
	api API
}

// New creates a Handler backed by api.
func New(api API) *Handler {
	return &Handler{api: api}
}

// Register attaches the page routes.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/", h.productReport)
	app.Get("/products/new", h.newProductForm)
	app.Post("/products/new", h.createProduct)
	app.Get("/products/:id/status", h.statusForm)
	app.Post("/products/:id/status", h.updateStatus)
	app.Post("/products/:id/delete", h.deleteProduct)

	app.Get("/suppliers", h.supplierList)
	app.Get("/suppliers/new", h.newSupplierForm)
	app.Post("/suppliers/new", h.createSupplier)
	app.Get("/suppliers/:id/edit", h.editSupplierForm)
	app.Post("/suppliers/:id/edit", h.updateSupplier)
	app.Post("/suppliers/:id/delete", h.deleteSupplier)
}

// apiCtx carries the request ID to the API so both access logs line up.
func apiCtx(c *fiber.Ctx) context.Context {
	return client.WithRequestID(c.UserContext(), middleware.GetRequestID(c))
}

// page is the data shared by every template.
type page struct {
	Title string
	Msg   string
	Err   string
}

func flash(c *fiber.Ctx, title string) page {
	return page{Title: title, Msg: c.Query("msg"), Err: c.Query("err")}
}

// redirectWith sends a 303 to target carrying a flash message.
func redirectWith(c *fiber.Ctx, target, key, text string) error {
	return c.Redirect(target+"?"+url.Values{key: {text}}.Encode(), fiber.StatusSeeOther)
}

// apiFailure logs err and returns the text shown to the user.
func apiFailure(c *fiber.Ctx, action string, err error) string {
	var ae *client.APIError
	if errors.As(err, &ae) {
		logger.FromContext(c.UserContext()).Info(action+" rejected by api",
			zap.Int("status", ae.Status),
			zap.String("code", ae.Code),
		)
		return ae.Error()
	}
	logger.FromContext(c.UserContext()).Error(action+" failed", zap.Error(err))
	return "The inventory API is unavailable. Please try again later."
}

func pathID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil && id > 0
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
