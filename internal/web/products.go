package web

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"inventoryapi/internal/model"
	"inventoryapi/internal/web/client"
)

type productRow struct {
	model.Product
	PriceText    string
	SupplierName string
}

type productReportData struct {
	page
	Products []productRow
}

func (h *Handler) productReport(c *fiber.Ctx) error {
	data := productReportData{page: flash(c, "Product Report")}

	products, err := h.api.ListProducts(apiCtx(c))
	if err != nil {
		data.Err = apiFailure(c, "list products", err)
		return c.Status(fiber.StatusBadGateway).Render("products", data, layout)
	}

	// Supplier names are decoration; the report still renders without them.
	names := map[int64]string{}
	if suppliers, err := h.api.ListSuppliers(apiCtx(c)); err == nil {
		for _, s := range suppliers {
			names[s.ID] = s.Name
		}
	}

	data.Products = make([]productRow, 0, len(products))
	for _, p := range products {
		row := productRow{Product: p, PriceText: p.Price.StringFixed(2)}
		if p.SupplierID != nil {
			row.SupplierName = names[*p.SupplierID]
		}
		data.Products = append(data.Products, row)
	}
	return c.Render("products", data, layout)
}

type productFormData struct {
	page
	Form      client.ProductInput
	Quantity  string
	Supplier  string
	Suppliers []model.Supplier
	Statuses  []string
}

func (h *Handler) productForm(c *fiber.Ctx, data productFormData) error {
	data.Title = "Add Product"
	data.Statuses = ProductStatuses
	suppliers, err := h.api.ListSuppliers(apiCtx(c))
	if err != nil && data.Err == "" {
		data.Err = apiFailure(c, "list suppliers", err)
	}
	data.Suppliers = suppliers
	return c.Render("product_form", data, layout)
}

func (h *Handler) newProductForm(c *fiber.Ctx) error {
	return h.productForm(c, productFormData{
		page:     flash(c, ""),
		Form:     client.ProductInput{Status: model.DefaultProductStatus},
		Quantity: "0",
	})
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	data := productFormData{
		Form: client.ProductInput{
			Name:        strings.TrimSpace(c.FormValue("name")),
			SKU:         strings.TrimSpace(c.FormValue("sku")),
			Price:       strings.TrimSpace(c.FormValue("price")),
			Status:      c.FormValue("status"),
			Description: optional(c.FormValue("description")),
		},
		Quantity: strings.TrimSpace(c.FormValue("quantity")),
		Supplier: c.FormValue("supplier_id"),
	}

	qty, err := strconv.Atoi(data.Quantity)
	if err != nil {
		data.Err = "Quantity must be a whole number."
		return h.productForm(c.Status(fiber.StatusUnprocessableEntity), data)
	}
	data.Form.Quantity = qty

	if data.Supplier != "" {
		sid, err := strconv.ParseInt(data.Supplier, 10, 64)
		if err != nil {
			data.Err = "Unknown supplier."
			return h.productForm(c.Status(fiber.StatusUnprocessableEntity), data)
		}
		data.Form.SupplierID = &sid
	}

	id, err := h.api.CreateProduct(apiCtx(c), data.Form)
	if err != nil {
		data.Err = apiFailure(c, "create product", err)
		return h.productForm(c.Status(fiber.StatusUnprocessableEntity), data)
	}
	return redirectWith(c, "/", "msg", fmt.Sprintf("Product %d created.", id))
}

type statusFormData struct {
	page
	Product  *model.Product
	Statuses []string
}

func (h *Handler) statusForm(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return redirectWith(c, "/", "err", "Invalid product id.")
	}
	p, err := h.api.GetProduct(apiCtx(c), id)
	if client.IsNotFound(err) {
		return redirectWith(c, "/", "err", fmt.Sprintf("Product %d not found.", id))
	}
	if err != nil {
		return redirectWith(c, "/", "err", apiFailure(c, "get product", err))
	}
	return c.Render("product_status", statusFormData{
		page:     flash(c, "Update Status"),
		Product:  p,
		Statuses: ProductStatuses,
	}, layout)
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return redirectWith(c, "/", "err", "Invalid product id.")
	}
	msg, err := h.api.UpdateProductStatus(apiCtx(c), id, strings.TrimSpace(c.FormValue("status")))
	if err != nil {
		return redirectWith(c, "/", "err", apiFailure(c, "update product status", err))
	}
	return redirectWith(c, "/", "msg", msg)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return redirectWith(c, "/", "err", "Invalid product id.")
	}
	if err := h.api.DeleteProduct(apiCtx(c), id); err != nil {
		return redirectWith(c, "/", "err", apiFailure(c, "delete product", err))
	}
	return redirectWith(c, "/", "msg", fmt.Sprintf("Product %d deleted.", id))
}
