package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"inventoryapi/internal/model"
	"inventoryapi/internal/repository"
	"inventoryapi/internal/service"
)

const productNotFound = "product not found"

// createdResponse acknowledges a create.
type createdResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type createProductRequest struct {
	Name        string           `json:"name" validate:"required,max=100"`
	SKU         string           `json:"sku" validate:"required,max=50"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0,lte=99999999.99" swaggertype:"string" example:"12.50"`
	Quantity    *int             `json:"quantity" validate:"required,gte=0,lte=2147483647"`
	SupplierID  *int64           `json:"supplier_id" validate:"omitempty,gt=0"`
	Status      string           `json:"status" validate:"omitempty,max=20"`
	Description *string          `json:"description"`
}

// updateProductRequest carries a partial update. Absent and null fields are
// left unchanged, except supplier_id where null detaches the supplier.
type updateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=100"`
	SKU         *string          `json:"sku" validate:"omitempty,min=1,max=50"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0,lte=99999999.99" swaggertype:"string"`
	Quantity    *int             `json:"quantity" validate:"omitempty,gte=0,lte=2147483647"`
	SupplierID  nullableID       `json:"supplier_id" validate:"omitempty,gt=0" swaggertype:"integer"`
	Status      *string          `json:"status" validate:"omitempty,min=1,max=20"`
	Description *string          `json:"description"`
}

func (r updateProductRequest) toUpdate() repository.ProductUpdate {
	return repository.ProductUpdate{
		Name:          r.Name,
		SKU:           r.SKU,
		Price:         r.Price,
		Quantity:      r.Quantity,
		SupplierID:    r.SupplierID.Value,
		ClearSupplier: r.SupplierID.Set && r.SupplierID.Value == nil,
		Status:        r.Status,
		Description:   r.Description,
	}
}

type adjustStockRequest struct {
	Delta *int `json:"delta" validate:"required,ne=0,gte=-2147483647,lte=2147483647"`
}

type stockResponse struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// ListProducts godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        status       query     string  false  "Filter by status"
// @Param        supplier_id  query     int     false  "Filter by supplier"
// @Param        limit        query     int     false  "Page size, 0 for all"
// @Param        offset       query     int     false  "Rows to skip"
// @Success      200  {array}   model.Product
// @Failure      400  {object}  errorPayload
// @Router       /api/products [get]
func ListProducts(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, ok := queryInt(c, "limit")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, ok := queryInt(c, "offset")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		f := repository.ProductFilter{
			Status:    c.Query("status"),
			PageQuery: repository.PageQuery{Limit: limit, Offset: offset},
		}
		if c.Query("supplier_id") != "" {
			sid, ok := queryInt(c, "supplier_id")
			if !ok || sid == 0 {
				return writeError(c, fiber.StatusBadRequest, "INVALID_SUPPLIER_ID", "invalid supplier_id")
			}
			id := int64(sid)
			f.SupplierID = &id
		}

		items, err := svc.List(c.UserContext(), f)
		if err != nil {
			return writeServiceError(c, err, productNotFound)
		}
		if items == nil {
			items = []model.Product{}
		}
		return c.JSON(items)
	}
}

// CreateProduct godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        product  body      createProductRequest  true  "New product"
// @Success      201  {object}  createdResponse
// @Failure      400  {object}  errorPayload
// @Failure      409  {object}  errorPayload
// @Failure      422  {object}  errorPayload
// @Router       /api/products [post]
func CreateProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createProductRequest
		if err := decodeBody(c, &req); err != nil {
			return writeBodyError(c, err)
		}

		p := &model.Product{
			Name:        req.Name,
			SKU:         req.SKU,
			Price:       *req.Price,
			Quantity:    *req.Quantity,
			SupplierID:  req.SupplierID,
			Status:      req.Status,
			Description: req.Description,
		}
		id, err := svc.Create(c.UserContext(), p)
		if err != nil {
			return writeServiceError(c, err, productNotFound)
		}
		return c.Status(fiber.StatusCreated).JSON(createdResponse{
			Message: "Product created successfully",
			ID:      id,
		})
	}
}

// GetProduct godoc
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  model.Product
// @Failure      400  {object}  errorPayload
// @Failure      404  {object}  errorPayload
// @Router       /api/products/{id} [get]
func GetProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err, productNotFound)
		}
		return c.JSON(p)
	}
}

// UpdateProduct godoc
// @Summary      Update a product
// @Description  Partial update. Fields that are absent or null keep their value; a null supplier_id detaches the supplier.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id       path      int                   true  "Product ID"
// @Param        product  body      updateProductRequest  true  "Fields to change"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorPayload
// @Failure      404  {object}  errorPayload
// @Failure      409  {object}  errorPayload
// @Failure      422  {object}  errorPayload
// @Router       /api/products/{id} [put]
func UpdateProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req updateProductRequest
		if err := decodeBody(c, &req); err != nil {
			return writeBodyError(c, err)
		}

		u := req.toUpdate()
		if err := svc.Update(c.UserContext(), id, u); err != nil {
			return writeServiceError(c, err, productNotFound)
		}

		msg := fmt.Sprintf("Product %d updated successfully.", id)
		if u.StatusOnly() {
			msg = fmt.Sprintf("Product %d status updated to %s.", id, *u.Status)
		}
		return c.JSON(messageResponse{Message: msg})
	}
}

// AdjustStock godoc
// @Summary      Adjust product stock
// @Description  Adds delta to the quantity. The result may not drop below zero.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id     path      int                 true  "Product ID"
// @Param        delta  body      adjustStockRequest  true  "Signed quantity change"
// @Success      200  {object}  stockResponse
// @Failure      400  {object}  errorPayload
// @Failure      404  {object}  errorPayload
// @Failure      409  {object}  errorPayload
// @Router       /api/products/{id}/stock [post]
func AdjustStock(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req adjustStockRequest
		if err := decodeBody(c, &req); err != nil {
			return writeBodyError(c, err)
		}

		qty, err := svc.AdjustStock(c.UserContext(), id, *req.Delta)
		if err != nil {
			return writeServiceError(c, err, productNotFound)
		}
		return c.JSON(stockResponse{ProductID: id, Quantity: qty})
	}
}

// UploadProductImage godoc
// @Summary      Upload a product image
// @Description  Replaces the current image. Requires object storage.
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      int   true  "Product ID"
// @Param        file  formData  file  true  "Image file"
// @Success      200  {object}  model.Product
// @Failure      400  {object}  errorPayload
// @Failure      404  {object}  errorPayload
// @Failure      503  {object}  errorPayload
// @Router       /api/products/{id}/image [put]
func UploadProductImage(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		p, err := svc.UploadImage(c.UserContext(), id, f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeServiceError(c, err, productNotFound)
		}
		return c.JSON(p)
	}
}

// GetProductImage godoc
// @Summary      Download a product image
// @Description  Redirects to a short-lived presigned URL.
// @Tags         products
// @Param        id   path  int  true  "Product ID"
// @Success      307
// @Failure      400  {object}  errorPayload
// @Failure      404  {object}  errorPayload
// @Failure      503  {object}  errorPayload
// @Router       /api/products/{id}/image [get]
func GetProductImage(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		u, err := svc.ImageURL(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err, productNotFound)
		}
		return c.Redirect(u, fiber.StatusTemporaryRedirect)
	}
}

// DeleteProduct godoc
// @Summary      Delete a product
// @Tags         products
// @Param        id   path  int  true  "Product ID"
// @Success      204
// @Failure      400  {object}  errorPayload
// @Failure      404  {object}  errorPayload
// @Router       /api/products/{id} [delete]
func DeleteProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err, productNotFound)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
