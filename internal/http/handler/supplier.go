package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"inventoryapi/internal/model"
	"inventoryapi/internal/repository"
	"inventoryapi/internal/service"
)

const supplierNotFound = "supplier not found"

type createSupplierRequest struct {
	Name          string  `json:"name" validate:"required,max=100"`
	ContactPerson string  `json:"contact_person" validate:"required,max=100"`
	Phone         string  `json:"phone" validate:"required,max=20"`
	Email         *string `json:"email" validate:"omitempty,max=100"`
	Address       *string `json:"address"`
}

type updateSupplierRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=100"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=100"`
	Phone         *string `json:"phone" validate:"omitempty,max=20"`
	Email         *string `json:"email" validate:"omitempty,max=100"`
	Address       *string `json:"address"`
}

// ListSuppliers godoc
// @Summary      List suppliers with their products
// @Tags         suppliers
// @Produce      json
// @Param        limit   query     int  false  "Page size, 0 for all"
// @Param        offset  query     int  false  "Rows to skip"
// @Success      200  {array}   model.Supplier
// @Failure      400  {object}  errorPayload
// @Router       /api/suppliers [get]
func ListSuppliers(svc service.SupplierService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, ok := queryInt(c, "limit")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, ok := queryInt(c, "offset")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		items, err := svc.List(c.UserContext(), repository.PageQuery{Limit: limit, Offset: offset})
		if err != nil {
			return writeServiceError(c, err, supplierNotFound)
		}
		if items == nil {
			items = []model.Supplier{}
		}
		return c.JSON(items)
	}
}

// CreateSupplier godoc
// @Summary      Create a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        supplier  body      createSupplierRequest  true  "New supplier"
// @Success      201  {object}  createdResponse
// @Failure      400  {object}  errorPayload
// @Router       /api/suppliers [post]
func CreateSupplier(svc service.SupplierService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createSupplierRequest
		if err := decodeBody(c, &req); err != nil {
			return writeBodyError(c, err)
		}

		s := &model.Supplier{
			Name:          req.Name,
			ContactPerson: &req.ContactPerson,
			Phone:         &req.Phone,
			Email:         req.Email,
			Address:       req.Address,
		}
		id, err := svc.Create(c.UserContext(), s)
		if err != nil {
			return writeServiceError(c, err, supplierNotFound)
		}
		return c.Status(fiber.StatusCreated).JSON(createdResponse{
			Message: "Supplier created successfully",
			ID:      id,
		})
	}
}

// GetSupplier godoc
// @Summary      Get a supplier with its products
// @Tags         suppliers
// @Produce      json
// @Param        id   path      int  true  "Supplier ID"
// @Success      200  {object}  model.Supplier
// @Failure      400  {object}  errorPayload
// @Failure      404  {object}  errorPayload
// @Router       /api/suppliers/{id} [get]
func GetSupplier(svc service.SupplierService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		s, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err, supplierNotFound)
		}
		return c.JSON(s)
	}
}

// UpdateSupplier godoc
// @Summary      Update a supplier
// @Description  Partial update. Fields that are absent or null keep their value.
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id        path      int                    true  "Supplier ID"
// @Param        supplier  body      updateSupplierRequest  true  "Fields to change"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorPayload
// @Failure      404  {object}  errorPayload
// @Router       /api/suppliers/{id} [put]
func UpdateSupplier(svc service.SupplierService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req updateSupplierRequest
		if err := decodeBody(c, &req); err != nil {
			return writeBodyError(c, err)
		}

		u := repository.SupplierUpdate{
			Name:          req.Name,
			ContactPerson: req.ContactPerson,
			Phone:         req.Phone,
			Email:         req.Email,
			Address:       req.Address,
		}
		if err := svc.Update(c.UserContext(), id, u); err != nil {
			return writeServiceError(c, err, supplierNotFound)
		}
		return c.JSON(messageResponse{Message: fmt.Sprintf("Supplier %d updated successfully.", id)})
	}
}

// DeleteSupplier godoc
// @Summary      Delete a supplier
// @Description  Products of the supplier are kept with no supplier.
// @Tags         suppliers
// @Param        id   path  int  true  "Supplier ID"
// @Success      204
// @Failure      400  {object}  errorPayload
// @Failure      404  {object}  errorPayload
// @Router       /api/suppliers/{id} [delete]
func DeleteSupplier(svc service.SupplierService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err, supplierNotFound)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
