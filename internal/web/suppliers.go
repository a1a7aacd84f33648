package web

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"inventoryapi/internal/model"
	"inventoryapi/internal/web/client"
)

const suppliersPath = "/suppliers"

type supplierListData struct {
	page
	Suppliers []model.Supplier
}

func (h *Handler) supplierList(c *fiber.Ctx) error {
	data := supplierListData{page: flash(c, "Suppliers")}

	suppliers, err := h.api.ListSuppliers(apiCtx(c))
	if err != nil {
		data.Err = apiFailure(c, "list suppliers", err)
		return c.Status(fiber.StatusBadGateway).Render("suppliers", data, layout)
	}
	data.Suppliers = suppliers
	return c.Render("suppliers", data, layout)
}

type supplierFormData struct {
	page
	Action string
	Form   client.SupplierInput
}

func supplierInput(c *fiber.Ctx) client.SupplierInput {
	return client.SupplierInput{
		Name:          strings.TrimSpace(c.FormValue("name")),
		ContactPerson: strings.TrimSpace(c.FormValue("contact_person")),
		Phone:         strings.TrimSpace(c.FormValue("phone")),
		Email:         optional(c.FormValue("email")),
		Address:       optional(c.FormValue("address")),
	}
}

func (h *Handler) newSupplierForm(c *fiber.Ctx) error {
	return c.Render("supplier_form", supplierFormData{
		page:   flash(c, "Add Supplier"),
		Action: "/suppliers/new",
	}, layout)
}

func (h *Handler) createSupplier(c *fiber.Ctx) error {
	in := supplierInput(c)
	id, err := h.api.CreateSupplier(apiCtx(c), in)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).Render("supplier_form", supplierFormData{
			page:   page{Title: "Add Supplier", Err: apiFailure(c, "create supplier", err)},
			Action: "/suppliers/new",
			Form:   in,
		}, layout)
	}
	return redirectWith(c, suppliersPath, "msg", fmt.Sprintf("Supplier %d created.", id))
}

func (h *Handler) editSupplierForm(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return redirectWith(c, suppliersPath, "err", "Invalid supplier id.")
	}
	s, err := h.api.GetSupplier(apiCtx(c), id)
	if client.IsNotFound(err) {
		return redirectWith(c, suppliersPath, "err", fmt.Sprintf("Supplier %d not found.", id))
	}
	if err != nil {
		return redirectWith(c, suppliersPath, "err", apiFailure(c, "get supplier", err))
	}

	form := client.SupplierInput{Name: s.Name, Email: s.Email, Address: s.Address}
	if s.ContactPerson != nil {
		form.ContactPerson = *s.ContactPerson
	}
	if s.Phone != nil {
		form.Phone = *s.Phone
	}
	return c.Render("supplier_form", supplierFormData{
		page:   flash(c, "Edit Supplier"),
		Action: fmt.Sprintf("/suppliers/%d/edit", id),
		Form:   form,
	}, layout)
}

func (h *Handler) updateSupplier(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return redirectWith(c, suppliersPath, "err", "Invalid supplier id.")
	}
	in := supplierInput(c)
	msg, err := h.api.UpdateSupplier(apiCtx(c), id, in)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).Render("supplier_form", supplierFormData{
			page:   page{Title: "Edit Supplier", Err: apiFailure(c, "update supplier", err)},
			Action: fmt.Sprintf("/suppliers/%d/edit", id),
			Form:   in,
		}, layout)
	}
	return redirectWith(c, suppliersPath, "msg", msg)
}

func (h *Handler) deleteSupplier(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return redirectWith(c, suppliersPath, "err", "Invalid supplier id.")
	}
	if err := h.api.DeleteSupplier(apiCtx(c), id); err != nil {
		return redirectWith(c, suppliersPath, "err", apiFailure(c, "delete supplier", err))
	}
	return redirectWith(c, suppliersPath, "msg", fmt.Sprintf("Supplier %d deleted.", id))
}
