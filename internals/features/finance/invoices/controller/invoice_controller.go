// file: internals/features/finance/invoices/controller/invoice_controller.go
package controller

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"rumahku_backend/internals/constants"
	"rumahku_backend/internals/features/finance/invoices/dto"
	model "rumahku_backend/internals/features/finance/invoices/model"
	"rumahku_backend/internals/features/finance/invoices/service"
	helper "rumahku_backend/internals/helpers"
)

var validate = validator.New()

type InvoiceController struct {
	DB *gorm.DB
}

func NewInvoiceController(db *gorm.DB) *InvoiceController {
	return &InvoiceController{DB: db}
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Parameter id tidak valid")
	}
	return uint(id), nil
}

// requireInvoiceScope: caller non-admin hanya boleh menyentuh tagihan
// unit miliknya sendiri (dari klaim token, bukan input request).
func requireInvoiceScope(c *fiber.Ctx, invoiceApartmentID uint) error {
	if helper.GetUserRole(c) == constants.RoleAdmin {
		return nil
	}
	own := helper.GetHouseholdID(c)
	if own == 0 || own != invoiceApartmentID {
		return fiber.NewError(fiber.StatusForbidden,
			"Anda hanya dapat mengakses tagihan unit sendiri")
	}
	return nil
}

/* =========================================================
   INVOICE
========================================================= */

// POST /api/invoices (admin)
func (ctrl *InvoiceController) CreateInvoice(c *fiber.Ctx) error {
	var req dto.CreateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	inv, err := service.CreateInvoice(ctrl.DB, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	resp, err := service.GetInvoiceByID(ctrl.DB, inv.InvoiceID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Tagihan berhasil dibuat", resp)
}

// GET /api/invoices?apartment_id=&month=&year=&status=&search=&page=
func (ctrl *InvoiceController) ListInvoices(c *fiber.Ctx) error {
	var filter dto.InvoiceFilter

	if v := c.QueryInt("apartment_id"); v > 0 {
		id := uint(v)
		filter.ApartmentID = &id
	}
	if v := c.QueryInt("month"); v >= 1 && v <= 12 {
		filter.Month = &v
	}
	if v := c.QueryInt("year"); v > 0 {
		filter.Year = &v
	}
	if s := c.Query("status"); s != "" {
		st := model.InvoiceStatus(s)
		filter.Status = &st
	}
	filter.Keyword = c.Query("search")

	// Non-admin selalu dipaku ke unit sendiri; filter apartment_id dari
	// query diabaikan supaya scope tidak bisa di-bypass
	if helper.GetUserRole(c) != constants.RoleAdmin {
		own := helper.GetHouseholdID(c)
		if own == 0 {
			return helper.JsonError(c, fiber.StatusForbidden,
				"Akun Anda tidak terikat unit manapun")
		}
		filter.ApartmentID = &own
	}

	paging := helper.ResolvePaging(c, 20, 100)
	list, total, err := service.ListInvoices(ctrl.DB, filter, paging.Offset, paging.Limit)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	pg := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "Daftar tagihan", list, &pg)
}

// GET /api/invoices/:id
func (ctrl *InvoiceController) GetInvoiceByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	resp, err := service.GetInvoiceByID(ctrl.DB, id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := requireInvoiceScope(c, resp.ApartmentID); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Detail tagihan", resp)
}

// PATCH /api/invoices/:id (admin) — due date
func (ctrl *InvoiceController) UpdateInvoiceDueDate(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	var req dto.UpdateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}

	inv, err := service.UpdateInvoiceDueDate(ctrl.DB, id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Tagihan berhasil diperbarui", inv)
}

// DELETE /api/invoices/:id (admin)
func (ctrl *InvoiceController) DeleteInvoice(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := service.DeleteInvoice(ctrl.DB, id); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "Tagihan berhasil dihapus", fiber.Map{"id": id})
}

/* =========================================================
   DETAIL
========================================================= */

// PUT /api/invoice-details/:id (admin)
func (ctrl *InvoiceController) UpdateInvoiceDetail(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	var req dto.UpdateInvoiceDetailRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	inv, err := service.UpdateInvoiceDetail(ctrl.DB, id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	resp, err := service.GetInvoiceByID(ctrl.DB, inv.InvoiceID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Rincian tagihan berhasil diperbarui", resp)
}

// DELETE /api/invoice-details/:id (admin)
func (ctrl *InvoiceController) DeleteInvoiceDetail(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	inv, err := service.DeleteInvoiceDetail(ctrl.DB, id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	resp, err := service.GetInvoiceByID(ctrl.DB, inv.InvoiceID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "Rincian tagihan berhasil dihapus", resp)
}
