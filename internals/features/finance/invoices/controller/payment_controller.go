// file: internals/features/finance/invoices/controller/payment_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"rumahku_backend/internals/features/finance/invoices/dto"
	"rumahku_backend/internals/features/finance/invoices/service"
	helper "rumahku_backend/internals/helpers"
)

type PaymentController struct {
	DB *gorm.DB
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{DB: db}
}

// POST /api/payments/:invoiceID — pembayaran langsung (mock banking/kasir)
func (ctrl *PaymentController) ApplyPayment(c *fiber.Ctx) error {
	invoiceID, err := parseIDParam(c, "invoiceID")
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	inv, err := service.GetInvoiceByID(ctrl.DB, invoiceID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := requireInvoiceScope(c, inv.ApartmentID); err != nil {
		return helper.JsonFromError(c, err)
	}

	var req dto.ApplyPaymentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
		}
		if err := validate.Struct(req); err != nil {
			return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
		}
	}

	payment, invoice, err := service.ApplyPayment(ctrl.DB, invoiceID, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Pembayaran berhasil dicatat", fiber.Map{
		"payment": dto.ToPaymentResponse(*payment),
		"invoice": fiber.Map{
			"id":           invoice.InvoiceID,
			"status":       invoice.InvoiceStatus,
			"total_amount": invoice.InvoiceTotalAmount,
		},
	})
}

// GET /api/payments/:invoiceID — riwayat pembayaran satu tagihan
func (ctrl *PaymentController) ListPayments(c *fiber.Ctx) error {
	invoiceID, err := parseIDParam(c, "invoiceID")
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	inv, err := service.GetInvoiceByID(ctrl.DB, invoiceID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := requireInvoiceScope(c, inv.ApartmentID); err != nil {
		return helper.JsonFromError(c, err)
	}

	payments, err := service.ListInvoicePayments(ctrl.DB, invoiceID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Riwayat pembayaran", payments)
}

// POST /api/payments/:invoiceID/snap — minta token Snap midtrans
func (ctrl *PaymentController) CreateSnapTransaction(c *fiber.Ctx) error {
	invoiceID, err := parseIDParam(c, "invoiceID")
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	inv, err := service.GetInvoiceByID(ctrl.DB, invoiceID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := requireInvoiceScope(c, inv.ApartmentID); err != nil {
		return helper.JsonFromError(c, err)
	}

	result, err := service.CreateSnapTransaction(ctrl.DB, invoiceID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Transaksi pembayaran dibuat", result)
}

// POST /api/payments/notification — webhook midtrans (tanpa auth,
// dilewati AuthMiddleware lewat skip path)
func (ctrl *PaymentController) HandleNotification(c *fiber.Ctx) error {
	var payload map[string]interface{}
	if err := c.BodyParser(&payload); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload notifikasi tidak valid")
	}

	if err := service.HandleGatewayNotification(ctrl.DB, payload); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Notifikasi diterima", nil)
}
