// file: internals/features/finance/invoices/route/invoice_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"rumahku_backend/internals/constants"
	invoiceController "rumahku_backend/internals/features/finance/invoices/controller"
	authMiddleware "rumahku_backend/internals/middlewares/auth"
)

// InvoiceRoutes: tagihan & pembayaran. Warga melihat/membayar tagihan
// unitnya sendiri (scope dijaga controller), mutasi tagihan hanya admin.
func InvoiceRoutes(app *fiber.App, db *gorm.DB) {
	invCtrl := invoiceController.NewInvoiceController(db)
	payCtrl := invoiceController.NewPaymentController(db)

	adminOnly := authMiddleware.OnlyRoles(
		constants.RoleErrorAdmin("manajemen tagihan"),
		constants.RoleAdmin,
	)

	invoices := app.Group("/api/invoices")
	invoices.Get("/", invCtrl.ListInvoices)
	invoices.Get("/:id", invCtrl.GetInvoiceByID)
	invoices.Post("/", adminOnly, invCtrl.CreateInvoice)
	invoices.Patch("/:id", adminOnly, invCtrl.UpdateInvoiceDueDate)
	invoices.Delete("/:id", adminOnly, invCtrl.DeleteInvoice)

	details := app.Group("/api/invoice-details", adminOnly)
	details.Put("/:id", invCtrl.UpdateInvoiceDetail)
	details.Delete("/:id", invCtrl.DeleteInvoiceDetail)

	payments := app.Group("/api/payments")
	// Webhook midtrans: tanpa auth (AuthMiddleware skip path)
	payments.Post("/notification", payCtrl.HandleNotification)
	payments.Get("/:invoiceID", payCtrl.ListPayments)
	payments.Post("/:invoiceID", payCtrl.ApplyPayment)
	payments.Post("/:invoiceID/snap", payCtrl.CreateSnapTransaction)
}
