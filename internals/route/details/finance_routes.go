package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	feeRoute "rumahku_backend/internals/features/finance/fees/route"
	invoiceRoute "rumahku_backend/internals/features/finance/invoices/route"
)

func FinanceRoutes(app *fiber.App, db *gorm.DB) {
	feeRoute.FeeRoutes(app, db)
	invoiceRoute.InvoiceRoutes(app, db)
}
