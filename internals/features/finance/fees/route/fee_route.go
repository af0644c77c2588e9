// file: internals/features/finance/fees/route/fee_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"rumahku_backend/internals/constants"
	feeController "rumahku_backend/internals/features/finance/fees/controller"
	authMiddleware "rumahku_backend/internals/middlewares/auth"
)

// FeeRoutes: katalog tarif. Semua user login boleh lihat, mutasi hanya
// admin.
func FeeRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := feeController.NewFeeController(db)

	fees := app.Group("/api/fees")
	fees.Get("/", ctrl.GetAllFees)

	adminOnly := authMiddleware.OnlyRoles(
		constants.RoleErrorAdmin("katalog tarif"),
		constants.RoleAdmin,
	)
	fees.Post("/", adminOnly, ctrl.CreateFee)
	fees.Put("/:id", adminOnly, ctrl.UpdateFee)
	fees.Delete("/:id", adminOnly, ctrl.DeleteFee)
}
