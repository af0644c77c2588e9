// file: internals/route/index.go
package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authMiddleware "rumahku_backend/internals/middlewares/auth"
	"rumahku_backend/internals/route/details"
)

// SetupRoutes menyusun seluruh route aplikasi.
// Urutan penting: route publik (auth) dulu, lalu AuthMiddleware dipasang
// pada prefix yang dilindungi, baru route fiturnya.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// 🔓 Publik
	details.AuthRoutes(app, db)

	// 🔒 Semua fitur di bawah ini butuh access token
	// (webhook /api/payments/notification di-skip di dalam middleware)
	protectedPrefixes := []string{
		"/api/households",
		"/api/residents",
		"/api/fees",
		"/api/invoices",
		"/api/invoice-details",
		"/api/payments",
	}
	for _, prefix := range protectedPrefixes {
		app.Use(prefix, authMiddleware.AuthMiddleware())
	}

	details.HouseholdRoutes(app, db)
	details.FinanceRoutes(app, db)
}
