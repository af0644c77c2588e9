package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	householdRoute "rumahku_backend/internals/features/households/route"
)

func HouseholdRoutes(app *fiber.App, db *gorm.DB) {
	householdRoute.HouseholdRoutes(app, db)
}
