// file: internals/features/households/route/household_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"rumahku_backend/internals/constants"
	householdController "rumahku_backend/internals/features/households/controller"
	authMiddleware "rumahku_backend/internals/middlewares/auth"
)

// HouseholdRoutes: manajemen rumah & penghuni, khusus admin pengelola.
func HouseholdRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := householdController.NewHouseholdController(db)

	adminOnly := authMiddleware.OnlyRoles(
		constants.RoleErrorAdmin("manajemen rumah"),
		constants.RoleAdmin,
	)

	households := app.Group("/api/households", adminOnly)
	households.Post("/", ctrl.CreateHousehold)
	households.Get("/", ctrl.GetHouseholds)
	households.Get("/:id", ctrl.GetHouseholdByID)
	households.Put("/:id", ctrl.UpdateHousehold)
	households.Delete("/:id", ctrl.DeleteHousehold)
	households.Get("/:id/members", ctrl.GetMembers)
	households.Post("/:id/members", ctrl.AddMember)

	residents := app.Group("/api/residents", adminOnly)
	residents.Get("/", ctrl.GetAllResidents)
	residents.Put("/:id", ctrl.UpdateMember)
	residents.Delete("/:id", ctrl.DeleteResident)
}
