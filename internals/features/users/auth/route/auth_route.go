// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "rumahku_backend/internals/features/users/auth/controller"
	"rumahku_backend/internals/middlewares"
)

// AuthRoutes: register/login/refresh/logout, semuanya publik (refresh &
// logout diautentikasi lewat cookie refresh token, bukan access token).
func AuthRoutes(app *fiber.App, db *gorm.DB) {
	auth := app.Group("/api/auth")

	auth.Post("/register", middlewares.RegisterRateLimiter(), func(c *fiber.Ctx) error {
		return authController.Register(db, c)
	})
	auth.Post("/login", middlewares.LoginRateLimiter(), func(c *fiber.Ctx) error {
		return authController.Login(db, c)
	})
	auth.Post("/refresh", func(c *fiber.Ctx) error {
		return authController.Refresh(db, c)
	})
	auth.Post("/logout", func(c *fiber.Ctx) error {
		return authController.Logout(db, c)
	})
}
