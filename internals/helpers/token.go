// file: internals/helpers/token.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GetRawAccessToken mengambil access token mentah dari Authorization header
// (Bearer) atau cookie "access_token".
func GetRawAccessToken(c *fiber.Ctx) string {
	authHeader := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return strings.TrimSpace(c.Cookies("access_token"))
}

// GetRefreshTokenFromCookie membaca cookie refresh_token (boleh kosong).
func GetRefreshTokenFromCookie(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Cookies("refresh_token"))
}

/* ===============================
   Locals readers (diisi AuthMiddleware)
=================================*/

// GetAccountID mengambil id akun login dari locals.
func GetAccountID(c *fiber.Ctx) (uint, error) {
	id, ok := c.Locals("account_id").(uint)
	if !ok || id == 0 {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing account id")
	}
	return id, nil
}

// GetUserRole mengambil role akun login dari locals.
func GetUserRole(c *fiber.Ctx) string {
	role, _ := c.Locals("userRole").(string)
	return role
}

// GetHouseholdID mengambil id rumah milik akun login (0 = tidak terikat rumah).
func GetHouseholdID(c *fiber.Ctx) uint {
	id, _ := c.Locals("household_id").(uint)
	return id
}
