// file: internals/features/users/auth/controller/auth_controller.go
package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"rumahku_backend/internals/configs"
	"rumahku_backend/internals/features/users/auth/dto"
	"rumahku_backend/internals/features/users/auth/service"
	helper "rumahku_backend/internals/helpers"
)

var validate = validator.New()

// Cookie refresh token: HTTP-only, secure, scoped ke path auth saja
// supaya tidak ikut terkirim di request API biasa.
const refreshCookiePath = "/api/auth"

func setRefreshCookie(c *fiber.Ctx, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    value,
		Path:     refreshCookiePath,
		Expires:  time.Now().Add(configs.RefreshTokenTTL()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
	})
}

func clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     refreshCookiePath,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
	})
}

func clientMeta(c *fiber.Ctx) (userAgent, ip *string) {
	if ua := c.Get("User-Agent"); ua != "" {
		userAgent = &ua
	}
	if addr := c.IP(); addr != "" {
		ip = &addr
	}
	return
}

// POST /api/auth/register
func Register(db *gorm.DB, c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	account, err := service.Register(db, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Registrasi berhasil", fiber.Map{
		"id":    account.UserAccountID,
		"email": account.UserAccountEmail,
		"role":  account.UserAccountRole,
	})
}

// POST /api/auth/login
func Login(db *gorm.DB, c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	ua, ip := clientMeta(c)
	result, err := service.Login(db, req, ua, ip)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	setRefreshCookie(c, result.RefreshToken)
	return helper.JsonOK(c, "Login berhasil", result.Response)
}

// POST /api/auth/refresh — rotasi: cookie lama hangus, diganti yang baru
func Refresh(db *gorm.DB, c *fiber.Ctx) error {
	oldValue := helper.GetRefreshTokenFromCookie(c)
	if oldValue == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token tidak ditemukan")
	}

	result, err := service.Refresh(db, oldValue)
	if err != nil {
		clearRefreshCookie(c)
		return helper.JsonFromError(c, err)
	}

	setRefreshCookie(c, result.RefreshToken)
	return helper.JsonOK(c, "Token diperbarui", dto.RefreshResponse{
		AccessToken: result.AccessToken,
	})
}

// POST /api/auth/logout — idempotent, token basi tetap sukses
func Logout(db *gorm.DB, c *fiber.Ctx) error {
	value := helper.GetRefreshTokenFromCookie(c)
	if err := service.Logout(db, value); err != nil {
		return helper.JsonFromError(c, err)
	}
	clearRefreshCookie(c)
	return helper.JsonOK(c, "Logout berhasil", nil)
}
