// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"rumahku_backend/internals/configs"
	helpers "rumahku_backend/internals/helpers"
)

// Public webhook path yang di-skip auth
var skipPaths = map[string]struct{}{
	"/api/payments/notification": {},
}

func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1) Skip path tertentu (webhook dsb.)
		if _, ok := skipPaths[c.Path()]; ok {
			log.Println("[INFO] Skip AuthMiddleware for:", c.Path())
			return c.Next()
		}

		// 2) Ambil Authorization (atau cookie)
		tokenString := helpers.GetRawAccessToken(c)
		if tokenString == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing token")
		}

		// 3) Parse & verifikasi JWT
		secretKey := configs.JWTSecret
		if secretKey == "" {
			log.Println("[ERROR] JWT_SECRET kosong")
			return fiber.NewError(fiber.StatusInternalServerError, "Missing JWT Secret")
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		}); err != nil {
			log.Println("[ERROR] Gagal parse token:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token parse error")
		}

		// 4) Validasi exp (toleransi clock skew 30 detik)
		if err := validateTokenExpiry(claims, 30*time.Second); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token expired")
		}

		// 5) Hanya terima access token (refresh token bukan kredensial API)
		if typ, _ := claims["typ"].(string); typ != "access" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - wrong token type")
		}

		// 6) Simpan info klaim ke context
		if err := storeClaimsToLocals(c, claims); err != nil {
			return err
		}

		return c.Next()
	}
}

func validateTokenExpiry(claims jwt.MapClaims, leeway time.Duration) error {
	exp, ok := claims["exp"].(float64)
	if !ok {
		return fmt.Errorf("missing exp claim")
	}
	if time.Now().Add(-leeway).Unix() > int64(exp) {
		return fmt.Errorf("token expired")
	}
	return nil
}

func storeClaimsToLocals(c *fiber.Ctx, claims jwt.MapClaims) error {
	accountID := uint(0)
	switch sub := claims["sub"].(type) {
	case string:
		if n, err := strconv.ParseUint(sub, 10, 64); err == nil {
			accountID = uint(n)
		}
	case float64:
		if sub > 0 {
			accountID = uint(sub)
		}
	}
	if accountID == 0 {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or missing account ID")
	}
	c.Locals("account_id", accountID)

	if role, ok := claims["role"].(string); ok {
		c.Locals("userRole", role)
	}
	// household_id hanya ada untuk akun RESIDENT yang sudah terikat rumah
	if hh, ok := claims["household_id"].(float64); ok && hh > 0 {
		c.Locals("household_id", uint(hh))
	}
	return nil
}
