// file: internals/features/users/auth/service/token_service.go
package service

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"rumahku_backend/internals/configs"
	model "rumahku_backend/internals/features/users/auth/model"
	"rumahku_backend/internals/features/users/auth/repository"
)

/* =========================================================
   REFRESH TOKEN STORE (opaque, rotating)
========================================================= */

// IssueRefreshToken: satu token hidup per akun — row lama selalu dihapus
// dulu, baru insert yang baru. Nilai token opaque (bukan JWT).
func IssueRefreshToken(tx *gorm.DB, accountID uint, userAgent, ip *string) (*model.RefreshToken, error) {
	if err := repository.DeleteRefreshTokensByAccountID(tx, accountID); err != nil {
		return nil, err
	}

	token := &model.RefreshToken{
		RefreshTokenValue:     uuid.NewString(),
		RefreshTokenAccountID: accountID,
		RefreshTokenExpiresAt: time.Now().Add(configs.RefreshTokenTTL()),
		RefreshTokenUserAgent: userAgent,
		RefreshTokenIP:        ip,
	}
	if err := repository.CreateRefreshToken(tx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// RotateRefreshToken: token lama single-use. Lookup → expiry sweep malas
// → issue baru (yang sekaligus menghapus row lama). Mengembalikan token
// baru beserta akun pemiliknya.
func RotateRefreshToken(db *gorm.DB, oldValue string) (*model.RefreshToken, uint, error) {
	var newToken *model.RefreshToken
	var accountID uint
	var staleErr error

	err := db.Transaction(func(tx *gorm.DB) error {
		current, err := repository.FindRefreshTokenByValue(tx, oldValue)
		if err != nil {
			return err
		}
		if current == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Refresh token tidak dikenal")
		}

		// Expiry sweep malas: tidak ada reaper background, token basi
		// dibersihkan saat tersentuh. Delete-nya harus ikut commit,
		// jadi error 401 ditahan dulu dan callback selesai tanpa error
		// (return error = rollback, row basi hidup lagi).
		if time.Now().After(current.RefreshTokenExpiresAt) {
			staleErr = fiber.NewError(fiber.StatusUnauthorized, "Refresh token kadaluarsa")
			return repository.DeleteRefreshTokenByID(tx, current.RefreshTokenID)
		}

		accountID = current.RefreshTokenAccountID
		newToken, err = IssueRefreshToken(tx, accountID,
			current.RefreshTokenUserAgent, current.RefreshTokenIP)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	if staleErr != nil {
		return nil, 0, staleErr
	}
	return newToken, accountID, nil
}

// RevokeRefreshToken idempotent: token yang sudah hilang/berputar
// dianggap sukses (logout tidak pernah gagal karena token basi).
func RevokeRefreshToken(db *gorm.DB, value string) error {
	if value == "" {
		return nil
	}
	token, err := repository.FindRefreshTokenByValue(db, value)
	if err != nil {
		return err
	}
	if token == nil {
		return nil
	}
	if err := repository.DeleteRefreshTokenByID(db, token.RefreshTokenID); err != nil {
		return err
	}
	log.Printf("[INFO] refresh token dicabut: account=%d", token.RefreshTokenAccountID)
	return nil
}

/* =========================================================
   ACCESS TOKEN (JWT pendek umur)
========================================================= */

// GenerateAccessToken memuat klaim role + household (unit milik caller)
// supaya middleware bisa menjaga scope tanpa query tambahan.
func GenerateAccessToken(account *model.UserAccount, householdID *uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"typ":  "access",
		"sub":  strconv.FormatUint(uint64(account.UserAccountID), 10),
		"role": account.UserAccountRole,
		"iat":  now.Unix(),
		"exp":  now.Add(configs.AccessTokenTTL()).Unix(),
	}
	if householdID != nil {
		claims["household_id"] = float64(*householdID)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configs.JWTSecret))
}
