// file: internals/features/users/auth/service/auth_service.go
package service

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"rumahku_backend/internals/constants"
	"rumahku_backend/internals/features/users/auth/dto"
	model "rumahku_backend/internals/features/users/auth/model"
	"rumahku_backend/internals/features/users/auth/repository"
	householdRepo "rumahku_backend/internals/features/households/repository"
)

/* =========================================================
   REGISTER
========================================================= */

// Register: warga mendaftar sendiri dengan kode resident yang diberikan
// pengelola. Kode harus menunjuk resident yang nomor teleponnya cocok,
// dan satu resident hanya boleh punya satu akun.
func Register(db *gorm.DB, req dto.RegisterRequest) (*model.UserAccount, error) {
	var account *model.UserAccount

	err := db.Transaction(func(tx *gorm.DB) error {
		code, err := strconv.ParseUint(strings.TrimSpace(req.ResidentCode), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Kode resident tidak valid")
		}

		resident, err := householdRepo.FindResidentByID(tx, uint(code))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Kode resident tidak ditemukan")
			}
			return err
		}
		if resident.ResidentPhone != strings.TrimSpace(req.PhoneNumber) {
			return fiber.NewError(fiber.StatusBadRequest,
				"Nomor telepon tidak cocok dengan data penghuni")
		}
		// Kalau roster sudah menyimpan email, email pendaftaran harus sama
		if resident.ResidentEmail != nil && *resident.ResidentEmail != "" &&
			!strings.EqualFold(*resident.ResidentEmail, strings.TrimSpace(req.Email)) {
			return fiber.NewError(fiber.StatusBadRequest,
				"Email tidak cocok dengan data penghuni")
		}

		taken, err := repository.AccountExistsByResidentID(tx, resident.ResidentID)
		if err != nil {
			return err
		}
		if taken {
			return fiber.NewError(fiber.StatusConflict, "Penghuni ini sudah memiliki akun")
		}

		emailTaken, err := repository.AccountExistsByEmail(tx, req.Email)
		if err != nil {
			return err
		}
		if emailTaken {
			return fiber.NewError(fiber.StatusConflict, "Email sudah terdaftar")
		}

		hash, err := HashPassword(req.Password)
		if err != nil {
			return err
		}

		residentID := resident.ResidentID
		account = &model.UserAccount{
			UserAccountEmail:      req.Email,
			UserAccountPassword:   hash,
			UserAccountRole:       constants.RoleResident,
			UserAccountResidentID: &residentID,
		}
		return repository.CreateAccount(tx, account)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] akun baru terdaftar: id=%d email=%s", account.UserAccountID, account.UserAccountEmail)
	return account, nil
}

/* =========================================================
   LOGIN
========================================================= */

type LoginResult struct {
	Response     dto.LoginResponse
	RefreshToken string
}

func Login(db *gorm.DB, req dto.LoginRequest, userAgent, ip *string) (*LoginResult, error) {
	account, err := repository.FindAccountByEmail(db, req.Email)
	if err != nil {
		return nil, err
	}
	// Pesan sengaja sama untuk email tak dikenal dan password salah
	if account == nil || !CheckPassword(account.UserAccountPassword, req.Password) {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Email atau password salah")
	}

	detail, householdID, err := buildUserDetail(db, account)
	if err != nil {
		return nil, err
	}

	accessToken, err := GenerateAccessToken(account, householdID)
	if err != nil {
		return nil, err
	}

	var refresh *model.RefreshToken
	if err := db.Transaction(func(tx *gorm.DB) error {
		refresh, err = IssueRefreshToken(tx, account.UserAccountID, userAgent, ip)
		return err
	}); err != nil {
		return nil, err
	}

	return &LoginResult{
		Response: dto.LoginResponse{
			AccessToken: accessToken,
			User:        detail,
		},
		RefreshToken: refresh.RefreshTokenValue,
	}, nil
}

/* =========================================================
   REFRESH
========================================================= */

type RefreshResult struct {
	AccessToken  string
	RefreshToken string
}

func Refresh(db *gorm.DB, oldValue string) (*RefreshResult, error) {
	newToken, accountID, err := RotateRefreshToken(db, oldValue)
	if err != nil {
		return nil, err
	}

	account, err := repository.FindAccountByID(db, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Akun tidak ditemukan")
		}
		return nil, err
	}

	_, householdID, err := buildUserDetail(db, account)
	if err != nil {
		return nil, err
	}

	accessToken, err := GenerateAccessToken(account, householdID)
	if err != nil {
		return nil, err
	}

	return &RefreshResult{
		AccessToken:  accessToken,
		RefreshToken: newToken.RefreshTokenValue,
	}, nil
}

/* =========================================================
   LOGOUT
========================================================= */

func Logout(db *gorm.DB, refreshValue string) error {
	return RevokeRefreshToken(db, refreshValue)
}

/* =========================================================
   HELPERS
========================================================= */

// buildUserDetail merangkai profil login + unit milik caller (nil untuk
// admin yang tidak terikat resident).
func buildUserDetail(db *gorm.DB, account *model.UserAccount) (dto.LoginUserDetail, *uint, error) {
	detail := dto.LoginUserDetail{
		ID:    account.UserAccountID,
		Email: account.UserAccountEmail,
		Role:  account.UserAccountRole,
	}

	var householdID *uint
	if account.UserAccountResidentID != nil {
		resident, err := householdRepo.FindResidentByID(db, *account.UserAccountResidentID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return detail, nil, err
			}
			// Resident sudah dihapus tapi akun masih ada: login tetap
			// boleh, scope unit kosong
			return detail, nil, nil
		}
		detail.FullName = resident.ResidentName
		detail.Avatar = resident.ResidentAvatar
		id := resident.ResidentApartmentID
		householdID = &id
		detail.HouseholdID = householdID
	}
	return detail, householdID, nil
}
