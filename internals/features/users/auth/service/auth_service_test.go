// file: internals/features/users/auth/service/auth_service_test.go
package service

import (
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rumahku_backend/internals/configs"
	"rumahku_backend/internals/features/users/auth/dto"
	householdModel "rumahku_backend/internals/features/households/model"
)

func seedResident(t *testing.T, db *gorm.DB, phone string) *householdModel.Resident {
	t.Helper()
	apt := &householdModel.Apartment{ApartmentNumber: "P1204-" + phone}
	require.NoError(t, db.Create(apt).Error)
	r := &householdModel.Resident{
		ResidentApartmentID: apt.ApartmentID,
		ResidentName:        "Budi Santoso",
		ResidentPhone:       phone,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func TestRegister_MatchesResidentCodeAndPhone(t *testing.T) {
	db := newAuthTestDB(t)
	resident := seedResident(t, db, "0900000001")

	account, err := Register(db, dto.RegisterRequest{
		ResidentCode: strconv.FormatUint(uint64(resident.ResidentID), 10),
		PhoneNumber:  "0900000001",
		Email:        "budi@example.com",
		Password:     "rahasia-123",
	})
	require.NoError(t, err)
	require.NotNil(t, account.UserAccountResidentID)
	assert.Equal(t, resident.ResidentID, *account.UserAccountResidentID)
	assert.Equal(t, "RESIDENT", account.UserAccountRole)
	// Password tersimpan sebagai hash
	assert.NotEqual(t, "rahasia-123", account.UserAccountPassword)
}

func TestRegister_PhoneMismatchRejected(t *testing.T) {
	db := newAuthTestDB(t)
	resident := seedResident(t, db, "0900000001")

	_, err := Register(db, dto.RegisterRequest{
		ResidentCode: strconv.FormatUint(uint64(resident.ResidentID), 10),
		PhoneNumber:  "0900999999",
		Email:        "budi@example.com",
		Password:     "rahasia-123",
	})
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestRegister_EmailMustMatchRosterProfile(t *testing.T) {
	db := newAuthTestDB(t)
	resident := seedResident(t, db, "0900000001")

	profileEmail := "owner@example.com"
	require.NoError(t, db.Model(&householdModel.Resident{}).
		Where("resident_id = ?", resident.ResidentID).
		Update("resident_email", profileEmail).Error)

	code := strconv.FormatUint(uint64(resident.ResidentID), 10)

	// Email lain dari yang tercatat di roster ditolak
	_, err := Register(db, dto.RegisterRequest{
		ResidentCode: code, PhoneNumber: "0900000001",
		Email: "attacker@example.com", Password: "rahasia-123",
	})
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)

	// Email sama (beda kapitalisasi) diterima
	account, err := Register(db, dto.RegisterRequest{
		ResidentCode: code, PhoneNumber: "0900000001",
		Email: "Owner@Example.com", Password: "rahasia-123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Owner@Example.com", account.UserAccountEmail)
}

func TestRegister_OneAccountPerResident(t *testing.T) {
	db := newAuthTestDB(t)
	resident := seedResident(t, db, "0900000001")
	code := strconv.FormatUint(uint64(resident.ResidentID), 10)

	_, err := Register(db, dto.RegisterRequest{
		ResidentCode: code, PhoneNumber: "0900000001",
		Email: "budi@example.com", Password: "rahasia-123",
	})
	require.NoError(t, err)

	_, err = Register(db, dto.RegisterRequest{
		ResidentCode: code, PhoneNumber: "0900000001",
		Email: "budi2@example.com", Password: "rahasia-123",
	})
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusConflict, fe.Code)
}

func TestLoginAndRefreshFlow(t *testing.T) {
	configs.JWTSecret = "test-secret"
	db := newAuthTestDB(t)
	resident := seedResident(t, db, "0900000001")

	_, err := Register(db, dto.RegisterRequest{
		ResidentCode: strconv.FormatUint(uint64(resident.ResidentID), 10),
		PhoneNumber:  "0900000001",
		Email:        "budi@example.com",
		Password:     "rahasia-123",
	})
	require.NoError(t, err)

	result, err := Login(db, dto.LoginRequest{
		Email: "budi@example.com", Password: "rahasia-123",
	}, nil, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Response.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Budi Santoso", result.Response.User.FullName)
	require.NotNil(t, result.Response.User.HouseholdID)
	assert.Equal(t, resident.ResidentApartmentID, *result.Response.User.HouseholdID)

	// Refresh merotasi token dan menerbitkan access token baru
	refreshed, err := Refresh(db, result.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, result.RefreshToken, refreshed.RefreshToken)

	// Cookie lama sudah hangus
	_, err = Refresh(db, result.RefreshToken)
	require.Error(t, err)

	// Logout idempotent
	require.NoError(t, Logout(db, refreshed.RefreshToken))
	require.NoError(t, Logout(db, refreshed.RefreshToken))
}

func TestLogin_WrongPasswordGenericMessage(t *testing.T) {
	db := newAuthTestDB(t)
	resident := seedResident(t, db, "0900000001")

	_, err := Register(db, dto.RegisterRequest{
		ResidentCode: strconv.FormatUint(uint64(resident.ResidentID), 10),
		PhoneNumber:  "0900000001",
		Email:        "budi@example.com",
		Password:     "rahasia-123",
	})
	require.NoError(t, err)

	_, err = Login(db, dto.LoginRequest{
		Email: "budi@example.com", Password: "salah",
	}, nil, nil)
	require.Error(t, err)
	feWrong, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusUnauthorized, feWrong.Code)

	_, err = Login(db, dto.LoginRequest{
		Email: "tidak-ada@example.com", Password: "salah",
	}, nil, nil)
	require.Error(t, err)
	feUnknown, ok := err.(*fiber.Error)
	require.True(t, ok)
	// Pesan identik: tidak membocorkan email mana yang terdaftar
	assert.Equal(t, feWrong.Message, feUnknown.Message)
}
