// file: internals/features/users/auth/service/token_service_test.go
package service

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	model "rumahku_backend/internals/features/users/auth/model"
	"rumahku_backend/internals/features/users/auth/repository"
	householdModel "rumahku_backend/internals/features/households/model"
)

func newAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&householdModel.Apartment{},
		&householdModel.Resident{},
		&model.UserAccount{},
		&model.RefreshToken{},
	))
	return db
}

func seedAccount(t *testing.T, db *gorm.DB, email string) *model.UserAccount {
	t.Helper()
	hash, err := HashPassword("rahasia-123")
	require.NoError(t, err)
	acc := &model.UserAccount{
		UserAccountEmail:    email,
		UserAccountPassword: hash,
		UserAccountRole:     "RESIDENT",
	}
	require.NoError(t, db.Create(acc).Error)
	return acc
}

func countTokens(t *testing.T, db *gorm.DB, accountID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.RefreshToken{}).
		Where("refresh_token_account_id = ?", accountID).
		Count(&n).Error)
	return n
}

func TestIssueRefreshToken_SingleLiveTokenPerAccount(t *testing.T) {
	db := newAuthTestDB(t)
	acc := seedAccount(t, db, "budi@example.com")

	first, err := IssueRefreshToken(db, acc.UserAccountID, nil, nil)
	require.NoError(t, err)
	second, err := IssueRefreshToken(db, acc.UserAccountID, nil, nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshTokenValue, second.RefreshTokenValue)
	assert.EqualValues(t, 1, countTokens(t, db, acc.UserAccountID))

	// Token pertama sudah tidak resolve
	stale, err := repository.FindRefreshTokenByValue(db, first.RefreshTokenValue)
	require.NoError(t, err)
	assert.Nil(t, stale)

	live, err := repository.FindRefreshTokenByValue(db, second.RefreshTokenValue)
	require.NoError(t, err)
	require.NotNil(t, live)
}

func TestRotateRefreshToken_OldValueInvalidated(t *testing.T) {
	db := newAuthTestDB(t)
	acc := seedAccount(t, db, "budi@example.com")

	original, err := IssueRefreshToken(db, acc.UserAccountID, nil, nil)
	require.NoError(t, err)

	rotated, accountID, err := RotateRefreshToken(db, original.RefreshTokenValue)
	require.NoError(t, err)
	assert.Equal(t, acc.UserAccountID, accountID)
	assert.NotEqual(t, original.RefreshTokenValue, rotated.RefreshTokenValue)

	// Nilai lama single-use: rotasi kedua dengan nilai lama gagal
	_, _, err = RotateRefreshToken(db, original.RefreshTokenValue)
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusUnauthorized, fe.Code)

	assert.EqualValues(t, 1, countTokens(t, db, acc.UserAccountID))
}

func TestRotateRefreshToken_LazyExpirySweep(t *testing.T) {
	db := newAuthTestDB(t)
	acc := seedAccount(t, db, "budi@example.com")

	token, err := IssueRefreshToken(db, acc.UserAccountID, nil, nil)
	require.NoError(t, err)

	// Mundurkan expiry ke masa lalu
	require.NoError(t, db.Model(&model.RefreshToken{}).
		Where("refresh_token_id = ?", token.RefreshTokenID).
		Update("refresh_token_expires_at", time.Now().Add(-time.Minute)).Error)

	_, _, err = RotateRefreshToken(db, token.RefreshTokenValue)
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusUnauthorized, fe.Code)

	// Row basi ikut terhapus saat tersentuh
	assert.EqualValues(t, 0, countTokens(t, db, acc.UserAccountID))
}

func TestRotateRefreshToken_UnknownValue(t *testing.T) {
	db := newAuthTestDB(t)

	_, _, err := RotateRefreshToken(db, "nilai-yang-tidak-pernah-ada")
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusUnauthorized, fe.Code)
}

func TestRevokeRefreshToken_Idempotent(t *testing.T) {
	db := newAuthTestDB(t)
	acc := seedAccount(t, db, "budi@example.com")

	token, err := IssueRefreshToken(db, acc.UserAccountID, nil, nil)
	require.NoError(t, err)

	require.NoError(t, RevokeRefreshToken(db, token.RefreshTokenValue))
	assert.EqualValues(t, 0, countTokens(t, db, acc.UserAccountID))

	// Revoke ulang / token kosong tetap sukses
	require.NoError(t, RevokeRefreshToken(db, token.RefreshTokenValue))
	require.NoError(t, RevokeRefreshToken(db, ""))
}
