// file: internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"errors"

	"gorm.io/gorm"

	model "rumahku_backend/internals/features/users/auth/model"
)

/* ====================== USER ACCOUNT ====================== */

func FindAccountByID(db *gorm.DB, id uint) (*model.UserAccount, error) {
	var a model.UserAccount
	if err := db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func FindAccountByEmail(db *gorm.DB, email string) (*model.UserAccount, error) {
	var a model.UserAccount
	if err := db.Where("user_account_email = ?", email).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func AccountExistsByEmail(db *gorm.DB, email string) (bool, error) {
	var count int64
	err := db.Model(&model.UserAccount{}).
		Where("user_account_email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func AccountExistsByResidentID(db *gorm.DB, residentID uint) (bool, error) {
	var count int64
	err := db.Model(&model.UserAccount{}).
		Where("user_account_resident_id = ?", residentID).
		Count(&count).Error
	return count > 0, err
}

func CreateAccount(db *gorm.DB, a *model.UserAccount) error {
	return db.Create(a).Error
}

/* ====================== REFRESH TOKEN ====================== */

func FindRefreshTokenByValue(db *gorm.DB, value string) (*model.RefreshToken, error) {
	var t model.RefreshToken
	if err := db.Where("refresh_token_value = ?", value).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func CreateRefreshToken(db *gorm.DB, t *model.RefreshToken) error {
	return db.Create(t).Error
}

// DeleteRefreshTokensByAccountID: satu akun hanya punya satu refresh
// token hidup; issue baru menghapus semua token lamanya.
func DeleteRefreshTokensByAccountID(db *gorm.DB, accountID uint) error {
	return db.Where("refresh_token_account_id = ?", accountID).
		Delete(&model.RefreshToken{}).Error
}

func DeleteRefreshTokenByID(db *gorm.DB, id uint) error {
	return db.Delete(&model.RefreshToken{}, id).Error
}
