// file: internals/features/users/auth/model/user_account_model.go
package model

import (
	"time"
)

type UserAccount struct {
	UserAccountID uint `gorm:"column:user_account_id;primaryKey;autoIncrement" json:"user_account_id"`

	// Email sekaligus login name
	UserAccountEmail    string `gorm:"column:user_account_email;type:varchar(100);not null;uniqueIndex:uniq_user_account_email" json:"user_account_email"`
	UserAccountPassword string `gorm:"column:user_account_password;type:varchar(100);not null" json:"-"`

	// "ADMIN" atau "RESIDENT"
	UserAccountRole string `gorm:"column:user_account_role;type:varchar(20);not null;default:'RESIDENT'" json:"user_account_role"`

	// Akun admin tidak terikat resident (nullable, 1:1)
	UserAccountResidentID *uint `gorm:"column:user_account_resident_id;uniqueIndex:uniq_user_account_resident" json:"user_account_resident_id,omitempty"`

	UserAccountCreatedAt time.Time `gorm:"column:user_account_created_at;not null;autoCreateTime" json:"user_account_created_at"`
	UserAccountUpdatedAt time.Time `gorm:"column:user_account_updated_at;not null;autoUpdateTime" json:"user_account_updated_at"`
}

func (UserAccount) TableName() string {
	return "user_accounts"
}
