// file: internals/features/users/auth/model/refresh_token_model.go
package model

import (
	"time"
)

// RefreshToken: satu row hidup per akun. Issue baru selalu menghapus
// row lama dulu, rotate = hapus + issue dalam satu transaksi.
type RefreshToken struct {
	RefreshTokenID uint `gorm:"column:refresh_token_id;primaryKey;autoIncrement" json:"refresh_token_id"`

	// Nilai token opaque (bukan JWT), unik
	RefreshTokenValue string `gorm:"column:refresh_token_value;type:varchar(64);not null;uniqueIndex:uniq_refresh_token_value" json:"-"`

	// FK → user_accounts(user_account_id)
	RefreshTokenAccountID uint `gorm:"column:refresh_token_account_id;not null;index:ix_refresh_token_account" json:"refresh_token_account_id"`

	RefreshTokenExpiresAt time.Time `gorm:"column:refresh_token_expires_at;not null" json:"refresh_token_expires_at"`

	RefreshTokenUserAgent *string `gorm:"column:refresh_token_user_agent" json:"refresh_token_user_agent,omitempty"`
	RefreshTokenIP        *string `gorm:"column:refresh_token_ip" json:"refresh_token_ip,omitempty"`

	RefreshTokenCreatedAt time.Time `gorm:"column:refresh_token_created_at;not null;autoCreateTime" json:"refresh_token_created_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
