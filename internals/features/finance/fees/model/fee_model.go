// file: internals/features/finance/fees/model/fee_model.go
package model

import (
	"time"
)

// Fee adalah katalog referensi tarif. Harga di sini dipakai sebagai
// snapshot saat invoice detail dibuat; perubahan harga hanya berlaku
// untuk tagihan berikutnya.
type Fee struct {
	FeeID uint `gorm:"column:fee_id;primaryKey;autoIncrement" json:"fee_id"`

	FeeName        string  `gorm:"column:fee_name;type:varchar(100);not null;uniqueIndex:uniq_fee_name" json:"fee_name"`
	FeeDescription *string `gorm:"column:fee_description;type:varchar(255)" json:"fee_description,omitempty"`

	// Harga satuan (nilai uang dalam satuan terkecil, tanpa desimal)
	FeeUnitPrice int64  `gorm:"column:fee_unit_price;not null;check:fee_unit_price >= 0" json:"fee_unit_price"`
	FeeUnit      string `gorm:"column:fee_unit;type:varchar(20)" json:"fee_unit"`

	FeeBillingCycle string `gorm:"column:fee_billing_cycle;type:varchar(20)" json:"fee_billing_cycle"`
	FeeIsMandatory  bool   `gorm:"column:fee_is_mandatory;not null;default:false" json:"fee_is_mandatory"`

	FeeCreatedAt time.Time `gorm:"column:fee_created_at;not null;autoCreateTime" json:"fee_created_at"`
	FeeUpdatedAt time.Time `gorm:"column:fee_updated_at;not null;autoUpdateTime" json:"fee_updated_at"`
}

func (Fee) TableName() string {
	return "fees"
}
