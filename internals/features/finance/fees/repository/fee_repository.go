// file: internals/features/finance/fees/repository/fee_repository.go
package repository

import (
	"gorm.io/gorm"

	model "rumahku_backend/internals/features/finance/fees/model"
	invoiceModel "rumahku_backend/internals/features/finance/invoices/model"
)

func FindFeeByID(db *gorm.DB, id uint) (*model.Fee, error) {
	var f model.Fee
	if err := db.First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func FindAllFees(db *gorm.DB) ([]model.Fee, error) {
	var list []model.Fee
	err := db.Order("fee_id ASC").Find(&list).Error
	return list, err
}

func FeeNameExists(db *gorm.DB, name string, excludeID uint) (bool, error) {
	q := db.Model(&model.Fee{}).Where("fee_name = ?", name)
	if excludeID != 0 {
		q = q.Where("fee_id <> ?", excludeID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

// FeeUsedInInvoices: fee yang sudah dipakai line item tagihan tidak
// boleh dihapus (snapshot harga harus tetap bisa ditelusuri).
func FeeUsedInInvoices(db *gorm.DB, feeID uint) (bool, error) {
	var count int64
	err := db.Model(&invoiceModel.InvoiceDetail{}).
		Where("invoice_detail_fee_id = ?", feeID).
		Count(&count).Error
	return count > 0, err
}

func CreateFee(db *gorm.DB, f *model.Fee) error {
	return db.Create(f).Error
}

func SaveFee(db *gorm.DB, f *model.Fee) error {
	return db.Save(f).Error
}

func DeleteFee(db *gorm.DB, f *model.Fee) error {
	return db.Delete(f).Error
}
