// file: internals/features/finance/invoices/repository/invoice_repository.go
package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rumahku_backend/internals/features/finance/invoices/dto"
	model "rumahku_backend/internals/features/finance/invoices/model"
)

/* ====================== INVOICE ====================== */

// FindInvoiceByID, forUpdate=true mengunci row invoice selama transaksi
// pembayaran (Postgres only; sqlite tidak punya FOR UPDATE).
func FindInvoiceByID(db *gorm.DB, id uint, forUpdate bool) (*model.Invoice, error) {
	q := db.Session(&gorm.Session{})
	if forUpdate && db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var inv model.Invoice
	if err := q.First(&inv, id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func InvoiceExistsForPeriod(db *gorm.DB, apartmentID uint, month, year int) (bool, error) {
	var count int64
	err := db.Model(&model.Invoice{}).
		Where("invoice_apartment_id = ? AND invoice_month = ? AND invoice_year = ?",
			apartmentID, month, year).
		Count(&count).Error
	return count > 0, err
}

func InvoiceExistsForApartment(db *gorm.DB, apartmentID uint) (bool, error) {
	var count int64
	err := db.Model(&model.Invoice{}).
		Where("invoice_apartment_id = ?", apartmentID).
		Count(&count).Error
	return count > 0, err
}

// UnpaidInvoiceExistsForApartment: guard hapus rumah — masih ada
// tagihan yang belum lunas berarti tidak boleh dihapus.
func UnpaidInvoiceExistsForApartment(db *gorm.DB, apartmentID uint) (bool, error) {
	var count int64
	err := db.Model(&model.Invoice{}).
		Where("invoice_apartment_id = ? AND invoice_status <> ?",
			apartmentID, model.InvoiceStatusPaid).
		Count(&count).Error
	return count > 0, err
}

func CreateInvoice(db *gorm.DB, inv *model.Invoice) error {
	return db.Create(inv).Error
}

func SaveInvoice(db *gorm.DB, inv *model.Invoice) error {
	return db.Save(inv).Error
}

func DeleteInvoiceCascade(db *gorm.DB, invoiceID uint) error {
	if err := db.Where("invoice_detail_invoice_id = ?", invoiceID).
		Delete(&model.InvoiceDetail{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.Invoice{}, invoiceID).Error
}

// ListInvoices: filter gabungan unit/bulan/tahun/status + keyword nomor
// unit, hasil paged terbaru dulu.
func ListInvoices(db *gorm.DB, f dto.InvoiceFilter, offset, limit int) ([]model.Invoice, int64, error) {
	q := db.Model(&model.Invoice{})

	if f.ApartmentID != nil {
		q = q.Where("invoice_apartment_id = ?", *f.ApartmentID)
	}
	if f.Month != nil {
		q = q.Where("invoice_month = ?", *f.Month)
	}
	if f.Year != nil {
		q = q.Where("invoice_year = ?", *f.Year)
	}
	if f.Status != nil {
		q = q.Where("invoice_status = ?", *f.Status)
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		q = q.Where(
			"invoice_apartment_id IN (SELECT apartment_id FROM apartments WHERE LOWER(apartment_number) LIKE ?)",
			"%"+strings.ToLower(kw)+"%",
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Invoice
	err := q.Order("invoice_year DESC, invoice_month DESC, invoice_id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	return list, total, err
}

/* ====================== DETAIL ====================== */

func FindDetailByID(db *gorm.DB, id uint) (*model.InvoiceDetail, error) {
	var d model.InvoiceDetail
	if err := db.First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func FindDetailsByInvoiceID(db *gorm.DB, invoiceID uint) ([]model.InvoiceDetail, error) {
	var list []model.InvoiceDetail
	err := db.Where("invoice_detail_invoice_id = ?", invoiceID).
		Order("invoice_detail_id ASC").
		Find(&list).Error
	return list, err
}

func DetailExistsForFee(db *gorm.DB, invoiceID, feeID uint) (bool, error) {
	var count int64
	err := db.Model(&model.InvoiceDetail{}).
		Where("invoice_detail_invoice_id = ? AND invoice_detail_fee_id = ?", invoiceID, feeID).
		Count(&count).Error
	return count > 0, err
}

func CreateDetail(db *gorm.DB, d *model.InvoiceDetail) error {
	return db.Create(d).Error
}

func SaveDetail(db *gorm.DB, d *model.InvoiceDetail) error {
	return db.Save(d).Error
}

func DeleteDetail(db *gorm.DB, d *model.InvoiceDetail) error {
	return db.Delete(d).Error
}

func SumDetailAmounts(db *gorm.DB, invoiceID uint) (int64, error) {
	var total int64
	err := db.Model(&model.InvoiceDetail{}).
		Where("invoice_detail_invoice_id = ?", invoiceID).
		Select("COALESCE(SUM(invoice_detail_amount), 0)").
		Scan(&total).Error
	return total, err
}

/* ====================== PAYMENT ====================== */

func CreatePayment(db *gorm.DB, p *model.Payment) error {
	return db.Create(p).Error
}

func FindPaymentsByInvoiceID(db *gorm.DB, invoiceID uint) ([]model.Payment, error) {
	var list []model.Payment
	err := db.Where("payment_invoice_id = ?", invoiceID).
		Order("payment_id ASC").
		Find(&list).Error
	return list, err
}

func PaymentExistsForInvoice(db *gorm.DB, invoiceID uint) (bool, error) {
	var count int64
	err := db.Model(&model.Payment{}).
		Where("payment_invoice_id = ?", invoiceID).
		Count(&count).Error
	return count > 0, err
}

// SumSuccessPayments: hanya entri SUCCESS yang dihitung ke pelunasan.
func SumSuccessPayments(db *gorm.DB, invoiceID uint) (int64, error) {
	var total int64
	err := db.Model(&model.Payment{}).
		Where("payment_invoice_id = ? AND payment_txn_status = ?",
			invoiceID, model.PaymentTxnStatusSuccess).
		Select("COALESCE(SUM(payment_amount_paid), 0)").
		Scan(&total).Error
	return total, err
}

func CreateGatewayEvent(db *gorm.DB, e *model.PaymentGatewayEvent) error {
	return db.Create(e).Error
}

// GatewayEventProcessed: order id yang sudah pernah menghasilkan payment
// SUCCESS tidak boleh diproses dua kali (webhook retry).
func GatewayEventProcessed(db *gorm.DB, orderID string) (bool, error) {
	var count int64
	err := db.Model(&model.Payment{}).
		Where("payment_online_txn_id = ? AND payment_txn_status = ?",
			orderID, model.PaymentTxnStatusSuccess).
		Count(&count).Error
	return count > 0, err
}

// IsNotFound untuk caller yang mau bedakan not-found vs error DB.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
