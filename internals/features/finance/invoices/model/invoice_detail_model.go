// file: internals/features/finance/invoices/model/invoice_detail_model.go
package model

import (
	"time"
)

// InvoiceDetail: satu baris tarif pada invoice. Amount adalah snapshot
// fee_unit_price × quantity saat dibuat; edit quantity mengambil harga
// fee TERKINI lagi (re-snapshot), bukan harga lama.
type InvoiceDetail struct {
	InvoiceDetailID uint `gorm:"column:invoice_detail_id;primaryKey;autoIncrement" json:"invoice_detail_id"`

	// FK → invoices(invoice_id), ikut terhapus bersama invoice
	InvoiceDetailInvoiceID uint `gorm:"column:invoice_detail_invoice_id;not null;index:ix_invoice_detail_invoice" json:"invoice_detail_invoice_id"`

	// FK → fees(fee_id)
	InvoiceDetailFeeID uint `gorm:"column:invoice_detail_fee_id;not null;index:ix_invoice_detail_fee" json:"invoice_detail_fee_id"`

	InvoiceDetailQuantity float64 `gorm:"column:invoice_detail_quantity;not null" json:"invoice_detail_quantity"`
	InvoiceDetailAmount   int64   `gorm:"column:invoice_detail_amount;not null;check:invoice_detail_amount >= 0" json:"invoice_detail_amount"`

	InvoiceDetailCreatedAt time.Time `gorm:"column:invoice_detail_created_at;not null;autoCreateTime" json:"invoice_detail_created_at"`
	InvoiceDetailUpdatedAt time.Time `gorm:"column:invoice_detail_updated_at;not null;autoUpdateTime" json:"invoice_detail_updated_at"`
}

func (InvoiceDetail) TableName() string {
	return "invoice_details"
}
