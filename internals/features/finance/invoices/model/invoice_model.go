// file: internals/features/finance/invoices/model/invoice_model.go
package model

import (
	"time"
)

// =========================================================
// ENUM — status invoice
// =========================================================

type InvoiceStatus string

const (
	InvoiceStatusUnpaid  InvoiceStatus = "unpaid"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// =========================================================
// MODEL
// =========================================================

// Invoice: tagihan bulanan satu unit. Total adalah hasil turunan dari
// jumlah amount detail; status adalah fungsi murni dari total vs jumlah
// pembayaran SUCCESS (lihat service RecomputeInvoiceStatus).
type Invoice struct {
	InvoiceID uint `gorm:"column:invoice_id;primaryKey;autoIncrement" json:"invoice_id"`

	// FK → apartments(apartment_id)
	InvoiceApartmentID uint `gorm:"column:invoice_apartment_id;not null;uniqueIndex:uniq_invoice_period,priority:1" json:"invoice_apartment_id"`

	InvoiceMonth int `gorm:"column:invoice_month;not null;uniqueIndex:uniq_invoice_period,priority:2" json:"invoice_month"`
	InvoiceYear  int `gorm:"column:invoice_year;not null;uniqueIndex:uniq_invoice_period,priority:3" json:"invoice_year"`

	InvoiceDueDate *time.Time `gorm:"column:invoice_due_date" json:"invoice_due_date,omitempty"`

	// Cache dari SUM(invoice_details.amount); selalu dihitung ulang
	// oleh service setiap mutasi detail.
	InvoiceTotalAmount int64 `gorm:"column:invoice_total_amount;not null;default:0" json:"invoice_total_amount"`

	InvoiceStatus InvoiceStatus `gorm:"column:invoice_status;type:varchar(10);not null;default:'unpaid';index:ix_invoice_status" json:"invoice_status"`

	InvoiceCreatedAt time.Time `gorm:"column:invoice_created_at;not null;autoCreateTime" json:"invoice_created_at"`
	InvoiceUpdatedAt time.Time `gorm:"column:invoice_updated_at;not null;autoUpdateTime" json:"invoice_updated_at"`
}

func (Invoice) TableName() string {
	return "invoices"
}
