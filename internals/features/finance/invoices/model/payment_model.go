// file: internals/features/finance/invoices/model/payment_model.go
package model

import (
	"time"

	"gorm.io/datatypes"
)

/* ===================== Enums (string) ===================== */

const (
	PaymentTxnStatusSuccess = "SUCCESS"
	PaymentTxnStatusPending = "PENDING"
	PaymentTxnStatusFailed  = "FAILED"
)

const (
	PaymentMethodMockBanking = "MOCK_BANKING"
	PaymentMethodGateway     = "MIDTRANS_SNAP"
	PaymentMethodCash        = "CASH"
)

/* ===================== Model ===================== */

// Payment: entri ledger append-only. Tidak pernah di-update atau
// dihapus; status invoice dihitung ulang dari SUM amount SUCCESS.
type Payment struct {
	PaymentID uint `gorm:"column:payment_id;primaryKey;autoIncrement" json:"payment_id"`

	// FK → invoices(invoice_id)
	PaymentInvoiceID uint `gorm:"column:payment_invoice_id;not null;index:ix_payment_invoice" json:"payment_invoice_id"`

	PaymentAmountPaid int64     `gorm:"column:payment_amount_paid;not null;check:payment_amount_paid >= 0" json:"payment_amount_paid"`
	PaymentDate       time.Time `gorm:"column:payment_date;not null" json:"payment_date"`

	PaymentMethod    string `gorm:"column:payment_method;type:varchar(30);not null" json:"payment_method"`
	PaymentTxnStatus string `gorm:"column:payment_txn_status;type:varchar(20);not null" json:"payment_txn_status"`

	// Id transaksi eksternal (gateway / mock)
	PaymentOnlineTxnID string `gorm:"column:payment_online_txn_id;type:varchar(64)" json:"payment_online_txn_id"`

	PaymentCreatedAt time.Time `gorm:"column:payment_created_at;not null;autoCreateTime" json:"payment_created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentGatewayEvent menyimpan payload notifikasi gateway apa adanya
// (audit trail webhook midtrans), keyed by order id.
type PaymentGatewayEvent struct {
	PaymentGatewayEventID uint `gorm:"column:payment_gateway_event_id;primaryKey;autoIncrement" json:"payment_gateway_event_id"`

	PaymentGatewayEventOrderID string `gorm:"column:payment_gateway_event_order_id;type:varchar(64);not null;index:ix_pg_event_order" json:"payment_gateway_event_order_id"`

	PaymentGatewayEventInvoiceID *uint `gorm:"column:payment_gateway_event_invoice_id;index:ix_pg_event_invoice" json:"payment_gateway_event_invoice_id,omitempty"`

	PaymentGatewayEventPayload datatypes.JSON `gorm:"column:payment_gateway_event_payload" json:"payment_gateway_event_payload"`

	PaymentGatewayEventReceivedAt time.Time `gorm:"column:payment_gateway_event_received_at;not null;autoCreateTime" json:"payment_gateway_event_received_at"`
}

func (PaymentGatewayEvent) TableName() string {
	return "payment_gateway_events"
}
