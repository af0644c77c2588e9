// file: internals/features/finance/invoices/dto/invoice_dto.go
package dto

import (
	"fmt"
	"time"

	model "rumahku_backend/internals/features/finance/invoices/model"
)

/* =========================================================
   REQUEST
========================================================= */

type FeeItemRequest struct {
	FeeID    uint    `json:"fee_id" validate:"required"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
}

type CreateInvoiceRequest struct {
	ApartmentID uint             `json:"apartment_id" validate:"required"`
	Month       int              `json:"month" validate:"required,min=1,max=12"`
	Year        int              `json:"year" validate:"required,min=2000,max=2100"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	Items       []FeeItemRequest `json:"items" validate:"omitempty,dive"`
}

type UpdateInvoiceDetailRequest struct {
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
}

type UpdateInvoiceRequest struct {
	DueDate *time.Time `json:"due_date,omitempty"`
}

type ApplyPaymentRequest struct {
	// nil = bayar sisa tagihan penuh
	Amount *int64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Method string `json:"method" validate:"omitempty,max=30"`
}

// Filter list invoice. ApartmentID diisi controller: untuk caller
// non-admin selalu dipaksa ke rumah milik caller sendiri.
type InvoiceFilter struct {
	ApartmentID *uint
	Month       *int
	Year        *int
	Status      *model.InvoiceStatus
	Keyword     string
}

/* =========================================================
   RESPONSE
========================================================= */

type InvoiceDetailResponse struct {
	ID        uint    `json:"id"`
	FeeID     uint    `json:"fee_id"`
	FeeName   string  `json:"fee_name"`
	UnitPrice int64   `json:"unit_price"`
	Unit      string  `json:"unit"`
	Quantity  float64 `json:"quantity"`
	Amount    int64   `json:"amount"`
}

type InvoiceResponse struct {
	ID          uint                    `json:"id"`
	Title       string                  `json:"title"`
	RoomNumber  string                  `json:"room_number"`
	ApartmentID uint                    `json:"apartment_id"`
	Month       int                     `json:"month"`
	Year        int                     `json:"year"`
	DueDate     *time.Time              `json:"due_date,omitempty"`
	Status      model.InvoiceStatus     `json:"status"`
	TotalAmount int64                   `json:"total_amount"`
	Details     []InvoiceDetailResponse `json:"details,omitempty"`
}

type PaymentResponse struct {
	ID          uint      `json:"id"`
	InvoiceID   uint      `json:"invoice_id"`
	AmountPaid  int64     `json:"amount_paid"`
	PaymentDate time.Time `json:"payment_date"`
	Method      string    `json:"method"`
	TxnStatus   string    `json:"txn_status"`
	OnlineTxnID string    `json:"online_txn_id"`
}

/* =========================================================
   MAPPER
========================================================= */

func InvoiceTitle(month, year int) string {
	return fmt.Sprintf("Tagihan %02d/%d", month, year)
}

func ToInvoiceResponse(inv model.Invoice, roomNumber string, details []InvoiceDetailResponse) InvoiceResponse {
	return InvoiceResponse{
		ID:          inv.InvoiceID,
		Title:       InvoiceTitle(inv.InvoiceMonth, inv.InvoiceYear),
		RoomNumber:  roomNumber,
		ApartmentID: inv.InvoiceApartmentID,
		Month:       inv.InvoiceMonth,
		Year:        inv.InvoiceYear,
		DueDate:     inv.InvoiceDueDate,
		Status:      inv.InvoiceStatus,
		TotalAmount: inv.InvoiceTotalAmount,
		Details:     details,
	}
}

func ToPaymentResponse(p model.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.PaymentID,
		InvoiceID:   p.PaymentInvoiceID,
		AmountPaid:  p.PaymentAmountPaid,
		PaymentDate: p.PaymentDate,
		Method:      p.PaymentMethod,
		TxnStatus:   p.PaymentTxnStatus,
		OnlineTxnID: p.PaymentOnlineTxnID,
	}
}
