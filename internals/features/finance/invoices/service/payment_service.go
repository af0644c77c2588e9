// file: internals/features/finance/invoices/service/payment_service.go
package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"rumahku_backend/internals/features/finance/invoices/dto"
	model "rumahku_backend/internals/features/finance/invoices/model"
	"rumahku_backend/internals/features/finance/invoices/repository"
)

/* =========================================================
   APPLY PAYMENT (mock banking / kasir)
========================================================= */

// ApplyPayment mencatat pembayaran SUCCESS lalu menghitung ulang status.
// Amount nil = bayar sisa penuh. Overpayment adalah hard error, tidak
// di-clamp dan tidak jadi saldo.
func ApplyPayment(db *gorm.DB, invoiceID uint, req dto.ApplyPaymentRequest) (*model.Payment, *model.Invoice, error) {
	var payment *model.Payment
	var inv *model.Invoice

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		// Row invoice dikunci sampai commit: dua pembayaran berbarengan
		// tidak bisa sama-sama lolos cek sisa tagihan
		inv, err = repository.FindInvoiceByID(tx, invoiceID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Tagihan tidak ditemukan")
			}
			return err
		}

		if inv.InvoiceStatus == model.InvoiceStatusPaid {
			return fiber.NewError(fiber.StatusConflict, "Tagihan sudah lunas")
		}

		paidSoFar, err := repository.SumSuccessPayments(tx, inv.InvoiceID)
		if err != nil {
			return err
		}
		remaining := inv.InvoiceTotalAmount - paidSoFar

		amount := remaining
		if req.Amount != nil {
			amount = *req.Amount
			if amount > remaining {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Jumlah bayar %d melebihi sisa tagihan %d", amount, remaining))
			}
		}

		method := req.Method
		if method == "" {
			method = model.PaymentMethodMockBanking
		}

		payment = &model.Payment{
			PaymentInvoiceID:   inv.InvoiceID,
			PaymentAmountPaid:  amount,
			PaymentDate:        time.Now(),
			PaymentMethod:      method,
			PaymentTxnStatus:   model.PaymentTxnStatusSuccess,
			PaymentOnlineTxnID: "MOCK-" + uuid.NewString(),
		}
		if err := repository.CreatePayment(tx, payment); err != nil {
			return err
		}

		return RecomputeInvoiceStatus(tx, inv)
	})
	if err != nil {
		return nil, nil, err
	}

	log.Printf("[INFO] pembayaran dicatat: invoice=%d amount=%d status=%s",
		inv.InvoiceID, payment.PaymentAmountPaid, inv.InvoiceStatus)
	return payment, inv, nil
}
