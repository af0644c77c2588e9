// file: internals/features/finance/invoices/service/invoice_service.go
package service

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"rumahku_backend/internals/features/finance/invoices/dto"
	model "rumahku_backend/internals/features/finance/invoices/model"
	"rumahku_backend/internals/features/finance/invoices/repository"
	feeRepo "rumahku_backend/internals/features/finance/fees/repository"
	householdRepo "rumahku_backend/internals/features/households/repository"
)

// LineAmount: snapshot harga × quantity, dibulatkan ke satuan terkecil.
func LineAmount(unitPrice int64, quantity float64) int64 {
	return int64(math.Round(float64(unitPrice) * quantity))
}

/* =========================================================
   CREATE INVOICE
========================================================= */

func CreateInvoice(db *gorm.DB, req dto.CreateInvoiceRequest) (*model.Invoice, error) {
	var inv *model.Invoice

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := householdRepo.FindApartmentByID(tx, req.ApartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Unit tidak ditemukan")
			}
			return err
		}

		dup, err := repository.InvoiceExistsForPeriod(tx, req.ApartmentID, req.Month, req.Year)
		if err != nil {
			return err
		}
		if dup {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Tagihan %02d/%d untuk unit ini sudah ada", req.Month, req.Year))
		}

		// Invoice tanpa line item pun sah: total 0, status tetap unpaid
		inv = &model.Invoice{
			InvoiceApartmentID: req.ApartmentID,
			InvoiceMonth:       req.Month,
			InvoiceYear:        req.Year,
			InvoiceDueDate:     req.DueDate,
			InvoiceStatus:      model.InvoiceStatusUnpaid,
		}
		if err := repository.CreateInvoice(tx, inv); err != nil {
			return err
		}

		var total int64
		for _, item := range req.Items {
			fee, err := feeRepo.FindFeeByID(tx, item.FeeID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusNotFound,
						fmt.Sprintf("Tarif #%d tidak ditemukan", item.FeeID))
				}
				return err
			}

			detail := &model.InvoiceDetail{
				InvoiceDetailInvoiceID: inv.InvoiceID,
				InvoiceDetailFeeID:     fee.FeeID,
				InvoiceDetailQuantity:  item.Quantity,
				InvoiceDetailAmount:    LineAmount(fee.FeeUnitPrice, item.Quantity),
			}
			if err := repository.CreateDetail(tx, detail); err != nil {
				return err
			}
			total += detail.InvoiceDetailAmount
		}

		inv.InvoiceTotalAmount = total
		return repository.SaveInvoice(tx, inv)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] invoice dibuat: id=%d unit=%d periode=%02d/%d total=%d",
		inv.InvoiceID, inv.InvoiceApartmentID, inv.InvoiceMonth, inv.InvoiceYear, inv.InvoiceTotalAmount)
	return inv, nil
}

/* =========================================================
   RECOMPUTE — satu-satunya sumber kebenaran total & status
========================================================= */

// recomputeInvoiceTotal menghitung ulang cache total dari SUM detail.
// Dipanggil di akhir SETIAP mutasi detail; jangan maintain total secara
// inkremental.
func recomputeInvoiceTotal(tx *gorm.DB, inv *model.Invoice) error {
	total, err := repository.SumDetailAmounts(tx, inv.InvoiceID)
	if err != nil {
		return err
	}
	inv.InvoiceTotalAmount = total
	return repository.SaveInvoice(tx, inv)
}

// RecomputeInvoiceStatus: status = fungsi murni dari SUM pembayaran
// SUCCESS vs total. Dipanggil setelah setiap pembayaran.
func RecomputeInvoiceStatus(tx *gorm.DB, inv *model.Invoice) error {
	paid, err := repository.SumSuccessPayments(tx, inv.InvoiceID)
	if err != nil {
		return err
	}
	switch {
	case paid == 0:
		inv.InvoiceStatus = model.InvoiceStatusUnpaid
	case paid < inv.InvoiceTotalAmount:
		inv.InvoiceStatus = model.InvoiceStatusPartial
	default:
		inv.InvoiceStatus = model.InvoiceStatusPaid
	}
	return repository.SaveInvoice(tx, inv)
}

/* =========================================================
   DETAIL MUTATIONS
========================================================= */

// UpdateInvoiceDetail: re-snapshot — amount dihitung ulang dari harga
// fee TERKINI, bukan harga saat detail dibuat. Status tidak disentuh.
func UpdateInvoiceDetail(db *gorm.DB, detailID uint, req dto.UpdateInvoiceDetailRequest) (*model.Invoice, error) {
	var inv *model.Invoice

	err := db.Transaction(func(tx *gorm.DB) error {
		detail, err := repository.FindDetailByID(tx, detailID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Rincian tagihan tidak ditemukan")
			}
			return err
		}

		inv, err = repository.FindInvoiceByID(tx, detail.InvoiceDetailInvoiceID, true)
		if err != nil {
			return err
		}
		if inv.InvoiceStatus == model.InvoiceStatusPaid {
			return fiber.NewError(fiber.StatusConflict,
				"Tagihan yang sudah lunas tidak dapat diubah")
		}

		fee, err := feeRepo.FindFeeByID(tx, detail.InvoiceDetailFeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Tarif pada rincian tidak ditemukan")
			}
			return err
		}

		detail.InvoiceDetailQuantity = req.Quantity
		detail.InvoiceDetailAmount = LineAmount(fee.FeeUnitPrice, req.Quantity)
		if err := repository.SaveDetail(tx, detail); err != nil {
			return err
		}

		return recomputeInvoiceTotal(tx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func DeleteInvoiceDetail(db *gorm.DB, detailID uint) (*model.Invoice, error) {
	var inv *model.Invoice

	err := db.Transaction(func(tx *gorm.DB) error {
		detail, err := repository.FindDetailByID(tx, detailID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Rincian tagihan tidak ditemukan")
			}
			return err
		}

		inv, err = repository.FindInvoiceByID(tx, detail.InvoiceDetailInvoiceID, true)
		if err != nil {
			return err
		}
		if inv.InvoiceStatus == model.InvoiceStatusPaid {
			return fiber.NewError(fiber.StatusConflict,
				"Tagihan yang sudah lunas tidak dapat diubah")
		}

		if err := repository.DeleteDetail(tx, detail); err != nil {
			return err
		}
		return recomputeInvoiceTotal(tx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

/* =========================================================
   INVOICE MUTATIONS
========================================================= */

// DeleteInvoice dijaga ganda: status harus tepat unpaid DAN belum ada
// row payment sama sekali (status dan tabel payment diperiksa terpisah
// karena di-update di langkah berbeda dan secara teori bisa bergeser).
func DeleteInvoice(db *gorm.DB, invoiceID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		inv, err := repository.FindInvoiceByID(tx, invoiceID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Tagihan tidak ditemukan")
			}
			return err
		}

		if inv.InvoiceStatus != model.InvoiceStatusUnpaid {
			return fiber.NewError(fiber.StatusConflict,
				"Hanya tagihan yang belum dibayar yang dapat dihapus")
		}
		hasPayment, err := repository.PaymentExistsForInvoice(tx, inv.InvoiceID)
		if err != nil {
			return err
		}
		if hasPayment {
			return fiber.NewError(fiber.StatusConflict,
				"Tagihan sudah memiliki catatan pembayaran, tidak dapat dihapus")
		}

		return repository.DeleteInvoiceCascade(tx, inv.InvoiceID)
	})
}

func UpdateInvoiceDueDate(db *gorm.DB, invoiceID uint, req dto.UpdateInvoiceRequest) (*model.Invoice, error) {
	var inv *model.Invoice

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		inv, err = repository.FindInvoiceByID(tx, invoiceID, false)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Tagihan tidak ditemukan")
			}
			return err
		}
		if req.DueDate != nil {
			inv.InvoiceDueDate = req.DueDate
		}
		return repository.SaveInvoice(tx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

/* =========================================================
   READ PROJECTIONS
========================================================= */

func GetInvoiceByID(db *gorm.DB, invoiceID uint) (*dto.InvoiceResponse, error) {
	inv, err := repository.FindInvoiceByID(db, invoiceID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Tagihan tidak ditemukan")
		}
		return nil, err
	}
	return buildInvoiceResponse(db, inv, true)
}

func ListInvoices(db *gorm.DB, filter dto.InvoiceFilter, offset, limit int) ([]dto.InvoiceResponse, int64, error) {
	invoices, total, err := repository.ListInvoices(db, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		resp, err := buildInvoiceResponse(db, &invoices[i], false)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *resp)
	}
	return out, total, nil
}

func ListInvoicePayments(db *gorm.DB, invoiceID uint) ([]dto.PaymentResponse, error) {
	if _, err := repository.FindInvoiceByID(db, invoiceID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Tagihan tidak ditemukan")
		}
		return nil, err
	}
	payments, err := repository.FindPaymentsByInvoiceID(db, invoiceID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, dto.ToPaymentResponse(p))
	}
	return out, nil
}

func buildInvoiceResponse(db *gorm.DB, inv *model.Invoice, withDetails bool) (*dto.InvoiceResponse, error) {
	roomNumber := ""
	if apt, err := householdRepo.FindApartmentByID(db, inv.InvoiceApartmentID); err == nil {
		roomNumber = apt.ApartmentNumber
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var detailResps []dto.InvoiceDetailResponse
	if withDetails {
		details, err := repository.FindDetailsByInvoiceID(db, inv.InvoiceID)
		if err != nil {
			return nil, err
		}
		detailResps = make([]dto.InvoiceDetailResponse, 0, len(details))
		for _, d := range details {
			item := dto.InvoiceDetailResponse{
				ID:       d.InvoiceDetailID,
				FeeID:    d.InvoiceDetailFeeID,
				Quantity: d.InvoiceDetailQuantity,
				Amount:   d.InvoiceDetailAmount,
			}
			if fee, err := feeRepo.FindFeeByID(db, d.InvoiceDetailFeeID); err == nil {
				item.FeeName = fee.FeeName
				item.UnitPrice = fee.FeeUnitPrice
				item.Unit = fee.FeeUnit
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			detailResps = append(detailResps, item)
		}
	}

	resp := dto.ToInvoiceResponse(*inv, roomNumber, detailResps)
	return &resp, nil
}
