// file: internals/features/finance/invoices/service/midtrans_service.go
package service

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	model "rumahku_backend/internals/features/finance/invoices/model"
	"rumahku_backend/internals/features/finance/invoices/repository"
)

var snapClient snap.Client

// 🔌 Init Midtrans Snap client (sandbox)
func InitMidtrans(serverKey string) {
	if serverKey == "" {
		log.Println("[WARN] MIDTRANS_SERVER_KEY kosong, pembayaran gateway nonaktif")
		return
	}
	snapClient.New(serverKey, midtrans.Sandbox)
	log.Println("[INFO] Midtrans Snap client siap")
}

/* =========================================================
   SNAP TRANSACTION
========================================================= */

type SnapTokenResult struct {
	OrderID     string `json:"order_id"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
	Amount      int64  `json:"amount"`
}

// CreateSnapTransaction membuat transaksi Snap senilai sisa tagihan.
// Order id memuat invoice id supaya webhook bisa dipetakan balik.
func CreateSnapTransaction(db *gorm.DB, invoiceID uint) (*SnapTokenResult, error) {
	inv, err := repository.FindInvoiceByID(db, invoiceID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Tagihan tidak ditemukan")
		}
		return nil, err
	}
	if inv.InvoiceStatus == model.InvoiceStatusPaid {
		return nil, fiber.NewError(fiber.StatusConflict, "Tagihan sudah lunas")
	}

	paidSoFar, err := repository.SumSuccessPayments(db, inv.InvoiceID)
	if err != nil {
		return nil, err
	}
	remaining := inv.InvoiceTotalAmount - paidSoFar
	if remaining <= 0 {
		return nil, fiber.NewError(fiber.StatusConflict, "Tidak ada sisa tagihan untuk dibayar")
	}

	orderID := buildOrderID(inv.InvoiceID)
	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: remaining,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    strconv.FormatUint(uint64(inv.InvoiceID), 10),
				Name:  fmt.Sprintf("Tagihan %02d/%d", inv.InvoiceMonth, inv.InvoiceYear),
				Price: remaining,
				Qty:   1,
			},
		},
	}

	resp, snapErr := snapClient.CreateTransaction(snapReq)
	if snapErr != nil {
		log.Printf("[ERROR] midtrans CreateTransaction gagal: %v", snapErr.GetMessage())
		return nil, fiber.NewError(fiber.StatusBadGateway, "Gagal membuat transaksi pembayaran")
	}

	return &SnapTokenResult{
		OrderID:     orderID,
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
		Amount:      remaining,
	}, nil
}

func buildOrderID(invoiceID uint) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("INV-%d-%s", invoiceID, suffix)
}

func parseOrderID(orderID string) (uint, bool) {
	parts := strings.Split(orderID, "-")
	if len(parts) < 2 || parts[0] != "INV" {
		return 0, false
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

/* =========================================================
   WEBHOOK NOTIFICATION
========================================================= */

// HandleGatewayNotification memproses webhook midtrans: payload disimpan
// apa adanya sebagai audit, lalu settlement/capture dicatat sebagai
// payment SUCCESS (sekali saja — retry webhook dengan order id sama
// tidak menggandakan pembayaran).
func HandleGatewayNotification(db *gorm.DB, payload map[string]interface{}) error {
	orderID, _ := payload["order_id"].(string)
	txnStatus, _ := payload["transaction_status"].(string)
	if orderID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Notifikasi tanpa order_id")
	}

	invoiceID, ok := parseOrderID(orderID)

	raw, err := sonic.Marshal(payload)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		event := &model.PaymentGatewayEvent{
			PaymentGatewayEventOrderID: orderID,
			PaymentGatewayEventPayload: datatypes.JSON(raw),
		}
		if ok {
			event.PaymentGatewayEventInvoiceID = &invoiceID
		}
		if err := repository.CreateGatewayEvent(tx, event); err != nil {
			return err
		}

		if !ok {
			log.Printf("[WARN] order_id %s tidak dapat dipetakan ke invoice", orderID)
			return nil
		}
		if txnStatus != "settlement" && txnStatus != "capture" {
			log.Printf("[INFO] notifikasi %s status=%s, tidak ada aksi", orderID, txnStatus)
			return nil
		}

		processed, err := repository.GatewayEventProcessed(tx, orderID)
		if err != nil {
			return err
		}
		if processed {
			log.Printf("[INFO] notifikasi %s sudah pernah diproses, dilewati", orderID)
			return nil
		}

		inv, err := repository.FindInvoiceByID(tx, invoiceID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("[WARN] notifikasi %s menunjuk invoice yang tidak ada", orderID)
				return nil
			}
			return err
		}

		amount, err := grossAmount(payload)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "gross_amount tidak valid")
		}

		payment := &model.Payment{
			PaymentInvoiceID:   inv.InvoiceID,
			PaymentAmountPaid:  amount,
			PaymentDate:        time.Now(),
			PaymentMethod:      model.PaymentMethodGateway,
			PaymentTxnStatus:   model.PaymentTxnStatusSuccess,
			PaymentOnlineTxnID: orderID,
		}
		if err := repository.CreatePayment(tx, payment); err != nil {
			return err
		}
		return RecomputeInvoiceStatus(tx, inv)
	})
}

// gross_amount midtrans datang sebagai string desimal ("5000000.00")
func grossAmount(payload map[string]interface{}) (int64, error) {
	s, _ := payload["gross_amount"].(string)
	if s == "" {
		return 0, fmt.Errorf("gross_amount kosong")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}
