// file: internals/features/finance/invoices/service/invoice_service_test.go
package service

import (
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rumahku_backend/internals/features/finance/invoices/dto"
	model "rumahku_backend/internals/features/finance/invoices/model"
	"rumahku_backend/internals/features/finance/invoices/repository"
	feeModel "rumahku_backend/internals/features/finance/fees/model"
	householdModel "rumahku_backend/internals/features/households/model"
)

func newLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&householdModel.Apartment{},
		&householdModel.Resident{},
		&feeModel.Fee{},
		&model.Invoice{},
		&model.InvoiceDetail{},
		&model.Payment{},
		&model.PaymentGatewayEvent{},
	))
	return db
}

func seedApartment(t *testing.T, db *gorm.DB, number string) *householdModel.Apartment {
	t.Helper()
	apt := &householdModel.Apartment{ApartmentNumber: number}
	require.NoError(t, db.Create(apt).Error)
	return apt
}

func seedFee(t *testing.T, db *gorm.DB, name string, unitPrice int64) *feeModel.Fee {
	t.Helper()
	fee := &feeModel.Fee{FeeName: name, FeeUnitPrice: unitPrice, FeeUnit: "m3"}
	require.NoError(t, db.Create(fee).Error)
	return fee
}

func requireFiberStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok, "expected *fiber.Error, got %T: %v", err, err)
	assert.Equal(t, status, fe.Code)
}

func TestCreateInvoice_TotalEqualsSumOfDetails(t *testing.T) {
	db := newLedgerTestDB(t)
	apt := seedApartment(t, db, "P1204")
	water := seedFee(t, db, "Air", 50000)
	maintenance := seedFee(t, db, "Layanan", 200000)

	inv, err := CreateInvoice(db, dto.CreateInvoiceRequest{
		ApartmentID: apt.ApartmentID,
		Month:       12,
		Year:        2025,
		Items: []dto.FeeItemRequest{
			{FeeID: water.FeeID, Quantity: 10},
			{FeeID: maintenance.FeeID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.EqualValues(t, 700000, inv.InvoiceTotalAmount)
	assert.Equal(t, model.InvoiceStatusUnpaid, inv.InvoiceStatus)

	sum, err := repository.SumDetailAmounts(db, inv.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, inv.InvoiceTotalAmount, sum)
}

func TestCreateInvoice_DuplicatePeriod(t *testing.T) {
	db := newLedgerTestDB(t)
	apt := seedApartment(t, db, "P1204")

	_, err := CreateInvoice(db, dto.CreateInvoiceRequest{
		ApartmentID: apt.ApartmentID, Month: 12, Year: 2025,
	})
	require.NoError(t, err)

	_, err = CreateInvoice(db, dto.CreateInvoiceRequest{
		ApartmentID: apt.ApartmentID, Month: 12, Year: 2025,
	})
	requireFiberStatus(t, err, fiber.StatusConflict)
}

func TestCreateInvoice_ZeroLinesStartsUnpaid(t *testing.T) {
	db := newLedgerTestDB(t)
	apt := seedApartment(t, db, "P1204")

	inv, err := CreateInvoice(db, dto.CreateInvoiceRequest{
		ApartmentID: apt.ApartmentID, Month: 1, Year: 2026,
	})
	require.NoError(t, err)

	assert.Zero(t, inv.InvoiceTotalAmount)
	assert.Equal(t, model.InvoiceStatusUnpaid, inv.InvoiceStatus)
}

func TestUpdateInvoiceDetail_ResnapshotsCurrentPrice(t *testing.T) {
	db := newLedgerTestDB(t)
	apt := seedApartment(t, db, "P1204")
	fee := seedFee(t, db, "Air", 50000)

	inv, err := CreateInvoice(db, dto.CreateInvoiceRequest{
		ApartmentID: apt.ApartmentID, Month: 12, Year: 2025,
		Items: []dto.FeeItemRequest{{FeeID: fee.FeeID, Quantity: 10}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 500000, inv.InvoiceTotalAmount)

	// Harga naik setelah invoice dibuat
	require.NoError(t, db.Model(&feeModel.Fee{}).
		Where("fee_id = ?", fee.FeeID).
		Update("fee_unit_price", 60000).Error)

	details, err := repository.FindDetailsByInvoiceID(db, inv.InvoiceID)
	require.NoError(t, err)
	require.Len(t, details, 1)

	// Edit quantity memakai harga TERKINI, bukan snapshot lama
	updated, err := UpdateInvoiceDetail(db, details[0].InvoiceDetailID,
		dto.UpdateInvoiceDetailRequest{Quantity: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 300000, updated.InvoiceTotalAmount)
	assert.Equal(t, model.InvoiceStatusUnpaid, updated.InvoiceStatus)
}

func TestDeleteInvoiceDetail_RecomputesTotal(t *testing.T) {
	db := newLedgerTestDB(t)
	apt := seedApartment(t, db, "P1204")
	water := seedFee(t, db, "Air", 50000)
	maintenance := seedFee(t, db, "Layanan", 200000)

	inv, err := CreateInvoice(db, dto.CreateInvoiceRequest{
		ApartmentID: apt.ApartmentID, Month: 12, Year: 2025,
		Items: []dto.FeeItemRequest{
			{FeeID: water.FeeID, Quantity: 10},
			{FeeID: maintenance.FeeID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	details, err := repository.FindDetailsByInvoiceID(db, inv.InvoiceID)
	require.NoError(t, err)
	require.Len(t, details, 2)

	updated, err := DeleteInvoiceDetail(db, details[0].InvoiceDetailID)
	require.NoError(t, err)
	assert.EqualValues(t, 200000, updated.InvoiceTotalAmount)

	updated, err = DeleteInvoiceDetail(db, details[1].InvoiceDetailID)
	require.NoError(t, err)
	assert.Zero(t, updated.InvoiceTotalAmount)
}

func TestPaymentScenario_PartialThenSettled(t *testing.T) {
	db := newLedgerTestDB(t)
	apt := seedApartment(t, db, "P1204")
	fee := seedFee(t, db, "Layanan", 50000)

	inv, err := CreateInvoice(db, dto.CreateInvoiceRequest{
		ApartmentID: apt.ApartmentID, Month: 12, Year: 2025,
		Items: []dto.FeeItemRequest{{FeeID: fee.FeeID, Quantity: 100}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 5000000, inv.InvoiceTotalAmount)

	// Bayar sebagian
	amount := int64(3000000)
	_, after, err := ApplyPayment(db, inv.InvoiceID, dto.ApplyPaymentRequest{Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPartial, after.InvoiceStatus)

	paid, err := repository.SumSuccessPayments(db, inv.InvoiceID)
	require.NoError(t, err)
	assert.EqualValues(t, 3000000, paid)

	// Amount kosong = lunasi sisa
	payment, after, err := ApplyPayment(db, inv.InvoiceID, dto.ApplyPaymentRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2000000, payment.PaymentAmountPaid)
	assert.Equal(t, model.InvoiceStatusPaid, after.InvoiceStatus)
	assert.True(t, strings.HasPrefix(payment.PaymentOnlineTxnID, "MOCK-"))

	// Tagihan lunas menolak pembayaran lagi
	_, _, err = ApplyPayment(db, inv.InvoiceID, dto.ApplyPaymentRequest{})
	requireFiberStatus(t, err, fiber.StatusConflict)
}

func TestApplyPayment_OverpaymentLeavesStateUnchanged(t *testing.T) {
	db := newLedgerTestDB(t)
	apt := seedApartment(t, db, "P1204")
	fee := seedFee(t, db, "Layanan", 100000)

	inv, err := CreateInvoice(db, dto.CreateInvoiceRequest{
		ApartmentID: apt.ApartmentID, Month: 12, Year: 2025,
		Items: []dto.FeeItemRequest{{FeeID: fee.FeeID, Quantity: 1}},
	})
	require.NoError(t, err)

	amount := int64(150000)
	_, _, err = ApplyPayment(db, inv.InvoiceID, dto.ApplyPaymentRequest{Amount: &amount})
	requireFiberStatus(t, err, fiber.StatusBadRequest)

	// State tidak bergeser sedikit pun
	fresh, err := repository.FindInvoiceByID(db, inv.InvoiceID, false)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusUnpaid, fresh.InvoiceStatus)
	assert.EqualValues(t, 100000, fresh.InvoiceTotalAmount)

	var nPayments int64
	require.NoError(t, db.Model(&model.Payment{}).Count(&nPayments).Error)
	assert.Zero(t, nPayments)
}

func TestPaidInvoiceIsImmutable(t *testing.T) {
	db := newLedgerTestDB(t)
	apt := seedApartment(t, db, "P1204")
	fee := seedFee(t, db, "Layanan", 100000)

	inv, err := CreateInvoice(db, dto.CreateInvoiceRequest{
		ApartmentID: apt.ApartmentID, Month: 12, Year: 2025,
		Items: []dto.FeeItemRequest{{FeeID: fee.FeeID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, _, err = ApplyPayment(db, inv.InvoiceID, dto.ApplyPaymentRequest{})
	require.NoError(t, err)

	details, err := repository.FindDetailsByInvoiceID(db, inv.InvoiceID)
	require.NoError(t, err)
	require.Len(t, details, 1)

	_, err = UpdateInvoiceDetail(db, details[0].InvoiceDetailID,
		dto.UpdateInvoiceDetailRequest{Quantity: 2})
	requireFiberStatus(t, err, fiber.StatusConflict)

	_, err = DeleteInvoiceDetail(db, details[0].InvoiceDetailID)
	requireFiberStatus(t, err, fiber.StatusConflict)
}

func TestDeleteInvoice_Guards(t *testing.T) {
	db := newLedgerTestDB(t)
	apt := seedApartment(t, db, "P1204")
	fee := seedFee(t, db, "Layanan", 100000)

	inv, err := CreateInvoice(db, dto.CreateInvoiceRequest{
		ApartmentID: apt.ApartmentID, Month: 12, Year: 2025,
		Items: []dto.FeeItemRequest{{FeeID: fee.FeeID, Quantity: 1}},
	})
	require.NoError(t, err)

	// Status unpaid TAPI ada row payment (mis. drift) → tetap ditolak
	require.NoError(t, db.Create(&model.Payment{
		PaymentInvoiceID:  inv.InvoiceID,
		PaymentAmountPaid: 0,
		PaymentMethod:     model.PaymentMethodCash,
		PaymentTxnStatus:  model.PaymentTxnStatusPending,
	}).Error)
	err = DeleteInvoice(db, inv.InvoiceID)
	requireFiberStatus(t, err, fiber.StatusConflict)

	// Bersihkan payment → sekarang boleh, detail ikut terhapus
	require.NoError(t, db.Where("payment_invoice_id = ?", inv.InvoiceID).
		Delete(&model.Payment{}).Error)
	require.NoError(t, DeleteInvoice(db, inv.InvoiceID))

	var nDetails int64
	require.NoError(t, db.Model(&model.InvoiceDetail{}).Count(&nDetails).Error)
	assert.Zero(t, nDetails)
}

func TestListInvoices_FilterPinnedToApartment(t *testing.T) {
	db := newLedgerTestDB(t)
	apt1 := seedApartment(t, db, "P0101")
	apt2 := seedApartment(t, db, "P0202")

	_, err := CreateInvoice(db, dto.CreateInvoiceRequest{
		ApartmentID: apt1.ApartmentID, Month: 12, Year: 2025,
	})
	require.NoError(t, err)
	_, err = CreateInvoice(db, dto.CreateInvoiceRequest{
		ApartmentID: apt2.ApartmentID, Month: 12, Year: 2025,
	})
	require.NoError(t, err)

	list, total, err := ListInvoices(db, dto.InvoiceFilter{ApartmentID: &apt1.ApartmentID}, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, apt1.ApartmentID, list[0].ApartmentID)
	assert.Equal(t, "P0101", list[0].RoomNumber)
}

func TestGatewayNotification_SettlementRecordedOnce(t *testing.T) {
	db := newLedgerTestDB(t)
	apt := seedApartment(t, db, "P1204")
	fee := seedFee(t, db, "Layanan", 100000)

	inv, err := CreateInvoice(db, dto.CreateInvoiceRequest{
		ApartmentID: apt.ApartmentID, Month: 12, Year: 2025,
		Items: []dto.FeeItemRequest{{FeeID: fee.FeeID, Quantity: 1}},
	})
	require.NoError(t, err)

	payload := map[string]interface{}{
		"order_id":           buildOrderID(inv.InvoiceID),
		"transaction_status": "settlement",
		"gross_amount":       "100000.00",
	}
	// Samakan order id untuk retry
	orderID := payload["order_id"].(string)

	require.NoError(t, HandleGatewayNotification(db, payload))

	fresh, err := repository.FindInvoiceByID(db, inv.InvoiceID, false)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceStatusPaid, fresh.InvoiceStatus)

	// Webhook retry dengan order id sama tidak menggandakan payment
	require.NoError(t, HandleGatewayNotification(db, map[string]interface{}{
		"order_id":           orderID,
		"transaction_status": "settlement",
		"gross_amount":       "100000.00",
	}))

	var nPayments, nEvents int64
	require.NoError(t, db.Model(&model.Payment{}).Count(&nPayments).Error)
	require.NoError(t, db.Model(&model.PaymentGatewayEvent{}).Count(&nEvents).Error)
	assert.EqualValues(t, 1, nPayments)
	assert.EqualValues(t, 2, nEvents)
}
