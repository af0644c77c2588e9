// file: internals/features/households/service/household_service_test.go
package service

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"rumahku_backend/internals/features/households/dto"
	model "rumahku_backend/internals/features/households/model"
	"rumahku_backend/internals/features/households/repository"
	invoiceModel "rumahku_backend/internals/features/finance/invoices/model"
	authModel "rumahku_backend/internals/features/users/auth/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Apartment{},
		&model.Resident{},
		&authModel.UserAccount{},
		&authModel.RefreshToken{},
		&invoiceModel.Invoice{},
		&invoiceModel.InvoiceDetail{},
		&invoiceModel.Payment{},
	))
	return db
}

func householdReq(room, owner, phone string) dto.HouseholdRequest {
	return dto.HouseholdRequest{
		RoomNumber:  room,
		Building:    "A",
		OwnerName:   owner,
		PhoneNumber: phone,
	}
}

func countHosts(t *testing.T, db *gorm.DB, apartmentID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.Resident{}).
		Where("resident_apartment_id = ? AND resident_is_host = ?", apartmentID, true).
		Count(&n).Error)
	return n
}

func TestCreateHousehold_EstablishesSingleHost(t *testing.T) {
	db := newTestDB(t)

	apt, host, err := CreateHousehold(db, householdReq("P1204", "Budi", "0900000001"))
	require.NoError(t, err)

	assert.Equal(t, "P1204", apt.ApartmentNumber)
	assert.True(t, host.ResidentIsHost)
	assert.Equal(t, model.RelationshipHost, host.ResidentRelationship)
	assert.Equal(t, model.ResidentStatusPermanent, host.ResidentStatus)
	assert.NotNil(t, host.ResidentStartDate)
	assert.EqualValues(t, 1, countHosts(t, db, apt.ApartmentID))
}

func TestCreateHousehold_DuplicateRoomNumber(t *testing.T) {
	db := newTestDB(t)

	_, _, err := CreateHousehold(db, householdReq("P1204", "Budi", "0900000001"))
	require.NoError(t, err)

	_, _, err = CreateHousehold(db, householdReq("P1204", "Siti", "0900000002"))
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusConflict, fe.Code)
}

func TestCreateHousehold_ReusesProfileByPhone(t *testing.T) {
	db := newTestDB(t)

	_, host1, err := CreateHousehold(db, householdReq("P0101", "Budi Santoso", "0900000001"))
	require.NoError(t, err)

	nik := "3171001"
	host1.ResidentNationalID = &nik
	require.NoError(t, db.Save(host1).Error)

	// Nomor telepon sama → profil lama disalin ke row baru
	apt2, host2, err := CreateHousehold(db, householdReq("P0202", "Nama Diabaikan", "0900000001"))
	require.NoError(t, err)

	assert.NotEqual(t, host1.ResidentID, host2.ResidentID)
	assert.Equal(t, "Budi Santoso", host2.ResidentName)
	require.NotNil(t, host2.ResidentNationalID)
	assert.Equal(t, nik, *host2.ResidentNationalID)
	require.NotNil(t, host2.ResidentNote)
	assert.EqualValues(t, 1, countHosts(t, db, apt2.ApartmentID))
}

func TestUpdateMember_HostPromotionDemotesOldHost(t *testing.T) {
	db := newTestDB(t)

	apt, hostA, err := CreateHousehold(db, householdReq("P1204", "Budi", "0900000001"))
	require.NoError(t, err)

	memberB, err := AddMember(db, apt.ApartmentID, dto.MemberRequest{
		Name: "Siti", PhoneNumber: "0900000002",
	})
	require.NoError(t, err)

	customRel := "anak"
	isHost := true
	updated, err := UpdateMember(db, memberB.ResidentID, dto.UpdateMemberRequest{
		IsHost:       &isHost,
		Relationship: &customRel, // kalah oleh overwrite promosi
	})
	require.NoError(t, err)

	assert.True(t, updated.ResidentIsHost)
	assert.Equal(t, model.RelationshipHost, updated.ResidentRelationship)

	oldHost, err := repository.FindResidentByID(db, hostA.ResidentID)
	require.NoError(t, err)
	assert.False(t, oldHost.ResidentIsHost)
	assert.Equal(t, model.RelationshipMember, oldHost.ResidentRelationship)

	assert.EqualValues(t, 1, countHosts(t, db, apt.ApartmentID))
}

func TestUpdateMember_CustomRelationshipLabelSurvivesDemotion(t *testing.T) {
	db := newTestDB(t)

	apt, hostA, err := CreateHousehold(db, householdReq("P1204", "Budi", "0900000001"))
	require.NoError(t, err)

	// Host lama pakai label custom, bukan "host"
	hostA.ResidentRelationship = "pemilik toko"
	require.NoError(t, db.Save(hostA).Error)

	memberB, err := AddMember(db, apt.ApartmentID, dto.MemberRequest{
		Name: "Siti", PhoneNumber: "0900000002",
	})
	require.NoError(t, err)

	isHost := true
	_, err = UpdateMember(db, memberB.ResidentID, dto.UpdateMemberRequest{IsHost: &isHost})
	require.NoError(t, err)

	oldHost, err := repository.FindResidentByID(db, hostA.ResidentID)
	require.NoError(t, err)
	assert.False(t, oldHost.ResidentIsHost)
	assert.Equal(t, "pemilik toko", oldHost.ResidentRelationship)
}

func TestUpdateMember_UnsetHostWithoutReplacement(t *testing.T) {
	db := newTestDB(t)

	apt, hostA, err := CreateHousehold(db, householdReq("P1204", "Budi", "0900000001"))
	require.NoError(t, err)

	isHost := false
	updated, err := UpdateMember(db, hostA.ResidentID, dto.UpdateMemberRequest{IsHost: &isHost})
	require.NoError(t, err)

	assert.False(t, updated.ResidentIsHost)
	assert.EqualValues(t, 0, countHosts(t, db, apt.ApartmentID))
}

func TestUpdateMember_TransferResetsStartDate(t *testing.T) {
	db := newTestDB(t)

	apt1, _, err := CreateHousehold(db, householdReq("P0101", "Budi", "0900000001"))
	require.NoError(t, err)
	apt2, _, err := CreateHousehold(db, householdReq("P0202", "Siti", "0900000002"))
	require.NoError(t, err)

	member, err := AddMember(db, apt1.ApartmentID, dto.MemberRequest{
		Name: "Andi", PhoneNumber: "0900000003",
	})
	require.NoError(t, err)
	originalStart := *member.ResidentStartDate

	target := "P0202"
	updated, err := UpdateMember(db, member.ResidentID, dto.UpdateMemberRequest{
		NewRoomNumber: &target,
	})
	require.NoError(t, err)

	assert.Equal(t, apt2.ApartmentID, updated.ResidentApartmentID)
	require.NotNil(t, updated.ResidentStartDate)
	assert.True(t, !updated.ResidentStartDate.Before(originalStart))
}

func TestUpdateMember_PromotionAcrossApartments(t *testing.T) {
	db := newTestDB(t)

	apt1, _, err := CreateHousehold(db, householdReq("P0101", "Budi", "0900000001"))
	require.NoError(t, err)
	apt2, host2, err := CreateHousehold(db, householdReq("P0202", "Siti", "0900000002"))
	require.NoError(t, err)

	member, err := AddMember(db, apt1.ApartmentID, dto.MemberRequest{
		Name: "Andi", PhoneNumber: "0900000003",
	})
	require.NoError(t, err)

	// Pindah ke unit 2 sekaligus jadi host di sana
	target := "P0202"
	isHost := true
	updated, err := UpdateMember(db, member.ResidentID, dto.UpdateMemberRequest{
		NewRoomNumber: &target,
		IsHost:        &isHost,
	})
	require.NoError(t, err)

	assert.Equal(t, apt2.ApartmentID, updated.ResidentApartmentID)
	assert.True(t, updated.ResidentIsHost)

	oldHost, err := repository.FindResidentByID(db, host2.ResidentID)
	require.NoError(t, err)
	assert.False(t, oldHost.ResidentIsHost)

	assert.EqualValues(t, 1, countHosts(t, db, apt2.ApartmentID))
	assert.EqualValues(t, 1, countHosts(t, db, apt1.ApartmentID))
}

func TestUpdateMember_TargetApartmentNotFound(t *testing.T) {
	db := newTestDB(t)

	apt, _, err := CreateHousehold(db, householdReq("P0101", "Budi", "0900000001"))
	require.NoError(t, err)
	member, err := AddMember(db, apt.ApartmentID, dto.MemberRequest{
		Name: "Andi", PhoneNumber: "0900000003",
	})
	require.NoError(t, err)

	target := "TIDAK-ADA"
	_, err = UpdateMember(db, member.ResidentID, dto.UpdateMemberRequest{NewRoomNumber: &target})
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusNotFound, fe.Code)
}

func TestDeleteHousehold_BlockedByInvoiceHistory(t *testing.T) {
	db := newTestDB(t)

	apt, _, err := CreateHousehold(db, householdReq("P1204", "Budi", "0900000001"))
	require.NoError(t, err)

	// Tagihan lunas sekalipun tetap memblokir penghapusan unit
	inv := invoiceModel.Invoice{
		InvoiceApartmentID: apt.ApartmentID,
		InvoiceMonth:       12,
		InvoiceYear:        2025,
		InvoiceStatus:      invoiceModel.InvoiceStatusPaid,
	}
	require.NoError(t, db.Create(&inv).Error)

	err = DeleteHousehold(db, apt.ApartmentID)
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusConflict, fe.Code)
}

func TestDeleteHousehold_CascadesResidentsAndAccounts(t *testing.T) {
	db := newTestDB(t)

	apt, host, err := CreateHousehold(db, householdReq("P1204", "Budi", "0900000001"))
	require.NoError(t, err)
	member, err := AddMember(db, apt.ApartmentID, dto.MemberRequest{
		Name: "Siti", PhoneNumber: "0900000002",
	})
	require.NoError(t, err)

	residentID := member.ResidentID
	account := authModel.UserAccount{
		UserAccountEmail:      "siti@example.com",
		UserAccountPassword:   "x",
		UserAccountRole:       "RESIDENT",
		UserAccountResidentID: &residentID,
	}
	require.NoError(t, db.Create(&account).Error)

	require.NoError(t, DeleteHousehold(db, apt.ApartmentID))

	var nResidents, nAccounts, nApartments int64
	require.NoError(t, db.Model(&model.Resident{}).
		Where("resident_id IN ?", []uint{host.ResidentID, member.ResidentID}).
		Count(&nResidents).Error)
	require.NoError(t, db.Model(&authModel.UserAccount{}).Count(&nAccounts).Error)
	require.NoError(t, db.Model(&model.Apartment{}).Count(&nApartments).Error)

	assert.Zero(t, nResidents)
	assert.Zero(t, nAccounts)
	assert.Zero(t, nApartments)
}

func TestDeleteResident_HostBlockedWhileUnpaidInvoice(t *testing.T) {
	db := newTestDB(t)

	apt, host, err := CreateHousehold(db, householdReq("P1204", "Budi", "0900000001"))
	require.NoError(t, err)

	inv := invoiceModel.Invoice{
		InvoiceApartmentID: apt.ApartmentID,
		InvoiceMonth:       12,
		InvoiceYear:        2025,
		InvoiceStatus:      invoiceModel.InvoiceStatusPartial,
	}
	require.NoError(t, db.Create(&inv).Error)

	err = DeleteResident(db, host.ResidentID)
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusConflict, fe.Code)

	// Anggota biasa tetap boleh dihapus walau ada tunggakan
	member, err := AddMember(db, apt.ApartmentID, dto.MemberRequest{
		Name: "Siti", PhoneNumber: "0900000002",
	})
	require.NoError(t, err)
	require.NoError(t, DeleteResident(db, member.ResidentID))
}

func TestDeleteResident_RevokesSessionsOfLinkedAccount(t *testing.T) {
	db := newTestDB(t)

	apt, _, err := CreateHousehold(db, householdReq("P1204", "Budi", "0900000001"))
	require.NoError(t, err)
	member, err := AddMember(db, apt.ApartmentID, dto.MemberRequest{
		Name: "Siti", PhoneNumber: "0900000002",
	})
	require.NoError(t, err)

	residentID := member.ResidentID
	account := authModel.UserAccount{
		UserAccountEmail:      "siti@example.com",
		UserAccountPassword:   "x",
		UserAccountRole:       "RESIDENT",
		UserAccountResidentID: &residentID,
	}
	require.NoError(t, db.Create(&account).Error)
	require.NoError(t, db.Create(&authModel.RefreshToken{
		RefreshTokenValue:     "token-siti",
		RefreshTokenAccountID: account.UserAccountID,
		RefreshTokenExpiresAt: time.Now().Add(24 * time.Hour),
	}).Error)

	require.NoError(t, DeleteResident(db, member.ResidentID))

	// Akun DAN sesinya ikut hilang: token lama tidak boleh tersisa
	var nAccounts, nTokens int64
	require.NoError(t, db.Model(&authModel.UserAccount{}).Count(&nAccounts).Error)
	require.NoError(t, db.Model(&authModel.RefreshToken{}).
		Where("refresh_token_account_id = ?", account.UserAccountID).
		Count(&nTokens).Error)
	assert.Zero(t, nAccounts)
	assert.Zero(t, nTokens)
}

func TestUpdateHousehold_MissingHostIsIntegrityFault(t *testing.T) {
	db := newTestDB(t)

	apt, host, err := CreateHousehold(db, householdReq("P1204", "Budi", "0900000001"))
	require.NoError(t, err)

	// Rusak datanya: tidak ada host sama sekali
	require.NoError(t, db.Model(&model.Resident{}).
		Where("resident_id = ?", host.ResidentID).
		Update("resident_is_host", false).Error)

	_, err = UpdateHousehold(db, apt.ApartmentID, householdReq("P1204", "Budi Baru", "0900000001"))
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusNotFound, fe.Code)
}

func TestGetHouseholds_SearchByRoomNumberOrHostName(t *testing.T) {
	db := newTestDB(t)

	_, _, err := CreateHousehold(db, householdReq("P0101", "Budi Santoso", "0900000001"))
	require.NoError(t, err)
	_, _, err = CreateHousehold(db, householdReq("P0202", "Siti Aminah", "0900000002"))
	require.NoError(t, err)

	byRoom, total, err := GetHouseholds(db, "p01", 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, byRoom, 1)
	assert.Equal(t, "P0101", byRoom[0].RoomNumber)

	byName, total, err := GetHouseholds(db, "aminah", 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, byName, 1)
	assert.Equal(t, "P0202", byName[0].RoomNumber)
	assert.Equal(t, "Siti Aminah", byName[0].OwnerName)
}
