// file: internals/features/households/service/household_service.go
package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"rumahku_backend/internals/features/households/dto"
	model "rumahku_backend/internals/features/households/model"
	"rumahku_backend/internals/features/households/repository"
	invoiceRepo "rumahku_backend/internals/features/finance/invoices/repository"
)

/* =========================================================
   CREATE HOUSEHOLD (unit + kepala rumah)
========================================================= */

func CreateHousehold(db *gorm.DB, req dto.HouseholdRequest) (*model.Apartment, *model.Resident, error) {
	var apt *model.Apartment
	var host *model.Resident

	err := db.Transaction(func(tx *gorm.DB) error {
		exists, err := repository.ApartmentNumberExists(tx, req.RoomNumber)
		if err != nil {
			return err
		}
		if exists {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Nomor unit %s sudah terdaftar", req.RoomNumber))
		}

		apt = &model.Apartment{
			ApartmentNumber:   req.RoomNumber,
			ApartmentBuilding: req.Building,
			ApartmentFloor:    req.Floor,
			ApartmentArea:     req.Area,
			ApartmentStatus:   req.Status,
			ApartmentType:     req.Type,
		}
		if err := repository.CreateApartment(tx, apt); err != nil {
			return err
		}

		host, err = buildResidentFromPhone(tx, apt.ApartmentID, req.OwnerName, req.PhoneNumber, req.Email)
		if err != nil {
			return err
		}
		host.ResidentIsHost = true
		host.ResidentRelationship = model.RelationshipHost
		host.ResidentStatus = model.ResidentStatusPermanent
		now := time.Now()
		host.ResidentStartDate = &now

		return repository.CreateResident(tx, host)
	})
	if err != nil {
		return nil, nil, err
	}

	log.Printf("[INFO] household dibuat: unit=%s host=%s", apt.ApartmentNumber, host.ResidentName)
	return apt, host, nil
}

// buildResidentFromPhone: reuse profil kalau nomor telepon sudah dikenal
// di unit lain (orang yang sama bisa punya banyak unit), kalau tidak ada
// dibangun dari input apa adanya.
func buildResidentFromPhone(tx *gorm.DB, apartmentID uint, name, phone string, email *string) (*model.Resident, error) {
	existing, err := repository.FindFirstResidentByPhone(tx, phone)
	if err != nil {
		return nil, err
	}

	r := &model.Resident{
		ResidentApartmentID: apartmentID,
		ResidentName:        name,
		ResidentPhone:       phone,
		ResidentEmail:       email,
	}
	if existing != nil {
		// Salin profil pribadi dari row lama, catat kepemilikan ganda
		r.ResidentName = existing.ResidentName
		r.ResidentDob = existing.ResidentDob
		r.ResidentNationalID = existing.ResidentNationalID
		r.ResidentAddress = existing.ResidentAddress
		r.ResidentAvatar = existing.ResidentAvatar
		if email == nil {
			r.ResidentEmail = existing.ResidentEmail
		}
		note := fmt.Sprintf("Pemilik ganda, profil dari resident #%d", existing.ResidentID)
		r.ResidentNote = &note
	}
	return r, nil
}

/* =========================================================
   UPDATE HOUSEHOLD (atribut unit + profil kepala rumah)
========================================================= */

func UpdateHousehold(db *gorm.DB, apartmentID uint, req dto.HouseholdRequest) (*model.Apartment, error) {
	var apt *model.Apartment

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		apt, err = repository.FindApartmentByID(tx, apartmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Unit tidak ditemukan")
			}
			return err
		}

		// Cek unik nomor unit hanya kalau berubah
		if req.RoomNumber != "" && req.RoomNumber != apt.ApartmentNumber {
			exists, err := repository.ApartmentNumberExists(tx, req.RoomNumber)
			if err != nil {
				return err
			}
			if exists {
				return fiber.NewError(fiber.StatusConflict,
					fmt.Sprintf("Nomor unit %s sudah terdaftar", req.RoomNumber))
			}
			apt.ApartmentNumber = req.RoomNumber
		}
		if req.Building != "" {
			apt.ApartmentBuilding = req.Building
		}
		if req.Floor != nil {
			apt.ApartmentFloor = req.Floor
		}
		if req.Area > 0 {
			apt.ApartmentArea = req.Area
		}
		if req.Status != "" {
			apt.ApartmentStatus = req.Status
		}
		if req.Type != "" {
			apt.ApartmentType = req.Type
		}
		if err := repository.SaveApartment(tx, apt); err != nil {
			return err
		}

		// Rumah tanpa kepala adalah fault integritas, bukan hal yang
		// diperbaiki diam-diam
		host, err := repository.FindHostByApartmentID(tx, apt.ApartmentID, true)
		if err != nil {
			return err
		}
		if host == nil {
			return fiber.NewError(fiber.StatusNotFound,
				"Kepala rumah tidak ditemukan untuk unit ini")
		}
		if req.OwnerName != "" {
			host.ResidentName = req.OwnerName
		}
		if req.PhoneNumber != "" {
			host.ResidentPhone = req.PhoneNumber
		}
		if req.Email != nil {
			host.ResidentEmail = req.Email
		}
		return repository.SaveResident(tx, host)
	})
	if err != nil {
		return nil, err
	}
	return apt, nil
}

/* =========================================================
   DELETE HOUSEHOLD (cascade, dijaga riwayat finansial)
========================================================= */

func DeleteHousehold(db *gorm.DB, apartmentID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		apt, err := repository.FindApartmentByID(tx, apartmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Unit tidak ditemukan")
			}
			return err
		}

		// Riwayat tagihan tidak boleh ikut musnah: pernah ada invoice
		// (lunas sekalipun) berarti unit tidak bisa dihapus
		hasInvoice, err := invoiceRepo.InvoiceExistsForApartment(tx, apt.ApartmentID)
		if err != nil {
			return err
		}
		if hasInvoice {
			return fiber.NewError(fiber.StatusConflict,
				"Unit tidak dapat dihapus karena sudah punya riwayat tagihan")
		}

		residents, err := repository.FindResidentsByApartmentID(tx, apt.ApartmentID)
		if err != nil {
			return err
		}
		for i := range residents {
			if err := repository.DeleteAccountsByResidentID(tx, residents[i].ResidentID); err != nil {
				return err
			}
			if err := repository.DeleteResident(tx, &residents[i]); err != nil {
				return err
			}
		}

		if err := repository.DeleteApartment(tx, apt); err != nil {
			return err
		}

		log.Printf("[INFO] household dihapus: unit=%s (%d resident ikut terhapus)",
			apt.ApartmentNumber, len(residents))
		return nil
	})
}

/* =========================================================
   MEMBER
========================================================= */

func AddMember(db *gorm.DB, apartmentID uint, req dto.MemberRequest) (*model.Resident, error) {
	var member *model.Resident

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := repository.FindApartmentByID(tx, apartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Unit tidak ditemukan")
			}
			return err
		}

		var err error
		member, err = buildResidentFromPhone(tx, apartmentID, req.Name, req.PhoneNumber, req.Email)
		if err != nil {
			return err
		}

		// Anggota biasa, tidak pernah host lewat jalur ini
		member.ResidentIsHost = false
		member.ResidentRelationship = req.Relationship
		if member.ResidentRelationship == "" {
			member.ResidentRelationship = model.RelationshipMember
		}
		member.ResidentStatus = model.ResidentStatusPermanent
		if req.Status != nil {
			member.ResidentStatus = *req.Status
		}
		if req.Dob != nil {
			member.ResidentDob = req.Dob
		}
		if req.NationalID != nil {
			member.ResidentNationalID = req.NationalID
		}
		if req.Avatar != nil {
			member.ResidentAvatar = req.Avatar
		}
		if req.Note != nil {
			member.ResidentNote = req.Note
		}
		now := time.Now()
		member.ResidentStartDate = &now

		return repository.CreateResident(tx, member)
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// UpdateMember adalah transisi state terkaya di registry: partial update
// profil, pergantian kepala rumah, dan pindah unit dalam satu transaksi.
func UpdateMember(db *gorm.DB, residentID uint, req dto.UpdateMemberRequest) (*model.Resident, error) {
	var res *model.Resident

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		res, err = repository.FindResidentByID(tx, residentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Penghuni tidak ditemukan")
			}
			return err
		}

		// 1) Resolve unit tujuan (default: unit sekarang)
		targetApartmentID := res.ResidentApartmentID
		if req.NewRoomNumber != nil && strings.TrimSpace(*req.NewRoomNumber) != "" {
			target, err := repository.FindApartmentByNumber(tx, strings.TrimSpace(*req.NewRoomNumber))
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusNotFound,
						fmt.Sprintf("Unit tujuan %s tidak ditemukan", *req.NewRoomNumber))
				}
				return err
			}
			targetApartmentID = target.ApartmentID
		}

		// 2) Pergantian kepala rumah. Demosi host lama SELALU jalan
		//    sebelum promosi, dalam transaksi yang sama — unit tujuan
		//    tidak pernah keluar dengan dua host.
		promoted := false
		if req.IsHost != nil {
			if *req.IsHost {
				oldHost, err := repository.FindHostByApartmentID(tx, targetApartmentID, true)
				if err != nil {
					return err
				}
				if oldHost != nil && oldHost.ResidentID != res.ResidentID {
					oldHost.ResidentIsHost = false
					// Label custom (mis. "pemilik toko") dibiarkan
					if oldHost.ResidentRelationship == model.RelationshipHost {
						oldHost.ResidentRelationship = model.RelationshipMember
					}
					if err := repository.SaveResident(tx, oldHost); err != nil {
						return err
					}
				}
				res.ResidentIsHost = true
				res.ResidentRelationship = model.RelationshipHost
				promoted = true
			} else {
				// Dilepas tanpa mencari pengganti
				res.ResidentIsHost = false
			}
		}

		// 3) Override field profil/kependudukan
		if req.Name != nil {
			res.ResidentName = *req.Name
		}
		if req.PhoneNumber != nil {
			res.ResidentPhone = *req.PhoneNumber
		}
		if req.Email != nil {
			res.ResidentEmail = req.Email
		}
		if req.Dob != nil {
			res.ResidentDob = req.Dob
		}
		if req.NationalID != nil {
			res.ResidentNationalID = req.NationalID
		}
		if req.Avatar != nil {
			res.ResidentAvatar = req.Avatar
		}
		if req.Note != nil {
			res.ResidentNote = req.Note
		}
		if req.Status != nil {
			res.ResidentStatus = *req.Status
		}
		// Relationship dari request kalah oleh overwrite promosi host
		if req.Relationship != nil && !promoted {
			res.ResidentRelationship = *req.Relationship
		}

		// 4) Pindah unit = residensi baru, start date di-reset
		if targetApartmentID != res.ResidentApartmentID {
			res.ResidentApartmentID = targetApartmentID
			now := time.Now()
			res.ResidentStartDate = &now
		}

		return repository.SaveResident(tx, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func DeleteResident(db *gorm.DB, residentID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res, err := repository.FindResidentByID(tx, residentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Penghuni tidak ditemukan")
			}
			return err
		}

		// Kepala rumah tidak boleh dibuang selama masih ada tunggakan
		if res.ResidentIsHost {
			hasDebt, err := invoiceRepo.UnpaidInvoiceExistsForApartment(tx, res.ResidentApartmentID)
			if err != nil {
				return err
			}
			if hasDebt {
				return fiber.NewError(fiber.StatusConflict,
					"Kepala rumah tidak dapat dihapus selama masih ada tagihan belum lunas")
			}
		}

		if err := repository.DeleteAccountsByResidentID(tx, res.ResidentID); err != nil {
			return err
		}
		return repository.DeleteResident(tx, res)
	})
}

/* =========================================================
   READ PROJECTIONS
========================================================= */

func GetHouseholdByID(db *gorm.DB, apartmentID uint) (*model.Apartment, *model.Resident, []model.Resident, error) {
	apt, err := repository.FindApartmentByID(db, apartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, fiber.NewError(fiber.StatusNotFound, "Unit tidak ditemukan")
		}
		return nil, nil, nil, err
	}
	host, err := repository.FindHostByApartmentID(db, apt.ApartmentID, false)
	if err != nil {
		return nil, nil, nil, err
	}
	members, err := repository.FindResidentsByApartmentID(db, apt.ApartmentID)
	if err != nil {
		return nil, nil, nil, err
	}
	return apt, host, members, nil
}

func GetHouseholdMembers(db *gorm.DB, apartmentID uint) ([]model.Resident, error) {
	if _, err := repository.FindApartmentByID(db, apartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Unit tidak ditemukan")
		}
		return nil, err
	}
	return repository.FindResidentsByApartmentID(db, apartmentID)
}

// GetHouseholds: daftar rumah + ringkasan host, search match nomor unit
// atau nama host (case-insensitive, substring).
func GetHouseholds(db *gorm.DB, keyword string, offset, limit int) ([]dto.HouseholdResponse, int64, error) {
	q := db.Model(&model.Apartment{})
	if kw := strings.TrimSpace(keyword); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		q = q.Where(
			"LOWER(apartment_number) LIKE ? OR apartment_id IN (SELECT resident_apartment_id FROM residents WHERE resident_is_host = ? AND LOWER(resident_name) LIKE ?)",
			like, true, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apartments []model.Apartment
	if err := q.Order("apartment_number ASC").
		Offset(offset).Limit(limit).
		Find(&apartments).Error; err != nil {
		return nil, 0, err
	}

	out := make([]dto.HouseholdResponse, 0, len(apartments))
	for _, apt := range apartments {
		item := dto.HouseholdResponse{
			ID:         apt.ApartmentID,
			RoomNumber: apt.ApartmentNumber,
			Building:   apt.ApartmentBuilding,
			Floor:      apt.ApartmentFloor,
			Area:       apt.ApartmentArea,
			Status:     apt.ApartmentStatus,
			Type:       apt.ApartmentType,
		}
		host, err := repository.FindHostByApartmentID(db, apt.ApartmentID, false)
		if err != nil {
			return nil, 0, err
		}
		if host != nil {
			item.OwnerName = host.ResidentName
			item.PhoneNumber = host.ResidentPhone
		}
		count, err := repository.CountResidentsByApartmentID(db, apt.ApartmentID)
		if err != nil {
			return nil, 0, err
		}
		item.MemberCount = count
		out = append(out, item)
	}
	return out, total, nil
}

func GetAllResidents(db *gorm.DB, keyword string, offset, limit int) ([]dto.ResidentResponse, int64, error) {
	residents, total, err := repository.SearchResidents(db, keyword, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.ResidentResponse, 0, len(residents))
	for _, r := range residents {
		apt, err := repository.FindApartmentByID(db, r.ResidentApartmentID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, err
		}
		out = append(out, dto.ToResidentResponseWithApartment(r, apt))
	}
	return out, total, nil
}
