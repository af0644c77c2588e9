// file: internals/features/households/repository/household_repository.go
package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "rumahku_backend/internals/features/households/model"
	authModel "rumahku_backend/internals/features/users/auth/model"
)

/* ====================== APARTMENT ====================== */

func FindApartmentByID(db *gorm.DB, id uint) (*model.Apartment, error) {
	var a model.Apartment
	if err := db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func FindApartmentByNumber(db *gorm.DB, number string) (*model.Apartment, error) {
	var a model.Apartment
	if err := db.Where("apartment_number = ?", number).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func ApartmentNumberExists(db *gorm.DB, number string) (bool, error) {
	var count int64
	err := db.Model(&model.Apartment{}).
		Where("apartment_number = ?", number).
		Count(&count).Error
	return count > 0, err
}

func CreateApartment(db *gorm.DB, a *model.Apartment) error {
	return db.Create(a).Error
}

func SaveApartment(db *gorm.DB, a *model.Apartment) error {
	return db.Save(a).Error
}

func DeleteApartment(db *gorm.DB, a *model.Apartment) error {
	return db.Delete(a).Error
}

/* ====================== RESIDENT ====================== */

func FindResidentByID(db *gorm.DB, id uint) (*model.Resident, error) {
	var r model.Resident
	if err := db.First(&r, id).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// FindHostByApartmentID mengambil kepala rumah saat ini (bisa tidak ada).
// forUpdate=true mengunci row di Postgres supaya dua promosi kepala
// rumah yang berbarengan tidak saling lewat (sqlite tidak mendukung
// FOR UPDATE, jadi hanya dipasang di postgres).
func FindHostByApartmentID(db *gorm.DB, apartmentID uint, forUpdate bool) (*model.Resident, error) {
	q := db.Where("resident_apartment_id = ? AND resident_is_host = ?", apartmentID, true)
	if forUpdate && db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var r model.Resident
	if err := q.First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

// FindFirstResidentByPhone dipakai untuk reuse profil: orang yang sama
// (match nomor telepon) boleh muncul sebagai resident di beberapa unit.
func FindFirstResidentByPhone(db *gorm.DB, phone string) (*model.Resident, error) {
	var r model.Resident
	if err := db.Where("resident_phone = ?", phone).
		Order("resident_id ASC").
		First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func FindResidentsByApartmentID(db *gorm.DB, apartmentID uint) ([]model.Resident, error) {
	var list []model.Resident
	err := db.Where("resident_apartment_id = ?", apartmentID).
		Order("resident_is_host DESC, resident_id ASC").
		Find(&list).Error
	return list, err
}

func CountResidentsByApartmentID(db *gorm.DB, apartmentID uint) (int64, error) {
	var count int64
	err := db.Model(&model.Resident{}).
		Where("resident_apartment_id = ?", apartmentID).
		Count(&count).Error
	return count, err
}

func CreateResident(db *gorm.DB, r *model.Resident) error {
	return db.Create(r).Error
}

func SaveResident(db *gorm.DB, r *model.Resident) error {
	return db.Save(r).Error
}

func DeleteResident(db *gorm.DB, r *model.Resident) error {
	return db.Delete(r).Error
}

// SearchResidents: paged roster lintas unit, keyword match nama/telepon
// (case-insensitive, substring).
func SearchResidents(db *gorm.DB, keyword string, offset, limit int) ([]model.Resident, int64, error) {
	q := db.Model(&model.Resident{})
	if kw := strings.TrimSpace(keyword); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		q = q.Where("LOWER(resident_name) LIKE ? OR resident_phone LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Resident
	err := q.Order("resident_id DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}

/* ====================== ACCOUNT LINK ====================== */

// DeleteAccountsByResidentID menghapus akun login yang terikat resident
// beserta refresh token-nya (dipanggil di jalur cascade delete
// resident/rumah). Tanpa ikut menghapus token, sesi akun yang sudah
// dihapus masih bisa dirotasi.
func DeleteAccountsByResidentID(db *gorm.DB, residentID uint) error {
	var accountIDs []uint
	if err := db.Model(&authModel.UserAccount{}).
		Where("user_account_resident_id = ?", residentID).
		Pluck("user_account_id", &accountIDs).Error; err != nil {
		return err
	}
	if len(accountIDs) == 0 {
		return nil
	}
	if err := db.Where("refresh_token_account_id IN ?", accountIDs).
		Delete(&authModel.RefreshToken{}).Error; err != nil {
		return err
	}
	return db.Where("user_account_id IN ?", accountIDs).
		Delete(&authModel.UserAccount{}).Error
}
