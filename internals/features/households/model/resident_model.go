// file: internals/features/households/model/resident_model.go
package model

import (
	"time"
)

// =========================================================
// ENUM — status kependudukan
// =========================================================

type ResidentStatus string

const (
	ResidentStatusPermanent         ResidentStatus = "PERMANENT"
	ResidentStatusTemporaryResident ResidentStatus = "TEMPORARY_RESIDENT"
	ResidentStatusTemporaryAbsent   ResidentStatus = "TEMPORARY_ABSENT"
	ResidentStatusMovedOut          ResidentStatus = "MOVED_OUT"
)

// Label relasi standar. Label custom (mis. "tenant") tidak pernah
// ditimpa otomatis saat pergantian kepala rumah.
const (
	RelationshipHost   = "host"
	RelationshipMember = "member"
)

// =========================================================
// MODEL
// =========================================================

// Resident adalah fakta per-apartemen: satu orang bisa punya lebih
// dari satu row resident kalau dia terdaftar di beberapa unit.
type Resident struct {
	ResidentID uint `gorm:"column:resident_id;primaryKey;autoIncrement" json:"resident_id"`

	// FK → apartments(apartment_id)
	ResidentApartmentID uint `gorm:"column:resident_apartment_id;not null;index:ix_resident_apartment" json:"resident_apartment_id"`

	// Profil pribadi
	ResidentName       string     `gorm:"column:resident_name;type:varchar(100);not null" json:"resident_name"`
	ResidentPhone      string     `gorm:"column:resident_phone;type:varchar(20);not null;index:ix_resident_phone" json:"resident_phone"`
	ResidentEmail      *string    `gorm:"column:resident_email;type:varchar(100)" json:"resident_email,omitempty"`
	ResidentDob        *time.Time `gorm:"column:resident_dob" json:"resident_dob,omitempty"`
	ResidentNationalID *string    `gorm:"column:resident_national_id;type:varchar(20)" json:"resident_national_id,omitempty"`
	ResidentAddress    *string    `gorm:"column:resident_address;type:varchar(255)" json:"resident_address,omitempty"`
	ResidentAvatar     *string    `gorm:"column:resident_avatar;type:varchar(255)" json:"resident_avatar,omitempty"`
	ResidentNote       *string    `gorm:"column:resident_note;type:varchar(255)" json:"resident_note,omitempty"`

	// Data kependudukan di unit ini
	ResidentStatus       ResidentStatus `gorm:"column:resident_status;type:varchar(20);not null;default:'PERMANENT'" json:"resident_status"`
	ResidentStartDate    *time.Time     `gorm:"column:resident_start_date" json:"resident_start_date,omitempty"`
	ResidentEndDate      *time.Time     `gorm:"column:resident_end_date" json:"resident_end_date,omitempty"`
	ResidentRelationship string         `gorm:"column:resident_relationship;type:varchar(40)" json:"resident_relationship"`

	// INVARIANT: maksimal satu resident dengan is_host=true per apartemen.
	ResidentIsHost bool `gorm:"column:resident_is_host;not null;default:false;index:ix_resident_is_host" json:"resident_is_host"`

	ResidentCreatedAt time.Time `gorm:"column:resident_created_at;not null;autoCreateTime" json:"resident_created_at"`
	ResidentUpdatedAt time.Time `gorm:"column:resident_updated_at;not null;autoUpdateTime" json:"resident_updated_at"`
}

func (Resident) TableName() string {
	return "residents"
}
