// file: internals/features/households/model/apartment_model.go
package model

import (
	"time"

	"gorm.io/gorm"
)

// =========================================================
// ENUM — status & tipe unit
// =========================================================

type ApartmentStatus string

const (
	ApartmentStatusOccupied    ApartmentStatus = "OCCUPIED"
	ApartmentStatusVacant      ApartmentStatus = "VACANT"
	ApartmentStatusMaintenance ApartmentStatus = "MAINTENANCE"
)

type ApartmentType string

const (
	ApartmentTypeNormal    ApartmentType = "NORMAL"
	ApartmentTypePenthouse ApartmentType = "PENTHOUSE"
	ApartmentTypeKiot      ApartmentType = "KIOT"
	ApartmentTypeOffice    ApartmentType = "OFFICE"
)

// =========================================================
// MODEL
// =========================================================

type Apartment struct {
	ApartmentID uint `gorm:"column:apartment_id;primaryKey;autoIncrement" json:"apartment_id"`

	// Nomor unit unik se-gedung (mis. "P1204")
	ApartmentNumber string `gorm:"column:apartment_number;type:varchar(20);not null;uniqueIndex:uniq_apartment_number" json:"apartment_number"`

	ApartmentBuilding string  `gorm:"column:apartment_building;type:varchar(30)" json:"apartment_building"`
	ApartmentFloor    *int    `gorm:"column:apartment_floor" json:"apartment_floor,omitempty"`
	ApartmentArea     float64 `gorm:"column:apartment_area" json:"apartment_area"`

	ApartmentStatus ApartmentStatus `gorm:"column:apartment_status;type:varchar(20);not null;default:'OCCUPIED'" json:"apartment_status"`
	ApartmentType   ApartmentType   `gorm:"column:apartment_type;type:varchar(20);not null;default:'NORMAL'" json:"apartment_type"`

	ApartmentCreatedAt time.Time `gorm:"column:apartment_created_at;not null;autoCreateTime" json:"apartment_created_at"`
	ApartmentUpdatedAt time.Time `gorm:"column:apartment_updated_at;not null;autoUpdateTime" json:"apartment_updated_at"`
}

func (Apartment) TableName() string {
	return "apartments"
}

func (m *Apartment) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ApartmentStatus == "" {
		m.ApartmentStatus = ApartmentStatusOccupied
	}
	if m.ApartmentType == "" {
		m.ApartmentType = ApartmentTypeNormal
	}
	return nil
}
