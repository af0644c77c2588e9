// file: internals/features/households/dto/household_dto.go
package dto

import (
	"time"

	model "rumahku_backend/internals/features/households/model"
)

/* =========================================================
   REQUEST
========================================================= */

// Create & update rumah (apartment + kepala rumah)
type HouseholdRequest struct {
	RoomNumber string  `json:"room_number" validate:"required,max=20"`
	Building   string  `json:"building" validate:"omitempty,max=30"`
	Floor      *int    `json:"floor,omitempty"`
	Area       float64 `json:"area" validate:"omitempty,gte=0"`

	Status model.ApartmentStatus `json:"status" validate:"omitempty,oneof=OCCUPIED VACANT MAINTENANCE"`
	Type   model.ApartmentType   `json:"type" validate:"omitempty,oneof=NORMAL PENTHOUSE KIOT OFFICE"`

	// Identitas kepala rumah
	OwnerName   string  `json:"owner_name" validate:"required,max=100"`
	PhoneNumber string  `json:"phone_number" validate:"required,max=20"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
}

type MemberRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	PhoneNumber string `json:"phone_number" validate:"required,max=20"`

	Email      *string    `json:"email,omitempty" validate:"omitempty,email"`
	Dob        *time.Time `json:"dob,omitempty"`
	NationalID *string    `json:"national_id,omitempty" validate:"omitempty,max=20"`
	Avatar     *string    `json:"avatar,omitempty" validate:"omitempty,max=255"`
	Note       *string    `json:"note,omitempty" validate:"omitempty,max=255"`

	Relationship string                `json:"relationship" validate:"omitempty,max=40"`
	Status       *model.ResidentStatus `json:"status,omitempty" validate:"omitempty,oneof=PERMANENT TEMPORARY_RESIDENT TEMPORARY_ABSENT MOVED_OUT"`
}

// UpdateMemberRequest: semua field opsional (partial update).
// IsHost pointer: nil = tidak disentuh, true = promosi (dengan demosi
// kepala rumah lama), false = dilepas tanpa promosi pengganti.
type UpdateMemberRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,max=100"`
	PhoneNumber *string    `json:"phone_number,omitempty" validate:"omitempty,max=20"`
	Email       *string    `json:"email,omitempty" validate:"omitempty,email"`
	Dob         *time.Time `json:"dob,omitempty"`
	NationalID  *string    `json:"national_id,omitempty" validate:"omitempty,max=20"`
	Avatar      *string    `json:"avatar,omitempty" validate:"omitempty,max=255"`
	Note        *string    `json:"note,omitempty" validate:"omitempty,max=255"`

	Status       *model.ResidentStatus `json:"status,omitempty" validate:"omitempty,oneof=PERMANENT TEMPORARY_RESIDENT TEMPORARY_ABSENT MOVED_OUT"`
	Relationship *string               `json:"relationship,omitempty" validate:"omitempty,max=40"`

	IsHost *bool `json:"is_host,omitempty"`

	// Pindah unit: isi nomor unit tujuan (harus sudah ada)
	NewRoomNumber *string `json:"new_room_number,omitempty" validate:"omitempty,max=20"`
}

/* =========================================================
   RESPONSE
========================================================= */

type HouseholdResponse struct {
	ID          uint                  `json:"id"`
	RoomNumber  string                `json:"room_number"`
	Building    string                `json:"building"`
	Floor       *int                  `json:"floor,omitempty"`
	Area        float64               `json:"area"`
	Status      model.ApartmentStatus `json:"status"`
	Type        model.ApartmentType   `json:"type"`
	OwnerName   string                `json:"owner_name"`
	PhoneNumber string                `json:"phone_number"`
	MemberCount int64                 `json:"member_count"`
}

type ResidentResponse struct {
	ID           uint                 `json:"id"`
	Name         string               `json:"name"`
	PhoneNumber  string               `json:"phone_number"`
	Email        *string              `json:"email,omitempty"`
	Dob          *time.Time           `json:"dob,omitempty"`
	NationalID   *string              `json:"national_id,omitempty"`
	Relationship string               `json:"relationship"`
	IsHost       bool                 `json:"is_host"`
	Status       model.ResidentStatus `json:"status"`
	StartDate    *time.Time           `json:"start_date,omitempty"`
	Note         *string              `json:"note,omitempty"`
	RoomNumber   string               `json:"room_number,omitempty"`
	Building     string               `json:"building,omitempty"`
}

/* =========================================================
   MAPPER
========================================================= */

func ToResidentResponse(r model.Resident) ResidentResponse {
	return ResidentResponse{
		ID:           r.ResidentID,
		Name:         r.ResidentName,
		PhoneNumber:  r.ResidentPhone,
		Email:        r.ResidentEmail,
		Dob:          r.ResidentDob,
		NationalID:   r.ResidentNationalID,
		Relationship: r.ResidentRelationship,
		IsHost:       r.ResidentIsHost,
		Status:       r.ResidentStatus,
		StartDate:    r.ResidentStartDate,
		Note:         r.ResidentNote,
	}
}

func ToResidentResponseWithApartment(r model.Resident, a *model.Apartment) ResidentResponse {
	out := ToResidentResponse(r)
	if a != nil {
		out.RoomNumber = a.ApartmentNumber
		out.Building = a.ApartmentBuilding
	}
	return out
}
