// file: internals/features/finance/fees/dto/fee_dto.go
package dto

import (
	model "rumahku_backend/internals/features/finance/fees/model"
)

type FeeRequest struct {
	FeeName      string  `json:"fee_name" validate:"required,max=100"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=255"`
	UnitPrice    int64   `json:"unit_price" validate:"required,gte=0"`
	Unit         string  `json:"unit" validate:"omitempty,max=20"`
	BillingCycle string  `json:"billing_cycle" validate:"omitempty,max=20"`
	IsMandatory  bool    `json:"is_mandatory"`
}

type FeeResponse struct {
	ID           uint    `json:"id"`
	FeeName      string  `json:"fee_name"`
	Description  *string `json:"description,omitempty"`
	UnitPrice    int64   `json:"unit_price"`
	Unit         string  `json:"unit"`
	BillingCycle string  `json:"billing_cycle"`
	IsMandatory  bool    `json:"is_mandatory"`
}

func ToFeeResponse(f model.Fee) FeeResponse {
	return FeeResponse{
		ID:           f.FeeID,
		FeeName:      f.FeeName,
		Description:  f.FeeDescription,
		UnitPrice:    f.FeeUnitPrice,
		Unit:         f.FeeUnit,
		BillingCycle: f.FeeBillingCycle,
		IsMandatory:  f.FeeIsMandatory,
	}
}
