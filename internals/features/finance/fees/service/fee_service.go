// file: internals/features/finance/fees/service/fee_service.go
package service

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"rumahku_backend/internals/features/finance/fees/dto"
	model "rumahku_backend/internals/features/finance/fees/model"
	"rumahku_backend/internals/features/finance/fees/repository"
)

func CreateFee(db *gorm.DB, req dto.FeeRequest) (*model.Fee, error) {
	var fee *model.Fee

	err := db.Transaction(func(tx *gorm.DB) error {
		exists, err := repository.FeeNameExists(tx, req.FeeName, 0)
		if err != nil {
			return err
		}
		if exists {
			return fiber.NewError(fiber.StatusConflict,
				fmt.Sprintf("Tarif %s sudah terdaftar", req.FeeName))
		}

		fee = &model.Fee{
			FeeName:         req.FeeName,
			FeeDescription:  req.Description,
			FeeUnitPrice:    req.UnitPrice,
			FeeUnit:         req.Unit,
			FeeBillingCycle: req.BillingCycle,
			FeeIsMandatory:  req.IsMandatory,
		}
		return repository.CreateFee(tx, fee)
	})
	if err != nil {
		return nil, err
	}
	return fee, nil
}

func UpdateFee(db *gorm.DB, feeID uint, req dto.FeeRequest) (*model.Fee, error) {
	var fee *model.Fee

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		fee, err = repository.FindFeeByID(tx, feeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Tarif tidak ditemukan")
			}
			return err
		}

		if req.FeeName != "" && req.FeeName != fee.FeeName {
			exists, err := repository.FeeNameExists(tx, req.FeeName, fee.FeeID)
			if err != nil {
				return err
			}
			if exists {
				return fiber.NewError(fiber.StatusConflict,
					fmt.Sprintf("Tarif %s sudah terdaftar", req.FeeName))
			}
			fee.FeeName = req.FeeName
		}
		if req.Description != nil {
			fee.FeeDescription = req.Description
		}
		// Ubah harga aman: detail lama menyimpan snapshot amount
		if req.UnitPrice >= 0 {
			fee.FeeUnitPrice = req.UnitPrice
		}
		if req.Unit != "" {
			fee.FeeUnit = req.Unit
		}
		if req.BillingCycle != "" {
			fee.FeeBillingCycle = req.BillingCycle
		}
		fee.FeeIsMandatory = req.IsMandatory

		return repository.SaveFee(tx, fee)
	})
	if err != nil {
		return nil, err
	}
	return fee, nil
}

func DeleteFee(db *gorm.DB, feeID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		fee, err := repository.FindFeeByID(tx, feeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Tarif tidak ditemukan")
			}
			return err
		}

		used, err := repository.FeeUsedInInvoices(tx, fee.FeeID)
		if err != nil {
			return err
		}
		if used {
			return fiber.NewError(fiber.StatusConflict,
				"Tarif tidak dapat dihapus karena sudah dipakai pada tagihan")
		}

		return repository.DeleteFee(tx, fee)
	})
}

func GetAllFees(db *gorm.DB) ([]dto.FeeResponse, error) {
	fees, err := repository.FindAllFees(db)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FeeResponse, 0, len(fees))
	for _, f := range fees {
		out = append(out, dto.ToFeeResponse(f))
	}
	return out, nil
}
