// file: internals/features/finance/fees/controller/fee_controller.go
package controller

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"rumahku_backend/internals/features/finance/fees/dto"
	"rumahku_backend/internals/features/finance/fees/service"
	helper "rumahku_backend/internals/helpers"
)

var validate = validator.New()

type FeeController struct {
	DB *gorm.DB
}

func NewFeeController(db *gorm.DB) *FeeController {
	return &FeeController{DB: db}
}

// GET /api/fees
func (ctrl *FeeController) GetAllFees(c *fiber.Ctx) error {
	fees, err := service.GetAllFees(ctrl.DB)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Daftar tarif", fees)
}

// POST /api/fees
func (ctrl *FeeController) CreateFee(c *fiber.Ctx) error {
	var req dto.FeeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	fee, err := service.CreateFee(ctrl.DB, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Tarif berhasil dibuat", dto.ToFeeResponse(*fee))
}

// PUT /api/fees/:id
func (ctrl *FeeController) UpdateFee(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Parameter id tidak valid")
	}

	var req dto.FeeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	fee, err := service.UpdateFee(ctrl.DB, uint(id), req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Tarif berhasil diperbarui", dto.ToFeeResponse(*fee))
}

// DELETE /api/fees/:id
func (ctrl *FeeController) DeleteFee(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Parameter id tidak valid")
	}
	if err := service.DeleteFee(ctrl.DB, uint(id)); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "Tarif berhasil dihapus", fiber.Map{"id": id})
}
