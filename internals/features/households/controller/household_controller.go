// file: internals/features/households/controller/household_controller.go
package controller

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"rumahku_backend/internals/features/households/dto"
	"rumahku_backend/internals/features/households/service"
	helper "rumahku_backend/internals/helpers"
)

var validate = validator.New()

type HouseholdController struct {
	DB *gorm.DB
}

func NewHouseholdController(db *gorm.DB) *HouseholdController {
	return &HouseholdController{DB: db}
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Parameter id tidak valid")
	}
	return uint(id), nil
}

/* =========================================================
   HOUSEHOLD
========================================================= */

// POST /api/households
func (ctrl *HouseholdController) CreateHousehold(c *fiber.Ctx) error {
	var req dto.HouseholdRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	apt, host, err := service.CreateHousehold(ctrl.DB, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Rumah berhasil dibuat", fiber.Map{
		"apartment": apt,
		"host":      dto.ToResidentResponse(*host),
	})
}

// GET /api/households?search=&page=&per_page=
func (ctrl *HouseholdController) GetHouseholds(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)
	list, total, err := service.GetHouseholds(ctrl.DB, c.Query("search"), paging.Offset, paging.Limit)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	pg := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "Daftar rumah", list, &pg)
}

// GET /api/households/:id
func (ctrl *HouseholdController) GetHouseholdByID(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	apt, host, members, err := service.GetHouseholdByID(ctrl.DB, id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	memberResps := make([]dto.ResidentResponse, 0, len(members))
	for _, m := range members {
		memberResps = append(memberResps, dto.ToResidentResponse(m))
	}
	body := fiber.Map{
		"apartment": apt,
		"members":   memberResps,
	}
	if host != nil {
		body["host"] = dto.ToResidentResponse(*host)
	}
	return helper.JsonOK(c, "Detail rumah", body)
}

// PUT /api/households/:id
func (ctrl *HouseholdController) UpdateHousehold(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	var req dto.HouseholdRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	apt, err := service.UpdateHousehold(ctrl.DB, id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Rumah berhasil diperbarui", apt)
}

// DELETE /api/households/:id
func (ctrl *HouseholdController) DeleteHousehold(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := service.DeleteHousehold(ctrl.DB, id); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "Rumah berhasil dihapus", fiber.Map{"id": id})
}

/* =========================================================
   MEMBER
========================================================= */

// GET /api/households/:id/members
func (ctrl *HouseholdController) GetMembers(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	members, err := service.GetHouseholdMembers(ctrl.DB, id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	out := make([]dto.ResidentResponse, 0, len(members))
	for _, m := range members {
		out = append(out, dto.ToResidentResponse(m))
	}
	return helper.JsonOK(c, "Daftar anggota", out)
}

// POST /api/households/:id/members
func (ctrl *HouseholdController) AddMember(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	var req dto.MemberRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	member, err := service.AddMember(ctrl.DB, id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "Anggota berhasil ditambahkan", dto.ToResidentResponse(*member))
}

// PUT /api/residents/:id
func (ctrl *HouseholdController) UpdateMember(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	var req dto.UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body request tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	res, err := service.UpdateMember(ctrl.DB, id, req)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "Data penghuni berhasil diperbarui", dto.ToResidentResponse(*res))
}

// DELETE /api/residents/:id
func (ctrl *HouseholdController) DeleteResident(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	if err := service.DeleteResident(ctrl.DB, id); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "Penghuni berhasil dihapus", fiber.Map{"id": id})
}

// GET /api/residents?search=&page=&per_page=
func (ctrl *HouseholdController) GetAllResidents(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)
	list, total, err := service.GetAllResidents(ctrl.DB, c.Query("search"), paging.Offset, paging.Limit)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	pg := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "Daftar penghuni", list, &pg)
}
