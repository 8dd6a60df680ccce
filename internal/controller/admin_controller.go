// FILE: internal/controller/admin_controller.go
package controller

import (
	"strconv"

	"curamind-be/internal/dto"
	"curamind-be/internal/entity"
	"curamind-be/internal/pkg/apperror"
	"curamind-be/internal/pkg/serverutils"
	"curamind-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetDashboardStats(ctx *fiber.Ctx) error

	// Doctor verification
	ListDoctors(ctx *fiber.Ctx) error
	VerifyDoctor(ctx *fiber.Ctx) error
	RejectDoctor(ctx *fiber.Ctx) error

	// Triage records
	GetTriageHistory(ctx *fiber.Ctx) error
	GetTriageDetail(ctx *fiber.Ctx) error

	// Logs
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
}

type adminController struct {
	service service.IAdminService
}

func NewAdminController(service service.IAdminService) IAdminController {
	return &adminController{service: service}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(serverutils.JwtMiddleware, serverutils.RequireRole(string(entity.AccountRoleAdmin)))

	h.Get("/dashboard-stats", c.GetDashboardStats)

	h.Get("/doctors", c.ListDoctors)
	h.Post("/doctors/:id/verify", c.VerifyDoctor)
	h.Post("/doctors/:id/reject", c.RejectDoctor)

	h.Get("/triage-history", c.GetTriageHistory)
	h.Get("/triage/:id", c.GetTriageDetail)

	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)
}

func (c *adminController) GetDashboardStats(ctx *fiber.Ctx) error {
	stats, err := c.service.GetDashboardStats(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Dashboard stats", stats))
}

func (c *adminController) ListDoctors(ctx *fiber.Ctx) error {
	res, err := c.service.ListDoctors(ctx.UserContext(), ctx.Query("status"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Doctors", res))
}

func (c *adminController) VerifyDoctor(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.InvalidInput("invalid doctor id")
	}

	res, err := c.service.VerifyDoctor(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Doctor verified, credentials emailed", res))
}

func (c *adminController) RejectDoctor(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.InvalidInput("invalid doctor id")
	}

	var req dto.RejectDoctorRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.RejectDoctor(ctx.UserContext(), id, &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Doctor registration rejected", nil))
}

func (c *adminController) GetTriageHistory(ctx *fiber.Ctx) error {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))

	res, err := c.service.GetTriageHistory(ctx.UserContext(), page, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Triage history", res))
}

func (c *adminController) GetTriageDetail(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.InvalidInput("invalid session id")
	}

	res, err := c.service.GetTriageDetail(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Triage detail", res))
}

// GetLogs reads the structured log file; limit and offset page through it newest first.
func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	limit, _ := strconv.Atoi(ctx.Query("limit", "0"))
	offset, _ := strconv.Atoi(ctx.Query("offset", "0"))

	logs, err := c.service.GetSystemLogs(ctx.UserContext(), ctx.Query("level"), ctx.Query("module"), limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	res, err := c.service.GetLogDetail(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail", res))
}
