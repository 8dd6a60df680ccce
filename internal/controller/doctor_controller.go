package controller

import (
	"curamind-be/internal/dto"
	"curamind-be/internal/entity"
	"curamind-be/internal/pkg/apperror"
	"curamind-be/internal/pkg/serverutils"
	"curamind-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDoctorController interface {
	RegisterRoutes(r fiber.Router)
	GetProfile(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
	AvailableDoctors(ctx *fiber.Ctx) error

	// Consultations
	Queue(ctx *fiber.Ctx) error
	ConsultationDetail(ctx *fiber.Ctx) error
	Respond(ctx *fiber.Ctx) error
}

type doctorController struct {
	service      service.IDoctorService
	consultation service.IConsultationService
}

func NewDoctorController(service service.IDoctorService, consultation service.IConsultationService) IDoctorController {
	return &doctorController{service: service, consultation: consultation}
}

func (c *doctorController) RegisterRoutes(r fiber.Router) {
	r.Get("/doctors/available", serverutils.JwtMiddleware, c.AvailableDoctors)

	h := r.Group("/doctor")
	h.Use(serverutils.JwtMiddleware, serverutils.RequireRole(string(entity.AccountRoleDoctor)))
	h.Get("/profile", c.GetProfile)
	h.Put("/profile", c.UpdateProfile)
	h.Get("/consultations", c.Queue)
	h.Get("/consultations/:id", c.ConsultationDetail)
	h.Post("/consultations/:id/respond", c.Respond)
}

func (c *doctorController) GetProfile(ctx *fiber.Ctx) error {
	accountId, err := serverutils.CurrentAccountId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetProfile(ctx.UserContext(), accountId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Doctor profile", res))
}

func (c *doctorController) UpdateProfile(ctx *fiber.Ctx) error {
	accountId, err := serverutils.CurrentAccountId(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateDoctorProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateProfile(ctx.UserContext(), accountId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Profile updated", res))
}

func (c *doctorController) AvailableDoctors(ctx *fiber.Ctx) error {
	res, err := c.service.AvailableDoctors(ctx.UserContext(), ctx.Query("specialty"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Available doctors", res))
}

func (c *doctorController) Queue(ctx *fiber.Ctx) error {
	accountId, err := serverutils.CurrentAccountId(ctx)
	if err != nil {
		return err
	}

	status := ctx.Query("status")
	switch entity.ConsultationStatus(status) {
	case "", entity.ConsultationStatusPending, entity.ConsultationStatusAccepted,
		entity.ConsultationStatusRejected, entity.ConsultationStatusCompleted:
	default:
		return apperror.InvalidInput("unknown consultation status")
	}

	res, err := c.consultation.DoctorQueue(ctx.UserContext(), accountId, status)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Consultation queue", res))
}

func (c *doctorController) ConsultationDetail(ctx *fiber.Ctx) error {
	accountId, err := serverutils.CurrentAccountId(ctx)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.InvalidInput("invalid consultation id")
	}

	res, err := c.consultation.DoctorDetail(ctx.UserContext(), accountId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Consultation detail", res))
}

func (c *doctorController) Respond(ctx *fiber.Ctx) error {
	accountId, err := serverutils.CurrentAccountId(ctx)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.InvalidInput("invalid consultation id")
	}

	var req dto.RespondConsultationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.consultation.Respond(ctx.UserContext(), accountId, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Consultation "+res.Status, res))
}
