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

type IPatientController interface {
	RegisterRoutes(r fiber.Router)
	GetProfile(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
	TriageHistory(ctx *fiber.Ctx) error

	// Consultations
	RequestConsultation(ctx *fiber.Ctx) error
	ListConsultations(ctx *fiber.Ctx) error
	ConsultationStatus(ctx *fiber.Ctx) error
}

type patientController struct {
	service      service.IPatientService
	consultation service.IConsultationService
}

func NewPatientController(service service.IPatientService, consultation service.IConsultationService) IPatientController {
	return &patientController{service: service, consultation: consultation}
}

func (c *patientController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/patient")
	h.Use(serverutils.JwtMiddleware, serverutils.RequireRole(string(entity.AccountRolePatient)))
	h.Get("/profile", c.GetProfile)
	h.Put("/profile", c.UpdateProfile)
	h.Get("/triage-history", c.TriageHistory)

	h.Post("/consultations", c.RequestConsultation)
	h.Get("/consultations", c.ListConsultations)
	h.Get("/consultations/:id/status", c.ConsultationStatus)
}

func (c *patientController) GetProfile(ctx *fiber.Ctx) error {
	accountId, err := serverutils.CurrentAccountId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetProfile(ctx.UserContext(), accountId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Patient profile", res))
}

func (c *patientController) UpdateProfile(ctx *fiber.Ctx) error {
	accountId, err := serverutils.CurrentAccountId(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdatePatientProfileRequest
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

func (c *patientController) TriageHistory(ctx *fiber.Ctx) error {
	accountId, err := serverutils.CurrentAccountId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.TriageHistory(ctx.UserContext(), accountId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Triage history", res))
}

func (c *patientController) RequestConsultation(ctx *fiber.Ctx) error {
	accountId, err := serverutils.CurrentAccountId(ctx)
	if err != nil {
		return err
	}

	var req dto.RequestConsultationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.consultation.Request(ctx.UserContext(), accountId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Consultation requested", res))
}

func (c *patientController) ListConsultations(ctx *fiber.Ctx) error {
	accountId, err := serverutils.CurrentAccountId(ctx)
	if err != nil {
		return err
	}

	res, err := c.consultation.PatientConsultations(ctx.UserContext(), accountId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Consultations", res))
}

func (c *patientController) ConsultationStatus(ctx *fiber.Ctx) error {
	accountId, err := serverutils.CurrentAccountId(ctx)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.InvalidInput("invalid consultation id")
	}

	res, err := c.consultation.PatientStatus(ctx.UserContext(), accountId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Consultation status", res))
}
