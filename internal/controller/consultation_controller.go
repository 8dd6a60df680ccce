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

type IConsultationController interface {
	RegisterRoutes(r fiber.Router)
	Messages(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	End(ctx *fiber.Ctx) error
}

// consultationController serves routes shared by both parties of a consultation.
type consultationController struct {
	service service.IConsultationService
}

func NewConsultationController(service service.IConsultationService) IConsultationController {
	return &consultationController{service: service}
}

func (c *consultationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/consultations")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/:id/messages", c.Messages)
	h.Post("/:id/messages", c.SendMessage)
	h.Post("/:id/end", serverutils.RequireRole(string(entity.AccountRoleDoctor)), c.End)
}

func consultationParams(ctx *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	accountId, err := serverutils.CurrentAccountId(ctx)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, apperror.InvalidInput("invalid consultation id")
	}
	return accountId, id, nil
}

func (c *consultationController) Messages(ctx *fiber.Ctx) error {
	accountId, id, err := consultationParams(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Messages(ctx.UserContext(), accountId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Messages", res))
}

func (c *consultationController) SendMessage(ctx *fiber.Ctx) error {
	accountId, id, err := consultationParams(ctx)
	if err != nil {
		return err
	}

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendMessage(ctx.UserContext(), accountId, id, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Message sent", res))
}

func (c *consultationController) End(ctx *fiber.Ctx) error {
	accountId, id, err := consultationParams(ctx)
	if err != nil {
		return err
	}

	var req dto.EndConsultationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.End(ctx.UserContext(), accountId, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Consultation completed", res))
}
