package controller

import (
	"curamind-be/internal/dto"
	"curamind-be/internal/entity"
	"curamind-be/internal/pkg/apperror"
	"curamind-be/internal/pkg/serverutils"
	"curamind-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITriageController interface {
	RegisterRoutes(r fiber.Router)
	Message(ctx *fiber.Ctx) error
	Current(ctx *fiber.Ctx) error
	Evaluate(ctx *fiber.Ctx) error
	Questions(ctx *fiber.Ctx) error
	Recommendations(ctx *fiber.Ctx) error
}

type triageController struct {
	service service.ITriageService
}

func NewTriageController(service service.ITriageService) ITriageController {
	return &triageController{service: service}
}

func (c *triageController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/triage")
	h.Get("/questions", c.Questions)
	h.Get("/recommendations", c.Recommendations)

	h.Use(serverutils.JwtMiddleware)
	h.Post("/message", serverutils.RequireRole(string(entity.AccountRolePatient)), c.Message)
	h.Get("/current", serverutils.RequireRole(string(entity.AccountRolePatient)), c.Current)
	h.Post("/evaluate", c.Evaluate)
}

// Message runs one chat turn. The subject is always the caller.
func (c *triageController) Message(ctx *fiber.Ctx) error {
	accountId, err := serverutils.CurrentAccountId(ctx)
	if err != nil {
		return err
	}

	var req dto.TriageMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.HandleMessage(ctx.UserContext(), accountId, req.Message)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Triage turn processed", res))
}

func (c *triageController) Current(ctx *fiber.Ctx) error {
	accountId, err := serverutils.CurrentAccountId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.CurrentOpenSession(ctx.UserContext(), accountId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Open triage session", res))
}

func (c *triageController) Evaluate(ctx *fiber.Ctx) error {
	var req dto.TriageEvaluateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Evaluate(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Evaluation complete", res))
}

func (c *triageController) Questions(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Triage questions", c.service.Questions()))
}

func (c *triageController) Recommendations(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Triage recommendations", c.service.Recommendations()))
}
