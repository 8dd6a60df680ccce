// FILE: internal/controller/auth_controller.go
package controller

import (
	"curamind-be/internal/dto"
	"curamind-be/internal/pkg/apperror"
	"curamind-be/internal/pkg/serverutils"
	"curamind-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	SignUp(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	ChangePassword(ctx *fiber.Ctx) error
	ForgotPassword(ctx *fiber.Ctx) error
	VerifyOtp(ctx *fiber.Ctx) error
	ResetPassword(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
}

func NewAuthController(service service.IAuthService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/sign-up", c.SignUp)
	h.Post("/login", c.Login)
	h.Post("/forgot-password", c.ForgotPassword)
	h.Post("/verify-otp", c.VerifyOtp)
	h.Post("/reset-password", c.ResetPassword)
	h.Post("/change-password", serverutils.JwtMiddleware, c.ChangePassword)
}

// SignUp accepts JSON for patients and multipart for doctors, who may
// attach a "license" file.
func (c *authController) SignUp(ctx *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	var license *dto.UploadedFile
	if fh, err := ctx.FormFile("license"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return apperror.InvalidInput("could not read license file")
		}
		defer f.Close()
		license = &dto.UploadedFile{Name: fh.Filename, Content: f}
	}

	res, err := c.service.SignUp(ctx.UserContext(), &req, license)
	if err != nil {
		return err
	}

	message := "Account created. Check your email for your temporary password."
	if !res.IsVerified {
		message = "Registration received. You will be emailed once an admin verifies your license."
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse(message, res))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *authController) ChangePassword(ctx *fiber.Ctx) error {
	accountId, err := serverutils.CurrentAccountId(ctx)
	if err != nil {
		return err
	}

	var req dto.ChangePasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.ChangePassword(ctx.UserContext(), accountId, &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Password changed", nil))
}

func (c *authController) ForgotPassword(ctx *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.ForgotPassword(ctx.UserContext(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("OTP sent to your email", nil))
}

func (c *authController) VerifyOtp(ctx *fiber.Ctx) error {
	var req dto.VerifyOtpRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.VerifyOtp(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("OTP verified", res))
}

func (c *authController) ResetPassword(ctx *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InvalidInput("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.ResetPassword(ctx.UserContext(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Password has been reset", nil))
}
