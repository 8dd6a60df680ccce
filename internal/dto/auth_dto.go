package dto

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// SignUpRequest is read from JSON for patients and from a multipart form for
// doctors, who may attach a license scan.
type SignUpRequest struct {
	Email         string `json:"email" form:"email" validate:"required,email"`
	FullName      string `json:"full_name" form:"full_name" validate:"required,min=3"`
	Role          string `json:"role" form:"role" validate:"required,oneof=patient doctor"`
	PhoneNumber   string `json:"phone_number" form:"phone_number" validate:"omitempty,max=20"`
	DateOfBirth   string `json:"date_of_birth" form:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender        string `json:"gender" form:"gender" validate:"omitempty,oneof=male female other"`
	Address       string `json:"address" form:"address"`
	Specialty     string `json:"specialty" form:"specialty" validate:"required_if=Role doctor"`
	LicenseNumber string `json:"license_number" form:"license_number" validate:"required_if=Role doctor"`
	Hospital      string `json:"hospital" form:"hospital"`
}

// UploadedFile decouples services from fiber's multipart types.
type UploadedFile struct {
	Name    string
	Content io.Reader
}

type SignUpResponse struct {
	AccountId  uuid.UUID `json:"account_id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	AccountId   uuid.UUID `json:"account_id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	FirstLogin  bool      `json:"first_login"`
}

type ChangePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
	Otp   string `json:"otp" validate:"required,len=6,numeric"`
}

type VerifyOtpResponse struct {
	ResetToken string    `json:"reset_token"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type ResetPasswordRequest struct {
	ResetToken  string `json:"reset_token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}
