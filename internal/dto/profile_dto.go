package dto

import (
	"time"

	"curamind-be/pkg/triage"

	"github.com/google/uuid"
)

type PatientProfileResponse struct {
	AccountId   uuid.UUID `json:"account_id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	Gender      string    `json:"gender"`
	DateOfBirth string    `json:"date_of_birth"`
	Age         int       `json:"age"`
}

type UpdatePatientProfileRequest struct {
	FullName    string `json:"full_name" validate:"omitempty,min=3"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20"`
	Address     string `json:"address"`
	Gender      string `json:"gender" validate:"omitempty,oneof=male female other"`
}

type TriageHistoryItem struct {
	SessionId uuid.UUID       `json:"session_id"`
	Flag      triage.Flag     `json:"flag"`
	Specialty string          `json:"specialty"`
	SoapNote  triage.SoapNote `json:"soap_note"`
	CreatedAt time.Time       `json:"created_at"`
}

type DoctorProfileResponse struct {
	Id            uuid.UUID `json:"id"`
	AccountId     uuid.UUID `json:"account_id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	Specialty     string    `json:"specialty"`
	LicenseNumber string    `json:"license_number"`
	LicenseURL    string    `json:"license_url,omitempty"`
	Hospital      string    `json:"hospital"`
	PhoneNumber   string    `json:"phone_number"`
	Bio           string    `json:"bio"`
	IsAvailable   bool      `json:"is_available"`
	IsVerified    bool      `json:"is_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// UpdateDoctorProfileRequest only touches the fields that are present.
type UpdateDoctorProfileRequest struct {
	Available *bool   `json:"available"`
	Bio       *string `json:"bio" validate:"omitempty,max=2000"`
	Hospital  *string `json:"hospital" validate:"omitempty,max=200"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
}

type AvailableDoctorResponse struct {
	Id        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Specialty string    `json:"specialty"`
	Hospital  string    `json:"hospital"`
	Bio       string    `json:"bio"`
}
