package dto

import (
	"time"

	"curamind-be/pkg/triage"

	"github.com/google/uuid"
)

type RequestConsultationRequest struct {
	DoctorId uuid.UUID  `json:"doctor_id" validate:"required"`
	TriageId *uuid.UUID `json:"triage_id"`
}

type ConsultationResponse struct {
	Id              uuid.UUID   `json:"id"`
	Status          string      `json:"status"`
	DoctorId        uuid.UUID   `json:"doctor_id"`
	DoctorName      string      `json:"doctor_name,omitempty"`
	PatientName     string      `json:"patient_name,omitempty"`
	TriageSessionId *uuid.UUID  `json:"triage_session_id,omitempty"`
	Flag            triage.Flag `json:"flag,omitempty"`
	Summary         string      `json:"summary,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type ConsultationDetailResponse struct {
	ConsultationResponse
	PatientAge int                    `json:"patient_age"`
	Answers    map[string]interface{} `json:"answers,omitempty"`
	SoapNote   *triage.SoapNote       `json:"soap_note,omitempty"`
}

type RespondConsultationRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type MessageResponse struct {
	Id        uuid.UUID `json:"id"`
	SenderId  uuid.UUID `json:"sender_id"`
	IsMine    bool      `json:"is_mine"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type EndConsultationRequest struct {
	Summary string `json:"summary" validate:"required,max=5000"`
}
