package dto

import (
	"time"

	"curamind-be/pkg/triage"

	"github.com/google/uuid"
)

type DashboardStatsResponse struct {
	PendingVerifications int64            `json:"pending_verifications"`
	VerifiedDoctors      int64            `json:"verified_doctors"`
	TotalPatients        int64            `json:"total_patients"`
	TriageByFlag         map[string]int64 `json:"triage_by_flag"`
}

type RejectDoctorRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
	Note   string `json:"note" validate:"max=2000"`
}

type AdminTriageItem struct {
	SessionId   uuid.UUID   `json:"session_id"`
	SubjectId   uuid.UUID   `json:"subject_id"`
	PatientName string      `json:"patient_name"`
	Flag        triage.Flag `json:"flag"`
	CreatedAt   time.Time   `json:"created_at"`
}

type AdminTriageDetail struct {
	AdminTriageItem
	Answers  map[string]interface{} `json:"answers"`
	SoapNote *triage.SoapNote       `json:"soap_note,omitempty"`
}
