package entity

import (
	"time"

	"github.com/google/uuid"
)

type ConsultationStatus string

const (
	ConsultationStatusPending   ConsultationStatus = "pending"
	ConsultationStatusAccepted  ConsultationStatus = "accepted"
	ConsultationStatusRejected  ConsultationStatus = "rejected"
	ConsultationStatusCompleted ConsultationStatus = "completed"
)

// Consultation links a patient account to a doctor profile, optionally
// carrying the triage session that prompted it.
type Consultation struct {
	Id               uuid.UUID
	PatientAccountId uuid.UUID
	DoctorId         uuid.UUID
	TriageSessionId  *uuid.UUID
	Status           ConsultationStatus
	Summary          string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CanTransitionTo encodes pending -> accepted|rejected and accepted -> completed.
func (c *Consultation) CanTransitionTo(next ConsultationStatus) bool {
	switch c.Status {
	case ConsultationStatusPending:
		return next == ConsultationStatusAccepted || next == ConsultationStatusRejected
	case ConsultationStatusAccepted:
		return next == ConsultationStatusCompleted
	default:
		return false
	}
}

type ConsultationMessage struct {
	Id             uuid.UUID
	ConsultationId uuid.UUID
	SenderId       uuid.UUID
	Content        string
	CreatedAt      time.Time
}
