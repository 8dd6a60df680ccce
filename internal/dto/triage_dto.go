package dto

import (
	"curamind-be/pkg/triage"

	"github.com/google/uuid"
)

const (
	TriageStatusActive   = "active"
	TriageStatusComplete = "complete"
)

type TriageMessageRequest struct {
	Message string `json:"message" validate:"required,max=1000"`
}

// TriageTurnResponse carries either the next question (status active) or
// the final assessment (status complete).
type TriageTurnResponse struct {
	Status     string    `json:"status"`
	SessionId  uuid.UUID `json:"session_id"`
	Question   string    `json:"question,omitempty"`
	QuestionId string    `json:"question_id,omitempty"`
	Helper     string    `json:"helper,omitempty"`
	Image      string    `json:"image,omitempty"`
	Step       int       `json:"step,omitempty"`
	TotalSteps int       `json:"total_steps,omitempty"`

	Flag           triage.Flag            `json:"flag,omitempty"`
	Reason         triage.Reason          `json:"reason,omitempty"`
	Recommendation *triage.Recommendation `json:"recommendation,omitempty"`
	SoapNote       *triage.SoapNote       `json:"soap_note,omitempty"`
	Specialty      string                 `json:"specialty,omitempty"`
}

type TriageEvaluateRequest struct {
	Answers map[string]interface{} `json:"answers" validate:"required"`
}

type TriageEvaluateResponse struct {
	Flag           triage.Flag            `json:"flag"`
	Recommendation *triage.Recommendation `json:"recommendation"`
	SoapNote       triage.SoapNote        `json:"soap_note"`
	Specialty      string                 `json:"specialty"`
}

type TriageSessionResponse struct {
	SessionId uuid.UUID              `json:"session_id"`
	Status    string                 `json:"status"`
	Answers   map[string]interface{} `json:"answers"`
	Question  *triage.QuestionDef    `json:"next_question,omitempty"`
}
