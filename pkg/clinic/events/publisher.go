package events

import (
	"context"

	"curamind-be/internal/pkg/logger"
	pkgEvents "curamind-be/pkg/events"
	pktNats "curamind-be/pkg/nats"

	"github.com/google/uuid"
)

// Event codes. They double as notification_types.code rows.
const (
	TriageCompleted       = "TRIAGE_COMPLETED"
	ConsultationRequested = "CONSULTATION_REQUESTED"
	ConsultationResponded = "CONSULTATION_RESPONDED"
	ConsultationMessage   = "CONSULTATION_MESSAGE"
	ConsultationEnded     = "CONSULTATION_ENDED"
	DoctorRegistered      = "DOCTOR_REGISTERED"
	DoctorVerified        = "DOCTOR_VERIFIED"
)

// Codes lists every event the clinic publishes.
var Codes = []string{
	TriageCompleted,
	ConsultationRequested,
	ConsultationResponded,
	ConsultationMessage,
	ConsultationEnded,
	DoctorRegistered,
	DoctorVerified,
}

// Publisher abstracts event publishing for clinic workflows. Every method
// is fire-and-forget: failures are logged, never returned.
type Publisher interface {
	PublishTriageCompleted(ctx context.Context, patientAccountId, sessionId uuid.UUID, flag, specialty string)
	PublishConsultationRequested(ctx context.Context, consultationId, patientAccountId, doctorAccountId uuid.UUID, patientName string)
	PublishConsultationResponded(ctx context.Context, consultationId, doctorAccountId, patientAccountId uuid.UUID, doctorName, status string)
	PublishConsultationMessage(ctx context.Context, consultationId, senderAccountId, recipientAccountId uuid.UUID, senderName, preview string)
	PublishConsultationEnded(ctx context.Context, consultationId, doctorAccountId, patientAccountId uuid.UUID, doctorName string)
	PublishDoctorRegistered(ctx context.Context, doctorAccountId uuid.UUID, email, fullName string)
	PublishDoctorVerified(ctx context.Context, doctorAccountId uuid.UUID, email string)
}

// NatsPublisher implements Publisher on top of the NATS bus. A nil bus turns
// every call into a no-op so the API still runs without a broker.
type NatsPublisher struct {
	publisher *pktNats.Publisher
	logger    logger.ILogger
}

func NewNatsPublisher(publisher *pktNats.Publisher, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

func (p *NatsPublisher) emit(ctx context.Context, code string, data map[string]interface{}) {
	if p == nil || p.publisher == nil {
		return
	}

	if err := p.publisher.Publish(ctx, pkgEvents.New(code, data)); err != nil {
		p.logger.Error("CLINIC_EVENTS", "Failed to publish "+code+" event", map[string]interface{}{"error": err.Error()})
	}
}

func (p *NatsPublisher) PublishTriageCompleted(ctx context.Context, patientAccountId, sessionId uuid.UUID, flag, specialty string) {
	p.emit(ctx, TriageCompleted, map[string]interface{}{
		"user_id":     patientAccountId.String(),
		"session_id":  sessionId.String(),
		"flag":        flag,
		"specialty":   specialty,
		"entity_type": "triage",
		"entity_id":   sessionId.String(),
	})
}

func (p *NatsPublisher) PublishConsultationRequested(ctx context.Context, consultationId, patientAccountId, doctorAccountId uuid.UUID, patientName string) {
	p.emit(ctx, ConsultationRequested, map[string]interface{}{
		"user_id":      doctorAccountId.String(),
		"actor_id":     patientAccountId.String(),
		"patient_name": patientName,
		"entity_type":  "consultation",
		"entity_id":    consultationId.String(),
	})
}

func (p *NatsPublisher) PublishConsultationResponded(ctx context.Context, consultationId, doctorAccountId, patientAccountId uuid.UUID, doctorName, status string) {
	p.emit(ctx, ConsultationResponded, map[string]interface{}{
		"user_id":     patientAccountId.String(),
		"actor_id":    doctorAccountId.String(),
		"doctor_name": doctorName,
		"status":      status,
		"entity_type": "consultation",
		"entity_id":   consultationId.String(),
	})
}

func (p *NatsPublisher) PublishConsultationMessage(ctx context.Context, consultationId, senderAccountId, recipientAccountId uuid.UUID, senderName, preview string) {
	p.emit(ctx, ConsultationMessage, map[string]interface{}{
		"user_id":     recipientAccountId.String(),
		"actor_id":    senderAccountId.String(),
		"sender_name": senderName,
		"preview":     preview,
		"entity_type": "consultation",
		"entity_id":   consultationId.String(),
	})
}

func (p *NatsPublisher) PublishConsultationEnded(ctx context.Context, consultationId, doctorAccountId, patientAccountId uuid.UUID, doctorName string) {
	p.emit(ctx, ConsultationEnded, map[string]interface{}{
		"user_id":     patientAccountId.String(),
		"actor_id":    doctorAccountId.String(),
		"doctor_name": doctorName,
		"entity_type": "consultation",
		"entity_id":   consultationId.String(),
	})
}

// PublishDoctorRegistered targets the admin role; there is no user_id.
func (p *NatsPublisher) PublishDoctorRegistered(ctx context.Context, doctorAccountId uuid.UUID, email, fullName string) {
	p.emit(ctx, DoctorRegistered, map[string]interface{}{
		"actor_id":    doctorAccountId.String(),
		"email":       email,
		"full_name":   fullName,
		"entity_type": "doctor",
		"entity_id":   doctorAccountId.String(),
	})
}

func (p *NatsPublisher) PublishDoctorVerified(ctx context.Context, doctorAccountId uuid.UUID, email string) {
	p.emit(ctx, DoctorVerified, map[string]interface{}{
		"user_id":     doctorAccountId.String(),
		"email":       email,
		"entity_type": "doctor",
		"entity_id":   doctorAccountId.String(),
	})
}
