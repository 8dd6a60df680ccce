package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"curamind-be/internal/dto"
	"curamind-be/internal/entity"
	"curamind-be/internal/pkg/apperror"
	"curamind-be/internal/pkg/logger"
	"curamind-be/internal/repository/specification"
	"curamind-be/internal/repository/unitofwork"
	clinicEvents "curamind-be/pkg/clinic/events"

	"github.com/google/uuid"
)

const messagePreviewLength = 80

type IConsultationService interface {
	Request(ctx context.Context, patientAccountId uuid.UUID, req *dto.RequestConsultationRequest) (*dto.ConsultationResponse, error)
	PatientConsultations(ctx context.Context, patientAccountId uuid.UUID) ([]dto.ConsultationResponse, error)
	PatientStatus(ctx context.Context, patientAccountId, consultationId uuid.UUID) (*dto.ConsultationResponse, error)
	DoctorQueue(ctx context.Context, doctorAccountId uuid.UUID, status string) ([]dto.ConsultationResponse, error)
	DoctorDetail(ctx context.Context, doctorAccountId, consultationId uuid.UUID) (*dto.ConsultationDetailResponse, error)
	Respond(ctx context.Context, doctorAccountId, consultationId uuid.UUID, req *dto.RespondConsultationRequest) (*dto.ConsultationResponse, error)
	Messages(ctx context.Context, accountId, consultationId uuid.UUID) ([]dto.MessageResponse, error)
	SendMessage(ctx context.Context, accountId, consultationId uuid.UUID, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	End(ctx context.Context, doctorAccountId, consultationId uuid.UUID, req *dto.EndConsultationRequest) (*dto.ConsultationResponse, error)
}

type consultationService struct {
	uowFactory unitofwork.RepositoryFactory
	events     clinicEvents.Publisher
	logger     logger.ILogger
	now        func() time.Time
}

func NewConsultationService(uowFactory unitofwork.RepositoryFactory, events clinicEvents.Publisher, log logger.ILogger) IConsultationService {
	return &consultationService{
		uowFactory: uowFactory,
		events:     events,
		logger:     log,
		now:        time.Now,
	}
}

// Request opens a pending consultation with an online doctor. Without an
// explicit triage id the patient's latest completed triage is attached.
func (s *consultationService) Request(ctx context.Context, patientAccountId uuid.UUID, req *dto.RequestConsultationRequest) (*dto.ConsultationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Persistence(err)
	}
	defer uow.Rollback()

	patient, err := uow.PatientRepository().FindOne(ctx,
		specification.ByAccountID{AccountID: patientAccountId},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if patient == nil {
		return nil, apperror.NotFound("patient profile not found")
	}

	doctor, err := uow.DoctorRepository().FindOne(ctx, specification.ByID{ID: req.DoctorId})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if doctor == nil || !doctor.IsVerified {
		return nil, apperror.NotFound("doctor not found")
	}
	if !doctor.IsAvailable {
		return nil, apperror.Conflict("doctor is not available right now")
	}

	session, err := s.resolveTriage(ctx, uow, patientAccountId, req.TriageId)
	if err != nil {
		return nil, err
	}

	pending, err := uow.ConsultationRepository().Count(ctx,
		specification.ByPatientAccount{AccountID: patientAccountId},
		specification.ByDoctor{DoctorID: doctor.Id},
		specification.ByConsultationStatus{Status: string(entity.ConsultationStatusPending)},
	)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if pending > 0 {
		return nil, apperror.Conflict("a request to this doctor is already pending")
	}

	now := s.now()
	consultation := &entity.Consultation{
		Id:               uuid.New(),
		PatientAccountId: patientAccountId,
		DoctorId:         doctor.Id,
		Status:           entity.ConsultationStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if session != nil {
		consultation.TriageSessionId = &session.Id
	}

	if err := uow.ConsultationRepository().Create(ctx, consultation); err != nil {
		return nil, apperror.Persistence(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Persistence(err)
	}

	s.logger.Info("CONSULTATION", "Consultation requested", map[string]interface{}{
		"consultation_id": consultation.Id,
		"doctor_id":       doctor.Id,
	})
	s.events.PublishConsultationRequested(ctx, consultation.Id, patientAccountId, doctor.AccountId, patient.FullName)

	return s.toResponse(consultation, doctor.FullName, patient.FullName, session), nil
}

func (s *consultationService) resolveTriage(ctx context.Context, uow unitofwork.UnitOfWork, patientAccountId uuid.UUID, triageId *uuid.UUID) (*entity.TriageSession, error) {
	if triageId == nil {
		session, err := uow.TriageSessionRepository().FindOne(ctx,
			specification.BySubject{SubjectID: patientAccountId},
			specification.TerminalSessions{},
			specification.OrderBy{Field: "created_at", Desc: true},
		)
		if err != nil {
			return nil, apperror.Persistence(err)
		}
		return session, nil
	}

	session, err := uow.TriageSessionRepository().FindOne(ctx,
		specification.SessionByID{ID: *triageId},
		specification.BySubject{SubjectID: patientAccountId},
	)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if session == nil || !session.IsTerminal() {
		return nil, apperror.InvalidInput("triage_id must reference one of your completed assessments")
	}
	return session, nil
}

func (s *consultationService) PatientConsultations(ctx context.Context, patientAccountId uuid.UUID) ([]dto.ConsultationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	consultations, err := uow.ConsultationRepository().FindAll(ctx,
		specification.ByPatientAccount{AccountID: patientAccountId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	out := make([]dto.ConsultationResponse, 0, len(consultations))
	for _, c := range consultations {
		doctor, err := uow.DoctorRepository().FindOne(ctx, specification.ByID{ID: c.DoctorId})
		if err != nil {
			return nil, apperror.Persistence(err)
		}
		name := ""
		if doctor != nil {
			name = doctor.FullName
		}
		out = append(out, *s.toResponse(c, name, "", nil))
	}
	return out, nil
}

func (s *consultationService) PatientStatus(ctx context.Context, patientAccountId, consultationId uuid.UUID) (*dto.ConsultationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	c, err := uow.ConsultationRepository().FindOne(ctx,
		specification.ByID{ID: consultationId},
		specification.ByPatientAccount{AccountID: patientAccountId},
	)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if c == nil {
		return nil, apperror.NotFound("consultation not found")
	}

	doctor, err := uow.DoctorRepository().FindOne(ctx, specification.ByID{ID: c.DoctorId})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	name := ""
	if doctor != nil {
		name = doctor.FullName
	}
	return s.toResponse(c, name, "", nil), nil
}

// DoctorQueue lists the doctor's consultations, optionally by status, with
// the patient's name and triage flag attached.
func (s *consultationService) DoctorQueue(ctx context.Context, doctorAccountId uuid.UUID, status string) ([]dto.ConsultationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doctor, err := s.doctorFor(ctx, uow, doctorAccountId)
	if err != nil {
		return nil, err
	}

	specs := []specification.Specification{specification.ByDoctor{DoctorID: doctor.Id}}
	if status != "" {
		specs = append(specs, specification.ByConsultationStatus{Status: status})
	}
	specs = append(specs, specification.OrderBy{Field: "created_at", Desc: true})

	consultations, err := uow.ConsultationRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	out := make([]dto.ConsultationResponse, 0, len(consultations))
	for _, c := range consultations {
		patient, session, err := s.patientContext(ctx, uow, c)
		if err != nil {
			return nil, err
		}
		name := ""
		if patient != nil {
			name = patient.FullName
		}
		out = append(out, *s.toResponse(c, doctor.FullName, name, session))
	}
	return out, nil
}

func (s *consultationService) DoctorDetail(ctx context.Context, doctorAccountId, consultationId uuid.UUID) (*dto.ConsultationDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doctor, c, err := s.doctorConsultation(ctx, uow, doctorAccountId, consultationId)
	if err != nil {
		return nil, err
	}

	patient, session, err := s.patientContext(ctx, uow, c)
	if err != nil {
		return nil, err
	}

	detail := &dto.ConsultationDetailResponse{}
	if patient != nil {
		detail.ConsultationResponse = *s.toResponse(c, doctor.FullName, patient.FullName, session)
		detail.PatientAge = int(patient.AgeAt(s.now()))
	} else {
		detail.ConsultationResponse = *s.toResponse(c, doctor.FullName, "", session)
	}
	if session != nil {
		detail.Answers = session.Answers.ToMap()
		detail.SoapNote = session.Note
	}
	return detail, nil
}

func (s *consultationService) Respond(ctx context.Context, doctorAccountId, consultationId uuid.UUID, req *dto.RespondConsultationRequest) (*dto.ConsultationResponse, error) {
	next := entity.ConsultationStatus(req.Status)
	if next != entity.ConsultationStatusAccepted && next != entity.ConsultationStatusRejected {
		return nil, apperror.InvalidInput("status must be accepted or rejected")
	}

	c, doctor, err := s.transition(ctx, doctorAccountId, consultationId, next, "")
	if err != nil {
		return nil, err
	}

	s.events.PublishConsultationResponded(ctx, c.Id, doctor.AccountId, c.PatientAccountId, doctor.FullName, string(c.Status))
	return s.toResponse(c, doctor.FullName, "", nil), nil
}

func (s *consultationService) End(ctx context.Context, doctorAccountId, consultationId uuid.UUID, req *dto.EndConsultationRequest) (*dto.ConsultationResponse, error) {
	c, doctor, err := s.transition(ctx, doctorAccountId, consultationId, entity.ConsultationStatusCompleted, req.Summary)
	if err != nil {
		return nil, err
	}

	s.events.PublishConsultationEnded(ctx, c.Id, doctor.AccountId, c.PatientAccountId, doctor.FullName)
	return s.toResponse(c, doctor.FullName, "", nil), nil
}

func (s *consultationService) transition(ctx context.Context, doctorAccountId, consultationId uuid.UUID, next entity.ConsultationStatus, summary string) (*entity.Consultation, *entity.Doctor, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, apperror.Persistence(err)
	}
	defer uow.Rollback()

	doctor, c, err := s.doctorConsultation(ctx, uow, doctorAccountId, consultationId, specification.ForUpdate{})
	if err != nil {
		return nil, nil, err
	}
	if !c.CanTransitionTo(next) {
		return nil, nil, apperror.Conflict(fmt.Sprintf("consultation is %s and cannot become %s", c.Status, next))
	}

	c.Status = next
	if summary != "" {
		c.Summary = summary
	}
	c.UpdatedAt = s.now()

	if err := uow.ConsultationRepository().Update(ctx, c); err != nil {
		return nil, nil, apperror.Persistence(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, nil, apperror.Persistence(err)
	}

	s.logger.Info("CONSULTATION", "Consultation status changed", map[string]interface{}{
		"consultation_id": c.Id,
		"status":          c.Status,
	})
	return c, doctor, nil
}

func (s *consultationService) Messages(ctx context.Context, accountId, consultationId uuid.UUID) ([]dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	c, _, err := s.participantView(ctx, uow, accountId, consultationId)
	if err != nil {
		return nil, err
	}

	messages, err := uow.ConsultationRepository().FindMessages(ctx, c.Id)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	out := make([]dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, toMessageResponse(m, accountId))
	}
	return out, nil
}

// SendMessage appends to the thread. Only accepted consultations are open
// for conversation.
func (s *consultationService) SendMessage(ctx context.Context, accountId, consultationId uuid.UUID, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	c, doctor, err := s.participantView(ctx, uow, accountId, consultationId)
	if err != nil {
		return nil, err
	}
	if c.Status != entity.ConsultationStatusAccepted {
		return nil, apperror.Conflict("messages can only be sent while the consultation is accepted")
	}

	msg := &entity.ConsultationMessage{
		Id:             uuid.New(),
		ConsultationId: c.Id,
		SenderId:       accountId,
		Content:        req.Content,
		CreatedAt:      s.now(),
	}
	if err := uow.ConsultationRepository().CreateMessage(ctx, msg); err != nil {
		return nil, apperror.Persistence(err)
	}

	recipient, senderName := c.PatientAccountId, doctor.FullName
	if accountId == c.PatientAccountId {
		recipient = doctor.AccountId
		senderName = ""
		if patient, err := uow.PatientRepository().FindOne(ctx, specification.ByAccountID{AccountID: accountId}); err == nil && patient != nil {
			senderName = patient.FullName
		}
	}
	s.events.PublishConsultationMessage(ctx, c.Id, accountId, recipient, senderName, preview(req.Content))

	resp := toMessageResponse(msg, accountId)
	return &resp, nil
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= messagePreviewLength {
		return content
	}
	return string([]rune(content)[:messagePreviewLength]) + "..."
}

func (s *consultationService) doctorFor(ctx context.Context, uow unitofwork.UnitOfWork, accountId uuid.UUID) (*entity.Doctor, error) {
	doctor, err := uow.DoctorRepository().FindOne(ctx, specification.ByAccountID{AccountID: accountId})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if doctor == nil {
		return nil, apperror.NotFound("doctor profile not found")
	}
	return doctor, nil
}

func (s *consultationService) doctorConsultation(ctx context.Context, uow unitofwork.UnitOfWork, doctorAccountId, consultationId uuid.UUID, extra ...specification.Specification) (*entity.Doctor, *entity.Consultation, error) {
	doctor, err := s.doctorFor(ctx, uow, doctorAccountId)
	if err != nil {
		return nil, nil, err
	}

	specs := append([]specification.Specification{
		specification.ByID{ID: consultationId},
		specification.ByDoctor{DoctorID: doctor.Id},
	}, extra...)
	c, err := uow.ConsultationRepository().FindOne(ctx, specs...)
	if err != nil {
		return nil, nil, apperror.Persistence(err)
	}
	if c == nil {
		return nil, nil, apperror.NotFound("consultation not found")
	}
	return doctor, c, nil
}

// participantView loads the consultation for either of its two parties.
func (s *consultationService) participantView(ctx context.Context, uow unitofwork.UnitOfWork, accountId, consultationId uuid.UUID) (*entity.Consultation, *entity.Doctor, error) {
	c, err := uow.ConsultationRepository().FindOne(ctx, specification.ByID{ID: consultationId})
	if err != nil {
		return nil, nil, apperror.Persistence(err)
	}
	if c == nil {
		return nil, nil, apperror.NotFound("consultation not found")
	}

	doctor, err := uow.DoctorRepository().FindOne(ctx, specification.ByID{ID: c.DoctorId})
	if err != nil {
		return nil, nil, apperror.Persistence(err)
	}
	if doctor == nil {
		return nil, nil, apperror.NotFound("consultation not found")
	}

	if accountId != c.PatientAccountId && accountId != doctor.AccountId {
		return nil, nil, apperror.Forbidden("you are not part of this consultation")
	}
	return c, doctor, nil
}

func (s *consultationService) patientContext(ctx context.Context, uow unitofwork.UnitOfWork, c *entity.Consultation) (*entity.Patient, *entity.TriageSession, error) {
	patient, err := uow.PatientRepository().FindOne(ctx, specification.ByAccountID{AccountID: c.PatientAccountId})
	if err != nil {
		return nil, nil, apperror.Persistence(err)
	}
	if c.TriageSessionId == nil {
		return patient, nil, nil
	}
	session, err := uow.TriageSessionRepository().FindOne(ctx, specification.SessionByID{ID: *c.TriageSessionId})
	if err != nil {
		return nil, nil, apperror.Persistence(err)
	}
	return patient, session, nil
}

func (s *consultationService) toResponse(c *entity.Consultation, doctorName, patientName string, session *entity.TriageSession) *dto.ConsultationResponse {
	resp := &dto.ConsultationResponse{
		Id:              c.Id,
		Status:          string(c.Status),
		DoctorId:        c.DoctorId,
		DoctorName:      doctorName,
		PatientName:     patientName,
		TriageSessionId: c.TriageSessionId,
		Summary:         c.Summary,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	if session != nil && session.Flag != nil {
		resp.Flag = *session.Flag
	}
	return resp
}

func toMessageResponse(m *entity.ConsultationMessage, viewer uuid.UUID) dto.MessageResponse {
	return dto.MessageResponse{
		Id:        m.Id,
		SenderId:  m.SenderId,
		IsMine:    m.SenderId == viewer,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
