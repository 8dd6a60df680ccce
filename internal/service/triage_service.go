package service

import (
	"context"
	"strings"
	"time"

	"curamind-be/internal/dto"
	"curamind-be/internal/entity"
	"curamind-be/internal/pkg/apperror"
	"curamind-be/internal/pkg/logger"
	"curamind-be/internal/repository/memory"
	"curamind-be/internal/repository/specification"
	"curamind-be/internal/repository/unitofwork"
	clinicEvents "curamind-be/pkg/clinic/events"
	"curamind-be/pkg/triage"

	"github.com/google/uuid"
)

// RestartCommand opens a fresh session, abandoning any open one.
const RestartCommand = "START_TRIAGE"

type ITriageService interface {
	HandleMessage(ctx context.Context, subjectId uuid.UUID, message string) (*dto.TriageTurnResponse, error)
	StartSession(ctx context.Context, subjectId uuid.UUID) (*entity.TriageSession, error)
	CurrentOpenSession(ctx context.Context, subjectId uuid.UUID) (*dto.TriageSessionResponse, error)
	Evaluate(ctx context.Context, req *dto.TriageEvaluateRequest) (*dto.TriageEvaluateResponse, error)
	Questions() []triage.QuestionDef
	Recommendations() []triage.Recommendation
}

type triageService struct {
	uowFactory unitofwork.RepositoryFactory
	tracker    *triage.Tracker
	locker     *memory.SubjectLocker
	events     clinicEvents.Publisher
	logger     logger.ILogger
	now        func() time.Time
}

func NewTriageService(
	uowFactory unitofwork.RepositoryFactory,
	tracker *triage.Tracker,
	locker *memory.SubjectLocker,
	events clinicEvents.Publisher,
	log logger.ILogger,
) ITriageService {
	return &triageService{
		uowFactory: uowFactory,
		tracker:    tracker,
		locker:     locker,
		events:     events,
		logger:     log,
		now:        time.Now,
	}
}

// HandleMessage runs one conversational turn for the subject. The whole
// turn commits atomically; on any failure nothing is persisted and the
// caller may simply retry.
func (s *triageService) HandleMessage(ctx context.Context, subjectId uuid.UUID, message string) (*dto.TriageTurnResponse, error) {
	// A blank utterance is not a "no"; it must never fill an answer slot.
	if strings.TrimSpace(message) == "" {
		return nil, apperror.InvalidInput("message is required")
	}

	unlock := s.locker.Lock(subjectId.String())
	defer unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Persistence(err)
	}
	defer uow.Rollback()

	patient, err := s.lockPatient(ctx, uow, subjectId)
	if err != nil {
		return nil, err
	}

	var session *entity.TriageSession
	if strings.EqualFold(strings.TrimSpace(message), RestartCommand) {
		session, err = s.openFresh(ctx, uow, patient)
	} else {
		session, err = uow.TriageSessionRepository().FindLatestOpen(ctx, subjectId)
		if err == nil && session == nil {
			session, err = s.openFresh(ctx, uow, patient)
		} else if err == nil {
			err = s.advance(ctx, uow, session, &message)
		}
	}
	if err != nil {
		return nil, err
	}

	outcome, err := s.outcomeFor(session)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Persistence(err)
	}

	if session.IsTerminal() {
		s.logger.Info("TRIAGE", "Triage session completed", map[string]interface{}{
			"session_id": session.Id,
			"subject_id": subjectId,
			"flag":       *session.Flag,
			"reason":     outcome.Reason,
		})
		s.events.PublishTriageCompleted(ctx, subjectId, session.Id, string(*session.Flag), triage.SpecialtyFor(*session.Flag))
	}

	return s.turnResponse(session, outcome), nil
}

// StartSession abandons the subject's open session, if any, and opens a
// new one with only the age filled in.
func (s *triageService) StartSession(ctx context.Context, subjectId uuid.UUID) (*entity.TriageSession, error) {
	unlock := s.locker.Lock(subjectId.String())
	defer unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Persistence(err)
	}
	defer uow.Rollback()

	patient, err := s.lockPatient(ctx, uow, subjectId)
	if err != nil {
		return nil, err
	}

	session, err := s.abandonAndCreate(ctx, uow, patient)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Persistence(err)
	}
	return session, nil
}

func (s *triageService) CurrentOpenSession(ctx context.Context, subjectId uuid.UUID) (*dto.TriageSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.TriageSessionRepository().FindLatestOpen(ctx, subjectId)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if session == nil {
		return nil, apperror.NotFound("no open triage session")
	}

	return &dto.TriageSessionResponse{
		SessionId: session.Id,
		Status:    dto.TriageStatusActive,
		Answers:   session.Answers.ToMap(),
		Question:  s.tracker.PendingQuestion(&session.Answers),
	}, nil
}

// Evaluate classifies a complete answer set without touching any session.
func (s *triageService) Evaluate(ctx context.Context, req *dto.TriageEvaluateRequest) (*dto.TriageEvaluateResponse, error) {
	answers, err := triage.ParseAnswers(req.Answers)
	if err != nil {
		return nil, apperror.InvalidInput(err.Error())
	}

	flag := triage.Classify(answers)
	rec, _ := triage.RecommendationFor(flag)

	return &dto.TriageEvaluateResponse{
		Flag:           flag,
		Recommendation: &rec,
		SoapNote:       triage.GenerateNote(answers, flag),
		Specialty:      triage.SpecialtyFor(flag),
	}, nil
}

func (s *triageService) Questions() []triage.QuestionDef {
	return s.tracker.Catalog().Questions()
}

func (s *triageService) Recommendations() []triage.Recommendation {
	return triage.Recommendations()
}

// lockPatient loads the subject row FOR UPDATE so turns for the same
// subject also serialize across instances.
func (s *triageService) lockPatient(ctx context.Context, uow unitofwork.UnitOfWork, subjectId uuid.UUID) (*entity.Patient, error) {
	patient, err := uow.PatientRepository().FindOne(ctx,
		specification.ByAccountID{AccountID: subjectId},
		specification.ForUpdate{},
	)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if patient == nil {
		return nil, apperror.NotFound("patient profile not found")
	}
	return patient, nil
}

func (s *triageService) abandonAndCreate(ctx context.Context, uow unitofwork.UnitOfWork, patient *entity.Patient) (*entity.TriageSession, error) {
	abandoned, err := uow.TriageSessionRepository().AbandonOpen(ctx, patient.AccountId)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if abandoned > 0 {
		s.logger.Info("TRIAGE", "Abandoned open triage sessions", map[string]interface{}{
			"subject_id": patient.AccountId,
			"count":      abandoned,
		})
	}

	now := s.now()
	age := patient.AgeAt(now)
	session := &entity.TriageSession{
		Id:        uuid.New(),
		SubjectId: patient.AccountId,
		Answers:   triage.Answers{Age: &age},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uow.TriageSessionRepository().Create(ctx, session); err != nil {
		return nil, apperror.Persistence(err)
	}
	return session, nil
}

// openFresh creates a session and runs its opening turn, which records no
// answer but may short-circuit (pediatric subject, empty catalog).
func (s *triageService) openFresh(ctx context.Context, uow unitofwork.UnitOfWork, patient *entity.Patient) (*entity.TriageSession, error) {
	session, err := s.abandonAndCreate(ctx, uow, patient)
	if err != nil {
		return nil, err
	}
	if err := s.advance(ctx, uow, session, nil); err != nil {
		return nil, err
	}
	return session, nil
}

// advance applies one turn and writes the session back. A terminal outcome
// closes the session with its note in the same write.
func (s *triageService) advance(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.TriageSession, utterance *string) error {
	outcome, err := session.Turn(s.tracker, utterance)
	if err != nil {
		return apperror.Wrap(apperror.KindInternal, "triage turn failed", err)
	}

	if outcome.Complete {
		session.Close(outcome.Flag, triage.GenerateNote(session.Answers, outcome.Flag))
	}
	session.UpdatedAt = s.now()

	if err := uow.TriageSessionRepository().Update(ctx, session); err != nil {
		return apperror.Persistence(err)
	}
	return nil
}

// outcomeFor re-derives what the caller should see from the stored session.
func (s *triageService) outcomeFor(session *entity.TriageSession) (triage.Outcome, error) {
	if session.IsTerminal() {
		return triage.Outcome{Complete: true, Flag: *session.Flag, Reason: s.reasonFor(session)}, nil
	}
	next := s.tracker.PendingQuestion(&session.Answers)
	if next == nil {
		return triage.Outcome{}, apperror.New(apperror.KindInternal, "open triage session has no pending question")
	}
	return triage.Outcome{Next: next}, nil
}

func (s *triageService) reasonFor(session *entity.TriageSession) triage.Reason {
	switch {
	case session.Answers.AgeOrDefault() < triage.PediatricAgeLimit:
		return triage.ReasonPediatric
	case s.tracker.Catalog().Len() == 0:
		return triage.ReasonNoCatalog
	case session.Answers.Accident != nil && *session.Answers.Accident == 1:
		return triage.ReasonTrauma
	default:
		return triage.ReasonAnswered
	}
}

func (s *triageService) turnResponse(session *entity.TriageSession, outcome triage.Outcome) *dto.TriageTurnResponse {
	if !outcome.Complete {
		answered, total := s.progress(&session.Answers)
		return &dto.TriageTurnResponse{
			Status:     dto.TriageStatusActive,
			SessionId:  session.Id,
			Question:   outcome.Next.Prompt,
			QuestionId: string(outcome.Next.ID),
			Helper:     outcome.Next.Helper,
			Image:      outcome.Next.ImageRef,
			Step:       answered + 1,
			TotalSteps: total,
		}
	}

	rec, _ := triage.RecommendationFor(outcome.Flag)
	return &dto.TriageTurnResponse{
		Status:         dto.TriageStatusComplete,
		SessionId:      session.Id,
		Flag:           outcome.Flag,
		Reason:         outcome.Reason,
		Recommendation: &rec,
		SoapNote:       session.Note,
		Specialty:      triage.SpecialtyFor(outcome.Flag),
	}
}

func (s *triageService) progress(a *triage.Answers) (answered, total int) {
	for _, q := range s.tracker.Catalog().Questions() {
		if q.ID == triage.FieldAge {
			continue
		}
		total++
		if a.Answered(q.ID) {
			answered++
		}
	}
	return answered, total
}
