package service

import (
	"context"
	"time"

	"curamind-be/internal/dto"
	"curamind-be/internal/entity"
	"curamind-be/internal/pkg/apperror"
	"curamind-be/internal/repository/specification"
	"curamind-be/internal/repository/unitofwork"
	"curamind-be/pkg/triage"

	"github.com/google/uuid"
)

const notAvailable = "N/A"

type IPatientService interface {
	GetProfile(ctx context.Context, accountId uuid.UUID) (*dto.PatientProfileResponse, error)
	UpdateProfile(ctx context.Context, accountId uuid.UUID, req *dto.UpdatePatientProfileRequest) (*dto.PatientProfileResponse, error)
	TriageHistory(ctx context.Context, accountId uuid.UUID) ([]dto.TriageHistoryItem, error)
}

type patientService struct {
	uowFactory unitofwork.RepositoryFactory
	now        func() time.Time
}

func NewPatientService(uowFactory unitofwork.RepositoryFactory) IPatientService {
	return &patientService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

func (s *patientService) load(ctx context.Context, uow unitofwork.UnitOfWork, accountId uuid.UUID) (*entity.Account, *entity.Patient, error) {
	account, err := uow.AccountRepository().FindOne(ctx, specification.ByID{ID: accountId})
	if err != nil {
		return nil, nil, apperror.Persistence(err)
	}
	patient, err := uow.PatientRepository().FindOne(ctx, specification.ByAccountID{AccountID: accountId})
	if err != nil {
		return nil, nil, apperror.Persistence(err)
	}
	if account == nil || patient == nil {
		return nil, nil, apperror.NotFound("patient profile not found")
	}
	return account, patient, nil
}

func (s *patientService) GetProfile(ctx context.Context, accountId uuid.UUID) (*dto.PatientProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	account, patient, err := s.load(ctx, uow, accountId)
	if err != nil {
		return nil, err
	}
	return s.toProfile(account, patient), nil
}

func (s *patientService) UpdateProfile(ctx context.Context, accountId uuid.UUID, req *dto.UpdatePatientProfileRequest) (*dto.PatientProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	account, patient, err := s.load(ctx, uow, accountId)
	if err != nil {
		return nil, err
	}

	if req.FullName != "" {
		patient.FullName = req.FullName
	}
	if req.PhoneNumber != "" {
		patient.PhoneNumber = req.PhoneNumber
	}
	if req.Address != "" {
		patient.Address = req.Address
	}
	if req.Gender != "" {
		patient.Gender = req.Gender
	}
	patient.UpdatedAt = s.now()

	if err := uow.PatientRepository().Update(ctx, patient); err != nil {
		return nil, apperror.Persistence(err)
	}
	return s.toProfile(account, patient), nil
}

// TriageHistory lists completed assessments, newest first. Abandoned
// sessions are left out.
func (s *patientService) TriageHistory(ctx context.Context, accountId uuid.UUID) ([]dto.TriageHistoryItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.TriageSessionRepository().FindAll(ctx,
		specification.BySubject{SubjectID: accountId},
		specification.TerminalSessions{},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	items := make([]dto.TriageHistoryItem, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, dto.TriageHistoryItem{
			SessionId: session.Id,
			Flag:      *session.Flag,
			Specialty: triage.SpecialtyFor(*session.Flag),
			SoapNote:  noteOrPlaceholder(session.Note),
			CreatedAt: session.CreatedAt,
		})
	}
	return items, nil
}

func noteOrPlaceholder(note *triage.SoapNote) triage.SoapNote {
	out := triage.SoapNote{}
	if note != nil {
		out = *note
	}
	for _, field := range []*string{&out.Subjective, &out.Objective, &out.Assessment, &out.Plan} {
		if *field == "" {
			*field = notAvailable
		}
	}
	return out
}

func (s *patientService) toProfile(account *entity.Account, patient *entity.Patient) *dto.PatientProfileResponse {
	return &dto.PatientProfileResponse{
		AccountId:   account.Id,
		Email:       account.Email,
		FullName:    patient.FullName,
		PhoneNumber: patient.PhoneNumber,
		Address:     patient.Address,
		Gender:      patient.Gender,
		DateOfBirth: patient.DateOfBirth.Format("2006-01-02"),
		Age:         int(patient.AgeAt(s.now())),
	}
}
