package service

import (
	"context"
	"errors"
	"time"

	"curamind-be/internal/dto"
	"curamind-be/internal/entity"
	"curamind-be/internal/pkg/apperror"
	"curamind-be/internal/pkg/logger"
	"curamind-be/internal/pkg/mailer"
	"curamind-be/internal/pkg/storage"
	"curamind-be/internal/repository/specification"
	"curamind-be/internal/repository/unitofwork"
	clinicEvents "curamind-be/pkg/clinic/events"
	"curamind-be/pkg/triage"

	"github.com/google/uuid"
)

const (
	DoctorStatusVerified   = "verified"
	DoctorStatusUnverified = "unverified"

	defaultLogLimit = 50

	// zapcore.ISO8601TimeEncoder
	logTimeLayout = "2006-01-02T15:04:05.000Z0700"
)

type IAdminService interface {
	GetDashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error)

	// Doctor verification
	ListDoctors(ctx context.Context, status string) ([]*dto.DoctorProfileResponse, error)
	VerifyDoctor(ctx context.Context, doctorId uuid.UUID) (*dto.DoctorProfileResponse, error)
	RejectDoctor(ctx context.Context, doctorId uuid.UUID, req *dto.RejectDoctorRequest) error

	// Triage records
	GetTriageHistory(ctx context.Context, page, limit int) ([]dto.AdminTriageItem, error)
	GetTriageDetail(ctx context.Context, sessionId uuid.UUID) (*dto.AdminTriageDetail, error)

	// Logs
	GetSystemLogs(ctx context.Context, level, module string, limit, offset int) ([]*dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	mail       IPublisherService
	files      storage.IFileStorage
	events     clinicEvents.Publisher
	logger     logger.ILogger
	loginURL   string
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	mail IPublisherService,
	files storage.IFileStorage,
	events clinicEvents.Publisher,
	log logger.ILogger,
	loginURL string,
) IAdminService {
	return &adminService{
		uowFactory: uowFactory,
		mail:       mail,
		files:      files,
		events:     events,
		logger:     log,
		loginURL:   loginURL,
	}
}

func (s *adminService) GetDashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	pending, err := uow.DoctorRepository().Count(ctx, specification.DoctorVerified{Verified: false})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	verified, err := uow.DoctorRepository().Count(ctx, specification.DoctorVerified{Verified: true})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	patients, err := uow.PatientRepository().Count(ctx)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	byFlag, err := uow.TriageSessionRepository().CountByFlag(ctx)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	stats := &dto.DashboardStatsResponse{
		PendingVerifications: pending,
		VerifiedDoctors:      verified,
		TotalPatients:        patients,
		TriageByFlag: map[string]int64{
			string(triage.FlagRed):    0,
			string(triage.FlagYellow): 0,
			string(triage.FlagGreen):  0,
		},
	}
	for flag, n := range byFlag {
		stats.TriageByFlag[string(flag)] = n
	}
	return stats, nil
}

func (s *adminService) ListDoctors(ctx context.Context, status string) ([]*dto.DoctorProfileResponse, error) {
	specs := []specification.Specification{}
	switch status {
	case "":
	case DoctorStatusVerified:
		specs = append(specs, specification.DoctorVerified{Verified: true})
	case DoctorStatusUnverified:
		specs = append(specs, specification.DoctorVerified{Verified: false})
	default:
		return nil, apperror.InvalidInput("status must be verified or unverified")
	}
	specs = append(specs, specification.OrderBy{Field: "doctors.created_at", Desc: true})

	doctors, err := s.uowFactory.NewUnitOfWork(ctx).DoctorRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	out := make([]*dto.DoctorProfileResponse, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, toDoctorProfile(d))
	}
	return out, nil
}

func (s *adminService) findDoctor(ctx context.Context, uow unitofwork.UnitOfWork, doctorId uuid.UUID) (*entity.Doctor, error) {
	doctor, err := uow.DoctorRepository().FindOne(ctx, specification.ByID{ID: doctorId})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if doctor == nil {
		return nil, apperror.NotFound("doctor not found")
	}
	return doctor, nil
}

// VerifyDoctor activates the account and mails a fresh temporary password.
// Doctors never receive credentials before this point.
func (s *adminService) VerifyDoctor(ctx context.Context, doctorId uuid.UUID) (*dto.DoctorProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Persistence(err)
	}
	defer uow.Rollback()

	doctor, err := s.findDoctor(ctx, uow, doctorId)
	if err != nil {
		return nil, err
	}
	if doctor.IsVerified {
		return nil, apperror.Conflict("doctor is already verified")
	}

	password, err := generateTempPassword()
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to generate password", err)
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to hash password", err)
	}

	if err := uow.AccountRepository().UpdatePassword(ctx, doctor.AccountId, hash, true); err != nil {
		return nil, apperror.Persistence(err)
	}
	if err := uow.AccountRepository().SetVerified(ctx, doctor.AccountId, true); err != nil {
		return nil, apperror.Persistence(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Persistence(err)
	}

	doctor.IsVerified = true
	s.logger.Info("ADMIN", "Doctor verified", map[string]interface{}{
		"doctor_id": doctor.Id,
		"email":     doctor.Email,
	})

	s.queueMail(ctx, mailer.TemporaryPasswordMail(doctor.Email, doctor.FullName, password, s.loginURL))
	s.events.PublishDoctorVerified(ctx, doctor.AccountId, doctor.Email)

	return toDoctorProfile(doctor), nil
}

// RejectDoctor removes the registration entirely so the doctor can sign up again.
func (s *adminService) RejectDoctor(ctx context.Context, doctorId uuid.UUID, req *dto.RejectDoctorRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return apperror.Persistence(err)
	}
	defer uow.Rollback()

	doctor, err := s.findDoctor(ctx, uow, doctorId)
	if err != nil {
		return err
	}
	if doctor.IsVerified {
		return apperror.Conflict("verified doctors cannot be rejected")
	}

	if err := uow.DoctorRepository().Delete(ctx, doctor.Id); err != nil {
		return apperror.Persistence(err)
	}
	if err := uow.AccountRepository().Delete(ctx, doctor.AccountId); err != nil {
		return apperror.Persistence(err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.Persistence(err)
	}

	if doctor.LicenseURL != "" {
		if err := s.files.Remove(doctor.LicenseURL); err != nil {
			s.logger.Warn("ADMIN", "Failed to remove license file", map[string]interface{}{
				"url":   doctor.LicenseURL,
				"error": err.Error(),
			})
		}
	}

	s.logger.Info("ADMIN", "Doctor rejected", map[string]interface{}{
		"doctor_id": doctor.Id,
		"reason":    req.Reason,
	})
	s.queueMail(ctx, mailer.DoctorRejectionMail(doctor.Email, doctor.FullName, req.Reason, req.Note))
	return nil
}

func (s *adminService) GetTriageHistory(ctx context.Context, page, limit int) ([]dto.AdminTriageItem, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	sessions, err := s.uowFactory.NewUnitOfWork(ctx).TriageSessionRepository().FindAllWithPatient(ctx,
		specification.TerminalSessions{},
		specification.OrderBy{Field: "triage_sessions.created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	out := make([]dto.AdminTriageItem, 0, len(sessions))
	for _, t := range sessions {
		out = append(out, toAdminTriageItem(t))
	}
	return out, nil
}

func (s *adminService) GetTriageDetail(ctx context.Context, sessionId uuid.UUID) (*dto.AdminTriageDetail, error) {
	sessions, err := s.uowFactory.NewUnitOfWork(ctx).TriageSessionRepository().FindAllWithPatient(ctx,
		specification.SessionByID{ID: sessionId},
	)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if len(sessions) == 0 {
		return nil, apperror.NotFound("triage session not found")
	}

	t := sessions[0]
	return &dto.AdminTriageDetail{
		AdminTriageItem: toAdminTriageItem(t),
		Answers:         t.Answers.ToMap(),
		SoapNote:        t.Note,
	}, nil
}

func toAdminTriageItem(t *entity.TriageSession) dto.AdminTriageItem {
	item := dto.AdminTriageItem{
		SessionId:   t.Id,
		SubjectId:   t.SubjectId,
		PatientName: t.PatientName,
		CreatedAt:   t.CreatedAt,
	}
	if t.Flag != nil {
		item.Flag = *t.Flag
	}
	return item
}

func (s *adminService) GetSystemLogs(ctx context.Context, level, module string, limit, offset int) ([]*dto.LogListResponse, error) {
	if limit <= 0 {
		limit = defaultLogLimit
	}
	entries, err := s.logger.GetLogs(logger.LogFilter{
		Level:  level,
		Module: module,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to read logs", err)
	}

	out := make([]*dto.LogListResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toLogListResponse(e))
	}
	return out, nil
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error) {
	entry, err := s.logger.GetLogById(logId)
	if errors.Is(err, logger.ErrLogNotFound) {
		return nil, apperror.NotFound("log not found")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "failed to read logs", err)
	}
	return &dto.LogDetailResponse{
		LogListResponse: *toLogListResponse(*entry),
		Details:         entry.Details,
	}, nil
}

func toLogListResponse(e logger.LogEntry) *dto.LogListResponse {
	created, _ := time.Parse(logTimeLayout, e.Timestamp)
	return &dto.LogListResponse{
		Id:        e.Id,
		Level:     e.Level,
		Module:    e.Module,
		Message:   e.Message,
		CreatedAt: created,
	}
}

func (s *adminService) queueMail(ctx context.Context, mail mailer.Mail) {
	if err := s.mail.SendMail(ctx, mail); err != nil {
		s.logger.Error("ADMIN", "Failed to queue mail", map[string]interface{}{
			"to":    mail.To,
			"error": err.Error(),
		})
	}
}
