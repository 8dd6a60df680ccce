package unitofwork

import (
	"context"

	"curamind-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AccountRepository() contract.AccountRepository
	PatientRepository() contract.PatientRepository
	DoctorRepository() contract.DoctorRepository
	TriageSessionRepository() contract.TriageSessionRepository
	ConsultationRepository() contract.ConsultationRepository
}
