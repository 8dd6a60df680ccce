package contract

import (
	"context"

	"curamind-be/internal/entity"
	"curamind-be/internal/repository/specification"
	"curamind-be/pkg/triage"

	"github.com/google/uuid"
)

type TriageSessionRepository interface {
	Create(ctx context.Context, session *entity.TriageSession) error
	Update(ctx context.Context, session *entity.TriageSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TriageSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TriageSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// FindLatestOpen returns the newest session for the subject with no flag.
	FindLatestOpen(ctx context.Context, subjectId uuid.UUID) (*entity.TriageSession, error)
	// AbandonOpen flags every open session of the subject ABANDONED.
	AbandonOpen(ctx context.Context, subjectId uuid.UUID) (int64, error)
	// FindAllWithPatient fills PatientName from the patients table.
	FindAllWithPatient(ctx context.Context, specs ...specification.Specification) ([]*entity.TriageSession, error)
	CountByFlag(ctx context.Context) (map[triage.Flag]int64, error)
}
