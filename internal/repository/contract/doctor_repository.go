package contract

import (
	"context"

	"curamind-be/internal/entity"
	"curamind-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	Update(ctx context.Context, doctor *entity.Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
	// FindOne and FindAll preload the owning account.
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Doctor, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Doctor, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
