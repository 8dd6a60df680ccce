package contract

import (
	"context"

	"curamind-be/internal/entity"
	"curamind-be/internal/repository/specification"
)

type PatientRepository interface {
	Create(ctx context.Context, patient *entity.Patient) error
	Update(ctx context.Context, patient *entity.Patient) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Patient, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
