package contract

import (
	"context"

	"curamind-be/internal/entity"
	"curamind-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConsultationRepository interface {
	Create(ctx context.Context, consultation *entity.Consultation) error
	Update(ctx context.Context, consultation *entity.Consultation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Consultation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Consultation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Messages
	CreateMessage(ctx context.Context, message *entity.ConsultationMessage) error
	FindMessages(ctx context.Context, consultationId uuid.UUID) ([]*entity.ConsultationMessage, error)
}
