package contract

import (
	"context"

	"curamind-be/internal/entity"
	"curamind-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	Update(ctx context.Context, account *entity.Account) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Account, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Account, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Business Specific
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string, isTemp bool) error
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error

	// Password reset OTPs
	CreateOtp(ctx context.Context, otp *entity.PasswordResetOtp) error
	FindOtp(ctx context.Context, specs ...specification.Specification) (*entity.PasswordResetOtp, error)
	InvalidateOtps(ctx context.Context, email string) error
	MarkOtpUsed(ctx context.Context, id uuid.UUID) error
}
