package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type ByRole struct {
	Role string
}

func (s ByRole) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("role = ?", s.Role)
}

// ByAccountID matches profile rows owned by an account.
type ByAccountID struct {
	AccountID uuid.UUID
}

func (s ByAccountID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("account_id = ?", s.AccountID)
}

// OTP Specs

type ByOtpCode struct {
	Email string
	Code  string
}

func (s ByOtpCode) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ? AND code = ?", s.Email, s.Code)
}

type UnusedOtp struct{}

func (s UnusedOtp) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("used = ?", false)
}

type OtpNotExpired struct {
	Now time.Time
}

func (s OtpNotExpired) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("expires_at > ?", s.Now)
}
