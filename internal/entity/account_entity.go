// FILE: internal/entity/account_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type AccountRole string

const (
	AccountRolePatient AccountRole = "patient"
	AccountRoleDoctor  AccountRole = "doctor"
	AccountRoleAdmin   AccountRole = "admin"
)

type Account struct {
	Id             uuid.UUID
	Email          string
	PasswordHash   string
	Role           AccountRole
	IsVerified     bool
	IsTempPassword bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type PasswordResetOtp struct {
	Id        uuid.UUID
	Email     string
	Code      string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

func (o *PasswordResetOtp) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
