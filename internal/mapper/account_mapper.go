package mapper

import (
	"curamind-be/internal/entity"
	"curamind-be/internal/model"
)

type AccountMapper struct{}

func NewAccountMapper() *AccountMapper {
	return &AccountMapper{}
}

func (m *AccountMapper) ToEntity(a *model.Account) *entity.Account {
	if a == nil {
		return nil
	}
	return &entity.Account{
		Id:             a.Id,
		Email:          a.Email,
		PasswordHash:   a.PasswordHash,
		Role:           entity.AccountRole(a.Role),
		IsVerified:     a.IsVerified,
		IsTempPassword: a.IsTempPassword,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func (m *AccountMapper) ToModel(a *entity.Account) *model.Account {
	if a == nil {
		return nil
	}
	return &model.Account{
		Id:             a.Id,
		Email:          a.Email,
		PasswordHash:   a.PasswordHash,
		Role:           string(a.Role),
		IsVerified:     a.IsVerified,
		IsTempPassword: a.IsTempPassword,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func (m *AccountMapper) ToEntities(models []*model.Account) []*entity.Account {
	out := make([]*entity.Account, 0, len(models))
	for _, a := range models {
		out = append(out, m.ToEntity(a))
	}
	return out
}

func (m *AccountMapper) OtpToEntity(o *model.PasswordResetOtp) *entity.PasswordResetOtp {
	if o == nil {
		return nil
	}
	return &entity.PasswordResetOtp{
		Id:        o.Id,
		Email:     o.Email,
		Code:      o.Code,
		ExpiresAt: o.ExpiresAt,
		Used:      o.Used,
		CreatedAt: o.CreatedAt,
	}
}

func (m *AccountMapper) OtpToModel(o *entity.PasswordResetOtp) *model.PasswordResetOtp {
	if o == nil {
		return nil
	}
	return &model.PasswordResetOtp{
		Id:        o.Id,
		Email:     o.Email,
		Code:      o.Code,
		ExpiresAt: o.ExpiresAt,
		Used:      o.Used,
		CreatedAt: o.CreatedAt,
	}
}
