package mapper

import (
	"curamind-be/internal/entity"
	"curamind-be/internal/model"
)

type ProfileMapper struct{}

func NewProfileMapper() *ProfileMapper {
	return &ProfileMapper{}
}

func (m *ProfileMapper) PatientToEntity(p *model.Patient) *entity.Patient {
	if p == nil {
		return nil
	}
	return &entity.Patient{
		Id:          p.Id,
		AccountId:   p.AccountId,
		FullName:    p.FullName,
		PhoneNumber: p.PhoneNumber,
		Address:     p.Address,
		Gender:      p.Gender,
		DateOfBirth: p.DateOfBirth,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *ProfileMapper) PatientToModel(p *entity.Patient) *model.Patient {
	if p == nil {
		return nil
	}
	return &model.Patient{
		Id:          p.Id,
		AccountId:   p.AccountId,
		FullName:    p.FullName,
		PhoneNumber: p.PhoneNumber,
		Address:     p.Address,
		Gender:      p.Gender,
		DateOfBirth: p.DateOfBirth,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// DoctorToEntity also copies the joined account fields when preloaded.
func (m *ProfileMapper) DoctorToEntity(d *model.Doctor) *entity.Doctor {
	if d == nil {
		return nil
	}
	return &entity.Doctor{
		Id:            d.Id,
		AccountId:     d.AccountId,
		FullName:      d.FullName,
		Specialty:     d.Specialty,
		LicenseNumber: d.LicenseNumber,
		LicenseURL:    d.LicenseURL,
		Hospital:      d.Hospital,
		PhoneNumber:   d.PhoneNumber,
		Bio:           d.Bio,
		IsAvailable:   d.IsAvailable,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		Email:         d.Account.Email,
		IsVerified:    d.Account.IsVerified,
	}
}

func (m *ProfileMapper) DoctorToModel(d *entity.Doctor) *model.Doctor {
	if d == nil {
		return nil
	}
	return &model.Doctor{
		Id:            d.Id,
		AccountId:     d.AccountId,
		FullName:      d.FullName,
		Specialty:     d.Specialty,
		LicenseNumber: d.LicenseNumber,
		LicenseURL:    d.LicenseURL,
		Hospital:      d.Hospital,
		PhoneNumber:   d.PhoneNumber,
		Bio:           d.Bio,
		IsAvailable:   d.IsAvailable,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func (m *ProfileMapper) DoctorsToEntities(models []*model.Doctor) []*entity.Doctor {
	out := make([]*entity.Doctor, 0, len(models))
	for _, d := range models {
		out = append(out, m.DoctorToEntity(d))
	}
	return out
}
