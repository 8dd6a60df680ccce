package service

import (
	"context"
	"time"

	"curamind-be/internal/dto"
	"curamind-be/internal/entity"
	"curamind-be/internal/pkg/apperror"
	"curamind-be/internal/repository/specification"
	"curamind-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IDoctorService interface {
	GetProfile(ctx context.Context, accountId uuid.UUID) (*dto.DoctorProfileResponse, error)
	UpdateProfile(ctx context.Context, accountId uuid.UUID, req *dto.UpdateDoctorProfileRequest) (*dto.DoctorProfileResponse, error)
	AvailableDoctors(ctx context.Context, specialty string) ([]dto.AvailableDoctorResponse, error)
}

type doctorService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewDoctorService(uowFactory unitofwork.RepositoryFactory) IDoctorService {
	return &doctorService{uowFactory: uowFactory}
}

func (s *doctorService) find(ctx context.Context, uow unitofwork.UnitOfWork, accountId uuid.UUID) (*entity.Doctor, error) {
	doctor, err := uow.DoctorRepository().FindOne(ctx, specification.ByAccountID{AccountID: accountId})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if doctor == nil {
		return nil, apperror.NotFound("doctor profile not found")
	}
	return doctor, nil
}

func (s *doctorService) GetProfile(ctx context.Context, accountId uuid.UUID) (*dto.DoctorProfileResponse, error) {
	doctor, err := s.find(ctx, s.uowFactory.NewUnitOfWork(ctx), accountId)
	if err != nil {
		return nil, err
	}
	return toDoctorProfile(doctor), nil
}

func (s *doctorService) UpdateProfile(ctx context.Context, accountId uuid.UUID, req *dto.UpdateDoctorProfileRequest) (*dto.DoctorProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doctor, err := s.find(ctx, uow, accountId)
	if err != nil {
		return nil, err
	}

	if req.Available != nil {
		if *req.Available && !doctor.IsVerified {
			return nil, apperror.Forbidden("unverified doctors cannot go online")
		}
		doctor.IsAvailable = *req.Available
	}
	if req.Bio != nil {
		doctor.Bio = *req.Bio
	}
	if req.Hospital != nil {
		doctor.Hospital = *req.Hospital
	}
	if req.Phone != nil {
		doctor.PhoneNumber = *req.Phone
	}
	doctor.UpdatedAt = time.Now()

	if err := uow.DoctorRepository().Update(ctx, doctor); err != nil {
		return nil, apperror.Persistence(err)
	}
	return toDoctorProfile(doctor), nil
}

// AvailableDoctors lists verified, online doctors whose specialty contains
// the given text, ignoring case.
func (s *doctorService) AvailableDoctors(ctx context.Context, specialty string) ([]dto.AvailableDoctorResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doctors, err := uow.DoctorRepository().FindAll(ctx,
		specification.DoctorVerified{Verified: true},
		specification.DoctorAvailable{},
		specification.SpecialtyLike{Specialty: specialty},
		specification.OrderBy{Field: "doctors.full_name"},
	)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	out := make([]dto.AvailableDoctorResponse, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, dto.AvailableDoctorResponse{
			Id:        d.Id,
			FullName:  d.FullName,
			Specialty: d.Specialty,
			Hospital:  d.Hospital,
			Bio:       d.Bio,
		})
	}
	return out, nil
}

func toDoctorProfile(d *entity.Doctor) *dto.DoctorProfileResponse {
	return &dto.DoctorProfileResponse{
		Id:            d.Id,
		AccountId:     d.AccountId,
		Email:         d.Email,
		FullName:      d.FullName,
		Specialty:     d.Specialty,
		LicenseNumber: d.LicenseNumber,
		LicenseURL:    d.LicenseURL,
		Hospital:      d.Hospital,
		PhoneNumber:   d.PhoneNumber,
		Bio:           d.Bio,
		IsAvailable:   d.IsAvailable,
		IsVerified:    d.IsVerified,
		CreatedAt:     d.CreatedAt,
	}
}
