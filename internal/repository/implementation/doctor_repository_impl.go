package implementation

import (
	"context"
	"errors"

	"curamind-be/internal/entity"
	"curamind-be/internal/mapper"
	"curamind-be/internal/model"
	"curamind-be/internal/repository/contract"
	"curamind-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProfileMapper
}

func NewDoctorRepository(db *gorm.DB) contract.DoctorRepository {
	return &DoctorRepositoryImpl{
		db:     db,
		mapper: mapper.NewProfileMapper(),
	}
}

func (r *DoctorRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DoctorRepositoryImpl) Create(ctx context.Context, doctor *entity.Doctor) error {
	m := r.mapper.DoctorToModel(doctor)
	if err := r.db.WithContext(ctx).Omit("Account").Create(m).Error; err != nil {
		return err
	}
	doctor.Id = m.Id
	doctor.CreatedAt = m.CreatedAt
	doctor.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *DoctorRepositoryImpl) Update(ctx context.Context, doctor *entity.Doctor) error {
	m := r.mapper.DoctorToModel(doctor)
	if err := r.db.WithContext(ctx).Omit("Account").Save(m).Error; err != nil {
		return err
	}
	doctor.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *DoctorRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Doctor{}).Error
}

func (r *DoctorRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Doctor, error) {
	var m model.Doctor
	query := r.applySpecifications(r.db.WithContext(ctx).Preload("Account"), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.DoctorToEntity(&m), nil
}

func (r *DoctorRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Doctor, error) {
	var models []*model.Doctor
	query := r.applySpecifications(r.db.WithContext(ctx).Preload("Account"), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.DoctorsToEntities(models), nil
}

func (r *DoctorRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Doctor{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
