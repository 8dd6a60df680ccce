package implementation

import (
	"context"
	"errors"

	"curamind-be/internal/entity"
	"curamind-be/internal/mapper"
	"curamind-be/internal/model"
	"curamind-be/internal/repository/contract"
	"curamind-be/internal/repository/specification"

	"gorm.io/gorm"
)

type PatientRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProfileMapper
}

func NewPatientRepository(db *gorm.DB) contract.PatientRepository {
	return &PatientRepositoryImpl{
		db:     db,
		mapper: mapper.NewProfileMapper(),
	}
}

func (r *PatientRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PatientRepositoryImpl) Create(ctx context.Context, patient *entity.Patient) error {
	m := r.mapper.PatientToModel(patient)
	if err := r.db.WithContext(ctx).Omit("Account").Create(m).Error; err != nil {
		return err
	}
	*patient = *r.mapper.PatientToEntity(m)
	return nil
}

func (r *PatientRepositoryImpl) Update(ctx context.Context, patient *entity.Patient) error {
	m := r.mapper.PatientToModel(patient)
	if err := r.db.WithContext(ctx).Omit("Account").Save(m).Error; err != nil {
		return err
	}
	*patient = *r.mapper.PatientToEntity(m)
	return nil
}

func (r *PatientRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Patient, error) {
	var m model.Patient
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PatientToEntity(&m), nil
}

func (r *PatientRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Patient{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
