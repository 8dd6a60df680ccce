package implementation

import (
	"context"
	"errors"

	"curamind-be/internal/entity"
	"curamind-be/internal/mapper"
	"curamind-be/internal/model"
	"curamind-be/internal/repository/contract"
	"curamind-be/internal/repository/scope"
	"curamind-be/internal/repository/specification"
	"curamind-be/pkg/triage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TriageSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TriageMapper
}

func NewTriageSessionRepository(db *gorm.DB) contract.TriageSessionRepository {
	return &TriageSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewTriageMapper(),
	}
}

func (r *TriageSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TriageSessionRepositoryImpl) Create(ctx context.Context, session *entity.TriageSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *TriageSessionRepositoryImpl) Update(ctx context.Context, session *entity.TriageSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *TriageSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TriageSession, error) {
	var m model.TriageSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TriageSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TriageSession, error) {
	var models []*model.TriageSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TriageSessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.TriageSession{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TriageSessionRepositoryImpl) FindLatestOpen(ctx context.Context, subjectId uuid.UUID) (*entity.TriageSession, error) {
	var m model.TriageSession
	err := r.db.WithContext(ctx).
		Where("subject_id = ? AND flag IS NULL", subjectId).
		Scopes(scope.OrderByCreatedDesc).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TriageSessionRepositoryImpl) AbandonOpen(ctx context.Context, subjectId uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.TriageSession{}).
		Where("subject_id = ? AND flag IS NULL", subjectId).
		Update("flag", string(triage.Abandoned))
	return result.RowsAffected, result.Error
}

type triageSessionWithPatient struct {
	model.TriageSession
	PatientName string
}

func (r *TriageSessionRepositoryImpl) FindAllWithPatient(ctx context.Context, specs ...specification.Specification) ([]*entity.TriageSession, error) {
	var rows []triageSessionWithPatient
	query := r.db.WithContext(ctx).
		Model(&model.TriageSession{}).
		Select("triage_sessions.*, patients.full_name AS patient_name").
		Joins("LEFT JOIN patients ON patients.account_id = triage_sessions.subject_id")
	query = r.applySpecifications(query, specs...)

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*entity.TriageSession, 0, len(rows))
	for i := range rows {
		e := r.mapper.ToEntity(&rows[i].TriageSession)
		e.PatientName = rows[i].PatientName
		out = append(out, e)
	}
	return out, nil
}

func (r *TriageSessionRepositoryImpl) CountByFlag(ctx context.Context) (map[triage.Flag]int64, error) {
	var rows []struct {
		Flag  string
		Total int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.TriageSession{}).
		Select("flag, COUNT(*) AS total").
		Where("flag IS NOT NULL").
		Group("flag").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[triage.Flag]int64, len(rows))
	for _, row := range rows {
		out[triage.Flag(row.Flag)] = row.Total
	}
	return out, nil
}
