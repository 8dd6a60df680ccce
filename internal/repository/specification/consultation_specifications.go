package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByPatientAccount struct {
	AccountID uuid.UUID
}

func (s ByPatientAccount) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("patient_account_id = ?", s.AccountID)
}

type ByDoctor struct {
	DoctorID uuid.UUID
}

func (s ByDoctor) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("doctor_id = ?", s.DoctorID)
}

type ByConsultationStatus struct {
	Status string
}

func (s ByConsultationStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}
