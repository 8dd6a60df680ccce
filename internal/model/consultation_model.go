package model

import (
	"time"

	"github.com/google/uuid"
)

type Consultation struct {
	Id               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PatientAccountId uuid.UUID  `gorm:"type:uuid;not null;index"`
	DoctorId         uuid.UUID  `gorm:"type:uuid;not null;index"`
	TriageSessionId  *uuid.UUID `gorm:"type:uuid"`
	Status           string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	Summary          string     `gorm:"type:text"`
	CreatedAt        time.Time  `gorm:"autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime"`
}

func (Consultation) TableName() string {
	return "consultations"
}

type ConsultationMessage struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConsultationId uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_consultation_created,priority:1"`
	SenderId       uuid.UUID `gorm:"type:uuid;not null"`
	Content        string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index:idx_messages_consultation_created,priority:2"`
}

func (ConsultationMessage) TableName() string {
	return "consultation_messages"
}
