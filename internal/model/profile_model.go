package model

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AccountId   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Account     Account   `gorm:"foreignKey:AccountId;constraint:OnDelete:CASCADE"`
	FullName    string    `gorm:"type:varchar(255);not null"`
	PhoneNumber string    `gorm:"type:varchar(20)"`
	Address     string    `gorm:"type:text"`
	Gender      string    `gorm:"type:varchar(20)"`
	DateOfBirth time.Time `gorm:"type:date;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Patient) TableName() string {
	return "patients"
}

type Doctor struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AccountId     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Account       Account   `gorm:"foreignKey:AccountId;constraint:OnDelete:CASCADE"`
	FullName      string    `gorm:"type:varchar(255);not null"`
	Specialty     string    `gorm:"type:varchar(100);not null;index"`
	LicenseNumber string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	LicenseURL    string    `gorm:"type:text"`
	Hospital      string    `gorm:"type:varchar(255)"`
	PhoneNumber   string    `gorm:"type:varchar(20)"`
	Bio           string    `gorm:"type:text"`
	IsAvailable   bool      `gorm:"default:true"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (Doctor) TableName() string {
	return "doctors"
}
