package entity

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	Id          uuid.UUID
	AccountId   uuid.UUID
	FullName    string
	PhoneNumber string
	Address     string
	Gender      string
	DateOfBirth time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AgeAt returns the patient's age in whole years on the given day.
func (p *Patient) AgeAt(now time.Time) float64 {
	years := now.Year() - p.DateOfBirth.Year()
	if now.Month() < p.DateOfBirth.Month() ||
		(now.Month() == p.DateOfBirth.Month() && now.Day() < p.DateOfBirth.Day()) {
		years--
	}
	if years < 0 {
		years = 0
	}
	return float64(years)
}

type Doctor struct {
	Id            uuid.UUID
	AccountId     uuid.UUID
	FullName      string
	Specialty     string
	LicenseNumber string
	LicenseURL    string
	Hospital      string
	PhoneNumber   string
	Bio           string
	IsAvailable   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Populated on reads that join the account row.
	Email      string
	IsVerified bool
}
