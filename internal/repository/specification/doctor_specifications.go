package specification

import (
	"strings"

	"gorm.io/gorm"
)

// DoctorVerified filters doctors by their account's verification flag.
type DoctorVerified struct {
	Verified bool
}

func (s DoctorVerified) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("doctors.account_id IN (SELECT id FROM accounts WHERE is_verified = ?)", s.Verified)
}

type DoctorAvailable struct{}

func (s DoctorAvailable) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("doctors.is_available = ?", true)
}

// SpecialtyLike is a case-insensitive substring match. Empty matches all.
type SpecialtyLike struct {
	Specialty string
}

func (s SpecialtyLike) Apply(db *gorm.DB) *gorm.DB {
	term := strings.TrimSpace(s.Specialty)
	if term == "" {
		return db
	}
	return db.Where("doctors.specialty ILIKE ?", "%"+term+"%")
}

type ByLicenseNumber struct {
	LicenseNumber string
}

func (s ByLicenseNumber) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("license_number = ?", s.LicenseNumber)
}
