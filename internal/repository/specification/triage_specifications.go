package specification

import (
	"curamind-be/pkg/triage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySubject struct {
	SubjectID uuid.UUID
}

func (s BySubject) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("triage_sessions.subject_id = ?", s.SubjectID)
}

// TerminalSessions keeps sessions closed with a RED, YELLOW or GREEN flag.
type TerminalSessions struct{}

func (s TerminalSessions) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("triage_sessions.flag IN ?", []string{
		string(triage.FlagRed),
		string(triage.FlagYellow),
		string(triage.FlagGreen),
	})
}

type ByFlag struct {
	Flag triage.Flag
}

func (s ByFlag) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("triage_sessions.flag = ?", string(s.Flag))
}

// SessionByID is ByID qualified for queries that join patients.
type SessionByID struct {
	ID uuid.UUID
}

func (s SessionByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("triage_sessions.id = ?", s.ID)
}
