package entity

import (
	"time"

	"curamind-be/pkg/triage"

	"github.com/google/uuid"
)

// TriageSession is one questionnaire run. SubjectId is the patient's
// account id. A nil Flag means the session is still open.
type TriageSession struct {
	Id        uuid.UUID
	SubjectId uuid.UUID
	Answers   triage.Answers
	Flag      *triage.Flag
	Note      *triage.SoapNote
	CreatedAt time.Time
	UpdatedAt time.Time

	// Populated by admin history reads.
	PatientName string
}

func (s *TriageSession) IsOpen() bool {
	return s.Flag == nil
}

// IsTerminal reports whether the session closed with a classifier outcome.
func (s *TriageSession) IsTerminal() bool {
	return s.Flag != nil && s.Flag.Severity()
}

// Close sets the final flag and note. It is a no-op on a closed session.
func (s *TriageSession) Close(flag triage.Flag, note triage.SoapNote) bool {
	if !s.IsOpen() {
		return false
	}
	s.Flag = &flag
	s.Note = &note
	return true
}

// RecordAnswer writes one answer through the tracker.
func (s *TriageSession) RecordAnswer(t *triage.Tracker, id triage.Field, utterance string) error {
	if !s.IsOpen() {
		return triage.ErrSessionClosed
	}
	return t.RecordAnswer(&s.Answers, id, utterance)
}

// Turn advances the session by one utterance. See triage.Tracker.Turn.
func (s *TriageSession) Turn(t *triage.Tracker, utterance *string) (triage.Outcome, error) {
	if !s.IsOpen() {
		return triage.Outcome{}, triage.ErrSessionClosed
	}
	return t.Turn(&s.Answers, utterance)
}

func (s *TriageSession) Abandon() bool {
	if !s.IsOpen() {
		return false
	}
	f := triage.Abandoned
	s.Flag = &f
	return true
}
