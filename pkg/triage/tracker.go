package triage

import (
	"errors"
	"strings"
)

var (
	ErrOutOfOrder      = errors.New("question is not the next unanswered entry")
	ErrUnknownQuestion = errors.New("question is not in the catalog")
	ErrSessionClosed   = errors.New("triage session is closed")
)

var affirmativeTokens = []string{"yes", "yeah", "yep", "true", "1"}

// IsAffirmative reports whether an utterance contains any yes token.
func IsAffirmative(utterance string) bool {
	u := strings.ToLower(utterance)
	for _, tok := range affirmativeTokens {
		if strings.Contains(u, tok) {
			return true
		}
	}
	return false
}

// Reason explains why a turn completed.
type Reason string

const (
	ReasonAnswered  Reason = "answered"
	ReasonPediatric Reason = "pediatric"
	ReasonTrauma    Reason = "trauma"
	ReasonNoCatalog Reason = "no_catalog"
)

// Outcome is the result of advancing an answer set by one turn. Exactly one
// of Next and Flag is meaningful: Complete selects which.
type Outcome struct {
	Complete bool
	Flag     Flag
	Reason   Reason
	Next     *QuestionDef
}

// Tracker walks a catalog over a session's answer set. It holds no
// per-session state; the answer set is owned by the caller.
type Tracker struct {
	catalog *Catalog
}

func NewTracker(catalog *Catalog) *Tracker {
	if catalog == nil {
		catalog = NewCatalog(nil)
	}
	return &Tracker{catalog: catalog}
}

func (t *Tracker) Catalog() *Catalog {
	return t.catalog
}

// PendingQuestion returns the first unanswered non-age question, or nil.
func (t *Tracker) PendingQuestion(a *Answers) *QuestionDef {
	for _, q := range t.catalog.questions {
		if q.ID == FieldAge {
			continue
		}
		if !a.Answered(q.ID) {
			q := q
			return &q
		}
	}
	return nil
}

// RecordAnswer stores the yes or no value of question id. It refuses any
// question that is not the current pending one.
func (t *Tracker) RecordAnswer(a *Answers, id Field, utterance string) error {
	q, ok := t.catalog.Lookup(id)
	if !ok || id == FieldAge {
		return ErrUnknownQuestion
	}
	pending := t.PendingQuestion(a)
	if pending == nil || pending.ID != id {
		return ErrOutOfOrder
	}

	if IsAffirmative(utterance) {
		a.Set(id, q.YesValue)
	} else {
		a.Set(id, q.NoValue)
	}
	return nil
}

// Turn advances the answer set by one step. A nil utterance means no answer
// is recorded this turn, as on the turn that opens a session.
//
// The pediatric check runs before anything else and forces YELLOW. A
// positive trauma answer stops questioning and hands the filled set to
// Classify.
func (t *Tracker) Turn(a *Answers, utterance *string) (Outcome, error) {
	if a.AgeOrDefault() < PediatricAgeLimit {
		a.FillRemaining()
		return Outcome{Complete: true, Flag: FlagYellow, Reason: ReasonPediatric}, nil
	}

	if t.catalog.Len() == 0 {
		a.FillRemaining()
		return Outcome{Complete: true, Flag: Classify(*a), Reason: ReasonNoCatalog}, nil
	}

	if utterance != nil {
		if q := t.PendingQuestion(a); q != nil {
			if err := t.RecordAnswer(a, q.ID, *utterance); err != nil {
				return Outcome{}, err
			}
			if q.ID == FieldAccident && a.is(FieldAccident, 1) {
				a.FillRemaining()
				return Outcome{Complete: true, Flag: Classify(*a), Reason: ReasonTrauma}, nil
			}
		}
	}

	if next := t.PendingQuestion(a); next != nil {
		return Outcome{Next: next}, nil
	}
	return Outcome{Complete: true, Flag: Classify(*a), Reason: ReasonAnswered}, nil
}
