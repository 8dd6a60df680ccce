package mapper

import (
	"curamind-be/internal/entity"
	"curamind-be/internal/model"
	"curamind-be/pkg/triage"
)

// TriageMapper translates between the answer set and its fixed columns.
// Every triage.Field has exactly one column here.
type TriageMapper struct{}

func NewTriageMapper() *TriageMapper {
	return &TriageMapper{}
}

func (m *TriageMapper) ToEntity(s *model.TriageSession) *entity.TriageSession {
	if s == nil {
		return nil
	}
	e := &entity.TriageSession{
		Id:        s.Id,
		SubjectId: s.SubjectId,
		Answers: triage.Answers{
			Age:       s.Age,
			Accident:  s.V1Accident,
			Walking:   s.V2Walking,
			Lateral:   s.V3Lateral,
			Medial:    s.V3Medial,
			Midfoot:   s.V4Midfoot,
			Navicular: s.V4Navicular,
			Swelling:  s.V5Swelling,
			Stability: s.V6Stability,
		},
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.Flag != nil {
		f := triage.Flag(*s.Flag)
		e.Flag = &f
	}
	if s.SoapS != nil {
		e.Note = &triage.SoapNote{
			Subjective: deref(s.SoapS),
			Objective:  deref(s.SoapO),
			Assessment: deref(s.SoapA),
			Plan:       deref(s.SoapP),
		}
	}
	return e
}

func (m *TriageMapper) ToModel(e *entity.TriageSession) *model.TriageSession {
	if e == nil {
		return nil
	}
	s := &model.TriageSession{
		Id:          e.Id,
		SubjectId:   e.SubjectId,
		Age:         e.Answers.Age,
		V1Accident:  e.Answers.Accident,
		V2Walking:   e.Answers.Walking,
		V3Lateral:   e.Answers.Lateral,
		V3Medial:    e.Answers.Medial,
		V4Midfoot:   e.Answers.Midfoot,
		V4Navicular: e.Answers.Navicular,
		V5Swelling:  e.Answers.Swelling,
		V6Stability: e.Answers.Stability,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.Flag != nil {
		f := string(*e.Flag)
		s.Flag = &f
	}
	if e.Note != nil {
		s.SoapS = &e.Note.Subjective
		s.SoapO = &e.Note.Objective
		s.SoapA = &e.Note.Assessment
		s.SoapP = &e.Note.Plan
	}
	return s
}

func (m *TriageMapper) ToEntities(models []*model.TriageSession) []*entity.TriageSession {
	out := make([]*entity.TriageSession, 0, len(models))
	for _, s := range models {
		out = append(out, m.ToEntity(s))
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
