package mapper

import (
	"testing"
	"time"

	"curamind-be/internal/entity"
	"curamind-be/pkg/triage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriageMapper_EveryFieldHasAColumn(t *testing.T) {
	m := NewTriageMapper()

	age := 42.0
	answers := triage.Answers{Age: &age}
	for i, f := range triage.AllFields {
		if f == triage.FieldAge {
			continue
		}
		answers.Set(f, i%2)
	}
	flag := triage.FlagYellow
	note := triage.GenerateNote(answers, flag)

	in := &entity.TriageSession{
		Id:        uuid.New(),
		SubjectId: uuid.New(),
		Answers:   answers,
		Flag:      &flag,
		Note:      &note,
		CreatedAt: time.Now().UTC(),
	}

	out := m.ToEntity(m.ToModel(in))
	require.NotNil(t, out)
	assert.Equal(t, in.Answers.ToMap(), out.Answers.ToMap())
	assert.Equal(t, flag, *out.Flag)
	assert.Equal(t, note, *out.Note)
}

func TestTriageMapper_OpenSessionHasNoFlagOrNote(t *testing.T) {
	m := NewTriageMapper()

	row := m.ToModel(&entity.TriageSession{Id: uuid.New(), SubjectId: uuid.New()})
	assert.Nil(t, row.Flag)
	assert.Nil(t, row.SoapS)

	e := m.ToEntity(row)
	assert.True(t, e.IsOpen())
	assert.Nil(t, e.Note)
	assert.Nil(t, m.ToEntity(nil))
}
