package triage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	qs := []QuestionDef{{ID: FieldAge, Prompt: "age"}}
	for _, f := range BinaryFields {
		qs = append(qs, QuestionDef{ID: f, Prompt: string(f), YesValue: 1, NoValue: 0})
	}
	return NewCatalog(qs)
}

func ptr(s string) *string { return &s }

func adult(age float64) *Answers {
	return &Answers{Age: &age}
}

func TestIsAffirmative(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"yes", true},
		{"YES please", true},
		{"Yeah it hurts", true},
		{"yep", true},
		{"TRUE", true},
		{"1", true},
		{"no", false},
		{"nope", false},
		{"", false},
		{"maybe", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAffirmative(tt.in))
		})
	}
}

func TestPendingQuestion_SkipsAgeAndFollowsOrder(t *testing.T) {
	tr := NewTracker(testCatalog())
	a := adult(30)

	q := tr.PendingQuestion(a)
	require.NotNil(t, q)
	assert.Equal(t, FieldAccident, q.ID)

	a.Set(FieldAccident, 0)
	a.Set(FieldWalking, 0)
	q = tr.PendingQuestion(a)
	require.NotNil(t, q)
	assert.Equal(t, FieldLateral, q.ID)

	a.FillRemaining()
	assert.Nil(t, tr.PendingQuestion(a))
}

func TestRecordAnswer_RejectsOutOfOrder(t *testing.T) {
	tr := NewTracker(testCatalog())
	a := adult(30)

	err := tr.RecordAnswer(a, FieldWalking, "yes")
	assert.ErrorIs(t, err, ErrOutOfOrder)
	assert.Nil(t, a.Walking, "rejected answer must not be written")

	assert.NoError(t, tr.RecordAnswer(a, FieldAccident, "no"))
	assert.Equal(t, 0, *a.Accident)

	err = tr.RecordAnswer(a, FieldAccident, "yes")
	assert.ErrorIs(t, err, ErrOutOfOrder, "answered questions cannot be rewritten")
	assert.Equal(t, 0, *a.Accident)

	assert.ErrorIs(t, tr.RecordAnswer(a, FieldAge, "40"), ErrUnknownQuestion)
}

func TestRecordAnswer_UsesCatalogValues(t *testing.T) {
	qs := []QuestionDef{{ID: FieldAge}}
	for _, f := range BinaryFields {
		qs = append(qs, QuestionDef{ID: f, YesValue: 1, NoValue: 0})
	}
	tr := NewTracker(NewCatalog(qs))
	a := adult(30)

	require.NoError(t, tr.RecordAnswer(a, FieldAccident, "yeah"))
	assert.Equal(t, 1, *a.Accident)
}

func TestTurn_PediatricShortCircuit(t *testing.T) {
	tr := NewTracker(testCatalog())
	a := adult(16)

	out, err := tr.Turn(a, nil)

	require.NoError(t, err)
	assert.True(t, out.Complete)
	assert.Equal(t, FlagYellow, out.Flag)
	assert.Equal(t, ReasonPediatric, out.Reason)
	assert.True(t, a.Complete())
	for _, f := range BinaryFields {
		assert.Equal(t, 0, *a.Get(f))
	}
}

func TestTurn_PediatricOutranksInfantRule(t *testing.T) {
	tr := NewTracker(testCatalog())
	out, err := tr.Turn(adult(0.5), ptr("yes"))
	require.NoError(t, err)
	assert.Equal(t, FlagYellow, out.Flag)
}

func TestTurn_TraumaExit(t *testing.T) {
	tr := NewTracker(testCatalog())
	a := adult(30)

	out, err := tr.Turn(a, nil)
	require.NoError(t, err)
	require.False(t, out.Complete)
	assert.Equal(t, FieldAccident, out.Next.ID)

	out, err = tr.Turn(a, ptr("yes"))
	require.NoError(t, err)
	assert.True(t, out.Complete)
	assert.Equal(t, FlagRed, out.Flag)
	assert.Equal(t, ReasonTrauma, out.Reason)
	assert.Equal(t, 0, *a.Stability)
	assert.Equal(t, "Plan: Immediate referral to the nearest Trauma Center (Nepal) for radiographic imaging (X-ray).",
		GenerateNote(*a, out.Flag).Plan)
}

func TestTurn_AllNegativeIsGreen(t *testing.T) {
	tr := NewTracker(testCatalog())
	a := adult(30)

	_, err := tr.Turn(a, nil)
	require.NoError(t, err)

	var out Outcome
	for i := range BinaryFields {
		out, err = tr.Turn(a, ptr("no"))
		require.NoError(t, err)
		if i < len(BinaryFields)-1 {
			require.False(t, out.Complete)
			assert.Equal(t, BinaryFields[i+1], out.Next.ID)
		}
	}
	assert.True(t, out.Complete)
	assert.Equal(t, FlagGreen, out.Flag)
	assert.Equal(t, ReasonAnswered, out.Reason)
}

func TestTurn_FillsLeftToRight(t *testing.T) {
	tr := NewTracker(testCatalog())
	a := adult(40)

	answers := []string{"no", "no", "YES", "no"}
	for _, u := range answers {
		_, err := tr.Turn(a, ptr(u))
		require.NoError(t, err)
	}

	assert.Equal(t, 0, *a.Accident)
	assert.Equal(t, 0, *a.Walking)
	assert.Equal(t, 1, *a.Lateral)
	assert.Equal(t, 0, *a.Medial)
	assert.Nil(t, a.Midfoot)
	assert.Nil(t, a.Navicular)
	assert.Nil(t, a.Swelling)
	assert.Nil(t, a.Stability)
}

func TestTurn_EmptyCatalogClassifiesImmediately(t *testing.T) {
	tr := NewTracker(nil)
	a := adult(30)

	out, err := tr.Turn(a, ptr("hello"))

	require.NoError(t, err)
	assert.True(t, out.Complete)
	assert.Equal(t, FlagGreen, out.Flag)
	assert.Equal(t, ReasonNoCatalog, out.Reason)
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog(filepath.Join("..", "..", "config", "triage_questions.yaml"))
	require.NoError(t, err)
	assert.Equal(t, len(AllFields), c.Len())
	assert.Equal(t, FieldAge, c.Questions()[0].ID)

	q, ok := c.Lookup(FieldWalking)
	assert.True(t, ok)
	assert.NotEmpty(t, q.Prompt)
	assert.Equal(t, 1, q.YesValue)
}

func TestLoadCatalog_MissingOrBrokenFileDegrades(t *testing.T) {
	c, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	require.NotNil(t, c)
	assert.Equal(t, 0, c.Len())

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("questions: [\n  - id: ["), 0o600))
	c, err = LoadCatalog(path)
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	require.NotNil(t, c)
	assert.Equal(t, 0, c.Len())
}

func TestCatalogValidate(t *testing.T) {
	full := testCatalog().Questions()

	tests := []struct {
		name    string
		mutate  func([]QuestionDef) []QuestionDef
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(q []QuestionDef) []QuestionDef { return q },
		},
		{
			name:   "empty",
			mutate: func(q []QuestionDef) []QuestionDef { return nil },
		},
		{
			name:    "age not first",
			mutate:  func(q []QuestionDef) []QuestionDef { return append(q[1:2], append([]QuestionDef{q[0]}, q[2:]...)...) },
			wantErr: "catalog must start with V0_AGE",
		},
		{
			name: "unknown id",
			mutate: func(q []QuestionDef) []QuestionDef {
				return append(q, QuestionDef{ID: "V7_PAIN"})
			},
			wantErr: "unknown question id",
		},
		{
			name: "duplicate",
			mutate: func(q []QuestionDef) []QuestionDef {
				return append(q, q[3])
			},
			wantErr: "duplicate question id",
		},
		{
			name:    "missing field",
			mutate:  func(q []QuestionDef) []QuestionDef { return q[:len(q)-1] },
			wantErr: "catalog is missing question V6_STABILITY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := append([]QuestionDef{}, full...)
			err := NewCatalog(tt.mutate(src)).Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadCatalog_InvalidFailsFast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drift.yaml")
	body := "questions:\n  - id: V0_AGE\n  - id: V9_UNKNOWN\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	c, err := LoadCatalog(path)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCatalogUnavailable)
	assert.Nil(t, c)
}
