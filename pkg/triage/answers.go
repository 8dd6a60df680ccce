package triage

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Field identifies one slot of a triage answer set.
type Field string

const (
	FieldAge       Field = "V0_AGE"
	FieldAccident  Field = "V1_ACCIDENT"
	FieldWalking   Field = "V2_WALKING"
	FieldLateral   Field = "V3_LATERAL"
	FieldMedial    Field = "V3_MEDIAL"
	FieldMidfoot   Field = "V4_MIDFOOT"
	FieldNavicular Field = "V4_NAVICULAR"
	FieldSwelling  Field = "V5_SWELLING"
	FieldStability Field = "V6_STABILITY"
)

// DefaultAge is used whenever the age slot is missing.
const DefaultAge = 30.0

// BinaryFields lists every yes/no slot in canonical order.
var BinaryFields = []Field{
	FieldAccident,
	FieldWalking,
	FieldLateral,
	FieldMedial,
	FieldMidfoot,
	FieldNavicular,
	FieldSwelling,
	FieldStability,
}

// AllFields is the age slot followed by BinaryFields.
var AllFields = append([]Field{FieldAge}, BinaryFields...)

func (f Field) Valid() bool {
	if f == FieldAge {
		return true
	}
	_, ok := binarySlots[f]
	return ok
}

// Answers holds one patient's responses. A nil pointer means unanswered.
type Answers struct {
	Age       *float64
	Accident  *int
	Walking   *int
	Lateral   *int
	Medial    *int
	Midfoot   *int
	Navicular *int
	Swelling  *int
	Stability *int
}

var binarySlots = map[Field]func(*Answers) **int{
	FieldAccident:  func(a *Answers) **int { return &a.Accident },
	FieldWalking:   func(a *Answers) **int { return &a.Walking },
	FieldLateral:   func(a *Answers) **int { return &a.Lateral },
	FieldMedial:    func(a *Answers) **int { return &a.Medial },
	FieldMidfoot:   func(a *Answers) **int { return &a.Midfoot },
	FieldNavicular: func(a *Answers) **int { return &a.Navicular },
	FieldSwelling:  func(a *Answers) **int { return &a.Swelling },
	FieldStability: func(a *Answers) **int { return &a.Stability },
}

// Get returns the stored value of a binary slot, or nil when unanswered.
func (a *Answers) Get(f Field) *int {
	slot, ok := binarySlots[f]
	if !ok {
		return nil
	}
	return *slot(a)
}

// Set stores v in a binary slot. Unknown fields are ignored.
func (a *Answers) Set(f Field, v int) {
	slot, ok := binarySlots[f]
	if !ok {
		return
	}
	*slot(a) = &v
}

// Answered reports whether the slot holds a value.
func (a *Answers) Answered(f Field) bool {
	if f == FieldAge {
		return a.Age != nil
	}
	return a.Get(f) != nil
}

// AgeOrDefault returns the stored age, falling back to DefaultAge when it
// is missing or not a finite number.
func (a *Answers) AgeOrDefault() float64 {
	if a.Age == nil || !finite(*a.Age) {
		return DefaultAge
	}
	return *a.Age
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func (a *Answers) is(f Field, v int) bool {
	p := a.Get(f)
	return p != nil && *p == v
}

// FillRemaining sets every unanswered binary slot to zero.
func (a *Answers) FillRemaining() {
	for _, f := range BinaryFields {
		if a.Get(f) == nil {
			a.Set(f, 0)
		}
	}
}

// Complete reports whether all binary slots are answered.
func (a *Answers) Complete() bool {
	for _, f := range BinaryFields {
		if a.Get(f) == nil {
			return false
		}
	}
	return true
}

// ToMap renders the answer set keyed by field code. Unanswered slots map to nil.
func (a *Answers) ToMap() map[string]interface{} {
	out := make(map[string]interface{}, len(AllFields))
	if a.Age != nil {
		out[string(FieldAge)] = *a.Age
	} else {
		out[string(FieldAge)] = nil
	}
	for _, f := range BinaryFields {
		if v := a.Get(f); v != nil {
			out[string(f)] = *v
		} else {
			out[string(f)] = nil
		}
	}
	return out
}

// ParseAnswers builds a complete answer set from a raw map keyed by field
// code. Every field must be present. Binary values equal to 1 (numeric,
// "1" or true) are positive; everything else is zero. A malformed age is
// treated as missing so the default applies.
func ParseAnswers(raw map[string]interface{}) (Answers, error) {
	var missing []string
	for _, f := range AllFields {
		if _, ok := raw[string(f)]; !ok {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Answers{}, fmt.Errorf("missing answers: %s", strings.Join(missing, ", "))
	}

	var a Answers
	if age, ok := toFloat(raw[string(FieldAge)]); ok {
		a.Age = &age
	}
	for _, f := range BinaryFields {
		v := 0
		if n, ok := toFloat(raw[string(f)]); ok && n == 1 {
			v = 1
		}
		a.Set(f, v)
	}
	return a, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, finite(t)
	case float32:
		return float64(t), finite(float64(t))
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		// ParseFloat accepts "Inf" and "NaN"
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || !finite(n) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
