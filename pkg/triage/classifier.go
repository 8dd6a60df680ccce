package triage

// Flag is the outcome severity of a triage session.
type Flag string

const (
	FlagRed    Flag = "RED"
	FlagYellow Flag = "YELLOW"
	FlagGreen  Flag = "GREEN"

	// Abandoned marks a session closed by a restart. It is never a classifier result.
	Abandoned Flag = "ABANDONED"
)

const (
	InfantAgeLimit    = 1.0
	PediatricAgeLimit = 18.0
	GeriatricAgeLimit = 55.0
)

// Severity reports whether f is one of the three classifier outcomes.
func (f Flag) Severity() bool {
	return f == FlagRed || f == FlagYellow || f == FlagGreen
}

// OttawaPositive reports whether the Ottawa Ankle Rules call for imaging:
// the patient cannot bear weight or has tenderness at any of the four
// malleolar or midfoot points.
func OttawaPositive(a Answers) bool {
	return a.is(FieldWalking, 1) ||
		a.is(FieldLateral, 1) ||
		a.is(FieldMedial, 1) ||
		a.is(FieldMidfoot, 1) ||
		a.is(FieldNavicular, 1)
}

// Classify maps an answer set to a flag. Rules are checked in order and the
// first match wins. Missing binary slots count as negative and a missing age
// counts as DefaultAge.
func Classify(a Answers) Flag {
	age := a.AgeOrDefault()
	if age < InfantAgeLimit || a.is(FieldAccident, 1) {
		return FlagRed
	}
	if OttawaPositive(a) {
		return FlagRed
	}
	if age < PediatricAgeLimit || age > GeriatricAgeLimit {
		return FlagYellow
	}
	if a.is(FieldSwelling, 1) || a.is(FieldStability, 1) {
		return FlagYellow
	}
	return FlagGreen
}
