package triage

import (
	"fmt"
	"strconv"
	"strings"
)

// SoapNote is the clinical summary produced when a session closes.
type SoapNote struct {
	Subjective string `json:"s"`
	Objective  string `json:"o"`
	Assessment string `json:"a"`
	Plan       string `json:"p"`
}

var findingLabels = []struct {
	field Field
	label string
}{
	{FieldWalking, "Inability to bear weight"},
	{FieldLateral, "Lateral Malleolus tenderness"},
	{FieldMedial, "Medial Malleolus tenderness"},
	{FieldMidfoot, "Base of 5th Metatarsal tenderness"},
	{FieldNavicular, "Navicular bone tenderness"},
}

var plans = map[Flag]string{
	FlagRed:    "Plan: Immediate referral to the nearest Trauma Center (Nepal) for radiographic imaging (X-ray).",
	FlagYellow: "Plan: Orthopedic specialist consultation for joint stability evaluation and ligamentous assessment.",
	FlagGreen:  "Plan: Home management via RICE protocol. Patient to monitor for increased pain or neurovascular changes.",
}

// GenerateNote renders a SOAP note for a final answer set and its flag.
func GenerateNote(a Answers, flag Flag) SoapNote {
	age := "age unknown"
	if a.Age != nil && finite(*a.Age) {
		age = strconv.FormatFloat(*a.Age, 'f', 1, 64) + "y"
	}
	impact := "Low-impact"
	if a.is(FieldAccident, 1) {
		impact = "High-Impact"
	}

	var findings []string
	for _, fl := range findingLabels {
		if a.is(fl.field, 1) {
			findings = append(findings, fl.label)
		}
	}
	exam := "No focal bone tenderness noted."
	if len(findings) > 0 {
		exam = strings.Join(findings, ", ")
	}

	ottawa := "Negative/Inconclusive"
	if flag == FlagRed {
		ottawa = "Positive"
	}

	return SoapNote{
		Subjective: fmt.Sprintf("Subjective: Patient (%s) reports %s injury to the ankle.", age, impact),
		Objective:  "Objective: Exam Findings: " + exam,
		Assessment: fmt.Sprintf("Assessment: %s status. Ottawa Ankle Rules %s.", flag, ottawa),
		Plan:       plans[flag],
	}
}
