package triage

type EmergencyNumber struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// Recommendation is the patient-facing guidance attached to a flag.
type Recommendation struct {
	Flag             Flag              `json:"flag"`
	Title            string            `json:"title"`
	Text             string            `json:"text"`
	EmergencyNumbers []EmergencyNumber `json:"emergency_numbers"`
	CallToAction     string            `json:"cta"`
	ShowDoctors      bool              `json:"show_doctors"`
	Color            string            `json:"color"`
	Priority         int               `json:"priority"`
}

var recommendations = map[Flag]Recommendation{
	FlagRed: {
		Flag:  FlagRed,
		Title: "EMERGENCY CARE REQUIRED",
		Text:  "High risk of fracture detected. Inability to bear weight or bone tenderness requires immediate X-ray imaging at a Trauma Center.",
		EmergencyNumbers: []EmergencyNumber{
			{Name: "Ambulance (Nepal Red Cross)", Number: "102"},
			{Name: "Police", Number: "100"},
		},
		CallToAction: "Call Ambulance (102)",
		ShowDoctors:  false,
		Color:        "#EE3E3E",
		Priority:     1,
	},
	FlagYellow: {
		Flag:             FlagYellow,
		Title:            "Urgent Specialist Review",
		Text:             "Symptoms suggest potential ligamentous injury or age-related risks (Pediatric/Geriatric). Specialist review recommended.",
		EmergencyNumbers: []EmergencyNumber{},
		CallToAction:     "Book Orthopedist",
		ShowDoctors:      true,
		Color:            "#E7E13B",
		Priority:         2,
	},
	FlagGreen: {
		Flag:             FlagGreen,
		Title:            "Home Care (RICE)",
		Text:             "Low risk of fracture. Follow Rest, Ice, Compression, and Elevation (RICE) for 48 hours.",
		EmergencyNumbers: []EmergencyNumber{},
		CallToAction:     "View Recovery Guide",
		ShowDoctors:      false,
		Color:            "#10B981",
		Priority:         3,
	},
}

// RecommendationFor returns a copy of the guidance for f.
func RecommendationFor(f Flag) (Recommendation, bool) {
	r, ok := recommendations[f]
	if !ok {
		return Recommendation{}, false
	}
	r.EmergencyNumbers = append([]EmergencyNumber{}, r.EmergencyNumbers...)
	return r, true
}

// Recommendations returns the full table ordered by priority.
func Recommendations() []Recommendation {
	out := make([]Recommendation, 0, len(recommendations))
	for _, f := range []Flag{FlagRed, FlagYellow, FlagGreen} {
		r, _ := RecommendationFor(f)
		out = append(out, r)
	}
	return out
}

// SpecialtyFor is the doctor specialty suggested for a finished session.
func SpecialtyFor(f Flag) string {
	if f == FlagRed || f == FlagYellow {
		return "Orthopedics"
	}
	return "General"
}
