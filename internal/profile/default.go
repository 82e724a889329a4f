package profile

import "value-added-framework/internal/model"

// DefaultID identifies the demonstration profile.
const DefaultID = "PAT001"

// Default returns the demonstration patient used when no profile is chosen.
func Default() model.PatientProfile {
	return model.PatientProfile{
		ID:        DefaultID,
		Name:      "Alex Johnson",
		Age:       28,
		Diagnosis: "Generalized Anxiety Disorder",
		Medications: []string{
			"Sertraline 50mg daily",
		},
		TherapyGoals: []string{
			"Reduce anxiety symptoms",
			"Improve sleep quality",
			"Develop healthy coping strategies",
			"Enhance work-life balance",
		},
		Triggers:  []string{"work deadlines", "conflict situations", "social gatherings"},
		Strengths: []string{"intelligent", "motivated", "good insight", "supportive family"},
		PreviousSessions: []model.SessionSummary{
			{
				Number:    1,
				Date:      "2024-06-18",
				KeyTopics: []string{"work stress", "anxiety", "sleep issues"},
				Notes:     "Patient reports high stress levels at work, difficulty sleeping. Discussed coping mechanisms.",
			},
			{
				Number:    2,
				Date:      "2024-06-11",
				KeyTopics: []string{"relationship concerns", "communication"},
				Notes:     "Explored relationship dynamics with partner. Worked on communication strategies.",
			},
		},
	}
}
