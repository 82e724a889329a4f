package model

// PatientProfile is the read-only context the engine injects into every turn.
// It is owned by the presentation layer.
type PatientProfile struct {
	ID               string           `json:"id" yaml:"id"`
	Name             string           `json:"name" yaml:"name"`
	Age              int              `json:"age" yaml:"age"`
	Diagnosis        string           `json:"diagnosis" yaml:"diagnosis"`
	Medications      []string         `json:"medications" yaml:"medications"`
	TherapyGoals     []string         `json:"therapy_goals" yaml:"therapy_goals"`
	Triggers         []string         `json:"triggers" yaml:"triggers"`
	Strengths        []string         `json:"strengths" yaml:"strengths"`
	Notes            string           `json:"notes" yaml:"notes"` // free-form history
	PreviousSessions []SessionSummary `json:"previous_sessions" yaml:"previous_sessions"`
}

// SessionSummary condenses one prior session.
type SessionSummary struct {
	Number    int      `json:"session_number" yaml:"session_number"`
	Date      string   `json:"date" yaml:"date"`
	KeyTopics []string `json:"key_topics" yaml:"key_topics"`
	Notes     string   `json:"notes" yaml:"notes"`
}

// Clone returns a deep copy of p.
func (p PatientProfile) Clone() PatientProfile {
	out := p
	out.Medications = append([]string(nil), p.Medications...)
	out.TherapyGoals = append([]string(nil), p.TherapyGoals...)
	out.Triggers = append([]string(nil), p.Triggers...)
	out.Strengths = append([]string(nil), p.Strengths...)
	if p.PreviousSessions != nil {
		out.PreviousSessions = make([]SessionSummary, len(p.PreviousSessions))
		for i, s := range p.PreviousSessions {
			s.KeyTopics = append([]string(nil), s.KeyTopics...)
			out.PreviousSessions[i] = s
		}
	}
	return out
}
