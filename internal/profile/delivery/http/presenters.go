package http

import (
	"errors"

	"value-added-framework/internal/model"
	"value-added-framework/internal/profile"
)

type sessionSummaryDTO struct {
	Number    int      `json:"session_number"`
	Date      string   `json:"date"`
	KeyTopics []string `json:"key_topics"`
	Notes     string   `json:"notes"`
}

type updateReq struct {
	ID               string              `json:"-"` // populated from URI param
	Name             string              `json:"name" binding:"required,max=255"`
	Age              int                 `json:"age" binding:"min=0,max=150"`
	Diagnosis        string              `json:"diagnosis"`
	Medications      []string            `json:"medications"`
	TherapyGoals     []string            `json:"therapy_goals"`
	Triggers         []string            `json:"triggers"`
	Strengths        []string            `json:"strengths"`
	Notes            string              `json:"notes"`
	PreviousSessions []sessionSummaryDTO `json:"previous_sessions"`
}

func (r updateReq) validate() error {
	for _, s := range r.PreviousSessions {
		if s.Number <= 0 {
			return errors.New("previous session numbers must be positive")
		}
	}
	return nil
}

func (r updateReq) toInput() profile.UpdateInput {
	p := model.PatientProfile{
		ID:           r.ID,
		Name:         r.Name,
		Age:          r.Age,
		Diagnosis:    r.Diagnosis,
		Medications:  r.Medications,
		TherapyGoals: r.TherapyGoals,
		Triggers:     r.Triggers,
		Strengths:    r.Strengths,
		Notes:        r.Notes,
	}
	for _, s := range r.PreviousSessions {
		p.PreviousSessions = append(p.PreviousSessions, model.SessionSummary{
			Number:    s.Number,
			Date:      s.Date,
			KeyTopics: s.KeyTopics,
			Notes:     s.Notes,
		})
	}
	return profile.UpdateInput{Profile: p}
}

type profileResp struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Age              int                 `json:"age"`
	Diagnosis        string              `json:"diagnosis"`
	Medications      []string            `json:"medications"`
	TherapyGoals     []string            `json:"therapy_goals"`
	Triggers         []string            `json:"triggers"`
	Strengths        []string            `json:"strengths"`
	Notes            string              `json:"notes,omitempty"`
	PreviousSessions []sessionSummaryDTO `json:"previous_sessions"`
}

func (h *handler) newProfileResp(p model.PatientProfile) profileResp {
	resp := profileResp{
		ID:               p.ID,
		Name:             p.Name,
		Age:              p.Age,
		Diagnosis:        p.Diagnosis,
		Medications:      p.Medications,
		TherapyGoals:     p.TherapyGoals,
		Triggers:         p.Triggers,
		Strengths:        p.Strengths,
		Notes:            p.Notes,
		PreviousSessions: make([]sessionSummaryDTO, len(p.PreviousSessions)),
	}
	for i, s := range p.PreviousSessions {
		resp.PreviousSessions[i] = sessionSummaryDTO{
			Number:    s.Number,
			Date:      s.Date,
			KeyTopics: s.KeyTopics,
			Notes:     s.Notes,
		}
	}
	return resp
}
