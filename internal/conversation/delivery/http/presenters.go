package http

import (
	"time"

	"value-added-framework/internal/conversation"
	"value-added-framework/internal/model"
	"value-added-framework/internal/timer"
	"value-added-framework/pkg/response"
)

type startReq struct {
	ProfileID       string `json:"profile_id"`
	DurationMinutes int    `json:"duration_minutes" binding:"min=0,max=600"`
	SessionNumber   int    `json:"session_number" binding:"min=0"`
}

func (r startReq) toInput() conversation.StartSessionInput {
	return conversation.StartSessionInput{
		ProfileID: r.ProfileID,
		Duration:  time.Duration(r.DurationMinutes) * time.Minute,
		Number:    r.SessionNumber,
	}
}

type messageReq struct {
	SessionID string `json:"-"` // populated from URI param
	Text      string `json:"text" binding:"required"`
}

func (r messageReq) toInput() conversation.ProcessInput {
	return conversation.ProcessInput{SessionID: r.SessionID, Text: r.Text}
}

type sessionResp struct {
	ID              string             `json:"id"`
	Number          int                `json:"session_number"`
	Label           string             `json:"session_label"`
	ProfileID       string             `json:"profile_id"`
	PatientName     string             `json:"patient_name"`
	StartedAt       response.DateTime  `json:"started_at"`
	EndedAt         *response.DateTime `json:"ended_at,omitempty"`
	DurationMinutes int                `json:"duration_minutes"`
	TimeLeft        string             `json:"time_left"`
	TurnCount       int                `json:"turn_count"`
	Metrics         timer.Metrics      `json:"metrics"`
}

func newSessionResp(s model.Session, patient, timeLeft string, turns int, m timer.Metrics) sessionResp {
	resp := sessionResp{
		ID:              s.ID,
		Number:          s.Number,
		Label:           s.Label(),
		ProfileID:       s.ProfileID,
		PatientName:     patient,
		StartedAt:       response.DateTime(s.StartedAt),
		DurationMinutes: int(s.Duration / time.Minute),
		TimeLeft:        timeLeft,
		TurnCount:       turns,
		Metrics:         m,
	}
	if s.EndedAt != nil {
		ended := response.DateTime(*s.EndedAt)
		resp.EndedAt = &ended
	}
	return resp
}

func (h *handler) newStartResp(o conversation.StartSessionOutput) sessionResp {
	return newSessionResp(o.Session, o.PatientName, o.TimeLeft, 0, o.Metrics)
}

func (h *handler) newDetailResp(o conversation.DetailOutput) sessionResp {
	return newSessionResp(o.Session, o.PatientName, o.TimeLeft, o.TurnCount, o.Metrics)
}

type messageResp struct {
	Response string        `json:"response"`
	Notes    string        `json:"notes"`
	Sequence int           `json:"sequence"`
	TimeLeft string        `json:"time_left"`
	Attempts int           `json:"attempts"`
	Provider string        `json:"provider,omitempty"`
	Model    string        `json:"model,omitempty"`
	Usage    model.Usage   `json:"usage"`
	Trace    []string      `json:"trace"`
	Warning  string        `json:"warning,omitempty"`
	Metrics  timer.Metrics `json:"metrics"`
}

func (h *handler) newMessageResp(o conversation.ProcessOutput) messageResp {
	resp := messageResp{
		Response: o.Reply.Response(),
		Notes:    o.Reply.InternalNotes(),
		Sequence: o.Turn.Sequence,
		TimeLeft: o.TimeLeft,
		Attempts: o.Attempts,
		Provider: o.Turn.Provider,
		Model:    o.Turn.Model,
		Usage:    o.Turn.Usage,
		Trace:    make([]string, len(o.Trace)),
		Metrics:  o.Metrics,
	}
	for i, s := range o.Trace {
		resp.Trace[i] = s.String()
	}
	if o.Warning != nil {
		resp.Warning = o.Warning.Error()
	}
	return resp
}

type turnResp struct {
	Sequence      int               `json:"sequence"`
	Text          string            `json:"text"`
	Response      string            `json:"response"`
	Notes         string            `json:"notes"`
	TimeRemaining string            `json:"time_remaining"`
	Provider      string            `json:"provider,omitempty"`
	Usage         model.Usage       `json:"usage"`
	CreatedAt     response.DateTime `json:"created_at"`
}

func (h *handler) newTurnsResp(turns []model.Turn) []turnResp {
	out := make([]turnResp, len(turns))
	for i, t := range turns {
		out[i] = turnResp{
			Sequence:      t.Sequence,
			Text:          t.RawText,
			Response:      t.Response,
			Notes:         t.Notes,
			TimeRemaining: t.Payload.TimeRemaining,
			Provider:      t.Provider,
			Usage:         t.Usage,
			CreatedAt:     response.DateTime(t.CreatedAt),
		}
	}
	return out
}

type summaryResp struct {
	SessionID       string            `json:"session_id"`
	SessionLabel    string            `json:"session_label"`
	PatientName     string            `json:"patient_name"`
	TurnCount       int               `json:"turn_count"`
	MessageCount    int               `json:"message_count"`
	DurationMinutes int               `json:"duration_minutes"`
	TotalTokens     int               `json:"total_tokens"`
	StartedAt       response.DateTime `json:"started_at"`
	EndedAt         response.DateTime `json:"ended_at"`
	Metrics         timer.Metrics     `json:"metrics"`
}

func (h *handler) newSummaryResp(s conversation.Summary) summaryResp {
	return summaryResp{
		SessionID:       s.SessionID,
		SessionLabel:    s.SessionLabel,
		PatientName:     s.PatientName,
		TurnCount:       s.TurnCount,
		MessageCount:    s.MessageCount,
		DurationMinutes: s.DurationMinutes,
		TotalTokens:     s.TotalTokens,
		StartedAt:       response.DateTime(s.StartedAt),
		EndedAt:         response.DateTime(s.EndedAt),
		Metrics:         s.Metrics,
	}
}

// timerTick is one websocket frame of the session clock.
type timerTick struct {
	SessionID string        `json:"session_id"`
	TimeLeft  string        `json:"time_left"`
	Active    bool          `json:"active"`
	Metrics   timer.Metrics `json:"metrics"`
}

func newTimerTick(o conversation.DetailOutput) timerTick {
	return timerTick{
		SessionID: o.Session.ID,
		TimeLeft:  o.TimeLeft,
		Active:    o.Metrics.Active,
		Metrics:   o.Metrics,
	}
}
