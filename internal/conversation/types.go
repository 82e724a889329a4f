package conversation

import (
	"time"

	"value-added-framework/internal/contract"
	"value-added-framework/internal/model"
	"value-added-framework/internal/timer"
	"value-added-framework/internal/transcript"
)

// State is a step of the orchestration cycle.
type State int

const (
	StateIdle State = iota
	StateBuildingContext
	StateAwaitingModel
	StateValidatingReply
	StatePersisting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBuildingContext:
		return "building_context"
	case StateAwaitingModel:
		return "awaiting_model"
	case StateValidatingReply:
		return "validating_reply"
	case StatePersisting:
		return "persisting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// --- Inputs ---

type StartSessionInput struct {
	ProfileID string        // empty selects the demonstration profile
	Duration  time.Duration // zero selects the configured default
	Number    int           // zero continues after the profile's previous sessions
}

type ProcessInput struct {
	SessionID string
	Text      string
}

type ExportInput struct {
	SessionID string
	Format    transcript.Format
}

// --- Outputs ---

type StartSessionOutput struct {
	Session     model.Session
	PatientName string
	TimeLeft    string
	Metrics     timer.Metrics
}

// ProcessOutput is the Done result of one cycle.
// Warning is set when the turn could not be stored; the reply is still valid.
type ProcessOutput struct {
	Reply    contract.Reply
	Turn     model.Turn
	TimeLeft string
	Metrics  timer.Metrics
	Attempts int
	Trace    []State
	Warning  *StoreWarning
}

type DetailOutput struct {
	Session     model.Session
	PatientName string
	TimeLeft    string
	Metrics     timer.Metrics
	TurnCount   int
}

// Summary is returned when a session ends.
type Summary struct {
	SessionID       string
	SessionLabel    string
	PatientName     string
	TurnCount       int
	MessageCount    int // user and assistant messages
	DurationMinutes int
	TotalTokens     int
	StartedAt       time.Time
	EndedAt         time.Time
	Metrics         timer.Metrics
}

type ExportOutput struct {
	Content     []byte
	ContentType string
	FileName    string
}
