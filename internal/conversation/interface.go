package conversation

import (
	"context"

	"value-added-framework/internal/model"
)

// UseCase drives therapy sessions and their per-message orchestration cycle.
type UseCase interface {
	// StartSession opens a new bounded session for a profile.
	StartSession(ctx context.Context, input StartSessionInput) (StartSessionOutput, error)

	// Process runs one orchestration cycle for a user message.
	// Failures are *Error values carrying a Kind.
	Process(ctx context.Context, input ProcessInput) (ProcessOutput, error)

	// EndSession stops the session clock and returns the summary. Ending twice is allowed.
	EndSession(ctx context.Context, sessionID string) (Summary, error)

	// Detail returns the session with its live clock.
	Detail(ctx context.Context, sessionID string) (DetailOutput, error)

	// History returns the stored turns in sequence order.
	History(ctx context.Context, sessionID string) ([]model.Turn, error)

	// Export renders the session transcript in the requested format.
	Export(ctx context.Context, input ExportInput) (ExportOutput, error)
}
