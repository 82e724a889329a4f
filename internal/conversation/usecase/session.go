package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"value-added-framework/internal/conversation"
	"value-added-framework/internal/model"
	"value-added-framework/internal/profile"
	"value-added-framework/internal/store"
	"value-added-framework/internal/transcript"
)

const unknownPatient = "Unknown Patient"

// StartSession opens a new session for the requested profile.
func (uc *implUseCase) StartSession(ctx context.Context, input conversation.StartSessionInput) (conversation.StartSessionOutput, error) {
	if input.Duration < 0 || input.Number < 0 {
		return conversation.StartSessionOutput{}, invalid(conversation.ErrInvalidConfig)
	}

	p, err := uc.profiles.Get(ctx, input.ProfileID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return conversation.StartSessionOutput{}, &conversation.Error{Kind: conversation.KindProfileNotFound, Err: err}
		}
		uc.l.Errorf(ctx, "conversation.usecase.StartSession: %v", err)
		return conversation.StartSessionOutput{}, &conversation.Error{Kind: conversation.KindStoreUnavailable, Err: err}
	}

	s := model.Session{
		ID:        uuid.NewString(),
		Number:    input.Number,
		ProfileID: p.ID,
		StartedAt: uc.timer.Now(),
		Duration:  input.Duration,
	}
	if s.Duration == 0 {
		s.Duration = uc.cfg.DefaultDuration
	}
	if s.Number == 0 {
		s.Number = len(p.PreviousSessions) + 1
	}
	if err := s.Validate(uc.timer.Now()); err != nil {
		return conversation.StartSessionOutput{}, invalid(err)
	}

	if err := uc.store.SaveSession(ctx, s); err != nil {
		uc.l.Errorf(ctx, "conversation.usecase.StartSession: %v", err)
		return conversation.StartSessionOutput{}, &conversation.Error{Kind: conversation.KindStoreUnavailable, Err: err}
	}

	uc.l.Infof(ctx, "conversation.usecase.StartSession: session=%s %s patient=%s duration=%s", s.ID, s.Label(), p.Name, s.Duration)

	return conversation.StartSessionOutput{
		Session:     s,
		PatientName: p.Name,
		TimeLeft:    uc.timer.RenderRemaining(s),
		Metrics:     uc.timer.Metrics(s),
	}, nil
}

// EndSession stops the clock of a session. Ending an ended session returns the same summary.
func (uc *implUseCase) EndSession(ctx context.Context, sessionID string) (conversation.Summary, error) {
	release, err := uc.locks.acquire(ctx, sessionID)
	if err != nil {
		return conversation.Summary{}, &conversation.Error{Kind: conversation.KindCancelled, Err: err}
	}
	defer release()

	s, err := uc.getSession(ctx, sessionID)
	if err != nil {
		return conversation.Summary{}, err
	}

	if !s.Ended() {
		now := uc.timer.Now()
		s.EndedAt = &now
		if err := uc.store.UpdateSession(ctx, s); err != nil {
			uc.l.Errorf(ctx, "conversation.usecase.EndSession: %v", err)
			return conversation.Summary{}, &conversation.Error{Kind: conversation.KindStoreUnavailable, Err: err}
		}
		uc.forgetSequence(s.ID)
	}

	turns, err := uc.store.History(ctx, s.ID)
	if err != nil {
		uc.l.Errorf(ctx, "conversation.usecase.EndSession: %v", err)
		return conversation.Summary{}, &conversation.Error{Kind: conversation.KindStoreUnavailable, Err: err}
	}

	sum := conversation.Summary{
		SessionID:       s.ID,
		SessionLabel:    s.Label(),
		PatientName:     uc.patientName(ctx, s),
		TurnCount:       len(turns),
		MessageCount:    2 * len(turns),
		DurationMinutes: int(s.Duration.Minutes()),
		StartedAt:       s.StartedAt,
		EndedAt:         *s.EndedAt,
		Metrics:         uc.timer.Metrics(s),
	}
	for _, t := range turns {
		sum.TotalTokens += t.Usage.TotalTokens
	}
	return sum, nil
}

// Detail returns the session and its clock.
func (uc *implUseCase) Detail(ctx context.Context, sessionID string) (conversation.DetailOutput, error) {
	s, err := uc.getSession(ctx, sessionID)
	if err != nil {
		return conversation.DetailOutput{}, err
	}
	turns, err := uc.store.History(ctx, s.ID)
	if err != nil {
		return conversation.DetailOutput{}, &conversation.Error{Kind: conversation.KindStoreUnavailable, Err: err}
	}

	return conversation.DetailOutput{
		Session:     s,
		PatientName: uc.patientName(ctx, s),
		TimeLeft:    uc.timer.RenderRemaining(s),
		Metrics:     uc.timer.Metrics(s),
		TurnCount:   len(turns),
	}, nil
}

// History returns the session turns in sequence order.
func (uc *implUseCase) History(ctx context.Context, sessionID string) ([]model.Turn, error) {
	if _, err := uc.getSession(ctx, sessionID); err != nil {
		return nil, err
	}
	turns, err := uc.store.History(ctx, sessionID)
	if err != nil {
		uc.l.Errorf(ctx, "conversation.usecase.History: %v", err)
		return nil, &conversation.Error{Kind: conversation.KindStoreUnavailable, Err: err}
	}
	return turns, nil
}

// Export renders the transcript of a session.
func (uc *implUseCase) Export(ctx context.Context, input conversation.ExportInput) (conversation.ExportOutput, error) {
	format := input.Format
	if format == "" {
		format = transcript.FormatMarkdown
	}

	s, err := uc.getSession(ctx, input.SessionID)
	if err != nil {
		return conversation.ExportOutput{}, err
	}
	turns, err := uc.store.History(ctx, s.ID)
	if err != nil {
		return conversation.ExportOutput{}, &conversation.Error{Kind: conversation.KindStoreUnavailable, Err: err}
	}

	content, err := transcript.Render(format, transcript.NewDocument(s, uc.patientName(ctx, s), turns))
	if err != nil {
		return conversation.ExportOutput{}, invalid(err)
	}

	return conversation.ExportOutput{
		Content:     content,
		ContentType: format.ContentType(),
		FileName:    fmt.Sprintf("session-%d-%s.%s", s.Number, s.ID, format),
	}, nil
}

// getSession loads a session and classifies store failures.
func (uc *implUseCase) getSession(ctx context.Context, id string) (model.Session, error) {
	s, err := uc.store.GetSession(ctx, id)
	if err == nil {
		return s, nil
	}
	if errors.Is(err, store.ErrSessionNotFound) {
		return model.Session{}, &conversation.Error{Kind: conversation.KindSessionNotFound, Err: err}
	}
	uc.l.Errorf(ctx, "conversation.usecase.getSession: %v", err)
	return model.Session{}, &conversation.Error{Kind: conversation.KindStoreUnavailable, Err: err}
}

func (uc *implUseCase) patientName(ctx context.Context, s model.Session) string {
	p, err := uc.profiles.Get(ctx, s.ProfileID)
	if err != nil || p.Name == "" {
		return unknownPatient
	}
	return p.Name
}

func invalid(err error) error {
	return &conversation.Error{Kind: conversation.KindInvalidInput, Err: err}
}
