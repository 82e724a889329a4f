package usecase

import (
	"context"
	"errors"
	"strings"

	"value-added-framework/internal/conversation"
	"value-added-framework/internal/gateway"
	"value-added-framework/internal/injector"
	"value-added-framework/internal/model"
)

// cycle tracks one run of the state machine.
type cycle struct {
	trace    []conversation.State
	attempts int
}

func (c *cycle) enter(s conversation.State) {
	c.trace = append(c.trace, s)
}

func (c *cycle) current() conversation.State {
	return c.trace[len(c.trace)-1]
}

func (c *cycle) fail(kind conversation.Kind, err error) error {
	state := c.current()
	c.enter(conversation.StateFailed)
	return &conversation.Error{Kind: kind, State: state, Attempts: c.attempts, Err: err}
}

// Process runs one orchestration cycle for input.
func (uc *implUseCase) Process(ctx context.Context, input conversation.ProcessInput) (conversation.ProcessOutput, error) {
	c := &cycle{trace: []conversation.State{conversation.StateIdle}}

	if strings.TrimSpace(input.Text) == "" {
		return conversation.ProcessOutput{}, &conversation.Error{
			Kind:  conversation.KindInvalidInput,
			State: conversation.StateIdle,
			Err:   conversation.ErrBlankInput,
		}
	}

	release, err := uc.locks.acquire(ctx, input.SessionID)
	if err != nil {
		return conversation.ProcessOutput{}, c.fail(conversation.KindCancelled, err)
	}
	defer release()

	// BuildingContext
	c.enter(conversation.StateBuildingContext)
	session, err := uc.getSession(ctx, input.SessionID)
	if err != nil {
		return conversation.ProcessOutput{}, c.fail(conversation.KindOf(err), errors.Unwrap(err))
	}
	if session.Ended() {
		return conversation.ProcessOutput{}, c.fail(conversation.KindSessionEnded, conversation.ErrSessionEnded)
	}

	payload := uc.injector.Build(input.Text, session, uc.profileFor(ctx, session))
	if err := injector.Validate(payload); err != nil {
		return conversation.ProcessOutput{}, c.fail(conversation.KindInvalidInput, err)
	}
	req := gateway.Request{
		SystemPrompt: uc.prompt,
		Transcript:   uc.replay(ctx, session.ID),
		Payload:      payload,
		Schema:       uc.contract.Schema(),
	}
	if err := ctx.Err(); err != nil {
		return conversation.ProcessOutput{}, c.fail(conversation.KindCancelled, err)
	}

	// AwaitingModel
	raw, err := uc.await(ctx, c, req)
	if err != nil {
		return conversation.ProcessOutput{}, err
	}

	// ValidatingReply
	c.enter(conversation.StateValidatingReply)
	reply, err := uc.contract.Parse(raw.Text)
	if err != nil {
		uc.l.Warnf(ctx, "conversation.usecase.Process: session=%s: %v", session.ID, err)
		return conversation.ProcessOutput{}, c.fail(conversation.KindMalformedReply, err)
	}
	if err := ctx.Err(); err != nil {
		return conversation.ProcessOutput{}, c.fail(conversation.KindCancelled, err)
	}

	// Persisting
	c.enter(conversation.StatePersisting)
	turn := model.Turn{
		SessionID: session.ID,
		RawText:   input.Text,
		Payload:   payload,
		Response:  reply.Response(),
		Notes:     reply.InternalNotes(),
		Provider:  raw.Provider,
		Model:     raw.Model,
		Usage:     raw.Usage,
		CreatedAt: uc.timer.Now(),
	}
	warning := uc.persist(ctx, &turn)

	c.enter(conversation.StateDone)
	uc.l.Infof(ctx, "conversation.usecase.Process: session=%s seq=%d attempts=%d provider=%s tokens=%d",
		session.ID, turn.Sequence, c.attempts, raw.Provider, raw.Usage.TotalTokens)

	return conversation.ProcessOutput{
		Reply:    reply,
		Turn:     turn,
		TimeLeft: uc.timer.RenderRemaining(session),
		Metrics:  uc.timer.Metrics(session),
		Attempts: c.attempts,
		Trace:    c.trace,
		Warning:  warning,
	}, nil
}

// await calls the gateway, retrying transient failures with backoff.
func (uc *implUseCase) await(ctx context.Context, c *cycle, req gateway.Request) (gateway.RawReply, error) {
	for {
		c.enter(conversation.StateAwaitingModel)
		c.attempts++

		raw, err := uc.gateway.Send(ctx, req)
		if err == nil {
			return raw, nil
		}

		switch {
		case ctx.Err() != nil:
			return gateway.RawReply{}, c.fail(conversation.KindCancelled, ctx.Err())
		case gateway.IsTransient(err):
			if c.attempts > uc.cfg.MaxRetries {
				uc.l.Errorf(ctx, "conversation.usecase.await: giving up after %d attempts: %v", c.attempts, err)
				return gateway.RawReply{}, c.fail(conversation.KindTransientGateway, err)
			}
			delay := uc.cfg.Backoff.Delay(c.attempts)
			uc.l.Warnf(ctx, "conversation.usecase.await: attempt %d failed, retrying in %s: %v", c.attempts, delay, err)
			if err := uc.sleep(ctx, delay); err != nil {
				return gateway.RawReply{}, c.fail(conversation.KindCancelled, err)
			}
		default:
			return gateway.RawReply{}, c.fail(conversation.KindFatalGateway, err)
		}
	}
}

// persist assigns the next sequence and appends t. Failures come back as a warning.
func (uc *implUseCase) persist(ctx context.Context, t *model.Turn) *conversation.StoreWarning {
	// The reply is already paid for; a late cancel must not drop it.
	ctx = context.WithoutCancel(ctx)

	seq, err := uc.nextSequence(ctx, t.SessionID)
	if err != nil {
		uc.l.Errorf(ctx, "conversation.usecase.persist: %v", err)
		return &conversation.StoreWarning{Err: err}
	}
	t.Sequence = seq

	if err := uc.store.Append(ctx, *t); err != nil {
		uc.l.Errorf(ctx, "conversation.usecase.persist: session=%s seq=%d: %v", t.SessionID, seq, err)
		return &conversation.StoreWarning{Sequence: seq, Err: err}
	}
	return nil
}

// nextSequence hands out increasing sequences per session. A number is never reused
// while the session's counter is cached, even when its Append failed. Counters idle
// longer than seqIdleTTL are dropped and reloaded from the store. Callers hold the session lock.
func (uc *implUseCase) nextSequence(ctx context.Context, sessionID string) (int, error) {
	last, ok := uc.seqs.Get(sessionID)
	if !ok {
		var err error
		last, err = uc.store.LastSequence(ctx, sessionID)
		if err != nil {
			return 0, err
		}
	}
	last++
	uc.seqs.Add(sessionID, last)
	return last, nil
}

func (uc *implUseCase) forgetSequence(sessionID string) {
	uc.seqs.Remove(sessionID)
}

// replay returns the stored turns as prior exchanges. A read failure only loses the replay.
func (uc *implUseCase) replay(ctx context.Context, sessionID string) []gateway.Exchange {
	turns, err := uc.store.History(ctx, sessionID)
	if err != nil {
		uc.l.Warnf(ctx, "conversation.usecase.replay: session=%s: %v", sessionID, err)
		return nil
	}
	out := make([]gateway.Exchange, len(turns))
	for i, t := range turns {
		out[i] = gateway.Exchange{User: t.RawText, Assistant: t.Response}
	}
	return out
}

// profileFor loads the session's profile. A nil result injects the empty-history placeholder.
func (uc *implUseCase) profileFor(ctx context.Context, s model.Session) *model.PatientProfile {
	p, err := uc.profiles.Get(ctx, s.ProfileID)
	if err != nil {
		uc.l.Warnf(ctx, "conversation.usecase.profileFor: session=%s profile=%s: %v", s.ID, s.ProfileID, err)
		return nil
	}
	return &p
}
