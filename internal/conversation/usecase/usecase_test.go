package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"value-added-framework/internal/conversation"
	"value-added-framework/internal/gateway"
	"value-added-framework/internal/model"
	profileuc "value-added-framework/internal/profile/usecase"
	"value-added-framework/internal/store"
	"value-added-framework/internal/store/memory"
	"value-added-framework/internal/timer"
	"value-added-framework/internal/transcript"
	"value-added-framework/pkg/log"
)

const okReply = `{"response":"How did that feel?","psychiatrist_thoughts":"Patient is opening up."}`

var clockStart = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

type step struct {
	text string
	err  error
}

type fakeGateway struct {
	mu    sync.Mutex
	steps []step
	block bool
	calls int
	reqs  []gateway.Request
}

func (f *fakeGateway) Send(ctx context.Context, req gateway.Request) (gateway.RawReply, error) {
	f.mu.Lock()
	f.calls++
	f.reqs = append(f.reqs, req)
	s := step{text: okReply}
	if len(f.steps) > 0 {
		s, f.steps = f.steps[0], f.steps[1:]
	}
	block := f.block
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return gateway.RawReply{}, ctx.Err()
	}
	if s.err != nil {
		return gateway.RawReply{}, s.err
	}
	return gateway.RawReply{Text: s.text, Provider: "fake", Model: "fake-1", Usage: model.Usage{TotalTokens: 7}}, nil
}

func (f *fakeGateway) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type flakyStore struct {
	store.Store
	failAppend atomic.Bool
}

func (s *flakyStore) Append(ctx context.Context, t model.Turn) error {
	if s.failAppend.Load() {
		return store.Wrap("append", errors.New("disk full"))
	}
	return s.Store.Append(ctx, t)
}

func transient() error { return &gateway.TransientError{Err: errors.New("503 unavailable")} }

func newTestUseCase(t *testing.T, gw gateway.Gateway, st store.Store, cfg Config) *implUseCase {
	t.Helper()
	if st == nil {
		st = memory.New()
	}
	tm := timer.NewWithClock(func() time.Time { return clockStart })
	return New(log.NewNop(), st, profileuc.New(st, log.NewNop()), gw, tm, cfg)
}

func startSession(t *testing.T, uc *implUseCase) model.Session {
	t.Helper()
	out, err := uc.StartSession(context.Background(), conversation.StartSessionInput{})
	require.NoError(t, err)
	return out.Session
}

func requireKind(t *testing.T, err error, kind conversation.Kind) *conversation.Error {
	t.Helper()
	var ce *conversation.Error
	require.True(t, errors.As(err, &ce), "expected *conversation.Error, got %v", err)
	require.Equal(t, kind, ce.Kind, "error: %v", err)
	return ce
}

func TestProcess_Success(t *testing.T) {
	gw := &fakeGateway{}
	uc := newTestUseCase(t, gw, nil, Config{MaxRetries: 2})
	s := startSession(t, uc)
	ctx := context.Background()

	out, err := uc.Process(ctx, conversation.ProcessInput{SessionID: s.ID, Text: "I had a rough week"})
	require.NoError(t, err)

	assert.Equal(t, []conversation.State{
		conversation.StateIdle,
		conversation.StateBuildingContext,
		conversation.StateAwaitingModel,
		conversation.StateValidatingReply,
		conversation.StatePersisting,
		conversation.StateDone,
	}, out.Trace)
	assert.Equal(t, 1, out.Attempts)
	assert.Nil(t, out.Warning)
	assert.Equal(t, "How did that feel?", out.Reply.Response())
	assert.Equal(t, "Patient is opening up.", out.Reply.InternalNotes())
	assert.Equal(t, 1, out.Turn.Sequence)
	assert.Equal(t, "fake", out.Turn.Provider)
	assert.Equal(t, "50 minutes and 0 seconds", out.TimeLeft)

	p := gw.reqs[0].Payload
	assert.Equal(t, "I had a rough week", p.LatestMessage)
	assert.Equal(t, "Session 3", p.SessionLabel)
	assert.Contains(t, p.History, "Alex Johnson")
	assert.Empty(t, gw.reqs[0].Transcript)
	assert.Contains(t, gw.reqs[0].SystemPrompt, "psychiatrist_thoughts")

	out, err = uc.Process(ctx, conversation.ProcessInput{SessionID: s.ID, Text: "Work mostly"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Turn.Sequence)
	require.Len(t, gw.reqs[1].Transcript, 1)
	assert.Equal(t, gateway.Exchange{User: "I had a rough week", Assistant: "How did that feel?"}, gw.reqs[1].Transcript[0])

	turns, err := uc.History(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, 1, turns[0].Sequence)
	assert.Equal(t, 2, turns[1].Sequence)
	assert.Equal(t, 0, uc.locks.len())
}

func TestProcess_BlankInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		gw := &fakeGateway{}
		uc := newTestUseCase(t, gw, nil, Config{})
		s := startSession(t, uc)

		_, err := uc.Process(context.Background(), conversation.ProcessInput{SessionID: s.ID, Text: text})
		ce := requireKind(t, err, conversation.KindInvalidInput)
		assert.ErrorIs(t, err, conversation.ErrBlankInput)
		assert.Equal(t, conversation.StateIdle, ce.State)
		assert.Zero(t, gw.callCount())
	}
}

func TestProcess_TransientExhaustsRetries(t *testing.T) {
	gw := &fakeGateway{steps: []step{{err: transient()}, {err: transient()}, {err: transient()}, {text: okReply}}}
	uc := newTestUseCase(t, gw, nil, Config{MaxRetries: 2})
	s := startSession(t, uc)

	_, err := uc.Process(context.Background(), conversation.ProcessInput{SessionID: s.ID, Text: "hello"})
	ce := requireKind(t, err, conversation.KindTransientGateway)
	assert.Equal(t, 3, ce.Attempts)
	assert.Equal(t, conversation.StateAwaitingModel, ce.State)
	assert.Equal(t, 3, gw.callCount())

	turns, err := uc.History(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestProcess_TransientThenSuccess(t *testing.T) {
	gw := &fakeGateway{steps: []step{{err: transient()}, {err: transient()}}}
	uc := newTestUseCase(t, gw, nil, Config{MaxRetries: 2})
	s := startSession(t, uc)

	out, err := uc.Process(context.Background(), conversation.ProcessInput{SessionID: s.ID, Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Attempts)

	var awaiting int
	for _, st := range out.Trace {
		if st == conversation.StateAwaitingModel {
			awaiting++
		}
	}
	assert.Equal(t, 3, awaiting)
	assert.Equal(t, 1, out.Turn.Sequence)
}

func TestProcess_FatalFailsImmediately(t *testing.T) {
	gw := &fakeGateway{steps: []step{{err: &gateway.FatalError{Err: errors.New("401 unauthorized")}}}}
	uc := newTestUseCase(t, gw, nil, Config{MaxRetries: 5})
	s := startSession(t, uc)

	_, err := uc.Process(context.Background(), conversation.ProcessInput{SessionID: s.ID, Text: "hello"})
	ce := requireKind(t, err, conversation.KindFatalGateway)
	assert.Equal(t, 1, ce.Attempts)
	assert.Equal(t, 1, gw.callCount())
}

func TestProcess_MalformedReplyWritesNothing(t *testing.T) {
	gw := &fakeGateway{steps: []step{
		{text: "Sure! Here is my answer."},
		{text: `{"response":"only one field"}`},
	}}
	uc := newTestUseCase(t, gw, nil, Config{MaxRetries: 2})
	s := startSession(t, uc)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := uc.Process(ctx, conversation.ProcessInput{SessionID: s.ID, Text: "hello"})
		ce := requireKind(t, err, conversation.KindMalformedReply)
		assert.Equal(t, conversation.StateValidatingReply, ce.State)
	}
	assert.Equal(t, 2, gw.callCount(), "a malformed reply is not retried")

	turns, err := uc.History(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, turns)

	out, err := uc.Process(ctx, conversation.ProcessInput{SessionID: s.ID, Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Turn.Sequence)
}

func TestProcess_StoreFailureIsWarning(t *testing.T) {
	st := &flakyStore{Store: memory.New()}
	uc := newTestUseCase(t, &fakeGateway{}, st, Config{})
	s := startSession(t, uc)
	ctx := context.Background()

	st.failAppend.Store(true)
	out, err := uc.Process(ctx, conversation.ProcessInput{SessionID: s.ID, Text: "hello"})
	require.NoError(t, err)
	require.NotNil(t, out.Warning)
	assert.Equal(t, 1, out.Warning.Sequence)
	assert.Equal(t, conversation.StateDone, out.Trace[len(out.Trace)-1])
	assert.Equal(t, "How did that feel?", out.Reply.Response())

	st.failAppend.Store(false)
	out, err = uc.Process(ctx, conversation.ProcessInput{SessionID: s.ID, Text: "again"})
	require.NoError(t, err)
	assert.Nil(t, out.Warning)
	assert.Equal(t, 2, out.Turn.Sequence, "a sequence is never reused")

	turns, err := uc.History(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "again", turns[0].RawText)
}

func TestProcess_IdleSequenceCounterExpires(t *testing.T) {
	uc := newTestUseCase(t, &fakeGateway{}, nil, Config{})
	uc.seqs = expirable.NewLRU[string, int](seqCacheSize, nil, 30*time.Millisecond)
	s := startSession(t, uc)
	ctx := context.Background()

	out, err := uc.Process(ctx, conversation.ProcessInput{SessionID: s.ID, Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Turn.Sequence)

	require.Eventually(t, func() bool {
		_, ok := uc.seqs.Peek(s.ID)
		return !ok
	}, time.Second, 10*time.Millisecond, "an idle session's counter is dropped")

	out, err = uc.Process(ctx, conversation.ProcessInput{SessionID: s.ID, Text: "still here"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Turn.Sequence, "the counter reloads from the store")
}

func TestProcess_CancelledWhileAwaiting(t *testing.T) {
	gw := &fakeGateway{block: true}
	uc := newTestUseCase(t, gw, nil, Config{})
	s := startSession(t, uc)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := uc.Process(ctx, conversation.ProcessInput{SessionID: s.ID, Text: "hello"})
	requireKind(t, err, conversation.KindCancelled)
	assert.ErrorIs(t, err, context.Canceled)

	turns, err := uc.History(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestProcess_CancelledBeforeStart(t *testing.T) {
	gw := &fakeGateway{}
	uc := newTestUseCase(t, gw, nil, Config{})
	s := startSession(t, uc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.Process(ctx, conversation.ProcessInput{SessionID: s.ID, Text: "hello"})
	requireKind(t, err, conversation.KindCancelled)
	assert.Zero(t, gw.callCount())
}

func TestProcess_CancelledDuringBackoff(t *testing.T) {
	gw := &fakeGateway{steps: []step{{err: transient()}}}
	uc := newTestUseCase(t, gw, nil, Config{MaxRetries: 3, Backoff: Backoff{Base: time.Hour, Factor: 2}})
	s := startSession(t, uc)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := uc.Process(ctx, conversation.ProcessInput{SessionID: s.ID, Text: "hello"})
	requireKind(t, err, conversation.KindCancelled)
	assert.Equal(t, 1, gw.callCount())
}

func TestProcess_SessionErrors(t *testing.T) {
	uc := newTestUseCase(t, &fakeGateway{}, nil, Config{})
	ctx := context.Background()

	_, err := uc.Process(ctx, conversation.ProcessInput{SessionID: "missing", Text: "hello"})
	requireKind(t, err, conversation.KindSessionNotFound)

	s := startSession(t, uc)
	_, err = uc.EndSession(ctx, s.ID)
	require.NoError(t, err)

	_, err = uc.Process(ctx, conversation.ProcessInput{SessionID: s.ID, Text: "hello"})
	requireKind(t, err, conversation.KindSessionEnded)
}

func TestProcess_ConcurrentSameSession(t *testing.T) {
	const n = 12
	uc := newTestUseCase(t, &fakeGateway{}, nil, Config{})
	s := startSession(t, uc)

	var wg sync.WaitGroup
	seqs := make([]int, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := uc.Process(context.Background(), conversation.ProcessInput{SessionID: s.ID, Text: "msg"})
			seqs[i], errs[i] = out.Turn.Sequence, err
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	sort.Ints(seqs)
	for i, seq := range seqs {
		assert.Equal(t, i+1, seq)
	}

	turns, err := uc.History(context.Background(), s.ID)
	require.NoError(t, err)
	require.Len(t, turns, n)
	for i := 1; i < n; i++ {
		assert.Less(t, turns[i-1].Sequence, turns[i].Sequence)
	}
	assert.Equal(t, 0, uc.locks.len())
}

func TestStartSession(t *testing.T) {
	uc := newTestUseCase(t, &fakeGateway{}, nil, Config{DefaultDuration: 20 * time.Minute})
	ctx := context.Background()

	out, err := uc.StartSession(ctx, conversation.StartSessionInput{})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Session.ID)
	assert.Equal(t, 3, out.Session.Number)
	assert.Equal(t, 20*time.Minute, out.Session.Duration)
	assert.Equal(t, "Alex Johnson", out.PatientName)
	assert.Equal(t, "20 minutes and 0 seconds", out.TimeLeft)
	assert.True(t, out.Metrics.Active)

	out, err = uc.StartSession(ctx, conversation.StartSessionInput{Duration: 10 * time.Minute, Number: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, out.Session.Number)
	assert.Equal(t, 10*time.Minute, out.Session.Duration)

	_, err = uc.StartSession(ctx, conversation.StartSessionInput{ProfileID: "PAT999"})
	requireKind(t, err, conversation.KindProfileNotFound)

	_, err = uc.StartSession(ctx, conversation.StartSessionInput{Duration: -time.Minute})
	requireKind(t, err, conversation.KindInvalidInput)
}

func TestEndSession(t *testing.T) {
	uc := newTestUseCase(t, &fakeGateway{}, nil, Config{})
	s := startSession(t, uc)
	ctx := context.Background()

	_, err := uc.Process(ctx, conversation.ProcessInput{SessionID: s.ID, Text: "hello"})
	require.NoError(t, err)

	sum, err := uc.EndSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Session 3", sum.SessionLabel)
	assert.Equal(t, "Alex Johnson", sum.PatientName)
	assert.Equal(t, 1, sum.TurnCount)
	assert.Equal(t, 2, sum.MessageCount)
	assert.Equal(t, 7, sum.TotalTokens)
	assert.Equal(t, 50, sum.DurationMinutes)
	assert.False(t, sum.Metrics.Active)
	assert.Equal(t, 0, uc.seqs.Len(), "ending a session drops its counter")

	again, err := uc.EndSession(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, sum.EndedAt, again.EndedAt)

	_, err = uc.EndSession(ctx, "missing")
	requireKind(t, err, conversation.KindSessionNotFound)
}

func TestDetail(t *testing.T) {
	uc := newTestUseCase(t, &fakeGateway{}, nil, Config{})
	s := startSession(t, uc)

	out, err := uc.Detail(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, out.Session.ID)
	assert.Equal(t, 0, out.TurnCount)
	assert.Equal(t, "50 minutes and 0 seconds", out.TimeLeft)
}

func TestExport(t *testing.T) {
	uc := newTestUseCase(t, &fakeGateway{}, nil, Config{})
	s := startSession(t, uc)
	ctx := context.Background()

	_, err := uc.Process(ctx, conversation.ProcessInput{SessionID: s.ID, Text: "hello"})
	require.NoError(t, err)

	out, err := uc.Export(ctx, conversation.ExportInput{SessionID: s.ID})
	require.NoError(t, err)
	assert.Contains(t, string(out.Content), "*Patient*: hello |\n| *Therapist*: How did that feel?")
	assert.True(t, strings.HasSuffix(out.FileName, ".md"))

	out, err = uc.Export(ctx, conversation.ExportInput{SessionID: s.ID, Format: transcript.FormatJSON})
	require.NoError(t, err)
	assert.Equal(t, "application/json", out.ContentType)

	_, err = uc.Export(ctx, conversation.ExportInput{SessionID: s.ID, Format: "pdf"})
	requireKind(t, err, conversation.KindInvalidInput)
}

func TestBackoffDelay(t *testing.T) {
	b := DefaultBackoff()
	tests := []struct {
		retry int
		want  time.Duration
	}{
		{retry: 0, want: 0},
		{retry: 1, want: 500 * time.Millisecond},
		{retry: 2, want: time.Second},
		{retry: 3, want: 2 * time.Second},
		{retry: 5, want: 8 * time.Second},
		{retry: 30, want: 8 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.Delay(tt.retry), "retry %d", tt.retry)
	}
	assert.Zero(t, Backoff{}.Delay(3))
}

func TestSessionLocks_AcquireRespectsContext(t *testing.T) {
	locks := newSessionLocks()
	release, err := locks.acquire(context.Background(), "s1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = locks.acquire(ctx, "s1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	other, err := locks.acquire(context.Background(), "s2")
	require.NoError(t, err)
	other()

	release()
	release()
	assert.Equal(t, 0, locks.len())
}
