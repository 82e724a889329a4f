// Package storetest holds behavior tests shared by every Store implementation.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"value-added-framework/internal/model"
	"value-added-framework/internal/store"
)

// Factory returns a fresh, empty Store.
type Factory func(t *testing.T) store.Store

// Run exercises the Store contract against newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("SessionRoundTrip", func(t *testing.T) { testSessionRoundTrip(t, newStore(t)) })
	t.Run("SessionNotFound", func(t *testing.T) { testSessionNotFound(t, newStore(t)) })
	t.Run("AppendAndHistoryOrder", func(t *testing.T) { testAppendAndHistory(t, newStore(t)) })
	t.Run("SequenceConflict", func(t *testing.T) { testSequenceConflict(t, newStore(t)) })
	t.Run("ConcurrentSessions", func(t *testing.T) { testConcurrentSessions(t, newStore(t)) })
	t.Run("Profiles", func(t *testing.T) { testProfiles(t, newStore(t)) })
}

func newSession(id string) model.Session {
	return model.Session{
		ID:        id,
		Number:    2,
		ProfileID: "PAT001",
		StartedAt: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
		Duration:  50 * time.Minute,
	}
}

func newTurn(sessionID string, seq int) model.Turn {
	return model.Turn{
		SessionID: sessionID,
		Sequence:  seq,
		RawText:   fmt.Sprintf("message %d", seq),
		Payload: model.EnhancedPayload{
			LatestMessage: fmt.Sprintf("message %d", seq),
			TimeRemaining: "10 minutes and 0 seconds",
			SessionLabel:  "Session 2",
			History:       "history",
		},
		Response:  "reply",
		Notes:     "notes",
		Provider:  "mock",
		Model:     "mock-therapist",
		Usage:     model.Usage{InputTokens: 1, OutputTokens: 2, TotalTokens: 3},
		CreatedAt: time.Date(2026, 1, 2, 10, seq, 0, 0, time.UTC),
	}
}

func testSessionRoundTrip(t *testing.T, s store.Store) {
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	sess := newSession("s1")
	require.NoError(t, s.SaveSession(ctx, sess))

	err := s.SaveSession(ctx, sess)
	assert.ErrorIs(t, err, store.ErrSessionExists)

	got, err := s.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess.Number, got.Number)
	assert.Equal(t, sess.ProfileID, got.ProfileID)
	assert.Equal(t, sess.Duration, got.Duration)
	assert.True(t, sess.StartedAt.Equal(got.StartedAt))
	assert.Nil(t, got.EndedAt)

	ended := sess.StartedAt.Add(20 * time.Minute)
	sess.EndedAt = &ended
	require.NoError(t, s.UpdateSession(ctx, sess))

	got, err = s.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got.EndedAt)
	assert.True(t, ended.Equal(*got.EndedAt))
}

func testSessionNotFound(t *testing.T, s store.Store) {
	defer s.Close()
	ctx := context.Background()

	_, err := s.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)

	var se *store.StoreError
	assert.True(t, errors.As(err, &se))

	assert.ErrorIs(t, s.UpdateSession(ctx, newSession("missing")), store.ErrSessionNotFound)
	assert.ErrorIs(t, s.Append(ctx, newTurn("missing", 1)), store.ErrSessionNotFound)

	_, err = s.History(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func testAppendAndHistory(t *testing.T, s store.Store) {
	defer s.Close()
	ctx := context.Background()
	require.NoError(t, s.SaveSession(ctx, newSession("s1")))

	history, err := s.History(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, history)

	last, err := s.LastSequence(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 0, last)

	for _, seq := range []int{1, 2, 5} {
		require.NoError(t, s.Append(ctx, newTurn("s1", seq)))
	}

	history, err = s.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []int{1, 2, 5}, []int{history[0].Sequence, history[1].Sequence, history[2].Sequence})
	assert.Equal(t, "message 5", history[2].Payload.LatestMessage)
	assert.Equal(t, 3, history[0].Usage.TotalTokens)
	assert.True(t, newTurn("s1", 2).CreatedAt.Equal(history[1].CreatedAt))

	last, err = s.LastSequence(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 5, last)
}

func testSequenceConflict(t *testing.T, s store.Store) {
	defer s.Close()
	ctx := context.Background()
	require.NoError(t, s.SaveSession(ctx, newSession("s1")))
	require.NoError(t, s.Append(ctx, newTurn("s1", 3)))

	assert.ErrorIs(t, s.Append(ctx, newTurn("s1", 3)), store.ErrSequenceConflict)
	assert.ErrorIs(t, s.Append(ctx, newTurn("s1", 2)), store.ErrSequenceConflict)
	assert.ErrorIs(t, s.Append(ctx, newTurn("s1", 0)), store.ErrSequenceConflict)

	history, err := s.History(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func testConcurrentSessions(t *testing.T, s store.Store) {
	defer s.Close()
	ctx := context.Background()

	const sessions, turns = 4, 10
	for i := 0; i < sessions; i++ {
		require.NoError(t, s.SaveSession(ctx, newSession(fmt.Sprintf("s%d", i))))
	}

	var wg sync.WaitGroup
	errs := make(chan error, sessions*turns)
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for seq := 1; seq <= turns; seq++ {
				if err := s.Append(ctx, newTurn(id, seq)); err != nil {
					errs <- err
				}
			}
		}(fmt.Sprintf("s%d", i))
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected append error: %v", err)
	}

	for i := 0; i < sessions; i++ {
		history, err := s.History(ctx, fmt.Sprintf("s%d", i))
		require.NoError(t, err)
		require.Len(t, history, turns)
		for j, turn := range history {
			assert.Equal(t, j+1, turn.Sequence)
		}
	}
}

func testProfiles(t *testing.T, s store.Store) {
	defer s.Close()
	ctx := context.Background()

	_, err := s.GetProfile(ctx, "PAT001")
	assert.ErrorIs(t, err, store.ErrProfileNotFound)

	p := model.PatientProfile{
		ID:          "PAT001",
		Name:        "Alex Johnson",
		Age:         28,
		Medications: []string{"Sertraline 50mg"},
		PreviousSessions: []model.SessionSummary{
			{Number: 1, Date: "2024-01-15", KeyTopics: []string{"work stress"}},
		},
	}
	require.NoError(t, s.SaveProfile(ctx, p))

	got, err := s.GetProfile(ctx, "PAT001")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	p.Age = 29
	require.NoError(t, s.SaveProfile(ctx, p))
	got, err = s.GetProfile(ctx, "PAT001")
	require.NoError(t, err)
	assert.Equal(t, 29, got.Age)
}
