package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"value-added-framework/internal/model"
	"value-added-framework/internal/store"
	"value-added-framework/internal/store/sqlite"
	"value-added-framework/internal/store/storetest"
	"value-added-framework/pkg/log"
)

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := sqlite.New(context.Background(), ":memory:", log.NewNop())
		require.NoError(t, err)
		return s
	})
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.db")

	s, err := sqlite.New(ctx, path, log.NewNop())
	require.NoError(t, err)

	sess := model.Session{ID: "s1", Number: 1, StartedAt: time.Now(), Duration: time.Minute}
	require.NoError(t, s.SaveSession(ctx, sess))
	require.NoError(t, s.Append(ctx, model.Turn{SessionID: "s1", Sequence: 1, RawText: "hi", CreatedAt: time.Now()}))
	require.NoError(t, s.Close())

	s, err = sqlite.New(ctx, path, log.NewNop())
	require.NoError(t, err)
	defer s.Close()

	history, err := s.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "hi", history[0].RawText)
}
