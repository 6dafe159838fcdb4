// Package storetest checks that a store.CheckpointStore behaves like the others.
package storetest

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/transpilegraph/store"
)

// NewCheckpoint builds a checkpoint for tests.
func NewCheckpoint(id, runID, stage string, version int) *store.Checkpoint {
	return &store.Checkpoint{
		ID:        id,
		RunID:     runID,
		Stage:     stage,
		Iteration: version,
		Status:    "INVALID",
		State:     json.RawMessage(`{"code":"print(1)"}`),
		Timestamp: time.Date(2024, 1, 1, 0, 0, version, 0, time.UTC),
		Version:   version,
	}
}

// Contract runs the shared CheckpointStore behaviour against s, which must be empty.
func Contract(t *testing.T, s store.CheckpointStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("SaveLoad", func(t *testing.T) {
		cp := NewCheckpoint("cp-1", "run-a", "generate", 1)
		require.NoError(t, s.Save(ctx, cp))

		loaded, err := s.Load(ctx, "cp-1")
		require.NoError(t, err)
		assert.Equal(t, "run-a", loaded.RunID)
		assert.Equal(t, "generate", loaded.Stage)
		assert.Equal(t, 1, loaded.Iteration)
		assert.Equal(t, "INVALID", loaded.Status)
		assert.Equal(t, 1, loaded.Version)
		assert.JSONEq(t, `{"code":"print(1)"}`, string(loaded.State))
		assert.True(t, cp.Timestamp.Equal(loaded.Timestamp))
	})

	t.Run("LoadMissing", func(t *testing.T) {
		_, err := s.Load(ctx, "does-not-exist")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("SaveReplaces", func(t *testing.T) {
		cp := NewCheckpoint("cp-1", "run-a", "validate", 1)
		cp.Status = "OK"
		require.NoError(t, s.Save(ctx, cp))

		loaded, err := s.Load(ctx, "cp-1")
		require.NoError(t, err)
		assert.Equal(t, "validate", loaded.Stage)
		assert.Equal(t, "OK", loaded.Status)
	})

	t.Run("ListOrdered", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, NewCheckpoint("cp-3", "run-a", "finalize", 3)))
		require.NoError(t, s.Save(ctx, NewCheckpoint("cp-2", "run-a", "generate", 2)))
		require.NoError(t, s.Save(ctx, NewCheckpoint("other-1", "run-b", "generate", 1)))

		list, err := s.List(ctx, "run-a")
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "cp-1", list[0].ID)
		assert.Equal(t, "cp-2", list[1].ID)
		assert.Equal(t, "cp-3", list[2].ID)

		latest, err := store.Latest(ctx, s, "run-a")
		require.NoError(t, err)
		assert.Equal(t, "cp-3", latest.ID)

		empty, err := s.List(ctx, "run-none")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "cp-2"))
		_, err := s.Load(ctx, "cp-2")
		assert.ErrorIs(t, err, store.ErrNotFound)

		list, err := s.List(ctx, "run-a")
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, s.Clear(ctx, "run-a"))

		list, err := s.List(ctx, "run-a")
		require.NoError(t, err)
		assert.Empty(t, list)

		_, err = store.Latest(ctx, s, "run-a")
		assert.ErrorIs(t, err, store.ErrNotFound)

		other, err := s.List(ctx, "run-b")
		require.NoError(t, err)
		assert.Len(t, other, 1)
	})
}
