package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/transpilegraph/store/storetest"
)

func newTestStore(t *testing.T, ttl time.Duration) (*RedisCheckpointStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewRedisCheckpointStore(RedisOptions{Addr: mr.Addr(), TTL: ttl})
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisCheckpointStore_Contract(t *testing.T) {
	s, _ := newTestStore(t, 0)
	storetest.Contract(t, s)
}

func TestRedisCheckpointStore_Keys(t *testing.T) {
	s, mr := newTestStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, storetest.NewCheckpoint("cp-1", "run-a", "generate", 1)))

	assert.True(t, mr.Exists("transpile:checkpoint:cp-1"))
	members, err := mr.Members("transpile:run:run-a:checkpoints")
	require.NoError(t, err)
	assert.Equal(t, []string{"cp-1"}, members)
}

func TestRedisCheckpointStore_TTL(t *testing.T) {
	s, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, storetest.NewCheckpoint("cp-1", "run-a", "generate", 1)))
	assert.Equal(t, time.Minute, mr.TTL("transpile:checkpoint:cp-1"))

	mr.FastForward(2 * time.Minute)
	list, err := s.List(ctx, "run-a")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRedisCheckpointStore_MovesRun(t *testing.T) {
	s, _ := newTestStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, storetest.NewCheckpoint("cp-1", "run-a", "generate", 1)))
	require.NoError(t, s.Save(ctx, storetest.NewCheckpoint("cp-1", "run-b", "generate", 1)))

	a, err := s.List(ctx, "run-a")
	require.NoError(t, err)
	assert.Empty(t, a)

	b, err := s.List(ctx, "run-b")
	require.NoError(t, err)
	assert.Len(t, b, 1)
}
