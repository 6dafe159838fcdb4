package graph_test

import (
	"context"
	"testing"
	"time"

	"github.com/smallnest/transpilegraph/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTimeoutExpires(t *testing.T) {
	t.Parallel()

	g := graph.NewStateGraph[counter]()
	g.AddNodeWithTimeout("slow", "blocks until cancelled", func(ctx context.Context, c counter) (counter, error) {
		<-ctx.Done()
		return c, nil
	}, 20*time.Millisecond)
	g.SetEntryPoint("slow")

	app, err := g.Compile()
	require.NoError(t, err)

	_, err = app.Invoke(context.Background(), counter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrNodeTimeout)
}

func TestWithTimeoutPassesResult(t *testing.T) {
	t.Parallel()

	fn := graph.WithTimeout(inc("fast"), time.Second)
	out, err := fn(context.Background(), counter{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.N)
}

func TestWithTimeoutDisabled(t *testing.T) {
	t.Parallel()

	fn := graph.WithTimeout(inc("x"), 0)
	out, err := fn(context.Background(), counter{N: 4})
	require.NoError(t, err)
	assert.Equal(t, 5, out.N)
}
