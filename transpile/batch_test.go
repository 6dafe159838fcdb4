package transpile_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/transpilegraph/artifact"
	"github.com/smallnest/transpilegraph/graph"
	"github.com/smallnest/transpilegraph/transpile"
)

func TestRunBatch(t *testing.T) {
	ctx := context.Background()
	files := artifact.NewDir(t.TempDir())

	programs := []string{"print(1)", "print(2)", "FAIL = 1", "print(4)", "x = (", "print(6)"}
	jobs := make([]transpile.Job, len(programs))
	for i, p := range programs {
		in := fmt.Sprintf("in/%d.py", i)
		require.NoError(t, files.Write(ctx, in, p))
		jobs[i] = transpile.Job{Input: in, Output: fmt.Sprintf("out/%d.star", i)}
	}

	cfg := newConfig(t, echoModel{}, files)
	cfg.MaxIterations = 1
	tr := newTranspiler(t, cfg)

	outcomes := transpile.RunBatch(ctx, tr, jobs, 3)
	require.Len(t, outcomes, len(jobs))

	for i, o := range outcomes {
		assert.Equal(t, jobs[i], o.Job)
	}

	var nodeErr *graph.NodeError
	require.ErrorAs(t, outcomes[2].Err, &nodeErr)
	assert.Equal(t, transpile.NodeGenerate, nodeErr.Node)

	assert.NoError(t, outcomes[4].Err)
	assert.False(t, outcomes[4].Result.Accepted())
	assert.Equal(t, 2, outcomes[4].Result.Iterations)

	for _, i := range []int{0, 1, 3, 5} {
		require.NoError(t, outcomes[i].Err)
		assert.True(t, outcomes[i].Result.Accepted())
		written, err := files.Read(ctx, jobs[i].Output)
		require.NoError(t, err)
		assert.Equal(t, programs[i]+"\n", written)
	}

	assert.Equal(t, transpile.Summary{Accepted: 4, Exhausted: 1, Failed: 1}, transpile.Summarize(outcomes))
}

func TestRunBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := newTranspiler(t, newConfig(t, echoModel{}, nil))
	outcomes := transpile.RunBatch(ctx, tr, []transpile.Job{{Input: "a", Output: "b"}}, 0)
	require.Len(t, outcomes, 1)
	assert.ErrorIs(t, outcomes[0].Err, context.Canceled)
}
