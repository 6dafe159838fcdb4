package graph_test

import (
	"context"
	"errors"
	"testing"

	"github.com/smallnest/transpilegraph/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracerRecordsNodesAndEdges(t *testing.T) {
	g := graph.NewStateGraph[counter]()
	g.AddNode("a", "first", inc("a"))
	g.AddNode("b", "second", inc("b"))
	g.AddEdge("a", "b")
	g.SetEntryPoint("a")

	app, err := g.Compile()
	require.NoError(t, err)

	tracer := graph.NewTracer()
	var hooked []graph.TraceEvent
	tracer.AddHook(graph.TraceHookFunc(func(_ context.Context, span *graph.TraceSpan) {
		hooked = append(hooked, span.Event)
	}))
	app.SetTracer(tracer)
	assert.Same(t, tracer, app.GetTracer())

	_, err = app.Invoke(context.Background(), counter{})
	require.NoError(t, err)

	var nodeEnds, edges int
	var graphEnded bool
	for _, span := range tracer.GetSpans() {
		switch span.Event {
		case graph.TraceEventNodeEnd:
			nodeEnds++
		case graph.TraceEventEdgeTraversal:
			edges++
			assert.Equal(t, "a", span.FromNode)
			assert.Equal(t, "b", span.ToNode)
		case graph.TraceEventGraphEnd:
			graphEnded = true
		}
	}
	assert.Equal(t, 2, nodeEnds)
	assert.Equal(t, 1, edges)
	assert.True(t, graphEnded)
	assert.Contains(t, hooked, graph.TraceEventGraphEnd)

	tracer.Clear()
	assert.Empty(t, tracer.GetSpans())
}

func TestTracerReportsNodeErrorOnce(t *testing.T) {
	g := graph.NewStateGraph[counter]()
	g.AddNode("a", "fails", func(context.Context, counter) (counter, error) {
		return counter{}, errors.New("boom")
	})
	g.SetEntryPoint("a")

	app, err := g.Compile()
	require.NoError(t, err)

	tracer := graph.NewTracer()
	app.SetTracer(tracer)

	_, err = app.Invoke(context.Background(), counter{})
	require.Error(t, err)

	var graphID string
	var errorSpans []*graph.TraceSpan
	for _, span := range tracer.GetSpans() {
		switch span.Event {
		case graph.TraceEventGraphEnd:
			graphID = span.ID
		case graph.TraceEventNodeError:
			errorSpans = append(errorSpans, span)
		}
	}
	require.Len(t, errorSpans, 1)
	assert.Equal(t, "a", errorSpans[0].NodeName)
	assert.EqualError(t, errorSpans[0].Error, "boom")
	assert.Equal(t, graphID, errorSpans[0].ParentID)
}
