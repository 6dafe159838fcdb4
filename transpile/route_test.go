package transpile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smallnest/transpilegraph/graph"
	"github.com/smallnest/transpilegraph/syntax"
	"github.com/smallnest/transpilegraph/transpile"
)

func stateAt(status syntax.Result, iterations int) transpile.State {
	s := transpile.NewState("orig")
	for i := 0; i < iterations; i++ {
		s = s.WithCandidate("c")
	}
	return s.WithValidation(status)
}

func TestRoute_Table(t *testing.T) {
	tests := []struct {
		name   string
		result syntax.Result
		iter   int
		max    int
		want   graph.Route
	}{
		{"ok first try", syntax.Valid(), 1, 3, graph.RouteTerminate},
		{"ok over budget", syntax.Valid(), 9, 3, graph.RouteTerminate},
		{"invalid within budget", syntax.Invalid("x"), 1, 3, graph.RouteContinue},
		{"invalid at budget", syntax.Invalid("x"), 3, 3, graph.RouteContinue},
		{"invalid over budget", syntax.Invalid("x"), 4, 3, graph.RouteTerminate},
		{"mismatch within budget", syntax.Mismatch("d"), 2, 3, graph.RouteContinue},
		{"mismatch over budget", syntax.Mismatch("d"), 4, 3, graph.RouteTerminate},
		{"zero budget", syntax.Invalid("x"), 1, 0, graph.RouteTerminate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transpile.Route(stateAt(tt.result, tt.iter), tt.max))
		})
	}
}

func TestRoute_Properties(t *testing.T) {
	for n := 0; n <= 5; n++ {
		for k := 0; k <= 8; k++ {
			assert.Equal(t, graph.RouteTerminate, transpile.Route(stateAt(syntax.Valid(), k), n))

			want := graph.RouteTerminate
			if k <= n {
				want = graph.RouteContinue
			}
			assert.Equal(t, want, transpile.Route(stateAt(syntax.Invalid("x"), k), n), "k=%d n=%d", k, n)
		}
	}
}

func TestRouter(t *testing.T) {
	r := transpile.Router(2)
	assert.Equal(t, graph.RouteContinue, r(context.Background(), stateAt(syntax.Invalid("x"), 2)))
	assert.Equal(t, graph.RouteTerminate, r(context.Background(), stateAt(syntax.Invalid("x"), 3)))
}
