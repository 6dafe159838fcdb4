package transpile

import (
	"context"

	"github.com/smallnest/transpilegraph/graph"
)

// DefaultMaxIterations is the iteration budget used when none is configured.
const DefaultMaxIterations = 3

// Route decides what follows a validation. An accepted candidate terminates the
// run. A rejected one is retried until more than maxIterations generations have
// run; the run then terminates with the last candidate, still flagged by its
// validation status.
func Route(s State, maxIterations int) graph.Route {
	if s.Validation().OK() {
		return graph.RouteTerminate
	}
	if s.Iterations() > maxIterations {
		return graph.RouteTerminate
	}
	return graph.RouteContinue
}

// Router adapts Route to a graph router with a fixed budget.
func Router(maxIterations int) graph.RouterFunc[State] {
	return func(_ context.Context, s State) graph.Route {
		return Route(s, maxIterations)
	}
}
