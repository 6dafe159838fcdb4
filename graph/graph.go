package graph

import (
	"context"
	"errors"
	"fmt"
)

// END is a special constant used to represent the end node in the graph.
const END = "END"

var (
	// ErrEntryPointNotSet is returned when the entry point of the graph is not set.
	ErrEntryPointNotSet = errors.New("entry point not set")

	// ErrNodeNotFound is returned when an edge or the entry point names an unknown node.
	ErrNodeNotFound = errors.New("node not found")

	// ErrDuplicateEdge is returned when a node is given more than one outgoing edge.
	ErrDuplicateEdge = errors.New("node already has an outgoing edge")

	// ErrIncompleteRoutes is returned when a conditional edge does not map every Route.
	ErrIncompleteRoutes = errors.New("conditional edge does not map every route")

	// ErrNoTerminal is returned when no node can end a run.
	ErrNoTerminal = errors.New("graph has no terminal node")

	// ErrNodeTimeout is returned when a node wrapped with WithTimeout exceeds its deadline.
	ErrNodeTimeout = errors.New("node execution timed out")
)

// Route is the symbolic result of a conditional edge.
type Route int

const (
	// RouteContinue asks the graph to follow the "continue" branch.
	RouteContinue Route = iota
	// RouteTerminate asks the graph to follow the "terminate" branch.
	RouteTerminate
)

// Routes lists every Route value. A conditional edge must map all of them.
var Routes = []Route{RouteContinue, RouteTerminate}

// String returns the label used for the route in diagrams and logs.
func (r Route) String() string {
	switch r {
	case RouteContinue:
		return "continue"
	case RouteTerminate:
		return "terminate"
	default:
		return fmt.Sprintf("route(%d)", int(r))
	}
}

// NodeFunc transforms the state. It returns a complete replacement of its input,
// or an error that aborts the run.
type NodeFunc[S any] func(ctx context.Context, state S) (S, error)

// RouterFunc decides which branch of a conditional edge to follow.
type RouterFunc[S any] func(ctx context.Context, state S) Route

// Node represents a node in the graph.
type Node[S any] struct {
	// Name is the unique identifier for the node.
	Name string

	// Description describes the functionality of the node.
	Description string

	// Function is the function associated with the node.
	Function NodeFunc[S]
}

// Edge represents a fixed edge in the graph.
type Edge struct {
	// From is the name of the node from which the edge originates.
	From string

	// To is the name of the node to which the edge points.
	To string
}

// ConditionalEdge routes out of From by asking Router for a Route and looking the
// successor up in Targets.
type ConditionalEdge[S any] struct {
	From    string
	Router  RouterFunc[S]
	Targets map[Route]string
}

// NodeError wraps a fatal error raised inside a node.
type NodeError struct {
	// Node is the name of the failing node
	Node string
	// Err is the error returned by the node
	Err error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("error in node %s: %v", e.Node, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}
