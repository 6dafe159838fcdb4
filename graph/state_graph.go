package graph

import (
	"context"
	"fmt"
	"sort"
)

// StateGraph is a directed graph of named nodes sharing a state of type S.
// Nodes run one at a time; each receives exactly the state returned by its
// predecessor.
//
// Example usage:
//
//	g := graph.NewStateGraph[MyState]()
//	g.AddNode("work", "Do the work", work)
//	g.AddNode("check", "Check the result", check)
//	g.AddEdge("work", "check")
//	g.AddConditionalEdge("check", decide, map[graph.Route]string{
//	    graph.RouteContinue:  "work",
//	    graph.RouteTerminate: graph.END,
//	})
//	g.SetEntryPoint("work")
//	app, err := g.Compile()
type StateGraph[S any] struct {
	// nodes is a map of node names to their corresponding Node objects
	nodes map[string]Node[S]

	// order keeps node registration order for stable diagrams
	order []string

	// edges contains the fixed edges in registration order
	edges []Edge

	// conditionalEdges maps a "From" node to its router and route targets
	conditionalEdges map[string]ConditionalEdge[S]

	// entryPoint is the name of the entry point node in the graph
	entryPoint string
}

// NewStateGraph creates a new instance of StateGraph.
func NewStateGraph[S any]() *StateGraph[S] {
	return &StateGraph[S]{
		nodes:            make(map[string]Node[S]),
		conditionalEdges: make(map[string]ConditionalEdge[S]),
	}
}

// AddNode adds a new node to the state graph with the given name, description and function.
// Adding a node twice replaces its function.
func (g *StateGraph[S]) AddNode(name string, description string, fn NodeFunc[S]) {
	if _, ok := g.nodes[name]; !ok {
		g.order = append(g.order, name)
	}
	g.nodes[name] = Node[S]{
		Name:        name,
		Description: description,
		Function:    fn,
	}
}

// AddEdge adds a fixed edge between the "from" and "to" nodes.
func (g *StateGraph[S]) AddEdge(from, to string) {
	g.edges = append(g.edges, Edge{
		From: from,
		To:   to,
	})
}

// AddConditionalEdge adds an edge whose target is chosen at runtime by router.
// targets maps every Route to a node name or END.
func (g *StateGraph[S]) AddConditionalEdge(from string, router RouterFunc[S], targets map[Route]string) {
	copied := make(map[Route]string, len(targets))
	for k, v := range targets {
		copied[k] = v
	}
	g.conditionalEdges[from] = ConditionalEdge[S]{
		From:    from,
		Router:  router,
		Targets: copied,
	}
}

// SetEntryPoint sets the entry point node name for the state graph.
func (g *StateGraph[S]) SetEntryPoint(name string) {
	g.entryPoint = name
}

// SetFinishPoint marks name as terminal by adding an edge to END.
func (g *StateGraph[S]) SetFinishPoint(name string) {
	g.AddEdge(name, END)
}

// Compile checks the wiring and returns a Runnable. Every configuration error is
// reported here, before a run can start.
func (g *StateGraph[S]) Compile() (*Runnable[S], error) {
	if g.entryPoint == "" {
		return nil, ErrEntryPointNotSet
	}
	if _, ok := g.nodes[g.entryPoint]; !ok {
		return nil, fmt.Errorf("%w: entry point %s", ErrNodeNotFound, g.entryPoint)
	}

	successors := make(map[string]string, len(g.edges))
	for _, edge := range g.edges {
		if _, ok := g.nodes[edge.From]; !ok {
			return nil, fmt.Errorf("%w: edge source %s", ErrNodeNotFound, edge.From)
		}
		if edge.To != END {
			if _, ok := g.nodes[edge.To]; !ok {
				return nil, fmt.Errorf("%w: edge target %s", ErrNodeNotFound, edge.To)
			}
		}
		if _, dup := successors[edge.From]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEdge, edge.From)
		}
		successors[edge.From] = edge.To
	}

	for from, ce := range g.conditionalEdges {
		if _, ok := g.nodes[from]; !ok {
			return nil, fmt.Errorf("%w: conditional edge source %s", ErrNodeNotFound, from)
		}
		if _, dup := successors[from]; dup {
			return nil, fmt.Errorf("%w: %s has both a fixed and a conditional edge", ErrDuplicateEdge, from)
		}
		if ce.Router == nil {
			return nil, fmt.Errorf("%w: %s has no router", ErrIncompleteRoutes, from)
		}
		for _, route := range Routes {
			target, ok := ce.Targets[route]
			if !ok || target == "" {
				return nil, fmt.Errorf("%w: %s does not map %s", ErrIncompleteRoutes, from, route)
			}
			if target != END {
				if _, ok := g.nodes[target]; !ok {
					return nil, fmt.Errorf("%w: route %s of %s targets %s", ErrNodeNotFound, route, from, target)
				}
			}
		}
	}

	terminals := make(map[string]bool)
	for name := range g.nodes {
		_, conditional := g.conditionalEdges[name]
		to, fixed := successors[name]
		if !conditional && (!fixed || to == END) {
			terminals[name] = true
		}
	}
	// A conditional edge routing to END also ends the run.
	endsViaRoute := false
	for _, ce := range g.conditionalEdges {
		for _, target := range ce.Targets {
			if target == END {
				endsViaRoute = true
			}
		}
	}
	if len(terminals) == 0 && !endsViaRoute {
		return nil, ErrNoTerminal
	}

	// The runnable keeps its own copy of the wiring; later edits to g are not seen.
	nodes := make(map[string]Node[S], len(g.nodes))
	for name, node := range g.nodes {
		nodes[name] = node
	}
	conditional := make(map[string]ConditionalEdge[S], len(g.conditionalEdges))
	for from, ce := range g.conditionalEdges {
		targets := make(map[Route]string, len(ce.Targets))
		for route, target := range ce.Targets {
			targets[route] = target
		}
		ce.Targets = targets
		conditional[from] = ce
	}

	return &Runnable[S]{
		entryPoint:       g.entryPoint,
		nodes:            nodes,
		conditionalEdges: conditional,
		successors:       successors,
		terminals:        terminals,
	}, nil
}

// Nodes returns the registered nodes in registration order.
func (g *StateGraph[S]) Nodes() []Node[S] {
	nodes := make([]Node[S], 0, len(g.order))
	for _, name := range g.order {
		nodes = append(nodes, g.nodes[name])
	}
	return nodes
}

// Edges returns the fixed edges in registration order.
func (g *StateGraph[S]) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// ConditionalEdges returns the conditional edges sorted by source node.
func (g *StateGraph[S]) ConditionalEdges() []ConditionalEdge[S] {
	out := make([]ConditionalEdge[S], 0, len(g.conditionalEdges))
	for _, ce := range g.conditionalEdges {
		out = append(out, ce)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].From < out[j].From })
	return out
}

// EntryPoint returns the configured entry point.
func (g *StateGraph[S]) EntryPoint() string {
	return g.entryPoint
}

// Runnable is a compiled state graph that can be invoked.
type Runnable[S any] struct {
	entryPoint       string
	nodes            map[string]Node[S]
	conditionalEdges map[string]ConditionalEdge[S]
	successors       map[string]string
	terminals        map[string]bool
	tracer           *Tracer
	listeners        []NodeListener[S]
}

// SetTracer sets a tracer for observability.
func (r *Runnable[S]) SetTracer(tracer *Tracer) {
	r.tracer = tracer
}

// GetTracer returns the current tracer.
func (r *Runnable[S]) GetTracer() *Tracer {
	return r.tracer
}

// AddListener registers a listener notified around every node execution.
func (r *Runnable[S]) AddListener(listener NodeListener[S]) *Runnable[S] {
	r.listeners = append(r.listeners, listener)
	return r
}

// IsTerminal reports whether reaching name ends the run.
func (r *Runnable[S]) IsTerminal(name string) bool {
	return r.terminals[name]
}

// Invoke runs the graph from the entry point until a terminal node returns.
//
// There are no retries and no step limit: termination relies on every cycle
// passing through a router that eventually chooses a terminating branch.
// Cancellation of ctx is observed between nodes; a running node is not preempted.
func (r *Runnable[S]) Invoke(ctx context.Context, initialState S) (S, error) {
	state := initialState
	current := r.entryPoint

	var graphSpan *TraceSpan
	if r.tracer != nil {
		graphSpan = r.tracer.StartSpan(ctx, TraceEventGraphStart, "graph")
		graphSpan.State = initialState
		ctx = ContextWithSpan(ctx, graphSpan)
	}

	for current != END {
		if err := ctx.Err(); err != nil {
			r.endGraphSpan(ctx, graphSpan, state, err)
			return state, err
		}

		node := r.nodes[current]
		next, err := r.executeNode(ctx, node, state)
		if err != nil {
			nodeErr := &NodeError{Node: current, Err: err}
			r.endGraphSpan(ctx, graphSpan, state, nodeErr)
			return state, nodeErr
		}
		state = next

		if r.terminals[current] {
			break
		}

		successor, err := r.nextNode(ctx, current, state)
		if err != nil {
			r.endGraphSpan(ctx, graphSpan, state, err)
			return state, err
		}
		if r.tracer != nil {
			r.tracer.TraceEdgeTraversal(ctx, current, successor)
		}
		current = successor
	}

	r.endGraphSpan(ctx, graphSpan, state, nil)
	return state, nil
}

func (r *Runnable[S]) endGraphSpan(ctx context.Context, span *TraceSpan, state S, err error) {
	if r.tracer != nil && span != nil {
		r.tracer.EndSpan(ctx, span, state, err)
	}
}

// executeNode runs a single node, notifying listeners and the tracer.
func (r *Runnable[S]) executeNode(ctx context.Context, node Node[S], state S) (result S, err error) {
	var nodeSpan *TraceSpan
	if r.tracer != nil {
		nodeSpan = r.tracer.StartSpan(ctx, TraceEventNodeStart, node.Name)
		nodeSpan.State = state
	}
	r.notify(ctx, NodeEventStart, node.Name, state, nil)

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic in node %s: %v", node.Name, p)
			result = state
		}
		if r.tracer != nil && nodeSpan != nil {
			r.tracer.EndSpan(ctx, nodeSpan, result, err)
		}
		if err != nil {
			r.notify(ctx, NodeEventError, node.Name, state, err)
		} else {
			r.notify(ctx, NodeEventComplete, node.Name, result, nil)
		}
	}()

	return node.Function(ctx, state)
}

// nextNode resolves the successor of a non-terminal node.
func (r *Runnable[S]) nextNode(ctx context.Context, current string, state S) (string, error) {
	if to, ok := r.successors[current]; ok {
		return to, nil
	}
	ce := r.conditionalEdges[current]
	route := ce.Router(ctx, state)
	target, ok := ce.Targets[route]
	if !ok {
		return "", fmt.Errorf("%w: %s returned %s", ErrIncompleteRoutes, current, route)
	}
	return target, nil
}

func (r *Runnable[S]) notify(ctx context.Context, event NodeEvent, nodeName string, state S, err error) {
	for _, l := range r.listeners {
		l.OnNodeEvent(ctx, event, nodeName, state, err)
	}
}
