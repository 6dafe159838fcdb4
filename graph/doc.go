// Package graph provides the graph construction and execution engine used by the
// transpilation workflow.
//
// A StateGraph holds named nodes, fixed edges and conditional edges over a single
// state type S. Compiling the graph checks the wiring once; the resulting Runnable
// then threads one state value through the nodes, strictly one node at a time.
//
// # Nodes and Edges
//
// A node is a NodeFunc[S]: it receives the state returned by the previous node and
// returns a complete replacement, or an error that aborts the run. Configuration
// that a node needs is captured when the function is built, never read from the
// state.
//
// Each node has at most one way out:
//
//   - a fixed edge (AddEdge), possibly to END;
//   - a conditional edge (AddConditionalEdge), whose RouterFunc returns a Route
//     that is mapped to a successor given at construction time;
//   - nothing, in which case the node is terminal.
//
// # Termination
//
// Cycles are allowed. The executor has no step limit and never retries a node:
// a cyclic graph terminates only because its router eventually picks a
// terminating branch.
//
// # Example Usage
//
//	g := graph.NewStateGraph[Counter]()
//	g.AddNode("inc", "Increment", func(ctx context.Context, c Counter) (Counter, error) {
//		c.N++
//		return c, nil
//	})
//	g.SetEntryPoint("inc")
//	g.AddConditionalEdge("inc", func(ctx context.Context, c Counter) graph.Route {
//		if c.N >= 3 {
//			return graph.RouteTerminate
//		}
//		return graph.RouteContinue
//	}, map[graph.Route]string{
//		graph.RouteContinue:  "inc",
//		graph.RouteTerminate: graph.END,
//	})
//
//	app, err := g.Compile()
//	if err != nil {
//		return err
//	}
//	final, err := app.Invoke(ctx, Counter{})
//
// # Observability
//
// A Runnable accepts NodeListener[S] values, notified before and after every node,
// and an optional Tracer that records graph, node and edge spans. Exporter renders
// a graph as Mermaid or DOT.
package graph
