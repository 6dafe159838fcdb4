package graph

import (
	"context"
)

// NodeEvent represents different types of node events
type NodeEvent string

const (
	// NodeEventStart indicates a node has started execution
	NodeEventStart NodeEvent = "start"

	// NodeEventComplete indicates a node has completed successfully
	NodeEventComplete NodeEvent = "complete"

	// NodeEventError indicates a node encountered an error
	NodeEventError NodeEvent = "error"
)

// NodeListener defines the interface for node event listeners.
// Listeners run synchronously on the run's goroutine and must not modify state.
type NodeListener[S any] interface {
	// OnNodeEvent is called when a node event occurs
	OnNodeEvent(ctx context.Context, event NodeEvent, nodeName string, state S, err error)
}

// NodeListenerFunc is a function adapter for NodeListener
type NodeListenerFunc[S any] func(ctx context.Context, event NodeEvent, nodeName string, state S, err error)

// OnNodeEvent implements the NodeListener interface
func (f NodeListenerFunc[S]) OnNodeEvent(ctx context.Context, event NodeEvent, nodeName string, state S, err error) {
	f(ctx, event, nodeName, state, err)
}

// OnNode returns a listener that only forwards events of the named node.
func OnNode[S any](nodeName string, listener NodeListener[S]) NodeListener[S] {
	return NodeListenerFunc[S](func(ctx context.Context, event NodeEvent, name string, state S, err error) {
		if name == nodeName {
			listener.OnNodeEvent(ctx, event, name, state, err)
		}
	})
}
