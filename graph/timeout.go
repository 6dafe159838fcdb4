package graph

import (
	"context"
	"fmt"
	"time"
)

// WithTimeout wraps fn so that it fails with ErrNodeTimeout when it does not
// return within timeout. The wrapped function receives a context carrying the
// deadline; a function that ignores it keeps running in the background, and its
// late result is discarded.
//
// A non-positive timeout returns fn unchanged.
func WithTimeout[S any](fn NodeFunc[S], timeout time.Duration) NodeFunc[S] {
	if timeout <= 0 {
		return fn
	}
	return func(ctx context.Context, state S) (S, error) {
		timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		type result struct {
			value S
			err   error
		}
		resultChan := make(chan result, 1)

		go func() {
			defer func() {
				if p := recover(); p != nil {
					resultChan <- result{value: state, err: fmt.Errorf("panic: %v", p)}
				}
			}()
			value, err := fn(timeoutCtx, state)
			resultChan <- result{value: value, err: err}
		}()

		select {
		case res := <-resultChan:
			return res.value, res.err
		case <-timeoutCtx.Done():
			if ctx.Err() != nil {
				return state, ctx.Err()
			}
			return state, fmt.Errorf("%w after %v", ErrNodeTimeout, timeout)
		}
	}
}

// AddNodeWithTimeout adds a node whose function is wrapped with WithTimeout.
func (g *StateGraph[S]) AddNodeWithTimeout(name string, description string, fn NodeFunc[S], timeout time.Duration) {
	g.AddNode(name, description, WithTimeout(fn, timeout))
}
