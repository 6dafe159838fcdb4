package transpile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smallnest/transpilegraph/artifact"
	"github.com/smallnest/transpilegraph/graph"
	"github.com/smallnest/transpilegraph/log"
	"github.com/smallnest/transpilegraph/store"
)

// CheckpointListener saves the state after every completed stage of run runID.
// Checkpoints are numbered from 1 in stage order. A failed save is logged and
// does not stop the run.
func CheckpointListener(s store.CheckpointStore, runID string, logger log.Logger) graph.NodeListener[State] {
	version := 0
	return graph.NodeListenerFunc[State](func(ctx context.Context, event graph.NodeEvent, node string, state State, _ error) {
		if event != graph.NodeEventComplete {
			return
		}
		version++

		data, err := json.Marshal(state)
		if err != nil {
			logger.Warn("run %s: encode checkpoint after %s: %v", runID, node, err)
			return
		}
		cp := &store.Checkpoint{
			ID:        uuid.NewString(),
			RunID:     runID,
			Stage:     node,
			Iteration: state.Iterations(),
			Status:    state.Validation().Status.String(),
			State:     data,
			Timestamp: time.Now(),
			Version:   version,
		}
		if err := s.Save(ctx, cp); err != nil {
			logger.Warn("run %s: save checkpoint after %s: %v", runID, node, err)
		}
	})
}

// CandidateRecorder writes the candidate to path every time a stage completes.
// Attached to the validate stage it keeps the latest candidate on disk,
// including ones that were rejected.
func CandidateRecorder(w artifact.Writer, path string, logger log.Logger) graph.NodeListener[State] {
	return graph.NodeListenerFunc[State](func(ctx context.Context, event graph.NodeEvent, node string, state State, _ error) {
		if event != graph.NodeEventComplete {
			return
		}
		if err := w.Write(ctx, path, state.Code()); err != nil {
			logger.Warn("record candidate %d: %v", state.Iterations(), err)
			return
		}
		logger.Debug("recorded candidate %d (%s) to %s", state.Iterations(), state.Validation().Status, path)
	})
}

// LoadState restores the state of the latest checkpoint of runID.
func LoadState(ctx context.Context, s store.CheckpointStore, runID string) (State, *store.Checkpoint, error) {
	cp, err := store.Latest(ctx, s, runID)
	if err != nil {
		return State{}, nil, err
	}
	var state State
	if err := json.Unmarshal(cp.State, &state); err != nil {
		return State{}, cp, fmt.Errorf("decode checkpoint %s: %w", cp.ID, err)
	}
	return state, cp, nil
}
