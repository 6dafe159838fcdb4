package store

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"
)

// ErrNotFound is returned by Load and Delete for an unknown checkpoint ID.
var ErrNotFound = errors.New("checkpoint not found")

// Checkpoint is a snapshot of a workflow run taken after a stage completed.
type Checkpoint struct {
	ID        string          `json:"id"`
	RunID     string          `json:"run_id"`
	Stage     string          `json:"stage"`
	Iteration int             `json:"iteration"`
	Status    string          `json:"status"`
	State     json.RawMessage `json:"state"`
	Timestamp time.Time       `json:"timestamp"`
	// Version is the 1-based position of the checkpoint within its run.
	Version int `json:"version"`
}

// CheckpointStore defines the interface for checkpoint persistence
type CheckpointStore interface {
	// Save stores a checkpoint, replacing one with the same ID.
	Save(ctx context.Context, checkpoint *Checkpoint) error

	// Load retrieves a checkpoint by ID
	Load(ctx context.Context, checkpointID string) (*Checkpoint, error)

	// List returns the checkpoints of a run ordered by Version.
	List(ctx context.Context, runID string) ([]*Checkpoint, error)

	// Delete removes a checkpoint
	Delete(ctx context.Context, checkpointID string) error

	// Clear removes all checkpoints of a run
	Clear(ctx context.Context, runID string) error
}

// SortByVersion orders checkpoints by Version, then Timestamp.
func SortByVersion(cps []*Checkpoint) {
	sort.SliceStable(cps, func(i, j int) bool {
		if cps[i].Version != cps[j].Version {
			return cps[i].Version < cps[j].Version
		}
		return cps[i].Timestamp.Before(cps[j].Timestamp)
	})
}

// Latest returns the most recent checkpoint of a run.
func Latest(ctx context.Context, s CheckpointStore, runID string) (*Checkpoint, error) {
	cps, err := s.List(ctx, runID)
	if err != nil {
		return nil, err
	}
	if len(cps) == 0 {
		return nil, ErrNotFound
	}
	return cps[len(cps)-1], nil
}
