// Package memory is a process-local store.CheckpointStore.
package memory

import (
	"context"
	"sync"

	"github.com/smallnest/transpilegraph/store"
)

// Store keeps checkpoints in a map guarded by a mutex.
type Store struct {
	mu          sync.RWMutex
	checkpoints map[string]*store.Checkpoint
}

var _ store.CheckpointStore = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{checkpoints: make(map[string]*store.Checkpoint)}
}

// Save stores a copy of checkpoint.
func (s *Store) Save(_ context.Context, checkpoint *store.Checkpoint) error {
	cp := *checkpoint
	cp.State = append([]byte(nil), checkpoint.State...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkpoints[cp.ID] = &cp
	return nil
}

// Load returns a copy of the checkpoint with the given ID.
func (s *Store) Load(_ context.Context, checkpointID string) (*store.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp, ok := s.checkpoints[checkpointID]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *cp
	return &out, nil
}

// List returns the checkpoints of runID ordered by Version.
func (s *Store) List(_ context.Context, runID string) ([]*store.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*store.Checkpoint{}
	for _, cp := range s.checkpoints {
		if cp.RunID == runID {
			c := *cp
			out = append(out, &c)
		}
	}
	store.SortByVersion(out)
	return out, nil
}

// Delete removes a checkpoint.
func (s *Store) Delete(_ context.Context, checkpointID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.checkpoints[checkpointID]; !ok {
		return store.ErrNotFound
	}
	delete(s.checkpoints, checkpointID)
	return nil
}

// Clear removes every checkpoint of runID.
func (s *Store) Clear(_ context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, cp := range s.checkpoints {
		if cp.RunID == runID {
			delete(s.checkpoints, id)
		}
	}
	return nil
}
