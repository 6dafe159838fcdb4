// Package file stores checkpoints as JSON files in a directory.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/smallnest/transpilegraph/store"
)

const ext = ".json"

// Store writes one file per checkpoint under Dir, named after the checkpoint ID.
type Store struct {
	Dir string
}

var _ store.CheckpointStore = (*Store)(nil)

// New creates the directory if needed and returns a Store over it.
func New(dir string) (*Store, error) {
	if dir == "" {
		dir = filepath.Join(".transpile", "checkpoints")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint directory: %w", err)
	}
	return &Store{Dir: dir}, nil
}

func (s *Store) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid checkpoint id %q", id)
	}
	return filepath.Join(s.Dir, id+ext), nil
}

// Save writes the checkpoint to a temp file, syncs it and renames it into place.
func (s *Store) Save(_ context.Context, checkpoint *store.Checkpoint) error {
	dest, err := s.path(checkpoint.ID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(checkpoint, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, "tmp-"+checkpoint.ID+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to rename checkpoint file: %w", err)
	}
	return nil
}

// Load reads a checkpoint by ID.
func (s *Store) Load(_ context.Context, checkpointID string) (*store.Checkpoint, error) {
	p, err := s.path(checkpointID)
	if err != nil {
		return nil, err
	}
	return readCheckpoint(p)
}

func readCheckpoint(p string) (*store.Checkpoint, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read checkpoint file: %w", err)
	}

	var cp store.Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkpoint %s: %w", filepath.Base(p), err)
	}
	return &cp, nil
}

// List scans the directory for checkpoints of runID.
func (s *Store) List(_ context.Context, runID string) ([]*store.Checkpoint, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*store.Checkpoint{}, nil
		}
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}

	out := []*store.Checkpoint{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ext || strings.HasPrefix(name, "tmp-") {
			continue
		}
		cp, err := readCheckpoint(filepath.Join(s.Dir, name))
		if err != nil {
			return nil, err
		}
		if cp.RunID == runID {
			out = append(out, cp)
		}
	}
	store.SortByVersion(out)
	return out, nil
}

// Delete removes the checkpoint file.
func (s *Store) Delete(_ context.Context, checkpointID string) error {
	p, err := s.path(checkpointID)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return store.ErrNotFound
		}
		return fmt.Errorf("failed to delete checkpoint file: %w", err)
	}
	return nil
}

// Clear removes every checkpoint file of runID.
func (s *Store) Clear(ctx context.Context, runID string) error {
	cps, err := s.List(ctx, runID)
	if err != nil {
		return err
	}
	for _, cp := range cps {
		if err := s.Delete(ctx, cp.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	return nil
}
