// Package store persists workflow run history as checkpoints.
//
// A Checkpoint is written after every completed stage of a run. It records the
// stage name, the generation count and validation status at that point, and the
// full workflow state as JSON, so a run can be inspected after the fact.
//
// Backends live in subpackages and all implement CheckpointStore:
//
//   - store/memory: process-local, for tests and single-shot CLI runs
//   - store/file: one JSON file per checkpoint, written atomically
//   - store/redis: github.com/redis/go-redis/v9, with a per-run index set
//   - store/sqlite: github.com/mattn/go-sqlite3 (requires cgo)
//   - store/postgres: github.com/jackc/pgx/v5 connection pool
//
// The storetest subpackage holds the behaviour every backend must share.
package store
