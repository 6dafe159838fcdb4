// Package sqlite is a store.CheckpointStore backed by github.com/mattn/go-sqlite3.
//
// The schema is created when the store is opened. The driver needs cgo.
//
//	s, err := sqlite.NewSqliteCheckpointStore(sqlite.SqliteOptions{
//		Path: "./runs.db",
//	})
//	if err != nil {
//		return err
//	}
//	defer s.Close()
package sqlite
