package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/transpilegraph/store"
	"github.com/smallnest/transpilegraph/store/storetest"
)

var columns = []string{"id", "run_id", "stage", "iteration", "status", "state", "timestamp", "version"}

func newMockStore(t *testing.T) (pgxmock.PgxPoolIface, *PostgresCheckpointStore) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPostgresCheckpointStoreWithPool(mock, "checkpoints")
}

func TestPostgresCheckpointStore_InitSchema(t *testing.T) {
	mock, s := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS checkpoints")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.InitSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCheckpointStore_Save(t *testing.T) {
	mock, s := newMockStore(t)
	cp := storetest.NewCheckpoint("cp-1", "run-a", "validate", 2)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO checkpoints")).
		WithArgs(
			cp.ID,
			cp.RunID,
			cp.Stage,
			cp.Iteration,
			cp.Status,
			[]byte(cp.State),
			cp.Timestamp,
			cp.Version,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.Save(context.Background(), cp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCheckpointStore_Save_Error(t *testing.T) {
	mock, s := newMockStore(t)
	cp := storetest.NewCheckpoint("cp-1", "run-a", "validate", 2)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO checkpoints")).
		WillReturnError(errors.New("connection reset"))

	err := s.Save(context.Background(), cp)
	assert.ErrorContains(t, err, "failed to save checkpoint")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCheckpointStore_Load(t *testing.T) {
	mock, s := newMockStore(t)
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(columns).
		AddRow("cp-1", "run-a", "generate", 1, "INVALID", []byte(`{"code":"x"}`), ts, 1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, run_id, stage, iteration, status, state, timestamp, version FROM checkpoints WHERE id = $1")).
		WithArgs("cp-1").
		WillReturnRows(rows)

	cp, err := s.Load(context.Background(), "cp-1")
	require.NoError(t, err)
	assert.Equal(t, "run-a", cp.RunID)
	assert.Equal(t, "generate", cp.Stage)
	assert.Equal(t, 1, cp.Iteration)
	assert.Equal(t, "INVALID", cp.Status)
	assert.JSONEq(t, `{"code":"x"}`, string(cp.State))
	assert.Equal(t, ts, cp.Timestamp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCheckpointStore_Load_NotFound(t *testing.T) {
	mock, s := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM checkpoints WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCheckpointStore_List(t *testing.T) {
	mock, s := newMockStore(t)
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(columns).
		AddRow("cp-1", "run-a", "generate", 1, "OK", []byte(`{}`), ts, 1).
		AddRow("cp-2", "run-a", "validate", 1, "INVALID", []byte(`{}`), ts.Add(time.Second), 2)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE run_id = $1 ORDER BY version ASC, timestamp ASC")).
		WithArgs("run-a").
		WillReturnRows(rows)

	list, err := s.List(context.Background(), "run-a")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "cp-1", list[0].ID)
	assert.Equal(t, "validate", list[1].Stage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCheckpointStore_DeleteAndClear(t *testing.T) {
	mock, s := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM checkpoints WHERE id = $1")).
		WithArgs("cp-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM checkpoints WHERE run_id = $1")).
		WithArgs("run-a").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	require.NoError(t, s.Delete(context.Background(), "cp-1"))
	require.NoError(t, s.Clear(context.Background(), "run-a"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
