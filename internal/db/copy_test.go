package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return mock
}

func TestCopyFrom(t *testing.T) {
	mock := newMockPool(t)

	columns := []string{"run_id", "number", "risk"}
	mock.ExpectCopyFrom(pgx.Identifier{"bridge_assessments"}, columns).WillReturnResult(2)

	n, err := CopyFrom(context.Background(), mock, "bridge_assessments", columns, [][]any{
		{"run-1", 1193, 33.0},
		{"run-1", 77, 88.0},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_EmptyIsNoop(t *testing.T) {
	mock := newMockPool(t)

	n, err := CopyFrom(context.Background(), mock, "wall_assessments", []string{"run_id"}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
