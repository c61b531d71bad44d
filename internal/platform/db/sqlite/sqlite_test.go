package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen_InMemoryCreatesSchema(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var name string
	err = db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'employees'`).Scan(&name)
	require.NoError(t, err)
	require.Equal(t, "employees", name)

	require.NoError(t, Migrate(ctx, db), "migrate must be idempotent")
}
