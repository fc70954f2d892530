package migrations

import (
	"testing"

	"github.com/stretchr/testify/require"

	"objhash.org/objhash/internal/testutil"
)

func TestMigrate(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	db := testutil.NewTestDB(t)

	v1 := InitialState().ApplyStmt(`CREATE TABLE a (x INTEGER)`)
	require.NoError(t, Migrate(ctx, db, v1))
	// idempotent
	require.NoError(t, Migrate(ctx, db, v1))

	v2 := v1.ApplyStmt(`CREATE TABLE b (y INTEGER)`)
	require.NoError(t, Migrate(ctx, db, v2))
	var version int
	require.NoError(t, db.Get(&version, `PRAGMA user_version`))
	require.Equal(t, 2, version)
	_, err := db.Exec(`INSERT INTO b (y) VALUES (1)`)
	require.NoError(t, err)

	require.Error(t, Migrate(ctx, db, v1))
}
