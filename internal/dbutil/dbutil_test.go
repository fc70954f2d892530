package dbutil_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"objhash.org/objhash/internal/dbutil"
	"objhash.org/objhash/internal/testutil"
)

func TestDoTx(t *testing.T) {
	t.Parallel()
	ctx := testutil.Context(t)
	db := testutil.NewTestDB(t)
	_, err := db.Exec(`CREATE TABLE t (x INTEGER)`)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = dbutil.DoTx(ctx, db, func(tx *sqlx.Tx) error {
		if _, err := tx.Exec(`INSERT INTO t (x) VALUES (1)`); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := dbutil.DoTx1(ctx, db, func(tx *sqlx.Tx) (int, error) {
		if _, err := tx.Exec(`INSERT INTO t (x) VALUES (2)`); err != nil {
			return 0, err
		}
		var n int
		err := tx.Get(&n, `SELECT count(*) FROM t`)
		return n, err
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
