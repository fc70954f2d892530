// package migrations builds a schema as a chain of statements, and brings databases up to date.
// The position in the chain is stored in the user_version of the database.
package migrations

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"objhash.org/objhash/internal/dbutil"
)

// State is a schema: the result of applying a sequence of statements to an empty database.
type State struct {
	prev    *State
	stmt    string
	version int
}

func InitialState() *State {
	return &State{}
}

// ApplyStmt returns the State after stmt has been applied to x.
func (x *State) ApplyStmt(stmt string) *State {
	return &State{prev: x, stmt: stmt, version: x.version + 1}
}

func (x *State) Version() int {
	return x.version
}

// stmts returns the statements needed to go from version from to x
func (x *State) stmts(from int) []string {
	var ret []string
	for s := x; s != nil && s.version > from; s = s.prev {
		ret = append(ret, s.stmt)
	}
	for i, j := 0, len(ret)-1; i < j; i, j = i+1, j-1 {
		ret[i], ret[j] = ret[j], ret[i]
	}
	return ret
}

// Migrate applies any statements in target which have not yet been applied to db.
func Migrate(ctx context.Context, db *sqlx.DB, target *State) error {
	return dbutil.DoTx(ctx, db, func(tx *sqlx.Tx) error {
		var current int
		if err := tx.GetContext(ctx, &current, `PRAGMA user_version`); err != nil {
			return err
		}
		if current > target.version {
			return fmt.Errorf("database schema version %d is newer than %d", current, target.version)
		}
		for i, stmt := range target.stmts(current) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migration %d: %w", current+i+1, err)
			}
		}
		_, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, target.version))
		return err
	})
}
