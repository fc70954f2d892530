package ohindex

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.brendoncarroll.net/tai64"

	"objhash.org/objhash/internal/dbutil"
	"objhash.org/objhash/internal/migrations"
)

// Migration adds the tables used by SQL to a schema.
func Migration(x *migrations.State) *migrations.State {
	return x.ApplyStmt(`CREATE TABLE fingerprints (
		key TEXT NOT NULL,
		name TEXT NOT NULL,
		added_sec INTEGER NOT NULL,
		added_nsec INTEGER NOT NULL,

		PRIMARY KEY(key)
	) WITHOUT ROWID, STRICT;`)
}

var currentSchema = Migration(migrations.InitialState())

// SetupDB brings the schema of db up to date.
func SetupDB(ctx context.Context, db *sqlx.DB) error {
	return migrations.Migrate(ctx, db, currentSchema)
}

// OpenDB opens the database at p and sets it up.
func OpenDB(ctx context.Context, p string) (*sqlx.DB, error) {
	db, err := dbutil.Open(p)
	if err != nil {
		return nil, err
	}
	if err := SetupDB(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

var _ Index = &SQL{}

// SQL is an Index stored in a SQL database.
// The database must have been set up with SetupDB.
type SQL struct {
	db *sqlx.DB
}

func NewSQL(db *sqlx.DB) *SQL {
	return &SQL{db: db}
}

type entryRow struct {
	Key       string `db:"key"`
	Name      string `db:"name"`
	AddedSec  int64  `db:"added_sec"`
	AddedNsec int64  `db:"added_nsec"`
}

func (r entryRow) entry() Entry {
	return Entry{
		Key:  r.Key,
		Name: r.Name,
		Added: tai64.TAI64N{
			Seconds:     uint64(r.AddedSec),
			Nanoseconds: uint32(r.AddedNsec),
		},
	}
}

func (s *SQL) Put(ctx context.Context, e Entry) (bool, error) {
	return dbutil.DoTx1(ctx, s.db, func(tx *sqlx.Tx) (bool, error) {
		res, err := tx.ExecContext(ctx, `INSERT INTO fingerprints (key, name, added_sec, added_nsec)
			VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING`,
			e.Key, e.Name, int64(e.Added.Seconds), int64(e.Added.Nanoseconds))
		if err != nil {
			return false, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return false, err
		}
		return n > 0, nil
	})
}

func (s *SQL) Get(ctx context.Context, key string) (Entry, error) {
	var row entryRow
	if err := s.db.GetContext(ctx, &row, `SELECT key, name, added_sec, added_nsec
		FROM fingerprints WHERE key = ?`, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound{Key: key}
		}
		return Entry{}, err
	}
	return row.entry(), nil
}

func (s *SQL) List(ctx context.Context, fn func(Entry) error) error {
	var rows []entryRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT key, name, added_sec, added_nsec
		FROM fingerprints ORDER BY key`); err != nil {
		return err
	}
	for _, row := range rows {
		if err := fn(row.entry()); err != nil {
			return err
		}
	}
	return nil
}
