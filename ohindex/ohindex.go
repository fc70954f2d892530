// package ohindex records which fingerprints have been seen, for deduplicating documents.
package ohindex

import (
	"context"
	"errors"
	"fmt"

	"go.brendoncarroll.net/stdctx/logctx"
	"go.brendoncarroll.net/tai64"
	"go.uber.org/zap"

	"objhash.org/objhash"
)

// Entry records the first time a fingerprint was added.
type Entry struct {
	// Key is the fingerprint key, as returned by objhash.Fingerprint.Key
	Key string
	// Name identifies the document, usually a path.
	Name string
	// Added is when the entry was created.
	Added tai64.TAI64N
}

// NewEntry creates an Entry for fp, added now.
func NewEntry(fp objhash.Fingerprint, name string) (Entry, error) {
	key, err := fp.Key()
	if err != nil {
		return Entry{}, err
	}
	return Entry{Key: key, Name: name, Added: tai64.Now()}, nil
}

// Fingerprint parses the Key.
func (e Entry) Fingerprint() (objhash.Fingerprint, error) {
	return objhash.ParseKey(e.Key)
}

type Index interface {
	// Put adds e, unless an entry with the same key already exists.
	// It returns true if e was added.
	Put(ctx context.Context, e Entry) (bool, error)
	// Get returns the entry for key, or ErrNotFound.
	Get(ctx context.Context, key string) (Entry, error)
	// List calls fn for every entry, in key order.
	List(ctx context.Context, fn func(Entry) error) error
}

// Lookup returns the Entry for fp.
func Lookup(ctx context.Context, idx Index, fp objhash.Fingerprint) (Entry, error) {
	key, err := fp.Key()
	if err != nil {
		return Entry{}, err
	}
	return idx.Get(ctx, key)
}

// Add hashes x with h and puts the result in idx.
// It returns the entry now stored in idx, and true if x had not been seen before.
func Add(ctx context.Context, idx Index, h *objhash.Hasher, name string, x any) (Entry, bool, error) {
	fp, err := h.Hash(x)
	if err != nil {
		return Entry{}, false, fmt.Errorf("hashing %s: %w", name, err)
	}
	e, err := NewEntry(fp, name)
	if err != nil {
		return Entry{}, false, err
	}
	added, err := idx.Put(ctx, e)
	if err != nil {
		return Entry{}, false, err
	}
	if !added {
		prev, err := idx.Get(ctx, e.Key)
		if err != nil {
			return Entry{}, false, err
		}
		logctx.Debug(ctx, "duplicate", zap.String("name", name), zap.String("first", prev.Name), zap.String("key", e.Key))
		return prev, false, nil
	}
	return e, true, nil
}

type ErrNotFound struct {
	Key string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("fingerprint %s not found", e.Key)
}

func IsErrNotFound(err error) bool {
	return errors.As(err, &ErrNotFound{})
}
