package ohindex

import (
	"context"
	"strings"
	"sync"

	"go.brendoncarroll.net/state"
	"go.brendoncarroll.net/state/kv"
)

var _ Index = &Mem{}

// Mem is an Index held in memory.
type Mem struct {
	mu sync.Mutex
	kv *kv.MemStore[string, Entry]
}

func NewMem() *Mem {
	return &Mem{
		kv: kv.NewMemStore[string, Entry](strings.Compare),
	}
}

func (s *Mem) Put(ctx context.Context, e Entry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exists, err := s.kv.Exists(ctx, e.Key)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := s.kv.Put(ctx, e.Key, e); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Mem) Get(ctx context.Context, key string) (Entry, error) {
	e, err := kv.Get(ctx, s.kv, key)
	if err != nil {
		if state.IsErrNotFound[string](err) {
			return Entry{}, ErrNotFound{Key: key}
		}
		return Entry{}, err
	}
	return e, nil
}

func (s *Mem) List(ctx context.Context, fn func(Entry) error) error {
	var keys []string
	if err := kv.ForEach(ctx, s.kv, state.TotalSpan[string](), func(k string) error {
		keys = append(keys, k)
		return nil
	}); err != nil {
		return err
	}
	for _, k := range keys {
		e, err := s.Get(ctx, k)
		if err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

func (s *Mem) Len() int {
	return s.kv.Len()
}
