package ohdigest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"slices"
	"strings"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/md4"
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"
)

// Provider supplies digest primitives by name.
type Provider interface {
	// Algorithms lists the names New will accept.
	Algorithms() []string
	// New returns a fresh accumulator for the named algorithm.
	New(name string) (hash.Hash, error)
}

// NewSink returns a Sink for the named algorithm.
// Passthrough is always available, regardless of the Provider.
func NewSink(p Provider, name string) (Sink, error) {
	name = strings.ToLower(name)
	if name == Passthrough {
		return NewPassthrough(), nil
	}
	h, err := p.New(name)
	if err != nil {
		return nil, err
	}
	return NewHashSink(name, h), nil
}

// Supports returns true if the algorithm can be used with p.
func Supports(p Provider, name string) bool {
	name = strings.ToLower(name)
	return name == Passthrough || slices.Contains(p.Algorithms(), name)
}

var _ Provider = &Registry{}

// Registry is a Provider backed by a table of constructors.
// It is safe for concurrent use.  The zero value is an empty Registry.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]func() hash.Hash
}

func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]func() hash.Hash)}
}

// Register adds an algorithm, replacing any existing algorithm with the same name.
// Names are case insensitive.
func (r *Registry) Register(name string, fn func() hash.Hash) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ctors == nil {
		r.ctors = make(map[string]func() hash.Hash)
	}
	r.ctors[strings.ToLower(name)] = fn
}

func (r *Registry) Algorithms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ret := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		ret = append(ret, name)
	}
	slices.Sort(ret)
	return ret
}

func (r *Registry) New(name string) (hash.Hash, error) {
	r.mu.RLock()
	fn, exists := r.ctors[strings.ToLower(name)]
	r.mu.RUnlock()
	if !exists {
		return nil, ErrUnsupportedAlgorithm{
			Name:      name,
			Supported: append(r.Algorithms(), Passthrough),
		}
	}
	return fn(), nil
}

// Default is the Provider used when no other is configured.
var Default = newDefault()

func newDefault() *Registry {
	r := NewRegistry()
	r.Register("md4", md4.New)
	r.Register("md5", md5.New)
	r.Register("ripemd160", ripemd160.New)

	r.Register("sha1", sha1.New)
	r.Register("sha224", sha256.New224)
	r.Register("sha256", sha256.New)
	r.Register("sha384", sha512.New384)
	r.Register("sha512", sha512.New)
	r.Register("sha512-224", sha512.New512_224)
	r.Register("sha512-256", sha512.New512_256)

	r.Register("sha3-224", sha3.New224)
	r.Register("sha3-256", sha3.New256)
	r.Register("sha3-384", sha3.New384)
	r.Register("sha3-512", sha3.New512)

	r.Register("blake2b256", keyless(blake2b.New256))
	r.Register("blake2b384", keyless(blake2b.New384))
	r.Register("blake2b512", keyless(blake2b.New512))
	r.Register("blake2s256", keyless(blake2s.New256))

	r.Register("blake3", func() hash.Hash {
		return blake3.New(32, nil)
	})
	return r
}

// keyless adapts the constructors which accept an optional key.
func keyless(fn func(key []byte) (hash.Hash, error)) func() hash.Hash {
	return func() hash.Hash {
		h, err := fn(nil)
		if err != nil {
			// only returned for oversized keys
			panic(err)
		}
		return h
	}
}
