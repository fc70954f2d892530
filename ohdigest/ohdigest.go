// package ohdigest provides Sinks: the incremental accumulators which consume a canonical
// token stream and produce a digest.
//
// The digest primitives themselves are not implemented here.
// They are looked up by name from a Provider.
package ohdigest

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strings"
	"unicode/utf8"

	"go.brendoncarroll.net/exp/slices2"
)

// Passthrough is the name of the algorithm which does not digest at all.
// Its output is the canonical stream itself.
const Passthrough = "passthrough"

// Encoding is an output encoding for a digest.
type Encoding string

const (
	// Buffer is the raw digest bytes
	Buffer Encoding = "buffer"
	// Hex is lower case hexadecimal text
	Hex Encoding = "hex"
	// Binary is latin-1 text: each byte of the digest becomes one character.
	Binary Encoding = "binary"
	// Base64 is standard, padded base64 text
	Base64 Encoding = "base64"
)

// Encodings returns the recognized encodings.
func Encodings() []Encoding {
	return []Encoding{Buffer, Hex, Binary, Base64}
}

func (e Encoding) Valid() bool {
	switch e {
	case Buffer, Hex, Binary, Base64:
		return true
	default:
		return false
	}
}

// Encode encodes a digest.
func Encode(enc Encoding, sum []byte) ([]byte, error) {
	switch enc {
	case Buffer:
		return sum, nil
	case Hex:
		return hex.AppendEncode(nil, sum), nil
	case Binary:
		out := make([]byte, 0, len(sum)*2)
		for _, b := range sum {
			out = utf8.AppendRune(out, rune(b))
		}
		return out, nil
	case Base64:
		return base64.StdEncoding.AppendEncode(nil, sum), nil
	default:
		return nil, ErrUnsupportedEncoding{Name: string(enc)}
	}
}

// Sink accumulates a canonical stream.
type Sink interface {
	io.Writer
	io.StringWriter
	// Finalize closes the accumulator and returns the digest in the requested Encoding.
	Finalize(enc Encoding) ([]byte, error)
}

var (
	_ Sink = &HashSink{}
	_ Sink = &PassthroughSink{}
	_ Sink = &WriterSink{}
)

// HashSink is a Sink which delegates to a digest primitive.
type HashSink struct {
	name string
	h    hash.Hash
	done bool
}

func NewHashSink(name string, h hash.Hash) *HashSink {
	return &HashSink{name: name, h: h}
}

// Algorithm returns the name the primitive was created with.
func (s *HashSink) Algorithm() string {
	return s.name
}

func (s *HashSink) Write(p []byte) (int, error) {
	if s.done {
		return 0, fmt.Errorf("write to finalized %s sink", s.name)
	}
	return s.h.Write(p)
}

func (s *HashSink) WriteString(x string) (int, error) {
	if s.done {
		return 0, fmt.Errorf("write to finalized %s sink", s.name)
	}
	if sw, ok := s.h.(io.StringWriter); ok {
		return sw.WriteString(x)
	}
	return s.h.Write([]byte(x))
}

func (s *HashSink) Finalize(enc Encoding) ([]byte, error) {
	if !enc.Valid() {
		return nil, ErrUnsupportedEncoding{Name: string(enc)}
	}
	s.done = true
	return Encode(enc, s.h.Sum(nil))
}

// PassthroughSink concatenates everything written to it.
// Finalize returns the concatenation, ignoring the requested encoding.
type PassthroughSink struct {
	sb strings.Builder
}

func NewPassthrough() *PassthroughSink {
	return &PassthroughSink{}
}

func (s *PassthroughSink) Write(p []byte) (int, error) {
	return s.sb.Write(p)
}

func (s *PassthroughSink) WriteString(x string) (int, error) {
	return s.sb.WriteString(x)
}

func (s *PassthroughSink) Finalize(Encoding) ([]byte, error) {
	return []byte(s.sb.String()), nil
}

// String returns everything written so far
func (s *PassthroughSink) String() string {
	return s.sb.String()
}

// WriterSink forwards everything written to it to an io.Writer.
// Finalize returns nothing.
type WriterSink struct {
	w io.Writer
	n int64
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	s.n += int64(n)
	return n, err
}

func (s *WriterSink) WriteString(x string) (int, error) {
	n, err := io.WriteString(s.w, x)
	s.n += int64(n)
	return n, err
}

func (s *WriterSink) Finalize(Encoding) ([]byte, error) {
	return nil, nil
}

// Count returns the number of bytes forwarded
func (s *WriterSink) Count() int64 {
	return s.n
}

type ErrUnsupportedEncoding struct {
	Name string
}

func (e ErrUnsupportedEncoding) Error() string {
	names := slices2.Map(Encodings(), func(x Encoding) string { return string(x) })
	return fmt.Sprintf("encoding %q not supported. Supported values: %s", e.Name, strings.Join(names, ", "))
}

type ErrUnsupportedAlgorithm struct {
	Name      string
	Supported []string
}

func (e ErrUnsupportedAlgorithm) Error() string {
	return fmt.Sprintf("algorithm %q not supported. Supported values: %s", e.Name, strings.Join(e.Supported, ", "))
}
