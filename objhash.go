// package objhash computes deterministic fingerprints of structured values.
//
// A value is first converted into the ohvalue model, then canonicalized into a token stream
// by ohcanon, and the stream is digested by a primitive from ohdigest.
// Two values which are structurally equal, including maps with differently ordered
// insertions and, by default, sequences with differently ordered elements, have the same
// Fingerprint.
package objhash

import (
	"io"

	"objhash.org/objhash/ohcanon"
	"objhash.org/objhash/ohdigest"
	"objhash.org/objhash/ohvalue"
)

// Hash returns the Fingerprint of x.
// x can be any Go value, or an ohvalue.Value.
func Hash(x any, opts ...Option) (Fingerprint, error) {
	h, err := New(opts...)
	if err != nil {
		return Fingerprint{}, err
	}
	return h.Hash(x)
}

// SHA1 hashes x with the defaults.
func SHA1(x any) (Fingerprint, error) {
	return Hash(x)
}

// Keys hashes only the keys of x, ignoring the values of its entries.
func Keys(x any) (Fingerprint, error) {
	return Hash(x, ExcludeValues())
}

// MD5 hashes x using md5 instead of sha1.
func MD5(x any) (Fingerprint, error) {
	return Hash(x, WithAlgorithm("md5"))
}

// KeysMD5 hashes only the keys of x using md5.
func KeysMD5(x any) (Fingerprint, error) {
	return Hash(x, WithAlgorithm("md5"), ExcludeValues())
}

// Canonical returns the canonical stream for x.
// Two values have the same Fingerprint iff they have the same canonical stream.
func Canonical(x any, opts ...Option) (string, error) {
	opts = append(opts[:len(opts):len(opts)], WithAlgorithm(ohdigest.Passthrough))
	fp, err := Hash(x, opts...)
	if err != nil {
		return "", err
	}
	return string(fp.Data), nil
}

// WriteCanonical writes the canonical stream for x to w.
// The algorithm is validated, but not used.
func WriteCanonical(w io.Writer, x any, opts ...Option) error {
	h, err := New(opts...)
	if err != nil {
		return err
	}
	return h.WriteCanonical(w, x)
}

// Hasher computes Fingerprints using a fixed set of Options.
// It is safe for concurrent use, provided the Replacer is.
type Hasher struct {
	opts Options
	cfg  ohcanon.Config
	conv ohvalue.Converter
}

// New validates opts and returns a Hasher.
func New(opts ...Option) (*Hasher, error) {
	o, err := normalize(opts...)
	if err != nil {
		return nil, err
	}
	return &Hasher{
		opts: o,
		cfg:  o.config(),
		conv: o.converter(),
	}, nil
}

// Options returns the normalized Options.
func (h *Hasher) Options() Options {
	return h.opts
}

func (h *Hasher) Hash(x any) (Fingerprint, error) {
	v, err := h.value(x)
	if err != nil {
		return Fingerprint{}, err
	}
	sink, err := ohdigest.NewSink(h.opts.Provider, h.opts.Algorithm)
	if err != nil {
		return Fingerprint{}, err
	}
	if err := ohcanon.Encode(&h.cfg, sink, v); err != nil {
		return Fingerprint{}, err
	}
	data, err := sink.Finalize(h.opts.Encoding)
	if err != nil {
		return Fingerprint{}, err
	}
	return Fingerprint{
		Algorithm: h.opts.Algorithm,
		Encoding:  h.opts.Encoding,
		Data:      data,
	}, nil
}

func (h *Hasher) WriteCanonical(w io.Writer, x any) error {
	v, err := h.value(x)
	if err != nil {
		return err
	}
	return ohcanon.Encode(&h.cfg, ohdigest.NewWriterSink(w), v)
}

func (h *Hasher) value(x any) (ohvalue.Value, error) {
	if x == (ohvalue.Undefined{}) {
		return nil, ErrMissingArgument
	}
	v, err := h.conv.From(x)
	if err != nil {
		return nil, convertErr(err)
	}
	return v, nil
}
