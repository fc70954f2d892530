package objhash

import (
	"strings"

	"objhash.org/objhash/ohcanon"
	"objhash.org/objhash/ohdigest"
	"objhash.org/objhash/ohvalue"
)

const (
	DefaultAlgorithm = "sha1"
	DefaultEncoding  = ohdigest.Hex
)

// Options is the complete set of parameters for hashing.
// Use DefaultOptions and the Option functions rather than constructing it directly.
type Options struct {
	// Algorithm names the digest.  Either a name known to the Provider, or "passthrough".
	Algorithm string
	// Encoding is the encoding of the output.
	Encoding ohdigest.Encoding

	ExcludeValues             bool
	UnorderedArrays           bool
	RespectFunctionNames      bool
	RespectFunctionProperties bool
	RespectType               bool
	IgnoreUnknownTypes        bool
	Replacer                  func(ohvalue.Value) ohvalue.Value

	// MaxDepth bounds the nesting of the input.
	MaxDepth int
	// Tag is the struct tag key used when converting Go structs.
	Tag string
	// Provider supplies the digest primitives.
	Provider ohdigest.Provider
}

func DefaultOptions() Options {
	return Options{
		Algorithm:            DefaultAlgorithm,
		Encoding:             DefaultEncoding,
		UnorderedArrays:      true,
		RespectFunctionNames: true,
		MaxDepth:             ohcanon.DefaultMaxDepth,
		Tag:                  ohvalue.DefaultTag,
		Provider:             ohdigest.Default,
	}
}

// Option overrides part of the defaults.
type Option func(*Options)

// WithAlgorithm sets the digest algorithm.  Names are case insensitive.
func WithAlgorithm(name string) Option {
	return func(o *Options) { o.Algorithm = name }
}

// WithEncoding sets the output encoding.  Names are case insensitive.
func WithEncoding(enc ohdigest.Encoding) Option {
	return func(o *Options) { o.Encoding = enc }
}

// ExcludeValues hashes only the keys of Maps and Objects.
func ExcludeValues() Option {
	return func(o *Options) { o.ExcludeValues = true }
}

// OrderedArrays makes the order of sequence elements significant.
func OrderedArrays() Option {
	return func(o *Options) { o.UnorderedArrays = false }
}

// IgnoreFunctionNames omits the names of functions.
func IgnoreFunctionNames() Option {
	return func(o *Options) { o.RespectFunctionNames = false }
}

// RespectFunctionProperties includes the properties of functions.
func RespectFunctionProperties() Option {
	return func(o *Options) { o.RespectFunctionProperties = true }
}

// RespectType distinguishes Maps and Objects by their kind and type name.
func RespectType() Option {
	return func(o *Options) { o.RespectType = true }
}

// IgnoreUnknownTypes writes a placeholder for values which cannot be classified,
// instead of failing.
func IgnoreUnknownTypes() Option {
	return func(o *Options) { o.IgnoreUnknownTypes = true }
}

// WithReplacer applies fn to every value before it is hashed.
func WithReplacer(fn func(ohvalue.Value) ohvalue.Value) Option {
	return func(o *Options) { o.Replacer = fn }
}

func WithMaxDepth(n int) Option {
	return func(o *Options) { o.MaxDepth = n }
}

func WithTag(tag string) Option {
	return func(o *Options) { o.Tag = tag }
}

func WithProvider(p ohdigest.Provider) Option {
	return func(o *Options) { o.Provider = p }
}

// normalize applies opts to the defaults, and validates the result.
func normalize(opts ...Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	if o.Encoding == "" {
		o.Encoding = DefaultEncoding
	}
	if o.Provider == nil {
		o.Provider = ohdigest.Default
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = ohcanon.DefaultMaxDepth
	}
	if o.Tag == "" {
		o.Tag = ohvalue.DefaultTag
	}
	o.Algorithm = strings.ToLower(o.Algorithm)
	o.Encoding = ohdigest.Encoding(strings.ToLower(string(o.Encoding)))

	if !ohdigest.Supports(o.Provider, o.Algorithm) {
		return Options{}, ErrUnsupportedAlgorithm{
			Name:      o.Algorithm,
			Supported: append(o.Provider.Algorithms(), ohdigest.Passthrough),
		}
	}
	if o.Algorithm != ohdigest.Passthrough && !o.Encoding.Valid() {
		return Options{}, ErrUnsupportedEncoding{Name: string(o.Encoding)}
	}
	return o, nil
}

func (o *Options) config() ohcanon.Config {
	return ohcanon.Config{
		ExcludeValues:             o.ExcludeValues,
		UnorderedArrays:           o.UnorderedArrays,
		RespectFunctionNames:      o.RespectFunctionNames,
		RespectFunctionProperties: o.RespectFunctionProperties,
		RespectType:               o.RespectType,
		IgnoreUnknownTypes:        o.IgnoreUnknownTypes,
		Replacer:                  o.Replacer,
		MaxDepth:                  o.MaxDepth,
	}
}

func (o *Options) converter() ohvalue.Converter {
	return ohvalue.Converter{Tag: o.Tag, MaxDepth: o.MaxDepth}
}
