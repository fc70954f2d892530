// package ohdecode decodes serialized documents into Values, so they can be hashed.
//
// Each format is decoded with the fidelity the format allows: numbers keep their exact
// text, timestamps become Dates, and binary strings become Buffers.
package ohdecode

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"objhash.org/objhash/ohvalue"
)

// Format is a serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
	FormatTOML Format = "toml"
)

// Decoder decodes a single document.
type Decoder = func(r io.Reader) (ohvalue.Value, error)

var decoders = map[Format]Decoder{
	FormatJSON: JSON,
	FormatYAML: YAML,
	FormatCBOR: CBOR,
	FormatTOML: TOML,
}

var extensions = map[string]Format{
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".cbor": FormatCBOR,
	".toml": FormatTOML,
}

// Formats returns all the supported formats.
func Formats() []Format {
	ret := make([]Format, 0, len(decoders))
	for f := range decoders {
		ret = append(ret, f)
	}
	slices.Sort(ret)
	return ret
}

// ParseFormat parses a format name.  Names are case insensitive.
func ParseFormat(x string) (Format, error) {
	f := Format(strings.ToLower(x))
	if _, exists := decoders[f]; !exists {
		return "", ErrUnknownFormat{Name: x}
	}
	return f, nil
}

// ByExtension picks a format from the extension of a path.
func ByExtension(p string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(p))
	f, exists := extensions[ext]
	if !exists {
		return "", ErrUnknownFormat{Name: ext}
	}
	return f, nil
}

// Decode decodes a document in format f.
func Decode(f Format, r io.Reader) (ohvalue.Value, error) {
	dec, exists := decoders[f]
	if !exists {
		return nil, ErrUnknownFormat{Name: string(f)}
	}
	return dec(r)
}

// DecodeFile decodes the file at p.  If f is empty, the format is chosen by extension.
func DecodeFile(p string, f Format) (ohvalue.Value, error) {
	if f == "" {
		var err error
		if f, err = ByExtension(p); err != nil {
			return nil, err
		}
	}
	file, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	v, err := Decode(f, file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s as %s: %w", p, f, err)
	}
	return v, nil
}

type ErrUnknownFormat struct {
	Name string
}

func (e ErrUnknownFormat) Error() string {
	return fmt.Sprintf("unknown format %q. Supported values: %v", e.Name, Formats())
}
