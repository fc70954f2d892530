package objhash

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	"objhash.org/objhash/ohdigest"
)

// Fingerprint is the result of hashing a value.
type Fingerprint struct {
	Algorithm string
	Encoding  ohdigest.Encoding
	// Data is the encoded digest.  For passthrough it is the canonical stream.
	Data []byte
}

// String returns the digest as text.  Raw digests are shown as hex.
func (fp Fingerprint) String() string {
	if fp.Algorithm != ohdigest.Passthrough && fp.Encoding == ohdigest.Buffer {
		return hex.EncodeToString(fp.Data)
	}
	return string(fp.Data)
}

func (fp Fingerprint) IsZero() bool {
	return fp.Algorithm == "" && len(fp.Data) == 0
}

// Equal returns true if both Fingerprints have the same algorithm and digest.
// Fingerprints which differ only in their encoding are equal.
func (fp Fingerprint) Equal(other Fingerprint) bool {
	if fp.Algorithm != other.Algorithm {
		return false
	}
	if fp.Encoding == other.Encoding {
		return bytes.Equal(fp.Data, other.Data)
	}
	a, err := fp.Raw()
	if err != nil {
		return false
	}
	b, err := other.Raw()
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// Raw returns the digest bytes, undoing the Encoding.
func (fp Fingerprint) Raw() ([]byte, error) {
	if fp.Algorithm == ohdigest.Passthrough {
		return fp.Data, nil
	}
	switch fp.Encoding {
	case ohdigest.Buffer:
		return fp.Data, nil
	case ohdigest.Hex:
		return hex.DecodeString(string(fp.Data))
	case ohdigest.Base64:
		return base64.StdEncoding.DecodeString(string(fp.Data))
	case ohdigest.Binary:
		out := make([]byte, 0, len(fp.Data))
		for s := fp.Data; len(s) > 0; {
			r, n := utf8.DecodeRune(s)
			if r > 0xff || (r == utf8.RuneError && n == 1) {
				return nil, fmt.Errorf("invalid binary digest")
			}
			out = append(out, byte(r))
			s = s[n:]
		}
		return out, nil
	default:
		return nil, ErrUnsupportedEncoding{Name: string(fp.Encoding)}
	}
}

// Key returns "<algorithm>:<hex digest>", which identifies the Fingerprint regardless
// of its Encoding.  The result can be parsed with ParseKey.
func (fp Fingerprint) Key() (string, error) {
	raw, err := fp.Raw()
	if err != nil {
		return "", err
	}
	return fp.Algorithm + ":" + hex.EncodeToString(raw), nil
}

// ParseKey parses the output of Fingerprint.Key.
// The result has the Hex encoding.
func ParseKey(x string) (Fingerprint, error) {
	algo, digest, ok := strings.Cut(x, ":")
	if !ok || algo == "" {
		return Fingerprint{}, fmt.Errorf("invalid fingerprint key %q", x)
	}
	if _, err := hex.DecodeString(digest); err != nil {
		return Fingerprint{}, fmt.Errorf("invalid fingerprint key %q: %w", x, err)
	}
	return Fingerprint{
		Algorithm: strings.ToLower(algo),
		Encoding:  ohdigest.Hex,
		Data:      []byte(strings.ToLower(digest)),
	}, nil
}
