package ohdecode

import (
	"io"

	"github.com/pelletier/go-toml/v2"

	"objhash.org/objhash/ohvalue"
)

// TOML decodes a TOML document.
// Offset date-times, local date-times and local dates become Dates, in UTC when no
// offset is given.  Local times become Text.
func TOML(r io.Reader) (ohvalue.Value, error) {
	var x map[string]any
	if err := toml.NewDecoder(r).Decode(&x); err != nil {
		return nil, err
	}
	return fromTree(x, 0)
}
