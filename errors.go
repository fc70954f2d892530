package objhash

import (
	"errors"

	"objhash.org/objhash/ohcanon"
	"objhash.org/objhash/ohdigest"
	"objhash.org/objhash/ohvalue"
)

// ErrMissingArgument is returned when there is no value to hash.
var ErrMissingArgument = errors.New("objhash: object argument required")

type (
	ErrUnsupportedAlgorithm = ohdigest.ErrUnsupportedAlgorithm
	ErrUnsupportedEncoding  = ohdigest.ErrUnsupportedEncoding
	ErrUnsupportedType      = ohcanon.ErrUnsupportedType
	ErrStackExhausted       = ohcanon.ErrStackExhausted
	ErrDuplicateKey         = ohvalue.ErrDuplicateKey
)

// convertErr maps errors from converting a Go value to the errors of this package
func convertErr(err error) error {
	var tooDeep ohvalue.ErrTooDeep
	if errors.As(err, &tooDeep) {
		return ErrStackExhausted{Depth: tooDeep.Limit}
	}
	return err
}
