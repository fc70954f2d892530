package ohdecode

import (
	"io"

	"github.com/fxamacker/cbor/v2"

	"objhash.org/objhash/ohvalue"
)

var cborDecMode cbor.DecMode

func init() {
	var err error
	cborDecMode, err = cbor.DecOptions{
		BigIntDec: cbor.BigIntDecodePointer,
	}.DecMode()
	if err != nil {
		panic("ohdecode: CBOR decoder initialization failed: " + err.Error())
	}
}

// CBOR decodes a single CBOR data item.
// Byte strings become Buffers, time tags become Dates, and bignums become Numbers.
// Other tags become Objects with the type name "cbor.Tag".
func CBOR(r io.Reader) (ohvalue.Value, error) {
	var x any
	if err := cborDecMode.NewDecoder(r).Decode(&x); err != nil {
		return nil, err
	}
	return fromTree(x, 0)
}
