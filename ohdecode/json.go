package ohdecode

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"objhash.org/objhash/ohvalue"
)

// JSON decodes a JSON document.
// Numbers are kept as written, so large integers are not rounded.
func JSON(r io.Reader) (ohvalue.Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var x any
	if err := dec.Decode(&x); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("json: unexpected data after document")
	}
	return fromJSON(x)
}

// fromJSON converts the output of a json.Decoder using UseNumber
func fromJSON(x any) (ohvalue.Value, error) {
	switch x := x.(type) {
	case nil:
		return ohvalue.Null{}, nil
	case bool:
		return ohvalue.Bool(x), nil
	case string:
		return ohvalue.Text(x), nil
	case json.Number:
		return ohvalue.ParseNumber(string(x))
	case []any:
		seq := ohvalue.NewSeq()
		for _, elem := range x {
			v, err := fromJSON(elem)
			if err != nil {
				return nil, err
			}
			seq.Append(v)
		}
		return seq, nil
	case map[string]any:
		m := ohvalue.NewMap()
		for k, elem := range x {
			v, err := fromJSON(elem)
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("json: unexpected type %T", x)
	}
}
