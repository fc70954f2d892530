package ohdecode

import (
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/pelletier/go-toml/v2"

	"objhash.org/objhash/ohvalue"
)

// fromTree converts the generic trees produced by the CBOR and TOML decoders.
func fromTree(x any, depth int) (ohvalue.Value, error) {
	if depth > ohvalue.DefaultMaxDepth {
		return nil, ohvalue.ErrTooDeep{Limit: ohvalue.DefaultMaxDepth}
	}
	switch x := x.(type) {
	case nil:
		return ohvalue.Null{}, nil
	case bool:
		return ohvalue.Bool(x), nil
	case string:
		return ohvalue.Text(x), nil
	case []byte:
		return ohvalue.Buffer(x), nil
	case int:
		return ohvalue.Integer(x), nil
	case int64:
		return ohvalue.Integer(x), nil
	case uint64:
		return ohvalue.Integer(x), nil
	case float64:
		return ohvalue.Float(x), nil
	case *big.Int:
		return ohvalue.ParseNumber(x.String())
	case big.Int:
		return ohvalue.ParseNumber(x.String())
	case time.Time:
		return ohvalue.NewDate(x), nil
	case toml.LocalDateTime:
		return ohvalue.NewDate(x.AsTime(time.UTC)), nil
	case toml.LocalDate:
		return ohvalue.NewDate(x.AsTime(time.UTC)), nil
	case toml.LocalTime:
		return ohvalue.Text(x.String()), nil

	case []any:
		seq := ohvalue.NewSeq()
		for _, elem := range x {
			v, err := fromTree(elem, depth+1)
			if err != nil {
				return nil, err
			}
			seq.Append(v)
		}
		return seq, nil
	case map[string]any:
		m := ohvalue.NewMap()
		for k, elem := range x {
			v, err := fromTree(elem, depth+1)
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil
	case map[any]any:
		m := ohvalue.NewMap()
		for k, elem := range x {
			ks, err := treeKey(k)
			if err != nil {
				return nil, err
			}
			if _, exists := m.Get(ks); exists {
				return nil, ohvalue.ErrDuplicateKey{Key: ks}
			}
			v, err := fromTree(elem, depth+1)
			if err != nil {
				return nil, err
			}
			m.Set(ks, v)
		}
		return m, nil
	case cbor.Tag:
		content, err := fromTree(x.Content, depth+1)
		if err != nil {
			return nil, err
		}
		obj := ohvalue.NewObject("cbor.Tag")
		obj.Set("number", ohvalue.Uint(x.Number))
		obj.Set("content", content)
		return obj, nil
	case cbor.SimpleValue:
		return ohvalue.Unknown{TypeName: "cbor.SimpleValue(" + strconv.Itoa(int(x)) + ")"}, nil
	default:
		return ohvalue.Converter{MaxDepth: ohvalue.DefaultMaxDepth - depth}.From(x)
	}
}

// treeKey renders a non-string map key as text
func treeKey(k any) (string, error) {
	switch k := k.(type) {
	case string:
		return k, nil
	case int64:
		return strconv.FormatInt(k, 10), nil
	case uint64:
		return strconv.FormatUint(k, 10), nil
	case bool:
		return strconv.FormatBool(k), nil
	case float64:
		return ohvalue.Float(k).String(), nil
	case cbor.ByteString:
		return string(k), nil
	default:
		return "", fmt.Errorf("cannot use %T as a map key", k)
	}
}
