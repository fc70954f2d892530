package ohvalue

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"regexp"
	"runtime"
	"slices"
	"time"
)

const (
	// DefaultMaxDepth is the default limit on nesting used by From.
	DefaultMaxDepth = 4096
	// DefaultTag is the struct tag key read by From.
	DefaultTag = "objhash"
)

// ErrTooDeep is returned when a Go value is nested more deeply than the Converter allows.
type ErrTooDeep struct {
	Limit int
}

func (e ErrTooDeep) Error() string {
	return fmt.Sprintf("value is nested more than %d levels deep", e.Limit)
}

// ErrDuplicateKey is returned when two keys of a Go map render to the same string.
type ErrDuplicateKey struct {
	Key string
}

func (e ErrDuplicateKey) Error() string {
	return fmt.Sprintf("map has more than one key rendering to %q", e.Key)
}

// From converts an arbitrary Go value into a Value, using the default Converter.
func From(x any) (Value, error) {
	return Converter{}.From(x)
}

// Converter converts Go values into Values by inspecting their runtime types.
//
//   - nil, nil pointers, nil maps and nil slices become Null.
//   - booleans, numbers and strings become Bool, Number and Text.
//   - []byte and [N]byte become Buffer.  Other slices and arrays become Seq.
//   - maps become Map.  Keys which are not strings are rendered with fmt.Sprint.
//   - structs become Object, using their exported fields.
//     A field tagged `objhash:"-"` is skipped, and `objhash:"name"` renames it.
//   - time.Time becomes Date, *regexp.Regexp becomes Pattern, errors become Error,
//     and funcs become native Func.
//   - Values are passed through unchanged.  Pointers to Values are dereferenced, and
//     composites passed by value are used through a pointer to a copy.
//   - anything else becomes Unknown.
//
// Maps, slices and pointers which are reached more than once become the same node,
// so cycles in the Go value become cycles in the Value.
type Converter struct {
	// Tag is the struct tag key.  Defaults to DefaultTag.
	Tag string
	// MaxDepth is the maximum nesting.  Defaults to DefaultMaxDepth.
	MaxDepth int
}

func (c Converter) From(x any) (Value, error) {
	st := convState{
		tag:      c.Tag,
		maxDepth: c.MaxDepth,
		memo:     make(map[memoKey]Value),
		active:   make(map[memoKey]struct{}),
	}
	if st.tag == "" {
		st.tag = DefaultTag
	}
	if st.maxDepth <= 0 {
		st.maxDepth = DefaultMaxDepth
	}
	return st.convert(reflect.ValueOf(x), 0)
}

// memoKey identifies a reference in the Go value graph
type memoKey struct {
	ptr uintptr
	typ reflect.Type
	n   int
}

type convState struct {
	tag      string
	maxDepth int
	memo     map[memoKey]Value
	active   map[memoKey]struct{}
}

var (
	timeType  = reflect.TypeFor[time.Time]()
	valueType = reflect.TypeFor[Value]()
	errorType = reflect.TypeFor[error]()
)

func (st *convState) convert(v reflect.Value, depth int) (Value, error) {
	if !v.IsValid() {
		return Null{}, nil
	}
	if depth > st.maxDepth {
		return nil, ErrTooDeep{Limit: st.maxDepth}
	}
	if isNil(v) {
		return Null{}, nil
	}
	if ret, ok, err := st.special(v); ok || err != nil {
		return ret, err
	}

	switch v.Kind() {
	case reflect.Bool:
		return Bool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(v.Uint()), nil
	case reflect.Float32:
		return Float32(float32(v.Float())), nil
	case reflect.Float64:
		return Float(v.Float()), nil
	case reflect.String:
		return Text(v.String()), nil

	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return Buffer(slices.Clone(v.Bytes())), nil
		}
		seq := &Seq{}
		// empty slices may share a backing pointer without being the same slice
		if v.Len() > 0 {
			k := memoKey{ptr: v.Pointer(), typ: v.Type(), n: v.Len()}
			if ret, ok := st.memo[k]; ok {
				return ret, nil
			}
			st.memo[k] = seq
		}
		return seq, st.fillSeq(seq, v, depth)
	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			buf := make(Buffer, v.Len())
			for i := range buf {
				buf[i] = byte(v.Index(i).Uint())
			}
			return buf, nil
		}
		seq := &Seq{}
		return seq, st.fillSeq(seq, v, depth)
	case reflect.Map:
		k := memoKey{ptr: v.Pointer(), typ: v.Type()}
		if ret, ok := st.memo[k]; ok {
			return ret, nil
		}
		m := NewMap()
		st.memo[k] = m
		return m, st.fillMap(m, v, depth)
	case reflect.Struct:
		obj := NewObject(v.Type().String())
		return obj, st.fillObject(obj, v, depth)

	case reflect.Pointer:
		return st.convertPointer(v, depth)
	case reflect.Interface:
		return st.convert(v.Elem(), depth)
	case reflect.Func:
		fn := &Func{}
		if rf := runtime.FuncForPC(v.Pointer()); rf != nil {
			fn.Name = rf.Name()
		}
		return fn, nil
	default:
		// chan, complex, unsafe.Pointer
		return Unknown{TypeName: v.Type().String()}, nil
	}
}

// special handles types which have a more specific variant than their reflect.Kind suggests.
func (st *convState) special(v reflect.Value) (Value, bool, error) {
	if !v.CanInterface() {
		return nil, false, nil
	}
	ty := v.Type()
	if ty.Implements(valueType) {
		// *Number and friends inherit the methods of Number
		if ty.Kind() == reflect.Pointer && ty.Elem().Implements(valueType) {
			return v.Elem().Interface().(Value), true, nil
		}
		return v.Interface().(Value), true, nil
	}
	if ty.Kind() != reflect.Pointer && reflect.PointerTo(ty).Implements(valueType) {
		// a Map, Seq, Object or Func passed by value
		p := reflect.New(ty)
		p.Elem().Set(v)
		return p.Interface().(Value), true, nil
	}
	switch x := v.Interface().(type) {
	case time.Time:
		return NewDate(x), true, nil
	case *regexp.Regexp:
		return Pattern{Source: x.String()}, true, nil
	case json.Number:
		n, err := ParseNumber(string(x))
		return n, true, err
	case *big.Int:
		return Number{text: x.String()}, true, nil
	}
	if v.Type().Implements(errorType) {
		return Error{Message: v.Interface().(error).Error()}, true, nil
	}
	return nil, false, nil
}

func (st *convState) convertPointer(v reflect.Value, depth int) (Value, error) {
	elem := v.Elem()
	if elem.Type().Size() == 0 {
		// pointers to zero sized values are not distinct
		return st.convert(elem, depth+1)
	}
	k := memoKey{ptr: v.Pointer(), typ: elem.Type()}
	if ret, ok := st.memo[k]; ok {
		return ret, nil
	}
	switch {
	case elem.Kind() == reflect.Struct && elem.Type() != timeType:
		obj := NewObject(elem.Type().String())
		st.memo[k] = obj
		return obj, st.fillObject(obj, elem, depth)
	case elem.Kind() == reflect.Array && elem.Type().Elem().Kind() != reflect.Uint8:
		seq := &Seq{}
		st.memo[k] = seq
		return seq, st.fillSeq(seq, elem, depth)
	}
	if _, ok := st.active[k]; ok {
		// a cycle which does not pass through anything with identity
		return Unknown{TypeName: v.Type().String()}, nil
	}
	st.active[k] = struct{}{}
	defer delete(st.active, k)
	ret, err := st.convert(elem, depth+1)
	if err != nil {
		return nil, err
	}
	st.memo[k] = ret
	return ret, nil
}

func (st *convState) fillSeq(seq *Seq, v reflect.Value, depth int) error {
	seq.elems = make([]Value, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		x, err := st.convert(v.Index(i), depth+1)
		if err != nil {
			return err
		}
		seq.elems = append(seq.elems, x)
	}
	return nil
}

func (st *convState) fillMap(m *Map, v reflect.Value, depth int) error {
	iter := v.MapRange()
	for iter.Next() {
		k := renderKey(iter.Key())
		if _, exists := m.Get(k); exists {
			return ErrDuplicateKey{Key: k}
		}
		x, err := st.convert(iter.Value(), depth+1)
		if err != nil {
			return err
		}
		m.Set(k, x)
	}
	return nil
}

func (st *convState) fillObject(obj *Object, v reflect.Value, depth int) error {
	ty := v.Type()
	for i := 0; i < ty.NumField(); i++ {
		sf := ty.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		switch tag := sf.Tag.Get(st.tag); tag {
		case "-":
			continue
		case "":
		default:
			name = tag
		}
		x, err := st.convert(v.Field(i), depth+1)
		if err != nil {
			return err
		}
		obj.Set(name, x)
	}
	return nil
}

func renderKey(k reflect.Value) string {
	for k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
