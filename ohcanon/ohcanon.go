// package ohcanon implements canonicalization: it walks a Value and writes a deterministic
// token stream, such that structurally equivalent Values always produce the same stream.
//
// Map keys are always written in sorted order.  Seqs are, by default, treated as unordered,
// and are written by sorting the canonical streams of their elements.
// Cycles are broken by writing a marker which refers back to the earlier occurrence.
package ohcanon

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"objhash.org/objhash/ohdigest"
	"objhash.org/objhash/ohvalue"
)

// Config controls which structural features contribute to the stream.
// A Config must not be modified once it has been passed to an Encoder.
type Config struct {
	// ExcludeValues causes Map and Object entries to contribute only their keys.
	ExcludeValues bool
	// UnorderedArrays causes the order of Seq elements to be ignored.
	UnorderedArrays bool
	// RespectFunctionNames includes the name of a Func.
	RespectFunctionNames bool
	// RespectFunctionProperties includes the properties of a Func.
	RespectFunctionProperties bool
	// RespectType adds synthetic entries describing the kind and type of Maps and Objects,
	// so that an Object and a Map with the same entries do not collide.
	RespectType bool
	// IgnoreUnknownTypes writes a placeholder for Unknown values instead of failing.
	IgnoreUnknownTypes bool
	// Replacer, if not nil, is applied to every Value before it is written.
	Replacer func(ohvalue.Value) ohvalue.Value
	// MaxDepth limits the nesting of the traversal.  0 means DefaultMaxDepth.
	MaxDepth int
}

const DefaultMaxDepth = ohvalue.DefaultMaxDepth

// DefaultConfig returns the Config used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		UnorderedArrays:      true,
		RespectFunctionNames: true,
		MaxDepth:             DefaultMaxDepth,
	}
}

// Writer is where an Encoder writes its stream.  All ohdigest.Sinks are Writers.
type Writer interface {
	io.Writer
	io.StringWriter
}

// Encode writes the canonical stream for v to w.
func Encode(cfg *Config, w Writer, v ohvalue.Value) error {
	return NewEncoder(cfg, w).Encode(v)
}

// Canonical returns the canonical stream for v.
func Canonical(cfg *Config, v ohvalue.Value) (string, error) {
	pt := ohdigest.NewPassthrough()
	if err := Encode(cfg, pt, v); err != nil {
		return "", err
	}
	return pt.String(), nil
}

// Encoder writes the canonical stream for Values.
// An Encoder carries the VisitedSet for one traversal, so Values passed to repeated
// calls of Encode share cycle markers.  Create a new Encoder for each independent Value.
type Encoder struct {
	cfg     *Config
	w       Writer
	visited VisitedSet
	depth   int
	err     error
}

func NewEncoder(cfg *Config, w Writer) *Encoder {
	return &Encoder{cfg: cfg, w: w}
}

// Encode writes v, and returns the first error encountered.
// Once an error has occurred, the Encoder writes nothing more.
func (e *Encoder) Encode(v ohvalue.Value) error {
	e.dispatch(v)
	return e.err
}

// Visited returns the identities encountered so far.
func (e *Encoder) Visited() VisitedSet {
	return e.visited.Clone()
}

func (e *Encoder) maxDepth() int {
	if e.cfg.MaxDepth > 0 {
		return e.cfg.MaxDepth
	}
	return DefaultMaxDepth
}

func (e *Encoder) dispatch(v ohvalue.Value) {
	if e.err != nil {
		return
	}
	if e.cfg.Replacer != nil {
		v = e.cfg.Replacer(v)
	}
	e.depth++
	defer func() { e.depth-- }()
	if e.depth > e.maxDepth() {
		e.fail(ErrStackExhausted{Depth: e.maxDepth()})
		return
	}

	if v == nil || isNilComposite(v) {
		v = ohvalue.Null{}
	}
	switch x := v.(type) {
	case ohvalue.Null:
		e.write("Null")
	case ohvalue.Undefined:
		e.write("Undefined")
	case ohvalue.Bool:
		e.write("bool:" + strconv.FormatBool(bool(x)))
	case ohvalue.Number:
		e.write("number:" + x.String())
	case ohvalue.Text:
		e.write("string:" + strconv.Itoa(len(x)) + ":")
		e.write(string(x))
	case ohvalue.Date:
		e.write("date:" + x.Time().UTC().Format(time.RFC3339Nano))
	case ohvalue.Pattern:
		e.write("regex:/" + x.Source + "/" + x.Flags)
	case ohvalue.Error:
		e.write("error:")
		e.dispatch(ohvalue.Text(x.Message))
	case ohvalue.Buffer:
		e.write("buffer:")
		e.writeBytes(x)
	case ohvalue.TypedArray:
		e.write(x.Elem + "array:")
		e.writeArray(len(x.Elems), func(i int) ohvalue.Value { return x.Elems[i] })

	case *ohvalue.Seq:
		if e.circular(x) {
			return
		}
		e.writeArray(x.Len(), x.At)
	case *ohvalue.Map:
		e.writeObject(x, x, "object", "Object")
	case *ohvalue.Object:
		e.writeObject(x, x, "object", x.TypeName)
	case *ohvalue.Func:
		e.writeFunc(x)

	case ohvalue.Unknown:
		if !e.cfg.IgnoreUnknownTypes {
			e.fail(ErrUnsupportedType{TypeName: x.TypeName})
			return
		}
		e.write("[" + x.TypeName + "]")
	default:
		e.fail(ErrUnsupportedType{TypeName: fmt.Sprintf("%T", v)})
	}
}

// keyed is implemented by Map and Object
type keyed interface {
	SortedKeys() []string
	Get(k string) (ohvalue.Value, bool)
}

var typeMarkers = []string{"prototype", "__proto__", "constructor"}

// writeObject writes the entries of kv in sorted key order.
// id is the identity used for cycle detection.
func (e *Encoder) writeObject(id ohvalue.Value, kv keyed, kindName, typeName string) {
	if e.circular(id) {
		return
	}
	keys := kv.SortedKeys()
	var nmarkers int
	if e.cfg.RespectType {
		nmarkers = len(typeMarkers)
		keys = append(slices.Clone(typeMarkers), keys...)
	}
	e.write("object:" + strconv.Itoa(len(keys)) + ":")
	for i, k := range keys {
		e.dispatch(ohvalue.Text(k))
		e.write(":")
		if !e.cfg.ExcludeValues {
			var val ohvalue.Value
			if i < nmarkers {
				val = markerValue(k, kindName, typeName)
			} else {
				var ok bool
				if val, ok = kv.Get(k); !ok {
					val = ohvalue.Undefined{}
				}
			}
			e.dispatch(val)
		}
		e.write(",")
	}
}

func markerValue(marker, kindName, typeName string) ohvalue.Value {
	switch marker {
	case "__proto__":
		return ohvalue.Text(kindName)
	case "constructor":
		return ohvalue.Text(typeName)
	default:
		return ohvalue.Undefined{}
	}
}

// writeArray writes n elements, obtained from at.
// When arrays are unordered, each element is encoded in isolation and the results are sorted.
func (e *Encoder) writeArray(n int, at func(int) ohvalue.Value) {
	e.write("array:" + strconv.Itoa(n) + ":")
	if !e.cfg.UnorderedArrays || n <= 1 {
		for i := 0; i < n; i++ {
			e.dispatch(at(i))
		}
		return
	}
	tokens := make([]string, n)
	for i := 0; i < n; i++ {
		pt := ohdigest.NewPassthrough()
		sub := &Encoder{
			cfg:     e.cfg,
			w:       pt,
			visited: e.visited.Clone(),
			depth:   e.depth,
		}
		sub.dispatch(at(i))
		if sub.err != nil {
			e.fail(sub.err)
			return
		}
		tokens[i] = pt.String()
	}
	slices.Sort(tokens)
	for _, tok := range tokens {
		e.write(tok)
	}
}

func (e *Encoder) writeFunc(f *ohvalue.Func) {
	e.write("fn:")
	if f.IsNative() {
		e.dispatch(ohvalue.Text("[native]"))
	} else {
		e.dispatch(ohvalue.Text(f.Source))
	}
	if e.cfg.RespectFunctionNames {
		e.dispatch(ohvalue.Text("function-name:" + f.Name))
	}
	if e.cfg.RespectFunctionProperties {
		props := f.Props
		if props == nil {
			props = ohvalue.NewMap()
		}
		e.writeObject(f, props, "function", "Function")
	}
}

// circular writes a marker and returns true if id has already been visited.
// Otherwise id is added to the VisitedSet.
func (e *Encoder) circular(id ohvalue.Value) bool {
	if i := e.visited.IndexOf(id); i >= 0 {
		e.write("CIRCULAR:" + strconv.Itoa(i))
		return true
	}
	e.visited.Push(id)
	return false
}

func (e *Encoder) write(s string) {
	if e.err != nil {
		return
	}
	if _, err := e.w.WriteString(s); err != nil {
		e.fail(err)
	}
}

func (e *Encoder) writeBytes(p []byte) {
	if e.err != nil {
		return
	}
	if _, err := e.w.Write(p); err != nil {
		e.fail(err)
	}
}

func (e *Encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func isNilComposite(v ohvalue.Value) bool {
	switch x := v.(type) {
	case *ohvalue.Seq:
		return x == nil
	case *ohvalue.Map:
		return x == nil
	case *ohvalue.Object:
		return x == nil
	case *ohvalue.Func:
		return x == nil
	default:
		return false
	}
}

// ErrUnsupportedType is returned when a value cannot be classified, and unknown types
// are not ignored.
type ErrUnsupportedType struct {
	TypeName string
}

func (e ErrUnsupportedType) Error() string {
	return fmt.Sprintf("unknown object type %q", e.TypeName)
}

// ErrStackExhausted is returned when a value is nested too deeply to traverse.
type ErrStackExhausted struct {
	Depth int
}

func (e ErrStackExhausted) Error() string {
	return fmt.Sprintf("value is nested more than %d levels deep", e.Depth)
}
