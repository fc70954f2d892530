// package ohvalue defines the Values understood by the canonicalization engine.
//
// The set of Values is closed.  Anything a caller wants fingerprinted is first
// reduced to one of the types in this package, either by constructing them directly
// or by calling From on an arbitrary Go value.
package ohvalue

import (
	"iter"
	"slices"
	"time"
)

// Value is the common interface implemented by all Values.
// It serves as a Sum type; Kind reports the variant.
type Value interface {
	Kind() Kind
	isValue()
}

var (
	_ Value = Null{}
	_ Value = Undefined{}
	_ Value = Bool(false)
	_ Value = Number{}
	_ Value = Text("")
	_ Value = &Seq{}
	_ Value = &Map{}
	_ Value = Date{}
	_ Value = Buffer{}
	_ Value = TypedArray{}
	_ Value = Pattern{}
	_ Value = &Func{}
	_ Value = &Object{}
	_ Value = Error{}
	_ Value = Unknown{}
)

type Null struct{}

func (Null) Kind() Kind { return K_Null }
func (Null) isValue()   {}

// Undefined is an absent value.
// It is only meaningful below the root of a graph, e.g. as the value of a field.
type Undefined struct{}

func (Undefined) Kind() Kind { return K_Undefined }
func (Undefined) isValue()   {}

type Bool bool

func (Bool) Kind() Kind { return K_Bool }
func (Bool) isValue()   {}

type Text string

func (Text) Kind() Kind { return K_Text }
func (Text) isValue()   {}

// Seq is an ordered sequence of Values.
// Seqs are compared by identity when detecting cycles, so they are always used by pointer.
type Seq struct {
	elems []Value
}

func NewSeq(elems ...Value) *Seq {
	return &Seq{elems: elems}
}

func (*Seq) Kind() Kind { return K_Seq }
func (*Seq) isValue()   {}

func (s *Seq) Len() int {
	return len(s.elems)
}

func (s *Seq) At(i int) Value {
	return s.elems[i]
}

func (s *Seq) Append(xs ...Value) {
	s.elems = append(s.elems, xs...)
}

// All iterates over the elements in order.
func (s *Seq) All() iter.Seq2[int, Value] {
	return slices.All(s.elems)
}

// Map is a set of Values keyed by unique strings.
// The order in which keys were inserted is remembered, but it is not significant.
type Map struct {
	fields
}

func NewMap() *Map {
	return &Map{}
}

// MapOf creates a Map from alternating keys and values.
// It panics if kvs has an odd length.
func MapOf(kvs ...any) *Map {
	if len(kvs)%2 != 0 {
		panic("ohvalue.MapOf: odd number of arguments")
	}
	m := NewMap()
	for i := 0; i < len(kvs); i += 2 {
		m.Set(kvs[i].(string), kvs[i+1].(Value))
	}
	return m
}

func (*Map) Kind() Kind { return K_Map }
func (*Map) isValue()   {}

// Date is an instant in time.
type Date struct {
	t time.Time
}

func NewDate(t time.Time) Date {
	return Date{t: t}
}

func (Date) Kind() Kind { return K_Date }
func (Date) isValue()   {}

func (d Date) Time() time.Time {
	return d.t
}

// Buffer is an opaque sequence of bytes.
type Buffer []byte

func (Buffer) Kind() Kind { return K_Buffer }
func (Buffer) isValue()   {}

// TypedArray is a homogeneous array of numbers, like an int16 or float32 array.
// Elem names the element type.
type TypedArray struct {
	Elem  string
	Elems []Number
}

func (TypedArray) Kind() Kind { return K_TypedArray }
func (TypedArray) isValue()   {}

// Pattern is a regular expression.
type Pattern struct {
	Source string
	Flags  string
}

func (Pattern) Kind() Kind { return K_Pattern }
func (Pattern) isValue()   {}

// Func is a callable.
// An empty Source means the callable is native and has no inspectable source.
type Func struct {
	Name   string
	Source string
	// Props are the callable's own properties.  May be nil.
	Props *Map
}

func (*Func) Kind() Kind { return K_Func }
func (*Func) isValue()   {}

func (f *Func) IsNative() bool {
	return f.Source == ""
}

// Object is a keyed structure which does not match a more specific variant.
// TypeName is its structural type tag.
type Object struct {
	TypeName string
	fields
}

func NewObject(typeName string) *Object {
	return &Object{TypeName: typeName}
}

func (*Object) Kind() Kind { return K_Object }
func (*Object) isValue()   {}

type Error struct {
	Message string
}

func (Error) Kind() Kind { return K_Error }
func (Error) isValue()   {}

// Unknown is a value which could not be classified.
type Unknown struct {
	TypeName string
}

func (Unknown) Kind() Kind { return K_Unknown }
func (Unknown) isValue()   {}

// fields is the keyed storage shared by Map and Object
type fields struct {
	keys []string
	vals map[string]Value
}

func (f *fields) Len() int {
	return len(f.keys)
}

func (f *fields) Get(k string) (Value, bool) {
	v, ok := f.vals[k]
	return v, ok
}

// Set sets the value at k, overwriting any previous value.
func (f *fields) Set(k string, v Value) {
	if f.vals == nil {
		f.vals = make(map[string]Value)
	}
	if _, exists := f.vals[k]; !exists {
		f.keys = append(f.keys, k)
	}
	f.vals[k] = v
}

func (f *fields) Delete(k string) {
	if _, exists := f.vals[k]; !exists {
		return
	}
	delete(f.vals, k)
	f.keys = slices.DeleteFunc(f.keys, func(x string) bool { return x == k })
}

// Keys returns the keys in insertion order.
func (f *fields) Keys() []string {
	return slices.Clone(f.keys)
}

// SortedKeys returns the keys in lexicographic order.
func (f *fields) SortedKeys() []string {
	ks := slices.Clone(f.keys)
	slices.Sort(ks)
	return ks
}

// All iterates over the entries in insertion order.
func (f *fields) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range f.keys {
			if !yield(k, f.vals[k]) {
				return
			}
		}
	}
}
