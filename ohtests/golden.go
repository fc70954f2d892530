// package ohtests provides values and canonical streams for testing implementations.
package ohtests

import (
	"time"

	"objhash.org/objhash/ohvalue"
)

// Golden is a Value together with its expected canonical stream.
type Golden struct {
	Name  string
	Value func() ohvalue.Value

	// Ordered disables unordered arrays
	Ordered bool
	// IgnoreUnknown tolerates Unknown values
	IgnoreUnknown bool

	Canonical string
}

// GoldenVectors returns the known canonical streams.
// They are produced with the default options unless a Golden says otherwise.
func GoldenVectors() []Golden {
	return []Golden{
		{Name: "null", Value: konst(ohvalue.Null{}), Canonical: "Null"},
		{
			Name:      "undefined",
			Value:     func() ohvalue.Value { return ohvalue.NewSeq(ohvalue.Undefined{}) },
			Canonical: "array:1:Undefined",
		},
		{Name: "true", Value: konst(ohvalue.Bool(true)), Canonical: "bool:true"},
		{Name: "int", Value: konst(ohvalue.Int(42)), Canonical: "number:42"},
		{Name: "float", Value: konst(ohvalue.Float(-1.5)), Canonical: "number:-1.5"},
		{Name: "text", Value: konst(ohvalue.Text("hello")), Canonical: "string:5:hello"},
		{
			Name:      "seq",
			Value:     func() ohvalue.Value { return ohvalue.NewSeq(ohvalue.Text("b"), ohvalue.Text("a")) },
			Canonical: "array:2:string:1:astring:1:b",
		},
		{
			Name:      "seq-ordered",
			Value:     func() ohvalue.Value { return ohvalue.NewSeq(ohvalue.Text("b"), ohvalue.Text("a")) },
			Ordered:   true,
			Canonical: "array:2:string:1:bstring:1:a",
		},
		{
			Name: "map",
			Value: func() ohvalue.Value {
				return ohvalue.MapOf(
					"y", ohvalue.Null{},
					"x", ohvalue.NewSeq(ohvalue.Int(2), ohvalue.Int(1)),
				)
			},
			Canonical: "object:2:string:1:x:array:2:number:1number:2,string:1:y:Null,",
		},
		{
			Name:      "date",
			Value:     konst(ohvalue.NewDate(time.Date(2021, 3, 4, 5, 6, 7, 123000000, time.UTC))),
			Canonical: "date:2021-03-04T05:06:07.123Z",
		},
		{Name: "buffer", Value: konst(ohvalue.Buffer("hi")), Canonical: "buffer:hi"},
		{
			Name: "typed-array",
			Value: konst(ohvalue.TypedArray{
				Elem:  "float32",
				Elems: []ohvalue.Number{ohvalue.Int(3), ohvalue.Int(1)},
			}),
			Canonical: "float32array:array:2:number:1number:3",
		},
		{Name: "pattern", Value: konst(ohvalue.Pattern{Source: "^a.*$", Flags: "i"}), Canonical: "regex:/^a.*$/i"},
		{Name: "error", Value: konst(ohvalue.Error{Message: "bad"}), Canonical: "error:string:3:bad"},
		{
			Name:      "native-func",
			Value:     func() ohvalue.Value { return &ohvalue.Func{Name: "len"} },
			Canonical: "fn:string:8:[native]string:17:function-name:len",
		},
		{
			Name: "object",
			Value: func() ohvalue.Value {
				obj := ohvalue.NewObject("geo.Point")
				obj.Set("lng", ohvalue.Int(2))
				obj.Set("lat", ohvalue.Int(1))
				return obj
			},
			Canonical: "object:2:string:3:lat:number:1,string:3:lng:number:2,",
		},
		{
			Name: "cycle",
			Value: func() ohvalue.Value {
				m := ohvalue.NewMap()
				m.Set("self", m)
				return m
			},
			Canonical: "object:1:string:4:self:CIRCULAR:0,",
		},
		{
			// each unordered element starts from the ancestors only
			Name:      "diamond",
			Value:     diamond,
			Canonical: "array:2:object:0:object:0:",
		},
		{
			Name:      "diamond-ordered",
			Value:     diamond,
			Ordered:   true,
			Canonical: "array:2:object:0:CIRCULAR:1",
		},
		{
			Name:          "unknown",
			Value:         konst(ohvalue.Unknown{TypeName: "chan int"}),
			IgnoreUnknown: true,
			Canonical:     "[chan int]",
		},
	}
}

func diamond() ohvalue.Value {
	m := ohvalue.NewMap()
	return ohvalue.NewSeq(m, m)
}

func konst(v ohvalue.Value) func() ohvalue.Value {
	return func() ohvalue.Value { return v }
}
