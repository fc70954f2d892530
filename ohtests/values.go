package ohtests

import (
	"math"
	"time"

	"objhash.org/objhash/ohvalue"
)

// InterestingValues returns a list of values worth testing against.
// No two of them are structurally equal.
func InterestingValues() []ohvalue.Value {
	cyclic := ohvalue.NewMap()
	cyclic.Set("self", cyclic)
	cyclicSeq := ohvalue.NewSeq()
	cyclicSeq.Append(cyclicSeq)

	obj := ohvalue.NewObject("pkg.T")
	obj.Set("a", ohvalue.Int(3))

	return []ohvalue.Value{
		ohvalue.Null{},
		// Undefined is only accepted below the root
		ohvalue.NewSeq(ohvalue.Undefined{}),
		ohvalue.Bool(false),
		ohvalue.Bool(true),

		// numbers
		ohvalue.Int(0),
		ohvalue.Int(1),
		ohvalue.Int(-1),
		ohvalue.Uint(math.MaxUint64),
		ohvalue.Float(0.1),
		ohvalue.Float(math.Inf(1)),
		ohvalue.Float(math.NaN()),

		// text
		ohvalue.Text(""),
		ohvalue.Text("0"),
		ohvalue.Text("1"),
		ohvalue.Text("Null"),
		ohvalue.Text("number:1"),
		ohvalue.Text("héllo wörld"),

		// seqs
		ohvalue.NewSeq(),
		ohvalue.NewSeq(ohvalue.Int(1)),
		ohvalue.NewSeq(ohvalue.Int(1), ohvalue.Int(2)),
		ohvalue.NewSeq(ohvalue.NewSeq()),
		ohvalue.NewSeq(ohvalue.Text("a"), ohvalue.Text("b")),
		ohvalue.NewSeq(ohvalue.Text("ab")),
		cyclicSeq,

		// maps
		ohvalue.NewMap(),
		ohvalue.MapOf("a", ohvalue.Int(1)),
		ohvalue.MapOf("a", ohvalue.Int(2)),
		ohvalue.MapOf("b", ohvalue.Int(1)),
		ohvalue.MapOf("a", ohvalue.Null{}),
		ohvalue.MapOf("a", ohvalue.Int(1), "b", ohvalue.Int(2)),
		ohvalue.MapOf("a", ohvalue.MapOf("b", ohvalue.Int(1))),
		cyclic,

		// the rest
		ohvalue.NewDate(time.Unix(0, 0)),
		ohvalue.NewDate(time.Date(2024, 2, 29, 12, 0, 0, 1, time.UTC)),
		ohvalue.Buffer(""),
		ohvalue.Buffer("abc"),
		ohvalue.TypedArray{Elem: "uint8", Elems: []ohvalue.Number{ohvalue.Int(1)}},
		ohvalue.TypedArray{Elem: "int16", Elems: []ohvalue.Number{ohvalue.Int(1)}},
		ohvalue.Pattern{Source: "a", Flags: ""},
		ohvalue.Pattern{Source: "a", Flags: "g"},
		ohvalue.Error{Message: ""},
		ohvalue.Error{Message: "boom"},
		&ohvalue.Func{Name: "f"},
		&ohvalue.Func{Name: "f", Source: "return 1"},
		&ohvalue.Func{Name: "g"},
		obj,
	}
}
