package ohcanon

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"objhash.org/objhash/ohtests"
	"objhash.org/objhash/ohvalue"
)

func TestCanonical(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	tcs := []struct {
		In  ohvalue.Value
		Out string
	}{
		{ohvalue.Null{}, "Null"},
		{nil, "Null"},
		{(*ohvalue.Map)(nil), "Null"},
		{ohvalue.Undefined{}, "Undefined"},
		{ohvalue.Bool(true), "bool:true"},
		{ohvalue.Bool(false), "bool:false"},
		{ohvalue.Int(-3), "number:-3"},
		{ohvalue.Float(0.5), "number:0.5"},
		{ohvalue.Text("héllo"), "string:6:héllo"},
		{ohvalue.Text(""), "string:0:"},
		{ohvalue.NewDate(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)), "date:2020-01-02T03:04:05Z"},
		{ohvalue.Pattern{Source: "a+", Flags: "gi"}, "regex:/a+/gi"},
		{ohvalue.Error{Message: "boom"}, "error:string:4:boom"},
		{ohvalue.Buffer("abc"), "buffer:abc"},
		{ohvalue.NewSeq(), "array:0:"},
		{ohvalue.NewSeq(ohvalue.Int(2), ohvalue.Int(1)), "array:2:number:1number:2"},
		{ohvalue.NewMap(), "object:0:"},
		{
			ohvalue.MapOf("b", ohvalue.Int(2), "a", ohvalue.Int(1)),
			"object:2:string:1:a:number:1,string:1:b:number:2,",
		},
		{
			ohvalue.TypedArray{Elem: "uint8", Elems: []ohvalue.Number{ohvalue.Int(2), ohvalue.Int(1)}},
			"uint8array:array:2:number:1number:2",
		},
		{&ohvalue.Func{Name: "f", Source: "x"}, "fn:string:1:xstring:15:function-name:f"},
		{&ohvalue.Func{Name: "g"}, "fn:string:8:[native]string:15:function-name:g"},
	}
	for i, tc := range tcs {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			out, err := Canonical(&cfg, tc.In)
			require.NoError(t, err)
			require.Equal(t, tc.Out, out)
		})
	}
}

func TestGoldenVectors(t *testing.T) {
	t.Parallel()
	for _, g := range ohtests.GoldenVectors() {
		t.Run(g.Name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.UnorderedArrays = !g.Ordered
			cfg.IgnoreUnknownTypes = g.IgnoreUnknown
			out, err := Canonical(&cfg, g.Value())
			require.NoError(t, err)
			require.Equal(t, g.Canonical, out)
		})
	}
}

func TestObjectTypeName(t *testing.T) {
	t.Parallel()
	obj := ohvalue.NewObject("pkg.Point")
	obj.Set("x", ohvalue.Int(1))
	m := ohvalue.MapOf("x", ohvalue.Int(1))

	cfg := DefaultConfig()
	a, err := Canonical(&cfg, obj)
	require.NoError(t, err)
	b, err := Canonical(&cfg, m)
	require.NoError(t, err)
	require.Equal(t, a, b)

	cfg.RespectType = true
	a, err = Canonical(&cfg, obj)
	require.NoError(t, err)
	b, err = Canonical(&cfg, m)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
	require.Equal(t, "object:4:"+
		"string:9:prototype:Undefined,"+
		"string:9:__proto__:string:6:object,"+
		"string:11:constructor:string:6:Object,"+
		"string:1:x:number:1,", b)
	require.Contains(t, a, "string:9:pkg.Point")
}

func TestExcludeValues(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.ExcludeValues = true
	a, err := Canonical(&cfg, ohvalue.MapOf("a", ohvalue.Int(1)))
	require.NoError(t, err)
	b, err := Canonical(&cfg, ohvalue.MapOf("a", ohvalue.Text("other")))
	require.NoError(t, err)
	require.Equal(t, "object:1:string:1:a:,", a)
	require.Equal(t, a, b)
}

func TestOrderedArrays(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.UnorderedArrays = false
	out, err := Canonical(&cfg, ohvalue.NewSeq(ohvalue.Int(2), ohvalue.Int(1)))
	require.NoError(t, err)
	require.Equal(t, "array:2:number:2number:1", out)
}

func TestCycles(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	m := ohvalue.NewMap()
	m.Set("self", m)
	out, err := Canonical(&cfg, m)
	require.NoError(t, err)
	require.Equal(t, "object:1:string:4:self:CIRCULAR:0,", out)

	s := ohvalue.NewSeq()
	s.Append(s, ohvalue.Int(1))
	out, err = Canonical(&cfg, s)
	require.NoError(t, err)
	require.Equal(t, "array:2:CIRCULAR:0number:1", out)

	// an inner cycle refers to its position in the traversal
	inner := ohvalue.NewMap()
	inner.Set("back", inner)
	outer := ohvalue.MapOf("in", inner)
	out, err = Canonical(&cfg, outer)
	require.NoError(t, err)
	require.Equal(t, "object:1:string:2:in:object:1:string:4:back:CIRCULAR:1,,", out)
}

func TestFuncProperties(t *testing.T) {
	t.Parallel()
	f := &ohvalue.Func{Name: "f", Source: "x", Props: ohvalue.MapOf("n", ohvalue.Int(1))}
	cfg := DefaultConfig()
	cfg.RespectFunctionNames = false
	out, err := Canonical(&cfg, f)
	require.NoError(t, err)
	require.Equal(t, "fn:string:1:x", out)

	cfg.RespectFunctionProperties = true
	out, err = Canonical(&cfg, f)
	require.NoError(t, err)
	require.Equal(t, "fn:string:1:xobject:1:string:1:n:number:1,", out)
}

func TestUnknown(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	v := ohvalue.MapOf("c", ohvalue.Unknown{TypeName: "chan int"})
	_, err := Canonical(&cfg, v)
	var target ErrUnsupportedType
	require.True(t, errors.As(err, &target))
	require.Equal(t, "chan int", target.TypeName)

	cfg.IgnoreUnknownTypes = true
	out, err := Canonical(&cfg, v)
	require.NoError(t, err)
	require.Equal(t, "object:1:string:1:c:[chan int],", out)
}

func TestReplacer(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.Replacer = func(v ohvalue.Value) ohvalue.Value {
		if s, ok := v.(ohvalue.Text); ok {
			return ohvalue.Text(strings.ToUpper(string(s)))
		}
		return v
	}
	out, err := Canonical(&cfg, ohvalue.MapOf("a", ohvalue.Text("b")))
	require.NoError(t, err)
	require.Equal(t, "object:1:string:1:A:string:1:B,", out)
}

func TestStackExhausted(t *testing.T) {
	t.Parallel()
	var v ohvalue.Value = ohvalue.Int(0)
	for range 10 {
		v = ohvalue.NewSeq(v)
	}
	cfg := DefaultConfig()
	cfg.MaxDepth = 5
	_, err := Canonical(&cfg, v)
	require.ErrorAs(t, err, &ErrStackExhausted{})

	cfg.MaxDepth = 11
	_, err = Canonical(&cfg, v)
	require.NoError(t, err)
}

type failingWriter struct {
	n int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	return w.WriteString(string(p))
}

func (w *failingWriter) WriteString(s string) (int, error) {
	if w.n == 0 {
		return 0, errors.New("sink full")
	}
	w.n--
	return len(s), nil
}

func TestWriteError(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	err := Encode(&cfg, &failingWriter{n: 2}, ohvalue.MapOf("a", ohvalue.Int(1)))
	require.EqualError(t, err, "sink full")
}

func TestErrorMessagesDelimited(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	a, err := Canonical(&cfg, ohvalue.NewSeq(ohvalue.Error{Message: "a"}, ohvalue.Error{Message: "berror:c"}))
	require.NoError(t, err)
	b, err := Canonical(&cfg, ohvalue.NewSeq(ohvalue.Error{Message: "aerror:b"}, ohvalue.Error{Message: "c"}))
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestVisitedSet(t *testing.T) {
	t.Parallel()
	a, b := ohvalue.NewSeq(), ohvalue.NewSeq()
	var vs VisitedSet
	require.Equal(t, -1, vs.IndexOf(a))
	vs.Push(a)
	c := vs.Clone()
	c.Push(b)
	require.Equal(t, 0, vs.IndexOf(a))
	require.Equal(t, -1, vs.IndexOf(b))
	require.Equal(t, 1, c.IndexOf(b))
	require.Equal(t, 1, vs.Len())
	require.Equal(t, 2, c.Len())
}
