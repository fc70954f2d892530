package ohvalue

import (
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNumberText(t *testing.T) {
	t.Parallel()
	tcs := []struct {
		N    Number
		Text string
	}{
		{Int(0), "0"},
		{Int(-12), "-12"},
		{Uint(math.MaxUint64), "18446744073709551615"},
		{Float(1), "1"},
		{Float(-0.0), "0"},
		{Float(math.Copysign(0, -1)), "0"},
		{Float(0.5), "0.5"},
		{Float(123.45), "123.45"},
		{Float(1e21), "1e+21"},
		{Float(1e20), "100000000000000000000"},
		{Float(1.5e-7), "1.5e-7"},
		{Float(0.000001), "0.000001"},
		{Float(math.NaN()), "NaN"},
		{Float(math.Inf(1)), "Infinity"},
		{Float(math.Inf(-1)), "-Infinity"},
		{Float32(0.1), "0.1"},
		{Integer(int8(-7)), "-7"},
		{Integer(uint32(7)), "7"},
		{Number{}, "0"},
	}
	for i, tc := range tcs {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			require.Equal(t, tc.Text, tc.N.String())
		})
	}
}

func TestParseNumber(t *testing.T) {
	t.Parallel()
	tcs := []struct {
		In   string
		Text string
	}{
		{"1", "1"},
		{"1.0", "1"},
		{"-0", "0"},
		{"1e2", "100"},
		{"2.50", "2.5"},
		{"123456789012345678901234567890", "123456789012345678901234567890"},
		{"-00042", "-42"},
	}
	for i, tc := range tcs {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			n, err := ParseNumber(tc.In)
			require.NoError(t, err)
			require.Equal(t, tc.Text, n.String())
		})
	}
	_, err := ParseNumber("twelve")
	require.Error(t, err)
}

func TestMapFields(t *testing.T) {
	t.Parallel()
	m := NewMap()
	m.Set("b", Int(1))
	m.Set("a", Int(2))
	m.Set("b", Int(3))
	require.Equal(t, 2, m.Len())
	require.Equal(t, []string{"b", "a"}, m.Keys())
	require.Equal(t, []string{"a", "b"}, m.SortedKeys())
	v, ok := m.Get("b")
	require.True(t, ok)
	require.Equal(t, Int(3), v)

	m.Delete("b")
	require.Equal(t, []string{"a"}, m.Keys())
	_, ok = m.Get("b")
	require.False(t, ok)
}

type point struct {
	X, Y   int
	Label  string `objhash:"label"`
	Secret string `objhash:"-"`
	hidden int
}

type node struct {
	Name string
	Next *node
}

func TestFrom(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)
	tcs := []struct {
		In   any
		Kind Kind
	}{
		{nil, K_Null},
		{(*int)(nil), K_Null},
		{map[string]int(nil), K_Null},
		{true, K_Bool},
		{int8(3), K_Number},
		{uint16(3), K_Number},
		{3.5, K_Number},
		{"x", K_Text},
		{[]byte("abc"), K_Buffer},
		{[4]byte{1, 2, 3, 4}, K_Buffer},
		{[]int{1, 2}, K_Seq},
		{[2]string{"a", "b"}, K_Seq},
		{map[int]bool{1: true}, K_Map},
		{point{X: 1}, K_Object},
		{&point{X: 1}, K_Object},
		{now, K_Date},
		{&now, K_Date},
		{regexp.MustCompile("a+b"), K_Pattern},
		{errors.New("boom"), K_Error},
		{json.Number("12"), K_Number},
		{big.NewInt(7), K_Number},
		{strconv.Itoa, K_Func},
		{make(chan int), K_Unknown},
		{complex(1, 2), K_Unknown},
		{Undefined{}, K_Undefined},
		{NewSeq(), K_Seq},
	}
	for i, tc := range tcs {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			v, err := From(tc.In)
			require.NoError(t, err)
			require.Equal(t, tc.Kind, v.Kind(), "%T", tc.In)
		})
	}
}

type withNumber struct {
	N *Number
	T *Text
}

func TestFromValuePointers(t *testing.T) {
	t.Parallel()
	n, txt, b := Int(7), Text("x"), Bool(true)

	v, err := From(&txt)
	require.NoError(t, err)
	require.Equal(t, txt, v)
	v, err = From(&b)
	require.NoError(t, err)
	require.Equal(t, b, v)

	v, err = From(withNumber{N: &n, T: &txt})
	require.NoError(t, err)
	obj := v.(*Object)
	x, _ := obj.Get("N")
	require.Equal(t, n, x)
	y, _ := obj.Get("T")
	require.Equal(t, txt, y)

	seq := NewSeq(Int(1))
	v, err = From(&seq)
	require.NoError(t, err)
	require.Same(t, seq, v)
}

func TestFromCompositeByValue(t *testing.T) {
	t.Parallel()
	v, err := From(*MapOf("a", Int(1)))
	require.NoError(t, err)
	m, ok := v.(*Map)
	require.True(t, ok, "%T", v)
	require.Equal(t, []string{"a"}, m.Keys())

	v, err = From(*NewSeq(Int(1), Int(2)))
	require.NoError(t, err)
	require.Equal(t, 2, v.(*Seq).Len())

	obj := NewObject("pkg.T")
	obj.Set("k", Text("v"))
	v, err = From(*obj)
	require.NoError(t, err)
	require.Equal(t, "pkg.T", v.(*Object).TypeName)
	require.Equal(t, []string{"k"}, v.(*Object).Keys())
}

func TestFromStruct(t *testing.T) {
	t.Parallel()
	v, err := From(point{X: 1, Y: 2, Label: "p", Secret: "s", hidden: 3})
	require.NoError(t, err)
	obj := v.(*Object)
	require.Equal(t, "ohvalue.point", obj.TypeName)
	require.Equal(t, []string{"X", "Y", "label"}, obj.Keys())
	x, _ := obj.Get("X")
	require.Equal(t, Int(1), x)
}

func TestFromCycle(t *testing.T) {
	t.Parallel()
	n := &node{Name: "a"}
	n.Next = n
	v, err := From(n)
	require.NoError(t, err)
	obj := v.(*Object)
	next, ok := obj.Get("Next")
	require.True(t, ok)
	require.Same(t, obj, next)

	m := map[string]any{}
	m["self"] = m
	v, err = From(m)
	require.NoError(t, err)
	self, _ := v.(*Map).Get("self")
	require.Same(t, v, self)
}

func TestFromPointerCycle(t *testing.T) {
	t.Parallel()
	var x any
	x = &x
	v, err := From(x)
	require.NoError(t, err)
	require.Equal(t, K_Unknown, v.Kind())
}

func TestFromEmptySlicesDistinct(t *testing.T) {
	t.Parallel()
	v, err := From([]any{[]int{}, []int{}})
	require.NoError(t, err)
	seq := v.(*Seq)
	require.NotSame(t, seq.At(0), seq.At(1))
}

func TestFromDuplicateKey(t *testing.T) {
	t.Parallel()
	_, err := From(map[any]int{1: 1, "1": 2})
	require.ErrorAs(t, err, &ErrDuplicateKey{})
}

func TestFromTooDeep(t *testing.T) {
	t.Parallel()
	var x any = "leaf"
	for range 20 {
		x = []any{x}
	}
	_, err := Converter{MaxDepth: 10}.From(x)
	require.ErrorAs(t, err, &ErrTooDeep{})
	_, err = Converter{MaxDepth: 30}.From(x)
	require.NoError(t, err)
}
