package objhash

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"objhash.org/objhash/ohdigest"
	"objhash.org/objhash/ohvalue"
)

func TestKnownFingerprints(t *testing.T) {
	t.Parallel()
	a1 := map[string]any{"a": 1}
	tcs := []struct {
		Fn  func(any) (Fingerprint, error)
		In  any
		Out string
	}{
		{SHA1, map[string]any{}, "535c3001aaae9307daae192e1467b64126937576"},
		{SHA1, a1, "210d35c5570b50b4d15d7ecc3f73f9bab93b24cc"},
		{MD5, a1, "c791832128d92b29a9b147fe03d10eb9"},
		{Keys, a1, "1c45b860d7be166618e3e15e12cc1259679bac30"},
		{KeysMD5, a1, "e2f2def21ee44ae904e98a6e0d399625"},
		{
			func(x any) (Fingerprint, error) { return Hash(x, WithEncoding("BASE64")) },
			a1, "IQ01xVcLULTRXX7MP3P5urk7JMw=",
		},
		{
			func(x any) (Fingerprint, error) { return Hash(x, WithAlgorithm("passthrough")) },
			a1, "object:1:string:1:a:number:1,",
		},
	}
	for i, tc := range tcs {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			fp, err := tc.Fn(tc.In)
			require.NoError(t, err)
			require.Equal(t, tc.Out, fp.String())
		})
	}
}

func TestDeterminism(t *testing.T) {
	t.Parallel()
	x := map[string]any{
		"name": "x",
		"tags": []string{"b", "a"},
		"n":    map[int]float64{1: 1.5, 2: 2.5},
	}
	fp1, err := SHA1(x)
	require.NoError(t, err)
	fp2, err := SHA1(x)
	require.NoError(t, err)
	require.Equal(t, fp1, fp2)
}

func TestConcreteScenarios(t *testing.T) {
	t.Parallel()
	xy := mustHash(t, ohvalue.MapOf("x", ohvalue.Int(1), "y", ohvalue.Int(2)))
	yx := mustHash(t, ohvalue.MapOf("y", ohvalue.Int(2), "x", ohvalue.Int(1)))
	xy3 := mustHash(t, ohvalue.MapOf("x", ohvalue.Int(1), "y", ohvalue.Int(3)))
	require.Equal(t, xy.Data, yx.Data)
	require.NotEqual(t, xy.Data, xy3.Data)

	distinct := []Fingerprint{
		mustHash(t, []any{}),
		mustHash(t, []any{1}),
		mustHash(t, map[string]any{}),
		mustHash(t, nil),
	}
	seen := map[string]struct{}{}
	for _, fp := range distinct {
		seen[fp.String()] = struct{}{}
	}
	require.Len(t, seen, len(distinct))
}

func TestSensitivity(t *testing.T) {
	t.Parallel()
	require.NotEqual(t,
		mustHash(t, map[string]int{"a": 1}).String(),
		mustHash(t, map[string]int{"a": 2}).String(),
	)
	require.NotEqual(t, mustHash(t, "1").String(), mustHash(t, 1).String())
}

func TestArrayOrder(t *testing.T) {
	t.Parallel()
	require.Equal(t, mustHash(t, []int{1, 2, 3}), mustHash(t, []int{3, 1, 2}))

	a, err := Hash([]int{1, 2}, OrderedArrays())
	require.NoError(t, err)
	b, err := Hash([]int{2, 1}, OrderedArrays())
	require.NoError(t, err)
	require.False(t, a.Equal(b))
}

func TestExcludeValues(t *testing.T) {
	t.Parallel()
	a1, err := Keys(map[string]int{"a": 1})
	require.NoError(t, err)
	a2, err := Keys(map[string]int{"a": 2})
	require.NoError(t, err)
	b1, err := Keys(map[string]int{"b": 1})
	require.NoError(t, err)
	require.True(t, a1.Equal(a2))
	require.False(t, a1.Equal(b1))
}

func TestCycleSafety(t *testing.T) {
	t.Parallel()
	m := map[string]any{}
	m["self"] = m
	fp1 := mustHash(t, m)
	fp2 := mustHash(t, m)
	require.Equal(t, fp1, fp2)

	broken := mustHash(t, map[string]any{"self": nil})
	require.NotEqual(t, fp1.String(), broken.String())

	s, err := Canonical(m)
	require.NoError(t, err)
	require.Equal(t, "object:1:string:4:self:CIRCULAR:0,", s)
}

func TestPassthroughGrammar(t *testing.T) {
	t.Parallel()
	s, err := Canonical(map[string]int{"a": 1})
	require.NoError(t, err)
	var last int
	for _, sub := range []string{"object:1:", "string:1:a", "number:1"} {
		i := strings.Index(s[last:], sub)
		require.GreaterOrEqual(t, i, 0, "missing %q in %q", sub, s)
		last += i + len(sub)
	}
}

func TestStructs(t *testing.T) {
	t.Parallel()
	type Doc struct {
		Title string `objhash:"title"`
		Body  string `objhash:"-"`
	}
	a := mustHash(t, Doc{Title: "x", Body: "1"})
	b := mustHash(t, Doc{Title: "x", Body: "2"})
	m := mustHash(t, map[string]string{"title": "x"})
	require.Equal(t, a, b)
	require.Equal(t, a, m)

	a, err := Hash(Doc{Title: "x"}, RespectType())
	require.NoError(t, err)
	m, err = Hash(map[string]string{"title": "x"}, RespectType())
	require.NoError(t, err)
	require.NotEqual(t, a, m)
}

func TestErrors(t *testing.T) {
	t.Parallel()
	_, err := Hash(1, WithAlgorithm("crc32"))
	var algoErr ErrUnsupportedAlgorithm
	require.True(t, errors.As(err, &algoErr))
	require.Contains(t, algoErr.Supported, "sha1")

	_, err = Hash(1, WithEncoding("utf16"))
	require.ErrorAs(t, err, &ErrUnsupportedEncoding{})

	// encoding is not checked for passthrough
	_, err = Hash(1, WithAlgorithm("passthrough"), WithEncoding("utf16"))
	require.NoError(t, err)

	_, err = Hash(ohvalue.Undefined{})
	require.ErrorIs(t, err, ErrMissingArgument)
	_, err = New(WithAlgorithm("nope"))
	require.Error(t, err)

	_, err = SHA1(map[string]any{"c": make(chan int)})
	require.ErrorAs(t, err, &ErrUnsupportedType{})
	_, err = Hash(map[string]any{"c": make(chan int)}, IgnoreUnknownTypes())
	require.NoError(t, err)

	var deep any = 1
	for range 100 {
		deep = []any{deep}
	}
	_, err = Hash(deep, WithMaxDepth(50))
	require.ErrorAs(t, err, &ErrStackExhausted{})
}

func TestWriteCanonical(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	x := map[string]any{"a": []byte("xyz"), "b": true}
	require.NoError(t, WriteCanonical(&buf, x))
	s, err := Canonical(x)
	require.NoError(t, err)
	require.Equal(t, s, buf.String())
	require.Equal(t, "object:2:string:1:a:buffer:xyz,string:1:b:bool:true,", s)

	require.Error(t, WriteCanonical(&buf, x, WithAlgorithm("crc32")))
}

func TestHasherConcurrent(t *testing.T) {
	t.Parallel()
	h, err := New(WithAlgorithm("sha256"))
	require.NoError(t, err)
	want, err := h.Hash([]string{"a", "b", "c"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	fps := make([]Fingerprint, 16)
	errs := make([]error, len(fps))
	for i := range fps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fps[i], errs[i] = h.Hash([]string{"c", "b", "a"})
		}()
	}
	wg.Wait()
	for i, fp := range fps {
		require.NoError(t, errs[i])
		require.Equal(t, want, fp)
	}
}

func TestValuePointers(t *testing.T) {
	t.Parallel()
	type doc struct {
		N *ohvalue.Number
	}
	n := ohvalue.Int(1)
	a, err := Canonical(doc{N: &n})
	require.NoError(t, err)
	require.Equal(t, "object:1:string:1:N:number:1,", a)

	txt := ohvalue.Text("hi")
	out, err := Canonical(&txt)
	require.NoError(t, err)
	require.Equal(t, "string:2:hi", out)

	out, err = Canonical(*ohvalue.MapOf("a", ohvalue.Int(1)))
	require.NoError(t, err)
	require.Equal(t, "object:1:string:1:a:number:1,", out)
}

func TestFingerprintEncodings(t *testing.T) {
	t.Parallel()
	x := map[string]any{"a": 1}
	var fps []Fingerprint
	for _, enc := range ohdigest.Encodings() {
		fp, err := Hash(x, WithEncoding(enc))
		require.NoError(t, err)
		fps = append(fps, fp)
	}
	for _, fp := range fps[1:] {
		require.True(t, fps[0].Equal(fp), "%v vs %v", fps[0].Encoding, fp.Encoding)
	}

	key, err := fps[0].Key()
	require.NoError(t, err)
	require.Equal(t, "sha1:210d35c5570b50b4d15d7ecc3f73f9bab93b24cc", key)
	parsed, err := ParseKey(key)
	require.NoError(t, err)
	require.True(t, parsed.Equal(fps[0]))

	_, err = ParseKey("sha1")
	require.Error(t, err)
	_, err = ParseKey("sha1:zz")
	require.Error(t, err)
}

func mustHash(t testing.TB, x any) Fingerprint {
	fp, err := SHA1(x)
	require.NoError(t, err)
	return fp
}
