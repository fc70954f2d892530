package ohvalue

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Number is a numeric Value.
// It holds the canonical decimal form of the number, so that the same quantity
// always has the same representation regardless of the Go type it came from.
type Number struct {
	text string
}

func (Number) Kind() Kind { return K_Number }
func (Number) isValue()   {}

func Int(x int64) Number {
	return Number{text: strconv.FormatInt(x, 10)}
}

func Uint(x uint64) Number {
	return Number{text: strconv.FormatUint(x, 10)}
}

// Integer returns the Number for an integer of any type.
func Integer[T constraints.Integer](x T) Number {
	if x < 0 {
		return Int(int64(x))
	}
	return Uint(uint64(x))
}

func Float(x float64) Number {
	return Number{text: formatFloat(x, 64)}
}

// Float32 uses the shortest decimal form which round trips through a float32.
func Float32(x float32) Number {
	return Number{text: formatFloat(float64(x), 32)}
}

// ParseNumber parses a decimal literal, such as a json.Number.
// Integer literals are kept exact, at any size.
func ParseNumber(s string) (Number, error) {
	if x, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(x), nil
	}
	if x, err := strconv.ParseUint(s, 10, 64); err == nil {
		return Uint(x), nil
	}
	if isIntLiteral(s) {
		var bi big.Int
		if _, ok := bi.SetString(s, 10); ok {
			return Number{text: bi.String()}, nil
		}
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}, fmt.Errorf("ohvalue: invalid number %q", s)
	}
	return Float(x), nil
}

// String returns the canonical decimal form
func (n Number) String() string {
	if n.text == "" {
		return "0"
	}
	return n.text
}

// formatFloat formats x using the shortest decimal digits which round trip,
// switching to exponential notation outside of [1e-7, 1e21).
func formatFloat(x float64, bitSize int) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	case x == 0:
		// includes negative zero
		return "0"
	}
	var sign string
	if x < 0 {
		sign = "-"
		x = -x
	}
	s := strconv.FormatFloat(x, 'e', -1, bitSize)
	mant, expStr, _ := strings.Cut(s, "e")
	digits := strings.Replace(mant, ".", "", 1)
	exp, err := strconv.Atoi(expStr)
	if err != nil {
		panic(err)
	}
	k := len(digits)
	// n is the position of the decimal point relative to the digits
	n := exp + 1
	switch {
	case k <= n && n <= 21:
		return sign + digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		return sign + digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		return sign + "0." + strings.Repeat("0", -n) + digits
	}
	e := n - 1
	esign := "+"
	if e < 0 {
		esign = "-"
		e = -e
	}
	if k == 1 {
		return sign + digits + "e" + esign + strconv.Itoa(e)
	}
	return sign + digits[:1] + "." + digits[1:] + "e" + esign + strconv.Itoa(e)
}

func isIntLiteral(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
