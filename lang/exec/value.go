package exec

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/ardnew/smscr/lang/elem"
)

// ValueKind identifies the variant held by a [Value].
type ValueKind int

// Value kinds. The zero Value is Absent.
const (
	Absent ValueKind = iota
	Int
	Float
	String
)

func (k ValueKind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	default:
		return "ValueKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a runtime value: Absent, a 64-bit integer, a 64-bit float, or a
// string. Values are immutable and comparable.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	s    string
}

// IntValue returns an Int value.
func IntValue(n int64) Value { return Value{kind: Int, i: n} }

// FloatValue returns a Float value.
func FloatValue(f float64) Value { return Value{kind: Float, f: f} }

// StringValue returns a String value.
func StringValue(s string) Value { return Value{kind: String, s: s} }

// Constant returns the value of a constant element. It reports false for
// variables, functions, and operators.
func Constant(e elem.Element) (Value, bool) {
	switch e := e.(type) {
	case elem.Integer:
		return IntValue(e.Value), true
	case elem.Float:
		return FloatValue(e.Value), true
	case elem.String:
		return StringValue(e.Value), true
	default:
		return Value{}, false
	}
}

// Kind returns the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// Int returns the integer held by an Int value, and 0 otherwise.
func (v Value) Int() int64 { return v.i }

// Float returns the float held by a Float value, and 0 otherwise.
func (v Value) Float() float64 { return v.f }

// String returns the text form of v: integers in decimal, floats in
// scientific-or-plain notation ("3.5", "3.0", "1.0E7"), strings verbatim,
// and "null" for Absent.
func (v Value) String() string {
	switch v.kind {
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Float:
		return formatFloat(v.f)
	case String:
		return v.s
	default:
		return "null"
	}
}

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", v.kind.String()),
		slog.String("value", v.String()),
	)
}

// numeric returns v prepared for arithmetic: Absent becomes Int 0, and a
// String becomes an Int if it parses as one or a Float if it parses as one.
func (v Value) numeric() (Value, error) {
	switch v.kind {
	case Absent:
		return IntValue(0), nil

	case Int, Float:
		return v, nil

	case String:
		s := strings.TrimSpace(v.s)

		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return IntValue(n), nil
		}

		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return FloatValue(f), nil
		}
	}

	return Value{}, ErrCoercion.With(slog.Any("operand", v))
}

// asFloat returns v as a float64 after preparing it for arithmetic.
func (v Value) asFloat() (float64, error) {
	n, err := v.numeric()
	if err != nil {
		return 0, err
	}

	if n.kind == Int {
		return float64(n.i), nil
	}

	return n.f, nil
}

// Add returns a + b.
func Add(a, b Value) (Value, error) { return arith(a, b, addf) }

// Sub returns a - b.
func Sub(a, b Value) (Value, error) { return arith(a, b, subf) }

// Mul returns a * b.
func Mul(a, b Value) (Value, error) { return arith(a, b, mulf) }

// Div returns a / b.
func Div(a, b Value) (Value, error) { return arith(a, b, divf) }

// Pow returns a raised to b.
func Pow(a, b Value) (Value, error) { return arith(a, b, math.Pow) }

func addf(a, b float64) float64 { return a + b }
func subf(a, b float64) float64 { return a - b }
func mulf(a, b float64) float64 { return a * b }
func divf(a, b float64) float64 { return a / b }

// arith computes op in floating point. If both prepared operands are Int, the
// result is truncated toward zero.
func arith(a, b Value, op func(float64, float64) float64) (Value, error) {
	na, err := a.numeric()
	if err != nil {
		return Value{}, err
	}

	nb, err := b.numeric()
	if err != nil {
		return Value{}, err
	}

	fa, _ := na.asFloat()
	fb, _ := nb.asFloat()
	r := op(fa, fb)

	if na.kind == Int && nb.kind == Int {
		return IntValue(truncate(r)), nil
	}

	return FloatValue(r), nil
}

// truncate converts f to int64 toward zero. NaN becomes 0 and out-of-range
// values saturate.
func truncate(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(f)
	}
}

// Compare compares a and b numerically, returning -1, 0, or +1.
// NaN compares equal to itself and greater than every other number.
func Compare(a, b Value) (int, error) {
	fa, err := a.asFloat()
	if err != nil {
		return 0, err
	}

	fb, err := b.asFloat()
	if err != nil {
		return 0, err
	}

	switch an, bn := math.IsNaN(fa), math.IsNaN(fb); {
	case an && bn:
		return 0, nil
	case an:
		return 1, nil
	case bn:
		return -1, nil
	case fa < fb:
		return -1, nil
	case fa > fb:
		return 1, nil
	default:
		return 0, nil
	}
}

// formatFloat renders f in plain notation when 1e-3 <= |f| < 1e7 and in
// scientific notation otherwise, always with at least one fractional digit.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}

		return "0.0"
	}

	if abs := math.Abs(f); abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}

		return s
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")

	if !strings.Contains(mant, ".") {
		mant += ".0"
	}

	sign := ""
	if exp[0] == '-' {
		sign = "-"
	}

	exp = strings.TrimLeft(exp[1:], "0")
	if exp == "" {
		exp = "0"
	}

	return mant + "E" + sign + exp
}
