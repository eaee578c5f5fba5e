// Package elem defines the atoms of echo expressions and loop headers.
package elem

import (
	"math"
	"strconv"
	"strings"

	"github.com/ardnew/smscr/lang/lexer"
)

// Element is one of [Integer], [Float], [String], [Variable], [Function], or
// [Operator]. The set is closed.
type Element interface {
	// Text renders the element the way it would appear in source.
	Text() string
	// IsConstant reports whether the element is a literal value.
	IsConstant() bool

	element()
}

type (
	// Integer is a constant 64-bit integer.
	Integer struct{ Value int64 }
	// Float is a constant 64-bit float.
	Float struct{ Value float64 }
	// String is a string literal with escapes already resolved.
	String struct{ Value string }
	// Variable references a multistack entry by name.
	Variable struct{ Name string }
	// Function references a native function by name, without the '@'.
	Function struct{ Name string }
	// Operator is one of + - * / ^.
	Operator struct{ Symbol string }
)

func (Integer) element()  {}
func (Float) element()    {}
func (String) element()   {}
func (Variable) element() {}
func (Function) element() {}
func (Operator) element() {}

func (Integer) IsConstant() bool  { return true }
func (Float) IsConstant() bool    { return true }
func (String) IsConstant() bool   { return true }
func (Variable) IsConstant() bool { return false }
func (Function) IsConstant() bool { return false }
func (Operator) IsConstant() bool { return false }

func (e Integer) Text() string { return strconv.FormatInt(e.Value, 10) }

// Text renders the float so that it lexes back as a float. Infinities are
// rendered as out-of-range literals.
func (e Float) Text() string {
	switch {
	case math.IsInf(e.Value, 1):
		return "1e999"
	case math.IsInf(e.Value, -1):
		return "-1e999"
	}

	s := strconv.FormatFloat(e.Value, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}

	return s
}

var quoter = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
)

func (e String) Text() string   { return `"` + quoter.Replace(e.Value) + `"` }
func (e Variable) Text() string { return e.Name }
func (e Function) Text() string { return "@" + e.Name }
func (e Operator) Text() string { return e.Symbol }

// Kind returns a short lower-case name for the element's variant.
func Kind(e Element) string {
	switch e.(type) {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case String:
		return "string"
	case Variable:
		return "variable"
	case Function:
		return "function"
	case Operator:
		return "operator"
	default:
		return "unknown"
	}
}

// FromToken converts a token into an element. It reports false for tokens
// that are not elements (keywords, tag names, delimiters, text, EOF).
func FromToken(tok lexer.Token) (Element, bool) {
	switch tok.Kind {
	case lexer.Integer:
		v, ok := tok.Value.(int64)

		return Integer{Value: v}, ok
	case lexer.Float:
		v, ok := tok.Value.(float64)

		return Float{Value: v}, ok
	case lexer.String:
		return String{Value: tok.Str()}, true
	case lexer.Variable:
		return Variable{Name: tok.Str()}, true
	case lexer.Function:
		return Function{Name: tok.Str()}, true
	case lexer.Operator:
		return Operator{Symbol: tok.Str()}, true
	default:
		return nil, false
	}
}
