package lexer

import (
	"fmt"
	"strconv"
)

// Kind identifies the lexical class of a [Token].
type Kind int

// Token kinds.
const (
	EOF Kind = iota
	Keyword
	Variable
	Function
	TagName
	Operator
	Integer
	Float
	String
	TagOpen
	TagClose
	Text
)

var kindName = [...]string{
	EOF:      "EOF",
	Keyword:  "Keyword",
	Variable: "Variable",
	Function: "Function",
	TagName:  "TagName",
	Operator: "Operator",
	Integer:  "Integer",
	Float:    "Float",
	String:   "String",
	TagOpen:  "TagOpen",
	TagClose: "TagClose",
	Text:     "Text",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindName) {
		return kindName[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Pos locates the first character of a token in the input.
// Offset counts runes from the start of the input; Line and Column are
// 1-based.
type Pos struct {
	Offset int
	Line   int
	Column int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Token is a single lexical unit. Text holds the source characters the token
// was built from (unescaped and trimmed inside tags). Value holds the typed
// payload:
//
//	Keyword            string, upper case ("FOR", "END")
//	Variable, TagName  string, the identifier
//	Function           string, the name without the leading '@'
//	Operator           string, the single-character symbol
//	Integer            int64
//	Float              float64
//	String             string, the unquoted and unescaped contents
//	TagOpen, TagClose  string, "{$" and "$}"
//	Text               string, verbatim
//	EOF                nil
type Token struct {
	Kind  Kind
	Text  string
	Value any
	Pos   Pos
}

// Str returns the Value of a string-valued token, or Text otherwise.
func (t Token) Str() string {
	if s, ok := t.Value.(string); ok {
		return s
	}

	return t.Text
}

// IsKeyword reports whether t is the given keyword.
func (t Token) IsKeyword(word string) bool {
	return t.Kind == Keyword && t.Value == word
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "EOF"
	}

	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Text, t.Pos)
}
