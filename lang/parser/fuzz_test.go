package parser

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/ardnew/smscr/lang/ast"
)

// FuzzParse checks that parsing never panics, that every failure is an
// ErrParse, and that formatting a parsed tree is stable.
func FuzzParse(f *testing.F) {
	f.Add("text")
	f.Add("{$FOR i 1 3 1$}{$= i $}{$END$}")
	f.Add("{$= 5 2 - \"s\" @dup $}")
	f.Add("{$END$}")
	f.Add("{$FOR i$}")
	f.Add("{$= {$")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		doc, err := Parse(context.Background(), input)
		if err != nil {
			if !errors.Is(err, ErrParse) {
				t.Fatalf("error %v does not match ErrParse", err)
			}

			return
		}

		first := ast.String(doc)

		again, err := Parse(context.Background(), first)
		if err != nil {
			t.Fatalf("formatted source %q does not parse: %v", first, err)
		}

		if second := ast.String(again); second != first {
			t.Fatalf("format not stable:\n  first:  %q\n  second: %q", first, second)
		}
	})
}
