package lexer

import (
	"testing"
	"unicode/utf8"
)

// FuzzLexer checks that tokenizing never panics and that token positions
// advance monotonically.
func FuzzLexer(f *testing.F) {
	f.Add("text only")
	f.Add("{$= i $}")
	f.Add("{$FOR i 1 10 1$}{$= i @sin $}{$END$}")
	f.Add(`{$= "quoted \"x\" \\ \n" $}`)
	f.Add("{$= 3.14 -2 1e9 + $}")
	f.Add("{$")
	f.Add("$}")
	f.Add("{{$$}}")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		last := -1

		for tok, err := range New(input).All() {
			if err != nil {
				return
			}

			if tok.Pos.Offset <= last {
				t.Fatalf("token offset %d does not advance past %d in %q", tok.Pos.Offset, last, input)
			}

			last = tok.Pos.Offset
		}
	})
}
