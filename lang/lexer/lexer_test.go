package lexer

import (
	"errors"
	"strings"
	"testing"
)

type want struct {
	kind  Kind
	value any
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []want
	}{
		{
			name:  "plain text",
			input: "  hello  world \n",
			want:  []want{{Text, "hello  world"}},
		},
		{
			name:  "echo variable",
			input: "{$= i $}",
			want: []want{
				{TagOpen, Open}, {TagName, "="}, {Variable, "i"}, {TagClose, Close},
			},
		},
		{
			name:  "echo without spaces",
			input: "{$=i$}",
			want: []want{
				{TagOpen, Open}, {TagName, "="}, {Variable, "i"}, {TagClose, Close},
			},
		},
		{
			name:  "for header",
			input: "{$FOR i 1 10 2$}",
			want: []want{
				{TagOpen, Open}, {Keyword, KeywordFor}, {Variable, "i"},
				{Integer, int64(1)}, {Integer, int64(10)}, {Integer, int64(2)},
				{TagClose, Close},
			},
		},
		{
			name:  "keywords ignore case",
			input: "{$ for x 1 2 $}{$ End $}",
			want: []want{
				{TagOpen, Open}, {Keyword, KeywordFor}, {Variable, "x"},
				{Integer, int64(1)}, {Integer, int64(2)}, {TagClose, Close},
				{TagOpen, Open}, {Keyword, KeywordEnd}, {TagClose, Close},
			},
		},
		{
			name:  "mixed elements",
			input: `{$= "a\"b" @sin 3.14 -2 + $}`,
			want: []want{
				{TagOpen, Open}, {TagName, "="}, {String, `a"b`},
				{Function, "sin"}, {Float, 3.14}, {Integer, int64(-2)},
				{Operator, "+"}, {TagClose, Close},
			},
		},
		{
			name:  "string escapes",
			input: `{$= "x\ny\\z\r" $}`,
			want: []want{
				{TagOpen, Open}, {TagName, "="}, {String, "x\ny\\z\r"},
				{TagClose, Close},
			},
		},
		{
			name:  "string with spaces and braces",
			input: `{$= "a {b} c" $}`,
			want: []want{
				{TagOpen, Open}, {TagName, "="}, {String, "a {b} c"},
				{TagClose, Close},
			},
		},
		{
			name:  "exponent float",
			input: "{$= 1e3 2.5E-1 $}",
			want: []want{
				{TagOpen, Open}, {TagName, "="}, {Float, 1000.0}, {Float, 0.25},
				{TagClose, Close},
			},
		},
		{
			name:  "float without integer part",
			input: "{$= .5 -.25 +.5e1 $}",
			want: []want{
				{TagOpen, Open}, {TagName, "="}, {Float, 0.5}, {Float, -0.25},
				{Float, 5.0}, {TagClose, Close},
			},
		},
		{
			name:  "adjacent strings",
			input: `{$= "a""b\\"$}`,
			want: []want{
				{TagOpen, Open}, {TagName, "="}, {String, "a"}, {String, `b\`},
				{TagClose, Close},
			},
		},
		{
			name:  "operators",
			input: "{$= 5 2 - * / ^ $}",
			want: []want{
				{TagOpen, Open}, {TagName, "="}, {Integer, int64(5)},
				{Integer, int64(2)}, {Operator, "-"}, {Operator, "*"},
				{Operator, "/"}, {Operator, "^"}, {TagClose, Close},
			},
		},
		{
			name:  "text around tags",
			input: "a {$END$} b",
			want: []want{
				{Text, "a "}, {TagOpen, Open}, {Keyword, KeywordEnd},
				{TagClose, Close}, {Text, " b"},
			},
		},
		{
			name:  "lone brace in text",
			input: "a{b",
			want:  []want{{Text, "a"}, {Text, "{b"}},
		},
		{
			name:  "named tag",
			input: "{$ echo $}",
			want:  []want{{TagOpen, Open}, {TagName, "echo"}, {TagClose, Close}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(toks) != len(tt.want) {
				t.Fatalf("expected %d tokens, got %d: %v", len(tt.want), len(toks), toks)
			}

			for i, w := range tt.want {
				if toks[i].Kind != w.kind {
					t.Errorf("token %d: expected kind %v, got %v", i, w.kind, toks[i].Kind)
				}

				if toks[i].Value != w.value {
					t.Errorf("token %d: expected value %#v, got %#v", i, w.value, toks[i].Value)
				}
			}
		})
	}
}

func TestTokenize_LexicalErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown symbol", "{$= # $}"},
		{"integer overflow", "{$= 99999999999999999999 $}"},
		{"bad float", "{$= 3.x $}"},
		{"lone point", "{$= . $}"},
		{"point exponent", "{$= .e5 $}"},
		{"unterminated string", `{$= "abc $}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			if !errors.Is(err, ErrLexical) {
				t.Errorf("expected ErrLexical, got %v", err)
			}
		})
	}
}

func TestLexer_Positions(t *testing.T) {
	toks, err := Tokenize("ab\n{$= x $}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []Pos{
		{Offset: 0, Line: 1, Column: 1},
		{Offset: 3, Line: 2, Column: 1},
		{Offset: 5, Line: 2, Column: 3},
		{Offset: 7, Line: 2, Column: 5},
		{Offset: 9, Line: 2, Column: 7},
	}

	if len(toks) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(toks))
	}

	for i, p := range expected {
		if toks[i].Pos != p {
			t.Errorf("token %d: expected pos %+v, got %+v", i, p, toks[i].Pos)
		}
	}
}

func TestLexer_Next_EOFRepeats(t *testing.T) {
	l := New("x")

	if tok, err := l.Next(); err != nil || tok.Kind != Text {
		t.Fatalf("expected text token, got %v, %v", tok, err)
	}

	for range 3 {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if tok.Kind != EOF {
			t.Errorf("expected EOF, got %v", tok)
		}
	}
}

func TestLexer_Next_ErrorIsSticky(t *testing.T) {
	l := New("{$= # $} tail")

	var first error
	for first == nil {
		_, first = l.Next()
	}

	if _, err := l.Next(); !errors.Is(err, ErrLexical) {
		t.Errorf("expected repeated ErrLexical, got %v", err)
	}
}

func TestLexer_EmptyInput(t *testing.T) {
	toks, err := Tokenize("   \n\t ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(toks) != 0 {
		t.Errorf("expected no tokens, got %v", toks)
	}
}

func TestKind_String(t *testing.T) {
	if Keyword.String() != "Keyword" {
		t.Errorf("expected Keyword, got %s", Keyword)
	}

	if Kind(99).String() != "Kind(99)" {
		t.Errorf("expected Kind(99), got %s", Kind(99))
	}
}

func BenchmarkTokenize(b *testing.B) {
	src := `<ul>{$FOR i 0 100 1$}<li>{$= i i * "0.00" @decfmt $}</li>{$END$}</ul>`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Tokenize(src); err != nil {
			b.Fatal(err)
		}
	}
}

func TestTokenize_LongString(t *testing.T) {
	body := strings.Repeat(`ab\"{c} `, 20000)

	toks, err := Tokenize(`{$= "` + body + `" 1 $}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(toks) != 5 {
		t.Fatalf("expected 5 tokens, got %d", len(toks))
	}

	want := strings.Repeat(`ab"{c} `, 20000)
	if toks[2].Kind != String || toks[2].Value != want {
		t.Errorf("unexpected string token %v", toks[2].Kind)
	}

	if toks[3].Value != int64(1) {
		t.Errorf("expected integer after string, got %#v", toks[3].Value)
	}
}

func BenchmarkTokenize_LongString(b *testing.B) {
	src := `{$= "` + strings.Repeat("a", 32000) + `" $}`

	for b.Loop() {
		if _, err := Tokenize(src); err != nil {
			b.Fatal(err)
		}
	}
}
