package lexer

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/ardnew/smscr/log"
	"github.com/ardnew/smscr/pkg"
)

// ErrLexical is returned when a buffer inside a tag cannot be classified.
var ErrLexical = pkg.NewError("lexical error")

// Keywords recognized inside tags.
const (
	KeywordFor = "FOR"
	KeywordEnd = "END"
)

// Tag delimiters.
const (
	Open  = "{$"
	Close = "$}"
)

type state int

const (
	stateText state = iota
	stateTag
)

var (
	reKeyword  = regexp.MustCompile(`(?i)^(?:for|end)$`)
	reIdent    = regexp.MustCompile(`^\p{L}[\p{L}\p{Nd}_]*$`)
	reFunction = regexp.MustCompile(`^@\p{L}[\p{L}\p{Nd}_]*$`)
	reOperator = regexp.MustCompile(`^[-+*/^]$`)
	reInteger  = regexp.MustCompile(`^[+-]?\d+$`)
	reFloat    = regexp.MustCompile(
		`^[+-]?(?:\d*\.\d+(?:[eE][+-]?\d+)?|\d+[eE][+-]?\d+)$`,
	)
	reString = regexp.MustCompile(`(?s)^"(?:[^"\\]|\\.)*"$`)

	// Proper prefixes of complete tokens that match no kind on their own.
	reFloatPrefix  = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?(?:[eE][+-]?)?|\.|\.\d+[eE][+-]?)$`)
	reStringPrefix = regexp.MustCompile(`(?s)^"(?:[^"\\]|\\.)*\\?$`)
)

var unescaper = strings.NewReplacer(
	`\\`, `\`,
	`\n`, "\n",
	`\r`, "\r",
	`\"`, `"`,
)

// Lexer splits template text into tokens on demand.
// A Lexer is not safe for concurrent use.
type Lexer struct {
	src   []rune
	pos   int
	end   int
	line  int
	col   int
	state state
	prev  Kind
	err   error
	log   log.Logger
}

// Option configures a [Lexer].
type Option = pkg.Option[*Lexer]

// WithLogger sets the logger used for trace output.
func WithLogger(l log.Logger) Option {
	return func(x *Lexer) *Lexer {
		x.log = l

		return x
	}
}

// New returns a Lexer over input. Surrounding whitespace is ignored.
func New(input string, opts ...Option) *Lexer {
	src := []rune(input)

	l := pkg.Apply(&Lexer{src: src, end: len(src), line: 1, col: 1, prev: EOF}, opts...)

	for l.end > 0 && unicode.IsSpace(src[l.end-1]) {
		l.end--
	}

	for l.pos < l.end && unicode.IsSpace(src[l.pos]) {
		l.advance()
	}

	if l.hasPrefix(Open) {
		l.state = stateTag
	}

	return l
}

// Tokenize returns every token of input up to, but not including, EOF.
func Tokenize(input string, opts ...Option) ([]Token, error) {
	var toks []Token

	for tok, err := range New(input, opts...).All() {
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)
	}

	return toks, nil
}

// All returns an iterator over the remaining tokens. Iteration stops after
// the first error; EOF is not yielded.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if err != nil {
				yield(tok, err)

				return
			}

			if tok.Kind == EOF || !yield(tok, nil) {
				return
			}
		}
	}
}

// Next returns the next token. Once the input is exhausted it returns an EOF
// token on every call. A lexical error is returned again by every later call.
func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}

	if l.state == stateTag {
		for l.pos < l.end && unicode.IsSpace(l.src[l.pos]) {
			l.advance()
		}
	}

	start := Pos{Offset: l.pos, Line: l.line, Column: l.col}

	if l.pos >= l.end {
		return Token{Kind: EOF, Pos: start}, nil
	}

	if l.state == stateText && l.hasPrefix(Open) {
		l.state = stateTag
	}

	var tok Token

	if l.state == stateText {
		tok = l.text(start)
	} else {
		var err error
		if tok, err = l.tag(start); err != nil {
			l.err = err

			return Token{}, err
		}
	}

	l.prev = tok.Kind

	l.log.TraceContext(context.Background(), "token",
		slog.String("kind", tok.Kind.String()),
		slog.String("text", tok.Text),
		slog.String("pos", tok.Pos.String()),
	)

	return tok, nil
}

// text consumes a run of free text up to the next '{' or the end of input.
func (l *Lexer) text(start Pos) Token {
	var b strings.Builder

	for l.pos < l.end {
		if b.Len() > 0 && l.src[l.pos] == '{' {
			break
		}

		b.WriteRune(l.src[l.pos])
		l.advance()
	}

	return Token{Kind: Text, Text: b.String(), Value: b.String(), Pos: start}
}

// tag consumes the longest buffer that still classifies as a token.
func (l *Lexer) tag(start Pos) (Token, error) {
	if l.src[l.pos] == '"' {
		return l.finish(l.quoted(), start)
	}

	var b strings.Builder

	for l.pos < l.end {
		next := l.src[l.pos]

		if b.Len() > 0 {
			buf := b.String()
			complete := l.complete(buf)

			if next == '{' && !reStringPrefix.MatchString(buf) {
				break
			}

			if complete && unicode.IsSpace(next) {
				break
			}

			if complete && !l.viable(buf+string(next)) {
				break
			}
		}

		b.WriteRune(next)
		l.advance()
	}

	return l.finish(b.String(), start)
}

// quoted consumes a string literal through its closing unescaped quote, or
// through the end of input if it is never closed.
func (l *Lexer) quoted() string {
	var b strings.Builder

	b.WriteRune(l.src[l.pos])
	l.advance()

	for l.pos < l.end {
		c := l.src[l.pos]
		b.WriteRune(c)
		l.advance()

		switch c {
		case '\\':
			if l.pos < l.end {
				b.WriteRune(l.src[l.pos])
				l.advance()
			}

		case '"':
			return b.String()
		}
	}

	return b.String()
}

// finish classifies the consumed buffer raw.
func (l *Lexer) finish(raw string, start Pos) (Token, error) {
	tok, ok := l.classify(raw, start)
	if !ok {
		return Token{}, ErrLexical.With(
			slog.Int("offset", start.Offset),
			slog.Int("line", start.Line),
			slog.Int("column", start.Column),
			slog.String("text", raw),
		)
	}

	if tok.Kind == TagClose {
		l.state = stateText
	}

	return tok, nil
}

// complete reports whether buf has the shape of a whole token of some kind.
func (l *Lexer) complete(buf string) bool {
	kind, _ := l.match(buf)

	return kind != EOF
}

// viable reports whether buf is a whole token or could become one by
// appending more characters.
func (l *Lexer) viable(buf string) bool {
	if l.complete(buf) {
		return true
	}

	s := strings.TrimSpace(buf)

	return s == "$" || s == "@" ||
		reFloatPrefix.MatchString(s) || reStringPrefix.MatchString(s)
}

// match returns the kind a raw tag buffer has the shape of, and the text that
// was matched. It returns EOF if buf matches no kind.
func (l *Lexer) match(raw string) (Kind, string) {
	if trimmed := strings.TrimSpace(raw); reString.MatchString(trimmed) {
		return String, trimmed
	}

	s := strings.TrimSpace(unescaper.Replace(raw))

	switch {
	case s == "":
		return EOF, s
	case reKeyword.MatchString(s):
		return Keyword, s
	case reIdent.MatchString(s) && l.prev == TagOpen:
		return TagName, s
	case reIdent.MatchString(s):
		return Variable, s
	case reFunction.MatchString(s):
		return Function, s
	case s == "=" && l.prev == TagOpen:
		return TagName, s
	case reOperator.MatchString(s):
		return Operator, s
	case reInteger.MatchString(s):
		return Integer, s
	case reFloat.MatchString(s):
		return Float, s
	case s == Open:
		return TagOpen, s
	case s == Close:
		return TagClose, s
	default:
		return EOF, s
	}
}

// classify determines the kind and typed value of a raw tag buffer.
func (l *Lexer) classify(raw string, pos Pos) (Token, bool) {
	kind, s := l.match(raw)
	tok := Token{Kind: kind, Text: s, Value: s, Pos: pos}

	switch kind {
	case EOF:
		return tok, false

	case String:
		tok.Value = unescaper.Replace(s[1 : len(s)-1])

	case Keyword:
		tok.Value = strings.ToUpper(s)

	case Function:
		tok.Value = s[1:]

	case Integer:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return tok, false
		}

		tok.Value = n

	case Float:
		// Out-of-range literals saturate to ±Inf.
		f, err := strconv.ParseFloat(s, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return tok, false
		}

		tok.Value = f
	}

	return tok, true
}

func (l *Lexer) hasPrefix(s string) bool {
	r := []rune(s)
	if l.end-l.pos < len(r) {
		return false
	}

	for i, c := range r {
		if l.src[l.pos+i] != c {
			return false
		}
	}

	return true
}

func (l *Lexer) advance() {
	if l.src[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	l.pos++
}
