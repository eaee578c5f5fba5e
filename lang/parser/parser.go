// Package parser builds syntax trees from template source.
package parser

import (
	"context"
	"log/slog"

	"github.com/ardnew/smscr/lang/ast"
	"github.com/ardnew/smscr/lang/elem"
	"github.com/ardnew/smscr/lang/lexer"
	"github.com/ardnew/smscr/log"
	"github.com/ardnew/smscr/pkg"
)

// ErrParse is matched by every error returned from [Parse]. The specific
// cause is one of the other sentinels below, or [lexer.ErrLexical].
var ErrParse = pkg.NewError("parse error")

// Parse error causes.
var (
	ErrUnmatchedEnd    = pkg.NewError("END without open FOR")
	ErrUnterminatedFor = pkg.NewError("FOR without END")
	ErrUnterminatedTag = pkg.NewError("tag not closed")
	ErrForHeader       = pkg.NewError("invalid FOR header")
	ErrMalformedTag    = pkg.NewError("malformed tag")
)

type config struct {
	log log.Logger
}

// Option configures [Parse].
type Option = pkg.Option[config]

// WithLogger sets the logger used for trace output.
func WithLogger(l log.Logger) Option {
	return func(c config) config {
		c.log = l

		return c
	}
}

type parser struct {
	lex *lexer.Lexer
	b   *ast.Builder
}

// Parse builds the tree of src. No tree is returned on error.
func Parse(ctx context.Context, src string, opts ...Option) (*ast.Document, error) {
	cfg := pkg.Apply(config{}, opts...)

	p := &parser{
		lex: lexer.New(src, lexer.WithLogger(cfg.log)),
		b:   ast.NewBuilder(),
	}

	if err := p.document(); err != nil {
		return nil, err
	}

	doc := p.b.Document()

	cfg.log.TraceContext(ctx, "parse complete",
		slog.Int("source_length", len(src)),
		slog.Int("top_level_nodes", len(doc.Children())),
	)

	return doc, nil
}

func (p *parser) next() (lexer.Token, error) {
	tok, err := p.lex.Next()
	if err != nil {
		return tok, ErrParse.Wrap(err)
	}

	return tok, nil
}

func (p *parser) document() error {
	for {
		tok, err := p.next()
		if err != nil {
			return err
		}

		switch tok.Kind {
		case lexer.EOF:
			if top := p.b.Top(); top != nil {
				return fault(ErrUnterminatedFor, top.Pos(),
					slog.String("variable", top.Variable().Name))
			}

			return nil

		case lexer.Text:
			p.b.Text(tok.Pos, tok.Text)

		case lexer.TagOpen:
			if err := p.tag(tok); err != nil {
				return err
			}

		default:
			return fault(ErrMalformedTag, tok.Pos, slog.String("token", tok.Text))
		}
	}
}

func (p *parser) tag(open lexer.Token) error {
	tok, err := p.next()
	if err != nil {
		return err
	}

	switch {
	case tok.Kind == lexer.EOF:
		return fault(ErrUnterminatedTag, open.Pos)

	case tok.IsKeyword(lexer.KeywordFor):
		return p.forLoop(open)

	case tok.IsKeyword(lexer.KeywordEnd):
		closing, err := p.next()
		if err != nil {
			return err
		}

		switch closing.Kind {
		case lexer.TagClose:
		case lexer.EOF:
			return fault(ErrUnterminatedTag, open.Pos)
		default:
			return fault(ErrMalformedTag, closing.Pos, slog.String("token", closing.Text))
		}

		if !p.b.End() {
			return fault(ErrUnmatchedEnd, open.Pos)
		}

		return nil

	case tok.Kind == lexer.TagName:
		elems, err := p.elements(open)
		if err != nil {
			return err
		}

		p.b.Echo(open.Pos, elems)

		return nil

	default:
		return fault(ErrMalformedTag, tok.Pos, slog.String("token", tok.Text))
	}
}

func (p *parser) forLoop(open lexer.Token) error {
	elems, err := p.elements(open)
	if err != nil {
		return err
	}

	if n := len(elems); n < 3 || n > 4 {
		return fault(ErrForHeader, open.Pos, slog.Int("elements", n))
	}

	variable, ok := elems[0].(elem.Variable)
	if !ok {
		return fault(ErrForHeader, open.Pos,
			slog.String("variable", elems[0].Text()),
			slog.String("kind", elem.Kind(elems[0])))
	}

	for _, e := range elems[1:] {
		if _, isVar := e.(elem.Variable); !isVar && !e.IsConstant() {
			return fault(ErrForHeader, open.Pos,
				slog.String("element", e.Text()),
				slog.String("kind", elem.Kind(e)))
		}
	}

	var step elem.Element
	if len(elems) == 4 {
		step = elems[3]
	}

	p.b.BeginFor(open.Pos, variable, elems[1], elems[2], step)

	return nil
}

// elements collects elements up to and including the closing tag.
func (p *parser) elements(open lexer.Token) ([]elem.Element, error) {
	var elems []elem.Element

	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}

		switch tok.Kind {
		case lexer.TagClose:
			return elems, nil
		case lexer.EOF:
			return nil, fault(ErrUnterminatedTag, open.Pos)
		}

		e, ok := elem.FromToken(tok)
		if !ok {
			return nil, fault(ErrMalformedTag, tok.Pos,
				slog.String("token", tok.Text),
				slog.String("kind", tok.Kind.String()))
		}

		elems = append(elems, e)
	}
}

func fault(cause *pkg.Error, pos lexer.Pos, attrs ...slog.Attr) error {
	return ErrParse.Wrap(cause.With(append([]slog.Attr{
		slog.Int("line", pos.Line),
		slog.Int("column", pos.Column),
	}, attrs...)...))
}
