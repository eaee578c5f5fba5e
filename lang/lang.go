package lang

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/readahead"

	"github.com/ardnew/smscr/lang/ast"
	"github.com/ardnew/smscr/lang/exec"
	"github.com/ardnew/smscr/lang/parser"
	"github.com/ardnew/smscr/log"
	"github.com/ardnew/smscr/pkg"
)

// config holds the options shared by every facade function.
type config struct {
	log      log.Logger
	registry *exec.Registry
	cache    bool
}

// Option configures parsing and execution.
type Option = pkg.Option[config]

// WithLogger sets the logger passed to the parser and the engine.
func WithLogger(l log.Logger) Option {
	return func(c config) config {
		c.log = l

		return c
	}
}

// WithRegistry sets the native function registry used for execution.
func WithRegistry(r *exec.Registry) Option {
	return func(c config) config {
		c.registry = r

		return c
	}
}

// WithCache controls whether parsed documents are shared through the parse
// cache. The cache is enabled by default.
func WithCache(enable bool) Option {
	return func(c config) config {
		c.cache = enable

		return c
	}
}

func makeConfig(opts ...Option) config {
	return pkg.Apply(config{cache: true}, opts...)
}

// Parse parses source into a document tree.
func Parse(ctx context.Context, source string, opts ...Option) (*ast.Document, error) {
	c := makeConfig(opts...)
	if c.cache {
		return parseCached(ctx, c, source)
	}

	return parser.Parse(ctx, source, parser.WithLogger(c.log))
}

// ParseReader reads r to the end and parses its content.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*ast.Document, error) {
	source, err := read(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("source", "reader"))
	}

	return Parse(ctx, source, opts...)
}

// ParseFile parses the file at path. With the cache enabled, the document is
// remembered under path until [Invalidate] is called for it.
func ParseFile(ctx context.Context, path string, opts ...Option) (*ast.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrOpenFile.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	source, err := read(f)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("path", path))
	}

	c := makeConfig(opts...)
	if !c.cache {
		return parser.Parse(ctx, source, parser.WithLogger(c.log))
	}

	doc, err := parseCached(ctx, c, source)
	if err == nil {
		remember(path, source)
	}

	return doc, err
}

// Execute runs doc against sink.
func Execute(ctx context.Context, doc *ast.Document, sink exec.Sink, opts ...Option) error {
	if sink == nil {
		return ErrNilSink
	}

	c := makeConfig(opts...)

	return exec.New(
		exec.WithRegistry(c.registry),
		exec.WithLogger(c.log),
	).Execute(ctx, doc, sink)
}

// Render parses source and executes it against sink.
func Render(ctx context.Context, source string, sink exec.Sink, opts ...Option) error {
	doc, err := Parse(ctx, source, opts...)
	if err != nil {
		return err
	}

	return Execute(ctx, doc, sink, opts...)
}

// read drains r through a read-ahead buffer.
func read(r io.Reader) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
