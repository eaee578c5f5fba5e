package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/smscr/lang"
	"github.com/ardnew/smscr/lang/ast"
	"github.com/ardnew/smscr/log"
)

// Fmt parses a script and writes its tree in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical script source (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	Tree   Tree   `cmd:""                    help:"Format as an outline of the syntax tree."`
}

// parse reads and parses the single source path for the named format.
func parse(ctx context.Context, path, format string) (*ast.Document, error) {
	for src, err := range Sources([]string{path}) {
		if err != nil {
			return nil, err
		}

		doc, err := lang.ParseReader(ctx, src, lang.WithLogger(log.Default()))
		if err != nil {
			return nil, ErrFormat.Wrap(err).With(
				slog.String("format", format),
				slog.String("source", src.Name()),
			)
		}

		return doc, nil
	}

	return nil, ErrOpenSource.With(slog.String("path", path))
}

// Native formats input as canonical script source.
type Native struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the native format command.
func (f *Native) Run(ctx context.Context) error {
	doc, err := parse(ctx, f.Source, "native")
	if err != nil {
		return err
	}

	return ast.Format(ctx, outputFrom(ctx), doc)
}

// JSON formats input as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	doc, err := parse(ctx, j.Source, "json")
	if err != nil {
		return err
	}

	return ast.FormatJSON(ctx, outputFrom(ctx), doc, j.Indent)
}

// YAML formats input as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	doc, err := parse(ctx, y.Source, "yaml")
	if err != nil {
		return err
	}

	return ast.FormatYAML(ctx, outputFrom(ctx), doc, y.Indent)
}

// Tree formats input as an outline of the syntax tree.
type Tree struct {
	Color bool `help:"Colorize node labels." negatable:""`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the tree command.
func (t *Tree) Run(ctx context.Context) error {
	doc, err := parse(ctx, t.Source, "tree")
	if err != nil {
		return err
	}

	out := outputFrom(ctx)
	color := t.Color && out == os.Stdout

	return ast.Print(out, doc, ast.WithColor(color))
}
