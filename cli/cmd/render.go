package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/smscr/lang"
	"github.com/ardnew/smscr/log"
	"github.com/ardnew/smscr/rctx"
)

// Render executes scripts and writes their output.
type Render struct {
	Param      map[string]string `help:"Request parameter visible to paramGet (repeatable)."  placeholder:"NAME=VALUE" short:"p"`
	Persistent map[string]string `help:"Initial persistent parameter (repeatable)."           placeholder:"NAME=VALUE" short:"P"`
	Encoding   string            `default:"utf-8"                                           help:"Output character encoding."`
	Header     bool              `help:"Write an HTTP response header before the output."       short:"H"`
	Include    []string          `help:"Directory searched for scripts named without a directory (repeatable)." placeholder:"DIR" short:"I" type:"path"`

	Source []string `arg:"" default:"-" help:"Script file(s) or '-' for stdin." name:"source"`
}

// Run executes the render command. Every source is rendered in order with
// its own request context. Sources named without a directory that do not
// exist in the working directory are looked up in the include directories
// and then in the directories of the search path variable. The persistent parameters are shared by all of
// them, so a script can pass values to the scripts after it.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out := outputFrom(ctx)
	persistent := rctx.NewParams(r.Persistent)

	path := searchPath(r.Include...)

	sources := make([]string, len(r.Source))
	for i, name := range r.Source {
		sources[i] = locate(name, path)
	}

	for src, err := range Sources(sources) {
		if err != nil {
			return err
		}

		rc := rctx.New(out,
			rctx.WithParameters(r.Param),
			rctx.WithPersistent(persistent),
			rctx.WithRawHeader(r.Header),
		)

		if err := rc.SetEncoding(r.Encoding); err != nil {
			return ErrRender.Wrap(err).With(slog.String("source", src.Name()))
		}

		if err := render(ctx, src, rc); err != nil {
			return ErrRender.Wrap(err).With(slog.String("source", src.Name()))
		}
	}

	return nil
}

func render(ctx context.Context, src Source, rc *rctx.Context) error {
	opts := []lang.Option{lang.WithLogger(log.Default())}

	doc, err := lang.ParseReader(ctx, src, opts...)
	if err != nil {
		return err
	}

	if err := lang.Execute(ctx, doc, rc, opts...); err != nil {
		return err
	}

	log.DebugContext(ctx, "rendered", slog.String("source", src.Name()))

	return rc.Flush()
}
