package profile

import (
	"github.com/ardnew/smscr/pkg"
)

// Stopper stops a running profiler and flushes its output.
type Stopper interface{ Stop() }

// Profiler describes a profiling session. The zero Profiler is disabled.
type Profiler struct {
	mode  string
	dir   string
	quiet bool
}

// Option configures a [Profiler].
type Option = pkg.Option[*Profiler]

// WithMode sets the profiling mode, one of [Modes]. An empty or unknown mode
// disables profiling.
func WithMode(mode string) Option {
	return func(p *Profiler) *Profiler {
		p.mode = mode

		return p
	}
}

// WithDir sets the directory profile files are written to.
func WithDir(dir string) Option {
	return func(p *Profiler) *Profiler {
		p.dir = dir

		return p
	}
}

// WithQuiet suppresses the profiler's own start and stop messages.
func WithQuiet(quiet bool) Option {
	return func(p *Profiler) *Profiler {
		p.quiet = quiet

		return p
	}
}

// New returns a Profiler configured by opts.
func New(opts ...Option) *Profiler { return pkg.Apply(&Profiler{}, opts...) }

// Mode returns the configured profiling mode.
func (p *Profiler) Mode() string { return p.mode }

// Dir returns the configured output directory.
func (p *Profiler) Dir() string { return p.dir }

// Enabled reports whether Start would profile anything.
func (p *Profiler) Enabled() bool { return p.mode != "" && supported(p.mode) }

// Start begins profiling. Without the pprof build tag, or when p is not
// [Profiler.Enabled], the returned Stopper does nothing. Stop is always safe
// to call.
func (p *Profiler) Start() Stopper {
	if !p.Enabled() {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
