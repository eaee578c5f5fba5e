package log

import "github.com/ardnew/smscr/pkg"

// Option applies a configuration option to config.
type Option = pkg.Option[config]

// apply applies multiple options to a config.
func apply(cfg config, opts ...Option) config { return pkg.Apply(cfg, opts...) }
