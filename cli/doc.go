// Package cli contains the command line interface for smscr.
//
// # Usage
//
//	smscr [flags] [render] [--param NAME=VALUE ...] [source ...]
//	smscr fmt (native|json|yaml|tree) [source]
//	smscr serve [--config FILE] [--port N] [--watch] [root]
//	smscr funcs
//	smscr init [--force]
//
// With no command, the arguments are rendered: each source is parsed and
// executed, and its output written to standard output. A source of "-"
// reads standard input.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory, for example ~/.config/smscr/config.yaml. The init command
// writes that file from the current global flag values. Keys name flags,
// and a key naming a command holds that command's flags:
//
//	log-level: debug
//	serve:
//	  port: 8080
//
// Command-line flags override the file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/smscr/pprof)
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o smscr .
package cli
