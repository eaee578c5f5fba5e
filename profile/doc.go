// Package profile wraps [github.com/pkg/profile] for the smscr command.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	./smscr --pprof-mode cpu serve ./www
//
// Without the tag every [Profiler] is a no-op, [Modes] is empty and [Handler]
// is nil.
//
// A [Profiler] writes one profile file per run to its directory, by default
// $XDG_CACHE_HOME/smscr/pprof. Analyze it with go tool pprof:
//
//	go tool pprof -http=: ~/.cache/smscr/pprof/cpu.pprof
//
// With the tag, the HTTP server also mounts [Handler] at /debug/pprof/, so
// a running server can be profiled live:
//
//	go tool pprof http://127.0.0.1:5721/debug/pprof/heap
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
