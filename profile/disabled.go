//go:build !pprof

package profile

import "net/http"

// Modes returns nil when built without the pprof build tag.
func Modes() []string { return nil }

// Handler returns nil when built without the pprof build tag.
func Handler() http.Handler { return nil }

func supported(string) bool { return false }

func start(*Profiler) Stopper { return ignore{} }
