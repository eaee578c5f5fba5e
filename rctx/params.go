package rctx

import (
	"maps"
	"slices"
	"sync"
)

// Params is a string-keyed parameter store safe for concurrent use. The zero
// value is an empty store.
type Params struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewParams returns a store holding a copy of m.
func NewParams(m map[string]string) *Params {
	return &Params{m: maps.Clone(m)}
}

// Get returns the value stored under name.
func (p *Params) Get(name string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	v, ok := p.m[name]

	return v, ok
}

// Set stores value under name.
func (p *Params) Set(name, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.m == nil {
		p.m = make(map[string]string)
	}

	p.m[name] = value
}

// Delete removes name from the store.
func (p *Params) Delete(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.m, name)
}

// Names returns the stored names in sorted order.
func (p *Params) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return slices.Sorted(maps.Keys(p.m))
}

// Len returns the number of stored names.
func (p *Params) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.m)
}

// Map returns a copy of the store contents.
func (p *Params) Map() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return maps.Clone(p.m)
}
