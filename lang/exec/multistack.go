package exec

import (
	"log/slog"
	"maps"
	"slices"
)

// Multistack maps variable names to independent stacks of values. A name has
// an entry only while its stack is non-empty.
type Multistack struct {
	stacks map[string][]Value
}

// NewMultistack returns an empty Multistack.
func NewMultistack() *Multistack {
	return &Multistack{stacks: make(map[string][]Value)}
}

// Push puts v on top of the stack for name, creating it if needed.
func (m *Multistack) Push(name string, v Value) {
	m.stacks[name] = append(m.stacks[name], v)
}

// Pop removes and returns the top value for name. The entry is deleted when
// its last value is removed.
func (m *Multistack) Pop(name string) (Value, error) {
	v, err := m.Peek(name)
	if err != nil {
		return Value{}, err
	}

	if s := m.stacks[name]; len(s) == 1 {
		delete(m.stacks, name)
	} else {
		m.stacks[name] = s[:len(s)-1]
	}

	return v, nil
}

// Peek returns the top value for name without removing it.
func (m *Multistack) Peek(name string) (Value, error) {
	s, ok := m.stacks[name]
	if !ok {
		return Value{}, ErrEmptyStack.With(slog.String("variable", name))
	}

	return s[len(s)-1], nil
}

// IsEmpty reports whether name has no live entry.
func (m *Multistack) IsEmpty(name string) bool {
	_, ok := m.stacks[name]

	return !ok
}

// Depth returns the number of values stacked under name.
func (m *Multistack) Depth(name string) int { return len(m.stacks[name]) }

// Names returns the names with live entries in sorted order.
func (m *Multistack) Names() []string {
	return slices.Sorted(maps.Keys(m.stacks))
}
