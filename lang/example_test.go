package lang_test

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/ardnew/smscr/lang"
)

// stdoutSink writes to standard output and keeps parameters in maps.
type stdoutSink struct {
	params, persistent, temporary map[string]string
}

func (stdoutSink) Write(p []byte) (int, error)          { return os.Stdout.Write(p) }
func (stdoutSink) WriteString(s string) (int, error)    { return os.Stdout.WriteString(s) }
func (stdoutSink) SetMimeType(string) error             { return nil }
func (s stdoutSink) ParameterNames() []string           { return slices.Sorted(maps.Keys(s.params)) }
func (s stdoutSink) PersistentParameterNames() []string { return slices.Sorted(maps.Keys(s.persistent)) }
func (s stdoutSink) TemporaryParameterNames() []string  { return slices.Sorted(maps.Keys(s.temporary)) }
func (s stdoutSink) SetPersistentParameter(n, v string) { s.persistent[n] = v }
func (s stdoutSink) SetTemporaryParameter(n, v string)  { s.temporary[n] = v }
func (s stdoutSink) RemovePersistentParameter(n string) { delete(s.persistent, n) }
func (s stdoutSink) RemoveTemporaryParameter(n string)  { delete(s.temporary, n) }

func (s stdoutSink) Parameter(n string) (string, bool) {
	v, ok := s.params[n]

	return v, ok
}

func (s stdoutSink) PersistentParameter(n string) (string, bool) {
	v, ok := s.persistent[n]

	return v, ok
}

func (s stdoutSink) TemporaryParameter(n string) (string, bool) {
	v, ok := s.temporary[n]

	return v, ok
}

func ExampleRender() {
	sink := stdoutSink{
		params:     map[string]string{"name": "world"},
		persistent: map[string]string{},
		temporary:  map[string]string{},
	}

	src := `Hello, {$= "name" "stranger" @paramGet $}!
{$FOR i 1 3$}{$= i $} squared is {$= i i * $}
{$END$}`

	if err := lang.Render(context.Background(), src, sink); err != nil {
		fmt.Println(err)
	}

	// Output:
	// Hello, world!
	// 1 squared is 1
	// 2 squared is 4
	// 3 squared is 9
}
