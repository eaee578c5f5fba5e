package exec

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// memSink collects output in memory and keeps parameters in maps.
type memSink struct {
	strings.Builder

	params     map[string]string
	persistent map[string]string
	temporary  map[string]string
	mime       string
	failWrite  bool
}

var errSinkClosed = errors.New("sink closed")

func newMemSink(params map[string]string) *memSink {
	if params == nil {
		params = map[string]string{}
	}

	return &memSink{
		params:     params,
		persistent: map[string]string{},
		temporary:  map[string]string{},
	}
}

func (s *memSink) Write(p []byte) (int, error) {
	if s.failWrite {
		return 0, errSinkClosed
	}

	return s.Builder.Write(p)
}

func (s *memSink) WriteString(str string) (int, error) {
	if s.failWrite {
		return 0, errSinkClosed
	}

	return s.Builder.WriteString(str)
}

func (s *memSink) Parameter(name string) (string, bool) {
	v, ok := s.params[name]

	return v, ok
}

func (s *memSink) ParameterNames() []string { return slices.Sorted(maps.Keys(s.params)) }

func (s *memSink) PersistentParameter(name string) (string, bool) {
	v, ok := s.persistent[name]

	return v, ok
}

func (s *memSink) SetPersistentParameter(name, value string) { s.persistent[name] = value }
func (s *memSink) RemovePersistentParameter(name string)     { delete(s.persistent, name) }
func (s *memSink) PersistentParameterNames() []string {
	return slices.Sorted(maps.Keys(s.persistent))
}

func (s *memSink) TemporaryParameter(name string) (string, bool) {
	v, ok := s.temporary[name]

	return v, ok
}

func (s *memSink) SetTemporaryParameter(name, value string) { s.temporary[name] = value }
func (s *memSink) RemoveTemporaryParameter(name string)     { delete(s.temporary, name) }
func (s *memSink) TemporaryParameterNames() []string {
	return slices.Sorted(maps.Keys(s.temporary))
}

func (s *memSink) SetMimeType(mime string) error {
	s.mime = mime

	return nil
}
