package exec

import (
	"log/slog"
	"maps"
	"math"
	"slices"

	"github.com/sahilm/fuzzy"
)

// Function is a native function callable from an echo expression as @name.
// It pops its arguments from and pushes its results onto the evaluation
// stack, and may use the sink for output and parameters.
type Function func(*Stack, Sink) error

// Registry maps function names, without the '@' marker, to implementations.
// A Registry is not safe for concurrent registration, but lookups on a
// Registry that is no longer modified are.
type Registry struct {
	fn map[string]Function
}

// NewRegistry returns a Registry holding every builtin function.
func NewRegistry() *Registry {
	r := &Registry{fn: make(map[string]Function, len(builtins))}
	maps.Copy(r.fn, builtins)

	return r
}

// Register adds fn under name. It fails if name is already registered.
func (r *Registry) Register(name string, fn Function) error {
	if _, ok := r.fn[name]; ok {
		return ErrDuplicateFunction.With(slog.String("name", name))
	}

	r.fn[name] = fn

	return nil
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (Function, bool) {
	fn, ok := r.fn[name]

	return fn, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.fn))
}

// Suggest returns the registered name closest to name, or "" if nothing is
// close. Trailing runes of name are dropped until some registered name
// matches it as a fuzzy pattern.
func (r *Registry) Suggest(name string) string {
	names := r.Names()

	for pattern := []rune(name); len(pattern) > 0; pattern = pattern[:len(pattern)-1] {
		if m := fuzzy.Find(string(pattern), names); len(m) > 0 {
			return m[0].Str
		}
	}

	return ""
}

var builtins = map[string]Function{
	"sin":         fnSin,
	"decfmt":      fnDecfmt,
	"dup":         fnDup,
	"swap":        fnSwap,
	"setMimeType": fnSetMimeType,
	"paramGet":    paramGet(Sink.Parameter),
	"pparamGet":   paramGet(Sink.PersistentParameter),
	"pparamSet":   paramSet(Sink.SetPersistentParameter),
	"pparamDel":   paramDel(Sink.RemovePersistentParameter),
	"tparamGet":   paramGet(Sink.TemporaryParameter),
	"tparamSet":   paramSet(Sink.SetTemporaryParameter),
	"tparamDel":   paramDel(Sink.RemoveTemporaryParameter),
}

func pop(s *Stack, n int) ([]Value, error) {
	vs := make([]Value, n)

	for i := range vs {
		v, err := s.Pop()
		if err != nil {
			return nil, err
		}

		vs[i] = v
	}

	return vs, nil
}

func fnSin(s *Stack, _ Sink) error {
	v, err := s.Pop()
	if err != nil {
		return err
	}

	deg, err := v.asFloat()
	if err != nil {
		return err
	}

	s.Push(FloatValue(math.Sin(deg * math.Pi / 180)))

	return nil
}

func fnDecfmt(s *Stack, _ Sink) error {
	vs, err := pop(s, 2)
	if err != nil {
		return err
	}

	f, err := vs[1].asFloat()
	if err != nil {
		return err
	}

	out, err := FormatDecimal(vs[0].String(), f)
	if err != nil {
		return err
	}

	s.Push(StringValue(out))

	return nil
}

func fnDup(s *Stack, _ Sink) error {
	v, err := s.Peek()
	if err != nil {
		return err
	}

	s.Push(v)

	return nil
}

func fnSwap(s *Stack, _ Sink) error {
	vs, err := pop(s, 2)
	if err != nil {
		return err
	}

	s.Push(vs[0])
	s.Push(vs[1])

	return nil
}

func fnSetMimeType(s *Stack, sink Sink) error {
	v, err := s.Pop()
	if err != nil {
		return err
	}

	if err := sink.SetMimeType(v.String()); err != nil {
		return ErrFunction.Wrap(err).With(slog.String("function", "setMimeType"))
	}

	return nil
}

// paramGet pops a default value and then a name, and pushes the parameter
// value found under the name or the default.
func paramGet(get func(Sink, string) (string, bool)) Function {
	return func(s *Stack, sink Sink) error {
		vs, err := pop(s, 2)
		if err != nil {
			return err
		}

		if value, ok := get(sink, vs[1].String()); ok {
			s.Push(StringValue(value))
		} else {
			s.Push(vs[0])
		}

		return nil
	}
}

// paramSet pops a value and then a name, and stores the value under the name.
func paramSet(set func(Sink, string, string)) Function {
	return func(s *Stack, sink Sink) error {
		vs, err := pop(s, 2)
		if err != nil {
			return err
		}

		set(sink, vs[1].String(), vs[0].String())

		return nil
	}
}

func paramDel(del func(Sink, string)) Function {
	return func(s *Stack, sink Sink) error {
		v, err := s.Pop()
		if err != nil {
			return err
		}

		del(sink, v.String())

		return nil
	}
}
