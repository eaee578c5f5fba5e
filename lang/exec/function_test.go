package exec

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestRegistry_Builtins(t *testing.T) {
	want := []string{
		"decfmt", "dup", "paramGet", "pparamDel", "pparamGet", "pparamSet",
		"setMimeType", "sin", "swap", "tparamDel", "tparamGet", "tparamSet",
	}

	if got := NewRegistry().Names(); !slices.Equal(got, want) {
		t.Errorf("expected builtins %v, got %v", want, got)
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	neg := func(s *Stack, _ Sink) error {
		v, err := s.Pop()
		if err != nil {
			return err
		}

		n, err := Mul(v, IntValue(-1))
		if err != nil {
			return err
		}

		s.Push(n)

		return nil
	}

	if err := r.Register("neg", neg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := r.Register("neg", neg); !errors.Is(err, ErrDuplicateFunction) {
		t.Errorf("expected ErrDuplicateFunction, got %v", err)
	}

	if err := r.Register("sin", neg); !errors.Is(err, ErrDuplicateFunction) {
		t.Errorf("expected builtin to be protected, got %v", err)
	}

	if _, ok := NewRegistry().Lookup("neg"); ok {
		t.Error("expected registries to be independent")
	}

	fn, ok := r.Lookup("neg")
	if !ok {
		t.Fatal("expected registered function to be found")
	}

	s := NewStack(IntValue(5))
	if err := fn(s, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v, _ := s.Pop(); v != IntValue(-5) {
		t.Errorf("expected -5, got %s", v)
	}
}

func TestRegistry_Suggest(t *testing.T) {
	r := NewRegistry()

	tests := map[string]string{
		"sinn":    "sin",
		"dupe":    "dup",
		"pparamG": "pparamGet",
		"decfmat": "decfmt",
		"zzz":     "",
	}

	for name, want := range tests {
		if got := r.Suggest(name); got != want {
			t.Errorf("Suggest(%q): expected %q, got %q", name, want, got)
		}
	}
}

func call(t *testing.T, name string, sink Sink, values ...Value) *Stack {
	t.Helper()

	fn, ok := NewRegistry().Lookup(name)
	if !ok {
		t.Fatalf("missing builtin %s", name)
	}

	s := NewStack(values...)
	if err := fn(s, sink); err != nil {
		t.Fatalf("%s: unexpected error: %v", name, err)
	}

	return s
}

func TestBuiltin_Sin(t *testing.T) {
	for deg, want := range map[int64]float64{0: 0, 30: 0.5, 90: 1, 270: -1} {
		s := call(t, "sin", nil, IntValue(deg))

		v, _ := s.Pop()
		if v.Kind() != Float || math.Abs(v.Float()-want) > 1e-12 {
			t.Errorf("sin(%d): expected %g, got %s", deg, want, v)
		}
	}

	s := call(t, "sin", nil, StringValue("90"))
	if v, _ := s.Pop(); math.Abs(v.Float()-1) > 1e-12 {
		t.Errorf("sin(\"90\"): expected 1, got %s", v)
	}
}

func TestBuiltin_Decfmt(t *testing.T) {
	s := call(t, "decfmt", nil, FloatValue(3.14159), StringValue("0.00"))

	if v, _ := s.Pop(); v != StringValue("3.14") {
		t.Errorf("expected \"3.14\", got %q", v.String())
	}

	fn, _ := NewRegistry().Lookup("decfmt")
	if err := fn(NewStack(IntValue(1), StringValue("0.#0")), nil); !errors.Is(err, ErrDecimalPattern) {
		t.Errorf("expected ErrDecimalPattern, got %v", err)
	}
}

func TestBuiltin_DupSwap(t *testing.T) {
	s := call(t, "dup", nil, IntValue(7))
	s = call(t, "swap", nil, s.Values()...)

	if got := s.Values(); !slices.Equal(got, []Value{IntValue(7), IntValue(7)}) {
		t.Errorf("expected [7 7], got %v", got)
	}

	s = call(t, "swap", nil, IntValue(1), StringValue("a"))
	if got := s.Values(); !slices.Equal(got, []Value{StringValue("a"), IntValue(1)}) {
		t.Errorf("expected [a 1], got %v", got)
	}
}

func TestBuiltin_Underflow(t *testing.T) {
	r := NewRegistry()

	for _, name := range r.Names() {
		fn, _ := r.Lookup(name)
		if err := fn(NewStack(), newMemSink(nil)); !errors.Is(err, ErrStackUnderflow) {
			t.Errorf("%s on empty stack: expected ErrStackUnderflow, got %v", name, err)
		}
	}
}

func TestBuiltin_Parameters(t *testing.T) {
	sink := newMemSink(map[string]string{"name": "bob"})

	s := call(t, "paramGet", sink, StringValue("name"), StringValue("anon"))
	if v, _ := s.Pop(); v != StringValue("bob") {
		t.Errorf("expected bob, got %s", v)
	}

	s = call(t, "paramGet", sink, StringValue("missing"), IntValue(0))
	if v, _ := s.Pop(); v != IntValue(0) {
		t.Errorf("expected default 0, got %s", v)
	}

	call(t, "pparamSet", sink, StringValue("count"), IntValue(5))
	if sink.persistent["count"] != "5" {
		t.Errorf("expected persistent count 5, got %v", sink.persistent)
	}

	s = call(t, "pparamGet", sink, StringValue("count"), IntValue(0))
	if v, _ := s.Pop(); v != StringValue("5") {
		t.Errorf("expected \"5\", got %s", v)
	}

	call(t, "pparamDel", sink, StringValue("count"))
	if _, ok := sink.persistent["count"]; ok {
		t.Error("expected persistent count to be removed")
	}

	call(t, "tparamSet", sink, StringValue("t"), FloatValue(1.5))
	s = call(t, "tparamGet", sink, StringValue("t"), StringValue("none"))
	if v, _ := s.Pop(); v != StringValue("1.5") {
		t.Errorf("expected \"1.5\", got %s", v)
	}

	call(t, "tparamDel", sink, StringValue("t"))
	if len(sink.temporary) != 0 {
		t.Errorf("expected no temporary parameters, got %v", sink.temporary)
	}

	call(t, "setMimeType", sink, StringValue("text/plain"))
	if sink.mime != "text/plain" {
		t.Errorf("expected mime text/plain, got %q", sink.mime)
	}
}
