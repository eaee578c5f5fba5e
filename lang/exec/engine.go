package exec

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ardnew/smscr/lang/ast"
	"github.com/ardnew/smscr/lang/elem"
	"github.com/ardnew/smscr/log"
	"github.com/ardnew/smscr/pkg"
)

// Engine executes parsed documents. An Engine holds no per-execution state,
// so one Engine may execute any number of documents concurrently as long as
// each execution has its own sink.
type Engine struct {
	registry *Registry
	log      log.Logger
}

// Option configures an [Engine].
type Option = pkg.Option[*Engine]

// WithRegistry sets the function registry. A nil registry is ignored.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) *Engine {
		if r != nil {
			e.registry = r
		}

		return e
	}
}

// WithLogger sets the logger used for trace output.
func WithLogger(l log.Logger) Option {
	return func(e *Engine) *Engine {
		e.log = l

		return e
	}
}

// New returns an Engine. Without [WithRegistry] it uses [NewRegistry].
func New(opts ...Option) *Engine {
	e := pkg.Apply(&Engine{}, opts...)
	if e.registry == nil {
		e.registry = NewRegistry()
	}

	return e
}

// Registry returns the function registry used by e.
func (e *Engine) Registry() *Registry { return e.registry }

// Execute runs doc against sink with a fresh multistack. The first fault
// aborts the execution and is returned. Output already written to sink is
// not retracted.
//
// Cancelling ctx stops the execution before the next node or loop iteration.
func (e *Engine) Execute(ctx context.Context, doc *ast.Document, sink Sink) error {
	r := &run{
		ctx:    ctx,
		engine: e,
		sink:   sink,
		vars:   NewMultistack(),
	}

	if err := doc.Accept(r); err != nil {
		e.log.TraceContext(ctx, "execution aborted", slog.Any("error", err))

		return err
	}

	e.log.TraceContext(ctx, "execution complete")

	return nil
}

// run is the state of a single execution. It visits the nodes of a document.
type run struct {
	ctx    context.Context
	engine *Engine
	sink   Sink
	vars   *Multistack
}

func (r *run) VisitDocument(n *ast.Document) error { return r.children(n) }

func (r *run) VisitText(n *ast.Text) error {
	if _, err := r.sink.WriteString(n.Value()); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}

func (r *run) VisitForLoop(n *ast.ForLoop) error {
	name := n.Variable().Name

	start, err := r.resolve(n.Start())
	if err != nil {
		return at(err, n)
	}

	end, err := r.resolve(n.End())
	if err != nil {
		return at(err, n)
	}

	step := IntValue(1)
	if n.Step() != nil {
		if step, err = r.resolve(n.Step()); err != nil {
			return at(err, n)
		}
	}

	r.vars.Push(name, start)

	if err := r.loop(n, name, end, step); err != nil {
		return at(err, n)
	}

	return nil
}

func (r *run) loop(n *ast.ForLoop, name string, end, step Value) error {
	for {
		cur, err := r.vars.Peek(name)
		if err != nil {
			return err
		}

		if c, err := Compare(cur, end); err != nil {
			return err
		} else if c > 0 {
			return nil
		}

		if err := r.children(n); err != nil {
			return err
		}

		// The body may have pushed or popped the loop variable.
		if cur, err = r.vars.Pop(name); err != nil {
			return err
		}

		next, err := Add(cur, step)
		if err != nil {
			return err
		}

		r.vars.Push(name, next)
	}
}

func (r *run) VisitEcho(n *ast.Echo) error {
	stack := NewStack()

	for el := range n.Values() {
		if err := r.eval(stack, el); err != nil {
			return at(err, n)
		}
	}

	for _, v := range stack.Values() {
		if _, err := r.sink.WriteString(v.String()); err != nil {
			return ErrWrite.Wrap(err)
		}
	}

	return nil
}

func (r *run) children(n ast.Node) error {
	for c := range n.Nodes() {
		if err := r.ctx.Err(); err != nil {
			return err
		}

		if err := c.Accept(r); err != nil {
			return err
		}
	}

	return nil
}

// at attaches the position of n to an evaluation fault raised directly by
// it. Faults already carrying a position are returned unchanged.
func at(err error, n ast.Node) error {
	var pe *pkg.Error
	if !errors.As(err, &pe) {
		return err
	}

	for _, a := range pe.Attrs() {
		if a.Key == "line" {
			return err
		}
	}

	pos := n.Pos()

	return pe.With(slog.Int("line", pos.Line), slog.Int("column", pos.Column))
}

// resolve returns the value of a for-loop header element: a constant's own
// value or the current value of a variable.
func (r *run) resolve(el elem.Element) (Value, error) {
	if v, ok := Constant(el); ok {
		return v, nil
	}

	if v, ok := el.(elem.Variable); ok {
		return r.vars.Peek(v.Name)
	}

	return Value{}, ErrInvalidOperator.With(slog.String("element", el.Text()))
}

func (r *run) eval(stack *Stack, el elem.Element) error {
	switch el := el.(type) {
	case elem.Integer, elem.Float, elem.String:
		v, _ := Constant(el)
		stack.Push(v)

	case elem.Variable:
		v, err := r.vars.Peek(el.Name)
		if err != nil {
			return err
		}

		stack.Push(v)

	case elem.Operator:
		return r.operate(stack, el.Symbol)

	case elem.Function:
		fn, ok := r.engine.registry.Lookup(el.Name)
		if !ok {
			err := ErrUnknownFunction.With(slog.String("name", el.Name))
			if s := r.engine.registry.Suggest(el.Name); s != "" {
				err = err.With(slog.String("suggest", s))
			}

			return err
		}

		r.engine.log.TraceContext(r.ctx, "call", slog.String("function", el.Name))

		if err := fn(stack, r.sink); err != nil {
			var pe *pkg.Error
			if !errors.As(err, &pe) {
				return ErrFunction.Wrap(err).With(slog.String("function", el.Name))
			}

			return err
		}
	}

	return nil
}

// operate pops a (the top) and then b, and pushes a op b.
func (r *run) operate(stack *Stack, symbol string) error {
	var op func(a, b Value) (Value, error)

	switch symbol {
	case "+":
		op = Add
	case "-":
		op = Sub
	case "*":
		op = Mul
	case "/":
		op = Div
	case "^":
		op = Pow
	default:
		return ErrInvalidOperator.With(slog.String("operator", symbol))
	}

	a, err := stack.Pop()
	if err != nil {
		return err
	}

	b, err := stack.Pop()
	if err != nil {
		return err
	}

	v, err := op(a, b)
	if err != nil {
		return err
	}

	stack.Push(v)

	return nil
}
