// Package ast defines the syntax tree of a template and the visitor contract
// used to traverse it.
//
// A tree is built once by the parser through a [Builder] and is read-only
// afterward, so one tree may be traversed by any number of visitors
// concurrently.
package ast

import (
	"iter"
	"slices"

	"github.com/ardnew/smscr/lang/elem"
	"github.com/ardnew/smscr/lang/lexer"
)

// Node is one of [Document], [Text], [ForLoop], or [Echo].
type Node interface {
	// Accept calls the method of v matching the node's kind.
	Accept(v Visitor) error
	// Children returns a copy of the node's children in order.
	Children() []Node
	// Nodes yields the node's children in order without copying them.
	Nodes() iter.Seq[Node]
	// Pos returns the source position the node starts at.
	Pos() lexer.Pos

	node()
}

// Document is the root of a tree.
type Document struct {
	children []Node
}

// Text is a run of literal output.
type Text struct {
	pos  lexer.Pos
	text string
}

// ForLoop repeats its children while the loop variable is at most End.
type ForLoop struct {
	pos      lexer.Pos
	variable elem.Variable
	start    elem.Element
	end      elem.Element
	step     elem.Element
	children []Node
}

// Echo evaluates its elements as a postfix expression.
type Echo struct {
	pos      lexer.Pos
	elements []elem.Element
}

func (*Document) node() {}
func (*Text) node()     {}
func (*ForLoop) node()  {}
func (*Echo) node()     {}

func (n *Document) Accept(v Visitor) error { return v.VisitDocument(n) }
func (n *Text) Accept(v Visitor) error     { return v.VisitText(n) }
func (n *ForLoop) Accept(v Visitor) error  { return v.VisitForLoop(n) }
func (n *Echo) Accept(v Visitor) error     { return v.VisitEcho(n) }

func (n *Document) Children() []Node { return slices.Clone(n.children) }
func (*Text) Children() []Node       { return nil }
func (n *ForLoop) Children() []Node  { return slices.Clone(n.children) }
func (*Echo) Children() []Node       { return nil }

func (n *Document) Nodes() iter.Seq[Node] { return slices.Values(n.children) }
func (*Text) Nodes() iter.Seq[Node]       { return none }
func (n *ForLoop) Nodes() iter.Seq[Node]  { return slices.Values(n.children) }
func (*Echo) Nodes() iter.Seq[Node]       { return none }

func none(func(Node) bool) {}

func (*Document) Pos() lexer.Pos  { return lexer.Pos{Line: 1, Column: 1} }
func (n *Text) Pos() lexer.Pos    { return n.pos }
func (n *ForLoop) Pos() lexer.Pos { return n.pos }
func (n *Echo) Pos() lexer.Pos    { return n.pos }

// Value returns the literal text.
func (n *Text) Value() string { return n.text }

// Variable returns the loop variable.
func (n *ForLoop) Variable() elem.Variable { return n.variable }

// Start returns the initial value of the loop variable.
func (n *ForLoop) Start() elem.Element { return n.start }

// End returns the inclusive upper bound.
func (n *ForLoop) End() elem.Element { return n.end }

// Step returns the increment, or nil if the header omitted it.
func (n *ForLoop) Step() elem.Element { return n.step }

// Header returns the header elements in source order, omitting a missing
// step.
func (n *ForLoop) Header() []elem.Element {
	h := []elem.Element{n.variable, n.start, n.end}
	if n.step != nil {
		h = append(h, n.step)
	}

	return h
}

// Elements returns a copy of the expression elements in source order.
func (n *Echo) Elements() []elem.Element { return slices.Clone(n.elements) }

// Values yields the expression elements in source order without copying
// them.
func (n *Echo) Values() iter.Seq[elem.Element] { return slices.Values(n.elements) }

// Kind returns the name of the node's variant.
func Kind(n Node) string {
	switch n.(type) {
	case *Document:
		return "Document"
	case *Text:
		return "Text"
	case *ForLoop:
		return "ForLoop"
	case *Echo:
		return "Echo"
	default:
		return "Unknown"
	}
}
