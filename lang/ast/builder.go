package ast

import (
	"github.com/ardnew/smscr/lang/elem"
	"github.com/ardnew/smscr/lang/lexer"
)

// Builder assembles a tree. It keeps a stack of open containers whose bottom
// is the [Document]; nodes are appended to the container on top.
type Builder struct {
	doc   *Document
	stack []*ForLoop
}

// NewBuilder returns a Builder holding an empty document.
func NewBuilder() *Builder { return &Builder{doc: &Document{}} }

// Depth returns the number of open loops.
func (b *Builder) Depth() int { return len(b.stack) }

// Top returns the innermost open loop, or nil if only the document is open.
func (b *Builder) Top() *ForLoop {
	if len(b.stack) == 0 {
		return nil
	}

	return b.stack[len(b.stack)-1]
}

// Text appends literal text. Text directly following another Text in the same
// container is merged into it.
func (b *Builder) Text(pos lexer.Pos, s string) {
	children := b.children()

	if n := len(*children); n > 0 {
		if prev, ok := (*children)[n-1].(*Text); ok {
			prev.text += s

			return
		}
	}

	*children = append(*children, &Text{pos: pos, text: s})
}

// Echo appends an echo node holding a copy of elems.
func (b *Builder) Echo(pos lexer.Pos, elems []elem.Element) {
	children := b.children()
	*children = append(*children, &Echo{
		pos:      pos,
		elements: append([]elem.Element(nil), elems...),
	})
}

// BeginFor appends a loop and opens it, so subsequent nodes become its body.
// A nil step means the default increment.
func (b *Builder) BeginFor(
	pos lexer.Pos,
	variable elem.Variable,
	start, end, step elem.Element,
) {
	loop := &ForLoop{
		pos:      pos,
		variable: variable,
		start:    start,
		end:      end,
		step:     step,
	}

	children := b.children()
	*children = append(*children, loop)
	b.stack = append(b.stack, loop)
}

// End closes the innermost open loop. It reports false if no loop is open.
func (b *Builder) End() bool {
	if len(b.stack) == 0 {
		return false
	}

	b.stack = b.stack[:len(b.stack)-1]

	return true
}

// Document returns the tree built so far.
func (b *Builder) Document() *Document { return b.doc }

func (b *Builder) children() *[]Node {
	if top := b.Top(); top != nil {
		return &top.children
	}

	return &b.doc.children
}
