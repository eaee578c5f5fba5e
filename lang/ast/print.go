package ast

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/ardnew/smscr/lang/elem"
)

var (
	kindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	textStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	varStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	funcStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	opStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	constStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	branchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingRight(1)
)

// PrintOption configures [Print].
type PrintOption func(*printer)

// WithColor enables terminal styling of node and element labels.
func WithColor(enable bool) PrintOption {
	return func(p *printer) { p.color = enable }
}

// Print writes an indented outline of n, one node per line.
func Print(w io.Writer, n Node, opts ...PrintOption) error {
	p := &printer{}
	for _, opt := range opts {
		opt(p)
	}

	t := p.tree(n)
	if p.color {
		t = t.EnumeratorStyle(branchStyle)
	}

	_, err := fmt.Fprintln(w, t.String())

	return err
}

type printer struct {
	color bool
}

func (p *printer) tree(n Node) *tree.Tree {
	t := tree.Root(p.label(n))

	for _, c := range n.Children() {
		if len(c.Children()) > 0 {
			t.Child(p.tree(c))
		} else {
			t.Child(p.label(c))
		}
	}

	return t
}

func (p *printer) label(n Node) string {
	s := p.style(kindStyle, Kind(n))

	switch n := n.(type) {
	case *Text:
		s += " " + p.style(textStyle, strconv.Quote(n.text))

	case *ForLoop:
		for _, e := range n.Header() {
			s += " " + p.elem(e)
		}

	case *Echo:
		for _, e := range n.elements {
			s += " " + p.elem(e)
		}
	}

	return s
}

func (p *printer) elem(e elem.Element) string {
	switch e.(type) {
	case elem.Variable:
		return p.style(varStyle, e.Text())
	case elem.Function:
		return p.style(funcStyle, e.Text())
	case elem.Operator:
		return p.style(opStyle, e.Text())
	default:
		return p.style(constStyle, e.Text())
	}
}

func (p *printer) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}

	return s.Render(text)
}
