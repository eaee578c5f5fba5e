package ast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/smscr/lang/elem"
)

// Format writes n as template source. Parsing the output yields a tree equal
// to n.
func Format(_ context.Context, w io.Writer, n Node) error {
	return n.Accept(&formatter{w: w})
}

// String returns the template source of n.
func String(n Node) string {
	var b strings.Builder

	_ = Format(context.Background(), &b, n)

	return b.String()
}

type formatter struct{ w io.Writer }

func (f *formatter) VisitDocument(n *Document) error { return Walk(f, n) }

func (f *formatter) VisitText(n *Text) error {
	_, err := io.WriteString(f.w, n.text)

	return err
}

func (f *formatter) VisitForLoop(n *ForLoop) error {
	if _, err := fmt.Fprintf(f.w, "{$ FOR %s $}", joinText(n.Header())); err != nil {
		return err
	}

	if err := Walk(f, n); err != nil {
		return err
	}

	_, err := io.WriteString(f.w, "{$END$}")

	return err
}

func (f *formatter) VisitEcho(n *Echo) error {
	if len(n.elements) == 0 {
		_, err := io.WriteString(f.w, "{$=$}")

		return err
	}

	_, err := fmt.Fprintf(f.w, "{$= %s $}", joinText(n.elements))

	return err
}

func joinText(elems []elem.Element) string {
	part := make([]string, len(elems))
	for i, e := range elems {
		part[i] = e.Text()
	}

	return strings.Join(part, " ")
}

// FormatJSON writes the tree returned by [ToMap] as JSON.
// A positive indent pretty-prints with that many spaces per level.
func FormatJSON(_ context.Context, w io.Writer, n Node, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(ToMap(n), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(ToMap(n))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the tree returned by [ToMap] as YAML.
// A positive indent uses block style with that many spaces per level;
// otherwise flow style is used.
func FormatYAML(ctx context.Context, w io.Writer, n Node, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, ToMap(n), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// ToMap converts n into nested maps and slices suitable for generic encoders.
func ToMap(n Node) map[string]any {
	m := map[string]any{"kind": Kind(n)}

	switch n := n.(type) {
	case *Document:
		m["children"] = childMaps(n)

	case *Text:
		m["text"] = n.text

	case *ForLoop:
		m["variable"] = n.variable.Name
		m["start"] = elemMap(n.start)
		m["end"] = elemMap(n.end)

		if n.step != nil {
			m["step"] = elemMap(n.step)
		}

		m["children"] = childMaps(n)

	case *Echo:
		elems := make([]any, len(n.elements))
		for i, e := range n.elements {
			elems[i] = elemMap(e)
		}

		m["elements"] = elems
	}

	return m
}

func childMaps(n Node) []any {
	list := make([]any, len(n.Children()))
	for i, c := range n.Children() {
		list[i] = ToMap(c)
	}

	return list
}

func elemMap(e elem.Element) map[string]any {
	m := map[string]any{"kind": elem.Kind(e), "text": e.Text()}

	switch e := e.(type) {
	case elem.Integer:
		m["value"] = e.Value
	case elem.Float:
		// Non-finite values have no JSON encoding; text still carries them.
		if !math.IsInf(e.Value, 0) && !math.IsNaN(e.Value) {
			m["value"] = e.Value
		}
	case elem.String:
		m["value"] = e.Value
	}

	return m
}
