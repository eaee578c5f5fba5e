package ast

// Visitor has one method per node kind. Descent into children is up to the
// visitor; [Walk] visits each child of a node in order.
type Visitor interface {
	VisitDocument(n *Document) error
	VisitText(n *Text) error
	VisitForLoop(n *ForLoop) error
	VisitEcho(n *Echo) error
}

// Walk calls Accept on every child of n in order, stopping at the first error.
func Walk(v Visitor, n Node) error {
	for c := range n.Nodes() {
		if err := c.Accept(v); err != nil {
			return err
		}
	}

	return nil
}
