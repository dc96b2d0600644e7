package domain

import "strings"

// Layer is a complete authored graph: its value table and a composite root.
type Layer struct {
	Name   string
	Values []ValueDef
	Root   *Node
}

// Composite returns the root composite, or nil when the root is missing or a leaf.
func (l *Layer) Composite() *CompositeState {
	if l.Root == nil || !l.Root.IsComposite() {
		return nil
	}
	return l.Root.State.Composite
}

// FindValue returns the declaration of a value by name.
func (l *Layer) FindValue(name string) (ValueDef, bool) {
	for _, v := range l.Values {
		if v.Name == name {
			return v, true
		}
	}
	return ValueDef{}, false
}

// FindNode resolves a slash separated title path starting below the root.
// It returns nil when a segment is missing or crosses a leaf.
func (l *Layer) FindNode(path string) *Node {
	node := l.Root
	if node == nil {
		return nil
	}
	for _, part := range strings.Split(path, "/") {
		if !node.IsComposite() {
			return nil
		}
		next, _ := node.State.Composite.FindByTitle(part)
		if next == nil {
			return nil
		}
		node = next
	}
	return node
}

// Walk visits every node depth-first in authored order, root included.
func (l *Layer) Walk(fn func(n *Node, depth int)) {
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		if n == nil {
			return
		}
		fn(n, depth)
		if n.IsComposite() {
			for _, child := range n.State.Composite.Nodes {
				visit(child, depth+1)
			}
		}
	}
	visit(l.Root, 0)
}
