package domain

import "strings"

// Rect is the authoring rectangle of a node. The runtime never reads it; it is
// carried so that documents and binary layouts round-trip.
type Rect struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
	W float32 `json:"w" yaml:"w"`
	H float32 `json:"h" yaml:"h"`
}

// Node is one authored unit of the hierarchy. It holds one State, an ordered
// list of transitions to its siblings and an ordered list of services.
type Node struct {
	Title       string
	Rect        Rect
	State       State
	Transitions []Transition
	Services    []Service

	parent *Node
}

// Parent returns the node owning the composite this node belongs to.
// It is nil for the root and for nodes that were never linked.
func (n *Node) Parent() *Node {
	return n.parent
}

// Path returns the slash separated title path from the root (excluded) down to n.
func (n *Node) Path() string {
	parts := []string{n.Title}
	for p := n.parent; p != nil && p.parent != nil; p = p.parent {
		parts = append(parts, p.Title)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// IsComposite reports whether the node holds a composite state.
func (n *Node) IsComposite() bool {
	return n.State.Kind == KindComposite && n.State.Composite != nil
}

// Link sets the parent back-references of every node below root.
// Builders and decoders call it once the tree is assembled.
func Link(root *Node) {
	if root == nil || !root.IsComposite() {
		return
	}
	for _, child := range root.State.Composite.Nodes {
		if child == nil {
			continue
		}
		child.parent = root
		Link(child)
	}
}
