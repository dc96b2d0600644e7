package runtime

import "github.com/aretw0/hfsm/pkg/domain"

// Node is the live mirror of one authored node. A node is a group when it
// mirrors a composite state; otherwise it drives a leaf state or nothing.
type Node struct {
	def    *domain.Node
	tree   *Tree
	parent *Node
	path   string

	data        domain.StateData
	transitions []Transition
	services    []*serviceSlot
	group       *Group

	running bool
}

// Def returns the authored node.
func (n *Node) Def() *domain.Node { return n.def }

// Title returns the authored title.
func (n *Node) Title() string { return n.def.Title }

// Path returns the title path from the root, root excluded.
func (n *Node) Path() string { return n.path }

// Parent returns the group owning n, nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Group returns the group record, nil for leaves.
func (n *Node) Group() *Group { return n.group }

// Running reports whether the node is between start and end.
func (n *Node) Running() bool { return n.running }

// Ratio returns the completion progress read by exit-time gates.
func (n *Node) Ratio() float64 { return n.data.Ratio }

// Data returns the state record of the node.
func (n *Node) Data() *domain.StateData { return &n.data }

// Transitions returns the compiled transitions.
func (n *Node) Transitions() []Transition { return n.transitions }

// Bind replaces the compiled transitions of the node.
func (n *Node) Bind(ts []Transition) { n.transitions = ts }

func (n *Node) leaf() domain.LeafState {
	if n.def.State.Kind != domain.KindLeaf {
		return nil
	}
	return n.def.State.Leaf
}

func (n *Node) start() {
	if n.group != nil {
		n.startGroup(nil)
		return
	}
	n.running = true
	leaf := n.leaf()
	n.tree.emit(domain.Event{Type: domain.EventNodeStarted, Node: n.def, Path: n.path, State: leaf})
	n.tree.emit(domain.Event{Type: domain.EventStateStarted, Node: n.def, Path: n.path, State: leaf})
	if leaf != nil {
		leaf.Start(&n.data)
		n.reportFailure("state start failed", n.data.Payload)
	}
	n.startServices(true)
}

// reportFailure logs the error a payload recorded during the last call.
func (n *Node) reportFailure(msg string, payload any) {
	fr, ok := payload.(domain.FailureRecorder)
	if !ok {
		return
	}
	if err := fr.TakeFailure(); err != nil {
		n.tree.logger.Error(msg, "path", n.path, "err", err)
	}
}

func (n *Node) update(dt float64) domain.Response {
	if n.group != nil {
		return n.updateGroup(dt)
	}
	leaf := n.leaf()
	if leaf == nil {
		return domain.Finished
	}
	r := leaf.Update(&n.data, dt)
	n.reportFailure("state update failed", n.data.Payload)
	if r != domain.Running {
		return r
	}
	return n.tickServices(dt)
}

func (n *Node) end() {
	if n.group != nil {
		n.endGroup()
		return
	}
	n.endServices()
	leaf := n.leaf()
	if leaf != nil {
		leaf.End(&n.data)
	}
	n.tree.emit(domain.Event{Type: domain.EventStateEnded, Node: n.def, Path: n.path, State: leaf})
	n.tree.emit(domain.Event{Type: domain.EventNodeEnded, Node: n.def, Path: n.path, State: leaf})
	n.running = false
}

// trackable reports whether n may become the layer's current node: a leaf
// with a parent and a state.
func (n *Node) trackable() bool {
	return n.group == nil && n.parent != nil && n.leaf() != nil
}
