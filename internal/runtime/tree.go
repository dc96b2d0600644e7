package runtime

import (
	"log/slog"
	"strings"

	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/values"
)

// Tree is the live execution tree of a layer. It is driven by a single
// caller; none of its methods are safe for concurrent use.
type Tree struct {
	layer     *domain.Layer
	values    *values.Store
	root      *Node
	current   *Node
	logger    *slog.Logger
	listeners []domain.Listener
	services  domain.ServiceLocator
}

// NewTree creates an empty tree for layer. Nodes are created with NewNode
// and the root is installed with SetRoot; the compiler does both.
func NewTree(layer *domain.Layer, store *values.Store, opts ...Option) *Tree {
	t := &Tree{
		layer:  layer,
		values: store,
		logger: defaultLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewNode creates the runtime shell of def under parent and appends it to
// the parent's arena. Composite nodes get an empty group.
func (t *Tree) NewNode(def *domain.Node, parent *Node) *Node {
	n := &Node{def: def, tree: t, parent: parent}
	if parent != nil {
		n.path = def.Title
		if parent.parent != nil {
			n.path = parent.path + "/" + def.Title
		}
		parent.group.Children = append(parent.group.Children, n)
	}
	n.data = domain.StateData{Node: def, Values: t.values, Services: t.services}
	if leaf := n.leaf(); leaf != nil {
		n.data.Payload = leaf.NewData()
	}
	if def.IsComposite() {
		n.group = newGroup(def.State.Composite)
	}
	for _, svc := range def.Services {
		if svc != nil {
			n.services = append(n.services, newServiceSlot(n, svc))
		}
	}
	return n
}

// AddPlaceholder reserves an empty slot in the arena of parent so that
// authored indices stay aligned when a child is missing.
func (t *Tree) AddPlaceholder(parent *Node) {
	parent.group.Children = append(parent.group.Children, nil)
}

// SetRoot installs the root group.
func (t *Tree) SetRoot(root *Node) { t.root = root }

func (t *Tree) Root() *Node { return t.root }

func (t *Tree) Layer() *domain.Layer { return t.layer }

func (t *Tree) Values() *values.Store { return t.values }

func (t *Tree) Logger() *slog.Logger { return t.logger }

// Running reports whether the root group is active.
func (t *Tree) Running() bool { return t.root != nil && t.root.running }

// Current returns the most recently activated leaf, nil before the first one.
func (t *Tree) Current() *Node { return t.current }

// Start activates the root group.
func (t *Tree) Start() {
	t.root.start()
}

// Update advances the tree by dt seconds and returns the root's response.
func (t *Tree) Update(dt float64) domain.Response {
	return t.root.update(dt)
}

// End deactivates the tree depth-first: every group ends its active child
// before itself, and each node ends exactly once.
func (t *Tree) End() {
	if t.root.running {
		t.root.end()
	}
}

// Restart ends and starts the tree again from the default children.
func (t *Tree) Restart() {
	t.End()
	t.Start()
}

// Play restarts the tree with the node at path active instead of the
// defaults along the way. Path segments are titles separated by "/", with
// an optional leading root title. The root title alone restarts from the
// defaults. An unresolved path is logged and the tree restarts from its
// defaults.
func (t *Tree) Play(path string) bool {
	route, ok := t.resolve(path)
	t.End()
	if !ok {
		t.logger.Error("play target not found, restarting from default", "path", path)
		t.root.startGroup(nil)
		return false
	}
	t.root.startGroup(route)
	return true
}

func (t *Tree) resolve(path string) ([]int, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 1 && parts[0] == "" {
		return nil, false
	}
	if parts[0] == t.root.def.Title {
		// The root alone plays the defaults.
		if len(parts) == 1 {
			return nil, true
		}
		parts = parts[1:]
	}
	var route []int
	node := t.root
	for _, part := range parts {
		if node.group == nil {
			return nil, false
		}
		idx := domain.NoIndex
		for i, child := range node.group.Children {
			if child != nil && child.def.Title == part {
				idx = i
				break
			}
		}
		if idx == domain.NoIndex {
			return nil, false
		}
		route = append(route, idx)
		node = node.group.Children[idx]
	}
	return route, true
}

// Find returns the runtime node at a title path, nil if absent.
func (t *Tree) Find(path string) *Node {
	route, ok := t.resolve(path)
	if !ok {
		return nil
	}
	node := t.root
	for _, i := range route {
		node = node.group.Children[i]
	}
	return node
}

// ActivePath returns the titles of the active chain below the root.
func (t *Tree) ActivePath() []string {
	var path []string
	for n := t.root; n != nil && n.group != nil; {
		next := n.group.ActiveNode()
		if next == nil {
			break
		}
		path = append(path, next.def.Title)
		n = next
	}
	return path
}

// Walk visits every runtime node depth-first, root included.
func (t *Tree) Walk(fn func(n *Node, depth int)) {
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		if n == nil {
			return
		}
		fn(n, depth)
		if n.group != nil {
			for _, c := range n.group.Children {
				visit(c, depth+1)
			}
		}
	}
	visit(t.root, 0)
}

// AddListener registers a listener after construction.
func (t *Tree) AddListener(l domain.Listener) {
	if l != nil {
		t.listeners = append(t.listeners, l)
	}
}

func (t *Tree) setCurrent(n *Node) {
	if !n.trackable() {
		return
	}
	t.current = n
	t.emit(domain.Event{Type: domain.EventNodeChanged, Node: n.def, Path: n.path, State: n.leaf()})
}

func (t *Tree) emit(e domain.Event) {
	for _, l := range t.listeners {
		l.OnEvent(e)
	}
}
