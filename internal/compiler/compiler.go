// Package compiler turns an authored layer into a live runtime tree.
package compiler

import (
	"fmt"

	"github.com/aretw0/hfsm/internal/runtime"
	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/values"
)

// Error locates a compile failure. Transition is the index of the offending
// transition on the node, or -1 when the failure is not about a transition.
type Error struct {
	Path       string
	Transition int
	Err        error
}

func (e *Error) Error() string {
	if e.Transition >= 0 {
		return fmt.Sprintf("compile %q transition %d: %v", e.Path, e.Transition, e.Err)
	}
	return fmt.Sprintf("compile %q: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Compile builds the runtime tree of layer in two passes. The first creates
// a runtime node for every authored node, keeping arena order and the
// default, any and exit indices. The second binds transitions to sibling
// indices and conditions to value handles of store. Any failure aborts the
// whole compile.
func Compile(layer *domain.Layer, store *values.Store, opts ...runtime.Option) (*runtime.Tree, error) {
	if layer == nil || layer.Root == nil || !layer.Root.IsComposite() {
		return nil, &Error{Path: rootTitle(layer), Transition: -1, Err: domain.ErrRootNotComposite}
	}
	if store == nil {
		var err error
		if store, err = values.FromLayer(layer); err != nil {
			return nil, fmt.Errorf("compile values: %w", err)
		}
	}

	tree := runtime.NewTree(layer, store, opts...)
	root := tree.NewNode(layer.Root, nil)
	createChildren(tree, root)
	tree.SetRoot(root)

	if err := checkWrites(root, store); err != nil {
		return nil, err
	}
	if err := bindGroup(root, store); err != nil {
		return nil, err
	}
	return tree, nil
}

func createChildren(tree *runtime.Tree, parent *runtime.Node) {
	for _, def := range parent.Def().State.Composite.Nodes {
		if def == nil {
			tree.AddPlaceholder(parent)
			continue
		}
		child := tree.NewNode(def, parent)
		if child.Group() != nil {
			createChildren(tree, child)
		}
	}
}

// bindGroup compiles the transitions of every child of group and checks the
// values its leaf states and services write. Transitions authored on the
// root itself have no siblings and are not compiled.
func bindGroup(group *runtime.Node, store *values.Store) error {
	siblings := group.Group().Children
	for _, child := range siblings {
		if child == nil {
			continue
		}
		defs := child.Def().Transitions
		compiled := make([]runtime.Transition, 0, len(defs))
		for i, def := range defs {
			if def.Target < 0 || def.Target >= len(siblings) || siblings[def.Target] == nil {
				return &Error{Path: child.Path(), Transition: i, Err: fmt.Errorf("%w: index %d", domain.ErrTargetNotFound, def.Target)}
			}
			conds := make([]runtime.Condition, 0, len(def.Conditions))
			for _, c := range def.Conditions {
				v, ok := store.Lookup(c.Value)
				if !ok {
					return &Error{Path: child.Path(), Transition: i, Err: fmt.Errorf("%w: %s", domain.ErrUnknownValue, c.Value)}
				}
				conds = append(conds, runtime.NewCondition(v, c))
			}
			compiled = append(compiled, runtime.NewTransition(def, conds))
		}
		child.Bind(compiled)
		if err := checkWrites(child, store); err != nil {
			return err
		}

		if child.Group() != nil {
			if err := bindGroup(child, store); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkWrites(n *runtime.Node, store *values.Store) error {
	def := n.Def()
	writers := make([]any, 0, len(def.Services)+1)
	if def.State.Kind == domain.KindLeaf {
		writers = append(writers, def.State.Leaf)
	}
	for _, svc := range def.Services {
		writers = append(writers, svc)
	}
	for _, w := range writers {
		vw, ok := w.(domain.ValueWriter)
		if !ok {
			continue
		}
		for _, ref := range vw.ValueRefs() {
			if err := store.Check(ref); err != nil {
				return &Error{Path: n.Path(), Transition: -1, Err: err}
			}
		}
	}
	return nil
}

func rootTitle(layer *domain.Layer) string {
	if layer == nil || layer.Root == nil {
		return ""
	}
	return layer.Root.Title
}
