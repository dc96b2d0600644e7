package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/hfsm/pkg/domain"
)

// ErrDuplicateTitle is returned when two siblings share a title.
var ErrDuplicateTitle = errors.New("duplicate node title")

// Builder manages the layer construction.
type Builder struct {
	name   string
	values []domain.ValueDef
	root   *GroupBuilder
	errs   []error
}

// New creates a new layer builder.
func New(name string) *Builder {
	return &Builder{name: name}
}

// Value declares a blackboard entry.
func (b *Builder) Value(def domain.ValueDef) *Builder {
	b.values = append(b.values, def)
	return b
}

func (b *Builder) Bool(name string, v bool) *Builder {
	return b.Value(domain.ValueDef{Name: name, Type: domain.ValueBool, Bool: v})
}

func (b *Builder) Int(name string, v int) *Builder {
	return b.Value(domain.ValueDef{Name: name, Type: domain.ValueInteger, Int: v})
}

func (b *Builder) Float(name string, v float64) *Builder {
	return b.Value(domain.ValueDef{Name: name, Type: domain.ValueFloat, Float: v})
}

func (b *Builder) StringValue(name string, v string) *Builder {
	return b.Value(domain.ValueDef{Name: name, Type: domain.ValueString, String: v})
}

// Trigger declares a bool that clears itself once read.
func (b *Builder) Trigger(name string) *Builder {
	return b.Value(domain.ValueDef{Name: name, Type: domain.ValueTrigger})
}

// Root returns the root group, creating it on first use.
func (b *Builder) Root(title string) *GroupBuilder {
	if b.root == nil {
		b.root = newGroup(b, nil, title)
	}
	return b.root
}

func (b *Builder) fail(err error) {
	b.errs = append(b.errs, err)
}

// Build resolves titles into indices and returns the linked layer.
// Every problem met while building is reported at once.
func (b *Builder) Build() (*domain.Layer, error) {
	if b.root == nil {
		return nil, domain.ErrRootNotComposite
	}
	errs := append([]error(nil), b.errs...)
	errs = append(errs, b.root.resolve()...)
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	domain.Link(b.root.node)
	return &domain.Layer{
		Name:   b.name,
		Values: append([]domain.ValueDef(nil), b.values...),
		Root:   b.root.node,
	}, nil
}

// GroupBuilder configures a composite node and its children.
type GroupBuilder struct {
	*NodeBuilder
	comp     *domain.CompositeState
	children []*NodeBuilder

	defaultTitle, anyTitle, exitTitle string
}

func newGroup(b *Builder, parent *GroupBuilder, title string) *GroupBuilder {
	comp := domain.NewComposite(title)
	nb := &NodeBuilder{
		builder: b,
		parent:  parent,
		node:    &domain.Node{Title: title, State: domain.CompositeOf(comp)},
	}
	return &GroupBuilder{NodeBuilder: nb, comp: comp}
}

// Leaf adds a child driven by state. A nil state adds an inert node.
func (g *GroupBuilder) Leaf(title string, state domain.LeafState) *NodeBuilder {
	nb := &NodeBuilder{
		builder: g.builder,
		parent:  g,
		node:    &domain.Node{Title: title, State: domain.LeafOf(state)},
	}
	g.add(nb)
	return nb
}

// Empty adds an inert child, typically used as exit or any node.
func (g *GroupBuilder) Empty(title string) *NodeBuilder {
	return g.Leaf(title, nil)
}

// Group adds a nested composite child.
func (g *GroupBuilder) Group(title string) *GroupBuilder {
	child := newGroup(g.builder, g, title)
	g.add(child.NodeBuilder)
	child.NodeBuilder.group = child
	return child
}

func (g *GroupBuilder) add(nb *NodeBuilder) {
	g.children = append(g.children, nb)
	g.comp.Nodes = append(g.comp.Nodes, nb.node)
}

// Default names the child activated when the group starts.
func (g *GroupBuilder) Default(title string) *GroupBuilder {
	g.defaultTitle = title
	return g
}

// Any names the child whose transitions are checked whatever child is active.
func (g *GroupBuilder) Any(title string) *GroupBuilder {
	g.anyTitle = title
	return g
}

// Exit names the child that completes the group.
func (g *GroupBuilder) Exit(title string) *GroupBuilder {
	g.exitTitle = title
	return g
}

func (g *GroupBuilder) resolve() []error {
	var errs []error
	index := make(map[string]int, len(g.children))
	for i, c := range g.children {
		if _, dup := index[c.node.Title]; dup {
			errs = append(errs, fmt.Errorf("%s: %w: %s", g.node.Title, ErrDuplicateTitle, c.node.Title))
			continue
		}
		index[c.node.Title] = i
	}

	lookup := func(title, role string) int {
		if title == "" {
			return domain.NoIndex
		}
		i, ok := index[title]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: %s node %q: %w", g.node.Title, role, title, domain.ErrTargetNotFound))
			return domain.NoIndex
		}
		return i
	}
	g.comp.DefaultIndex = lookup(g.defaultTitle, "default")
	g.comp.AnyIndex = lookup(g.anyTitle, "any")
	g.comp.ExitIndex = lookup(g.exitTitle, "exit")

	for _, c := range g.children {
		for _, p := range c.pending {
			i, ok := index[p.target]
			if !ok {
				errs = append(errs, fmt.Errorf("%s -> %s: %w", c.node.Title, p.target, domain.ErrTargetNotFound))
				continue
			}
			c.node.Transitions[p.idx].Target = i
		}
		if c.group != nil {
			errs = append(errs, c.group.resolve()...)
		}
	}
	return errs
}
