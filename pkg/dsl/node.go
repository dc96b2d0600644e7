package dsl

import (
	"fmt"

	"github.com/aretw0/hfsm/pkg/domain"
)

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	builder *Builder
	parent  *GroupBuilder
	group   *GroupBuilder
	node    *domain.Node
	pending []pendingTarget
}

type pendingTarget struct {
	idx    int
	target string
}

// At sets the authoring rectangle.
func (n *NodeBuilder) At(x, y, w, h float32) *NodeBuilder {
	n.node.Rect = domain.Rect{X: x, Y: y, W: w, H: h}
	return n
}

// Service attaches periodic services in order.
func (n *NodeBuilder) Service(services ...domain.Service) *NodeBuilder {
	n.node.Services = append(n.node.Services, services...)
	return n
}

// Go adds a transition to the sibling titled target. It waits for the
// state to finish unless configured otherwise.
func (n *NodeBuilder) Go(target string) *TransitionBuilder {
	n.node.Transitions = append(n.node.Transitions, domain.NewTransition(domain.NoIndex))
	idx := len(n.node.Transitions) - 1
	n.pending = append(n.pending, pendingTarget{idx: idx, target: target})
	return &TransitionBuilder{node: n, idx: idx}
}

// Build returns the underlying domain.Node. Transition targets are only
// resolved by Builder.Build.
func (n *NodeBuilder) Build() *domain.Node {
	return n.node
}

// TransitionBuilder configures the transition most recently added by Go.
type TransitionBuilder struct {
	node *NodeBuilder
	idx  int
}

func (t *TransitionBuilder) tr() *domain.Transition {
	return &t.node.node.Transitions[t.idx]
}

// Named sets the transition name.
func (t *TransitionBuilder) Named(name string) *TransitionBuilder {
	t.tr().Name = name
	return t
}

// Weight sets the priority among transitions that hold at the same time.
func (t *TransitionBuilder) Weight(w float64) *TransitionBuilder {
	t.tr().Weight = w
	return t
}

// Immediate makes the transition fire as soon as its conditions hold.
func (t *TransitionBuilder) Immediate() *TransitionBuilder {
	t.tr().HasExitTime = false
	return t
}

// ExitTime gates the transition until the state's ratio reaches at.
func (t *TransitionBuilder) ExitTime(at float64) *TransitionBuilder {
	tr := t.tr()
	tr.HasExitTime = true
	tr.ExitTime = at
	return t
}

// When seeds the condition chain. It is the same as And.
func (t *TransitionBuilder) When(value, op string, constant any) *TransitionBuilder {
	return t.cond(domain.And, value, op, constant)
}

// And appends a condition that must hold together with the chain so far.
func (t *TransitionBuilder) And(value, op string, constant any) *TransitionBuilder {
	return t.cond(domain.And, value, op, constant)
}

// Or appends a condition folded into the chain with a logical or.
func (t *TransitionBuilder) Or(value, op string, constant any) *TransitionBuilder {
	return t.cond(domain.Or, value, op, constant)
}

// Go adds another transition from the same node.
func (t *TransitionBuilder) Go(target string) *TransitionBuilder {
	return t.node.Go(target)
}

func (t *TransitionBuilder) cond(next domain.Operand, value, op string, constant any) *TransitionBuilder {
	operation, err := domain.ParseOperation(op)
	if err != nil {
		t.node.builder.fail(fmt.Errorf("%s: %w", t.node.node.Title, err))
		return t
	}
	c := domain.Condition{Value: value, Operation: operation, Next: next}
	switch v := constant.(type) {
	case bool:
		c.Bool = v
	case int:
		c.Int = v
	case float64:
		c.Float = v
	case float32:
		c.Float = float64(v)
	case string:
		c.String = v
	default:
		t.node.builder.fail(fmt.Errorf("%s: condition on %s: unsupported constant %T", t.node.node.Title, value, constant))
		return t
	}
	tr := t.tr()
	tr.Conditions = append(tr.Conditions, c)
	return t
}
