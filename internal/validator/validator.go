// Package validator inspects an authored layer for mistakes the compiler
// accepts silently, such as unreachable children and transitions that can
// never fire. It also reports the errors the compiler would refuse.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/values"
)

var (
	// ErrUnreachable marks a child no default, any or transition chain can activate.
	ErrUnreachable = errors.New("unreachable node")
	// ErrNeverFires marks a transition the runtime will never take.
	ErrNeverFires = errors.New("transition never fires")
	// ErrBadIndex marks a default, any or exit index outside the node list.
	ErrBadIndex = errors.New("index out of range")
)

// Severity ranks an Issue. Errors make Compile fail or leave the runtime
// stuck; warnings point at dead authoring.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Issue is one finding, located by node path and, for transition
// findings, the transition index (-1 otherwise).
type Issue struct {
	Severity   Severity
	Path       string
	Transition int
	Err        error
}

func (i Issue) Error() string {
	path := i.Path
	if path == "" {
		path = "<root>"
	}
	if i.Transition >= 0 {
		return fmt.Sprintf("%s: %s transition %d: %v", i.Severity, path, i.Transition, i.Err)
	}
	return fmt.Sprintf("%s: %s: %v", i.Severity, path, i.Err)
}

func (i Issue) Unwrap() error { return i.Err }

// Report collects the issues of one layer in traversal order.
type Report struct {
	Issues []Issue
}

// Errors returns only the error-level issues.
func (r *Report) Errors() []Issue { return r.filter(Error) }

// Warnings returns only the warning-level issues.
func (r *Report) Warnings() []Issue { return r.filter(Warning) }

func (r *Report) filter(s Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}

// Err joins the error-level issues, nil when there are none.
func (r *Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	joined := make([]error, len(errs))
	for i, e := range errs {
		joined[i] = e
	}
	return errors.Join(joined...)
}

func (r *Report) String() string {
	if len(r.Issues) == 0 {
		return "ok"
	}
	lines := make([]string, len(r.Issues))
	for i, issue := range r.Issues {
		lines[i] = issue.Error()
	}
	return strings.Join(lines, "\n")
}

func (r *Report) add(s Severity, path string, transition int, err error) {
	r.Issues = append(r.Issues, Issue{Severity: s, Path: path, Transition: transition, Err: err})
}

// Validate walks every composite of layer. It never stops at the first
// finding.
func Validate(layer *domain.Layer) *Report {
	r := &Report{}
	if layer == nil || layer.Root == nil || !layer.Root.IsComposite() {
		r.add(Error, "", -1, domain.ErrRootNotComposite)
		return r
	}
	for i, t := range layer.Root.Transitions {
		r.add(Warning, "", i, fmt.Errorf("%w: root has no siblings (target %d)", ErrNeverFires, t.Target))
	}
	checkWrites(r, layer, layer.Root)
	checkGroup(r, layer, layer.Root)
	return r
}

func checkGroup(r *Report, layer *domain.Layer, group *domain.Node) {
	c := group.State.Composite
	path := groupPath(group)

	checkIndex(r, path, "default", c.DefaultIndex, c.Nodes)
	checkIndex(r, path, "any", c.AnyIndex, c.Nodes)
	checkIndex(r, path, "exit", c.ExitIndex, c.Nodes)
	if c.DefaultIndex == domain.NoIndex && len(c.Nodes) > 0 {
		r.add(Warning, path, -1, errors.New("no default child: the group idles until played into"))
	}
	if c.AnyIndex != domain.NoIndex && c.AnyIndex == c.DefaultIndex {
		r.add(Warning, path, -1, errors.New("any node is also the default child"))
	}

	for idx, child := range c.Nodes {
		if child == nil {
			continue
		}
		for ti, t := range child.Transitions {
			checkTransition(r, layer, c, idx, child, ti, t)
		}
		checkWrites(r, layer, child)
		if child.IsComposite() {
			checkGroup(r, layer, child)
		}
	}

	for _, idx := range unreachable(c) {
		r.add(Warning, c.Nodes[idx].Path(), -1, ErrUnreachable)
	}
}

func checkIndex(r *Report, path, name string, idx int, nodes []*domain.Node) {
	if idx == domain.NoIndex {
		return
	}
	if idx < 0 || idx >= len(nodes) || nodes[idx] == nil {
		r.add(Error, path, -1, fmt.Errorf("%w: %s index %d of %d", ErrBadIndex, name, idx, len(nodes)))
	}
}

func checkTransition(r *Report, layer *domain.Layer, c *domain.CompositeState, idx int, child *domain.Node, ti int, t domain.Transition) {
	path := child.Path()
	if t.Target < 0 || t.Target >= len(c.Nodes) || c.Nodes[t.Target] == nil {
		r.add(Error, path, ti, fmt.Errorf("%w: index %d", domain.ErrTargetNotFound, t.Target))
	}
	for _, cond := range t.Conditions {
		def, ok := layer.FindValue(cond.Value)
		if !ok {
			r.add(Error, path, ti, fmt.Errorf("%w: %s", domain.ErrUnknownValue, cond.Value))
			continue
		}
		if def.Type == domain.ValueOther {
			r.add(Warning, path, ti, fmt.Errorf("%w: value %s has no comparable type", ErrNeverFires, cond.Value))
		}
	}
	switch {
	case t.Weight <= 0:
		r.add(Warning, path, ti, fmt.Errorf("%w: weight %g", ErrNeverFires, t.Weight))
	case idx == c.ExitIndex:
		r.add(Warning, path, ti, fmt.Errorf("%w: the exit node completes its group", ErrNeverFires))
	case idx == c.AnyIndex && t.HasExitTime:
		r.add(Warning, path, ti, fmt.Errorf("%w: exit-time transitions of the any node are not evaluated", ErrNeverFires))
	}
}

func checkWrites(r *Report, layer *domain.Layer, n *domain.Node) {
	writers := make([]any, 0, len(n.Services)+1)
	if n.State.Kind == domain.KindLeaf {
		writers = append(writers, n.State.Leaf)
	}
	for _, svc := range n.Services {
		writers = append(writers, svc)
	}
	for _, w := range writers {
		vw, ok := w.(domain.ValueWriter)
		if !ok {
			continue
		}
		for _, ref := range vw.ValueRefs() {
			def, ok := layer.FindValue(ref.Name)
			switch {
			case !ok:
				r.add(Error, groupPath(n), -1, fmt.Errorf("%w: %s", domain.ErrUnknownValue, ref.Name))
			case !ref.Type.WritesTo(def.Type):
				r.add(Error, groupPath(n), -1, fmt.Errorf("%w: %s is %s, written as %s", values.ErrTypeMismatch, ref.Name, def.Type, ref.Type))
			}
		}
	}
}

// unreachable returns the indices that neither the default, the any node's
// targets nor a chain of transitions from them can activate. The any node
// itself is never reported.
func unreachable(c *domain.CompositeState) []int {
	seen := make(map[int]bool, len(c.Nodes))
	var queue []int
	push := func(i int) {
		if i < 0 || i >= len(c.Nodes) || c.Nodes[i] == nil || seen[i] {
			return
		}
		seen[i] = true
		queue = append(queue, i)
	}
	push(c.DefaultIndex)
	if c.AnyIndex >= 0 && c.AnyIndex < len(c.Nodes) && c.Nodes[c.AnyIndex] != nil {
		for _, t := range c.Nodes[c.AnyIndex].Transitions {
			push(t.Target)
		}
	}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		for _, t := range c.Nodes[i].Transitions {
			push(t.Target)
		}
	}

	var out []int
	for i, n := range c.Nodes {
		if n == nil || seen[i] || i == c.AnyIndex {
			continue
		}
		out = append(out, i)
	}
	return out
}

func groupPath(n *domain.Node) string {
	if n.Parent() == nil {
		return ""
	}
	return n.Path()
}
