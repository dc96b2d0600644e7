package schema

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/hfsm/pkg/domain"
)

// Encode turns a layer into its document form.
func Encode(layer *domain.Layer) (*Document, error) {
	if layer.Composite() == nil {
		return nil, domain.ErrRootNotComposite
	}
	doc := &Document{Name: layer.Name}
	for _, v := range layer.Values {
		vd := ValueDoc{Name: v.Name, Type: v.Type.String()}
		if v.Type != domain.ValueTrigger {
			vd.Default = constant(v.Type, v.Bool, v.Int, v.Float, v.String)
		}
		doc.Values = append(doc.Values, vd)
	}
	root, err := encodeNode(layer, layer.Root)
	if err != nil {
		return nil, err
	}
	doc.Root = *root
	return doc, nil
}

func encodeNode(layer *domain.Layer, n *domain.Node) (*NodeDoc, error) {
	nd := &NodeDoc{Title: n.Title}
	if n.Rect != (domain.Rect{}) {
		r := n.Rect
		nd.Rect = &r
	}
	for _, svc := range n.Services {
		params, err := encodeParams(svc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", n.Path(), err)
		}
		nd.Services = append(nd.Services, params)
	}

	switch n.State.Kind {
	case domain.KindLeaf:
		params, err := encodeParams(n.State.Leaf)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", n.Path(), err)
		}
		nd.State = params
	case domain.KindComposite:
		c := n.State.Composite
		if c.Name != n.Title {
			nd.Name = c.Name
		}
		title := func(i int) string {
			if i < 0 || i >= len(c.Nodes) || c.Nodes[i] == nil {
				return ""
			}
			return c.Nodes[i].Title
		}
		nd.Default, nd.Any, nd.Exit = title(c.DefaultIndex), title(c.AnyIndex), title(c.ExitIndex)

		for _, child := range c.Nodes {
			if child == nil {
				continue
			}
			cd, err := encodeNode(layer, child)
			if err != nil {
				return nil, err
			}
			for _, t := range child.Transitions {
				td, err := encodeTransition(layer, title(t.Target), t)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", child.Path(), err)
				}
				cd.Transitions = append(cd.Transitions, td)
			}
			nd.Nodes = append(nd.Nodes, *cd)
		}
	}
	return nd, nil
}

func encodeTransition(layer *domain.Layer, to string, t domain.Transition) (TransitionDoc, error) {
	if to == "" {
		return TransitionDoc{}, fmt.Errorf("%w: index %d", domain.ErrTargetNotFound, t.Target)
	}
	td := TransitionDoc{To: to, Name: t.Name}
	if t.Weight != 1 {
		w := t.Weight
		td.Weight = &w
	}
	switch {
	case !t.HasExitTime:
		td.Immediate = true
	case t.ExitTime != 1:
		e := t.ExitTime
		td.ExitTime = &e
	}
	for i, c := range t.Conditions {
		def, ok := layer.FindValue(c.Value)
		if !ok {
			return td, fmt.Errorf("%w: %s", domain.ErrUnknownValue, c.Value)
		}
		cd := ConditionDoc{
			Value: c.Value,
			Op:    c.Operation.String(),
			Const: constant(def.Type, c.Bool, c.Int, c.Float, c.String),
		}
		if i > 0 {
			cd.Next = c.Next.String()
		}
		td.When = append(td.When, cd)
	}
	return td, nil
}

// encodeParams flattens a tagged state or service into a parameter map.
func encodeParams(v any) (map[string]any, error) {
	typed, ok := v.(domain.Typed)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotEncodable, v)
	}
	params := map[string]any{}
	if err := mapstructure.Decode(v, &params); err != nil {
		return nil, fmt.Errorf("encode %s: %w", typed.TypeTag(), err)
	}
	params[TypeKey] = typed.TypeTag()
	return params, nil
}
