package schema

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/registry"
	"github.com/aretw0/hfsm/pkg/services"
	"github.com/aretw0/hfsm/pkg/states"
)

// TypeKey is the parameter key naming the factory of a state or service.
const TypeKey = "type"

// Registry maps type tags to state and service constructors.
type Registry struct {
	States   *registry.Factories[domain.LeafState]
	Services *registry.Factories[domain.Service]
}

// DefaultRegistry knows every built-in state and service.
func DefaultRegistry() Registry {
	return Registry{States: states.Defaults(), Services: services.Defaults()}
}

// Load parses and decodes a YAML or JSON document.
func Load(data []byte, reg Registry) (*domain.Layer, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Decode(doc, reg)
}

type decoder struct {
	reg   Registry
	types map[string]domain.ValueType
	errs  []error
}

func (d *decoder) fail(key, reason string, value any, err error) {
	d.errs = append(d.errs, &ValidationError{Key: key, Reason: reason, Value: value, Err: err})
}

// Decode turns a document into a linked layer. All problems are reported
// together in an *AggregateError.
func Decode(doc *Document, reg Registry) (*domain.Layer, error) {
	d := &decoder{reg: reg, types: make(map[string]domain.ValueType)}
	layer := &domain.Layer{Name: doc.Name}

	for i, v := range doc.Values {
		key := fmt.Sprintf("values[%d]", i)
		def, ok := d.value(key, v)
		if ok {
			layer.Values = append(layer.Values, def)
		}
	}

	if !doc.Root.IsGroup() {
		d.fail("root", "must declare child nodes", nil, domain.ErrRootNotComposite)
	} else {
		if len(doc.Root.Transitions) > 0 {
			d.fail("root.transitions", "the root has no siblings to transition to", nil, domain.ErrTargetNotFound)
		}
		layer.Root = d.node("root", &doc.Root)
	}

	if len(d.errs) > 0 {
		return nil, &AggregateError{Errors: d.errs}
	}
	domain.Link(layer.Root)
	return layer, nil
}

func (d *decoder) value(key string, v ValueDoc) (domain.ValueDef, bool) {
	def := domain.ValueDef{Name: v.Name}
	if v.Name == "" {
		d.fail(key+".name", "required", nil, nil)
		return def, false
	}
	if _, dup := d.types[v.Name]; dup {
		d.fail(key+".name", "declared twice", v.Name, nil)
		return def, false
	}
	t, err := domain.ParseValueType(v.Type)
	if err != nil {
		d.fail(key+".type", err.Error(), v.Type, nil)
		return def, false
	}
	def.Type = t
	d.types[v.Name] = t
	if v.Default == nil {
		return def, true
	}
	c, err := TypeOf(t).Coerce(v.Default)
	if err != nil {
		d.fail(key+".default", err.Error(), v.Default, nil)
		return def, false
	}
	assign(t, c, &def.Bool, &def.Int, &def.Float, &def.String)
	return def, true
}

func (d *decoder) node(key string, n *NodeDoc) *domain.Node {
	node := &domain.Node{Title: n.Title}
	if n.Title == "" {
		d.fail(key+".title", "required", nil, nil)
	}
	if n.Rect != nil {
		node.Rect = *n.Rect
	}

	for i, params := range n.Services {
		if svc := d.service(fmt.Sprintf("%s.services[%d]", key, i), params); svc != nil {
			node.Services = append(node.Services, svc)
		}
	}

	if !n.IsGroup() {
		if n.State != nil {
			if leaf := d.leaf(key+".state", n.State); leaf != nil {
				node.State = domain.LeafOf(leaf)
			}
		}
		return node
	}

	if n.State != nil {
		d.fail(key+".state", "a group cannot hold a leaf state", nil, nil)
	}
	name := n.Name
	if name == "" {
		name = n.Title
	}
	comp := domain.NewComposite(name)
	index := make(map[string]int, len(n.Nodes))
	for i := range n.Nodes {
		childKey := fmt.Sprintf("%s.nodes[%d]", key, i)
		title := n.Nodes[i].Title
		if _, dup := index[title]; dup {
			d.fail(childKey+".title", "duplicate sibling title", title, nil)
		} else {
			index[title] = i
		}
		comp.Nodes = append(comp.Nodes, d.node(childKey, &n.Nodes[i]))
	}

	lookup := func(field, title string) int {
		if title == "" {
			return domain.NoIndex
		}
		i, ok := index[title]
		if !ok {
			d.fail(key+"."+field, "no child with this title", title, domain.ErrTargetNotFound)
			return domain.NoIndex
		}
		return i
	}
	comp.DefaultIndex = lookup("default", n.Default)
	comp.AnyIndex = lookup("any", n.Any)
	comp.ExitIndex = lookup("exit", n.Exit)

	for i := range n.Nodes {
		childKey := fmt.Sprintf("%s.nodes[%d]", key, i)
		for j, td := range n.Nodes[i].Transitions {
			tkey := fmt.Sprintf("%s.transitions[%d]", childKey, j)
			target, ok := index[td.To]
			if !ok {
				d.fail(tkey+".to", "no sibling with this title", td.To, domain.ErrTargetNotFound)
				continue
			}
			comp.Nodes[i].Transitions = append(comp.Nodes[i].Transitions, d.transition(tkey, target, td))
		}
	}

	node.State = domain.CompositeOf(comp)
	return node
}

func (d *decoder) transition(key string, target int, td TransitionDoc) domain.Transition {
	t := domain.NewTransition(target)
	t.Name = td.Name
	if td.Weight != nil {
		t.Weight = *td.Weight
	}
	switch {
	case td.Immediate && td.ExitTime != nil:
		d.fail(key, "immediate and exit_time are exclusive", nil, nil)
	case td.Immediate:
		t.HasExitTime = false
	case td.ExitTime != nil:
		t.ExitTime = *td.ExitTime
	}

	for i, cd := range td.When {
		ckey := fmt.Sprintf("%s.when[%d]", key, i)
		vt, ok := d.types[cd.Value]
		if !ok {
			d.fail(ckey+".value", "undeclared value", cd.Value, domain.ErrUnknownValue)
			continue
		}
		op, err := domain.ParseOperation(cd.Op)
		if err != nil {
			d.fail(ckey+".op", err.Error(), cd.Op, nil)
			continue
		}
		next, err := domain.ParseOperand(cd.Next)
		if err != nil {
			d.fail(ckey+".next", err.Error(), cd.Next, nil)
			continue
		}
		c := domain.Condition{Value: cd.Value, Operation: op, Next: next}
		v, err := TypeOf(vt).Coerce(cd.Const)
		if err != nil {
			d.fail(ckey+".const", err.Error(), cd.Const, nil)
			continue
		}
		assign(vt, v, &c.Bool, &c.Int, &c.Float, &c.String)
		t.Conditions = append(t.Conditions, c)
	}
	return t
}

func (d *decoder) leaf(key string, params map[string]any) domain.LeafState {
	tag, rest, ok := d.split(key, params)
	if !ok {
		return nil
	}
	leaf, err := d.reg.States.New(tag)
	if err != nil {
		d.fail(key+"."+TypeKey, "unknown state type", tag, err)
		return nil
	}
	if err := decodeParams(rest, leaf); err != nil {
		d.fail(key, err.Error(), nil, nil)
		return nil
	}
	return leaf
}

func (d *decoder) service(key string, params map[string]any) domain.Service {
	tag, rest, ok := d.split(key, params)
	if !ok {
		return nil
	}
	svc, err := d.reg.Services.New(tag)
	if err != nil {
		d.fail(key+"."+TypeKey, "unknown service type", tag, err)
		return nil
	}
	if err := decodeParams(rest, svc); err != nil {
		d.fail(key, err.Error(), nil, nil)
		return nil
	}
	return svc
}

func (d *decoder) split(key string, params map[string]any) (string, map[string]any, bool) {
	tag, _ := params[TypeKey].(string)
	if tag == "" {
		d.fail(key+"."+TypeKey, "required", nil, nil)
		return "", nil, false
	}
	rest := make(map[string]any, len(params))
	for k, v := range params {
		if k != TypeKey {
			rest[k] = v
		}
	}
	return tag, rest, true
}

// decodeParams fills out from a loosely typed parameter map. Unknown keys
// are rejected.
func decodeParams(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(params)
}
