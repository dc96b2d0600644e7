package persist

import (
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/registry"
)

// CompositeTag is the state type tag written for composite states.
const CompositeTag = "ComposedState"

var (
	// ErrNotPersistable is returned for leaf states without a tag or payload codec.
	ErrNotPersistable = errors.New("state cannot be persisted")
	// ErrBadTag is returned when a stored state tag has no registered factory.
	ErrBadTag = errors.New("unknown state tag")
)

// Payload is implemented by leaf states that can be written to the binary layout.
// Implementations write their name first, then their own fields.
type Payload interface {
	domain.Typed
	WritePayload(w *Writer)
	ReadPayload(r *Reader)
}

// Write emits the layer in the order-sensitive binary layout: layer name, value
// table, then the root node recursively. Transition exit times and services are
// not part of the layout.
func Write(out io.Writer, layer *domain.Layer) error {
	w := NewWriter(out)
	w.PutString(layer.Name)
	w.PutInt(len(layer.Values))
	for _, v := range layer.Values {
		w.PutString(v.Name)
		w.PutInt(int(v.Type))
		writeConstant(w, v.Type, v.Bool, v.Int, v.Float, v.String)
	}
	if layer.Root == nil {
		return fmt.Errorf("layer %q has no root", layer.Name)
	}
	if err := writeNode(w, layer, layer.Root); err != nil {
		return err
	}
	return w.Flush()
}

func writeNode(w *Writer, layer *domain.Layer, n *domain.Node) error {
	w.PutString(n.Title)
	w.PutFloat32(n.Rect.X)
	w.PutFloat32(n.Rect.Y)
	w.PutFloat32(n.Rect.W)
	w.PutFloat32(n.Rect.H)

	switch n.State.Kind {
	case domain.KindComposite:
		c := n.State.Composite
		w.PutString(CompositeTag)
		w.PutString(c.Name)
		w.PutInt(c.AnyIndex)
		w.PutInt(c.DefaultIndex)
		w.PutInt(c.ExitIndex)
		w.PutInt(len(c.Nodes))
		for _, child := range c.Nodes {
			if err := writeNode(w, layer, child); err != nil {
				return err
			}
		}
	case domain.KindLeaf:
		p, ok := n.State.Leaf.(Payload)
		if !ok {
			return fmt.Errorf("%w: node %q holds %T", ErrNotPersistable, n.Path(), n.State.Leaf)
		}
		w.PutString(p.TypeTag())
		p.WritePayload(w)
	default:
		w.PutString("")
	}

	w.PutInt(len(n.Transitions))
	for _, t := range n.Transitions {
		w.PutString(t.Name)
		w.PutFloat(t.Weight)
		w.PutBool(t.HasExitTime)
		w.PutInt(t.Target)
		w.PutInt(len(t.Conditions))
		for _, c := range t.Conditions {
			def, ok := layer.FindValue(c.Value)
			if !ok {
				return fmt.Errorf("node %q: %w: %s", n.Path(), domain.ErrUnknownValue, c.Value)
			}
			w.PutString(c.Value)
			w.PutInt(int(c.Operation))
			w.PutInt(int(c.Next))
			writeConstant(w, def.Type, c.Bool, c.Int, c.Float, c.String)
		}
	}
	return w.Err()
}

func writeConstant(w *Writer, t domain.ValueType, b bool, i int, f float64, s string) {
	switch t {
	case domain.ValueBool, domain.ValueTrigger:
		w.PutBool(b)
	case domain.ValueInteger:
		w.PutInt(i)
	case domain.ValueFloat:
		w.PutFloat(f)
	default:
		w.PutString(s)
	}
}

// Read decodes a layer written by Write, creating leaf states through states.
func Read(in io.Reader, states *registry.Factories[domain.LeafState]) (*domain.Layer, error) {
	r := NewReader(in)
	layer := &domain.Layer{Name: r.ReadString()}
	for i, n := 0, r.ReadCount(); i < n && r.Err() == nil; i++ {
		def := domain.ValueDef{Name: r.ReadString(), Type: domain.ValueType(r.ReadInt())}
		readConstant(r, def.Type, &def.Bool, &def.Int, &def.Float, &def.String)
		layer.Values = append(layer.Values, def)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}

	root, err := readNode(r, layer, states)
	if err != nil {
		return nil, err
	}
	layer.Root = root
	domain.Link(root)
	return layer, nil
}

func readNode(r *Reader, layer *domain.Layer, states *registry.Factories[domain.LeafState]) (*domain.Node, error) {
	n := &domain.Node{Title: r.ReadString()}
	n.Rect = domain.Rect{X: r.ReadFloat32(), Y: r.ReadFloat32(), W: r.ReadFloat32(), H: r.ReadFloat32()}

	tag := r.ReadString()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("read node: %w", err)
	}
	switch tag {
	case "":
	case CompositeTag:
		c := domain.NewComposite(r.ReadString())
		c.AnyIndex = r.ReadInt()
		c.DefaultIndex = r.ReadInt()
		c.ExitIndex = r.ReadInt()
		for i, count := 0, r.ReadCount(); i < count && r.Err() == nil; i++ {
			child, err := readNode(r, layer, states)
			if err != nil {
				return nil, err
			}
			c.Nodes = append(c.Nodes, child)
		}
		n.State = domain.CompositeOf(c)
	default:
		leaf, err := states.New(tag)
		if err != nil {
			return nil, fmt.Errorf("%w: node %q: %w", ErrBadTag, n.Title, err)
		}
		p, ok := leaf.(Payload)
		if !ok {
			return nil, fmt.Errorf("%w: tag %s", ErrNotPersistable, tag)
		}
		p.ReadPayload(r)
		n.State = domain.LeafOf(leaf)
	}

	for i, count := 0, r.ReadCount(); i < count && r.Err() == nil; i++ {
		t := domain.Transition{
			Name:        r.ReadString(),
			Weight:      r.ReadFloat(),
			HasExitTime: r.ReadBool(),
			Target:      r.ReadInt(),
			ExitTime:    1,
		}
		for j, cc := 0, r.ReadCount(); j < cc && r.Err() == nil; j++ {
			c := domain.Condition{Value: r.ReadString()}
			c.Operation = domain.Operation(r.ReadInt())
			c.Next = domain.Operand(r.ReadInt())
			if r.Err() != nil {
				break
			}
			def, ok := layer.FindValue(c.Value)
			if !ok {
				return nil, fmt.Errorf("node %q: %w: %s", n.Title, domain.ErrUnknownValue, c.Value)
			}
			readConstant(r, def.Type, &c.Bool, &c.Int, &c.Float, &c.String)
			t.Conditions = append(t.Conditions, c)
		}
		n.Transitions = append(n.Transitions, t)
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("read node %q: %w", n.Title, err)
	}
	return n, nil
}

func readConstant(r *Reader, t domain.ValueType, b *bool, i *int, f *float64, s *string) {
	switch t {
	case domain.ValueBool, domain.ValueTrigger:
		*b = r.ReadBool()
	case domain.ValueInteger:
		*i = r.ReadInt()
	case domain.ValueFloat:
		*f = r.ReadFloat()
	default:
		*s = r.ReadString()
	}
}
