package values

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/hfsm/pkg/domain"
)

// ErrTypeMismatch is returned when a typed accessor does not match the declared type.
var ErrTypeMismatch = errors.New("value type mismatch")

// ErrDuplicateValue is returned when a name is declared twice.
var ErrDuplicateValue = errors.New("value already declared")

// Store is the named blackboard shared by a whole runtime tree.
// It is not safe for concurrent use; callers serialize access.
type Store struct {
	values map[string]*Value
	order  []string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{values: make(map[string]*Value)}
}

// FromLayer creates a store holding every value the layer declares, at its default.
func FromLayer(layer *domain.Layer) (*Store, error) {
	s := NewStore()
	for _, def := range layer.Values {
		if err := s.Declare(def); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Declare adds a value at its default.
func (s *Store) Declare(def domain.ValueDef) error {
	if _, ok := s.values[def.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateValue, def.Name)
	}
	v := &Value{name: def.Name, typ: def.Type}
	switch def.Type {
	case domain.ValueBool, domain.ValueTrigger:
		v.b = def.Bool
	case domain.ValueInteger:
		v.i = def.Int
	case domain.ValueFloat:
		v.f = def.Float
	default:
		v.s = def.String
	}
	s.values[def.Name] = v
	s.order = append(s.order, def.Name)
	return nil
}

// Lookup returns the handle of a value. This is what the compiler binds conditions to.
func (s *Store) Lookup(name string) (*Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Check reports whether a write of ref.Type to ref.Name would succeed.
func (s *Store) Check(ref domain.ValueRef) error {
	v, ok := s.values[ref.Name]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownValue, ref.Name)
	}
	if !ref.Type.WritesTo(v.typ) {
		return fmt.Errorf("%w: %s is %s, written as %s", ErrTypeMismatch, ref.Name, v.typ, ref.Type)
	}
	return nil
}

// Names returns the declared names in declaration order.
func (s *Store) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Store) typed(name string, types ...domain.ValueType) (*Value, error) {
	v, ok := s.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownValue, name)
	}
	for _, t := range types {
		if v.typ == t {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s is %s", ErrTypeMismatch, name, v.typ)
}

func (s *Store) GetFloat(name string) (float64, error) {
	v, err := s.typed(name, domain.ValueFloat)
	if err != nil {
		return 0, err
	}
	return v.f, nil
}

func (s *Store) GetInt(name string) (int, error) {
	v, err := s.typed(name, domain.ValueInteger)
	if err != nil {
		return 0, err
	}
	return v.i, nil
}

// GetBool reads a bool or a trigger. Reading a trigger through GetBool does not clear it.
func (s *Store) GetBool(name string) (bool, error) {
	v, err := s.typed(name, domain.ValueBool, domain.ValueTrigger)
	if err != nil {
		return false, err
	}
	return v.b, nil
}

func (s *Store) GetString(name string) (string, error) {
	v, err := s.typed(name, domain.ValueString, domain.ValueOther)
	if err != nil {
		return "", err
	}
	return v.s, nil
}

func (s *Store) SetFloat(name string, f float64) error {
	v, err := s.typed(name, domain.ValueFloat)
	if err != nil {
		return err
	}
	v.f = f
	return nil
}

func (s *Store) SetInt(name string, i int) error {
	v, err := s.typed(name, domain.ValueInteger)
	if err != nil {
		return err
	}
	v.i = i
	return nil
}

func (s *Store) SetBool(name string, b bool) error {
	v, err := s.typed(name, domain.ValueBool, domain.ValueTrigger)
	if err != nil {
		return err
	}
	v.b = b
	return nil
}

func (s *Store) SetString(name string, str string) error {
	v, err := s.typed(name, domain.ValueString, domain.ValueOther)
	if err != nil {
		return err
	}
	v.s = str
	return nil
}

// SetTrigger arms a trigger until the next condition reads it.
func (s *Store) SetTrigger(name string) error {
	v, err := s.typed(name, domain.ValueTrigger)
	if err != nil {
		return err
	}
	v.b = true
	return nil
}

// Set assigns a loosely typed value, converting numbers between int and float
// as JSON and YAML decoders produce them.
func (s *Store) Set(name string, raw any) error {
	v, ok := s.values[name]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownValue, name)
	}
	switch v.typ {
	case domain.ValueBool, domain.ValueTrigger:
		b, ok := raw.(bool)
		if !ok {
			return fmt.Errorf("%w: %s expects bool, got %T", ErrTypeMismatch, name, raw)
		}
		v.b = b
	case domain.ValueInteger:
		switch n := raw.(type) {
		case int:
			v.i = n
		case int64:
			v.i = int(n)
		case float64:
			if n != float64(int(n)) {
				return fmt.Errorf("%w: %s expects int, got %v", ErrTypeMismatch, name, n)
			}
			v.i = int(n)
		default:
			return fmt.Errorf("%w: %s expects int, got %T", ErrTypeMismatch, name, raw)
		}
	case domain.ValueFloat:
		switch n := raw.(type) {
		case float64:
			v.f = n
		case float32:
			v.f = float64(n)
		case int:
			v.f = float64(n)
		case int64:
			v.f = float64(n)
		default:
			return fmt.Errorf("%w: %s expects float, got %T", ErrTypeMismatch, name, raw)
		}
	default:
		str, ok := raw.(string)
		if !ok {
			return fmt.Errorf("%w: %s expects string, got %T", ErrTypeMismatch, name, raw)
		}
		v.s = str
	}
	return nil
}

// Snapshot is a serializable copy of every value, keyed by name.
type Snapshot map[string]any

// Snapshot copies the current values.
func (s *Store) Snapshot() Snapshot {
	snap := make(Snapshot, len(s.values))
	for name, v := range s.values {
		snap[name] = v.Any()
	}
	return snap
}

// Restore applies a snapshot. Names the store does not declare are skipped;
// type mismatches are reported after every other entry has been applied.
func (s *Store) Restore(snap Snapshot) error {
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		if _, ok := s.values[name]; !ok {
			continue
		}
		if err := s.Set(name, snap[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
