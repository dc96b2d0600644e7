package states

import (
	"fmt"

	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/persist"
)

// SetValue writes a constant into the value store when it starts, then
// finishes like Base.
type SetValue struct {
	Name   string           `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Value  string           `json:"value" yaml:"value" mapstructure:"value"`
	Type   domain.ValueType `json:"value_type" yaml:"value_type" mapstructure:"value_type"`
	Bool   bool             `json:"bool,omitempty" yaml:"bool,omitempty" mapstructure:"bool"`
	Int    int              `json:"int,omitempty" yaml:"int,omitempty" mapstructure:"int"`
	Float  float64          `json:"float,omitempty" yaml:"float,omitempty" mapstructure:"float"`
	String string           `json:"string,omitempty" yaml:"string,omitempty" mapstructure:"string"`
}

// SetValueData records the outcome of the last write.
type SetValueData struct {
	Err error
}

func (d *SetValueData) TakeFailure() error {
	err := d.Err
	d.Err = nil
	return err
}

func (s *SetValue) TypeTag() string { return TagSetValue }

func (s *SetValue) NewData() any { return &SetValueData{} }

func (s *SetValue) ValueRefs() []domain.ValueRef {
	return []domain.ValueRef{{Name: s.Value, Type: s.Type}}
}

func (s *SetValue) Start(d *domain.StateData) {
	d.Ratio = 1
	err := s.apply(d.Values)
	if sd, ok := d.Payload.(*SetValueData); ok {
		sd.Err = err
	}
}

func (s *SetValue) apply(b domain.Blackboard) error {
	if b == nil {
		return fmt.Errorf("set %s: no value store", s.Value)
	}
	switch s.Type {
	case domain.ValueBool:
		return b.SetBool(s.Value, s.Bool)
	case domain.ValueTrigger:
		if !s.Bool {
			return nil
		}
		return b.SetTrigger(s.Value)
	case domain.ValueInteger:
		return b.SetInt(s.Value, s.Int)
	case domain.ValueFloat:
		return b.SetFloat(s.Value, s.Float)
	default:
		return b.SetString(s.Value, s.String)
	}
}

func (s *SetValue) Update(*domain.StateData, float64) domain.Response {
	return domain.Finished
}

func (s *SetValue) End(*domain.StateData) {}

func (s *SetValue) WritePayload(w *persist.Writer) {
	w.PutString(s.Name)
	w.PutString(s.Value)
	w.PutInt(int(s.Type))
	switch s.Type {
	case domain.ValueBool, domain.ValueTrigger:
		w.PutBool(s.Bool)
	case domain.ValueInteger:
		w.PutInt(s.Int)
	case domain.ValueFloat:
		w.PutFloat(s.Float)
	default:
		w.PutString(s.String)
	}
}

func (s *SetValue) ReadPayload(r *persist.Reader) {
	s.Name = r.ReadString()
	s.Value = r.ReadString()
	s.Type = domain.ValueType(r.ReadInt())
	switch s.Type {
	case domain.ValueBool, domain.ValueTrigger:
		s.Bool = r.ReadBool()
	case domain.ValueInteger:
		s.Int = r.ReadInt()
	case domain.ValueFloat:
		s.Float = r.ReadFloat()
	default:
		s.String = r.ReadString()
	}
}
