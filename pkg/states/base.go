package states

import (
	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/persist"
)

// Persistence tags of the built-in leaf states.
const (
	TagBase      = "State"
	TagTimed     = "TimedState"
	TagAnimation = "AnimationState"
	TagSetValue  = "SetValueState"
)

// Base is the pass-through state: it reports full progress on start and
// finishes on its first update.
type Base struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
}

func (s *Base) TypeTag() string { return TagBase }

func (s *Base) NewData() any { return nil }

func (s *Base) Start(d *domain.StateData) {
	d.Ratio = 1
}

func (s *Base) Update(*domain.StateData, float64) domain.Response {
	return domain.Finished
}

func (s *Base) End(*domain.StateData) {}

func (s *Base) WritePayload(w *persist.Writer) {
	w.PutString(s.Name)
}

func (s *Base) ReadPayload(r *persist.Reader) {
	s.Name = r.ReadString()
}
