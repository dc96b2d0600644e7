package states

import (
	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/persist"
)

// Timed runs for Duration seconds. Its ratio grows linearly from 0 to 1;
// on reaching 1 it restarts when Loop is set, otherwise it finishes.
type Timed struct {
	Name     string  `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Duration float64 `json:"duration" yaml:"duration" mapstructure:"duration"`
	Loop     bool    `json:"loop,omitempty" yaml:"loop,omitempty" mapstructure:"loop"`
}

// TimedData is the per-node payload of a Timed state.
type TimedData struct {
	Elapsed float64
}

func (s *Timed) TypeTag() string { return TagTimed }

func (s *Timed) NewData() any { return &TimedData{} }

func (s *Timed) Start(d *domain.StateData) {
	timedData(d).Elapsed = 0
	d.Ratio = 0
}

func (s *Timed) Update(d *domain.StateData, dt float64) domain.Response {
	td := timedData(d)
	td.Elapsed += dt
	if s.Duration <= 0 {
		d.Ratio = 1
	} else {
		d.Ratio = clamp01(td.Elapsed / s.Duration)
	}
	if d.Ratio < 1 {
		return domain.Running
	}
	if s.Loop {
		s.Start(d)
		return domain.Running
	}
	return domain.Finished
}

func (s *Timed) End(*domain.StateData) {}

func (s *Timed) WritePayload(w *persist.Writer) {
	w.PutString(s.Name)
	w.PutFloat(s.Duration)
	w.PutBool(s.Loop)
}

func (s *Timed) ReadPayload(r *persist.Reader) {
	s.Name = r.ReadString()
	s.Duration = r.ReadFloat()
	s.Loop = r.ReadBool()
}

// timedData tolerates a record that was not created through NewData.
func timedData(d *domain.StateData) *TimedData {
	td, ok := d.Payload.(*TimedData)
	if !ok {
		td = &TimedData{}
		d.Payload = td
	}
	return td
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
