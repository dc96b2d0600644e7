package services

import (
	"math/rand/v2"

	"github.com/aretw0/hfsm/pkg/domain"
)

// Timeout finishes after a random duration between Min and Max seconds,
// drawn when the owning node starts. Time is measured in fired periods, so
// the resolution is bounded by Rate. On a leaf the first fire happens on
// activation and already counts one period.
type Timeout struct {
	Min  float64 `json:"min" yaml:"min" mapstructure:"min"`
	Max  float64 `json:"max" yaml:"max" mapstructure:"max"`
	Rate int     `json:"rate,omitempty" yaml:"rate,omitempty" mapstructure:"rate"`

	// Rand returns a number in [0, 1). Defaults to math/rand/v2.
	Rand func() float64 `json:"-" yaml:"-" mapstructure:"-"`
}

// TimeoutData is the per-node record of a Timeout service.
type TimeoutData struct {
	Timeout float64
	Elapsed float64
}

func (s *Timeout) TypeTag() string { return TagTimeout }

func (s *Timeout) TicksPerSecond() int { return rate(s.Rate) }

func (s *Timeout) NewData() any { return &TimeoutData{} }

func (s *Timeout) Started(d *domain.ServiceData) {
	td := timeoutData(d)
	lo, hi := s.Min, s.Max
	if hi < lo {
		lo, hi = hi, lo
	}
	r := rand.Float64
	if s.Rand != nil {
		r = s.Rand
	}
	td.Timeout = lo + r()*(hi-lo)
	td.Elapsed = 0
}

func (s *Timeout) Tick(d *domain.ServiceData) domain.Response {
	td := timeoutData(d)
	td.Elapsed += d.Period
	if td.Elapsed >= td.Timeout {
		return domain.Finished
	}
	return domain.Running
}

func (s *Timeout) Ended(*domain.ServiceData) {}

func timeoutData(d *domain.ServiceData) *TimeoutData {
	td, ok := d.Payload.(*TimeoutData)
	if !ok {
		td = &TimeoutData{}
		d.Payload = td
	}
	return td
}
