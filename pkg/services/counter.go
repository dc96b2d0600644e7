package services

import (
	"errors"
	"fmt"

	"github.com/aretw0/hfsm/pkg/domain"
)

var errNoValues = errors.New("no value store")

// Counter adds Step to an integer value every time it fires. It never
// finishes the node. A failed write is counted in Failures and kept in Err
// until the runtime takes it.
type Counter struct {
	Value string `json:"value" yaml:"value" mapstructure:"value"`
	Step  int    `json:"step,omitempty" yaml:"step,omitempty" mapstructure:"step"`
	Rate  int    `json:"rate,omitempty" yaml:"rate,omitempty" mapstructure:"rate"`
}

// CounterData is the per-node record of a Counter service.
type CounterData struct {
	Fired    int
	Failures int
	Err      error
}

func (d *CounterData) TakeFailure() error {
	err := d.Err
	d.Err = nil
	return err
}

func (s *Counter) TypeTag() string { return TagCounter }

func (s *Counter) TicksPerSecond() int { return rate(s.Rate) }

func (s *Counter) NewData() any { return &CounterData{} }

func (s *Counter) ValueRefs() []domain.ValueRef {
	return []domain.ValueRef{{Name: s.Value, Type: domain.ValueInteger}}
}

func (s *Counter) Started(d *domain.ServiceData) {
	if cd, ok := d.Payload.(*CounterData); ok {
		cd.Fired = 0
	}
}

func (s *Counter) Tick(d *domain.ServiceData) domain.Response {
	cd, _ := d.Payload.(*CounterData)
	if cd == nil {
		cd = &CounterData{}
		d.Payload = cd
	}
	cd.Fired++

	step := s.Step
	if step == 0 {
		step = 1
	}
	if d.Values == nil {
		cd.Failures++
		cd.Err = errNoValues
		return domain.Running
	}
	v, err := d.Values.GetInt(s.Value)
	if err == nil {
		err = d.Values.SetInt(s.Value, v+step)
	}
	if err != nil {
		cd.Failures++
		cd.Err = fmt.Errorf("counter %s: %w", s.Value, err)
	}
	return domain.Running
}

func (s *Counter) Ended(*domain.ServiceData) {}
