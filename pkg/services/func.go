package services

import "github.com/aretw0/hfsm/pkg/domain"

// Func adapts plain functions into a Service. A nil OnTick keeps running.
type Func struct {
	Rate      int
	Data      func() any
	OnStarted func(d *domain.ServiceData)
	OnTick    func(d *domain.ServiceData) domain.Response
	OnEnded   func(d *domain.ServiceData)
}

func (f *Func) TicksPerSecond() int { return rate(f.Rate) }

func (f *Func) NewData() any {
	if f.Data == nil {
		return nil
	}
	return f.Data()
}

func (f *Func) Started(d *domain.ServiceData) {
	if f.OnStarted != nil {
		f.OnStarted(d)
	}
}

func (f *Func) Tick(d *domain.ServiceData) domain.Response {
	if f.OnTick == nil {
		return domain.Running
	}
	return f.OnTick(d)
}

func (f *Func) Ended(d *domain.ServiceData) {
	if f.OnEnded != nil {
		f.OnEnded(d)
	}
}
