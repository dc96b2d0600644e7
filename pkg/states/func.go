package states

import "github.com/aretw0/hfsm/pkg/domain"

// Func adapts plain functions into a LeafState. Nil hooks are skipped and a
// nil OnUpdate finishes immediately. Func states are not persistable.
type Func struct {
	Data     func() any
	OnStart  func(d *domain.StateData)
	OnUpdate func(d *domain.StateData, dt float64) domain.Response
	OnEnd    func(d *domain.StateData)
}

func (f *Func) NewData() any {
	if f.Data == nil {
		return nil
	}
	return f.Data()
}

func (f *Func) Start(d *domain.StateData) {
	if f.OnStart != nil {
		f.OnStart(d)
	}
}

func (f *Func) Update(d *domain.StateData, dt float64) domain.Response {
	if f.OnUpdate == nil {
		return domain.Finished
	}
	return f.OnUpdate(d, dt)
}

func (f *Func) End(d *domain.StateData) {
	if f.OnEnd != nil {
		f.OnEnd(d)
	}
}

// Running returns a Func that never finishes on its own.
func Running() *Func {
	return &Func{OnUpdate: func(*domain.StateData, float64) domain.Response { return domain.Running }}
}
