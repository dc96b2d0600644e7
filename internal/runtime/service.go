package runtime

import "github.com/aretw0/hfsm/pkg/domain"

// serviceSlot binds one service to one node.
type serviceSlot struct {
	svc  domain.Service
	data domain.ServiceData
}

func newServiceSlot(n *Node, svc domain.Service) *serviceSlot {
	tps := svc.TicksPerSecond()
	if tps < 1 {
		tps = 1
	}
	return &serviceSlot{
		svc: svc,
		data: domain.ServiceData{
			Period:   1 / float64(tps),
			Payload:  svc.NewData(),
			Node:     n.def,
			Values:   n.tree.values,
			Services: n.tree.services,
		},
	}
}

// startServices notifies every service. Leaves prime elapsed to the full
// period so the first tick fires on the next update. Group services start
// unprimed from zero and first fire one full period after the group starts.
func (n *Node) startServices(prime bool) {
	for _, s := range n.services {
		s.svc.Started(&s.data)
		if prime {
			s.data.Elapsed = s.data.Period
		} else {
			s.data.Elapsed = 0
		}
	}
}

// tickServices advances every service cadence in list order. The first
// non-running tick stops the pass and is returned.
func (n *Node) tickServices(dt float64) domain.Response {
	for _, s := range n.services {
		s.data.Elapsed += dt
		if s.data.Elapsed < s.data.Period {
			continue
		}
		s.data.Elapsed = 0
		r := s.svc.Tick(&s.data)
		n.reportFailure("service tick failed", s.data.Payload)
		n.tree.emit(domain.Event{Type: domain.EventServiceTick, Node: n.def, Path: n.path, Service: s.svc, Response: r})
		if r != domain.Running {
			return r
		}
	}
	return domain.Running
}

func (n *Node) endServices() {
	for _, s := range n.services {
		s.svc.Ended(&s.data)
	}
}
