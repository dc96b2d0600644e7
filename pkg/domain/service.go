package domain

// Service is a periodic behaviour bound to a node. It fires at its own
// frequency while the node is active, independently of the state's update.
type Service interface {
	// TicksPerSecond is the firing frequency. Values below 1 are treated as 1.
	TicksPerSecond() int
	// NewData returns the opaque payload stored in ServiceData.Payload.
	NewData() any
	Started(d *ServiceData)
	Tick(d *ServiceData) Response
	Ended(d *ServiceData)
}

// ServiceData is the runtime record of one service attached to one node.
type ServiceData struct {
	// Period is 1/TicksPerSecond, in seconds.
	Period float64
	// Elapsed accumulates dt between fires.
	Elapsed  float64
	Payload  any
	Node     *Node
	Values   Blackboard
	Services ServiceLocator
}
