package domain

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventNodeStarted  EventType = "node_started"
	EventNodeEnded    EventType = "node_ended"
	EventStateStarted EventType = "state_started"
	EventStateEnded   EventType = "state_ended"
	EventGroupStarted EventType = "group_started"
	EventGroupEnded   EventType = "group_ended"
	// EventNodeChanged fires when the layer's current leaf changes.
	EventNodeChanged EventType = "node_changed"
	EventTransition  EventType = "transition"
	EventServiceTick EventType = "service_tick"
)

// Event is delivered synchronously to every listener, in registration order,
// within the Start/Update/End call that caused it.
type Event struct {
	Type EventType
	// Node is the authored node the event refers to (the target for transitions).
	Node *Node
	// Path is the title path of Node.
	Path string
	// State is the leaf behaviour of Node, nil for groups and inert nodes.
	State LeafState
	// From is the title path of the previously active sibling for transitions.
	From string
	// Service is set for EventServiceTick.
	Service Service
	// Response is the result of a service tick.
	Response Response
}

// Listener receives lifecycle events.
type Listener interface {
	OnEvent(e Event)
}

// ListenerFunc adapts a function to a Listener.
type ListenerFunc func(e Event)

func (f ListenerFunc) OnEvent(e Event) { f(e) }

// LifecycleHooks is a Listener built from optional callbacks.
type LifecycleHooks struct {
	OnNodeStarted  func(e Event)
	OnNodeEnded    func(e Event)
	OnStateStarted func(e Event)
	OnStateEnded   func(e Event)
	OnNodeChanged  func(e Event)
	OnTransition   func(e Event)
}

func (h LifecycleHooks) OnEvent(e Event) {
	var fn func(Event)
	switch e.Type {
	case EventNodeStarted:
		fn = h.OnNodeStarted
	case EventNodeEnded:
		fn = h.OnNodeEnded
	case EventStateStarted:
		fn = h.OnStateStarted
	case EventStateEnded:
		fn = h.OnStateEnded
	case EventNodeChanged:
		fn = h.OnNodeChanged
	case EventTransition:
		fn = h.OnTransition
	}
	if fn != nil {
		fn(e)
	}
}
