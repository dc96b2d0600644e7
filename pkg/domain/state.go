package domain

// StateKind tags the variant held by a State.
type StateKind int

const (
	// KindNone marks an inert node: it finishes on its first update.
	KindNone StateKind = iota
	// KindLeaf marks a terminal behaviour driven by a LeafState.
	KindLeaf
	// KindComposite marks a nested group of child nodes.
	KindComposite
)

func (k StateKind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindComposite:
		return "composite"
	default:
		return "none"
	}
}

// Response is what a state or service reports after an update.
type Response int

const (
	Running Response = iota
	Finished
)

func (r Response) String() string {
	if r == Finished {
		return "finished"
	}
	return "running"
}

// NoIndex marks an unset default, any or exit index.
const NoIndex = -1

// State is a tagged union over the two kinds of behaviour a node can hold.
type State struct {
	Kind      StateKind
	Leaf      LeafState
	Composite *CompositeState
}

// LeafOf wraps a leaf behaviour into a State.
func LeafOf(s LeafState) State {
	if s == nil {
		return State{}
	}
	return State{Kind: KindLeaf, Leaf: s}
}

// CompositeOf wraps a composite into a State.
func CompositeOf(c *CompositeState) State {
	return State{Kind: KindComposite, Composite: c}
}

// CompositeState is an ordered arena of child nodes with three optional
// distinguished indices.
type CompositeState struct {
	Name         string
	Nodes        []*Node
	DefaultIndex int
	AnyIndex     int
	ExitIndex    int
}

// NewComposite returns an empty composite with every index unset.
func NewComposite(name string) *CompositeState {
	return &CompositeState{
		Name:         name,
		DefaultIndex: NoIndex,
		AnyIndex:     NoIndex,
		ExitIndex:    NoIndex,
	}
}

// FindByTitle returns the first child with the given title.
func (c *CompositeState) FindByTitle(title string) (*Node, int) {
	for i, n := range c.Nodes {
		if n != nil && n.Title == title {
			return n, i
		}
	}
	return nil, NoIndex
}

// IndexOf returns the position of n in the arena or NoIndex.
func (c *CompositeState) IndexOf(n *Node) int {
	for i, child := range c.Nodes {
		if child == n {
			return i
		}
	}
	return NoIndex
}

// StateData is the per-node record a LeafState operates on. It is created
// once at compile time and reused across activations.
type StateData struct {
	// Ratio is the normalized completion progress (0..1) read by exit-time gates.
	Ratio float64
	// Payload is the variant specific record returned by LeafState.NewData.
	Payload any
	// Node is the authored node owning the state.
	Node *Node
	// Values is the shared blackboard.
	Values Blackboard
	// Services is the host service registry of the layer.
	Services ServiceLocator
}

// LeafState is the contract of a terminal behaviour.
type LeafState interface {
	// NewData returns the opaque per-node payload stored in StateData.Payload.
	NewData() any
	Start(d *StateData)
	Update(d *StateData, dt float64) Response
	End(d *StateData)
}

// Typed is implemented by leaf states and services that carry a persistence tag.
type Typed interface {
	TypeTag() string
}

// ValueRef names a blackboard entry a behaviour writes and the type it
// writes it as.
type ValueRef struct {
	Name string
	Type ValueType
}

// ValueWriter is implemented by leaf states and services that write values.
// The compiler checks every reference against the value store.
type ValueWriter interface {
	ValueRefs() []ValueRef
}

// FailureRecorder is implemented by payloads that keep the error of a failed
// write. TakeFailure returns it and clears it.
type FailureRecorder interface {
	TakeFailure() error
}

// Blackboard is the slice of the value store visible to states and services.
type Blackboard interface {
	GetFloat(name string) (float64, error)
	GetInt(name string) (int, error)
	GetBool(name string) (bool, error)
	GetString(name string) (string, error)
	SetFloat(name string, v float64) error
	SetInt(name string, v int) error
	SetBool(name string, v bool) error
	SetString(name string, v string) error
	SetTrigger(name string) error
}

// ServiceLocator resolves host services registered on a layer.
type ServiceLocator interface {
	Find(match func(any) bool) (any, bool)
}
