package states

import (
	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/registry"
)

// Defaults returns a factory table with every built-in persistable state.
// Hosts register their own tags on the returned table.
func Defaults() *registry.Factories[domain.LeafState] {
	f := registry.NewFactories[domain.LeafState]()
	f.Register(TagBase, func() domain.LeafState { return &Base{} })
	f.Register(TagTimed, func() domain.LeafState { return &Timed{} })
	f.Register(TagAnimation, func() domain.LeafState { return &Animation{} })
	f.Register(TagSetValue, func() domain.LeafState { return &SetValue{} })
	return f
}
