// Package services provides built-in periodic behaviours for nodes.
package services

import (
	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/registry"
)

const (
	TagTimeout = "Timeout"
	TagCounter = "Counter"
)

// Defaults returns a factory table with every built-in tagged service.
func Defaults() *registry.Factories[domain.Service] {
	f := registry.NewFactories[domain.Service]()
	f.Register(TagTimeout, func() domain.Service { return &Timeout{} })
	f.Register(TagCounter, func() domain.Service { return &Counter{} })
	return f
}

func rate(r int) int {
	if r < 1 {
		return 1
	}
	return r
}
