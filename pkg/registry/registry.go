package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrServiceNotFound is returned when no registered host service matches the requested type.
var ErrServiceNotFound = errors.New("service not found")

// Registry holds the host services of a layer (loggers, renderers, game objects...).
// Leaf states and services reach it through their runtime data records.
type Registry struct {
	mu       sync.RWMutex
	services []any
}

// NewRegistry creates a registry seeded with the given services.
func NewRegistry(services ...any) *Registry {
	r := &Registry{}
	for _, s := range services {
		r.Add(s)
	}
	return r
}

// Add registers a service instance. Adding the same instance twice is a no-op.
func (r *Registry) Add(service any) {
	if service == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.services {
		if s == service {
			return
		}
	}
	r.services = append(r.services, service)
}

// Replace registers service in place of the first one with the same
// dynamic type, or appends it.
func (r *Registry) Replace(service any) {
	if service == nil {
		return
	}
	t := reflect.TypeOf(service)
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.services {
		if reflect.TypeOf(s) == t {
			r.services[i] = service
			return
		}
	}
	r.services = append(r.services, service)
}

// Find returns the first registered service accepted by match.
func (r *Registry) Find(match func(any) bool) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.services {
		if match(s) {
			return s, true
		}
	}
	return nil, false
}

// All returns the registered services in insertion order.
func (r *Registry) All() []any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]any, len(r.services))
	copy(out, r.services)
	return out
}

// Set registers v as the service for type T, replacing any previous one assignable to T.
func Set[T any](r *Registry, v T) {
	if any(v) == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.services {
		if _, ok := s.(T); ok {
			r.services[i] = v
			return
		}
	}
	r.services = append(r.services, v)
}

// Locator is the lookup side of a Registry.
type Locator interface {
	Find(match func(any) bool) (any, bool)
}

// Get returns the first service assignable to T.
func Get[T any](l Locator) (T, error) {
	var zero T
	if l == nil {
		return zero, fmt.Errorf("%w: %s", ErrServiceNotFound, typeName[T]())
	}
	s, ok := l.Find(func(s any) bool {
		_, ok := s.(T)
		return ok
	})
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrServiceNotFound, typeName[T]())
	}
	return s.(T), nil
}

// MustGet is Get for callers that treat a missing service as a programming error.
func MustGet[T any](l Locator) T {
	v, err := Get[T](l)
	if err != nil {
		panic(err)
	}
	return v
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
