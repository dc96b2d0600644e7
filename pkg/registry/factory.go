package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownType is returned when a factory tag has not been registered.
var ErrUnknownType = errors.New("unknown type tag")

// Factories maps persistence tags to constructors of fresh, zero configured
// instances. Decoders create an instance by tag and then fill its fields.
type Factories[T any] struct {
	mu    sync.RWMutex
	ctors map[string]func() T
}

// NewFactories creates an empty factory table.
func NewFactories[T any]() *Factories[T] {
	return &Factories[T]{ctors: make(map[string]func() T)}
}

// Register adds a constructor. If the tag exists, it is overwritten.
func (f *Factories[T]) Register(tag string, ctor func() T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctors[tag] = ctor
}

// New builds a fresh instance for tag.
func (f *Factories[T]) New(tag string) (T, error) {
	f.mu.RLock()
	ctor, ok := f.ctors[tag]
	f.mu.RUnlock()

	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrUnknownType, tag)
	}
	return ctor(), nil
}

// Tags returns the registered tags, sorted.
func (f *Factories[T]) Tags() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	tags := make([]string, 0, len(f.ctors))
	for tag := range f.ctors {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
