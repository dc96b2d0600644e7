package hfsm

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/hfsm/internal/compiler"
	"github.com/aretw0/hfsm/internal/logging"
	"github.com/aretw0/hfsm/internal/runtime"
	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/ports"
	"github.com/aretw0/hfsm/pkg/registry"
	"github.com/aretw0/hfsm/pkg/values"
)

// Animator is the high-level entry point of the library. It compiles a
// layer once and drives the resulting tree tick by tick.
//
// An Animator is not safe for concurrent use; Loop and the HTTP adapter
// serialize access with their own lock.
type Animator struct {
	layer     *domain.Layer
	tree      *runtime.Tree
	values    *values.Store
	services  *registry.Registry
	logger    *slog.Logger
	listeners []domain.Listener
	paused    bool
}

// Option defines a functional option for configuring the Animator.
type Option func(*Animator)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Animator) {
		a.logger = logger
	}
}

// WithListeners registers lifecycle listeners, called synchronously in
// the order given.
func WithListeners(listeners ...domain.Listener) Option {
	return func(a *Animator) {
		a.listeners = append(a.listeners, listeners...)
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return WithListeners(hooks)
}

// WithServices seeds the host service registry reachable from states
// and services.
func WithServices(services ...any) Option {
	return func(a *Animator) {
		for _, s := range services {
			a.services.Add(s)
		}
	}
}

// WithValues shares an existing value store instead of creating one from
// the layer's value table.
func WithValues(store *values.Store) Option {
	return func(a *Animator) {
		a.values = store
	}
}

// New compiles layer into a ready, not yet started, Animator.
func New(layer *domain.Layer, opts ...Option) (*Animator, error) {
	a := &Animator{
		layer:    layer,
		services: registry.NewRegistry(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	if layer != nil && layer.Name != "" {
		a.logger = a.logger.With("layer", layer.Name)
	}

	tree, err := compiler.Compile(layer, a.values,
		runtime.WithLogger(a.logger),
		runtime.WithListeners(a.listeners...),
		runtime.WithServices(a.services),
	)
	if err != nil {
		return nil, err
	}
	a.tree = tree
	a.values = tree.Values()
	return a, nil
}

// Start activates the root group and its default chain.
func (a *Animator) Start() {
	a.paused = false
	a.tree.Start()
}

// Update advances the tree by dt seconds. It is a no-op while paused or
// before Start.
func (a *Animator) Update(dt float64) domain.Response {
	if a.paused || !a.tree.Running() {
		return domain.Running
	}
	return a.tree.Update(dt)
}

// End deactivates every running node, innermost first.
func (a *Animator) End() {
	a.tree.End()
}

// Play restarts with the node at path active. Unknown paths are logged
// and fall back to a restart from the defaults; the result tells which
// happened.
func (a *Animator) Play(path string) bool {
	a.paused = false
	return a.tree.Play(path)
}

// Restart ends and starts again from the default children.
func (a *Animator) Restart() {
	a.paused = false
	a.tree.Restart()
}

// Pause freezes Update until Resume. Value writes still apply.
func (a *Animator) Pause() { a.paused = true }

func (a *Animator) Resume() { a.paused = false }

func (a *Animator) Paused() bool { return a.paused }

func (a *Animator) Running() bool { return a.tree.Running() }

// Current returns the path of the most recently activated leaf, "" before
// the first one.
func (a *Animator) Current() string {
	if n := a.tree.Current(); n != nil {
		return n.Path()
	}
	return ""
}

// ActivePath returns the titles of the active chain below the root.
func (a *Animator) ActivePath() []string { return a.tree.ActivePath() }

// Ratio returns the completion ratio of the node at path.
func (a *Animator) Ratio(path string) (float64, bool) {
	n := a.tree.Find(path)
	if n == nil {
		return 0, false
	}
	return n.Ratio(), true
}

func (a *Animator) Layer() *domain.Layer { return a.layer }

func (a *Animator) Values() *values.Store { return a.values }

func (a *Animator) Logger() *slog.Logger { return a.logger }

// AddListener registers a listener after construction.
func (a *Animator) AddListener(l domain.Listener) { a.tree.AddListener(l) }

func (a *Animator) SetFloat(name string, v float64) error { return a.values.SetFloat(name, v) }

func (a *Animator) SetInt(name string, v int) error { return a.values.SetInt(name, v) }

func (a *Animator) SetBool(name string, v bool) error { return a.values.SetBool(name, v) }

func (a *Animator) SetString(name string, v string) error { return a.values.SetString(name, v) }

// SetTrigger raises a trigger; it clears itself once a condition reads it.
func (a *Animator) SetTrigger(name string) error { return a.values.SetTrigger(name) }

// Set assigns a loosely typed value, as decoded from JSON or YAML.
func (a *Animator) Set(name string, v any) error { return a.values.Set(name, v) }

func (a *Animator) GetFloat(name string) (float64, error) { return a.values.GetFloat(name) }

func (a *Animator) GetInt(name string) (int, error) { return a.values.GetInt(name) }

func (a *Animator) GetBool(name string) (bool, error) { return a.values.GetBool(name) }

func (a *Animator) GetString(name string) (string, error) { return a.values.GetString(name) }

// SetService registers svc as the host service for its dynamic type,
// replacing a previous one of the same type.
func (a *Animator) SetService(svc any) { a.services.Replace(svc) }

// AddService registers svc alongside existing services.
func (a *Animator) AddService(svc any) { a.services.Add(svc) }

// Services returns the host service registry.
func (a *Animator) Services() *registry.Registry { return a.services }

// GetService returns the first host service assignable to T.
func GetService[T any](a *Animator) (T, error) {
	return registry.Get[T](a.services)
}

// Snapshot captures the values and the active path.
func (a *Animator) Snapshot() *ports.Snapshot {
	return &ports.Snapshot{
		Layer:   a.layer.Name,
		Path:    a.ActivePath(),
		Values:  a.values.Snapshot(),
		SavedAt: time.Now().UTC(),
	}
}

// Restore applies snap: values first, then a Play into its path. An empty
// path restarts from the defaults.
func (a *Animator) Restore(snap *ports.Snapshot) error {
	if snap.Layer != "" && snap.Layer != a.layer.Name {
		return fmt.Errorf("restore: snapshot of layer %q applied to %q", snap.Layer, a.layer.Name)
	}
	if err := a.values.Restore(snap.Values); err != nil {
		return fmt.Errorf("restore values: %w", err)
	}
	if len(snap.Path) == 0 {
		a.Restart()
		return nil
	}
	a.Play(strings.Join(snap.Path, "/"))
	return nil
}
