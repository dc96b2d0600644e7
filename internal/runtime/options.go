package runtime

import (
	"log/slog"

	"github.com/aretw0/hfsm/internal/logging"
	"github.com/aretw0/hfsm/pkg/domain"
)

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the structured logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tree) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithListeners appends lifecycle listeners. They are called synchronously,
// in the order given, inside the call that caused the event.
func WithListeners(listeners ...domain.Listener) Option {
	return func(t *Tree) {
		for _, l := range listeners {
			if l != nil {
				t.listeners = append(t.listeners, l)
			}
		}
	}
}

// WithLifecycleHooks registers callback hooks as a listener.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return WithListeners(hooks)
}

// WithServices sets the host service registry handed to states and services.
func WithServices(locator domain.ServiceLocator) Option {
	return func(t *Tree) {
		t.services = locator
	}
}

func defaultLogger() *slog.Logger {
	return logging.NewNop()
}
