package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/aretw0/hfsm/internal/logging"
)

// SignalContext is the context of the long-running commands. SIGINT or
// SIGTERM cancels it so the animator loop returns and autosave gets its
// final write. Signal tells the command which signal stopped it.
type SignalContext struct {
	context.Context
	Cancel context.CancelFunc
	sig    atomic.Pointer[os.Signal]
}

// NewSignalContext derives a SignalContext from parent and starts watching
// for signals until the context is done.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{Context: ctx, Cancel: cancel}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go sc.watch(ch)
	return sc
}

func (sc *SignalContext) watch(ch chan os.Signal) {
	defer signal.Stop(ch)
	select {
	case s := <-ch:
		sc.sig.Store(&s)
		sc.Cancel()
	case <-sc.Done():
	}
}

// Signal returns the signal that stopped the command. It is nil while
// running and after a plain Cancel.
func (sc *SignalContext) Signal() os.Signal {
	if s := sc.sig.Load(); s != nil {
		return *s
	}
	return nil
}

// NewLogger builds the command logger on w. Logs go to stderr in the
// commands so stdout stays clean for output.
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return logging.NewWriter(w, lvl), nil
}

// IsInterrupted reports whether err only says the run was cancelled.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
