package hfsm

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/aretw0/hfsm/pkg/ports"
)

// TickObserver receives the wall time spent in each Update.
// observability.Metrics implements it.
type TickObserver interface {
	ObserveTick(d time.Duration)
}

// Loop drives an Animator from a wall clock ticker. It holds a lock around
// every tick and exposes it, so other goroutines (an HTTP server) can share
// the Animator through Lock/Unlock.
type Loop struct {
	mu       sync.Mutex
	animator *Animator
	rate     int
	observer TickObserver
	onTick   func(a *Animator, r domain.Response)

	store    ports.SnapshotStore
	key      string
	interval time.Duration

	now func() time.Time
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithTickRate sets the ticks per second. Values below 1 keep the default of 60.
func WithTickRate(rate int) LoopOption {
	return func(l *Loop) {
		if rate > 0 {
			l.rate = rate
		}
	}
}

// WithTickObserver reports each Update duration to o.
func WithTickObserver(o TickObserver) LoopOption {
	return func(l *Loop) {
		l.observer = o
	}
}

// WithOnTick calls fn after every Update, with the lock held.
func WithOnTick(fn func(a *Animator, r domain.Response)) LoopOption {
	return func(l *Loop) {
		l.onTick = fn
	}
}

// WithAutosave saves a snapshot under key every interval and once more
// when the loop stops.
func WithAutosave(store ports.SnapshotStore, key string, interval time.Duration) LoopOption {
	return func(l *Loop) {
		l.store, l.key, l.interval = store, key, interval
	}
}

// NewLoop creates a loop for a. It does not start the Animator.
func NewLoop(a *Animator, opts ...LoopOption) *Loop {
	l := &Loop{animator: a, rate: 60, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loop) Lock() { l.mu.Lock() }

func (l *Loop) Unlock() { l.mu.Unlock() }

// Do runs fn with the loop's lock held.
func (l *Loop) Do(fn func(a *Animator)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.animator)
}

// Run ticks until ctx is done, passing the measured wall time as dt. It
// starts the Animator if it is not running and returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	l.Do(func(a *Animator) {
		if !a.Running() {
			a.Start()
		}
	})

	ticker := time.NewTicker(time.Second / time.Duration(l.rate))
	defer ticker.Stop()

	var saves <-chan time.Time
	if l.store != nil && l.interval > 0 {
		t := time.NewTicker(l.interval)
		defer t.Stop()
		saves = t.C
	}

	last := l.now()
	for {
		select {
		case <-ctx.Done():
			if l.store != nil {
				// ctx is already done; the final save gets its own deadline.
				saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				l.save(saveCtx)
				cancel()
			}
			return ctx.Err()
		case <-saves:
			l.save(ctx)
		case <-ticker.C:
			now := l.now()
			l.Tick(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Tick performs one locked Update of dt seconds.
func (l *Loop) Tick(dt float64) domain.Response {
	l.mu.Lock()
	defer l.mu.Unlock()

	began := time.Now()
	r := l.animator.Update(dt)
	if l.observer != nil {
		l.observer.ObserveTick(time.Since(began))
	}
	if l.onTick != nil {
		l.onTick(l.animator, r)
	}
	return r
}

func (l *Loop) save(ctx context.Context) {
	l.mu.Lock()
	snap := l.animator.Snapshot()
	l.mu.Unlock()

	if err := l.store.Save(ctx, l.key, snap); err != nil {
		l.animator.logger.Error("autosave failed", "key", l.key, "error", err)
		return
	}
	l.animator.logger.Debug("autosaved", "key", l.key, "path", snap.Path)
}
