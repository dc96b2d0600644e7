package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/hfsm"
	"github.com/aretw0/hfsm/internal/presentation/tui"
	"github.com/aretw0/hfsm/pkg/domain"
	"github.com/muesli/termenv"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Path     string
	TickRate int
	// Duration stops a wall clock run after the given time. Zero runs
	// until the context is cancelled.
	Duration time.Duration
	// Steps switches to a fixed step run: Steps updates of DeltaTime
	// seconds each, without waiting on the clock.
	Steps     int
	DeltaTime float64
	Sets      []string
	Play      string

	Out     io.Writer
	Profile termenv.Profile
}

// Run drives the layer at opts.Path and prints the active path each time
// it changes.
func Run(ctx context.Context, opts RunOptions, logger *slog.Logger) error {
	a, err := OpenAnimator(opts.Path, logger)
	if err != nil {
		return err
	}
	if err := ApplyAssignments(a, opts.Sets); err != nil {
		return err
	}

	style := tui.PathStyle{Profile: opts.Profile}
	var last []string
	printed := false
	report := func(a *hfsm.Animator, r domain.Response) {
		path := a.ActivePath()
		if printed && slices.Equal(path, last) {
			return
		}
		printed = true
		last = path
		fmt.Fprintln(opts.Out, style.Format(path))
	}

	loop := hfsm.NewLoop(a, hfsm.WithTickRate(opts.TickRate), hfsm.WithOnTick(report))
	if opts.Play != "" {
		loop.Do(func(a *hfsm.Animator) {
			if !a.Play(opts.Play) {
				logger.Warn("play target not found", "path", opts.Play)
			}
		})
	}

	if opts.Steps > 0 {
		return runSteps(loop, opts)
	}

	if opts.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Duration)
		defer cancel()
	}
	err = loop.Run(ctx)
	loop.Do(func(a *hfsm.Animator) { a.End() })
	if IsInterrupted(err) {
		return nil
	}
	return err
}

func runSteps(loop *hfsm.Loop, opts RunOptions) error {
	dt := opts.DeltaTime
	if dt <= 0 {
		rate := opts.TickRate
		if rate <= 0 {
			rate = 60
		}
		dt = 1 / float64(rate)
	}
	loop.Do(func(a *hfsm.Animator) {
		if !a.Running() {
			a.Start()
		}
	})
	for range opts.Steps {
		if loop.Tick(dt) != domain.Running {
			break
		}
	}
	loop.Do(func(a *hfsm.Animator) { a.End() })
	return nil
}
