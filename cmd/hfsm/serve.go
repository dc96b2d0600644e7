package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/hfsm"
	"github.com/aretw0/hfsm/internal/cli"
	httpAdapter "github.com/aretw0/hfsm/pkg/adapters/http"
	"github.com/aretw0/hfsm/pkg/observability"
	"github.com/aretw0/hfsm/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve <layer>",
	Short: "Run a layer behind an HTTP API",
	Long: `Runs a layer from the wall clock and exposes its state, values, graph,
event stream and Prometheus metrics over HTTP. Snapshots are saved
periodically to Redis (HFSM_REDIS_ADDR) or memory and restored on start.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		rate, _ := cmd.Flags().GetInt("tick-rate")
		key, _ := cmd.Flags().GetString("key")
		autosave, _ := cmd.Flags().GetDuration("autosave")
		fresh, _ := cmd.Flags().GetBool("fresh")
		sets, _ := cmd.Flags().GetStringArray("set")

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		a, err := cli.OpenAnimator(args[0], logger)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics, err := observability.NewMetrics(a.Layer().Name, reg)
		if err != nil {
			return err
		}
		a.AddListener(metrics)

		store, closeStore, err := cli.OpenStore(sc, cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeStore(); err != nil {
				logger.Warn("closing snapshot store", "err", err)
			}
		}()

		if err := resume(sc, a, store, key, fresh); err != nil {
			return err
		}
		if err := cli.ApplyAssignments(a, sets); err != nil {
			return err
		}

		loop := hfsm.NewLoop(a,
			hfsm.WithTickRate(rate),
			hfsm.WithTickObserver(metrics),
			hfsm.WithAutosave(store, key, autosave),
		)

		srv := &http.Server{
			Addr: addr,
			Handler: httpAdapter.NewHandler(a,
				httpAdapter.WithLocker(loop),
				httpAdapter.WithLogger(logger),
				httpAdapter.WithMetrics(reg),
			),
			ReadHeaderTimeout: 5 * time.Second,
		}

		loopDone := make(chan error, 1)
		go func() { loopDone <- loop.Run(sc) }()

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("serving layer", "addr", srv.Addr, "layer", a.Layer().Name, "tick_rate", rate)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			sc.Cancel()
			<-loopDone
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-sc.Done():
		}

		if sig := sc.Signal(); sig != nil {
			logger.Info("shutting down", "signal", sig.String())
		}

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown did not complete", "err", err)
			_ = srv.Close()
		}
		if err := <-loopDone; err != nil && !cli.IsInterrupted(err) {
			return err
		}
		logger.Info("server stopped")
		return nil
	},
}

// resume restores the snapshot saved under key unless fresh is set. A
// missing snapshot is not an error.
func resume(ctx context.Context, a *hfsm.Animator, store ports.SnapshotStore, key string, fresh bool) error {
	if fresh {
		if err := store.Delete(ctx, key); err != nil {
			return fmt.Errorf("reset snapshot %s: %w", key, err)
		}
		return nil
	}
	snap, err := store.Load(ctx, key)
	if errors.Is(err, ports.ErrSnapshotNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", key, err)
	}
	if err := a.Restore(snap); err != nil {
		return fmt.Errorf("restore snapshot %s: %w", key, err)
	}
	logger.Info("snapshot restored", "key", key, "path", snap.Path, "saved_at", snap.SavedAt)
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", cfg.Addr, "Address to listen on")
	serveCmd.Flags().Int("tick-rate", cfg.TickRate, "Updates per second")
	serveCmd.Flags().String("key", cfg.SnapshotKey, "Snapshot key")
	serveCmd.Flags().Duration("autosave", cfg.Autosave, "Snapshot interval (0 saves only on shutdown)")
	serveCmd.Flags().Bool("fresh", false, "Discard the saved snapshot and start from the default")
	serveCmd.Flags().StringArray("set", nil, "Set a value before starting, as name=value (repeatable)")
}
