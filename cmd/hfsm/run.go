package main

import (
	"github.com/aretw0/hfsm"
	"github.com/aretw0/hfsm/internal/cli"
	"github.com/aretw0/hfsm/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <layer>",
	Short: "Run a layer and print its active path",
	Long: `Loads a layer, starts it and ticks it from the wall clock, printing the
active path whenever it changes. Use --steps for a fixed step run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rate, _ := cmd.Flags().GetInt("tick-rate")
		duration, _ := cmd.Flags().GetDuration("duration")
		steps, _ := cmd.Flags().GetInt("steps")
		dt, _ := cmd.Flags().GetFloat64("dt")
		sets, _ := cmd.Flags().GetStringArray("set")
		play, _ := cmd.Flags().GetString("play")
		quiet, _ := cmd.Flags().GetBool("quiet")

		out := cmd.OutOrStdout()
		profile := tui.Profile(out)
		if !quiet && tui.IsTerminal(out) {
			tui.PrintBanner(out, profile, hfsm.Version)
		}

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		err := cli.Run(sc, cli.RunOptions{
			Path:      args[0],
			TickRate:  rate,
			Duration:  duration,
			Steps:     steps,
			DeltaTime: dt,
			Sets:      sets,
			Play:      play,
			Out:       out,
			Profile:   profile,
		}, logger)
		if sig := sc.Signal(); sig != nil {
			logger.Info("stopped", "signal", sig.String())
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("tick-rate", cfg.TickRate, "Updates per second")
	runCmd.Flags().Duration("duration", 0, "Stop after this long (0 runs until interrupted)")
	runCmd.Flags().Int("steps", 0, "Run a fixed number of updates instead of following the clock")
	runCmd.Flags().Float64("dt", 0, "Seconds per update in a fixed step run (default 1/tick-rate)")
	runCmd.Flags().StringArray("set", nil, "Set a value before starting, as name=value (repeatable)")
	runCmd.Flags().String("play", "", "Start in the node at this path")
	runCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
