package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/hfsm/internal/cli"
	"github.com/spf13/cobra"
)

var (
	cfg    cli.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hfsm",
	Short: "hfsm runs hierarchical state machine layers",
	Long: `hfsm loads animator-style hierarchical state machine layers from YAML, JSON
or the binary asset format, and runs, inspects or serves them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		l, err := cli.NewLogger(cmd.ErrOrStderr(), level)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	var err error
	cfg, err = cli.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.SilenceErrors = true
}
