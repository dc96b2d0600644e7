package main

import (
	"fmt"

	"github.com/aretw0/hfsm"
	"github.com/aretw0/hfsm/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe <layer>",
	Short: "Print a readable summary of a layer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("markdown")

		layer, err := hfsm.LoadLayer(args[0])
		if err != nil {
			return err
		}

		render := tui.RendererFor(cmd.OutOrStdout())
		if raw {
			render = tui.Plain
		}
		out, err := render(tui.Describe(layer))
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().Bool("markdown", false, "Print raw markdown even on a terminal")
}
