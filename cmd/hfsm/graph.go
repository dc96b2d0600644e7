package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/hfsm"
	"github.com/aretw0/hfsm/internal/cli"
	"github.com/aretw0/hfsm/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <layer>",
	Short: "Export the layer as a Mermaid diagram",
	Long: `Prints a Mermaid flowchart of the layer. With --active the layer is started
first (after --set and --play) and the active chain is highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		active, _ := cmd.Flags().GetBool("active")
		sets, _ := cmd.Flags().GetStringArray("set")
		play, _ := cmd.Flags().GetString("play")

		if !active {
			layer, err := hfsm.LoadLayer(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(layer, nil))
			return nil
		}

		a, err := cli.OpenAnimator(args[0], logger)
		if err != nil {
			return err
		}
		if err := cli.ApplyAssignments(a, sets); err != nil {
			return err
		}
		if play != "" {
			a.Play(play)
		} else {
			a.Start()
		}

		path := a.ActivePath()
		overlay := &graph.Overlay{Current: a.Current()}
		for i := range path {
			overlay.Active = append(overlay.Active, strings.Join(path[:i+1], "/"))
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(a.Layer(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("active", false, "Start the layer and highlight the active chain")
	graphCmd.Flags().StringArray("set", nil, "Set a value before starting, as name=value (repeatable)")
	graphCmd.Flags().String("play", "", "Start in the node at this path")
}
