package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/hfsm"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hfsm",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hfsm version %s\n", strings.TrimSpace(hfsm.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
