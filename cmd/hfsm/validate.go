package main

import (
	"fmt"

	"github.com/aretw0/hfsm"
	"github.com/aretw0/hfsm/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <layer>",
	Short: "Check a layer for consistency",
	Long: `Reports broken indices, unknown targets and values, transitions that can
never fire and children no transition reaches. Warnings alone do not fail.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")

		layer, err := hfsm.LoadLayer(args[0])
		if err != nil {
			return err
		}

		report := validator.Validate(layer)
		out := cmd.OutOrStdout()
		for _, issue := range report.Issues {
			fmt.Fprintf(out, "%s: %v\n", issue.Severity, issue)
		}
		if err := report.Err(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		if strict && len(report.Warnings()) > 0 {
			return fmt.Errorf("validation failed: %d warnings", len(report.Warnings()))
		}
		fmt.Fprintf(out, "Layer %q is valid\n", layer.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Fail on warnings too")
}
