package main

import (
	"fmt"
	"os"

	"github.com/aretw0/hfsm"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <layer>",
	Short: "Convert a layer between YAML, JSON and the binary format",
	Long: `Reads a layer in any supported format and writes it in the one chosen by
--format. The binary format drops exit times and services.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		f := hfsm.Format(format)
		switch f {
		case hfsm.FormatYAML, hfsm.FormatJSON, hfsm.FormatBinary:
		default:
			return fmt.Errorf("unknown format %q (want yaml, json or binary)", format)
		}

		layer, err := hfsm.LoadLayer(args[0])
		if err != nil {
			return err
		}
		data, err := hfsm.Encode(layer, f)
		if err != nil {
			return err
		}

		if output == "" || output == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		logger.Info("layer exported", "layer", layer.Name, "format", format, "output", output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("format", "f", string(hfsm.FormatYAML), "Output format: yaml, json or binary")
	exportCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
}
