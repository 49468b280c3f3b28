// Package main provides the cartograph CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cartograph",
		Short: "Chart and remap nested YAML/JSON data",
		Long: `cartograph addresses nested data with courses (slash-separated paths of
bearings) and transfers values between documents with coordinate files.

Examples:
  cartograph chart doc.yaml                   # List every charted course
  cartograph chart doc.yaml --dump            # Include full value dumps
  cartograph map src.yaml -m coords.yaml      # Apply a coordinate file
  cartograph map src.yaml -m coords.yaml --survey -o out.yaml
`,
		SilenceUsage: true,
	}

	cmd.AddCommand(chartCmd())
	cmd.AddCommand(mapCmd())

	return cmd
}
