// Command denstream clusters CSV point streams with DenStream.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/denstream/pkg/log"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "denstream",
		Short: "Streaming density clustering with DenStream",
		Long: `denstream absorbs CSV rows one by one into decaying micro-clusters and
labels them with an offline DBSCAN pass over the potential micro-clusters.

Examples:
  denstream fit --input points.csv --output labels.csv
  denstream fit --input points.csv --config denstream.yaml --plot clusters.png
  denstream fit --input more.csv --resume state.gob --checkpoint state.gob
  denstream inspect --checkpoint state.gob`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			format, _ := cmd.Flags().GetString("log-format")
			if err := log.Setup(cmd.ErrOrStderr(), level, format); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
	}

	root.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "console", "Log format (console, json)")

	root.AddCommand(newFitCmd())
	root.AddCommand(newInspectCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
