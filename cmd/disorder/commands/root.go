package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the disorder command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "disorder",
		Short: "Measure how out of order an event stream is",
		Long: `disorder quantifies the disorder of event arrival sequences.

For every element it computes the out-of-order degree (how many earlier
elements are larger), the running watermark and the watermark gap, samples
the resulting series for plotting, and summarizes them in a profile.

Traces are CSV trip logs (timestamp column), one-integer-per-line files,
optionally LZ4-compressed (".lz4"), or packed blocks (".blk").`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Config file (default: disorder.yaml in ., ./config, ~/.config/disorder)")
	root.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Verbose output")
	root.PersistentFlags().BoolVarP(&app.Quiet, "quiet", "q", false, "Suppress progress output")
	root.PersistentFlags().BoolVar(&app.NoColor, "no-color", false, "Disable colored output")
	root.PersistentFlags().BoolVar(&app.LogJSON, "log-json", false, "Emit logs as JSON")

	root.AddCommand(
		NewOODCommand(app),
		NewWatermarkCommand(app),
		NewSampleCommand(app),
		NewProfileCommand(app),
		NewPlotCommand(app),
		NewConfigCommand(app),
		NewSchemaCommand(),
		NewMCPCommand(app),
		NewVersionCommand(),
	)

	return root
}
