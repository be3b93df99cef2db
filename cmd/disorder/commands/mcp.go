package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/disorder/pkg/mcp"
)

const mcpCommandName = "mcp"

// NewMCPCommand creates the MCP server command.
func NewMCPCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   mcpCommandName,
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The server exposes the disorder analyses as tools operating on sequences
passed inline by the client:
  - disorder_degrees: out-of-order degree of every element
  - disorder_watermarks: running watermark or watermark gap
  - disorder_sample: threshold-sampled degree or gap series
  - disorder_profile: disorder summary with histogram`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:  app.Logger,
				Metrics: app.Metrics,
				Tracer:  app.Tracer,
				Config:  app.Config,
			})

			app.Logger.InfoContext(cmd.Context(), "mcp server starting", "tools", len(srv.ListToolNames()))

			return srv.Run(cmd.Context())
		},
	}
}
