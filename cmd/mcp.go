package cmd

import (
	"github.com/huangsam/airqc/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the airqc MCP server",
	Long: `Launch an MCP server on stdio so that AI agents can request reports, series and Pareto rankings.

Root flags become the defaults for every tool call; tools may override the filter and metric parameters.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Tool calls suppress the normal header logs
		// to avoid polluting stdio which is used for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
