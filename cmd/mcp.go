package cmd

import (
	"github.com/spf13/cobra"

	"github.com/AlanSteinbarth/Audio2Tekst/internal"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run MCP server exposing transcription and summarization tools",
	Long: `Run a Model Context Protocol (MCP) server that exposes Audio2Tekst as tools.

The MCP server provides two tools:
- transcribe_media: transcribe a local file or YouTube video to text
- summarize_media: produce a topic and summary for a local file or YouTube video

Transport options:
- stdio (default): Standard MCP transport via stdin/stdout
- http: HTTP transport on specified port (use --port to configure)`,
	Example: `  # Run MCP server with stdio transport (e.g. for Claude Desktop)
  a2t mcp

  # Run MCP server with HTTP transport on port 8080
  a2t mcp --transport=http --port=8080`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// MCP uses stdio protocol, so keep stdout clean
		config.Verbose = false
		config.Quiet = true
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		app := internal.NewApp(config)
		mcpServer := internal.NewMCPServer(app)

		return mcpServer.Start(cmd.Context(), transport, port)
	},
}

func init() {
	mcpCmd.Flags().String("transport", "stdio", "Transport to use: stdio or http")
	mcpCmd.Flags().Int("port", 8080, "Port for HTTP transport")
	rootCmd.AddCommand(mcpCmd)
}
