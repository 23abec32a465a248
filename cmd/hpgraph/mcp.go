package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/hpgraph/internal/cli"
	"github.com/aretw0/hpgraph/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts hpgraph as an MCP Server, exposing validate_document, resolve_document
and list_targets as tools and the target and recipe catalogs as resources.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnv(cmd, nil)
		if err != nil {
			return err
		}
		defer env.Close()

		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		record, _ := cmd.Flags().GetBool("record")

		opts := []mcp.Option{mcp.WithRecipes(env.Recipes)}
		if record {
			if env.Store == nil {
				return errNoStore
			}
			opts = append(opts, mcp.WithRecording())
		}
		srv := mcp.NewServer(env.Builder, opts...)

		switch transport {
		case "stdio":
			// Logs go to Stderr so they don't corrupt JSON-RPC on Stdout.
			env.Logger.Info("starting MCP server", "transport", transport)
			return srv.ServeStdio()
		case "sse":
			env.Logger.Info("starting MCP server", "transport", transport, "port", port)
			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()
			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			env.Logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().Bool("record", false, "Record a manifest for every resolve_document call")
}
