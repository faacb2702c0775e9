package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/sprig/internal/cli"
	"github.com/aretw0/sprig/internal/logging"
	"github.com/aretw0/sprig/pkg/adapters/mcp"
	"github.com/aretw0/sprig/pkg/adapters/memory"
	"github.com/aretw0/sprig/pkg/ports"
	"github.com/aretw0/sprig/pkg/session"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [document]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts Sprig as an MCP Server.
This allows AI agents to fill in forms through the render_form, answer and
get_tree tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptions(cmd, args)
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Logs go to stderr so they never corrupt JSON-RPC on stdout
		level := slog.LevelInfo
		if opts.Debug {
			level = slog.LevelDebug
		}
		logger := logging.New(level)
		slog.SetDefault(logger)

		engine, err := cli.NewEngine(opts, logger)
		if err != nil {
			return err
		}

		var store ports.StateStore = memory.NewStore()
		if opts.RedisURL != "" {
			backend, err := cli.OpenStore(opts)
			if err != nil {
				return err
			}
			defer backend.Close()
			store = backend.Store
		}

		srv := mcp.NewServer(engine, session.NewManager(store, session.WithLogger(logger)), mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			log.SetOutput(os.Stderr)
			logger.Info("Starting Sprig MCP Server (Stdio)...")
			return srv.ServeStdio()
		case "sse":
			logger.Info("Starting Sprig MCP Server (SSE)", "port", port)

			// Create a context that cancels on interrupt signal
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
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
}
