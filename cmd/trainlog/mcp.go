// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for Claude integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/trainlog/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to log and read your training through
a standardized protocol. The server communicates via stdin/stdout; logs go
to stderr or the configured log file.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "trainlog": {
        "command": "trainlog",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_body_parts, add_body_part, delete_body_part
  list_exercises, add_exercise, delete_exercise
  get_session, set_session_note, set_session_times, list_session_dates
  add_set, update_set, delete_set, undo_delete_set
  prune, get_records, get_streak
  attach_media, delete_media

  A deleted set can be restored with undo_delete_set within the undo
  window (undo_window_seconds in the config, default 5).

AVAILABLE RESOURCES:

  trainlog://today      Today's session
  trainlog://records    Personal records
  trainlog://streak     Training streak`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo, mcp.Options{
			MediaDir:   cfg.MediaDir(),
			UndoWindow: cfg.UndoWindow(),
		})
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
