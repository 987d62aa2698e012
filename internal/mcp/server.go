// ABOUTME: MCP server setup for the training log.
// ABOUTME: Wraps the MCP server with storage, the media library and the undo slot.
package mcp

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/harperreed/trainlog/internal/media"
	"github.com/harperreed/trainlog/internal/models"
	"github.com/harperreed/trainlog/internal/storage"
	"github.com/harperreed/trainlog/internal/undo"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Options tunes a Server. Zero values pick the defaults.
type Options struct {
	// MediaDir is where attached files are copied. Empty disables attach_media.
	MediaDir string
	// UndoWindow is how long delete_set can be undone.
	UndoWindow time.Duration
	// Clock replaces time.Now for "today" and the undo window.
	Clock func() time.Time
}

// Server wraps the MCP server with storage access. It is the long-lived
// process that holds the undo slot between tool calls.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	media     *media.Library
	undo      *undo.Slot
	now       func() time.Time
}

// NewServer creates a new MCP server with the given storage.
func NewServer(repo storage.Repository, opts Options) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "trainlog",
			Version: "1.0.0",
		},
		nil,
	)

	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		undo:      undo.NewSlot(opts.UndoWindow, now),
		now:       now,
	}
	if opts.MediaDir != "" {
		s.media = media.NewLibrary(repo, opts.MediaDir)
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// today returns the session date of the server clock.
func (s *Server) today() string {
	return models.FormatDate(s.now())
}

// addTool registers a typed handler and logs each call at debug level.
func addTool[In, Out any](s *Server, tool *mcp.Tool, h mcp.ToolHandlerFor[In, Out]) {
	mcp.AddTool(s.mcpServer, tool, func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		start := time.Now()
		res, out, err := h(ctx, req, in)

		entry := logrus.WithFields(logrus.Fields{
			"tool": tool.Name,
			"took": time.Since(start),
		})
		if err != nil {
			entry.WithError(err).Debug("tool call failed")
		} else {
			entry.Debug("tool call")
		}
		return res, out, err
	})
}
