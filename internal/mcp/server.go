// ABOUTME: MCP server setup for the fitlog store.
// ABOUTME: Wraps the MCP server with storage, the workout tracker and the acting user's session.
package mcp

import (
	"context"
	"errors"

	"github.com/harperreed/fitlog/internal/session"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/harperreed/fitlog/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
	tracker   *tracker.Tracker
	sess      session.Session
}

// NewServer creates a new MCP server acting as sess.UserID.
func NewServer(repo storage.Repository, tr *tracker.Tracker, sess session.Session) (*Server, error) {
	if repo == nil || tr == nil {
		return nil, errors.New("repository and tracker are required")
	}
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fitlog",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		repo:      repo,
		tracker:   tr,
		sess:      sess,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve runs the MCP server on stdio until the client disconnects, then
// writes any pending workout edits.
func (s *Server) Serve(ctx context.Context) error {
	err := s.mcpServer.Run(ctx, &mcp.StdioTransport{})
	if cerr := s.tracker.Close(context.Background()); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
