package mcptool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/omniagent/cognition/internal/policy"
	"github.com/omniagent/cognition/internal/schema"
)

// #region server

const (
	serverName    = "OmniAgent VR Resource Layer"
	serverVersion = "0.1.0"
)

// NewServer creates the MCP server with all engine tools and resources
// registered.
func NewServer(constants schema.WorldConstants, store *policy.Store) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(server, SpeakTool(), SpeakHandler())
	mcp.AddTool(server, MoveTool(), MoveHandler(constants))
	if store != nil {
		mcp.AddTool(server, PolicyPatchTool(), PolicyPatchHandler(store))
	}
	server.AddResource(PlayerStateResource(), PlayerStateHandler())

	return server
}

// Run serves the MCP server over stdio until the context ends.
func Run(ctx context.Context, constants schema.WorldConstants, store *policy.Store) error {
	server := NewServer(constants, store)
	return server.Run(ctx, &mcp.StdioTransport{})
}

// #endregion server
