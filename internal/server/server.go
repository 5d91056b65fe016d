// Package server exposes the VidNavigator operations as MCP tools, over
// stdio or streamable HTTP.
package server

import (
	"context"
	"encoding/json"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vidnavigator/vidnav/internal/logger"
	"github.com/vidnavigator/vidnav/internal/middleware"
	"github.com/vidnavigator/vidnav/internal/vidnav"
)

var logServer = logger.New("server:server")

// Options configures a ToolServer
type Options struct {
	Credentials vidnav.CredentialSource
	Transport   vidnav.AuthenticatedTransport
	// Payload controls spilling of oversized responses to disk
	Payload middleware.PayloadOptions
	Version string
}

// ToolServer is an MCP server with one tool per VidNavigator operation
type ToolServer struct {
	server *sdk.Server
	opts   Options
}

// New creates a ToolServer and registers its tools
func New(opts Options) *ToolServer {
	if opts.Transport == nil {
		opts.Transport = vidnav.HTTPTransport{}
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	s := &ToolServer{
		server: sdk.NewServer(&sdk.Implementation{
			Name:    "vidnav",
			Version: opts.Version,
		}, nil),
		opts: opts,
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying SDK server
func (s *ToolServer) MCPServer() *sdk.Server {
	return s.server
}

// RunStdio serves MCP over stdin/stdout until ctx is done or the client
// disconnects
func (s *ToolServer) RunStdio(ctx context.Context) error {
	logServer.Print("Serving MCP over stdio")
	return s.server.Run(ctx, &sdk.StdioTransport{})
}

// runItem executes one operation through the shared executor
func (s *ToolServer) runItem(ctx context.Context, params map[string]any) (vidnav.OutputRecord, error) {
	exec := &vidnav.Executor{
		Credentials: s.opts.Credentials,
		Parameters:  vidnav.SingleItem(params),
		Transport:   s.opts.Transport,
	}
	return exec.RunItem(ctx, 0)
}

// discover lists the remote tools with the current credentials
func (s *ToolServer) discover(ctx context.Context) []vidnav.ToolOption {
	creds, err := s.opts.Credentials.Credentials(ctx)
	if err != nil {
		logServer.Printf("Failed to get credentials for discovery: %v", err)
		return vidnav.NoToolsAvailable()
	}
	return vidnav.DiscoverTools(ctx, creds, s.opts.Transport)
}

// addTool registers an operation tool whose typed input maps to executor
// parameters
func addTool[In any](s *ToolServer, name, description string, toParams func(In) map[string]any) {
	handler := func(ctx context.Context, req *sdk.CallToolRequest, in In) (*sdk.CallToolResult, any, error) {
		params := toParams(in)
		argsJSON, _ := json.Marshal(in)
		logger.LogInfo("tools", "MCP tool call request, tool=%s, args=%s", name, string(argsJSON))

		record, err := s.runItem(ctx, params)
		if err != nil {
			logger.LogError("tools", "MCP tool call error, tool=%s, error=%v", name, err)
			return nil, nil, err
		}
		logger.LogInfo("tools", "MCP tool call response, tool=%s", name)
		return nil, record, nil
	}

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        name,
		Description: description,
	}, middleware.WrapToolHandler(handler, name, s.opts.Payload))
	logServer.Printf("Registered tool: %s", name)
}
