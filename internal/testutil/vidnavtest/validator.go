package vidnavtest

import (
	"context"
	"encoding/json"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ValidatorClient is an MCP client for exercising a tool server in tests
type ValidatorClient struct {
	client  *sdk.Client
	session *sdk.ClientSession
	ctx     context.Context
}

// ConnectInMemory runs server on an in-memory transport and connects a
// ValidatorClient to it
func ConnectInMemory(ctx context.Context, server *sdk.Server) (*ValidatorClient, error) {
	serverTransport, clientTransport := sdk.NewInMemoryTransports()
	if _, err := server.Connect(ctx, serverTransport, nil); err != nil {
		return nil, fmt.Errorf("connect server: %w", err)
	}
	return NewValidatorClient(ctx, clientTransport)
}

// NewValidatorClient creates a new validator client connected to the given transport
func NewValidatorClient(ctx context.Context, transport sdk.Transport) (*ValidatorClient, error) {
	client := sdk.NewClient(&sdk.Implementation{
		Name:    "vidnav-validator",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to server: %w", err)
	}

	return &ValidatorClient{
		client:  client,
		session: session,
		ctx:     ctx,
	}, nil
}

// ListTools retrieves the list of tools from the connected MCP server
func (v *ValidatorClient) ListTools() ([]*sdk.Tool, error) {
	result, err := v.session.ListTools(v.ctx, &sdk.ListToolsParams{})
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	return result.Tools, nil
}

// CallTool calls a tool on the MCP server
func (v *ValidatorClient) CallTool(name string, arguments map[string]any) (*sdk.CallToolResult, error) {
	result, err := v.session.CallTool(v.ctx, &sdk.CallToolParams{
		Name:      name,
		Arguments: arguments,
	})
	if err != nil {
		return nil, fmt.Errorf("call tool %s: %w", name, err)
	}
	return result, nil
}

// CallToolJSON calls a tool and decodes its first text content as JSON
func (v *ValidatorClient) CallToolJSON(name string, arguments map[string]any) (map[string]any, *sdk.CallToolResult, error) {
	result, err := v.CallTool(name, arguments)
	if err != nil {
		return nil, nil, err
	}
	text := TextOf(result)
	var decoded map[string]any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return nil, result, fmt.Errorf("tool %s returned non-JSON text %q: %w", name, text, err)
	}
	return decoded, result, nil
}

// TextOf returns the first text content of a result, or ""
func TextOf(result *sdk.CallToolResult) string {
	for _, content := range result.Content {
		if text, ok := content.(*sdk.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

// Close closes the client session
func (v *ValidatorClient) Close() error {
	if v.session != nil {
		return v.session.Close()
	}
	return nil
}
