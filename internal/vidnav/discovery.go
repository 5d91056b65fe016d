package vidnav

import (
	"context"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/vidnavigator/vidnav/internal/logger"
	"github.com/vidnavigator/vidnav/internal/mcp"
)

var logDiscovery = logger.New("vidnav:discovery")

// maxLabelDescription is the number of description characters kept in a label.
const maxLabelDescription = 80

// ToolOption is one entry of the tool selection list.
type ToolOption struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// NoToolsAvailable returns the placeholder list used when discovery finds
// nothing or fails.
func NoToolsAvailable() []ToolOption {
	return []ToolOption{{Name: "No Tools Available", Value: ""}}
}

// ListToolsRequest builds the tools/list request sent to baseURL.
func ListToolsRequest(baseURL string) (*mcp.HTTPRequest, error) {
	rpc, err := mcp.NewRequest(mcp.MethodToolsList, struct{}{})
	if err != nil {
		return nil, err
	}
	return listToolsHTTP(baseURL, rpc), nil
}

func listToolsHTTP(baseURL string, rpc any) *mcp.HTTPRequest {
	return &mcp.HTTPRequest{
		Method: "POST",
		URL:    JoinURL(baseURL, "/"),
		Header: mcp.DefaultHeader(),
		Body:   rpc,
	}
}

// DiscoverTools lists the remote tools for selection. It never fails: any
// error, including an empty list, yields NoToolsAvailable.
func DiscoverTools(ctx context.Context, creds Credentials, transport AuthenticatedTransport) []ToolOption {
	baseURL := creds.ResolvedBaseURL()
	if baseURL == "" {
		logDiscovery.Print("No base URL configured, skipping discovery")
		return NoToolsAvailable()
	}

	req, err := ListToolsRequest(baseURL)
	if err != nil {
		logDiscovery.Printf("Failed to build tools/list request: %v", err)
		return NoToolsAvailable()
	}

	resp, err := transport.Send(ctx, creds, req)
	if err != nil {
		logDiscovery.Printf("Tool discovery failed: %v", err)
		logger.LogWarn("discovery", "Tool discovery against %s failed: %v", baseURL, err)
		return NoToolsAvailable()
	}

	options := ToolOptions(resp)
	logDiscovery.Printf("Discovered %d tools", len(options))
	if len(options) == 0 {
		return NoToolsAvailable()
	}
	return options
}

// ToolOptions maps a tools/list response to selection entries. It reads
// result.tools, falling back to result itself, and skips unnamed entries.
func ToolOptions(resp any) []ToolOption {
	body, _ := resp.(map[string]any)
	result := body["result"]
	tools := result
	if m, ok := result.(map[string]any); ok {
		if t, ok := m["tools"]; ok && t != nil {
			tools = t
		}
	}

	list, _ := tools.([]any)
	var options []ToolOption
	for _, entry := range list {
		tool, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name, _ := tool["name"].(string)
		if name == "" {
			continue
		}
		description := describe(tool)
		options = append(options, ToolOption{
			Name:        toolLabel(name, description),
			Value:       name,
			Description: description,
		})
	}
	return options
}

func describe(tool map[string]any) string {
	for _, key := range []string{"description", "desc"} {
		if v, ok := tool[key]; ok && v != nil {
			if s, ok := v.(string); ok {
				return s
			}
			return fmt.Sprint(v)
		}
	}
	return ""
}

func toolLabel(name, description string) string {
	if description == "" {
		return name
	}
	return name + " — " + truncateRunes(norm.NFC.String(description), maxLabelDescription)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
