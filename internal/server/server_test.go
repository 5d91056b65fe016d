package server

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidnavigator/vidnav/internal/middleware"
	"github.com/vidnavigator/vidnav/internal/testutil/vidnavtest"
	"github.com/vidnavigator/vidnav/internal/vidnav"
)

func newTestServer(t *testing.T, backend *vidnavtest.Server, token string) *ToolServer {
	t.Helper()
	return New(Options{
		Credentials: vidnav.StaticCredentials{BaseURL: backend.URL, Token: token},
		Payload:     middleware.PayloadOptions{Dir: t.TempDir()},
		Version:     "test",
	})
}

func connect(t *testing.T, s *ToolServer) *vidnavtest.ValidatorClient {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	client, err := vidnavtest.ConnectInMemory(ctx, s.MCPServer())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestListTools(t *testing.T) {
	backend := vidnavtest.NewServer(t, nil)
	client := connect(t, newTestServer(t, backend, ""))

	tools, err := client.ListTools()
	require.NoError(t, err)

	var names []string
	for _, tool := range tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, "tool %s has no description", tool.Name)
		assert.NotNil(t, tool.InputSchema, "tool %s has no input schema", tool.Name)
	}
	assert.ElementsMatch(t, toolNames, names)
}

func TestSearchVideosTool(t *testing.T) {
	backend := vidnavtest.NewServer(t, vidnavtest.DefaultConfig().WithToken("tok"))
	client := connect(t, newTestServer(t, backend, "tok"))

	out, result, err := client.CallToolJSON(ToolSearchVideos, map[string]any{"query": "golang", "start_year": 2020})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, out, "json")

	rpc := backend.Last().JSON()
	assert.Equal(t, "tools/call", rpc["method"])
	assert.Equal(t, map[string]any{
		"name": "search_videos",
		"arguments": map[string]any{
			"query":       "golang",
			"start_year":  float64(2020),
			"focus":       "relevance",
			"max_results": float64(5),
		},
	}, rpc["params"])
}

func TestVideoTools(t *testing.T) {
	tests := []struct {
		tool     string
		args     map[string]any
		wantName string
		wantArgs map[string]any
	}{
		{
			tool:     ToolAnalyzeVideo,
			args:     map[string]any{"video_url": "@https://youtu.be/x", "question": "ignored"},
			wantName: "analyze_video",
			wantArgs: map[string]any{"video_url": "https://youtu.be/x", "analysis_type": "summary"},
		},
		{
			tool:     ToolAnalyzeVideo,
			args:     map[string]any{"video_url": "https://youtu.be/x", "analysis_type": "question", "question": "why?"},
			wantName: "analyze_video",
			wantArgs: map[string]any{"video_url": "https://youtu.be/x", "analysis_type": "question", "question": "why?"},
		},
		{
			tool:     ToolGetTranscript,
			args:     map[string]any{"video_url": "https://youtu.be/abc"},
			wantName: "get_video_transcript",
			wantArgs: map[string]any{"video_url": "https://youtu.be/abc"},
		},
		{
			tool:     ToolAnswerFollowup,
			args:     map[string]any{"video_url": "https://youtu.be/abc", "question": "who?"},
			wantName: "answer_followup_question",
			wantArgs: map[string]any{"video_url": "https://youtu.be/abc", "question": "who?"},
		},
		{
			tool:     ToolTranscribeVideo,
			args:     map[string]any{"video_url": "https://vimeo.com/1"},
			wantName: "transcribe_video",
			wantArgs: map[string]any{"video_url": "https://vimeo.com/1", "language": "en"},
		},
		{
			tool:     ToolCallTool,
			args:     map[string]any{"tool_name": "search_videos", "arguments": map[string]any{"query": "x"}},
			wantName: "search_videos",
			wantArgs: map[string]any{"query": "x"},
		},
		{
			tool:     ToolCallTool,
			args:     map[string]any{"tool_name": "get_video_transcript"},
			wantName: "get_video_transcript",
			wantArgs: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.tool+"/"+tt.wantName, func(t *testing.T) {
			backend := vidnavtest.NewServer(t, nil)
			client := connect(t, newTestServer(t, backend, ""))

			_, result, err := client.CallToolJSON(tt.tool, tt.args)
			require.NoError(t, err)
			assert.False(t, result.IsError, vidnavtest.TextOf(result))

			params := backend.Last().JSON()["params"].(map[string]any)
			assert.Equal(t, tt.wantName, params["name"])
			assert.Equal(t, tt.wantArgs, params["arguments"])
		})
	}
}

func TestCustomRequestTool(t *testing.T) {
	backend := vidnavtest.NewServer(t, nil)
	client := connect(t, newTestServer(t, backend, ""))

	out, _, err := client.CallToolJSON(ToolCustomRequest, map[string]any{
		"method": "GET",
		"path":   "/videos",
		"query":  []any{map[string]any{"key": "id", "value": "1"}, map[string]any{"key": "id", "value": "2"}},
		"body":   `{"ignored":true}`,
	})
	require.NoError(t, err)

	record := out["json"].(map[string]any)
	assert.Equal(t, "GET", record["method"])
	assert.Equal(t, "/videos", record["path"])
	assert.Equal(t, []string{"2"}, backend.Last().Query["id"])
	assert.Empty(t, backend.Last().Body)
}

func TestToolErrorsBecomeErrorResults(t *testing.T) {
	backend := vidnavtest.NewServer(t, vidnavtest.DefaultConfig().WithToken("right"))
	client := connect(t, newTestServer(t, backend, "wrong"))

	result, err := client.CallTool(ToolGetTranscript, map[string]any{"video_url": "https://youtu.be/abc"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, vidnavtest.TextOf(result), "401")

	result, err = client.CallTool(ToolCustomRequest, map[string]any{"method": "PUT"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, vidnavtest.TextOf(result), "unsupported HTTP method")
}

func TestListRemoteToolsTool(t *testing.T) {
	backend := vidnavtest.NewServer(t, nil)
	client := connect(t, newTestServer(t, backend, ""))

	out, _, err := client.CallToolJSON(ToolListRemoteTools, map[string]any{})
	require.NoError(t, err)
	tools := out["tools"].([]any)
	require.Len(t, tools, 5)
	assert.Equal(t, "search_videos", tools[0].(map[string]any)["value"])

	empty := vidnavtest.NewServer(t, vidnavtest.DefaultConfig().WithoutTools())
	client = connect(t, newTestServer(t, empty, ""))
	out, _, err = client.CallToolJSON(ToolListRemoteTools, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"name": "No Tools Available", "value": ""}}, out["tools"])
}

func TestLargeResponsesAreSpilled(t *testing.T) {
	big := strings.Repeat("transcript ", 5000)
	backend := vidnavtest.NewServer(t, vidnavtest.DefaultConfig().WithTool(vidnavtest.Tool{
		Name: "long_transcript",
		Handler: func(any) (any, error) {
			return map[string]any{"content": []any{map[string]any{"type": "text", "text": big}}}, nil
		},
	}))
	client := connect(t, newTestServer(t, backend, ""))

	out, _, err := client.CallToolJSON(ToolCallTool, map[string]any{"tool_name": "long_transcript"})
	require.NoError(t, err)
	assert.Equal(t, true, out["truncated"])
	assert.NotEmpty(t, out["payloadPath"])

	schema, err := json.Marshal(out["schema"])
	require.NoError(t, err)
	assert.Contains(t, string(schema), `"text":"string"`)
}
