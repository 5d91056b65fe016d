package vidnav

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidnavigator/vidnav/internal/mcp"
)

const testBase = "https://api.x.com/mcp"

func TestJoinURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{"trailing slash on base", "https://api.x.com/mcp/", "/search", "https://api.x.com/mcp/search"},
		{"no slashes", "https://api.x.com/mcp", "search", "https://api.x.com/mcp/search"},
		{"empty path", "https://api.x.com/mcp", "", "https://api.x.com/mcp/"},
		{"root path", "https://api.x.com/mcp///", "/", "https://api.x.com/mcp/"},
		{"many slashes", "https://api.x.com/mcp//", "//a/b", "https://api.x.com/mcp/a/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinURL(tt.base, tt.path))
		})
	}
}

// rpcOf extracts the JSON-RPC envelope of a built request as generic JSON.
func rpcOf(t *testing.T, req *mcp.HTTPRequest) map[string]any {
	t.Helper()
	body, err := req.EncodeBody()
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m))
	return m
}

func argumentsOf(t *testing.T, req *mcp.HTTPRequest) map[string]any {
	t.Helper()
	params, ok := rpcOf(t, req)["params"].(map[string]any)
	require.True(t, ok, "params must be an object")
	args, ok := params["arguments"].(map[string]any)
	require.True(t, ok, "arguments must be an object")
	return args
}

func build(t *testing.T, op Operation, params map[string]any) *mcp.HTTPRequest {
	t.Helper()
	p, err := ReadParams(op, SingleItem(params), 0)
	require.NoError(t, err)
	req, err := BuildRequest(testBase, p)
	require.NoError(t, err)
	return req
}

func TestReadersCoverEveryOperation(t *testing.T) {
	for _, op := range Operations {
		assert.True(t, op.Supported(), "operation %s has no reader", op)
		assert.NotContains(t, op.Action(), "Unknown", "operation %s has no action", op)
	}
	assert.Len(t, readers, len(Operations))
	assert.False(t, Operation("deleteVideo").Supported())
}

func TestSearchVideosArguments(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
		want   map[string]any
	}{
		{
			name:   "defaults",
			params: map[string]any{"queryText": "go generics"},
			want:   map[string]any{"query": "go generics", "focus": "relevance", "max_results": float64(5)},
		},
		{
			name:   "zero start year is unset",
			params: map[string]any{"queryText": "q", "startYear": 0, "endYear": 0, "maxResults": 0, "focus": ""},
			want:   map[string]any{"query": "q"},
		},
		{
			name:   "year filters",
			params: map[string]any{"queryText": "q", "startYear": 1990, "endYear": float64(2000), "focus": "brevity"},
			want: map[string]any{
				"query": "q", "start_year": float64(1990), "end_year": float64(2000),
				"focus": "brevity", "max_results": float64(5),
			},
		},
		{
			name:   "negative year is unset",
			params: map[string]any{"queryText": "q", "startYear": -4, "maxResults": 3},
			want:   map[string]any{"query": "q", "focus": "relevance", "max_results": float64(3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := build(t, OpSearchVideos, tt.params)
			assert.Equal(t, tt.want, argumentsOf(t, req))
		})
	}
}

func TestAnalyzeVideoQuestion(t *testing.T) {
	tests := []struct {
		name         string
		analysisType any
		question     string
		wantQuestion bool
	}{
		{"summary ignores question", "summary", "why?", false},
		{"default type is summary", nil, "why?", false},
		{"question type sends question", "question", "why?", true},
		{"empty question is dropped", "question", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := map[string]any{"videoUrl": " @https://youtu.be/x ", "analysisQuestion": tt.question}
			if tt.analysisType != nil {
				params["analysisType"] = tt.analysisType
			}
			args := argumentsOf(t, build(t, OpAnalyzeVideo, params))

			assert.Equal(t, "https://youtu.be/x", args["video_url"])
			if tt.wantQuestion {
				assert.Equal(t, tt.question, args["question"])
			} else {
				assert.NotContains(t, args, "question")
			}
		})
	}
}

func TestVideoURLCleaning(t *testing.T) {
	tests := []struct {
		op    Operation
		field string
		extra map[string]any
	}{
		{OpAnalyzeVideo, "videoUrl", nil},
		{OpGetTranscript, "videoUrlTranscript", nil},
		{OpAnswerFollowup, "videoUrlFollow", map[string]any{"followQuestion": "who?"}},
		{OpTranscribeVideo, "videoUrlTranscribe", nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			params := map[string]any{tt.field: "@https://youtu.be/x"}
			for k, v := range tt.extra {
				params[k] = v
			}
			args := argumentsOf(t, build(t, tt.op, params))
			assert.Equal(t, "https://youtu.be/x", args["video_url"])
		})
	}

	assert.Equal(t, "@x", cleanVideoURL("@@x"), "only one sigil is stripped")
}

func TestGetTranscriptEnvelope(t *testing.T) {
	req := build(t, OpGetTranscript, map[string]any{"videoUrlTranscript": "https://youtu.be/abc"})

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, testBase+"/", req.URL)
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, mcp.MethodToolsCall, req.RPCMethod())

	rpc := rpcOf(t, req)
	assert.Equal(t, "2.0", rpc["jsonrpc"])
	assert.Equal(t, mcp.MethodToolsCall, rpc["method"])
	id, ok := rpc["id"].(float64)
	require.True(t, ok, "id must be a number")
	assert.Positive(t, id)
	assert.Equal(t, map[string]any{
		"name":      "get_video_transcript",
		"arguments": map[string]any{"video_url": "https://youtu.be/abc"},
	}, rpc["params"])
}

func TestTranscribeVideoLanguage(t *testing.T) {
	args := argumentsOf(t, build(t, OpTranscribeVideo, map[string]any{"videoUrlTranscribe": "https://vimeo.com/1"}))
	assert.Equal(t, "en", args["language"])

	args = argumentsOf(t, build(t, OpTranscribeVideo, map[string]any{"videoUrlTranscribe": "https://vimeo.com/1", "language": "fr"}))
	assert.Equal(t, "fr", args["language"])
}

func TestCallToolArguments(t *testing.T) {
	tests := []struct {
		name     string
		toolArgs any
		want     any
	}{
		{"json text is parsed", `{"a":1}`, map[string]any{"a": float64(1)}},
		{"invalid json text passes through", `{bad`, `{bad`},
		{"object is sent as is", map[string]any{"b": "c"}, map[string]any{"b": "c"}},
		{"missing defaults to empty object", nil, map[string]any{}},
		{"json null becomes empty object", `null`, map[string]any{}},
		{"blank text is kept", "  ", "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := map[string]any{"toolName": "search_videos"}
			if tt.toolArgs != nil {
				params["toolArgs"] = tt.toolArgs
			}
			req := build(t, OpCallTool, params)
			rpcParams := rpcOf(t, req)["params"].(map[string]any)
			assert.Equal(t, "search_videos", rpcParams["name"])
			assert.Equal(t, tt.want, rpcParams["arguments"])
		})
	}
}

func TestCustomRequest(t *testing.T) {
	t.Run("post with json body and query", func(t *testing.T) {
		req := build(t, OpCustom, map[string]any{
			"method": "post",
			"path":   "/videos/search",
			"query": map[string]any{"parameters": []any{
				map[string]any{"key": "a", "value": "1"},
				map[string]any{"key": "", "value": "skipped"},
				map[string]any{"key": "a", "value": "2"},
				map[string]any{"key": "b"},
			}},
			"bodyJson": `{"q":"cats"}`,
		})

		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, testBase+"/videos/search", req.URL)
		full, err := req.FullURL()
		require.NoError(t, err)
		assert.Equal(t, testBase+"/videos/search?a=2&b=", full)

		body, err := req.EncodeBody()
		require.NoError(t, err)
		assert.JSONEq(t, `{"q":"cats"}`, string(body))
		assert.Empty(t, req.RPCMethod())
	})

	t.Run("invalid json body is sent raw", func(t *testing.T) {
		req := build(t, OpCustom, map[string]any{"bodyJson": `{not json`})
		body, err := req.EncodeBody()
		require.NoError(t, err)
		assert.Equal(t, `{not json`, string(body))
		assert.Equal(t, testBase+"/", req.URL)
	})

	t.Run("get never sends a body", func(t *testing.T) {
		req := build(t, OpCustom, map[string]any{"method": "GET", "path": "health", "bodyJson": `{"x":1}`})
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Nil(t, req.Body)
	})

	t.Run("bare pair list", func(t *testing.T) {
		req := build(t, OpCustom, map[string]any{
			"method": "GET",
			"query":  []any{map[string]any{"key": "n", "value": float64(3)}},
		})
		assert.Equal(t, "3", req.Query.Get("n"))
	})

	t.Run("unsupported method", func(t *testing.T) {
		p, err := ReadParams(OpCustom, SingleItem(map[string]any{"method": "DELETE"}), 0)
		require.NoError(t, err)
		_, err = BuildRequest(testBase, p)
		assert.True(t, errors.Is(err, ErrUnsupportedMethod))
	})
}

func TestReadParamsErrors(t *testing.T) {
	tests := []struct {
		name    string
		op      Operation
		params  map[string]any
		wantErr error
	}{
		{"missing query", OpSearchVideos, map[string]any{}, ErrMissingParameter},
		{"non numeric year", OpSearchVideos, map[string]any{"queryText": "q", "startYear": "soon"}, ErrInvalidParameter},
		{"fractional max results", OpSearchVideos, map[string]any{"queryText": "q", "maxResults": 2.5}, ErrInvalidParameter},
		{"missing follow question", OpAnswerFollowup, map[string]any{"videoUrlFollow": "u"}, ErrMissingParameter},
		{"object url", OpGetTranscript, map[string]any{"videoUrlTranscript": map[string]any{"u": 1}}, ErrInvalidParameter},
		{"missing tool name", OpCallTool, map[string]any{}, ErrMissingParameter},
		{"malformed query", OpCustom, map[string]any{"query": "a=b"}, ErrInvalidParameter},
		{"unknown operation", Operation("nope"), map[string]any{}, ErrUnsupportedOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadParams(tt.op, SingleItem(tt.params), 0)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMapParametersDefaults(t *testing.T) {
	src := MapParameters{
		Items:    []map[string]any{{"queryText": "first"}, {"queryText": nil}},
		Defaults: map[string]any{"queryText": "fallback", "maxResults": "7"},
	}

	p, err := ReadParams(OpSearchVideos, src, 0)
	require.NoError(t, err)
	assert.Equal(t, "first", p.(SearchVideosParams).Query)
	assert.Equal(t, 7, p.(SearchVideosParams).MaxResults)

	p, err = ReadParams(OpSearchVideos, src, 1)
	require.NoError(t, err)
	assert.Equal(t, "fallback", p.(SearchVideosParams).Query)
	assert.Equal(t, 2, src.Len())
}

func TestReadParamsScalarStrings(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"float", float64(1984), "1984"},
		{"fractional float", 2.5, "2.5"},
		{"json number", json.Number("42"), "42"},
		{"int", 7, "7"},
		{"int64", int64(9), "9"},
		{"bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := MapParameters{Defaults: map[string]any{"queryText": tt.value}}
			p, err := ReadParams(OpSearchVideos, src, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.(SearchVideosParams).Query)
		})
	}

	p, err := ReadParams(OpAnswerFollowup, SingleItem(map[string]any{"videoUrlFollow": "u", "followQuestion": float64(42)}), 0)
	require.NoError(t, err)
	assert.Equal(t, "42", p.(AnswerFollowupParams).Question)
}

func TestListToolsEnvelope(t *testing.T) {
	req, err := ListToolsRequest(testBase + "/")
	require.NoError(t, err)
	assert.Equal(t, testBase+"/", req.URL)

	rpc, ok := req.Body.(*jsonrpc2.Request)
	require.True(t, ok)
	assert.Equal(t, mcp.MethodToolsList, rpc.Method)
	require.NotNil(t, rpc.Params)
	assert.JSONEq(t, `{}`, string(*rpc.Params))
}
