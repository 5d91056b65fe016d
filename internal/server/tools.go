package server

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vidnavigator/vidnav/internal/vidnav"
)

// Tool names served by the ToolServer
const (
	ToolSearchVideos    = "search_videos"
	ToolAnalyzeVideo    = "analyze_video"
	ToolGetTranscript   = "get_video_transcript"
	ToolAnswerFollowup  = "answer_followup_question"
	ToolTranscribeVideo = "transcribe_video"
	ToolCallTool        = "call_tool"
	ToolCustomRequest   = "custom_request"
	ToolListRemoteTools = "list_remote_tools"
)

var toolNames = []string{
	ToolSearchVideos,
	ToolAnalyzeVideo,
	ToolGetTranscript,
	ToolAnswerFollowup,
	ToolTranscribeVideo,
	ToolCallTool,
	ToolCustomRequest,
	ToolListRemoteTools,
}

// SearchVideosInput is the input of search_videos
type SearchVideosInput struct {
	Query      string `json:"query" jsonschema:"search query"`
	StartYear  int    `json:"start_year,omitempty" jsonschema:"earliest publication year, 0 for no limit"`
	EndYear    int    `json:"end_year,omitempty" jsonschema:"latest publication year, 0 for no limit"`
	Focus      string `json:"focus,omitempty" jsonschema:"ranking focus: relevance, popularity or brevity"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"maximum number of results, default 5"`
}

// AnalyzeVideoInput is the input of analyze_video
type AnalyzeVideoInput struct {
	VideoURL     string `json:"video_url" jsonschema:"URL of the video"`
	AnalysisType string `json:"analysis_type,omitempty" jsonschema:"summary or question, default summary"`
	Question     string `json:"question,omitempty" jsonschema:"question to answer when analysis_type is question"`
}

// VideoInput is the input of get_video_transcript
type VideoInput struct {
	VideoURL string `json:"video_url" jsonschema:"URL of the video"`
}

// FollowupInput is the input of answer_followup_question
type FollowupInput struct {
	VideoURL string `json:"video_url" jsonschema:"URL of the video"`
	Question string `json:"question" jsonschema:"follow up question about the video"`
}

// TranscribeInput is the input of transcribe_video
type TranscribeInput struct {
	VideoURL string `json:"video_url" jsonschema:"URL of a non-YouTube video"`
	Language string `json:"language,omitempty" jsonschema:"ISO 639-1 language code, default en"`
}

// CallToolInput is the input of call_tool
type CallToolInput struct {
	ToolName  string         `json:"tool_name" jsonschema:"name of the remote VidNavigator tool"`
	Arguments map[string]any `json:"arguments,omitempty" jsonschema:"arguments passed to the remote tool"`
}

// CustomRequestInput is the input of custom_request
type CustomRequestInput struct {
	Method string             `json:"method,omitempty" jsonschema:"GET or POST, default POST"`
	Path   string             `json:"path,omitempty" jsonschema:"path relative to the base URL, default /"`
	Query  []vidnav.QueryPair `json:"query,omitempty" jsonschema:"query parameters, later keys win"`
	Body   string             `json:"body,omitempty" jsonschema:"JSON body, sent for POST only"`
}

// ListRemoteToolsInput is the (empty) input of list_remote_tools
type ListRemoteToolsInput struct{}

// setIf adds value under key unless it is the zero value, so that the
// executor applies its own defaults.
func setIf[T comparable](params map[string]any, key string, value T) {
	var zero T
	if value != zero {
		params[key] = value
	}
}

func (s *ToolServer) registerTools() {
	addTool(s, ToolSearchVideos, "Search videos across platforms", func(in SearchVideosInput) map[string]any {
		params := map[string]any{"operation": string(vidnav.OpSearchVideos), "queryText": in.Query}
		setIf(params, "startYear", in.StartYear)
		setIf(params, "endYear", in.EndYear)
		setIf(params, "focus", in.Focus)
		setIf(params, "maxResults", in.MaxResults)
		return params
	})

	addTool(s, ToolAnalyzeVideo, "Summarize a video or answer a question about it", func(in AnalyzeVideoInput) map[string]any {
		params := map[string]any{"operation": string(vidnav.OpAnalyzeVideo), "videoUrl": in.VideoURL}
		setIf(params, "analysisType", in.AnalysisType)
		setIf(params, "analysisQuestion", in.Question)
		return params
	})

	addTool(s, ToolGetTranscript, "Get the transcript of a video", func(in VideoInput) map[string]any {
		return map[string]any{"operation": string(vidnav.OpGetTranscript), "videoUrlTranscript": in.VideoURL}
	})

	addTool(s, ToolAnswerFollowup, "Answer a follow up question about a video", func(in FollowupInput) map[string]any {
		return map[string]any{
			"operation":      string(vidnav.OpAnswerFollowup),
			"videoUrlFollow": in.VideoURL,
			"followQuestion": in.Question,
		}
	})

	addTool(s, ToolTranscribeVideo, "Transcribe a video from a non-YouTube platform", func(in TranscribeInput) map[string]any {
		params := map[string]any{"operation": string(vidnav.OpTranscribeVideo), "videoUrlTranscribe": in.VideoURL}
		setIf(params, "language", in.Language)
		return params
	})

	addTool(s, ToolCallTool, "Run any tool exposed by the VidNavigator MCP endpoint", func(in CallToolInput) map[string]any {
		params := map[string]any{"operation": string(vidnav.OpCallTool), "toolName": in.ToolName}
		if in.Arguments != nil {
			params["toolArgs"] = in.Arguments
		}
		return params
	})

	addTool(s, ToolCustomRequest, "Make a custom HTTP request to the VidNavigator endpoint", func(in CustomRequestInput) map[string]any {
		params := map[string]any{"operation": string(vidnav.OpCustom)}
		setIf(params, "method", in.Method)
		setIf(params, "path", in.Path)
		setIf(params, "bodyJson", in.Body)
		if len(in.Query) > 0 {
			params["query"] = in.Query
		}
		return params
	})

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        ToolListRemoteTools,
		Description: "List the tools available on the VidNavigator MCP endpoint",
	}, func(ctx context.Context, req *sdk.CallToolRequest, _ ListRemoteToolsInput) (*sdk.CallToolResult, any, error) {
		return nil, map[string]any{"tools": s.discover(ctx)}, nil
	})
}
