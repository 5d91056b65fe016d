package vidnav

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/vidnavigator/vidnav/internal/logger"
	"github.com/vidnavigator/vidnav/internal/mcp"
)

var logRequest = logger.New("vidnav:request")

// Remote tool names behind the fixed operations
const (
	ToolSearchVideos    = "search_videos"
	ToolAnalyzeVideo    = "analyze_video"
	ToolGetTranscript   = "get_video_transcript"
	ToolAnswerFollowup  = "answer_followup_question"
	ToolTranscribeVideo = "transcribe_video"
)

// Params is the validated parameter set of one operation. The set of
// implementations is closed: one per Operation.
type Params interface {
	Operation() Operation
	buildRequest(baseURL string) (*mcp.HTTPRequest, error)
}

// BuildRequest turns p into an outbound request against baseURL.
func BuildRequest(baseURL string, p Params) (*mcp.HTTPRequest, error) {
	req, err := p.buildRequest(baseURL)
	if err != nil {
		return nil, err
	}
	logRequest.Printf("Built %s request: %s %s rpc=%q", p.Operation(), req.Method, req.URL, req.RPCMethod())
	return req, nil
}

// JoinURL joins a base URL and a relative path with exactly one slash.
// An empty path yields "base/".
func JoinURL(baseURL, path string) string {
	base := strings.TrimRight(baseURL, "/")
	rel := strings.TrimLeft(path, "/")
	return base + "/" + rel
}

// cleanVideoURL trims whitespace and drops one leading '@', which users
// often paste from mentions.
func cleanVideoURL(raw string) string {
	return strings.TrimPrefix(strings.TrimSpace(raw), "@")
}

func toolCallRequest(baseURL, toolName string, arguments any) (*mcp.HTTPRequest, error) {
	rpc, err := mcp.NewRequest(mcp.MethodToolsCall, mcp.CallToolParams{
		Name:      toolName,
		Arguments: arguments,
	})
	if err != nil {
		return nil, err
	}
	return &mcp.HTTPRequest{
		Method: http.MethodPost,
		URL:    JoinURL(baseURL, "/"),
		Header: mcp.DefaultHeader(),
		Body:   rpc,
	}, nil
}

// SearchVideosParams searches videos across platforms.
type SearchVideosParams struct {
	Query      string
	StartYear  int // 0 means no lower bound
	EndYear    int // 0 means no upper bound
	Focus      string
	MaxResults int
}

func (SearchVideosParams) Operation() Operation { return OpSearchVideos }

// Arguments returns the tool arguments; zero-valued optional filters are left out.
func (p SearchVideosParams) Arguments() map[string]any {
	args := map[string]any{"query": p.Query}
	if p.StartYear > 0 {
		args["start_year"] = p.StartYear
	}
	if p.EndYear > 0 {
		args["end_year"] = p.EndYear
	}
	if p.Focus != "" {
		args["focus"] = p.Focus
	}
	if p.MaxResults != 0 {
		args["max_results"] = p.MaxResults
	}
	return args
}

func (p SearchVideosParams) buildRequest(baseURL string) (*mcp.HTTPRequest, error) {
	return toolCallRequest(baseURL, ToolSearchVideos, p.Arguments())
}

// Analysis types accepted by analyze_video
const (
	AnalysisSummary  = "summary"
	AnalysisQuestion = "question"
)

// AnalyzeVideoParams asks for a summary of a video or an answer about it.
type AnalyzeVideoParams struct {
	VideoURL     string
	AnalysisType string
	Question     string
}

func (AnalyzeVideoParams) Operation() Operation { return OpAnalyzeVideo }

// Arguments returns the tool arguments. The question is only sent for the
// question analysis type.
func (p AnalyzeVideoParams) Arguments() map[string]any {
	args := map[string]any{
		"video_url":     cleanVideoURL(p.VideoURL),
		"analysis_type": p.AnalysisType,
	}
	if p.AnalysisType == AnalysisQuestion && p.Question != "" {
		args["question"] = p.Question
	}
	return args
}

func (p AnalyzeVideoParams) buildRequest(baseURL string) (*mcp.HTTPRequest, error) {
	return toolCallRequest(baseURL, ToolAnalyzeVideo, p.Arguments())
}

// GetTranscriptParams fetches the transcript of a video.
type GetTranscriptParams struct {
	VideoURL string
}

func (GetTranscriptParams) Operation() Operation { return OpGetTranscript }

func (p GetTranscriptParams) buildRequest(baseURL string) (*mcp.HTTPRequest, error) {
	return toolCallRequest(baseURL, ToolGetTranscript, map[string]any{
		"video_url": cleanVideoURL(p.VideoURL),
	})
}

// AnswerFollowupParams asks a follow-up question about a video.
type AnswerFollowupParams struct {
	VideoURL string
	Question string
}

func (AnswerFollowupParams) Operation() Operation { return OpAnswerFollowup }

func (p AnswerFollowupParams) buildRequest(baseURL string) (*mcp.HTTPRequest, error) {
	return toolCallRequest(baseURL, ToolAnswerFollowup, map[string]any{
		"video_url": cleanVideoURL(p.VideoURL),
		"question":  p.Question,
	})
}

// TranscribeVideoParams transcribes a non-YouTube video.
type TranscribeVideoParams struct {
	VideoURL string
	Language string // ISO 639-1 code
}

func (TranscribeVideoParams) Operation() Operation { return OpTranscribeVideo }

func (p TranscribeVideoParams) buildRequest(baseURL string) (*mcp.HTTPRequest, error) {
	return toolCallRequest(baseURL, ToolTranscribeVideo, map[string]any{
		"video_url": cleanVideoURL(p.VideoURL),
		"language":  p.Language,
	})
}

// CallToolParams invokes any remote tool by name.
type CallToolParams struct {
	ToolName string
	// Arguments is sent verbatim. It is normally an object, but text that
	// failed to parse as JSON stays a string.
	Arguments any
}

func (CallToolParams) Operation() Operation { return OpCallTool }

func (p CallToolParams) buildRequest(baseURL string) (*mcp.HTTPRequest, error) {
	args := p.Arguments
	if args == nil {
		args = map[string]any{}
	}
	return toolCallRequest(baseURL, p.ToolName, args)
}

// parseToolArgs parses JSON text arguments. Text that is not valid JSON is
// returned unchanged rather than replaced.
func parseToolArgs(raw any) any {
	text, ok := raw.(string)
	if !ok || strings.TrimSpace(text) == "" {
		return raw
	}
	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		logRequest.Printf("Tool arguments are not valid JSON, sending as text: %v", err)
		return raw
	}
	return parsed
}

// CustomRequestParams is the raw escape hatch: any path under the base URL.
type CustomRequestParams struct {
	Method string // GET or POST
	Path   string
	Query  []QueryPair
	// Body is nil, JSON text, or a JSON-encodable value. Only POST sends it.
	Body any
}

func (CustomRequestParams) Operation() Operation { return OpCustom }

// QueryValues flattens the pairs. Empty keys are skipped and a later
// duplicate key replaces an earlier one.
func (p CustomRequestParams) QueryValues() url.Values {
	values := url.Values{}
	for _, pair := range p.Query {
		if pair.Key == "" {
			continue
		}
		values.Set(pair.Key, pair.Value)
	}
	return values
}

func (p CustomRequestParams) buildRequest(baseURL string) (*mcp.HTTPRequest, error) {
	method := strings.ToUpper(strings.TrimSpace(p.Method))
	if method != http.MethodGet && method != http.MethodPost {
		return nil, fmt.Errorf("%w: %q (expected GET or POST)", ErrUnsupportedMethod, p.Method)
	}

	req := &mcp.HTTPRequest{
		Method: method,
		URL:    JoinURL(baseURL, p.Path),
		Query:  p.QueryValues(),
		Header: mcp.DefaultHeader(),
	}
	if method == http.MethodPost {
		req.Body = customBody(p.Body)
	}
	return req, nil
}

// customBody parses text bodies as JSON; text that does not parse is sent
// as the original raw text.
func customBody(body any) any {
	switch b := body.(type) {
	case nil:
		return nil
	case string:
		if b == "" {
			return nil
		}
		if !json.Valid([]byte(b)) {
			logRequest.Print("Custom body is not valid JSON, sending raw text")
			return mcp.RawBody(b)
		}
		return json.RawMessage(b)
	default:
		return b
	}
}

type paramsReader func(src ParameterSource, item int) (Params, error)

// readers maps every operation tag to the function that reads its parameters.
var readers = map[Operation]paramsReader{
	OpSearchVideos:    readSearchVideos,
	OpAnalyzeVideo:    readAnalyzeVideo,
	OpGetTranscript:   readGetTranscript,
	OpAnswerFollowup:  readAnswerFollowup,
	OpTranscribeVideo: readTranscribeVideo,
	OpCallTool:        readCallTool,
	OpCustom:          readCustomRequest,
}

// ReadParams reads and validates the parameters of op for one item.
func ReadParams(op Operation, src ParameterSource, item int) (Params, error) {
	read, ok := readers[op]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOperation, string(op))
	}
	return read(src, item)
}

func readSearchVideos(src ParameterSource, item int) (Params, error) {
	var p SearchVideosParams
	var err error
	if p.Query, err = requiredString(src, "queryText", item); err != nil {
		return nil, err
	}
	if p.StartYear, err = optionalInt(src, "startYear", item, 0); err != nil {
		return nil, err
	}
	if p.EndYear, err = optionalInt(src, "endYear", item, 0); err != nil {
		return nil, err
	}
	if p.Focus, err = optionalString(src, "focus", item, "relevance"); err != nil {
		return nil, err
	}
	if p.MaxResults, err = optionalInt(src, "maxResults", item, 5); err != nil {
		return nil, err
	}
	return p, nil
}

func readAnalyzeVideo(src ParameterSource, item int) (Params, error) {
	var p AnalyzeVideoParams
	var err error
	if p.VideoURL, err = requiredString(src, "videoUrl", item); err != nil {
		return nil, err
	}
	if p.AnalysisType, err = optionalString(src, "analysisType", item, AnalysisSummary); err != nil {
		return nil, err
	}
	if p.Question, err = optionalString(src, "analysisQuestion", item, ""); err != nil {
		return nil, err
	}
	return p, nil
}

func readGetTranscript(src ParameterSource, item int) (Params, error) {
	videoURL, err := requiredString(src, "videoUrlTranscript", item)
	if err != nil {
		return nil, err
	}
	return GetTranscriptParams{VideoURL: videoURL}, nil
}

func readAnswerFollowup(src ParameterSource, item int) (Params, error) {
	var p AnswerFollowupParams
	var err error
	if p.VideoURL, err = requiredString(src, "videoUrlFollow", item); err != nil {
		return nil, err
	}
	if p.Question, err = requiredString(src, "followQuestion", item); err != nil {
		return nil, err
	}
	return p, nil
}

func readTranscribeVideo(src ParameterSource, item int) (Params, error) {
	var p TranscribeVideoParams
	var err error
	if p.VideoURL, err = requiredString(src, "videoUrlTranscribe", item); err != nil {
		return nil, err
	}
	if p.Language, err = optionalString(src, "language", item, "en"); err != nil {
		return nil, err
	}
	return p, nil
}

func readCallTool(src ParameterSource, item int) (Params, error) {
	toolName, err := requiredString(src, "toolName", item)
	if err != nil {
		return nil, err
	}
	rawArgs, ok := src.Parameter("toolArgs", item)
	if !ok {
		rawArgs = map[string]any{}
	}
	return CallToolParams{ToolName: toolName, Arguments: parseToolArgs(rawArgs)}, nil
}

func readCustomRequest(src ParameterSource, item int) (Params, error) {
	var p CustomRequestParams
	var err error
	if p.Method, err = optionalString(src, "method", item, http.MethodPost); err != nil {
		return nil, err
	}
	if p.Path, err = optionalString(src, "path", item, "/"); err != nil {
		return nil, err
	}
	if p.Query, err = queryPairs(src, item); err != nil {
		return nil, err
	}
	if strings.EqualFold(strings.TrimSpace(p.Method), http.MethodPost) {
		p.Body, _ = src.Parameter("bodyJson", item)
	}
	return p, nil
}
