package vidnav

import "fmt"

// Operation is the tag selecting what an item does.
type Operation string

const (
	OpSearchVideos    Operation = "searchVideos"
	OpAnalyzeVideo    Operation = "analyzeVideo"
	OpGetTranscript   Operation = "getTranscript"
	OpAnswerFollowup  Operation = "answerFollowup"
	OpTranscribeVideo Operation = "transcribeVideo"
	OpCallTool        Operation = "callTool"
	OpCustom          Operation = "custom"
)

// DefaultOperation is used when an item does not name one.
const DefaultOperation = OpSearchVideos

// Operations lists every supported operation in display order.
var Operations = []Operation{
	OpAnalyzeVideo,
	OpAnswerFollowup,
	OpCustom,
	OpGetTranscript,
	OpCallTool,
	OpSearchVideos,
	OpTranscribeVideo,
}

var operationActions = map[Operation]string{
	OpSearchVideos:    "Search videos",
	OpAnalyzeVideo:    "Analyze a video",
	OpGetTranscript:   "Get video transcript",
	OpAnswerFollowup:  "Answer a follow up question",
	OpTranscribeVideo: "Transcribe a video",
	OpCallTool:        "Run a tool from VidNavigator MCP",
	OpCustom:          "Make a custom HTTP request",
}

// Action is a short human description of the operation.
func (o Operation) Action() string {
	if action, ok := operationActions[o]; ok {
		return action
	}
	return fmt.Sprintf("Unknown operation %q", string(o))
}

// Supported reports whether o has a parameter reader.
func (o Operation) Supported() bool {
	_, ok := readers[o]
	return ok
}
