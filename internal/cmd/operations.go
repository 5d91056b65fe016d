package cmd

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vidnavigator/vidnav/internal/vidnav"
)

// operationParams starts the parameter set of an operation command
func operationParams(op vidnav.Operation) map[string]any {
	return map[string]any{"operation": string(op)}
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		startYear, endYear, maxResults int
		focus                          string
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: vidnav.OpSearchVideos.Action(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := operationParams(vidnav.OpSearchVideos)
			params["queryText"] = args[0]
			params["focus"] = focus
			params["maxResults"] = maxResults
			if startYear > 0 {
				params["startYear"] = startYear
			}
			if endYear > 0 {
				params["endYear"] = endYear
			}
			return runOperation(cmd, opts, params)
		},
	}
	cmd.Flags().IntVar(&startYear, "start-year", 0, "Only videos published in or after this year")
	cmd.Flags().IntVar(&endYear, "end-year", 0, "Only videos published in or before this year")
	cmd.Flags().StringVar(&focus, "focus", "relevance", "Ranking focus")
	cmd.Flags().IntVar(&maxResults, "max-results", 5, "Maximum number of results")
	return cmd
}

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var analysisType, question string
	cmd := &cobra.Command{
		Use:   "analyze <video-url>",
		Short: vidnav.OpAnalyzeVideo.Action(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if question != "" && !cmd.Flags().Changed("type") {
				analysisType = vidnav.AnalysisQuestion
			}
			params := operationParams(vidnav.OpAnalyzeVideo)
			params["videoUrl"] = args[0]
			params["analysisType"] = analysisType
			if question != "" {
				params["analysisQuestion"] = question
			}
			return runOperation(cmd, opts, params)
		},
	}
	cmd.Flags().StringVar(&analysisType, "type", vidnav.AnalysisSummary, "Analysis type: summary or question")
	cmd.Flags().StringVar(&question, "question", "", "Question to answer (implies --type question)")
	return cmd
}

func newTranscriptCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "transcript <video-url>",
		Short: vidnav.OpGetTranscript.Action(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := operationParams(vidnav.OpGetTranscript)
			params["videoUrlTranscript"] = args[0]
			return runOperation(cmd, opts, params)
		},
	}
}

func newFollowupCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "followup <video-url> <question>",
		Short: vidnav.OpAnswerFollowup.Action(),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := operationParams(vidnav.OpAnswerFollowup)
			params["videoUrlFollow"] = args[0]
			params["followQuestion"] = args[1]
			return runOperation(cmd, opts, params)
		},
	}
}

func newTranscribeCmd(opts *rootOptions) *cobra.Command {
	var language string
	cmd := &cobra.Command{
		Use:   "transcribe <video-url>",
		Short: vidnav.OpTranscribeVideo.Action(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := operationParams(vidnav.OpTranscribeVideo)
			params["videoUrlTranscribe"] = args[0]
			params["language"] = language
			return runOperation(cmd, opts, params)
		},
	}
	cmd.Flags().StringVar(&language, "language", "en", "Transcript language code")
	return cmd
}

func newCallCmd(opts *rootOptions) *cobra.Command {
	var toolArgs string
	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: vidnav.OpCallTool.Action(),
		Long: `Call any tool exposed by the VidNavigator MCP endpoint.
Use "vidnav tools" to list them. --args is a JSON object; text that is not
valid JSON is sent as a plain string.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := operationParams(vidnav.OpCallTool)
			params["toolName"] = args[0]
			if toolArgs != "" {
				params["toolArgs"] = toolArgs
			}
			return runOperation(cmd, opts, params)
		},
	}
	cmd.Flags().StringVar(&toolArgs, "args", "", "Tool arguments as JSON")
	return cmd
}

func newRequestCmd(opts *rootOptions) *cobra.Command {
	var (
		method, path, body string
		query              []string
	)
	cmd := &cobra.Command{
		Use:   "request",
		Short: vidnav.OpCustom.Action(),
		Long: `Send an arbitrary GET or POST request relative to the base URL.
The body is only sent with POST. Repeated query keys keep the last value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := parseQueryFlags(query)
			if err != nil {
				return err
			}
			params := operationParams(vidnav.OpCustom)
			params["method"] = method
			params["path"] = path
			if len(pairs) > 0 {
				params["query"] = pairs
			}
			if body != "" {
				params["bodyJson"] = body
			}
			return runOperation(cmd, opts, params)
		},
	}
	cmd.Flags().StringVarP(&method, "method", "X", http.MethodPost, "HTTP method: GET or POST")
	cmd.Flags().StringVar(&path, "path", "/", "Path appended to the base URL")
	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "Query parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&body, "body", "d", "", "Request body, JSON or raw text")
	return cmd
}

// parseQueryFlags turns key=value flags into query pairs, keeping order
func parseQueryFlags(values []string) ([]vidnav.QueryPair, error) {
	pairs := make([]vidnav.QueryPair, 0, len(values))
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --query %q: expected key=value", v)
		}
		pairs = append(pairs, vidnav.QueryPair{Key: key, Value: value})
	}
	return pairs, nil
}
