package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vidnavigator/vidnav/internal/logger"
	"github.com/vidnavigator/vidnav/internal/output"
)

var logMiddleware = logger.New("middleware:jqschema")

// Defaults for PayloadOptions
const (
	DefaultPreviewLength = 500
	DefaultThreshold     = 16 * 1024
)

// PayloadOptions controls when a tool response is spilled to disk
type PayloadOptions struct {
	// Dir receives one {queryID}/payload.json per spilled response
	Dir string
	// Threshold is the encoded size in bytes above which responses are spilled
	Threshold int
	// PreviewLength is the number of bytes of payload kept inline
	PreviewLength int
}

func (o PayloadOptions) withDefaults() PayloadOptions {
	if o.Dir == "" {
		o.Dir = filepath.Join(os.TempDir(), "vidnav", "tool-calls")
	}
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.PreviewLength <= 0 {
		o.PreviewLength = DefaultPreviewLength
	}
	return o
}

// generateRandomID generates a random ID for payload storage
func generateRandomID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("fallback-%d-%d", os.Getpid(), time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)
}

// savePayload saves the payload to disk and returns the file path
func savePayload(dir, queryID string, payload []byte) (string, error) {
	dir = filepath.Join(dir, queryID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create payload directory: %w", err)
	}

	filePath := filepath.Join(dir, "payload.json")
	if err := os.WriteFile(filePath, payload, 0o644); err != nil {
		return "", fmt.Errorf("failed to write payload file: %w", err)
	}
	return filePath, nil
}

// WrapToolHandler wraps a tool handler so that oversized responses are
// saved to disk and replaced by a preview plus a jq-inferred schema. Small
// responses, errors and error results pass through untouched.
func WrapToolHandler[In any](handler sdk.ToolHandlerFor[In, any], toolName string, opts PayloadOptions) sdk.ToolHandlerFor[In, any] {
	opts = opts.withDefaults()
	return func(ctx context.Context, req *sdk.CallToolRequest, args In) (*sdk.CallToolResult, any, error) {
		result, data, err := handler(ctx, req, args)
		if err != nil || data == nil || (result != nil && result.IsError) {
			return result, data, err
		}

		payloadJSON, marshalErr := json.Marshal(data)
		if marshalErr != nil {
			logMiddleware.Printf("Failed to marshal response: tool=%s, error=%v", toolName, marshalErr)
			return result, data, err
		}
		if len(payloadJSON) <= opts.Threshold {
			return result, data, err
		}

		queryID := generateRandomID()
		filePath, saveErr := savePayload(opts.Dir, queryID, payloadJSON)
		if saveErr != nil {
			logMiddleware.Printf("Failed to save payload: tool=%s, queryID=%s, error=%v", toolName, queryID, saveErr)
			return result, data, err
		}
		logMiddleware.Printf("Saved payload: tool=%s, queryID=%s, path=%s, size=%d bytes",
			toolName, queryID, filePath, len(payloadJSON))

		schema, schemaErr := output.InferSchema(data)
		if schemaErr != nil {
			logMiddleware.Printf("Failed to apply jq schema: tool=%s, queryID=%s, error=%v", toolName, queryID, schemaErr)
			return result, data, err
		}

		preview := payloadJSON
		if len(preview) > opts.PreviewLength {
			preview = preview[:opts.PreviewLength]
		}
		rewritten := map[string]any{
			"queryID":      queryID,
			"payloadPath":  filePath,
			"preview":      string(preview) + "...",
			"schema":       schema,
			"originalSize": len(payloadJSON),
			"truncated":    true,
		}
		logger.LogInfo("tools", "Spilled %s response of %d bytes to %s", toolName, len(payloadJSON), filePath)

		// Content is rebuilt by the SDK from the rewritten data.
		return nil, rewritten, nil
	}
}
