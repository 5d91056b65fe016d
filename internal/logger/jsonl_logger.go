package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/vidnavigator/vidnav/internal/logger/sanitize"
)

// JSONLLogger appends one JSON object per RPC message to a file.
type JSONLLogger struct {
	mu      sync.Mutex
	logFile *os.File
	encoder *json.Encoder
}

var (
	globalJSONLLogger *JSONLLogger
	globalJSONLMu     sync.RWMutex
)

// JSONLRPCMessage is a single RPC log entry.
type JSONLRPCMessage struct {
	Timestamp string         `json:"timestamp"`
	Direction string         `json:"direction"`
	Type      string         `json:"type"`
	Endpoint  string         `json:"endpoint"`
	Method    string         `json:"method,omitempty"`
	Error     string         `json:"error,omitempty"`
	Payload   map[string]any `json:"payload"`
}

// InitJSONLLogger installs the global JSONL logger. Unlike the file logger it
// has no fallback: on error RPC messages are simply not recorded.
func InitJSONLLogger(logDir, fileName string) error {
	file, err := initLogFile(logDir, fileName, os.O_APPEND)
	if err != nil {
		return err
	}
	initGlobalJSONLLogger(&JSONLLogger{
		logFile: file,
		encoder: json.NewEncoder(file),
	})
	return nil
}

// Close closes the JSONL log file
func (jl *JSONLLogger) Close() error {
	jl.mu.Lock()
	defer jl.mu.Unlock()
	err := closeLogFile(jl.logFile, "jsonl")
	jl.logFile = nil
	return err
}

// LogMessage encodes entry as one line and syncs the file.
func (jl *JSONLLogger) LogMessage(entry *JSONLRPCMessage) error {
	jl.mu.Lock()
	defer jl.mu.Unlock()

	if jl.logFile == nil {
		return fmt.Errorf("JSONL logger not initialized")
	}
	if err := jl.encoder.Encode(entry); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	if err := jl.logFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	return nil
}

// CloseJSONLLogger closes the global JSONL logger
func CloseJSONLLogger() error {
	return closeGlobalJSONLLogger()
}

var secretFieldNames = []string{
	"password", "passwd", "pwd",
	"token", "apikey", "api_key", "api-key",
	"secret", "authorization", "auth",
	"credential", "private_key",
}

// sanitizePayload decodes payloadBytes and redacts secret-looking values.
// Payloads that are not JSON objects are kept under "_raw".
func sanitizePayload(payloadBytes []byte) map[string]any {
	var decoded any
	if err := json.Unmarshal(payloadBytes, &decoded); err != nil {
		return map[string]any{
			"_error": "failed to parse JSON",
			"_raw":   sanitize.SanitizeString(string(payloadBytes)),
		}
	}
	payload, ok := decoded.(map[string]any)
	if !ok {
		return map[string]any{"_raw": sanitizeValue(decoded, false)}
	}
	sanitizeMap(payload)
	return payload
}

func sanitizeMap(m map[string]any) {
	for key, value := range m {
		m[key] = sanitizeValue(value, isSecretField(key))
	}
}

func sanitizeValue(value any, secret bool) any {
	switch v := value.(type) {
	case string:
		if secret && v != "" {
			return "[REDACTED]"
		}
		return sanitize.SanitizeString(v)
	case map[string]any:
		sanitizeMap(v)
	case []any:
		for i := range v {
			v[i] = sanitizeValue(v[i], false)
		}
	}
	return value
}

func isSecretField(key string) bool {
	keyLower := strings.ToLower(key)
	for _, name := range secretFieldNames {
		if strings.Contains(keyLower, name) {
			return true
		}
	}
	return false
}

// LogRPCMessageJSONL records an RPC message in the global JSONL logger, if any.
func LogRPCMessageJSONL(direction RPCMessageDirection, messageType RPCMessageType, endpoint, method string, payloadBytes []byte, err error) {
	globalJSONLMu.RLock()
	defer globalJSONLMu.RUnlock()

	if globalJSONLLogger == nil {
		return
	}

	entry := &JSONLRPCMessage{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Direction: string(direction),
		Type:      string(messageType),
		Endpoint:  endpoint,
		Method:    method,
		Payload:   sanitizePayload(payloadBytes),
	}
	if err != nil {
		entry.Error = err.Error()
	}

	// Best effort.
	_ = globalJSONLLogger.LogMessage(entry)
}
