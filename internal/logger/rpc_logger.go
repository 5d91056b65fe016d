package logger

import (
	"fmt"
	"strings"

	"github.com/vidnavigator/vidnav/internal/logger/sanitize"
)

// RPCMessageType distinguishes requests from responses
type RPCMessageType string

const (
	RPCMessageRequest  RPCMessageType = "REQUEST"
	RPCMessageResponse RPCMessageType = "RESPONSE"
)

// RPCMessageDirection is OUT for calls to the remote endpoint and IN for
// what comes back.
type RPCMessageDirection string

const (
	RPCDirectionInbound  RPCMessageDirection = "IN"
	RPCDirectionOutbound RPCMessageDirection = "OUT"
)

// MaxPayloadPreviewLength caps the payload preview in text log lines (10KB)
const MaxPayloadPreviewLength = 10 * 1024

// RPCMessageInfo is the text-log view of one RPC message
type RPCMessageInfo struct {
	Direction   RPCMessageDirection
	MessageType RPCMessageType
	Endpoint    string
	Method      string
	PayloadSize int
	Payload     string // sanitized, truncated preview
	Error       string
}

func logRPCMessage(direction RPCMessageDirection, messageType RPCMessageType, endpoint, method string, payload []byte, err error) {
	info := &RPCMessageInfo{
		Direction:   direction,
		MessageType: messageType,
		Endpoint:    endpoint,
		Method:      method,
		PayloadSize: len(payload),
		Payload:     truncateAndSanitize(string(payload), MaxPayloadPreviewLength),
	}
	if err != nil {
		info.Error = err.Error()
	}

	LogDebug("rpc", "%s", formatRPCMessage(info))
	LogRPCMessageJSONL(direction, messageType, endpoint, method, payload, err)
}

// LogRPCRequest logs a request to the text and JSONL logs
func LogRPCRequest(direction RPCMessageDirection, endpoint, method string, payload []byte) {
	logRPCMessage(direction, RPCMessageRequest, endpoint, method, payload, nil)
}

// LogRPCResponse logs a response (or the error that replaced it)
func LogRPCResponse(direction RPCMessageDirection, endpoint string, payload []byte, err error) {
	logRPCMessage(direction, RPCMessageResponse, endpoint, "", payload, err)
}

// formatRPCMessage renders "endpoint→method 123b [err:...] payload".
func formatRPCMessage(info *RPCMessageInfo) string {
	dir := "←"
	if info.Direction == RPCDirectionOutbound {
		dir = "→"
	}

	var parts []string
	if info.Endpoint != "" {
		target := info.Method
		if target == "" {
			target = "resp"
		}
		parts = append(parts, fmt.Sprintf("%s%s%s", info.Endpoint, dir, target))
	}
	parts = append(parts, fmt.Sprintf("%db", info.PayloadSize))
	if info.Error != "" {
		parts = append(parts, fmt.Sprintf("err:%s", info.Error))
	}
	if info.Payload != "" {
		parts = append(parts, info.Payload)
	}
	return strings.Join(parts, " ")
}

// truncateAndSanitize redacts secrets first, then truncates.
func truncateAndSanitize(payload string, maxLength int) string {
	sanitized := sanitize.SanitizeString(payload)
	if len(sanitized) > maxLength {
		return sanitized[:maxLength] + "..."
	}
	return sanitized
}
