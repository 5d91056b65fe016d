package rules

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ConfigDocsURL points at the configuration reference
const ConfigDocsURL = "https://vidnavigator.com/docs/cli#configuration"

// ValidationError represents a configuration validation error with context
type ValidationError struct {
	Field      string
	Message    string
	JSONPath   string
	Suggestion string
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Configuration error at %s: %s", e.JSONPath, e.Message))
	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\nSuggestion: %s", e.Suggestion))
	}
	return sb.String()
}

// UndefinedVariable creates a ValidationError for undefined environment variables
func UndefinedVariable(varName, jsonPath string) *ValidationError {
	return &ValidationError{
		Field:      "env variable",
		Message:    fmt.Sprintf("undefined environment variable referenced: %s", varName),
		JSONPath:   jsonPath,
		Suggestion: fmt.Sprintf("Set the environment variable %s before running vidnav", varName),
	}
}

// AppendConfigDocsFooter appends the documentation link to an error message
func AppendConfigDocsFooter(sb *strings.Builder) {
	sb.WriteString("\n\nPlease check your configuration against the reference at:")
	sb.WriteString("\n" + ConfigDocsURL)
}

// HTTPURL validates that value is an absolute http or https URL
// Returns nil if valid, *ValidationError if invalid
func HTTPURL(value, fieldName, jsonPath string) *ValidationError {
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{
			Field:      fieldName,
			Message:    fmt.Sprintf("%s must be an http(s) URL, got '%s'", fieldName, value),
			JSONPath:   jsonPath,
			Suggestion: "Use an absolute URL such as 'https://api.vidnavigator.com/mcp'",
		}
	}
	return nil
}

// TimeoutNonNegative validates that a timeout value is not negative
// Returns nil if valid, *ValidationError if invalid
func TimeoutNonNegative(timeout int, fieldName, jsonPath string) *ValidationError {
	if timeout < 0 {
		return &ValidationError{
			Field:      fieldName,
			Message:    fmt.Sprintf("%s must not be negative, got %d", fieldName, timeout),
			JSONPath:   jsonPath,
			Suggestion: "Use 0 to disable the timeout or a positive number of seconds (e.g., 30)",
		}
	}
	return nil
}

// ListenAddress validates a "host:port" listen address
// Returns nil if valid, *ValidationError if invalid
func ListenAddress(addr, jsonPath string) *ValidationError {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return &ValidationError{
			Field:      "listen",
			Message:    fmt.Sprintf("invalid listen address '%s' (expected 'host:port')", addr),
			JSONPath:   jsonPath,
			Suggestion: "Use format 'host:port' (e.g., '127.0.0.1:3000' or ':3000')",
		}
	}
	var n int
	if _, err := fmt.Sscanf(port, "%d", &n); err != nil || n < 0 || n > 65535 {
		return &ValidationError{
			Field:      "listen",
			Message:    fmt.Sprintf("port must be between 0 and 65535, got '%s'", port),
			JSONPath:   jsonPath,
			Suggestion: "Use a valid port number (e.g., 3000)",
		}
	}
	return nil
}
