// Package sanitize redacts credentials from strings before they reach a log.
package sanitize

import (
	"regexp"
	"strings"
)

// SecretPatterns contains regex patterns for detecting potential secrets
var SecretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(token|key|secret|password|auth)[=:]\s*[^\s]{8,}`),
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`),                    // Bearer tokens
	regexp.MustCompile(`(?i)authorization:\s*[a-zA-Z0-9\-._~+/]+=*`),            // Auth headers
	regexp.MustCompile(`[a-f0-9]{32,}`),                                         // Long hex strings (API keys)
	regexp.MustCompile(`(?i)(apikey|api_key|access_key)[=:]\s*[^\s]{8,}`),       // API keys
	regexp.MustCompile(`[a-zA-Z0-9_-]{20,}\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), // JWT tokens
	regexp.MustCompile(`(?i)"(token|password|apikey|api_key|secret|authorization|access_token|refresh_token|credentials?)"\s*:\s*"[^"]+"`),
}

var keyValueSeparator = regexp.MustCompile(`[=:]\s*`)

// SanitizeString replaces potential secrets in message with [REDACTED],
// keeping the key name of key=value and key: value matches.
func SanitizeString(message string) string {
	result := message
	for _, pattern := range SecretPatterns {
		result = pattern.ReplaceAllStringFunc(result, func(match string) string {
			if strings.ContainsAny(match, "=:") {
				parts := keyValueSeparator.Split(match, 2)
				if len(parts) == 2 {
					return parts[0] + "=[REDACTED]"
				}
			}
			return "[REDACTED]"
		})
	}
	return result
}

// TruncateSecret keeps the first four characters of a secret for display.
// Secrets of four characters or fewer are fully hidden.
func TruncateSecret(secret string) string {
	if secret == "" {
		return ""
	}
	runes := []rune(secret)
	if len(runes) <= 4 {
		return "..."
	}
	return string(runes[:4]) + "..."
}
