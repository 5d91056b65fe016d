package vidnav

import (
	"context"
	"strings"
)

// DefaultBaseURL is the public VidNavigator MCP endpoint.
const DefaultBaseURL = "https://api.vidnavigator.com/mcp"

// Credentials identify the endpoint and the bearer token sent to it.
type Credentials struct {
	BaseURL string
	Token   string
}

// ResolvedBaseURL returns BaseURL with surrounding whitespace and trailing
// slashes removed.
func (c Credentials) ResolvedBaseURL() string {
	return strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
}

// CredentialSource yields the credentials for one call. It is consulted for
// every item so that rotated credentials take effect mid-run.
type CredentialSource interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// StaticCredentials is a CredentialSource that never changes.
type StaticCredentials Credentials

// Credentials returns the fixed credentials.
func (s StaticCredentials) Credentials(ctx context.Context) (Credentials, error) {
	return Credentials(s), nil
}
