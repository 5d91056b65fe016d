package vidnav

import (
	"context"
	"net/http"

	"github.com/vidnavigator/vidnav/internal/auth"
	"github.com/vidnavigator/vidnav/internal/mcp"
)

// AuthenticatedTransport sends a built request with the bearer token of
// creds attached and returns the decoded response body.
type AuthenticatedTransport interface {
	Send(ctx context.Context, creds Credentials, req *mcp.HTTPRequest) (any, error)
}

// TransportFunc adapts a function to AuthenticatedTransport.
type TransportFunc func(ctx context.Context, creds Credentials, req *mcp.HTTPRequest) (any, error)

// Send calls f.
func (f TransportFunc) Send(ctx context.Context, creds Credentials, req *mcp.HTTPRequest) (any, error) {
	return f(ctx, creds, req)
}

// HTTPTransport is the AuthenticatedTransport backed by net/http.
type HTTPTransport struct {
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// Send implements AuthenticatedTransport.
func (t HTTPTransport) Send(ctx context.Context, creds Credentials, req *mcp.HTTPRequest) (any, error) {
	return NewClient(creds, t.HTTPClient).Do(ctx, req)
}

// NewClient returns an mcp.Client that authenticates as creds.
func NewClient(creds Credentials, httpClient *http.Client) *mcp.Client {
	token := creds.Token
	return mcp.NewClient(httpClient, auth.Bearer(func(context.Context) (string, error) {
		return token, nil
	}))
}
