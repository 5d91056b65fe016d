// Package auth handles the Authorization header in both directions: it
// attaches the VidNavigator bearer token to outbound requests, and parses
// the API key presented to the local MCP server.
//
// Example usage:
//
//	provider := auth.Bearer(func(ctx context.Context) (string, error) {
//		return token, nil
//	})
//	if err := provider.Authenticate(ctx, req); err != nil {
//		// handle error
//	}
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/vidnavigator/vidnav/internal/logger"
)

var logAuth = logger.New("auth:header")

var (
	// ErrMissingAuthHeader is returned when the Authorization header is missing
	ErrMissingAuthHeader = errors.New("missing Authorization header")
	// ErrInvalidAuthHeader is returned when the Authorization header format is invalid
	ErrInvalidAuthHeader = errors.New("invalid Authorization header format")
)

const bearerPrefix = "Bearer "

// TokenFunc resolves the bearer token for one outbound request.
type TokenFunc func(ctx context.Context) (string, error)

// Provider injects credentials into an outbound request.
type Provider interface {
	Authenticate(ctx context.Context, req *http.Request) error
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, req *http.Request) error

// Authenticate calls f.
func (f ProviderFunc) Authenticate(ctx context.Context, req *http.Request) error {
	return f(ctx, req)
}

// Bearer returns a Provider that sets "Authorization: Bearer <token>",
// resolving the token on every call so rotated credentials are picked up.
func Bearer(tokens TokenFunc) Provider {
	return ProviderFunc(func(ctx context.Context, req *http.Request) error {
		token, err := tokens(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve token: %w", err)
		}
		if token == "" {
			logAuth.Print("Sending request without a token")
		}
		req.Header.Set("Authorization", BearerHeader(token))
		return nil
	})
}

// BearerHeader formats token as a Bearer Authorization value.
func BearerHeader(token string) string {
	return bearerPrefix + token
}

// ParseAuthHeader extracts the API key from an inbound Authorization header.
// Both the bare key and "Bearer <key>" are accepted.
func ParseAuthHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}
	if key, ok := strings.CutPrefix(authHeader, bearerPrefix); ok {
		key = strings.TrimSpace(key)
		if key == "" {
			return "", ErrInvalidAuthHeader
		}
		return key, nil
	}
	if strings.ContainsAny(authHeader, " \t") {
		return "", ErrInvalidAuthHeader
	}
	return authHeader, nil
}

// ValidateAPIKey reports whether provided matches expected. An empty
// expected key disables authentication.
func ValidateAPIKey(provided, expected string) bool {
	if expected == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}
