package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vidnavigator/vidnav/internal/auth"
	"github.com/vidnavigator/vidnav/internal/logger"
)

var logClient = logger.New("mcp:client")

// maxErrorBody caps how much of a failed response body ends up in HTTPError.
const maxErrorBody = 512

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request failed with status %s", e.Status)
	}
	return fmt.Sprintf("request failed with status %s: %s", e.Status, e.Body)
}

// Client sends HTTPRequests with authentication applied. It makes exactly
// one attempt per call and adds no timeout of its own; the http.Client and
// the context decide that.
type Client struct {
	httpClient *http.Client
	auth       auth.Provider
}

// NewClient returns a Client. A nil httpClient means http.DefaultClient and
// a nil provider sends requests unauthenticated.
func NewClient(httpClient *http.Client, provider auth.Provider) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, auth: provider}
}

// Do sends req and decodes the response body. JSON bodies are returned as
// decoded values (map, slice, string, float64, bool or nil); a body that is
// not JSON is returned as a string and an empty body as nil.
func (c *Client) Do(ctx context.Context, req *HTTPRequest) (any, error) {
	body, err := req.EncodeBody()
	if err != nil {
		return nil, err
	}
	fullURL, err := req.FullURL()
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader = http.NoBody
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range req.Header {
		httpReq.Header[key] = append([]string(nil), values...)
	}
	if c.auth != nil {
		if err := c.auth.Authenticate(ctx, httpReq); err != nil {
			return nil, err
		}
	}

	method := req.RPCMethod()
	logClient.Printf("Sending %s %s rpc=%q, body=%d bytes", req.Method, req.URL, method, len(body))
	logger.LogRPCRequest(logger.RPCDirectionOutbound, req.URL, method, body)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.LogRPCResponse(logger.RPCDirectionInbound, req.URL, nil, err)
		return nil, fmt.Errorf("request to %s failed: %w", req.URL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.LogRPCResponse(logger.RPCDirectionInbound, req.URL, nil, err)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		httpErr := &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       truncate(strings.TrimSpace(string(respBody)), maxErrorBody),
		}
		logger.LogRPCResponse(logger.RPCDirectionInbound, req.URL, respBody, httpErr)
		logClient.Printf("Request failed: status=%d", resp.StatusCode)
		return nil, httpErr
	}

	logger.LogRPCResponse(logger.RPCDirectionInbound, req.URL, respBody, nil)
	logClient.Printf("Received status=%d, body=%d bytes", resp.StatusCode, len(respBody))
	return decodeBody(respBody), nil
}

func decodeBody(data []byte) any {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return string(data)
	}
	return decoded
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
