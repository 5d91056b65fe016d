// Package mcp speaks JSON-RPC 2.0 over plain HTTP POST to a remote MCP
// endpoint. It owns the request envelope and the authenticated transport;
// it knows nothing about which tools the endpoint offers.
package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sourcegraph/jsonrpc2"
)

// JSON-RPC methods used against the remote endpoint
const (
	MethodToolsList = "tools/list"
	MethodToolsCall = "tools/call"
)

// now provides request ids; tests replace it.
var now = time.Now

// CallToolParams is the params object of a tools/call request. Arguments is
// usually an object but is sent as-is, whatever its type.
type CallToolParams struct {
	Name      string `json:"name"`
	Arguments any    `json:"arguments"`
}

// NewRequest builds a JSON-RPC request whose id is the current Unix time in
// milliseconds. The id is not used to correlate responses.
func NewRequest(method string, params any) (*jsonrpc2.Request, error) {
	return NewRequestWithID(uint64(now().UnixMilli()), method, params)
}

// NewRequestWithID builds a JSON-RPC request with a fixed numeric id.
func NewRequestWithID(id uint64, method string, params any) (*jsonrpc2.Request, error) {
	req := &jsonrpc2.Request{
		Method: method,
		ID:     jsonrpc2.ID{Num: id},
	}
	if err := req.SetParams(params); err != nil {
		return nil, fmt.Errorf("failed to encode %s params: %w", method, err)
	}
	return req, nil
}

// RawBody is a request body sent byte-for-byte, without JSON encoding.
type RawBody string

// HTTPRequest is a fully built outbound request, ready to be authenticated
// and sent by a Client.
type HTTPRequest struct {
	Method string
	URL    string
	Query  url.Values
	Header http.Header
	// Body is nil, a RawBody, or any JSON-encodable value.
	Body any
}

// DefaultHeader returns the headers sent with every request.
func DefaultHeader() http.Header {
	h := make(http.Header)
	h.Set("Accept", "application/json")
	h.Set("Content-Type", "application/json")
	return h
}

// EncodeBody returns the wire bytes of the body, or nil when there is none.
func (r *HTTPRequest) EncodeBody() ([]byte, error) {
	switch body := r.Body.(type) {
	case nil:
		return nil, nil
	case RawBody:
		return []byte(body), nil
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		return data, nil
	}
}

// RPCMethod returns the JSON-RPC method carried in the body, or "" for raw
// requests.
func (r *HTTPRequest) RPCMethod() string {
	if rpc, ok := r.Body.(*jsonrpc2.Request); ok {
		return rpc.Method
	}
	return ""
}

// FullURL merges Query into the URL's existing query string.
func (r *HTTPRequest) FullURL() (string, error) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return "", fmt.Errorf("invalid request URL %q: %w", r.URL, err)
	}
	if len(r.Query) == 0 {
		return u.String(), nil
	}
	q := u.Query()
	for key, values := range r.Query {
		q[key] = values
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
