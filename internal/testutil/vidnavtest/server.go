// Package vidnavtest provides a fake VidNavigator JSON-RPC endpoint that
// records every request it receives.
package vidnavtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/sourcegraph/jsonrpc2"
)

// Recorded is one request received by the Server
type Recorded struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// JSON decodes the recorded body, or returns nil when it is not JSON
func (r Recorded) JSON() map[string]any {
	var m map[string]any
	if err := json.Unmarshal(r.Body, &m); err != nil {
		return nil
	}
	return m
}

// Server is a fake VidNavigator endpoint backed by httptest
type Server struct {
	*httptest.Server

	config   *Config
	mu       sync.Mutex
	requests []Recorded
}

// NewServer starts a Server and stops it when the test ends
func NewServer(t testing.TB, config *Config) *Server {
	t.Helper()
	if config == nil {
		config = DefaultConfig()
	}
	s := &Server{config: config}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Requests returns a copy of every request received so far
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// Last returns the most recent request. It panics when there is none.
func (s *Server) Last() Recorded {
	reqs := s.Requests()
	return reqs[len(reqs)-1]
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	rec := Recorded{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	}
	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()

	if s.config.Token != "" && r.Header.Get("Authorization") != "Bearer "+s.config.Token {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
		return
	}

	var req jsonrpc2.Request
	if r.Method != http.MethodPost || json.Unmarshal(body, &req) != nil || req.Method == "" {
		s.echo(w, rec)
		return
	}
	s.handleRPC(w, &req)
}

// echo answers non JSON-RPC requests with a description of the request.
func (s *Server) echo(w http.ResponseWriter, rec Recorded) {
	resp := map[string]any{
		"method": rec.Method,
		"path":   rec.Path,
		"query":  rec.Query,
	}
	if len(rec.Body) > 0 {
		resp["body"] = string(rec.Body)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRPC(w http.ResponseWriter, req *jsonrpc2.Request) {
	resp := &jsonrpc2.Response{ID: req.ID}

	switch req.Method {
	case "tools/list":
		tools := make([]map[string]any, 0, len(s.config.Tools))
		for _, t := range s.config.Tools {
			tools = append(tools, map[string]any{"name": t.Name, "description": t.Description})
		}
		var result any = map[string]any{"tools": tools}
		if s.config.BareToolList {
			result = tools
		}
		_ = resp.SetResult(result)

	case "tools/call":
		var params struct {
			Name      string `json:"name"`
			Arguments any    `json:"arguments"`
		}
		if req.Params != nil {
			_ = json.Unmarshal(*req.Params, &params)
		}
		tool, ok := s.config.tool(params.Name)
		if !ok {
			resp.Error = &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "unknown tool: " + params.Name}
			break
		}
		if tool.Handler == nil {
			_ = resp.SetResult(map[string]any{"name": params.Name, "arguments": params.Arguments})
			break
		}
		result, err := tool.Handler(params.Arguments)
		if err != nil {
			resp.Error = &jsonrpc2.Error{Code: jsonrpc2.CodeInternalError, Message: err.Error()}
			break
		}
		_ = resp.SetResult(result)

	default:
		resp.Error = &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "method not found: " + req.Method}
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
