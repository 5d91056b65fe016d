package server

import (
	"encoding/json"
	"net/http"
)

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Tools   int    `json:"tools"`
}

func (s *ToolServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: s.opts.Version,
		Tools:   len(toolNames),
	})
}

// handleTools returns the remote tool selection list
func (s *ToolServer) handleTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": s.discover(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
