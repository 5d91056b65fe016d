package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// responseWriter wraps http.ResponseWriter to capture the status code and
// the number of bytes written
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int
}

// newResponseWriter creates a new responseWriter with default status code
func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.written += n
	return n, err
}

// Flush keeps streamed MCP responses flowing through the wrapper
func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withRequestLogging logs one line per request to the debug logger
func withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw := newResponseWriter(w)
		next.ServeHTTP(lw, r)
		logHTTP.Printf("[%s] %s %s status=%d bytes=%d duration=%s request_id=%s",
			r.RemoteAddr, r.Method, r.URL.Path, lw.statusCode, lw.written, time.Since(start), middleware.GetReqID(r.Context()))
	})
}
