package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vidnavigator/vidnav/internal/logger"
)

var logHTTP = logger.New("server:transport")

// shutdownTimeout bounds graceful shutdown of the HTTP server
const shutdownTimeout = 5 * time.Second

// Handler returns the HTTP routes of the server. /health is always open;
// /tools and /mcp require apiKey when it is set.
func (s *ToolServer) Handler(apiKey string) http.Handler {
	logHTTP.Printf("Creating HTTP handler: auth_enabled=%v", apiKey != "")

	mcpHandler := sdk.NewStreamableHTTPHandler(func(r *http.Request) *sdk.Server {
		logger.LogInfo("client", "MCP connection established, remote=%s, method=%s, path=%s", r.RemoteAddr, r.Method, r.URL.Path)
		return s.server
	}, nil)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(withRequestLogging)

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(apiKey))
		r.Get("/tools", s.handleTools)
		r.Handle("/mcp", mcpHandler)
		r.Handle("/mcp/*", mcpHandler)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

// ListenAndServe serves HTTP on addr until ctx is cancelled
func (s *ToolServer) ListenAndServe(ctx context.Context, addr, apiKey string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(apiKey),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.LogInfo("startup", "Serving MCP over HTTP on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
		logger.LogInfo("shutdown", "Shutting down HTTP server on %s", addr)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
