package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/vidnavigator/vidnav/internal/auth"
	"github.com/vidnavigator/vidnav/internal/logger"
)

// authMiddleware requires the configured API key in the Authorization
// header, either bare or as "Bearer <key>". An empty apiKey disables it.
func authMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, err := auth.ParseAuthHeader(r.Header.Get("Authorization"))
			if err != nil {
				detail := "invalid_auth_header"
				if errors.Is(err, auth.ErrMissingAuthHeader) {
					detail = "missing_auth_header"
				}
				logRuntimeError("authentication_failed", detail, r)
				writeError(w, http.StatusUnauthorized, "Unauthorized: "+err.Error())
				return
			}
			if !auth.ValidateAPIKey(key, apiKey) {
				logRuntimeError("authentication_failed", "invalid_api_key", r)
				writeError(w, http.StatusUnauthorized, "Unauthorized: invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// logRuntimeError records a request failure with its request id
func logRuntimeError(errorType, detail string, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())
	if requestID == "" {
		requestID = "unknown"
	}
	logger.LogError("server", "request_id=%s error_type=%s detail=%s path=%s method=%s remote=%s",
		requestID, errorType, detail, r.URL.Path, r.Method, r.RemoteAddr)
}
