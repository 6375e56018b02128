package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// MismatchMessage is returned for requests outside the configured context path.
const MismatchMessage = "The requested URL does not belong to this application"

// ContextPath returns middleware that mounts the wrapped handler under prefix.
// Requests whose path is prefix, or starts with prefix followed by "/", are
// forwarded with the prefix removed; anything else is answered with 404 and
// never reaches next. An empty prefix or "/" passes every request through.
func ContextPath(prefix string, logger *slog.Logger) func(http.Handler) http.Handler {
	if prefix == "" || prefix == "/" {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rest, ok := stripPrefix(r.URL.Path, prefix)
			if !ok {
				logger.DebugContext(r.Context(), "request outside context path",
					"path", r.URL.Path,
					"context_path", prefix,
					"request_id", RequestIDFromContext(r.Context()),
				)
				writeError(w, http.StatusNotFound, MismatchMessage)
				return
			}

			r2 := r.Clone(r.Context())
			r2.URL.Path = rest
			r2.URL.RawPath = ""
			if r.URL.RawPath != "" {
				if rawRest, ok := stripPrefix(r.URL.RawPath, prefix); ok {
					r2.URL.RawPath = rawRest
				}
			}
			r2.RequestURI = r2.URL.RequestURI()
			next.ServeHTTP(w, r2)
		})
	}
}

// stripPrefix removes prefix from path on a segment boundary. "/app" matches
// "/app" and "/app/users" but not "/application".
func stripPrefix(path, prefix string) (string, bool) {
	if path == prefix {
		return "/", true
	}
	if strings.HasPrefix(path, prefix+"/") {
		return path[len(prefix):], true
	}
	return "", false
}

// errorResponse matches the error body written by the handlers.
type errorResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Message: message, StatusCode: status})
}
