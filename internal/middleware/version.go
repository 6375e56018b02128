package middleware

import "net/http"

// VersionHeader is the response header carrying the deployment label.
const VersionHeader = "version"

// Version sets the version header on every response, including responses
// produced by middleware further down the chain.
func Version(label string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(VersionHeader, label)
			next.ServeHTTP(w, r)
		})
	}
}
