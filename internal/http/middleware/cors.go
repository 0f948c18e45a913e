package middleware

import (
	"net/http"
	"strings"
)

const (
	corsAllowedMethods = "POST, OPTIONS"
	corsAllowedHeaders = "Content-Type"
)

// CORS sets cross-origin headers for the lead form. A listed Origin is echoed
// back; any other caller gets "*". Preflight answers are left to the wrapped
// handler.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allow := map[string]struct{}{}
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		allow[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allowOrigin(allow, strings.TrimSpace(r.Header.Get("Origin"))))
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Methods", corsAllowedMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowedHeaders)
			h.Set("Access-Control-Max-Age", "600")

			next.ServeHTTP(w, r)
		})
	}
}

func allowOrigin(allow map[string]struct{}, origin string) string {
	if origin == "" {
		return "*"
	}
	if _, ok := allow[origin]; ok {
		return origin
	}
	return "*"
}
