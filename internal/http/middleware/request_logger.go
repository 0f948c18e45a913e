package middleware

import (
	"net/http"
	"regexp"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/listing-lead-relay/internal/requestid"
	"github.com/wolfman30/listing-lead-relay/pkg/logging"
)

// RequestIDHeader carries the correlation id in both directions.
const RequestIDHeader = "X-Request-ID"

var validRequestID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// RequestLogger assigns the correlation id and emits structured logs for
// every HTTP request. A well-formed inbound X-Request-ID is kept.
func RequestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get(RequestIDHeader)
			if !validRequestID.MatchString(reqID) {
				reqID = requestid.New()
			}
			w.Header().Set(RequestIDHeader, reqID)
			r = r.WithContext(requestid.WithID(r.Context(), reqID))

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"req_id", reqID,
				"remote_ip", r.RemoteAddr,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
